package auth

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"roomdesk/internal/domain"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

type tokenIssuer interface {
	GenerateToken(staffID, storeID int64, username, role string) (string, error)
}

type StaffRepository interface {
	GetByUsername(ctx context.Context, username string) (*domain.Staff, error)
	GetStore(ctx context.Context, id int64) (*domain.Store, error)
}

type Service struct {
	staff StaffRepository
	jwt   tokenIssuer
}

type LoginResult struct {
	Staff *domain.Staff
	Store *domain.Store
	Token string
}

func NewService(staff StaffRepository, jwt tokenIssuer) *Service {
	return &Service{staff: staff, jwt: jwt}
}

func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(strings.ToLower(username))
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	staff, err := s.staff.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Burn a bcrypt round so missing and wrong-password logins
			// take the same time.
			bcrypt.CompareHashAndPassword([]byte("$2a$10$invalidinvalidinvalidinvalidinvalidinvalidinvalidinva"), []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(staff.ID, staff.StoreID, staff.Username, string(staff.Role))
	if err != nil {
		return nil, err
	}

	store, err := s.staff.GetStore(ctx, staff.StoreID)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Staff: staff, Store: store, Token: token}, nil
}

// HashPassword is used by seeding and staff provisioning.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
