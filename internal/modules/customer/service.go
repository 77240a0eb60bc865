package customer

import (
	"context"
	"errors"
	"strings"

	"roomdesk/internal/domain"
	"roomdesk/internal/repository"
)

var ErrValidation = errors.New("validation failed")

const defaultLimit = 50

type Service struct {
	customers *repository.CustomerRepository
}

func NewService(customers *repository.CustomerRepository) *Service {
	return &Service{customers: customers}
}

// Search matches customers by name or phone fragment. An empty query
// returns the most recent customers.
func (s *Service) Search(ctx context.Context, storeID int64, query string, limit int) ([]domain.Customer, error) {
	if limit <= 0 || limit > 200 {
		limit = defaultLimit
	}
	return s.customers.Search(ctx, storeID, strings.TrimSpace(query), limit)
}

// Register looks up a customer by phone, creating one if the store has
// never seen the number before.
func (s *Service) Register(ctx context.Context, storeID int64, name, phone string) (*domain.Customer, error) {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	if name == "" || phone == "" {
		return nil, ErrValidation
	}
	return s.customers.GetOrCreateByPhone(ctx, storeID, name, phone)
}
