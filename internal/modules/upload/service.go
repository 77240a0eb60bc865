package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"roomdesk/internal/domain"
	"roomdesk/internal/repository"
)

const maxFileSize = 20 * 1024 * 1024 // 20 MB

var (
	ErrEmptyFile       = errors.New("file is empty")
	ErrFileTooLarge    = errors.New("file exceeds size limit")
	ErrInvalidMimeType = errors.New("file type not allowed")
	ErrInvalidKind     = errors.New("unknown upload kind")
	ErrNotFound        = errors.New("file not found")
)

// Accepted content types, detected from content rather than trusted from
// the client.
var allowedMimeTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"application/pdf": true,
}

type Service struct {
	repo    *repository.UploadRepository
	signer  *Signer
	baseDir string
}

func NewService(repo *repository.UploadRepository, signer *Signer, baseDir string) *Service {
	return &Service{repo: repo, signer: signer, baseDir: baseDir}
}

// Save stores the file under <baseDir>/YYYY/MM/DD/<uuid>_<name><ext> and
// records it. The returned URL is static for public kinds and signed with
// an expiry for private ones.
func (s *Service) Save(ctx context.Context, storeID, staffID int64, kind domain.UploadKind, fileHeader *multipart.FileHeader) (*domain.Upload, string, error) {
	switch kind {
	case domain.UploadPaymentProof, domain.UploadIdentityDoc, domain.UploadDepositPhoto, domain.UploadStoreImage:
	default:
		return nil, "", ErrInvalidKind
	}
	if fileHeader.Size == 0 {
		return nil, "", ErrEmptyFile
	}
	if fileHeader.Size > maxFileSize {
		return nil, "", ErrFileTooLarge
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, "", fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	buf := make([]byte, 512)
	n, _ := file.Read(buf)
	mimeType := strings.Split(http.DetectContentType(buf[:n]), ";")[0]
	if !allowedMimeTypes[mimeType] {
		return nil, "", ErrInvalidMimeType
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, "", fmt.Errorf("rewind upload: %w", err)
	}

	now := time.Now()
	relDir := fmt.Sprintf("%d/%02d/%02d", now.Year(), now.Month(), now.Day())
	absDir := filepath.Join(s.baseDir, relDir)
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return nil, "", fmt.Errorf("create upload dir: %w", err)
	}

	ext := filepath.Ext(fileHeader.Filename)
	if ext == "" {
		ext = mimeToExt(mimeType)
	}
	filename := fmt.Sprintf("%s_%s%s", uuid.New().String(), sanitizeName(fileHeader.Filename), ext)

	absPath := filepath.Join(absDir, filename)
	dst, err := os.Create(absPath)
	if err != nil {
		return nil, "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(absPath)
		return nil, "", fmt.Errorf("write file: %w", err)
	}

	relPath := filepath.ToSlash(filepath.Join(relDir, filename))
	u := &domain.Upload{
		StoreID:      storeID,
		UploadedBy:   staffID,
		Kind:         kind,
		OriginalName: fileHeader.Filename,
		Path:         relPath,
		MimeType:     mimeType,
		Size:         fileHeader.Size,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		os.Remove(absPath)
		return nil, "", fmt.Errorf("save upload record: %w", err)
	}

	return u, s.URL(u), nil
}

// URL builds the serving URL for an upload, signing private kinds.
func (s *Service) URL(u *domain.Upload) string {
	base := "/files/" + u.Path
	if u.Kind.Public() {
		return base
	}
	expires, sig := s.signer.Sign(u.Path)
	return fmt.Sprintf("%s?expires=%d&sig=%s", base, expires, sig)
}

// Resolve authorizes a file request and returns the absolute path to serve.
// Public kinds need no signature; private kinds need a valid, unexpired one.
func (s *Service) Resolve(ctx context.Context, storeID int64, relPath, expires, sig string) (string, error) {
	relPath = filepath.ToSlash(filepath.Clean(relPath))
	if relPath == "." || strings.HasPrefix(relPath, "..") {
		return "", ErrNotFound
	}

	u, err := s.repo.GetByPath(ctx, relPath)
	if err != nil {
		return "", ErrNotFound
	}
	if u.StoreID != storeID {
		return "", ErrNotFound
	}
	if !u.Kind.Public() {
		if err := s.signer.VerifyParams(relPath, expires, sig); err != nil {
			return "", err
		}
	}
	return filepath.Join(s.baseDir, filepath.FromSlash(relPath)), nil
}

func sanitizeName(name string) string {
	name = filepath.Base(name)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return '_'
	}, name)
	if len(name) > 40 {
		name = name[:40]
	}
	if name == "" {
		return "file"
	}
	return name
}

func mimeToExt(mime string) string {
	switch mime {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "application/pdf":
		return ".pdf"
	default:
		return ".bin"
	}
}
