package service

import (
	"WebCarros/internal/metrics"
	"WebCarros/internal/model"
	"WebCarros/internal/repo"
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ImagesRoot — корень пользовательских файлов: images/<uid>/<name>.
const ImagesRoot = "images"

var (
	ErrInvalidPath   = errors.New("invalid blob path")
	ErrForbiddenPath = errors.New("path is not owned by user")
	ErrBlobNotFound  = errors.New("blob not found")
	ErrBlobTooLarge  = errors.New("blob too large")
	ErrEmptyBlob     = errors.New("empty blob")
)

var segmentRe = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// BlobService — файловое хранилище с публичными ссылками на скачивание.
type BlobService struct {
	repo      repo.BlobRepository
	logger    *zap.SugaredLogger
	metrics   metrics.Recorder
	publicURL string
	maxSize   int64
}

func NewBlobService(r repo.BlobRepository, logger *zap.SugaredLogger, m metrics.Recorder, publicURL string, maxSize int64) *BlobService {
	if m == nil {
		m = metrics.Nop{}
	}
	return &BlobService{
		repo:      r,
		logger:    logger,
		metrics:   m,
		publicURL: strings.TrimRight(publicURL, "/"),
		maxSize:   maxSize,
	}
}

// splitPath разбирает путь images/<uid>/<name> и возвращает uid владельца.
func splitPath(path string) (owner string, err error) {
	parts := strings.Split(path, "/")
	if len(parts) != 3 || parts[0] != ImagesRoot {
		return "", ErrInvalidPath
	}
	for _, p := range parts[1:] {
		if p == "." || p == ".." || !segmentRe.MatchString(p) {
			return "", ErrInvalidPath
		}
	}
	return parts[1], nil
}

func checkOwner(userID, path string) error {
	owner, err := splitPath(path)
	if err != nil {
		return err
	}
	if owner != userID {
		return ErrForbiddenPath
	}
	return nil
}

// Save записывает объект по пути, принадлежащему пользователю. Существующий объект перезаписывается.
func (s *BlobService) Save(ctx context.Context, userID, path, contentType string, data []byte) (bool, error) {
	if err := checkOwner(userID, path); err != nil {
		return false, err
	}
	if len(data) == 0 {
		return false, ErrEmptyBlob
	}
	if s.maxSize > 0 && int64(len(data)) > s.maxSize {
		return false, ErrBlobTooLarge
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	created, err := s.repo.Put(ctx, &model.Blob{
		Path:          path,
		OwnerID:       userID,
		ContentType:   contentType,
		Size:          int64(len(data)),
		Data:          data,
		DownloadToken: uuid.NewString(),
	})
	s.metrics.RecordBlobOp("upload", err == nil)
	if err != nil {
		return false, fmt.Errorf("save blob: %w", err)
	}
	s.metrics.RecordBlobBytes(int64(len(data)))
	s.logger.Debugw("blob saved", "path", path, "size", len(data), "created", created)
	return created, nil
}

// DownloadURL возвращает постоянную ссылку на скачивание объекта.
func (s *BlobService) DownloadURL(ctx context.Context, path string) (string, error) {
	if _, err := splitPath(path); err != nil {
		return "", err
	}
	b, err := s.repo.Get(ctx, path)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrBlobNotFound
	}
	if err != nil {
		return "", err
	}
	return s.buildURL(b), nil
}

func (s *BlobService) buildURL(b *model.Blob) string {
	parts := strings.Split(b.Path, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	q := url.Values{"token": {b.DownloadToken}}
	return s.publicURL + "/files/" + strings.Join(parts, "/") + "?" + q.Encode()
}

// Delete удаляет объект пользователя. Отсутствующий объект — ErrBlobNotFound.
func (s *BlobService) Delete(ctx context.Context, userID, path string) error {
	if err := checkOwner(userID, path); err != nil {
		return err
	}
	deleted, err := s.repo.Delete(ctx, path)
	s.metrics.RecordBlobOp("delete", err == nil && deleted)
	if err != nil {
		return fmt.Errorf("delete blob: %w", err)
	}
	if !deleted {
		return ErrBlobNotFound
	}
	return nil
}

// Open отдаёт объект по публичной ссылке; токен должен совпадать.
func (s *BlobService) Open(ctx context.Context, path, token string) (*model.Blob, error) {
	b, err := s.repo.Get(ctx, path)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBlobNotFound
	}
	if err != nil {
		return nil, err
	}
	if subtle.ConstantTimeCompare([]byte(b.DownloadToken), []byte(token)) != 1 {
		return nil, ErrBlobNotFound
	}
	return b, nil
}
