package service

import (
	"WebCarros/internal/metrics"
	"WebCarros/internal/model"
	"WebCarros/internal/repo"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrInvalidCollection = errors.New("invalid collection name")
	ErrInvalidDocument   = errors.New("document must be a JSON object")
	ErrDocNotFound       = errors.New("document not found")
)

var collectionRe = regexp.MustCompile(`^[a-z][a-z0-9_-]{0,63}$`)

// DocumentService — документное хранилище: коллекции JSON-объектов.
type DocumentService struct {
	repo    repo.DocumentRepository
	metrics metrics.Recorder
}

func NewDocumentService(r repo.DocumentRepository, m metrics.Recorder) *DocumentService {
	if m == nil {
		m = metrics.Nop{}
	}
	return &DocumentService{repo: r, metrics: m}
}

// Create сохраняет документ в коллекцию и возвращает его id.
func (s *DocumentService) Create(ctx context.Context, userID, collection string, data []byte) (string, error) {
	if !collectionRe.MatchString(collection) {
		return "", ErrInvalidCollection
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil || obj == nil {
		return "", ErrInvalidDocument
	}

	doc := &model.Document{
		ID:         uuid.NewString(),
		Collection: collection,
		OwnerID:    userID,
		Data:       data,
	}
	if err := s.repo.Create(ctx, doc); err != nil {
		return "", fmt.Errorf("create document: %w", err)
	}
	s.metrics.RecordDocCreated(collection)
	return doc.ID, nil
}

// Get читает документ коллекции по id.
func (s *DocumentService) Get(ctx context.Context, collection, id string) (*model.Document, error) {
	if !collectionRe.MatchString(collection) {
		return nil, ErrInvalidCollection
	}
	doc, err := s.repo.Get(ctx, collection, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDocNotFound
	}
	return doc, err
}
