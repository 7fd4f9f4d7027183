package repo

import (
	"WebCarros/internal/model"
	"context"

	"gorm.io/gorm"
)

// DocumentRepository — запись и чтение документов коллекций.
type DocumentRepository interface {
	Create(ctx context.Context, doc *model.Document) error
	// Get возвращает gorm.ErrRecordNotFound, если документа нет в коллекции.
	Get(ctx context.Context, collection, id string) (*model.Document, error)
}

type documentRepo struct {
	db *gorm.DB
}

// NewDocumentRepository создаёт реализацию репозитория документов.
func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepo{db: db}
}

func (r *documentRepo) Create(ctx context.Context, doc *model.Document) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

func (r *documentRepo) Get(ctx context.Context, collection, id string) (*model.Document, error) {
	var d model.Document
	err := r.db.WithContext(ctx).Where("collection = ? AND id = ?", collection, id).First(&d).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}
