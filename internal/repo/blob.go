package repo

import (
	"WebCarros/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

// BlobRepository минимальный контракт доступа к Blob.
type BlobRepository interface {
	// Put создаёт объект или перезаписывает существующий по тому же пути.
	// Возвращает created=true, если объект появился в этой операции.
	Put(ctx context.Context, b *model.Blob) (created bool, err error)

	// Get возвращает gorm.ErrRecordNotFound, если объекта нет.
	Get(ctx context.Context, path string) (*model.Blob, error)

	// Delete удаляет объект; deleted=false, если объекта не было.
	Delete(ctx context.Context, path string) (deleted bool, err error)
}

type blobRepo struct {
	db *gorm.DB
}

// NewBlobRepository создаёт реализацию репозитория для Blob.
func NewBlobRepository(db *gorm.DB) BlobRepository {
	return &blobRepo{db: db}
}

func (r *blobRepo) Put(ctx context.Context, b *model.Blob) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Blob
		err := tx.Select("path").Where("path = ?", b.Path).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			created = true
			return tx.Create(b).Error
		case err != nil:
			return err
		}
		return tx.Model(&model.Blob{}).Where("path = ?", b.Path).Updates(map[string]any{
			"owner_id":       b.OwnerID,
			"content_type":   b.ContentType,
			"size":           b.Size,
			"data":           b.Data,
			"download_token": b.DownloadToken,
		}).Error
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

func (r *blobRepo) Get(ctx context.Context, path string) (*model.Blob, error) {
	var b model.Blob
	if err := r.db.WithContext(ctx).Where("path = ?", path).First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *blobRepo) Delete(ctx context.Context, path string) (bool, error) {
	tx := r.db.WithContext(ctx).Where("path = ?", path).Delete(&model.Blob{})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}
