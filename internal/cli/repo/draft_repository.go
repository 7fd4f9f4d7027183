package repo

import "WebCarros/internal/cli/model"

// DraftRepository — локальное хранилище черновика объявления одного пользователя.
type DraftRepository interface {
	// SaveImage добавляет изображение в черновик.
	SaveImage(img model.ImageDescriptor) error

	// DeleteImageByURL убирает изображение с точным совпадением RemoteURL.
	// Возвращает false, если такого не было.
	DeleteImageByURL(remoteURL string) (bool, error)

	// ListImages возвращает изображения в порядке Seq.
	ListImages() ([]model.ImageDescriptor, error)

	// NextSeq резервирует n последовательных номеров и возвращает первый.
	NextSeq(n int) (int64, error)

	SaveFields(form model.ListingForm) error
	// LoadFields возвращает пустую форму, если поля ещё не сохранялись.
	LoadFields() (model.ListingForm, error)

	// Clear очищает изображения и поля.
	Clear() error
}
