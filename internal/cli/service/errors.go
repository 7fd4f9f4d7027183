package service

import "errors"

// Ошибки сценариев клиента. Ошибки бэкенда оборачиваются ими через %w.
var (
	ErrAuth             = errors.New("authentication failed")
	ErrUpload           = errors.New("image upload failed")
	ErrDelete           = errors.New("image delete failed")
	ErrSubmit           = errors.New("listing submit failed")
	ErrNoImages         = errors.New("listing has no images")
	ErrUploadPending    = errors.New("image upload still in progress")
	ErrUnsupportedImage = errors.New("unsupported image type")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrDraftNotCleared  = errors.New("listing created but draft was not cleared")
)
