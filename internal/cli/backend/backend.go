// Package backend описывает возможности сервиса, на которые опирается клиент:
// идентификация, файловое хранилище и хранилище документов.
package backend

import (
	"context"
	"errors"
)

// ErrNotFound — объект или документ отсутствует.
var ErrNotFound = errors.New("not found")

// Principal — пользователь, каким его видит сервис идентификации.
type Principal struct {
	UID         string `json:"uid"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

// Profile — изменяемые поля профиля.
type Profile struct {
	DisplayName string `json:"display_name"`
}

// BlobRef — ссылка на записанный объект.
type BlobRef struct {
	Path string
}

// Identity — вход, регистрация, профиль и поток изменений пользователя.
type Identity interface {
	SignIn(ctx context.Context, email, password string) (*Principal, error)
	SignUp(ctx context.Context, email, password string) (*Principal, error)
	UpdateProfile(ctx context.Context, p *Principal, profile Profile) error
	SignOut(ctx context.Context) error
	// OnIdentityChange вызывает fn при каждом изменении пользователя (nil — выход).
	// Возвращаемая функция отменяет подписку.
	OnIdentityChange(fn func(*Principal)) (unsubscribe func())
}

// BlobStore — объекты по пути с постоянными ссылками на скачивание.
type BlobStore interface {
	BlobWrite(ctx context.Context, path string, data []byte, contentType string) (BlobRef, error)
	BlobReadURL(ctx context.Context, ref BlobRef) (string, error)
	BlobDelete(ctx context.Context, path string) error
}

// DocStore — коллекции JSON-документов.
type DocStore interface {
	// DocCreate сохраняет record и возвращает id нового документа.
	DocCreate(ctx context.Context, collection string, record any) (string, error)
	// DocGet читает документ в out.
	DocGet(ctx context.Context, collection, id string, out any) error
}

// Backend объединяет все возможности.
type Backend interface {
	Identity
	BlobStore
	DocStore
}
