package repo

import "errors"

// ErrNoToken — токен ещё не сохранён.
var ErrNoToken = errors.New("no stored auth token")

// TokenStore описывает абстракцию хранилища auth-токена на клиенте.
type TokenStore interface {
	Save(token string) error
	// Load возвращает ErrNoToken, если токена нет.
	Load() (string, error)
	Clear() error
}
