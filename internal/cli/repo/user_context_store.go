package repo

// RoleStore хранит роль, выбранную при регистрации.
// Сервис идентификации роль не хранит, поэтому клиент помнит её сам.
type RoleStore interface {
	SaveRole(uid, role string) error
	LoadRole(uid string) (string, error)
}
