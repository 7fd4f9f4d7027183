package fs

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"WebCarros/internal/cli/repo"
)

// AuthFSStore — файловое хранилище токена и роли пользователя для CLI.
// Роли лежат рядом с файлом токена: role_<uid>.
type AuthFSStore struct {
	TokenFile string
}

var (
	_ repo.TokenStore = AuthFSStore{}
	_ repo.RoleStore  = AuthFSStore{}
)

var uidRe = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

func NewAuthFSStore(tokenFile string) AuthFSStore {
	return AuthFSStore{TokenFile: tokenFile}
}

func (s AuthFSStore) dir() (string, error) {
	if s.TokenFile == "" {
		return "", errors.New("token file path is not configured")
	}
	d := filepath.Dir(s.TokenFile)
	if err := os.MkdirAll(d, 0o700); err != nil {
		return "", err
	}
	return d, nil
}

func (s AuthFSStore) rolePath(uid string) (string, error) {
	if !uidRe.MatchString(uid) {
		return "", errors.New("invalid uid for role file")
	}
	d, err := s.dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "role_"+uid), nil
}

// Save сохраняет auth‑токен в файл.
func (s AuthFSStore) Save(token string) error {
	if _, err := s.dir(); err != nil {
		return err
	}
	return os.WriteFile(s.TokenFile, []byte(token), 0o600)
}

// Load читает auth‑токен из файла.
func (s AuthFSStore) Load() (string, error) {
	if s.TokenFile == "" {
		return "", repo.ErrNoToken
	}
	b, err := os.ReadFile(s.TokenFile)
	if errors.Is(err, os.ErrNotExist) {
		return "", repo.ErrNoToken
	}
	if err != nil {
		return "", err
	}
	// обрезаем завершающие переводы строки/пробелы
	tok := strings.TrimRight(string(b), "\r\n\t ")
	if tok == "" {
		return "", repo.ErrNoToken
	}
	return tok, nil
}

// Clear удаляет файл токена. Отсутствующий файл не ошибка.
func (s AuthFSStore) Clear() error {
	if s.TokenFile == "" {
		return nil
	}
	err := os.Remove(s.TokenFile)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// SaveRole запоминает роль пользователя.
func (s AuthFSStore) SaveRole(uid, role string) error {
	if role == "" {
		return errors.New("empty role")
	}
	p, err := s.rolePath(uid)
	if err != nil {
		return err
	}
	return os.WriteFile(p, []byte(role), 0o600)
}

// LoadRole читает роль пользователя. "" без ошибки, если роль не сохранялась.
func (s AuthFSStore) LoadRole(uid string) (string, error) {
	p, err := s.rolePath(uid)
	if err != nil {
		return "", err
	}
	b, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(b), "\r\n\t "), nil
}
