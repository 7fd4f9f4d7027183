package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"WebCarros/internal/cli/backend/memory"
	"WebCarros/internal/cli/bootstrap"
	fsrepo "WebCarros/internal/cli/repo/fs"
	"WebCarros/internal/config"
)

// withMemoryBackend подменяет фабрику приложения: все команды теста работают
// с одним бэкендом в памяти, а токен/роли/черновики лежат во временном каталоге.
func withMemoryBackend(t *testing.T) (*memory.Backend, *config.Config) {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		ClientDBPath: filepath.Join(dir, "users"),
		TokenFile:    filepath.Join(dir, "auth_token"),
	}
	be := memory.New()
	roles := fsrepo.NewAuthFSStore(cfg.TokenFile)

	old := newApp
	newApp = func(c *config.Config) (*bootstrap.App, error) {
		return bootstrap.NewAppWithBackend(c, be, roles, Out, nil)
	}
	t.Cleanup(func() { newApp = old })
	return be, cfg
}

// перехват stdout на время теста
func withStdoutCapture(t *testing.T, fn func()) string {
	t.Helper()
	old := Out
	var buf bytes.Buffer
	Out = &buf
	defer func() { Out = old }()
	fn()
	return buf.String()
}

// writeTempFile создаёт файл с содержимым и возвращает путь к нему.
func writeTempFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, data, 0o600); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
	return p
}

// pngBytes — минимальная сигнатура PNG, достаточная для определения типа.
var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
