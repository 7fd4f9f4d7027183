package commands

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"WebCarros/internal/cli/bootstrap"
	"WebCarros/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCmd позволяет управлять возвратом ошибок из Run
type fakeCmd struct {
	name, usage, desc string
	run               func(ctx context.Context, app *bootstrap.App, args []string) error
}

func (f fakeCmd) Name() string        { return f.name }
func (f fakeCmd) Description() string { return f.desc }
func (f fakeCmd) Usage() string       { return f.usage }
func (f fakeCmd) Run(ctx context.Context, app *bootstrap.App, args []string) error {
	return f.run(ctx, app, args)
}

func TestDispatcher_HelpAndUnknown(t *testing.T) {
	_, cfg := withMemoryBackend(t)

	out := withStdoutCapture(t, func() { _ = Dispatch(context.Background(), cfg, []string{}) })
	assert.Contains(t, out, "WebCarros CLI")
	assert.Contains(t, out, "Account:")
	assert.Contains(t, out, "Listing draft:")
	for _, name := range []string{"login", "register", "logout", "status", "image-add", "image-rm", "images", "listing-new", "listing-get"} {
		assert.Contains(t, out, name)
	}

	out = withStdoutCapture(t, func() { _ = Dispatch(context.Background(), cfg, []string{"help"}) })
	assert.Contains(t, out, "Usage:")

	var code int
	out = withStdoutCapture(t, func() { code = Dispatch(context.Background(), cfg, []string{"help", "login"}) })
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Usage: login <email> <password>")

	out = withStdoutCapture(t, func() { _ = Dispatch(context.Background(), cfg, []string{"help", "nope"}) })
	assert.Contains(t, out, "Unknown command")

	withStdoutCapture(t, func() { code = Dispatch(context.Background(), cfg, []string{"no-such"}) })
	assert.Equal(t, 2, code)
}

func TestDispatcher_RunPaths(t *testing.T) {
	_, cfg := withMemoryBackend(t)

	RegisterCmd(fakeCmd{name: "x", usage: "x", run: func(_ context.Context, app *bootstrap.App, _ []string) error {
		if app == nil || app.Auth == nil {
			return fmt.Errorf("app not built")
		}
		return nil
	}})
	RegisterCmd(fakeCmd{name: "u", usage: "u <arg>", run: func(context.Context, *bootstrap.App, []string) error { return ErrUsage }})
	RegisterCmd(fakeCmd{name: "e", usage: "e", run: func(context.Context, *bootstrap.App, []string) error { return fmt.Errorf("boom") }})
	RegisterCmd(fakeCmd{name: "r", usage: "r", run: func(context.Context, *bootstrap.App, []string) error { return errReported }})
	t.Cleanup(func() {
		for _, n := range []string{"x", "u", "e", "r"} {
			delete(registry, n)
		}
	})

	var code int
	withStdoutCapture(t, func() { code = Dispatch(context.Background(), cfg, []string{"x"}) })
	assert.Equal(t, 0, code)

	out := withStdoutCapture(t, func() { code = Dispatch(context.Background(), cfg, []string{"u"}) })
	assert.Equal(t, 2, code)
	assert.Contains(t, out, "Usage: u <arg>")

	out = withStdoutCapture(t, func() { code = Dispatch(context.Background(), cfg, []string{"e"}) })
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "e error: boom")

	out = withStdoutCapture(t, func() { code = Dispatch(context.Background(), cfg, []string{"r"}) })
	assert.Equal(t, 1, code)
	assert.Empty(t, out)
}

func TestDispatcher_AppBuildError(t *testing.T) {
	old := newApp
	newApp = func(*config.Config) (*bootstrap.App, error) { return nil, fmt.Errorf("no backend") }
	t.Cleanup(func() { newApp = old })

	var code int
	out := withStdoutCapture(t, func() { code = Dispatch(context.Background(), &config.Config{}, []string{"status"}) })
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "status error: no backend")
}

func TestStatus_AnonymousSignedAndUsage(t *testing.T) {
	be, cfg := withMemoryBackend(t)

	out := withStdoutCapture(t, func() {
		require.Equal(t, 0, Dispatch(context.Background(), cfg, []string{"status"}))
	})
	assert.Contains(t, out, "Status: anonymous")

	out = withStdoutCapture(t, func() {
		require.Equal(t, 0, Dispatch(context.Background(), cfg, []string{"register", "Ana", "ana@x.com", "secret1", "Revendedor"}))
	})
	assert.Contains(t, out, "Cadastrado com sucesso!")

	out = withStdoutCapture(t, func() {
		require.Equal(t, 0, Dispatch(context.Background(), cfg, []string{"status"}))
	})
	assert.Contains(t, out, "Status: signed in")
	assert.Contains(t, out, "name:  Ana")
	assert.Contains(t, out, "email: ana@x.com")
	// роль не хранится в бэкенде, она берётся из локального хранилища
	assert.Contains(t, out, "role:  revendedor")
	assert.Equal(t, 1, be.Calls("SignUp"))

	out = withStdoutCapture(t, func() {
		assert.Equal(t, 2, Dispatch(context.Background(), cfg, []string{"status", "extra"}))
	})
	assert.True(t, strings.HasPrefix(out, "Usage: status"))
}
