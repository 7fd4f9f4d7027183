package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"WebCarros/internal/cli/api"
	"WebCarros/internal/cli/backend"
	"WebCarros/internal/cli/repo"
	fsrepo "WebCarros/internal/cli/repo/fs"
	reposqlite "WebCarros/internal/cli/repo/sqlite"
	"WebCarros/internal/cli/service"
	"WebCarros/internal/cli/session"
	"WebCarros/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// App — зависимости одного запуска CLI.
type App struct {
	Cfg       *config.Config
	Logger    *zap.SugaredLogger
	Backend   backend.Backend
	Session   *session.Store
	Roles     repo.RoleStore
	Notifier  *service.WriterNotifier
	Navigator *service.RouteRecorder
	Auth      *service.AuthService
}

// NewLogger — логгер клиента: stderr, уровень из конфига (по умолчанию warn).
func NewLogger(level string) (*zap.SugaredLogger, error) {
	zcfg := zap.NewDevelopmentConfig()
	zcfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		zcfg.Level = lvl
	}
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}
	l, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}

// NewApp собирает клиента поверх HTTP-бэкенда из конфига.
func NewApp(cfg *config.Config, out io.Writer) (*App, error) {
	logger, err := NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	store := fsrepo.NewAuthFSStore(cfg.TokenFile)
	be := api.NewClient(cfg.ServerURL, cfg.HTTPTimeout, store, logger)
	return NewAppWithBackend(cfg, be, store, out, logger)
}

// NewAppWithBackend собирает клиента поверх произвольного бэкенда и подписывает сессию на него.
func NewAppWithBackend(cfg *config.Config, be backend.Backend, roles repo.RoleStore, out io.Writer, logger *zap.SugaredLogger) (*App, error) {
	if out == nil {
		out = os.Stdout
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	sess := session.NewStore(logger)
	if err := sess.Start(be); err != nil {
		return nil, err
	}
	n := &service.WriterNotifier{Out: out}
	nav := &service.RouteRecorder{}
	return &App{
		Cfg:       cfg,
		Logger:    logger,
		Backend:   be,
		Session:   sess,
		Roles:     roles,
		Notifier:  n,
		Navigator: nav,
		Auth:      service.NewAuthService(be, sess, roles, n, nav, logger),
	}, nil
}

// Close отписывает сессию и сбрасывает буфер логгера.
func (a *App) Close() {
	a.Session.Close()
	_ = a.Logger.Sync()
}

// WaitSession ждёт первого уведомления о пользователе, не дольше HTTPTimeout.
func (a *App) WaitSession(ctx context.Context) (session.Session, error) {
	if a.Cfg != nil && a.Cfg.HTTPTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Cfg.HTTPTimeout)
		defer cancel()
	}
	return a.Session.WaitReady(ctx)
}

// ErrNotSignedIn — команда требует входа.
var ErrNotSignedIn = errors.New("нет активного пользователя: выполните login/register")

// OpenDraft открывает черновик текущего пользователя.
// cleanup необходимо вызвать после окончания работы, чтобы закрыть соединение с БД.
func (a *App) OpenDraft(ctx context.Context) (*service.Draft, func() error, error) {
	sess, err := a.WaitSession(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("session: %w", err)
	}
	if sess.Identity == nil {
		return nil, nil, ErrNotSignedIn
	}
	r, cleanup, err := OpenDraftRepo(a.Cfg.ClientDBPath, sess.Identity.UID)
	if err != nil {
		return nil, nil, err
	}
	return service.NewDraft(a.Backend, r, a.Session, a.Notifier, a.Logger), cleanup, nil
}

// OpenDraftRepo открывает черновик пользователя uid, выполняет миграции и возвращает (repo, cleanup, error).
func OpenDraftRepo(base, uid string) (repo.DraftRepository, func() error, error) {
	r, _, err := reposqlite.OpenForUser(base, uid)
	if err != nil {
		return nil, nil, fmt.Errorf("open user db: %w", err)
	}
	if err := r.Migrate(); err != nil {
		_ = r.Close()
		return nil, nil, fmt.Errorf("migrate user db: %w", err)
	}
	cleanup := func() error { return r.Close() }
	return r, cleanup, nil
}
