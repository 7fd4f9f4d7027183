// Package session хранит текущего пользователя клиента.
package session

import (
	"context"
	"errors"
	"sync"

	"WebCarros/internal/cli/backend"

	"go.uber.org/zap"
)

// ErrAlreadyStarted — повторная подписка на изменения пользователя.
var ErrAlreadyStarted = errors.New("session store already started")

// Identity — аутентифицированный пользователь. Поля кроме UID необязательны.
type Identity struct {
	UID   string
	Name  *string
	Email *string
	Role  *string
}

// Session — снимок состояния хранилища.
type Session struct {
	Identity *Identity
	Loading  bool
}

// Signed сообщает, есть ли аутентифицированный пользователь.
func (s Session) Signed() bool { return s.Identity != nil }

// IdentitySource — источник уведомлений о смене пользователя.
type IdentitySource interface {
	OnIdentityChange(fn func(*backend.Principal)) (unsubscribe func())
}

// Store — единственное на процесс хранилище сессии.
type Store struct {
	mu       sync.Mutex
	identity *Identity
	loading  bool
	ready    chan struct{}

	started     bool
	unsubscribe func()
	closeOnce   sync.Once

	logger *zap.SugaredLogger
}

func NewStore(logger *zap.SugaredLogger) *Store {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Store{
		loading: true,
		ready:   make(chan struct{}),
		logger:  logger,
	}
}

// Start подписывается на изменения пользователя. Подписка одна на всё время жизни Store.
func (s *Store) Start(src IdentitySource) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.started = true
	s.mu.Unlock()

	unsub := src.OnIdentityChange(s.onIdentityChange)

	s.mu.Lock()
	s.unsubscribe = unsub
	s.mu.Unlock()
	return nil
}

// Close отменяет подписку. Повторные вызовы ничего не делают.
func (s *Store) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		unsub := s.unsubscribe
		s.unsubscribe = nil
		s.mu.Unlock()
		if unsub != nil {
			unsub()
		}
	})
}

func (s *Store) onIdentityChange(p *backend.Principal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p == nil {
		s.identity = nil
		s.logger.Debugw("session: signed out")
	} else {
		next := &Identity{UID: p.UID, Name: strPtr(p.DisplayName), Email: strPtr(p.Email)}
		// сервис не хранит роль: для того же uid оставляем выставленную локально
		if s.identity != nil && s.identity.UID == p.UID {
			next.Role = s.identity.Role
			if next.Name == nil {
				next.Name = s.identity.Name
			}
		}
		s.identity = next
		s.logger.Debugw("session: identity changed", "uid", p.UID)
	}
	s.markReady()
}

// markReady вызывается под s.mu.
func (s *Store) markReady() {
	if s.loading {
		s.loading = false
		close(s.ready)
	}
}

// SetIdentity подменяет пользователя вручную (после входа или регистрации).
func (s *Store) SetIdentity(id Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := id
	s.identity = &cp
	s.markReady()
}

// Current возвращает снимок сессии.
func (s *Store) Current() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	var id *Identity
	if s.identity != nil {
		cp := *s.identity
		id = &cp
	}
	return Session{Identity: id, Loading: s.loading}
}

// Ready закрывается после первого уведомления.
func (s *Store) Ready() <-chan struct{} {
	return s.ready
}

// WaitReady ждёт первого уведомления или отмены ctx.
func (s *Store) WaitReady(ctx context.Context) (Session, error) {
	select {
	case <-s.ready:
		return s.Current(), nil
	case <-ctx.Done():
		return s.Current(), ctx.Err()
	}
}

func strPtr(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
