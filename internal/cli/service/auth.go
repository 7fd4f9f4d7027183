package service

import (
	"context"
	"fmt"

	"WebCarros/internal/cli/backend"
	"WebCarros/internal/cli/repo"
	"WebCarros/internal/cli/session"
	"WebCarros/internal/cli/validate"

	"go.uber.org/zap"
)

// Роли приложения.
const (
	RoleAdmin      = "admin"
	RoleRevendedor = "revendedor"
	RoleUsuario    = "usuario"
)

// MapRole переводит подпись роли из формы регистрации во внутреннее значение.
func MapRole(label string) string {
	switch label {
	case validate.RoleAdministrador:
		return RoleAdmin
	case validate.RoleRevendedor:
		return RoleRevendedor
	default:
		return RoleUsuario
	}
}

// RegisterInput — данные формы регистрации.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string // подпись роли: Administrador или Revendedor
}

// AuthService — вход, регистрация и выход.
type AuthService struct {
	identity  backend.Identity
	session   *session.Store
	roles     repo.RoleStore
	notifier  Notifier
	navigator Navigator
	logger    *zap.SugaredLogger
}

// NewAuthService создаёт сервис. roles может быть nil: тогда роль не сохраняется между запусками.
func NewAuthService(id backend.Identity, s *session.Store, roles repo.RoleStore, n Notifier, nav Navigator, logger *zap.SugaredLogger) *AuthService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &AuthService{identity: id, session: s, roles: roles, notifier: n, navigator: nav, logger: logger}
}

// Login проверяет форму, входит и обновляет сессию.
func (s *AuthService) Login(ctx context.Context, email, password string) (*session.Identity, error) {
	if verr := validate.LoginSchema.Validate(map[string]string{"email": email, "password": password}); verr != nil {
		return nil, verr
	}

	p, err := s.identity.SignIn(ctx, email, password)
	if err != nil {
		s.logger.Errorw("login failed", "email", email, "error", err)
		s.notifier.Error(MsgLoginFailed)
		return nil, fmt.Errorf("%w: %w", ErrAuth, err)
	}

	id := session.Identity{UID: p.UID, Name: optional(p.DisplayName), Email: optional(p.Email)}
	s.session.SetIdentity(id)
	s.notifier.Success(MsgLoginOK)
	s.navigator.Navigate(RouteDashboard)
	return &id, nil
}

// Register создаёт аккаунт, задаёт имя и роль. Частично созданный аккаунт не откатывается.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*session.Identity, error) {
	verr := validate.RegisterSchema.Validate(map[string]string{
		"name":     in.Name,
		"email":    in.Email,
		"password": in.Password,
		"role":     in.Role,
	})
	if verr != nil {
		return nil, verr
	}

	p, err := s.identity.SignUp(ctx, in.Email, in.Password)
	if err != nil {
		return nil, s.registerFailed("sign up", err)
	}
	if err := s.identity.UpdateProfile(ctx, p, backend.Profile{DisplayName: in.Name}); err != nil {
		return nil, s.registerFailed("update profile", err)
	}

	name := in.Name
	role := MapRole(in.Role)
	id := session.Identity{UID: p.UID, Name: &name, Email: optional(p.Email), Role: &role}
	if id.Email == nil {
		id.Email = optional(in.Email)
	}
	s.session.SetIdentity(id)

	if s.roles != nil {
		if err := s.roles.SaveRole(p.UID, role); err != nil {
			s.logger.Warnw("failed to persist role", "uid", p.UID, "error", err)
		}
	}

	s.notifier.Success(MsgRegisterOK)
	s.navigator.Navigate(RouteDashboard)
	return &id, nil
}

func (s *AuthService) registerFailed(step string, err error) error {
	s.logger.Errorw("register failed", "step", step, "error", err)
	s.notifier.Error(MsgRegisterFailed)
	return fmt.Errorf("%w: %w", ErrAuth, err)
}

// Logout завершает сессию; хранилище сессии узнаёт об этом из уведомления бэкенда.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.identity.SignOut(ctx); err != nil {
		s.logger.Errorw("logout failed", "error", err)
		s.notifier.Error(MsgLogoutFailed)
		return fmt.Errorf("%w: %w", ErrAuth, err)
	}
	return nil
}

// StoredRole возвращает роль, сохранённую при регистрации, или "".
func (s *AuthService) StoredRole(uid string) string {
	if s.roles == nil || uid == "" {
		return ""
	}
	role, err := s.roles.LoadRole(uid)
	if err != nil {
		s.logger.Debugw("failed to load role", "uid", uid, "error", err)
		return ""
	}
	return role
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
