package service

import (
	"WebCarros/internal/metrics"
	"WebCarros/internal/model"
	"WebCarros/internal/repo"
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// MinPasswordLen — минимальная длина пароля, которую принимает сервис идентификации.
const MinPasswordLen = 6

var (
	ErrEmailTaken         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrWeakPassword       = fmt.Errorf("password must be at least %d characters", MinPasswordLen)
	ErrUserNotFound       = errors.New("user not found")
)

// UserService — учётные записи: регистрация, вход, профиль.
type UserService struct {
	repo    repo.UserRepository
	metrics metrics.Recorder
}

func NewUserService(r repo.UserRepository, m metrics.Recorder) *UserService {
	if m == nil {
		m = metrics.Nop{}
	}
	return &UserService{repo: r, metrics: m}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register создаёт пользователя с новым uid. Email должен быть свободен.
func (s *UserService) Register(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.register(ctx, email, password)
	s.metrics.RecordAuth("register", err == nil)
	return user, err
}

func (s *UserService) register(ctx context.Context, email, password string) (*model.User, error) {
	email = normalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil || strings.ContainsAny(email, "<> ") {
		return nil, ErrInvalidEmail
	}
	if len(password) < MinPasswordLen {
		return nil, ErrWeakPassword
	}

	existing, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return s.repo.CreateUser(ctx, &model.User{
		ID:       uuid.NewString(),
		Email:    email,
		Password: string(hash),
	})
}

// Login проверяет пару email/пароль.
func (s *UserService) Login(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.login(ctx, email, password)
	s.metrics.RecordAuth("login", err == nil)
	return user, err
}

func (s *UserService) login(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetByID возвращает пользователя по uid.
func (s *UserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

// UpdateProfile меняет отображаемое имя и возвращает обновлённого пользователя.
func (s *UserService) UpdateProfile(ctx context.Context, id, displayName string) (*model.User, error) {
	err := s.repo.UpdateDisplayName(ctx, id, strings.TrimSpace(displayName))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}
