package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/NYD05/StyleHub/internal/repository"
	"github.com/NYD05/StyleHub/models"
)

// AuthService определяет интерфейс для сервиса учетных данных.
type AuthService interface {
	// Register создает пользователя и возвращает его ID.
	Register(ctx context.Context, username, email, password string) (int64, error)
	// Verify проверяет пароль и возвращает ID пользователя.
	// Неизвестный пользователь и неверный пароль дают одну и ту же ErrInvalidCredentials.
	Verify(ctx context.Context, username, password string) (int64, error)
	// Login проверяет учетные данные и выдает новую сессию.
	Login(ctx context.Context, username, password string) (*models.Session, error)
}

// Убедимся, что authService удовлетворяет интерфейсу AuthService.
var _ AuthService = (*authService)(nil)

type authService struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
	sessions SessionManager
	now      func() time.Time

	// dummyHash сравнивается с паролем, когда пользователь не найден,
	// чтобы время ответа не выдавало существование имени.
	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService создает новый экземпляр сервиса аутентификации.
func NewAuthService(
	userRepo repository.UserRepository,
	hasher PasswordHasher,
	sessions SessionManager,
	opts ...Option,
) AuthService {
	o := defaultOptions(opts)
	return &authService{
		userRepo: userRepo,
		hasher:   hasher,
		sessions: sessions,
		now:      o.now,
	}
}

// Register регистрирует нового пользователя.
func (s *authService) Register(ctx context.Context, username, email, password string) (int64, error) {
	if username == "" || email == "" || password == "" {
		return 0, ErrMissingFields
	}

	hashedPassword, err := s.hasher.Hash(password)
	if err != nil {
		slog.Error("[AuthService] Ошибка хеширования пароля", "username", username, "error", err)
		return 0, fmt.Errorf("%w: хеширование пароля: %w", ErrStorage, err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
		CreatedAt:    s.now().UTC(),
	}

	userID, err := s.userRepo.CreateUser(ctx, user)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUsernameTaken):
			slog.Info("[AuthService] Попытка регистрации с занятым именем", "username", username)
			return 0, ErrDuplicateUsername
		case errors.Is(err, repository.ErrEmailTaken):
			slog.Info("[AuthService] Попытка регистрации с занятым email", "username", username)
			return 0, ErrDuplicateEmail
		}
		slog.Error("[AuthService] Непредвиденная ошибка репозитория при регистрации",
			"username", username, "error", err)
		return 0, fmt.Errorf("%w: создание пользователя: %w", ErrStorage, err)
	}

	slog.Info("[AuthService] Пользователь успешно зарегистрирован", "username", username, "user_id", userID)
	return userID, nil
}

// Verify аутентифицирует пользователя по имени и паролю.
func (s *authService) Verify(ctx context.Context, username, password string) (int64, error) {
	if username == "" || password == "" {
		return 0, ErrMissingCredentials
	}

	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			_ = s.hasher.Compare(s.dummy(), password)
			slog.Info("[AuthService] Неудачная попытка входа", "username", username)
			return 0, ErrInvalidCredentials
		}
		slog.Error("[AuthService] Ошибка репозитория при поиске пользователя", "username", username, "error", err)
		return 0, fmt.Errorf("%w: поиск пользователя: %w", ErrStorage, err)
	}

	if err = s.hasher.Compare(user.PasswordHash, password); err != nil {
		slog.Info("[AuthService] Неудачная попытка входа", "username", username)
		return 0, ErrInvalidCredentials
	}

	return user.ID, nil
}

// Login аутентифицирует пользователя и выдает сессию.
func (s *authService) Login(ctx context.Context, username, password string) (*models.Session, error) {
	userID, err := s.Verify(ctx, username, password)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.Create(ctx, userID)
	if err != nil {
		return nil, err
	}

	slog.Info("[AuthService] Пользователь успешно аутентифицирован", "username", username, "user_id", userID)
	return session, nil
}

func (s *authService) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash("stylehub-dummy-password")
		if err != nil {
			slog.Warn("[AuthService] Не удалось подготовить фиктивный хеш", "error", err)
		}
		s.dummyHash = h
	})
	return s.dummyHash
}
