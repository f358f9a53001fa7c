package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/NYD05/StyleHub/internal/repository"
	"github.com/NYD05/StyleHub/models"
)

const (
	// DefaultSessionTTL - время жизни сессии по умолчанию.
	DefaultSessionTTL = 24 * time.Hour
	// sessionTokenBytes - 256 бит случайности, токен в hex занимает 64 символа.
	sessionTokenBytes = 32
)

// SessionManager выдает и проверяет непрозрачные токены сессий.
// Истечение проверяется лениво, в момент Validate.
type SessionManager interface {
	Create(ctx context.Context, userID int64) (*models.Session, error)
	// Validate возвращает ID владельца токена. Ошибки: ErrMissingToken, ErrInvalidSession
	// (истекший и несуществующий токен неразличимы) или ErrStorage.
	Validate(ctx context.Context, token string) (int64, error)
	// PurgeExpired удаляет истекшие сессии. Для корректности не требуется.
	PurgeExpired(ctx context.Context) (int64, error)
}

// SessionOption настраивает sessionManager.
type SessionOption func(*sessionManager)

// WithClock подменяет источник текущего времени.
func WithClock(now func() time.Time) SessionOption {
	return func(m *sessionManager) { m.now = now }
}

// WithRandom подменяет источник случайных байт для токенов.
func WithRandom(r io.Reader) SessionOption {
	return func(m *sessionManager) { m.random = r }
}

var _ SessionManager = (*sessionManager)(nil)

type sessionManager struct {
	repo   repository.SessionRepository
	ttl    time.Duration
	now    func() time.Time
	random io.Reader
}

// NewSessionManager создает менеджер сессий. ttl <= 0 заменяется на DefaultSessionTTL.
func NewSessionManager(repo repository.SessionRepository, ttl time.Duration, opts ...SessionOption) SessionManager {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	m := &sessionManager{
		repo:   repo,
		ttl:    ttl,
		now:    time.Now,
		random: rand.Reader,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create выдает новую сессию пользователю. Прежние сессии пользователя не затрагиваются.
func (m *sessionManager) Create(ctx context.Context, userID int64) (*models.Session, error) {
	token, err := m.generateToken()
	if err != nil {
		return nil, fmt.Errorf("%w: генерация токена: %w", ErrStorage, err)
	}

	now := m.now().UTC()
	session := &models.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: now.Add(m.ttl),
		CreatedAt: now,
	}

	session.ID, err = m.repo.CreateSession(ctx, session)
	if err != nil {
		slog.Error("[SessionManager] Ошибка сохранения сессии", "user_id", userID, "error", err)
		return nil, fmt.Errorf("%w: сохранение сессии: %w", ErrStorage, err)
	}

	slog.Info("[SessionManager] Сессия выдана", "user_id", userID, "expires_at", session.ExpiresAt)
	return session, nil
}

// Validate проверяет токен и возвращает ID пользователя.
func (m *sessionManager) Validate(ctx context.Context, token string) (int64, error) {
	if token == "" {
		return 0, ErrMissingToken
	}

	now := m.now().UTC()
	session, err := m.repo.GetActiveSession(ctx, token, now)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return 0, ErrInvalidSession
		}
		slog.Error("[SessionManager] Ошибка проверки сессии", "error", err)
		return 0, fmt.Errorf("%w: проверка сессии: %w", ErrStorage, err)
	}

	if !session.IsActive(now) {
		return 0, ErrInvalidSession
	}
	return session.UserID, nil
}

// PurgeExpired удаляет сессии, истекшие к текущему моменту.
func (m *sessionManager) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := m.repo.DeleteExpired(ctx, m.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("%w: удаление истекших сессий: %w", ErrStorage, err)
	}
	if n > 0 {
		slog.Info("[SessionManager] Удалены истекшие сессии", "count", n)
	}
	return n, nil
}

func (m *sessionManager) generateToken() (string, error) {
	b := make([]byte, sessionTokenBytes)
	if _, err := io.ReadFull(m.random, b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// RunSessionReaper периодически удаляет истекшие сессии, пока ctx не отменен.
// Ошибки очистки только логируются.
func RunSessionReaper(ctx context.Context, sessions SessionManager, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("[SessionReaper] Запущена очистка истекших сессий", "interval", interval)
	for {
		select {
		case <-ctx.Done():
			slog.Info("[SessionReaper] Очистка истекших сессий остановлена")
			return
		case <-ticker.C:
			if _, err := sessions.PurgeExpired(ctx); err != nil && ctx.Err() == nil {
				slog.Error("[SessionReaper] Ошибка очистки истекших сессий", "error", err)
			}
		}
	}
}
