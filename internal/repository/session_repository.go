package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/NYD05/StyleHub/models"
	"github.com/jmoiron/sqlx"
)

// SessionRepository определяет методы для работы с сессиями.
type SessionRepository interface {
	CreateSession(ctx context.Context, session *models.Session) (int64, error)
	// GetActiveSession возвращает сессию, только если она существует, не истекла
	// к моменту now и ее владелец существует. Во всех остальных случаях - ErrSessionNotFound.
	GetActiveSession(ctx context.Context, token string, now time.Time) (*models.Session, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type sqlSessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository создает новый экземпляр репозитория сессий.
func NewSessionRepository(db *sqlx.DB) SessionRepository {
	return &sqlSessionRepository{db: db}
}

// CreateSession сохраняет новую сессию и возвращает ее ID.
func (r *sqlSessionRepository) CreateSession(ctx context.Context, session *models.Session) (int64, error) {
	query := r.db.Rebind(`INSERT INTO sessions (session_token, user_id, expires_at, created_at)
	          VALUES (?, ?, ?, ?) RETURNING id`)
	var sessionID int64

	err := r.db.QueryRowxContext(ctx, query,
		session.Token, session.UserID, session.ExpiresAt, session.CreatedAt,
	).Scan(&sessionID)
	if err != nil {
		if foreignKeyViolation(err) {
			return 0, ErrUserNotFound
		}
		slog.Error("[SessionRepo] Ошибка при создании сессии", "user_id", session.UserID, "error", err)
		return 0, fmt.Errorf("ошибка выполнения запроса на создание сессии: %w", err)
	}

	return sessionID, nil
}

// GetActiveSession ищет действующую сессию по токену.
// Истекшая и несуществующая сессии неразличимы: обе дают ErrSessionNotFound.
func (r *sqlSessionRepository) GetActiveSession(
	ctx context.Context,
	token string,
	now time.Time,
) (*models.Session, error) {
	query := r.db.Rebind(`SELECT s.id, s.session_token, s.user_id, s.expires_at, s.created_at
	          FROM sessions s
	          JOIN users u ON u.id = s.user_id
	          WHERE s.session_token = ? AND s.expires_at > ?`)
	var session models.Session

	err := r.db.GetContext(ctx, &session, query, token, now)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		slog.Error("[SessionRepo] Ошибка при поиске сессии", "error", err)
		return nil, fmt.Errorf("ошибка выполнения запроса на получение сессии: %w", err)
	}

	return &session, nil
}

// DeleteExpired удаляет сессии, истекшие к моменту now, и возвращает их количество.
func (r *sqlSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := r.db.Rebind(`DELETE FROM sessions WHERE expires_at <= ?`)

	res, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		slog.Error("[SessionRepo] Ошибка при удалении истекших сессий", "error", err)
		return 0, fmt.Errorf("ошибка выполнения запроса на удаление истекших сессий: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("ошибка получения количества удаленных сессий: %w", err)
	}
	return n, nil
}
