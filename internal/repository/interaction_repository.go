package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/NYD05/StyleHub/models"
	"github.com/jmoiron/sqlx"
)

// InteractionRepository определяет методы для работы с лайками и комментариями.
type InteractionRepository interface {
	// ToggleLike атомарно снимает лайк, если он есть, иначе ставит его.
	ToggleLike(ctx context.Context, like *models.Like) (models.LikeState, error)
	HasLike(ctx context.Context, userID, sketchID int64) (bool, error)
	CreateComment(ctx context.Context, comment *models.Comment) (int64, error)
	// ListComments возвращает комментарии наброска в порядке создания.
	ListComments(ctx context.Context, sketchID int64) ([]models.Comment, error)
}

type sqlInteractionRepository struct {
	db *sqlx.DB
}

// NewInteractionRepository создает новый экземпляр репозитория взаимодействий.
func NewInteractionRepository(db *sqlx.DB) InteractionRepository {
	return &sqlInteractionRepository{db: db}
}

// ToggleLike переключает лайк пользователя на наброске в одной транзакции.
// Если параллельный вызов успел вставить такой же лайк, уникальный индекс
// отклоняет нашу вставку, и это считается состоянием "лайк стоит".
func (r *sqlInteractionRepository) ToggleLike(ctx context.Context, like *models.Like) (models.LikeState, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("ошибка начала транзакции лайка: %w", err)
	}
	defer rollback(tx, "[InteractionRepo]")

	if err = sketchExists(ctx, tx, like.SketchID); err != nil {
		return "", err
	}

	res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM likes WHERE user_id = ? AND sketch_id = ?`),
		like.UserID, like.SketchID)
	if err != nil {
		return "", fmt.Errorf("ошибка удаления лайка: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("ошибка получения результата удаления лайка: %w", err)
	}

	state := models.Unliked
	if removed == 0 {
		state = models.Liked
		_, err = tx.ExecContext(ctx,
			tx.Rebind(`INSERT INTO likes (user_id, sketch_id, created_at) VALUES (?, ?, ?)`),
			like.UserID, like.SketchID, like.CreatedAt)
		if err != nil {
			if _, ok := uniqueViolation(err); ok {
				slog.Info("[InteractionRepo] Лайк уже поставлен параллельным запросом",
					"user_id", like.UserID, "sketch_id", like.SketchID)
				return models.Liked, nil
			}
			if foreignKeyViolation(err) {
				return "", ErrSketchNotFound
			}
			return "", fmt.Errorf("ошибка вставки лайка: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return "", fmt.Errorf("ошибка фиксации лайка: %w", err)
	}

	slog.Info("[InteractionRepo] Лайк переключен",
		"user_id", like.UserID, "sketch_id", like.SketchID, "state", state)
	return state, nil
}

// HasLike сообщает, стоит ли лайк пользователя на наброске.
func (r *sqlInteractionRepository) HasLike(ctx context.Context, userID, sketchID int64) (bool, error) {
	query := r.db.Rebind(`SELECT COUNT(*) FROM likes WHERE user_id = ? AND sketch_id = ?`)
	var n int64
	if err := r.db.GetContext(ctx, &n, query, userID, sketchID); err != nil {
		return false, fmt.Errorf("ошибка выполнения запроса на проверку лайка: %w", err)
	}
	return n > 0, nil
}

// CreateComment добавляет комментарий к существующему наброску.
func (r *sqlInteractionRepository) CreateComment(ctx context.Context, comment *models.Comment) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("ошибка начала транзакции комментария: %w", err)
	}
	defer rollback(tx, "[InteractionRepo]")

	if err = sketchExists(ctx, tx, comment.SketchID); err != nil {
		return 0, err
	}

	var commentID int64
	err = tx.QueryRowxContext(ctx,
		tx.Rebind(`INSERT INTO comments (content, user_id, sketch_id, created_at) VALUES (?, ?, ?, ?) RETURNING id`),
		comment.Content, comment.UserID, comment.SketchID, comment.CreatedAt,
	).Scan(&commentID)
	if err != nil {
		if foreignKeyViolation(err) {
			return 0, ErrSketchNotFound
		}
		slog.Error("[InteractionRepo] Ошибка при создании комментария", "sketch_id", comment.SketchID, "error", err)
		return 0, fmt.Errorf("ошибка выполнения запроса на создание комментария: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("ошибка фиксации комментария: %w", err)
	}

	slog.Info("[InteractionRepo] Комментарий добавлен", "comment_id", commentID, "sketch_id", comment.SketchID)
	return commentID, nil
}

// ListComments возвращает комментарии наброска с именами авторов, сначала старые.
func (r *sqlInteractionRepository) ListComments(ctx context.Context, sketchID int64) ([]models.Comment, error) {
	query := r.db.Rebind(`SELECT c.id, c.content, c.user_id, c.sketch_id, c.created_at, u.username AS author
	          FROM comments c
	          JOIN users u ON u.id = c.user_id
	          WHERE c.sketch_id = ?
	          ORDER BY c.created_at ASC, c.id ASC`)

	comments := make([]models.Comment, 0)
	if err := r.db.SelectContext(ctx, &comments, query, sketchID); err != nil {
		slog.Error("[InteractionRepo] Ошибка при получении комментариев", "sketch_id", sketchID, "error", err)
		return nil, fmt.Errorf("ошибка выполнения запроса на получение комментариев: %w", err)
	}
	return comments, nil
}

// sketchExists возвращает ErrSketchNotFound, если наброска нет.
func sketchExists(ctx context.Context, q queryer, sketchID int64) error {
	var n int64
	err := sqlx.GetContext(ctx, q, &n, q.Rebind(`SELECT COUNT(*) FROM sketches WHERE id = ?`), sketchID)
	if err != nil {
		return fmt.Errorf("ошибка проверки существования наброска: %w", err)
	}
	if n == 0 {
		return ErrSketchNotFound
	}
	return nil
}

// rollback откатывает транзакцию, если она еще не завершена.
func rollback(tx *sqlx.Tx, component string) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		slog.Error(component+" Ошибка отката транзакции", "error", err)
	}
}
