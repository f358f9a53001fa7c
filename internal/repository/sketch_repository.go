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

// DeleteHooks позволяет сервисному слою участвовать в транзакции удаления.
type DeleteHooks struct {
	// Authorize вызывается для загруженного наброска до любых изменений.
	// Ошибка откатывает транзакцию и возвращается как есть.
	Authorize func(sketch *models.Sketch) error
	// BeforeCommit вызывается после удаления строк, но до фиксации транзакции.
	// Ошибка откатывает транзакцию и возвращается как есть.
	BeforeCommit func(sketch *models.Sketch) error
}

// SketchRepository определяет методы для работы с набросками.
type SketchRepository interface {
	CreateSketch(ctx context.Context, sketch *models.Sketch) (int64, error)
	GetSketchByID(ctx context.Context, sketchID int64) (*models.Sketch, error)
	ListSketches(ctx context.Context) ([]models.SketchSummary, error)
	// DeleteSketch атомарно удаляет набросок вместе с его лайками и комментариями.
	DeleteSketch(ctx context.Context, sketchID int64, hooks DeleteHooks) error
}

type sqlSketchRepository struct {
	db *sqlx.DB
}

// NewSketchRepository создает новый экземпляр репозитория набросков.
func NewSketchRepository(db *sqlx.DB) SketchRepository {
	return &sqlSketchRepository{db: db}
}

// CreateSketch сохраняет запись о наброске и возвращает ее ID.
func (r *sqlSketchRepository) CreateSketch(ctx context.Context, sketch *models.Sketch) (int64, error) {
	query := r.db.Rebind(`INSERT INTO sketches (title, description, filename, user_id, created_at)
	          VALUES (?, ?, ?, ?, ?) RETURNING id`)
	var sketchID int64

	err := r.db.QueryRowxContext(ctx, query,
		sketch.Title, sketch.Description, sketch.Filename, sketch.UserID, sketch.CreatedAt,
	).Scan(&sketchID)
	if err != nil {
		if foreignKeyViolation(err) {
			return 0, ErrUserNotFound
		}
		slog.Error("[SketchRepo] Ошибка при создании наброска", "filename", sketch.Filename, "error", err)
		return 0, fmt.Errorf("ошибка выполнения запроса на создание наброска: %w", err)
	}

	slog.Info("[SketchRepo] Набросок создан", "sketch_id", sketchID, "user_id", sketch.UserID)
	return sketchID, nil
}

// GetSketchByID находит набросок по ID. Возвращает ErrSketchNotFound, если его нет.
func (r *sqlSketchRepository) GetSketchByID(ctx context.Context, sketchID int64) (*models.Sketch, error) {
	return getSketch(ctx, r.db, sketchID)
}

// ListSketches возвращает все наброски, сначала новые.
// Счетчики лайков и комментариев считаются в том же запросе.
func (r *sqlSketchRepository) ListSketches(ctx context.Context) ([]models.SketchSummary, error) {
	query := `SELECT s.id, s.title, COALESCE(s.description, '') AS description, s.filename, s.created_at,
	          u.username AS artist,
	          (SELECT COUNT(*) FROM likes l WHERE l.sketch_id = s.id) AS like_count,
	          (SELECT COUNT(*) FROM comments c WHERE c.sketch_id = s.id) AS comment_count
	          FROM sketches s
	          JOIN users u ON u.id = s.user_id
	          ORDER BY s.created_at DESC, s.id DESC`

	sketches := make([]models.SketchSummary, 0)
	if err := r.db.SelectContext(ctx, &sketches, query); err != nil {
		slog.Error("[SketchRepo] Ошибка при получении списка набросков", "error", err)
		return nil, fmt.Errorf("ошибка выполнения запроса на получение списка набросков: %w", err)
	}

	return sketches, nil
}

// DeleteSketch удаляет набросок, его лайки и комментарии в одной транзакции.
func (r *sqlSketchRepository) DeleteSketch(ctx context.Context, sketchID int64, hooks DeleteHooks) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции удаления наброска: %w", err)
	}
	defer rollback(tx, "[SketchRepo]")

	sketch, err := getSketch(ctx, tx, sketchID)
	if err != nil {
		return err
	}

	if hooks.Authorize != nil {
		if err = hooks.Authorize(sketch); err != nil {
			return err
		}
	}

	for _, stmt := range []string{
		`DELETE FROM likes WHERE sketch_id = ?`,
		`DELETE FROM comments WHERE sketch_id = ?`,
	} {
		if _, err = tx.ExecContext(ctx, tx.Rebind(stmt), sketchID); err != nil {
			return fmt.Errorf("ошибка удаления связанных записей наброска %d: %w", sketchID, err)
		}
	}

	res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM sketches WHERE id = ?`), sketchID)
	if err != nil {
		return fmt.Errorf("ошибка удаления наброска %d: %w", sketchID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка получения результата удаления наброска %d: %w", sketchID, err)
	}
	if n == 0 {
		// Набросок удалили параллельно между чтением и удалением.
		return ErrSketchNotFound
	}

	if hooks.BeforeCommit != nil {
		if err = hooks.BeforeCommit(sketch); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("ошибка фиксации удаления наброска %d: %w", sketchID, err)
	}

	slog.Info("[SketchRepo] Набросок удален", "sketch_id", sketchID)
	return nil
}

// getSketch читает набросок через db или tx.
func getSketch(ctx context.Context, q queryer, sketchID int64) (*models.Sketch, error) {
	query := q.Rebind(`SELECT id, title, COALESCE(description, '') AS description, filename, user_id, created_at
	          FROM sketches WHERE id = ?`)
	var sketch models.Sketch

	err := sqlx.GetContext(ctx, q, &sketch, query, sketchID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSketchNotFound
		}
		slog.Error("[SketchRepo] Ошибка при поиске наброска", "sketch_id", sketchID, "error", err)
		return nil, fmt.Errorf("ошибка выполнения запроса на получение наброска: %w", err)
	}
	return &sketch, nil
}
