package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/NYD05/StyleHub/internal/repository"
	"github.com/NYD05/StyleHub/models"
)

// InteractionService определяет интерфейс для лайков и комментариев.
type InteractionService interface {
	// ToggleLike ставит лайк, если его нет, и снимает, если есть.
	ToggleLike(ctx context.Context, userID, sketchID int64) (models.LikeState, error)
	AddComment(ctx context.Context, userID, sketchID int64, content string) (int64, error)
	// ListComments возвращает комментарии наброска, сначала старые.
	ListComments(ctx context.Context, sketchID int64) ([]models.Comment, error)
}

var _ InteractionService = (*interactionService)(nil)

type interactionService struct {
	repo repository.InteractionRepository
	now  func() time.Time
}

// NewInteractionService создает новый экземпляр сервиса взаимодействий.
func NewInteractionService(repo repository.InteractionRepository, opts ...Option) InteractionService {
	o := defaultOptions(opts)
	return &interactionService{repo: repo, now: o.now}
}

func (s *interactionService) ToggleLike(ctx context.Context, userID, sketchID int64) (models.LikeState, error) {
	state, err := s.repo.ToggleLike(ctx, &models.Like{
		UserID:    userID,
		SketchID:  sketchID,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrSketchNotFound) {
			return "", ErrSketchNotFound
		}
		slog.Error("[InteractionService] Ошибка переключения лайка", "sketch_id", sketchID, "error", err)
		return "", fmt.Errorf("%w: переключение лайка: %w", ErrStorage, err)
	}
	return state, nil
}

// AddComment добавляет комментарий. Пустой или состоящий из пробелов текст отклоняется.
func (s *interactionService) AddComment(ctx context.Context, userID, sketchID int64, content string) (int64, error) {
	if strings.TrimSpace(content) == "" {
		return 0, ErrEmptyContent
	}

	commentID, err := s.repo.CreateComment(ctx, &models.Comment{
		Content:   content,
		UserID:    userID,
		SketchID:  sketchID,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrSketchNotFound) {
			return 0, ErrSketchNotFound
		}
		slog.Error("[InteractionService] Ошибка добавления комментария", "sketch_id", sketchID, "error", err)
		return 0, fmt.Errorf("%w: добавление комментария: %w", ErrStorage, err)
	}
	return commentID, nil
}

// ListComments не проверяет существование наброска: для удаленного
// или неизвестного наброска возвращается пустой список.
func (s *interactionService) ListComments(ctx context.Context, sketchID int64) ([]models.Comment, error) {
	comments, err := s.repo.ListComments(ctx, sketchID)
	if err != nil {
		return nil, fmt.Errorf("%w: получение комментариев: %w", ErrStorage, err)
	}
	return comments, nil
}
