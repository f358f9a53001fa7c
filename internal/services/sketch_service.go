package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/NYD05/StyleHub/internal/repository"
	"github.com/NYD05/StyleHub/internal/storage"
	"github.com/NYD05/StyleHub/models"
	"github.com/google/uuid"
)

// CreateSketchInput - данные для загрузки наброска.
type CreateSketchInput struct {
	UserID      int64
	Title       string
	Description string
	// Filename - исходное имя файла от клиента.
	Filename string
	Content  io.Reader
	// Size - размер содержимого или -1, если неизвестен.
	Size int64
}

// SketchService определяет интерфейс для работы с набросками.
type SketchService interface {
	Create(ctx context.Context, in CreateSketchInput) (*models.Sketch, error)
	// List возвращает ленту набросков, сначала новые, со счетчиками лайков и комментариев.
	List(ctx context.Context) ([]models.SketchSummary, error)
	// Delete удаляет набросок владельца вместе с лайками, комментариями и файлом.
	Delete(ctx context.Context, sketchID, userID int64) error
	// OpenFile открывает сохраненный файл наброска по имени.
	OpenFile(ctx context.Context, filename string) (*storage.Object, error)
}

var _ SketchService = (*sketchService)(nil)

type sketchService struct {
	repo    repository.SketchRepository
	storage storage.FileStorage
	now     func() time.Time
	newID   func() uuid.UUID
}

// NewSketchService создает новый экземпляр сервиса набросков.
func NewSketchService(repo repository.SketchRepository, fileStorage storage.FileStorage, opts ...Option) SketchService {
	o := defaultOptions(opts)
	return &sketchService{
		repo:    repo,
		storage: fileStorage,
		now:     o.now,
		newID:   o.newID,
	}
}

// Create проверяет входные данные, сохраняет файл и создает запись о наброске.
// Если запись не удалось создать, файл удаляется без гарантий.
func (s *sketchService) Create(ctx context.Context, in CreateSketchInput) (*models.Sketch, error) {
	if in.Filename == "" {
		return nil, ErrNoFileSelected
	}

	now := s.now().UTC()
	objectKey, err := storage.BuildObjectName(in.Filename, now, s.newID())
	if err != nil {
		slog.Info("[SketchService] Отклонен файл недопустимого типа", "filename", in.Filename)
		return nil, ErrUnsupportedType
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	err = s.storage.UploadFile(ctx, objectKey, in.Content, in.Size, storage.ContentType(objectKey))
	if err != nil {
		slog.Error("[SketchService] Ошибка сохранения файла", "key", objectKey, "error", err)
		return nil, fmt.Errorf("%w: сохранение файла: %w", ErrStorage, err)
	}

	sketch := &models.Sketch{
		Title:       title,
		Description: in.Description,
		Filename:    objectKey,
		UserID:      in.UserID,
		CreatedAt:   now,
	}

	sketch.ID, err = s.repo.CreateSketch(ctx, sketch)
	if err != nil {
		s.removeOrphan(ctx, objectKey)
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, fmt.Errorf("%w: создание наброска: %w", ErrStorage, err)
	}

	slog.Info("[SketchService] Набросок загружен", "sketch_id", sketch.ID, "user_id", in.UserID, "key", objectKey)
	return sketch, nil
}

// removeOrphan пытается удалить файл, для которого не создалась запись.
// Неудача только логируется.
func (s *sketchService) removeOrphan(ctx context.Context, objectKey string) {
	if err := s.storage.DeleteFile(ctx, objectKey); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
		slog.Warn("[SketchService] Не удалось удалить файл без записи", "key", objectKey, "error", err)
	}
}

// List возвращает набросков в порядке от новых к старым.
func (s *sketchService) List(ctx context.Context) ([]models.SketchSummary, error) {
	sketches, err := s.repo.ListSketches(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: получение набросков: %w", ErrStorage, err)
	}
	return sketches, nil
}

// Delete удаляет набросок. Проверка владельца выполняется до любых изменений,
// файл удаляется до фиксации транзакции, и его ошибка откатывает удаление строк.
func (s *sketchService) Delete(ctx context.Context, sketchID, userID int64) error {
	var fileErr error
	hooks := repository.DeleteHooks{
		Authorize: func(sketch *models.Sketch) error {
			if !IsOwner(sketch, userID) {
				return ErrNotOwner
			}
			return nil
		},
		BeforeCommit: func(sketch *models.Sketch) error {
			err := s.storage.DeleteFile(ctx, sketch.Filename)
			if err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
				fileErr = err
				return err
			}
			if err != nil {
				slog.Warn("[SketchService] Файл наброска уже отсутствует", "sketch_id", sketch.ID, "key", sketch.Filename)
			}
			return nil
		},
	}

	err := s.repo.DeleteSketch(ctx, sketchID, hooks)
	switch {
	case err == nil:
		slog.Info("[SketchService] Набросок удален", "sketch_id", sketchID, "user_id", userID)
		return nil
	case errors.Is(err, repository.ErrSketchNotFound):
		return ErrSketchNotFound
	case errors.Is(err, ErrNotOwner):
		slog.Info("[SketchService] Попытка удалить чужой набросок", "sketch_id", sketchID, "user_id", userID)
		return ErrNotOwner
	case fileErr != nil:
		slog.Error("[SketchService] Ошибка удаления файла, удаление отменено", "sketch_id", sketchID, "error", err)
		return fmt.Errorf("%w: удаление файла наброска: %w", ErrStorage, err)
	default:
		slog.Error("[SketchService] Ошибка удаления наброска", "sketch_id", sketchID, "error", err)
		return fmt.Errorf("%w: удаление наброска: %w", ErrStorage, err)
	}
}

// OpenFile открывает файл наброска из хранилища.
func (s *sketchService) OpenFile(ctx context.Context, filename string) (*storage.Object, error) {
	obj, err := s.storage.DownloadFile(ctx, filename)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("%w: чтение файла: %w", ErrStorage, err)
	}
	return obj, nil
}
