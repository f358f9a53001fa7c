package services_test

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/NYD05/StyleHub/internal/repository"
	"github.com/NYD05/StyleHub/internal/storage"
	"github.com/NYD05/StyleHub/models"
)

// --- Mocks ---

// MockUserRepository - мок для UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *models.User) (int64, error) {
	args := m.Called(ctx, user)
	//nolint:errcheck // Ошибки кастования в моках приемлемы
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	ret := args.Get(0)
	if ret == nil {
		return nil, args.Error(1)
	}
	//nolint:errcheck // Ошибки кастования в моках приемлемы
	return ret.(*models.User), args.Error(1)
}

// MockSessionRepository - мок для SessionRepository.
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) CreateSession(ctx context.Context, session *models.Session) (int64, error) {
	args := m.Called(ctx, session)
	//nolint:errcheck // Ошибки кастования в моках приемлемы
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSessionRepository) GetActiveSession(
	ctx context.Context,
	token string,
	now time.Time,
) (*models.Session, error) {
	args := m.Called(ctx, token, now)
	ret := args.Get(0)
	if ret == nil {
		return nil, args.Error(1)
	}
	//nolint:errcheck // Ошибки кастования в моках приемлемы
	return ret.(*models.Session), args.Error(1)
}

func (m *MockSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	//nolint:errcheck // Ошибки кастования в моках приемлемы
	return args.Get(0).(int64), args.Error(1)
}

// MockSketchRepository - мок для SketchRepository.
type MockSketchRepository struct {
	mock.Mock
}

func (m *MockSketchRepository) CreateSketch(ctx context.Context, sketch *models.Sketch) (int64, error) {
	args := m.Called(ctx, sketch)
	//nolint:errcheck // Ошибки кастования в моках приемлемы
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSketchRepository) GetSketchByID(ctx context.Context, sketchID int64) (*models.Sketch, error) {
	args := m.Called(ctx, sketchID)
	ret := args.Get(0)
	if ret == nil {
		return nil, args.Error(1)
	}
	//nolint:errcheck // Ошибки кастования в моках приемлемы
	return ret.(*models.Sketch), args.Error(1)
}

func (m *MockSketchRepository) ListSketches(ctx context.Context) ([]models.SketchSummary, error) {
	args := m.Called(ctx)
	ret := args.Get(0)
	if ret == nil {
		return nil, args.Error(1)
	}
	//nolint:errcheck // Ошибки кастования в моках приемлемы
	return ret.([]models.SketchSummary), args.Error(1)
}

// DeleteSketch имитирует транзакцию: для наброска из Return вызывает хуки
// в том же порядке, что и настоящий репозиторий.
func (m *MockSketchRepository) DeleteSketch(ctx context.Context, sketchID int64, hooks repository.DeleteHooks) error {
	args := m.Called(ctx, sketchID)
	if err := args.Error(1); err != nil {
		return err
	}
	//nolint:errcheck // Ошибки кастования в моках приемлемы
	sketch := args.Get(0).(*models.Sketch)
	if hooks.Authorize != nil {
		if err := hooks.Authorize(sketch); err != nil {
			return err
		}
	}
	if hooks.BeforeCommit != nil {
		if err := hooks.BeforeCommit(sketch); err != nil {
			return err
		}
	}
	return nil
}

// MockInteractionRepository - мок для InteractionRepository.
type MockInteractionRepository struct {
	mock.Mock
}

func (m *MockInteractionRepository) ToggleLike(ctx context.Context, like *models.Like) (models.LikeState, error) {
	args := m.Called(ctx, like)
	//nolint:errcheck // Ошибки кастования в моках приемлемы
	return args.Get(0).(models.LikeState), args.Error(1)
}

func (m *MockInteractionRepository) HasLike(ctx context.Context, userID, sketchID int64) (bool, error) {
	args := m.Called(ctx, userID, sketchID)
	return args.Bool(0), args.Error(1)
}

func (m *MockInteractionRepository) CreateComment(ctx context.Context, comment *models.Comment) (int64, error) {
	args := m.Called(ctx, comment)
	//nolint:errcheck // Ошибки кастования в моках приемлемы
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInteractionRepository) ListComments(ctx context.Context, sketchID int64) ([]models.Comment, error) {
	args := m.Called(ctx, sketchID)
	ret := args.Get(0)
	if ret == nil {
		return nil, args.Error(1)
	}
	//nolint:errcheck // Ошибки кастования в моках приемлемы
	return ret.([]models.Comment), args.Error(1)
}

// MockFileStorage - мок для FileStorage.
type MockFileStorage struct {
	mock.Mock
}

func (m *MockFileStorage) UploadFile(
	ctx context.Context,
	objectKey string,
	reader io.Reader,
	size int64,
	contentType string,
) error {
	// Вычитываем поток, как это сделало бы настоящее хранилище
	_, _ = io.Copy(io.Discard, reader)
	args := m.Called(ctx, objectKey, size, contentType)
	return args.Error(0)
}

func (m *MockFileStorage) DownloadFile(ctx context.Context, objectKey string) (*storage.Object, error) {
	args := m.Called(ctx, objectKey)
	ret := args.Get(0)
	if ret == nil {
		return nil, args.Error(1)
	}
	//nolint:errcheck // Ошибки кастования в моках приемлемы
	return ret.(*storage.Object), args.Error(1)
}

func (m *MockFileStorage) DeleteFile(ctx context.Context, objectKey string) error {
	args := m.Called(ctx, objectKey)
	return args.Error(0)
}

// MockPasswordHasher - мок для PasswordHasher.
type MockPasswordHasher struct {
	mock.Mock
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Compare(hash, password string) error {
	args := m.Called(hash, password)
	return args.Error(0)
}

// MockSessionManager - мок для SessionManager.
type MockSessionManager struct {
	mock.Mock
}

func (m *MockSessionManager) Create(ctx context.Context, userID int64) (*models.Session, error) {
	args := m.Called(ctx, userID)
	ret := args.Get(0)
	if ret == nil {
		return nil, args.Error(1)
	}
	//nolint:errcheck // Ошибки кастования в моках приемлемы
	return ret.(*models.Session), args.Error(1)
}

func (m *MockSessionManager) Validate(ctx context.Context, token string) (int64, error) {
	args := m.Called(ctx, token)
	//nolint:errcheck // Ошибки кастования в моках приемлемы
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSessionManager) PurgeExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	//nolint:errcheck // Ошибки кастования в моках приемлемы
	return args.Get(0).(int64), args.Error(1)
}
