package handlers_test

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/NYD05/StyleHub/internal/services"
	"github.com/NYD05/StyleHub/internal/storage"
	"github.com/NYD05/StyleHub/models"
)

// --- Mock AuthService --- //

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, username, email, password string) (int64, error) {
	args := m.Called(ctx, username, email, password)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAuthService) Verify(ctx context.Context, username, password string) (int64, error) {
	args := m.Called(ctx, username, password)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (*models.Session, error) {
	args := m.Called(ctx, username, password)
	var session *models.Session
	if s := args.Get(0); s != nil {
		session = s.(*models.Session)
	}
	return session, args.Error(1)
}

// --- Mock SketchService --- //

type MockSketchService struct {
	mock.Mock
}

// Create вычитывает содержимое файла, чтобы ожидания можно было задавать строкой.
func (m *MockSketchService) Create(ctx context.Context, in services.CreateSketchInput) (*models.Sketch, error) {
	content, err := io.ReadAll(in.Content)
	if err != nil {
		return nil, err
	}
	args := m.Called(ctx, in.UserID, in.Title, in.Description, in.Filename, string(content))
	var sketch *models.Sketch
	if s := args.Get(0); s != nil {
		sketch = s.(*models.Sketch)
	}
	return sketch, args.Error(1)
}

func (m *MockSketchService) List(ctx context.Context) ([]models.SketchSummary, error) {
	args := m.Called(ctx)
	var list []models.SketchSummary
	if l := args.Get(0); l != nil {
		list = l.([]models.SketchSummary)
	}
	return list, args.Error(1)
}

func (m *MockSketchService) Delete(ctx context.Context, sketchID, userID int64) error {
	args := m.Called(ctx, sketchID, userID)
	return args.Error(0)
}

func (m *MockSketchService) OpenFile(ctx context.Context, filename string) (*storage.Object, error) {
	args := m.Called(ctx, filename)
	var obj *storage.Object
	if o := args.Get(0); o != nil {
		obj = o.(*storage.Object)
	}
	return obj, args.Error(1)
}

// --- Mock InteractionService --- //

type MockInteractionService struct {
	mock.Mock
}

func (m *MockInteractionService) ToggleLike(ctx context.Context, userID, sketchID int64) (models.LikeState, error) {
	args := m.Called(ctx, userID, sketchID)
	return args.Get(0).(models.LikeState), args.Error(1)
}

func (m *MockInteractionService) AddComment(ctx context.Context, userID, sketchID int64, content string) (int64, error) {
	args := m.Called(ctx, userID, sketchID, content)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInteractionService) ListComments(ctx context.Context, sketchID int64) ([]models.Comment, error) {
	args := m.Called(ctx, sketchID)
	var list []models.Comment
	if l := args.Get(0); l != nil {
		list = l.([]models.Comment)
	}
	return list, args.Error(1)
}
