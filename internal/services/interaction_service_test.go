package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/NYD05/StyleHub/internal/repository"
	"github.com/NYD05/StyleHub/internal/services"
	"github.com/NYD05/StyleHub/models"
)

func TestInteractionService_ToggleLike(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name          string
		mockSetup     func(repo *MockInteractionRepository)
		expectedState models.LikeState
		expectedError error
	}{
		{
			name: "Лайк поставлен",
			mockSetup: func(repo *MockInteractionRepository) {
				repo.On("ToggleLike", ctx, &models.Like{UserID: 7, SketchID: 5, CreatedAt: fixedNow}).
					Return(models.Liked, nil).Once()
			},
			expectedState: models.Liked,
		},
		{
			name: "Лайк снят",
			mockSetup: func(repo *MockInteractionRepository) {
				repo.On("ToggleLike", ctx, mock.AnythingOfType("*models.Like")).Return(models.Unliked, nil).Once()
			},
			expectedState: models.Unliked,
		},
		{
			name: "Набросок не найден",
			mockSetup: func(repo *MockInteractionRepository) {
				repo.On("ToggleLike", ctx, mock.AnythingOfType("*models.Like")).
					Return(models.LikeState(""), repository.ErrSketchNotFound).Once()
			},
			expectedError: services.ErrSketchNotFound,
		},
		{
			name: "Ошибка репозитория",
			mockSetup: func(repo *MockInteractionRepository) {
				repo.On("ToggleLike", ctx, mock.AnythingOfType("*models.Like")).
					Return(models.LikeState(""), errors.New("db down")).Once()
			},
			expectedError: services.ErrStorage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockInteractionRepository)
			tt.mockSetup(repo)

			state, err := services.NewInteractionService(repo, services.WithNow(fixedClock)).ToggleLike(ctx, 7, 5)

			if tt.expectedError != nil {
				require.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, state)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedState, state)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestInteractionService_AddComment(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name          string
		content       string
		mockSetup     func(repo *MockInteractionRepository)
		expectedID    int64
		expectedError error
	}{
		{
			name:    "Комментарий добавлен",
			content: "Отлично!",
			mockSetup: func(repo *MockInteractionRepository) {
				repo.On("CreateComment", ctx, &models.Comment{
					Content: "Отлично!", UserID: 7, SketchID: 5, CreatedAt: fixedNow,
				}).Return(int64(3), nil).Once()
			},
			expectedID: 3,
		},
		{
			name:          "Пустой текст",
			content:       "",
			mockSetup:     func(*MockInteractionRepository) {},
			expectedError: services.ErrEmptyContent,
		},
		{
			name:          "Текст из пробелов",
			content:       " \t\n ",
			mockSetup:     func(*MockInteractionRepository) {},
			expectedError: services.ErrEmptyContent,
		},
		{
			name:    "Набросок не найден",
			content: "привет",
			mockSetup: func(repo *MockInteractionRepository) {
				repo.On("CreateComment", ctx, mock.AnythingOfType("*models.Comment")).
					Return(int64(0), repository.ErrSketchNotFound).Once()
			},
			expectedError: services.ErrSketchNotFound,
		},
		{
			name:    "Ошибка репозитория",
			content: "привет",
			mockSetup: func(repo *MockInteractionRepository) {
				repo.On("CreateComment", ctx, mock.AnythingOfType("*models.Comment")).
					Return(int64(0), errors.New("db down")).Once()
			},
			expectedError: services.ErrStorage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockInteractionRepository)
			tt.mockSetup(repo)

			id, err := services.NewInteractionService(repo, services.WithNow(fixedClock)).AddComment(ctx, 7, 5, tt.content)

			if tt.expectedError != nil {
				require.ErrorIs(t, err, tt.expectedError)
				assert.Zero(t, id)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedID, id)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestInteractionService_ListComments(t *testing.T) {
	ctx := context.Background()

	t.Run("Комментарии наброска", func(t *testing.T) {
		repo := new(MockInteractionRepository)
		comments := []models.Comment{{ID: 1, Content: "a", Author: "alice"}}
		repo.On("ListComments", ctx, int64(5)).Return(comments, nil).Once()

		got, err := services.NewInteractionService(repo).ListComments(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, comments, got)
	})

	t.Run("Ошибка репозитория", func(t *testing.T) {
		repo := new(MockInteractionRepository)
		repo.On("ListComments", ctx, int64(5)).Return(nil, errors.New("db down")).Once()

		_, err := services.NewInteractionService(repo).ListComments(ctx, 5)
		require.ErrorIs(t, err, services.ErrStorage)
	})
}
