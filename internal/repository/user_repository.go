package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/NYD05/StyleHub/models"
	"github.com/jmoiron/sqlx"
)

// UserRepository определяет методы для работы с данными пользователей в хранилище.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) (int64, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// sqlUserRepository реализует UserRepository поверх sqlx (PostgreSQL или SQLite).
type sqlUserRepository struct {
	db *sqlx.DB
}

// NewUserRepository создает новый экземпляр репозитория пользователей.
func NewUserRepository(db *sqlx.DB) UserRepository {
	return &sqlUserRepository{db: db}
}

// CreateUser создает нового пользователя в базе данных.
// Возвращает ID созданного пользователя, ErrUsernameTaken/ErrEmailTaken
// при нарушении уникальности или обернутую ошибку БД.
func (r *sqlUserRepository) CreateUser(ctx context.Context, user *models.User) (int64, error) {
	query := r.db.Rebind(`INSERT INTO users (username, email, password_hash, created_at) VALUES (?, ?, ?, ?) RETURNING id`)
	var userID int64

	err := r.db.QueryRowxContext(ctx, query, user.Username, user.Email, user.PasswordHash, user.CreatedAt).Scan(&userID)
	if err != nil {
		// Проверяем на ошибку нарушения уникальности (duplicate key)
		if target, ok := uniqueViolation(err); ok {
			switch {
			case strings.Contains(target, "email"):
				slog.Info("[Repo] Email уже занят", "email", user.Email)
				return 0, ErrEmailTaken
			default:
				slog.Info("[Repo] Имя пользователя уже занято", "username", user.Username)
				return 0, ErrUsernameTaken
			}
		}
		slog.Error("[Repo] Непредвиденная ошибка при создании пользователя",
			"username", user.Username, "error", err)
		return 0, fmt.Errorf("ошибка выполнения запроса на создание пользователя: %w", err)
	}

	slog.Info("[Repo] Пользователь создан", "username", user.Username, "user_id", userID)
	return userID, nil
}

// GetUserByUsername находит пользователя по его имени.
// Возвращает ErrUserNotFound, если пользователя нет.
func (r *sqlUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	query := r.db.Rebind(`SELECT id, username, email, password_hash, created_at FROM users WHERE username=?`)
	var user models.User

	err := r.db.GetContext(ctx, &user, query, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			slog.Debug("[Repo] Пользователь не найден", "username", username)
			return nil, ErrUserNotFound
		}
		slog.Error("[Repo] Ошибка при поиске пользователя", "username", username, "error", err)
		return nil, fmt.Errorf("ошибка выполнения запроса на получение пользователя: %w", err)
	}

	return &user, nil
}
