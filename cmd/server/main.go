package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"

	"github.com/NYD05/StyleHub/internal/handlers"
	"github.com/NYD05/StyleHub/internal/repository"
	"github.com/NYD05/StyleHub/internal/router"
	"github.com/NYD05/StyleHub/internal/services"
	"github.com/NYD05/StyleHub/internal/storage"
)

const (
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second
)

// Структура для хранения инициализированных зависимостей.
type dependencies struct {
	db       *sqlx.DB
	sessions services.SessionManager
	handler  http.Handler
}

// main - точка входа. Вызывает run и обрабатывает ошибку.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		slog.Error("Ошибка выполнения сервера", "error", err)
		stop()
		os.Exit(1)
	}
}

// run содержит основную логику запуска сервера и возвращает ошибку.
func run(ctx context.Context, args []string) error {
	// .env не перекрывает уже заданное окружение.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("ошибка чтения .env: %w", err)
	}

	cfg, err := parseConfig(args, os.LookupEnv)
	if err != nil {
		return err
	}

	logger, err := newLogger(os.Stderr, cfg.Logging)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	slog.Info("Запуск сервера StyleHub...", "addr", cfg.Server.Addr, "db_driver", cfg.Database.Driver,
		"storage", cfg.Storage.Backend)

	deps, err := setupDependencies(ctx, cfg)
	if err != nil {
		return fmt.Errorf("ошибка инициализации зависимостей: %w", err)
	}
	defer closeDB(deps.db)

	if cfg.Auth.ReaperInterval > 0 {
		go services.RunSessionReaper(ctx, deps.sessions, cfg.Auth.ReaperInterval)
	}

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      deps.handler,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		IdleTimeout:  defaultIdleTimeout,
	}
	return serve(ctx, server)
}

// serve запускает сервер и останавливает его при отмене ctx, дожидаясь
// завершения активных запросов.
func serve(ctx context.Context, server *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("Запуск HTTP-сервера", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("ошибка запуска сервера: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Остановка сервера...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("ошибка остановки сервера: %w", err)
	}
	slog.Info("Сервер остановлен")
	return nil
}

// setupDependencies инициализирует и возвращает все необходимые зависимости сервера.
func setupDependencies(ctx context.Context, cfg *config) (*dependencies, error) {
	db, err := repository.NewDB(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации БД: %w", err)
	}
	if err = repository.Migrate(ctx, db); err != nil {
		closeDB(db)
		return nil, err
	}

	fileStorage, err := newFileStorage(ctx, cfg.Storage)
	if err != nil {
		closeDB(db)
		return nil, err
	}

	hasher, err := services.NewPasswordHasher(cfg.Auth.PasswordHasher)
	if err != nil {
		closeDB(db)
		return nil, err
	}

	// Репозитории
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	sketchRepo := repository.NewSketchRepository(db)
	interactionRepo := repository.NewInteractionRepository(db)

	// Сервисы
	sessions := services.NewSessionManager(sessionRepo, cfg.Auth.SessionTTL)
	authService := services.NewAuthService(userRepo, hasher, sessions)
	sketchService := services.NewSketchService(sketchRepo, fileStorage)
	interactionService := services.NewInteractionService(interactionRepo)

	handler := router.NewRouter(router.Handlers{
		Auth:         handlers.NewAuthHandler(authService),
		Sketches:     handlers.NewSketchHandler(sketchService, cfg.Upload.MaxBytes),
		Interactions: handlers.NewInteractionHandler(interactionService),
		Static:       handlers.NewStaticHandler(cfg.Frontend.Dir),
		Validator:    sessions,
	})

	return &dependencies{db: db, sessions: sessions, handler: handler}, nil
}

func newFileStorage(ctx context.Context, cfg storageConfig) (storage.FileStorage, error) {
	switch cfg.Backend {
	case storageMinio:
		client, err := storage.NewMinioClient(ctx, storage.MinioConfig{
			Endpoint:        cfg.Minio.Endpoint,
			AccessKeyID:     cfg.Minio.User,
			SecretAccessKey: cfg.Minio.Password,
			UseSSL:          cfg.Minio.UseSSL,
			BucketName:      cfg.Minio.Bucket,
		})
		if err != nil {
			return nil, fmt.Errorf("ошибка инициализации клиента MinIO: %w", err)
		}
		return client, nil
	default:
		local, err := storage.NewLocalStorage(cfg.UploadDir)
		if err != nil {
			return nil, fmt.Errorf("ошибка инициализации локального хранилища: %w", err)
		}
		return local, nil
	}
}

func closeDB(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		slog.Error("Ошибка закрытия соединения с БД", "error", err)
	}
}
