package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
)

// LocalStorage хранит файлы в одном каталоге локальной файловой системы.
type LocalStorage struct {
	dir string
}

var _ FileStorage = (*LocalStorage)(nil)

// NewLocalStorage создает хранилище в каталоге dir, создавая его при необходимости.
func NewLocalStorage(dir string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ошибка создания каталога загрузок '%s': %w", dir, err)
	}
	slog.Info("[LocalStorage] Каталог загрузок готов", "dir", dir)
	return &LocalStorage{dir: dir}, nil
}

// Dir возвращает каталог хранилища.
func (s *LocalStorage) Dir() string {
	return s.dir
}

// UploadFile записывает файл. Существующий файл с тем же именем не перезаписывается.
func (s *LocalStorage) UploadFile(
	_ context.Context,
	objectKey string,
	reader io.Reader,
	_ int64,
	_ string,
) error {
	if err := validKey(objectKey); err != nil {
		return err
	}
	path := filepath.Join(s.dir, objectKey)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", ErrObjectExists, objectKey)
		}
		return fmt.Errorf("ошибка создания файла '%s': %w", objectKey, err)
	}

	written, err := io.Copy(f, reader)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		slog.Error("[LocalStorage] Ошибка записи файла", "key", objectKey, "error", err)
		return fmt.Errorf("ошибка записи файла '%s': %w", objectKey, err)
	}

	slog.Info("[LocalStorage] Файл сохранен", "key", objectKey, "size", humanize.Bytes(uint64(written)))
	return nil
}

// DownloadFile открывает файл на чтение.
func (s *LocalStorage) DownloadFile(_ context.Context, objectKey string) (*Object, error) {
	if err := validKey(objectKey); err != nil {
		return nil, ErrObjectNotFound
	}

	f, err := os.Open(filepath.Join(s.dir, objectKey))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("ошибка открытия файла '%s': %w", objectKey, err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("ошибка получения метаданных файла '%s': %w", objectKey, err)
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, ErrObjectNotFound
	}

	return &Object{
		ReadSeekCloser: f,
		Key:            objectKey,
		Size:           info.Size(),
		ModTime:        info.ModTime(),
		ContentType:    ContentType(objectKey),
	}, nil
}

// DeleteFile удаляет файл.
func (s *LocalStorage) DeleteFile(_ context.Context, objectKey string) error {
	if err := validKey(objectKey); err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.dir, objectKey)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrObjectNotFound
		}
		return fmt.Errorf("ошибка удаления файла '%s': %w", objectKey, err)
	}
	slog.Info("[LocalStorage] Файл удален", "key", objectKey)
	return nil
}
