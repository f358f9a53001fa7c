package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// FileStorage определяет интерфейс для хранилища файлов набросков.
type FileStorage interface {
	UploadFile(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) error
	// DownloadFile открывает файл на чтение. Объект нужно закрыть после использования.
	DownloadFile(ctx context.Context, objectKey string) (*Object, error)
	// DeleteFile удаляет файл. Для отсутствующего файла возвращает ErrObjectNotFound.
	DeleteFile(ctx context.Context, objectKey string) error
}

// Object - открытый файл из хранилища вместе с метаданными.
type Object struct {
	io.ReadSeekCloser
	Key         string
	Size        int64
	ModTime     time.Time
	ContentType string
}

// Кастомные ошибки хранилища.
var (
	ErrObjectNotFound   = errors.New("объект не найден в хранилище")
	ErrObjectExists     = errors.New("объект уже существует в хранилище")
	ErrInvalidObjectKey = errors.New("недопустимое имя объекта")
)
