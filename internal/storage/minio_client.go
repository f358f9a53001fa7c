package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioClient реализует FileStorage для MinIO.
type MinioClient struct {
	client     *minio.Client
	bucketName string
}

var _ FileStorage = (*MinioClient)(nil)

// MinioConfig содержит параметры для подключения к MinIO.
type MinioConfig struct {
	Endpoint        string // Адрес MinIO (например, "localhost:9000")
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
	BucketName      string
	Region          string
}

// NewMinioClient создает новый клиент MinIO и при необходимости создает бакет.
func NewMinioClient(ctx context.Context, cfg MinioConfig) (*MinioClient, error) {
	slog.Info("[Minio] Инициализация клиента", "endpoint", cfg.Endpoint)

	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации клиента MinIO: %w", err)
	}

	exists, err := minioClient.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("ошибка проверки существования бакета '%s': %w", cfg.BucketName, err)
	}
	if !exists {
		slog.Info("[Minio] Бакет не найден, попытка создания", "bucket", cfg.BucketName)
		err = minioClient.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{Region: cfg.Region})
		if err != nil {
			return nil, fmt.Errorf("ошибка создания бакета '%s': %w", cfg.BucketName, err)
		}
	}

	slog.Info("[Minio] Клиент успешно инициализирован", "bucket", cfg.BucketName)
	return &MinioClient{
		client:     minioClient,
		bucketName: cfg.BucketName,
	}, nil
}

// UploadFile загружает файл в MinIO.
func (c *MinioClient) UploadFile(
	ctx context.Context,
	objectKey string,
	reader io.Reader,
	size int64,
	contentType string,
) error {
	if err := validKey(objectKey); err != nil {
		return err
	}

	opts := minio.PutObjectOptions{ContentType: contentType}
	uploadInfo, err := c.client.PutObject(ctx, c.bucketName, objectKey, reader, size, opts)
	if err != nil {
		slog.Error("[Minio] Ошибка загрузки файла", "key", objectKey, "error", err)
		return fmt.Errorf("ошибка загрузки файла в MinIO: %w", err)
	}

	slog.Info("[Minio] Файл успешно загружен",
		"key", objectKey, "size", humanize.Bytes(uint64(uploadInfo.Size)), "etag", uploadInfo.ETag)
	return nil
}

// DownloadFile открывает объект из MinIO.
func (c *MinioClient) DownloadFile(ctx context.Context, objectKey string) (*Object, error) {
	if err := validKey(objectKey); err != nil {
		return nil, ErrObjectNotFound
	}

	object, err := c.client.GetObject(ctx, c.bucketName, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, c.translateError(objectKey, err)
	}

	// GetObject ленивый, ошибка отсутствия объекта видна только после Stat.
	stat, err := object.Stat()
	if err != nil {
		_ = object.Close()
		return nil, c.translateError(objectKey, err)
	}

	contentType := stat.ContentType
	if contentType == "" {
		contentType = ContentType(objectKey)
	}
	return &Object{
		ReadSeekCloser: object,
		Key:            objectKey,
		Size:           stat.Size,
		ModTime:        stat.LastModified,
		ContentType:    contentType,
	}, nil
}

// DeleteFile удаляет объект. RemoveObject не сообщает об отсутствии ключа,
// поэтому существование проверяется через StatObject.
func (c *MinioClient) DeleteFile(ctx context.Context, objectKey string) error {
	if err := validKey(objectKey); err != nil {
		return err
	}

	if _, err := c.client.StatObject(ctx, c.bucketName, objectKey, minio.StatObjectOptions{}); err != nil {
		return c.translateError(objectKey, err)
	}
	if err := c.client.RemoveObject(ctx, c.bucketName, objectKey, minio.RemoveObjectOptions{}); err != nil {
		slog.Error("[Minio] Ошибка удаления файла", "key", objectKey, "error", err)
		return fmt.Errorf("ошибка удаления файла из MinIO: %w", err)
	}

	slog.Info("[Minio] Файл удален", "key", objectKey)
	return nil
}

func (c *MinioClient) translateError(objectKey string, err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		slog.Info("[Minio] Файл не найден", "key", objectKey, "bucket", c.bucketName)
		return ErrObjectNotFound
	}
	slog.Error("[Minio] Ошибка обращения к объекту", "key", objectKey, "error", err)
	return fmt.Errorf("ошибка обращения к объекту MinIO: %w", err)
}
