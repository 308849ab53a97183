// Package s3storage предоставляет «тупой» клиент объектного хранилища.
//
// S3 API простой и стандартизованный, поэтому клиент не SDK: список,
// метаданные, скачивание. Обёртки для LLM function calling живут в
// pkg/tools/std и сами решают, как подать результат модели.
package s3storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/ilkoid/minagent/pkg/config"
)

// ClientInterface определяет интерфейс для S3 клиента.
// Используется для мокания в тестах и внедрения зависимостей.
type ClientInterface interface {
	ListFiles(ctx context.Context, prefix string) ([]StoredObject, error)
	StatFile(ctx context.Context, key string) (*StoredObject, error)
	DownloadFile(ctx context.Context, key string) ([]byte, error)
}

type Client struct {
	api    *minio.Client
	bucket string
}

// Проверка что Client реализует ClientInterface
var _ ClientInterface = (*Client)(nil)

// StoredObject - сырой объект из S3
type StoredObject struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// New создает клиент из конфигурации.
func New(cfg config.S3Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("s3.endpoint is required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3.bucket is required")
	}

	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client: %w", err)
	}

	return &Client{
		api:    minioClient,
		bucket: cfg.Bucket,
	}, nil
}

// Bucket возвращает имя рабочего bucket.
func (c *Client) Bucket() string {
	return c.bucket
}

// ListFiles возвращает все объекты по префиксу.
//
// Префикс передаётся как есть: "reports/2026" найдёт и reports/2026/01.csv,
// и reports/2026-summary.txt. Маркеры «папок» (ключи с завершающим слешем)
// пропускаются. Пустой результат — не ошибка: вызывающий решает, как его подать.
func (c *Client) ListFiles(ctx context.Context, prefix string) ([]StoredObject, error) {
	objects := []StoredObject{}

	opts := minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}

	for obj := range c.api.ListObjects(ctx, c.bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list objects under '%s': %w", prefix, obj.Err)
		}
		if strings.HasSuffix(obj.Key, "/") {
			continue
		}
		objects = append(objects, StoredObject{
			Key:          obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}

	return objects, nil
}

// StatFile возвращает метаданные объекта без скачивания.
//
// Позволяет проверить размер до чтения в память.
func (c *Client) StatFile(ctx context.Context, key string) (*StoredObject, error) {
	info, err := c.api.StatObject(ctx, c.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to stat object %s: %w", key, err)
	}

	return &StoredObject{
		Key:          info.Key,
		Size:         info.Size,
		LastModified: info.LastModified,
	}, nil
}

// DownloadFile скачивает объект целиком в память
func (c *Client) DownloadFile(ctx context.Context, key string) ([]byte, error) {
	obj, err := c.api.GetObject(ctx, c.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", key, err)
	}
	defer obj.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, obj); err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", key, err)
	}

	return buf.Bytes(), nil
}
