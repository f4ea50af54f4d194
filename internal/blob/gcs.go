// Package blob реализует хранилище бинарных объектов поверх Google Cloud Storage.
// Используется только для загрузки изображений профиля.
package blob

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
)

// Store обёртка над GCS-клиентом для одного бакета.
type Store struct {
	client *storage.Client
	bucket string
}

// New создаёт клиент GCS для указанного бакета.
func New(ctx context.Context, bucket string) (*Store, error) {
	const op = "blob.New"

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Store{client: client, bucket: bucket}, nil
}

// Close закрывает соединение с GCS.
func (s *Store) Close() error {
	return s.client.Close()
}

// Upload записывает содержимое r в объект с именем name и возвращает публичный URL.
func (s *Store) Upload(ctx context.Context, name string, r io.Reader) (string, error) {
	const op = "blob.Upload"

	w := s.client.Bucket(s.bucket).Object(name).NewWriter(ctx)
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, name), nil
}
