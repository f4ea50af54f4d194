// Package firestore реализует документное хранилище приложения поверх
// Google Cloud Firestore: коллекции schedules и users, атомарные операции
// над множеством участников и пакетное удаление истёкших расписаний.
package firestore

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Имена коллекций в Firestore.
const (
	schedulesCollection = "schedules"
	usersCollection     = "users"
)

// ErrNotFound возвращается, когда документ с указанным ID не существует.
var ErrNotFound = errors.New("document not found")

// Storage обёртка над firestore-клиентом, реализующая репозитории
// расписаний и пользователей.
type Storage struct {
	client *firestore.Client
}

// New создаёт подключение к Firestore для указанного проекта.
func New(ctx context.Context, projectID string) (*Storage, error) {
	const op = "storage.firestore.New"

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Storage{client: client}, nil
}

// Close закрывает соединение с Firestore.
func (s *Storage) Close() error {
	return s.client.Close()
}

// notFound распознаёт ошибку отсутствия документа в ответе Firestore.
func notFound(err error) bool {
	return status.Code(err) == codes.NotFound
}
