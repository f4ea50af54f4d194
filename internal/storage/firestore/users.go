package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/mallangdev/boss-scheduler/internal/models"
)

// CreateUser сохраняет нового пользователя под заданным uid.
func (s *Storage) CreateUser(ctx context.Context, uid string, user models.User) error {
	const op = "storage.firestore.CreateUser"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if _, err := s.client.Collection(usersCollection).Doc(uid).Set(ctx, user); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetUser возвращает пользователя по uid или ErrNotFound.
func (s *Storage) GetUser(ctx context.Context, uid string) (*models.User, error) {
	const op = "storage.firestore.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	doc, err := s.client.Collection(usersCollection).Doc(uid).Get(ctx)
	if err != nil {
		if notFound(err) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var user models.User
	if err := doc.DataTo(&user); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user.UID = doc.Ref.ID
	return &user, nil
}

// GetUserByNickname возвращает пользователя по никнейму или ErrNotFound.
// Никнеймы уникальны, поэтому достаточно первого совпадения.
func (s *Storage) GetUserByNickname(ctx context.Context, nickname string) (*models.User, error) {
	const op = "storage.firestore.GetUserByNickname"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	iter := s.client.Collection(usersCollection).
		Where("nickname", "==", nickname).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var user models.User
	if err := doc.DataTo(&user); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user.UID = doc.Ref.ID
	return &user, nil
}

// UpdateProfile частично обновляет профиль пользователя.
// Обновляются только поля, присутствующие в патче.
func (s *Storage) UpdateProfile(ctx context.Context, uid string, patch models.ProfilePatch) error {
	const op = "storage.firestore.UpdateProfile"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var updates []firestore.Update
	if patch.Nickname != nil {
		updates = append(updates, firestore.Update{Path: "nickname", Value: *patch.Nickname})
	}
	if patch.ProfileImageURL != nil {
		updates = append(updates, firestore.Update{Path: "profileImageUrl", Value: *patch.ProfileImageURL})
	}
	if len(updates) == 0 {
		return nil
	}

	_, err := s.client.Collection(usersCollection).Doc(uid).Update(ctx, updates)
	if err != nil {
		if notFound(err) {
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
