package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/mallangdev/boss-scheduler/internal/models"
)

// CreateSchedule вставляет новую запись расписания и возвращает назначенный хранилищем ID.
func (s *Storage) CreateSchedule(ctx context.Context, schedule models.Schedule) (string, error) {
	const op = "storage.firestore.CreateSchedule"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	ref, _, err := s.client.Collection(schedulesCollection).Add(ctx, schedule)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return ref.ID, nil
}

// ListSchedules возвращает все расписания, отсортированные по createdAt по убыванию.
// Порядок является внешним контрактом листинга.
func (s *Storage) ListSchedules(ctx context.Context) ([]models.Schedule, error) {
	const op = "storage.firestore.ListSchedules"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	iter := s.client.Collection(schedulesCollection).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var result []models.Schedule
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		var schedule models.Schedule
		if err := doc.DataTo(&schedule); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		schedule.ID = doc.Ref.ID
		result = append(result, schedule)
	}
	return result, nil
}

// GetSchedule возвращает расписание по ID или ErrNotFound.
func (s *Storage) GetSchedule(ctx context.Context, id string) (*models.Schedule, error) {
	const op = "storage.firestore.GetSchedule"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	doc, err := s.client.Collection(schedulesCollection).Doc(id).Get(ctx)
	if err != nil {
		if notFound(err) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var schedule models.Schedule
	if err := doc.DataTo(&schedule); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	schedule.ID = doc.Ref.ID
	return &schedule, nil
}

// DeleteSchedule удаляет расписание по ID без проверок существования.
func (s *Storage) DeleteSchedule(ctx context.Context, id string) error {
	const op = "storage.firestore.DeleteSchedule"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if _, err := s.client.Collection(schedulesCollection).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteSchedules удаляет набор расписаний одним пакетом записи.
// Пустой набор — no-op без обращения к хранилищу.
func (s *Storage) DeleteSchedules(ctx context.Context, ids []string) error {
	const op = "storage.firestore.DeleteSchedules"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if len(ids) == 0 {
		return nil
	}

	batch := s.client.Batch()
	for _, id := range ids {
		batch.Delete(s.client.Collection(schedulesCollection).Doc(id))
	}
	if _, err := batch.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// AddParticipant атомарно добавляет uid в множество участников расписания.
// Повторное добавление поглощается семантикой ArrayUnion.
func (s *Storage) AddParticipant(ctx context.Context, scheduleID, userID string) error {
	const op = "storage.firestore.AddParticipant"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	_, err := s.client.Collection(schedulesCollection).Doc(scheduleID).Update(ctx, []firestore.Update{
		{Path: "participants", Value: firestore.ArrayUnion(userID)},
	})
	if err != nil {
		if notFound(err) {
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// RemoveParticipant атомарно удаляет uid из множества участников расписания.
// Удаление отсутствующего участника — no-op по семантике ArrayRemove.
func (s *Storage) RemoveParticipant(ctx context.Context, scheduleID, userID string) error {
	const op = "storage.firestore.RemoveParticipant"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	_, err := s.client.Collection(schedulesCollection).Doc(scheduleID).Update(ctx, []firestore.Update{
		{Path: "participants", Value: firestore.ArrayRemove(userID)},
	})
	if err != nil {
		if notFound(err) {
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
