// Package services содержит бизнес-логику жизненного цикла расписаний боссов:
// создание, листинг с ленивой очисткой истёкших записей, чтение с разрешением
// участников и удаление, а также переключение участия join/leave.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mallangdev/boss-scheduler/internal/cache"
	"github.com/mallangdev/boss-scheduler/internal/lib/sl"
	"github.com/mallangdev/boss-scheduler/internal/models"
	"github.com/mallangdev/boss-scheduler/internal/schedule"
	storage "github.com/mallangdev/boss-scheduler/internal/storage/firestore"
)

// Ошибки бизнес-уровня, по которым обработчики выбирают HTTP-статус.
var (
	// ErrScheduleNotFound — расписание с указанным ID не существует.
	ErrScheduleNotFound = errors.New("schedule not found")
	// ErrNotOwner — запрос на удаление от пользователя, не являющегося создателем.
	ErrNotOwner = errors.New("user is not the schedule owner")
	// ErrInvalidAction — действие участия не является ни join, ни leave.
	ErrInvalidAction = errors.New("invalid participation action")
)

// Действия переключения участия.
const (
	ActionJoin  = "join"
	ActionLeave = "leave"
)

// Отображаемое имя для участников, чей профиль не удалось разрешить.
const placeholderNickname = "unknown"

// Время жизни кешированного никнейма.
const nicknameCacheTTL = 10 * time.Minute

// ScheduleRepository определяет методы для работы с расписаниями в документном хранилище.
type ScheduleRepository interface {
	// CreateSchedule добавляет новую запись и возвращает её ID.
	CreateSchedule(ctx context.Context, s models.Schedule) (string, error)
	// ListSchedules возвращает все записи, отсортированные по createdAt по убыванию.
	ListSchedules(ctx context.Context) ([]models.Schedule, error)
	// GetSchedule возвращает запись по ID или ошибку, оборачивающую storage.ErrNotFound.
	GetSchedule(ctx context.Context, id string) (*models.Schedule, error)
	// DeleteSchedule удаляет запись по ID.
	DeleteSchedule(ctx context.Context, id string) error
	// DeleteSchedules удаляет набор записей одним пакетом.
	DeleteSchedules(ctx context.Context, ids []string) error
	// AddParticipant атомарно добавляет uid в множество участников.
	AddParticipant(ctx context.Context, scheduleID, userID string) error
	// RemoveParticipant атомарно удаляет uid из множества участников.
	RemoveParticipant(ctx context.Context, scheduleID, userID string) error
}

// UserReader определяет чтение профилей для разрешения никнеймов участников.
type UserReader interface {
	GetUser(ctx context.Context, uid string) (*models.User, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// ScheduleService реализует бизнес-логику работы с расписаниями.
type ScheduleService struct {
	repo  ScheduleRepository
	users UserReader
	cache Cache
	log   *slog.Logger
}

// NewScheduleService создает новый экземпляр ScheduleService.
func NewScheduleService(repo ScheduleRepository, users UserReader, cache Cache, log *slog.Logger) *ScheduleService {
	return &ScheduleService{
		repo:  repo,
		users: users,
		cache: cache,
		log:   log,
	}
}

// Create создает новую запись расписания и возвращает её вместе с назначенным ID.
// Момент создания фиксируется сервером и далее не меняется.
func (s *ScheduleService) Create(ctx context.Context, req models.DummySchedule) (*models.Schedule, error) {
	days := req.Days
	if days == nil {
		days = []string{}
	}
	entry := models.Schedule{
		ScheduleTitle: req.ScheduleTitle,
		BossName:      req.BossName,
		Days:          days,
		StartTime:     req.StartTime,
		Type:          req.Type,
		UserID:        req.UserID,
		CreatedAt:     time.Now().UTC(),
		Completed:     false,
		Participants:  []string{},
	}

	id, err := s.repo.CreateSchedule(ctx, entry)
	if err != nil {
		return nil, err
	}
	entry.ID = id

	s.log.Info("created new schedule", slog.String("id", id), slog.String("type", entry.Type))
	return &entry, nil
}

// List возвращает живые расписания в порядке убывания createdAt и попутно
// удаляет истёкшие одним пакетом. Очистка выполняется только здесь: фонового
// таймера нет, истёкшая запись остаётся в хранилище до следующего листинга.
func (s *ScheduleService) List(ctx context.Context) ([]models.Schedule, error) {
	records, err := s.repo.ListSchedules(ctx)
	if err != nil {
		return nil, err
	}

	live, expired := schedule.Sweep(records, time.Now().UTC())
	if len(expired) > 0 {
		ids := make([]string, 0, len(expired))
		for _, r := range expired {
			ids = append(ids, r.ID)
		}
		if err := s.repo.DeleteSchedules(ctx, ids); err != nil {
			return nil, err
		}
		s.log.Info("swept expired schedules", slog.Int("count", len(ids)))
	}
	return live, nil
}

// Details возвращает расписание по ID вместе с разрешёнными никнеймами участников.
// Сбой разрешения отдельного участника не фатален для запроса: вместо имени
// подставляется заглушка.
func (s *ScheduleService) Details(ctx context.Context, id string) (*models.ScheduleDetails, error) {
	entry, err := s.repo.GetSchedule(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}

	participants := make([]models.Participant, 0, len(entry.Participants))
	for _, uid := range entry.Participants {
		participants = append(participants, models.Participant{
			UID:      uid,
			Nickname: s.resolveNickname(ctx, uid),
		})
	}

	return &models.ScheduleDetails{
		Schedule:     *entry,
		Participants: participants,
	}, nil
}

// Participate переключает участие пользователя в расписании.
// Оба действия идемпотентны: повторный join и leave без членства — no-op успех.
func (s *ScheduleService) Participate(ctx context.Context, scheduleID, userID, action string) error {
	if action != ActionJoin && action != ActionLeave {
		return fmt.Errorf("%w: %q", ErrInvalidAction, action)
	}

	if _, err := s.repo.GetSchedule(ctx, scheduleID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrScheduleNotFound
		}
		return err
	}

	if action == ActionJoin {
		if err := s.repo.AddParticipant(ctx, scheduleID, userID); err != nil {
			return err
		}
	} else {
		if err := s.repo.RemoveParticipant(ctx, scheduleID, userID); err != nil {
			return err
		}
	}

	s.log.Info("participation updated",
		slog.String("schedule_id", scheduleID),
		slog.String("user_id", userID),
		slog.String("action", action))
	return nil
}

// Remove удаляет расписание. Удалять запись может только её создатель;
// для несуществующего ID возвращается ErrScheduleNotFound раньше проверки владения.
func (s *ScheduleService) Remove(ctx context.Context, scheduleID, userID string) error {
	entry, err := s.repo.GetSchedule(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrScheduleNotFound
		}
		return err
	}
	if entry.UserID != userID {
		return ErrNotOwner
	}

	if err := s.repo.DeleteSchedule(ctx, scheduleID); err != nil {
		return err
	}

	s.log.Info("schedule removed", slog.String("id", scheduleID))
	return nil
}

// resolveNickname возвращает отображаемое имя участника, используя кеш,
// а при промахе — хранилище профилей. Любой сбой даёт заглушку.
func (s *ScheduleService) resolveNickname(ctx context.Context, uid string) string {
	cacheKey := cache.NicknameKey(uid)

	var nickname string
	found, err := s.cache.Get(cacheKey, &nickname)
	if err != nil {
		s.log.Warn("failed to read nickname from cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found && nickname != "" {
		return nickname
	}

	user, err := s.users.GetUser(ctx, uid)
	if err != nil || user.Nickname == "" {
		if err != nil {
			s.log.Warn("failed to resolve participant", slog.String("uid", uid), sl.Err(err))
		}
		return placeholderNickname
	}

	if err := s.cache.Set(cacheKey, user.Nickname, nicknameCacheTTL); err != nil {
		s.log.Warn("failed to cache nickname", slog.String("key", cacheKey), sl.Err(err))
	}
	return user.Nickname
}
