// Package schedule реализует политику истечения расписаний.
//
// Очистка ленивая: истечение вычисляется и применяется только как побочный
// эффект операции листинга, фонового таймера нет. Sweep — чистая функция,
// фиксация удалений выполняется вызывающей стороной отдельным шагом.
package schedule

import (
	"time"

	"github.com/mallangdev/boss-scheduler/internal/models"
)

// Окна жизни записи по типу повторения.
const (
	DailyWindow  = 24 * time.Hour
	WeeklyWindow = 7 * 24 * time.Hour
)

// ExpirationWindow возвращает окно жизни для типа повторения.
// Любой тип, кроме weekly, трактуется как daily.
func ExpirationWindow(scheduleType string) time.Duration {
	if scheduleType == models.TypeWeekly {
		return WeeklyWindow
	}
	return DailyWindow
}

// ExpiresAt возвращает момент, после которого запись считается истёкшей.
func ExpiresAt(s models.Schedule) time.Time {
	return s.CreatedAt.Add(ExpirationWindow(s.Type))
}

// Sweep разбивает записи на живые и истёкшие относительно момента now.
// Запись жива, пока now <= createdAt + окно; строгое "после" означает истечение.
// Порядок записей в обоих срезах сохраняется.
func Sweep(records []models.Schedule, now time.Time) (live, expired []models.Schedule) {
	for _, r := range records {
		if now.After(ExpiresAt(r)) {
			expired = append(expired, r)
		} else {
			live = append(live, r)
		}
	}
	return live, expired
}
