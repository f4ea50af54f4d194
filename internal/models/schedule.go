// Package models содержит доменные структуры расписаний боссов и пользователей,
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

// Тип повторения расписания, определяет окно жизни записи.
const (
	// TypeDaily — ежедневный босс, запись живёт 1 день после создания.
	TypeDaily = "daily"
	// TypeWeekly — еженедельный босс, запись живёт 7 дней после создания.
	TypeWeekly = "weekly"
)

// Schedule представляет собой запись расписания босса,
// используемую в бизнес-логике и документном хранилище.
//
// Поле Completed сохранено для совместимости с существующими документами:
// ни одна операция его не читает и не изменяет после создания.
type Schedule struct {
	ID            string    `firestore:"-" json:"id"`                      // Идентификатор документа, назначается хранилищем
	ScheduleTitle string    `firestore:"scheduleTitle" json:"scheduleTitle"` // Название расписания
	BossName      string    `firestore:"bossName" json:"bossName"`         // Имя босса
	Days          []string  `firestore:"days" json:"days"`                 // Дни недели, может быть пустым
	StartTime     string    `firestore:"startTime" json:"startTime"`       // Время начала
	Type          string    `firestore:"type" json:"type"`                 // daily или weekly
	UserID        string    `firestore:"userId" json:"userId"`             // Создатель, неизменяем после создания
	CreatedAt     time.Time `firestore:"createdAt" json:"createdAt"`       // Момент создания, выставляется сервером
	Completed     bool      `firestore:"completed" json:"completed"`       // Не используется
	Participants  []string  `firestore:"participants" json:"participants"` // Множество uid участников
}

// DummySchedule используется для приёма данных из JSON-запроса на создание,
// прежде чем конвертировать их в Schedule.
type DummySchedule struct {
	ScheduleTitle string   `json:"scheduleTitle" validate:"required"`          // Название расписания
	BossName      string   `json:"bossName" validate:"required"`               // Имя босса
	Days          []string `json:"days"`                                       // Дни недели, необязательное поле
	StartTime     string   `json:"startTime" validate:"required"`              // Время начала
	Type          string   `json:"type" validate:"required,oneof=daily weekly"` // Тип повторения
	UserID        string   `json:"userId"`                                     // Отсутствие трактуется как 401, а не 400
}

// Participant описывает участника расписания с разрешённым отображаемым именем.
type Participant struct {
	UID      string `json:"uid"`
	Nickname string `json:"nickname"`
}

// ScheduleDetails — расписание вместе с разрешёнными участниками,
// возвращается операцией чтения по ID.
type ScheduleDetails struct {
	Schedule
	Participants []Participant `json:"participants"`
}
