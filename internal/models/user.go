// Package models содержит доменную модель пользователя системы,
// включающую никнейм, хэш пароля и ссылку на изображение профиля.
// Структура используется в бизнес-логике и при работе с хранилищем.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
//
// UID — неизменяемый идентификатор документа, никнейм — изменяемый
// отображаемый атрибут с проверкой уникальности при регистрации.
type User struct {
	UID             string    `firestore:"-" json:"uid"`                           // Уникальный идентификатор пользователя
	Nickname        string    `firestore:"nickname" json:"nickname"`               // Отображаемое имя, уникальное
	PasswordHash    string    `firestore:"passwordHash" json:"-"`                  // Bcrypt-хэш пароля
	ProfileImageURL *string   `firestore:"profileImageUrl" json:"profileImageUrl"` // Ссылка на изображение профиля, может быть nil
	CreatedAt       time.Time `firestore:"createdAt" json:"createdAt"`             // Момент регистрации
}

// ProfilePatch описывает частичное обновление профиля.
// Nil-поле означает «не трогать».
type ProfilePatch struct {
	Nickname        *string `json:"nickname"`
	ProfileImageURL *string `json:"profileImageUrl"`
}

// IsEmpty сообщает, что в патче нет ни одного поля для обновления.
func (p ProfilePatch) IsEmpty() bool {
	return p.Nickname == nil && p.ProfileImageURL == nil
}
