// Package models содержит доменные структуры пользователя и подписки,
// а также проверку инвариантов подписки.
package models

import "time"

// User учетная запись. Пароль хранится непрозрачно и никогда не сериализуется.
type User struct {
	ID        string    `json:"id"`       // UUID пользователя
	Username  string    `json:"username"` // Уникальное имя пользователя
	Password  string    `json:"-"`        // Учетные данные в том виде, в каком их передали в хранилище
	CreatedAt time.Time `json:"created_at"`
}
