package model

import "time"

// User — учётная запись в сервисе идентификации.
// ID выдаётся сервером (UUID) и неизменяем, используется клиентом как uid.
type User struct {
	ID          string `gorm:"primaryKey;type:varchar(36)"`
	Email       string `gorm:"uniqueIndex;not null"`
	Password    string `gorm:"not null"` // bcrypt-хеш
	DisplayName string

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
