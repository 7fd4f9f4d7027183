package model

import "time"

// Document — запись коллекции документного хранилища.
// Data хранит JSON-объект в том виде, в котором его прислал клиент.
type Document struct {
	ID         string `gorm:"primaryKey;type:varchar(36)"`
	Collection string `gorm:"not null;index;type:varchar(64)"`
	OwnerID    string `gorm:"not null;index;type:varchar(36)"`
	Data       []byte `gorm:"not null"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
