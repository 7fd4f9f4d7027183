package model

import "time"

// Blob — объект файлового хранилища, адресуемый путём вида images/<uid>/<id>.
type Blob struct {
	Path        string `gorm:"primaryKey;type:varchar(512)"`
	OwnerID     string `gorm:"not null;index;type:varchar(36)"`
	ContentType string `gorm:"not null"`
	Size        int64  `gorm:"not null"`
	Data        []byte `gorm:"not null"`

	// DownloadToken входит в публичную ссылку на скачивание.
	DownloadToken string `gorm:"not null;type:varchar(36)"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
