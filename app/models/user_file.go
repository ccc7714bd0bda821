package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserFile is a permanent, ownership-tagged model file created from a
// TempFile once an order is confirmed. Readable only by its owner or admin.
type UserFile struct {
	ID         string         `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	UploadedBy string         `gorm:"size:36;not null;index" json:"uploaded_by"`
	Uploader   User           `gorm:"foreignKey:UploadedBy" json:"-"`
	FileName   string         `gorm:"size:255;not null" json:"file_name"`
	FileSize   int64          `gorm:"not null" json:"file_size"`
	MimeType   string         `gorm:"size:100" json:"mime_type"`
	FileData   []byte         `gorm:"type:longblob;not null" json:"-"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (f *UserFile) BeforeCreate(tx *gorm.DB) (err error) {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	return
}
