package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TempFile is an ephemeral pre-checkout upload. The id doubles as the token
// order items carry until finalization swaps it for a UserFile id.
type TempFile struct {
	ID         string    `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	UploadedBy string    `gorm:"size:36;index" json:"uploaded_by"`
	FileName   string    `gorm:"size:255;not null" json:"file_name"`
	FileSize   int64     `gorm:"not null" json:"file_size"`
	MimeType   string    `gorm:"size:100" json:"mime_type"`
	FileData   string    `gorm:"type:longtext;not null" json:"file_data"`
	ExpiresAt  time.Time `gorm:"index" json:"expires_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (t *TempFile) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return
}
