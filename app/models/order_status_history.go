package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderStatusHistory is an append-only audit log. Rows are only ever inserted,
// one per effective status change, never edited or deleted.
type OrderStatusHistory struct {
	ID        string    `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	OrderID   string    `gorm:"size:36;not null;index" json:"order_id"`
	Status    string    `gorm:"size:30;not null" json:"status"`
	ChangedBy string    `gorm:"size:36" json:"changed_by"`
	ChangedAt time.Time `gorm:"not null" json:"changed_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *OrderStatusHistory) BeforeCreate(tx *gorm.DB) (err error) {
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	if h.ChangedAt.IsZero() {
		h.ChangedAt = time.Now()
	}
	return
}
