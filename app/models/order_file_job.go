package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	FileJobStatusPending        = "pending"
	FileJobStatusProcessing     = "processing"
	FileJobStatusDone           = "done"
	FileJobStatusReconciliation = "needs-reconciliation"
)

const FileJobMaxAttempts = 5

// OrderFileJob is the outbox row for the temp-file finalization pipeline.
// It is enqueued inside the order-create transaction and processed
// asynchronously by the finalize worker; the order itself never waits on it.
type OrderFileJob struct {
	ID        string    `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	OrderID   string    `gorm:"size:36;not null;uniqueIndex" json:"order_id"`
	Status    string    `gorm:"size:30;default:'pending';not null;index" json:"status"`
	Attempts  int       `gorm:"default:0" json:"attempts"`
	LastError string    `gorm:"type:text" json:"last_error"`
	NextRunAt time.Time `gorm:"index" json:"next_run_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (j *OrderFileJob) BeforeCreate(tx *gorm.DB) (err error) {
	if j.ID == "" {
		j.ID = uuid.New().String()
	}
	if j.Status == "" {
		j.Status = FileJobStatusPending
	}
	if j.NextRunAt.IsZero() {
		j.NextRunAt = time.Now()
	}
	return
}
