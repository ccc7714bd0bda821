package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderItem is one configured model file in an order. FileID holds a TempFile
// token at creation and is rewritten to a UserFile id by the finalize job.
// Configuration, statistics and pricing are immutable snapshots.
type OrderItem struct {
	ID      string `gorm:"primaryKey;type:varchar(36);not null;uniqueIndex" json:"id"`
	OrderID string `gorm:"type:varchar(36);not null;index" json:"order_id"`
	Order   Order  `gorm:"foreignKey:OrderID;references:ID" json:"-"`

	FileID      string `gorm:"type:varchar(36);not null" json:"file_id"`
	FileName    string `gorm:"type:varchar(255);not null" json:"file_name"`
	FileSize    int64  `gorm:"not null" json:"file_size"`
	IsFinalized bool   `gorm:"default:false" json:"is_finalized"`

	Qty int `gorm:"not null" json:"qty"`

	// Configuration snapshot, captured as strings at order time.
	Material    string `gorm:"size:50;not null" json:"material"`
	Color       string `gorm:"size:50" json:"color"`
	LayerHeight string `gorm:"size:10;not null" json:"layer_height"`
	Infill      string `gorm:"size:10" json:"infill"`
	WallCount   string `gorm:"size:10" json:"wall_count"`

	// Statistics snapshot from the slicer at configuration time.
	PrintTimeMinutes float64 `gorm:"type:decimal(12,2);not null" json:"print_time_minutes"`
	FilamentWeight   float64 `gorm:"type:decimal(12,2);not null" json:"filament_weight"`

	// Pricing snapshot. TotalPrice = FilamentWeight * Qty * PricePerGram.
	PricePerGram decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"price_per_gram"`
	TotalPrice   decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"total_price"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (oi *OrderItem) BeforeCreate(tx *gorm.DB) (err error) {
	if oi.ID == "" {
		oi.ID = uuid.New().String()
	}
	return
}
