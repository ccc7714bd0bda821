package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PriceRule is one row of the per-gram price table, keyed by material and
// layer height. Orders snapshot the matched rule's price at creation time,
// so editing a rule never changes historical orders.
type PriceRule struct {
	ID           string          `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	Material     string          `gorm:"size:50;not null;index:idx_material_layer" json:"material"`
	LayerHeight  float64         `gorm:"type:decimal(6,3);not null;index:idx_material_layer" json:"layer_height"`
	PricePerGram decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"price_per_gram"`
	IsActive     bool            `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (p *PriceRule) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return
}
