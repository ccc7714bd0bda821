package repositories

import (
	"context"
	"time"

	"github.com/cetak3d/go-printshop/app/models"
	"gorm.io/gorm"
)

type OrderItemRepository interface {
	BulkCreate(ctx context.Context, tx *gorm.DB, items []models.OrderItem) error
	FindByOrderID(ctx context.Context, orderID string) ([]models.OrderItem, error)
	FinalizeFileID(ctx context.Context, tx *gorm.DB, itemID, fileID string) error
}

type gormOrderItemRepository struct {
	db *gorm.DB
}

func NewOrderItemRepository(db *gorm.DB) OrderItemRepository {
	return &gormOrderItemRepository{db: db}
}

func (r *gormOrderItemRepository) BulkCreate(ctx context.Context, tx *gorm.DB, items []models.OrderItem) error {
	return tx.WithContext(ctx).Create(&items).Error
}

func (r *gormOrderItemRepository) FindByOrderID(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *gormOrderItemRepository) FinalizeFileID(ctx context.Context, tx *gorm.DB, itemID, fileID string) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Model(&models.OrderItem{}).Where("id = ?", itemID).Updates(map[string]interface{}{
		"file_id":      fileID,
		"is_finalized": true,
		"updated_at":   time.Now(),
	}).Error
}
