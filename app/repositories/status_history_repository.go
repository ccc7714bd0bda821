package repositories

import (
	"context"

	"github.com/cetak3d/go-printshop/app/models"
	"gorm.io/gorm"
)

type StatusHistoryRepository interface {
	Create(ctx context.Context, tx *gorm.DB, entry *models.OrderStatusHistory) error
	FindByOrderID(ctx context.Context, orderID string) ([]models.OrderStatusHistory, error)
}

type gormStatusHistoryRepository struct {
	db *gorm.DB
}

func NewStatusHistoryRepository(db *gorm.DB) StatusHistoryRepository {
	return &gormStatusHistoryRepository{db: db}
}

func (r *gormStatusHistoryRepository) Create(ctx context.Context, tx *gorm.DB, entry *models.OrderStatusHistory) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(entry).Error
}

func (r *gormStatusHistoryRepository) FindByOrderID(ctx context.Context, orderID string) ([]models.OrderStatusHistory, error) {
	var entries []models.OrderStatusHistory
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("changed_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
