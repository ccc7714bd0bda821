package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cetak3d/go-printshop/app/models"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	FindByCode(ctx context.Context, orderCode string) (*models.Order, error)
	FindByUserID(ctx context.Context, userID string) ([]models.Order, error)
	GetAllOrders(ctx context.Context) ([]models.Order, error)
	UpdateStatusTx(ctx context.Context, tx *gorm.DB, orderID, status string) error
	UpdateFieldsTx(ctx context.Context, tx *gorm.DB, orderID string, fields map[string]interface{}) error
	UpdateSnapSession(ctx context.Context, orderID, snapToken, redirectURL string) error
	UpdateTracking(ctx context.Context, orderID, trackingCode, trackingCarrier string) error
}

type gormOrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &gormOrderRepository{db: db}
}

func (r *gormOrderRepository) Create(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	return tx.WithContext(ctx).Create(order).Error
}

func (r *gormOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("OrderItems").
		Preload("StatusHistories", func(db *gorm.DB) *gorm.DB {
			return db.Order("changed_at ASC")
		}).
		First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get order with relations: %w", err)
	}
	return &order, nil
}

func (r *gormOrderRepository) FindByCode(ctx context.Context, orderCode string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("OrderItems").
		Preload("StatusHistories", func(db *gorm.DB) *gorm.DB {
			return db.Order("changed_at ASC")
		}).
		First(&order, "order_code = ?", orderCode).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *gormOrderRepository) FindByUserID(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("OrderItems").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *gormOrderRepository) GetAllOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("OrderItems").
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *gormOrderRepository) UpdateStatusTx(ctx context.Context, tx *gorm.DB, orderID, status string) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Model(&models.Order{}).Where("id = ?", orderID).Updates(map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}).Error
}

func (r *gormOrderRepository) UpdateFieldsTx(ctx context.Context, tx *gorm.DB, orderID string, fields map[string]interface{}) error {
	if tx == nil {
		tx = r.db
	}
	fields["updated_at"] = time.Now()
	return tx.WithContext(ctx).Model(&models.Order{}).Where("id = ?", orderID).Updates(fields).Error
}

func (r *gormOrderRepository) UpdateSnapSession(ctx context.Context, orderID, snapToken, redirectURL string) error {
	return r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", orderID).Updates(map[string]interface{}{
		"midtrans_snap_token":   snapToken,
		"midtrans_redirect_url": redirectURL,
		"updated_at":            time.Now(),
	}).Error
}

func (r *gormOrderRepository) UpdateTracking(ctx context.Context, orderID, trackingCode, trackingCarrier string) error {
	return r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", orderID).Updates(map[string]interface{}{
		"tracking_code":    trackingCode,
		"tracking_carrier": trackingCarrier,
		"updated_at":       time.Now(),
	}).Error
}
