package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/cetak3d/go-printshop/app/models"
	"github.com/cetak3d/go-printshop/app/repositories"
	"gorm.io/gorm"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderService owns order status changes. Every effective change is checked
// against the transition table and appends exactly one history row; writing
// the current status again is a no-op.
type OrderService struct {
	db          *gorm.DB
	orderRepo   repositories.OrderRepository
	historyRepo repositories.StatusHistoryRepository
}

func NewOrderService(db *gorm.DB, orderRepo repositories.OrderRepository, historyRepo repositories.StatusHistoryRepository) *OrderService {
	return &OrderService{
		db:          db,
		orderRepo:   orderRepo,
		historyRepo: historyRepo,
	}
}

func (s *OrderService) UpdateStatus(ctx context.Context, orderID, newStatus, changedBy, adminNotes string) (*models.Order, error) {
	if !models.IsValidOrderStatus(newStatus) {
		return nil, fmt.Errorf("%w: unknown status %q", models.ErrInvalidStatusTransition, newStatus)
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	if order.Status == newStatus {
		log.Printf("OrderService: Order %s already in status %s. No history appended.", orderID, newStatus)
		return order, nil
	}

	if !models.CanTransitionStatus(order.Status, newStatus) {
		return nil, fmt.Errorf("%w: %s -> %s", models.ErrInvalidStatusTransition, order.Status, newStatus)
	}

	txErr := runInTransaction(s.db, func(tx *gorm.DB) error {
		if err := s.orderRepo.UpdateStatusTx(ctx, tx, orderID, newStatus); err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}
		entry := &models.OrderStatusHistory{
			OrderID:   orderID,
			Status:    newStatus,
			ChangedBy: changedBy,
		}
		if err := s.historyRepo.Create(ctx, tx, entry); err != nil {
			return fmt.Errorf("failed to append status history: %w", err)
		}
		if adminNotes != "" {
			if err := s.orderRepo.UpdateFieldsTx(ctx, tx, orderID, map[string]interface{}{"admin_notes": adminNotes}); err != nil {
				return fmt.Errorf("failed to update admin notes: %w", err)
			}
		}
		return nil
	})
	if txErr != nil {
		log.Printf("ERROR: OrderService: Status update transaction for order %s failed: %v", orderID, txErr)
		return nil, txErr
	}

	log.Printf("OrderService: Order %s status changed %s -> %s by %s", orderID, order.Status, newStatus, changedBy)

	order.Status = newStatus
	if adminNotes != "" {
		order.AdminNotes = adminNotes
	}
	return order, nil
}

// UpdateStatusTx is the in-transaction variant used when a status flip has to
// commit atomically with other order mutations (payment reconciliation).
func (s *OrderService) UpdateStatusTx(ctx context.Context, tx *gorm.DB, order *models.Order, newStatus, changedBy string) error {
	if order.Status == newStatus {
		return nil
	}
	if !models.CanTransitionStatus(order.Status, newStatus) {
		return fmt.Errorf("%w: %s -> %s", models.ErrInvalidStatusTransition, order.Status, newStatus)
	}
	if err := s.orderRepo.UpdateStatusTx(ctx, tx, order.ID, newStatus); err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	entry := &models.OrderStatusHistory{
		OrderID:   order.ID,
		Status:    newStatus,
		ChangedBy: changedBy,
	}
	if err := s.historyRepo.Create(ctx, tx, entry); err != nil {
		return fmt.Errorf("failed to append status history: %w", err)
	}
	order.Status = newStatus
	return nil
}
