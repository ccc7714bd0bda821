package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/cetak3d/go-printshop/app/helpers"
	"github.com/cetak3d/go-printshop/app/models"
	"github.com/cetak3d/go-printshop/app/repositories"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrEmptyOrder       = errors.New("order must contain at least one item")
	ErrUnpricedItem     = errors.New("no price rule matches item configuration")
	ErrAddressNotOwned  = errors.New("address does not belong to user")
	ErrPaymentInitAfter = errors.New("order created but payment initialization failed")
)

type CheckoutItemInput struct {
	FileID           string  `json:"file_id" validate:"required"`
	FileName         string  `json:"file_name" validate:"required"`
	FileSize         int64   `json:"file_size" validate:"gte=0"`
	Qty              int     `json:"qty" validate:"gte=1"`
	Material         string  `json:"material" validate:"required"`
	Color            string  `json:"color"`
	LayerHeight      string  `json:"layer_height" validate:"required"`
	Infill           string  `json:"infill"`
	WallCount        string  `json:"wall_count"`
	PrintTimeMinutes float64 `json:"print_time_minutes" validate:"gte=0"`
	FilamentWeight   float64 `json:"filament_weight" validate:"gt=0"`
}

type CheckoutInput struct {
	AddressID       string              `json:"address_id" validate:"required"`
	Courier         string              `json:"courier" validate:"required"`
	ShippingService string              `json:"shipping_service" validate:"required"`
	ShippingEtd     string              `json:"shipping_etd"`
	ShippingCost    int64               `json:"shipping_cost" validate:"gte=0"`
	CustomerNotes   string              `json:"customer_notes"`
	Items           []CheckoutItemInput `json:"items" validate:"required,min=1,dive"`
}

type CheckoutService struct {
	db            *gorm.DB
	userRepo      repositories.UserRepository
	addressRepo   repositories.AddressRepository
	priceRuleRepo repositories.PriceRuleRepository
	orderRepo     repositories.OrderRepository
	orderItemRepo repositories.OrderItemRepository
	historyRepo   repositories.StatusHistoryRepository
	jobRepo       repositories.OrderFileJobRepository
	paymentSvc    *PaymentService
}

func NewCheckoutService(
	db *gorm.DB,
	userRepo repositories.UserRepository,
	addressRepo repositories.AddressRepository,
	priceRuleRepo repositories.PriceRuleRepository,
	orderRepo repositories.OrderRepository,
	orderItemRepo repositories.OrderItemRepository,
	historyRepo repositories.StatusHistoryRepository,
	jobRepo repositories.OrderFileJobRepository,
	paymentSvc *PaymentService,
) *CheckoutService {
	return &CheckoutService{
		db:            db,
		userRepo:      userRepo,
		addressRepo:   addressRepo,
		priceRuleRepo: priceRuleRepo,
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		historyRepo:   historyRepo,
		jobRepo:       jobRepo,
		paymentSvc:    paymentSvc,
	}
}

// CreateOrder persists the order aggregate for one checkout and opens a
// Midtrans Snap session against it. The authoritative totals are recomputed
// here from the price table and the slicer-reported weights; client-submitted
// totals are never trusted. Snap failure after commit does not roll the order
// back — the caller gets the order together with ErrPaymentInitAfter.
func (s *CheckoutService) CreateOrder(ctx context.Context, userID string, input CheckoutInput) (*models.Order, string, error) {
	if len(input.Items) == 0 {
		return nil, "", ErrEmptyOrder
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, "", errors.New("user not found")
	}

	address, err := s.addressRepo.FindAddressByID(ctx, input.AddressID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get address: %w", err)
	}
	if address == nil {
		return nil, "", errors.New("address not found")
	}
	if address.UserID != userID {
		return nil, "", ErrAddressNotOwned
	}

	rules, err := s.priceRuleRepo.GetActiveRules(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load price table: %w", err)
	}

	subtotal := decimal.Zero
	totalWeight := 0.0
	totalPrintTime := 0.0
	orderItems := make([]models.OrderItem, 0, len(input.Items))

	for _, item := range input.Items {
		if item.Qty < 1 {
			return nil, "", fmt.Errorf("item %s has invalid quantity %d", item.FileName, item.Qty)
		}

		pricePerGram, ok := FindPricePerGram(rules, item.Material, item.LayerHeight)
		if !ok {
			return nil, "", fmt.Errorf("%w: material=%s layer_height=%s", ErrUnpricedItem, item.Material, item.LayerHeight)
		}

		totalPrice := ItemTotalPrice(item.FilamentWeight, item.Qty, pricePerGram)

		orderItems = append(orderItems, models.OrderItem{
			FileID:           item.FileID,
			FileName:         item.FileName,
			FileSize:         item.FileSize,
			Qty:              item.Qty,
			Material:         item.Material,
			Color:            item.Color,
			LayerHeight:      item.LayerHeight,
			Infill:           item.Infill,
			WallCount:        item.WallCount,
			PrintTimeMinutes: item.PrintTimeMinutes,
			FilamentWeight:   item.FilamentWeight,
			PricePerGram:     pricePerGram,
			TotalPrice:       totalPrice,
		})

		subtotal = subtotal.Add(totalPrice)
		totalWeight += item.FilamentWeight * float64(item.Qty)
		totalPrintTime += item.PrintTimeMinutes * float64(item.Qty)
	}

	shippingCost := decimal.NewFromInt(input.ShippingCost)

	order := &models.Order{
		UserID:         userID,
		OrderCode:      helpers.GenerateOrderCode(),
		Status:         models.OrderStatusUnpaid,
		Subtotal:       subtotal,
		ShippingCost:   shippingCost,
		TotalAmount:    subtotal.Add(shippingCost),
		TotalWeight:    totalWeight,
		TotalPrintTime: totalPrintTime,

		PaymentStatus: models.PaymentStatusPending,

		RecipientName:  address.Recipient,
		RecipientPhone: address.Phone,
		Address1:       address.Address1,
		Address2:       address.Address2,
		ProvinceName:   address.ProvinceName,
		RegencyName:    address.RegencyName,
		DistrictName:   address.DistrictName,
		VillageName:    address.VillageName,
		PostCode:       address.PostCode,
		DestinationID:  address.DestinationID,

		Courier:         input.Courier,
		ShippingService: input.ShippingService,
		ShippingEtd:     input.ShippingEtd,

		CustomerNotes: input.CustomerNotes,
	}

	txErr := runInTransaction(s.db, func(tx *gorm.DB) error {
		if err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		for i := range orderItems {
			orderItems[i].OrderID = order.ID
		}
		if err := s.orderItemRepo.BulkCreate(ctx, tx, orderItems); err != nil {
			return fmt.Errorf("failed to create order items: %w", err)
		}

		entry := &models.OrderStatusHistory{
			OrderID:   order.ID,
			Status:    models.OrderStatusUnpaid,
			ChangedBy: userID,
		}
		if err := s.historyRepo.Create(ctx, tx, entry); err != nil {
			return fmt.Errorf("failed to create initial status history: %w", err)
		}

		job := &models.OrderFileJob{OrderID: order.ID}
		if err := s.jobRepo.Create(ctx, tx, job); err != nil {
			return fmt.Errorf("failed to enqueue file finalization job: %w", err)
		}

		return nil
	})
	if txErr != nil {
		log.Printf("ERROR: CheckoutService: Order creation transaction failed for user %s: %v", userID, txErr)
		return nil, "", txErr
	}

	order.OrderItems = orderItems
	log.Printf("CheckoutService: Order %s (%s) created for user %s. Subtotal=%s, Shipping=%s, Total=%s",
		order.OrderCode, order.ID, userID, subtotal.String(), shippingCost.String(), order.TotalAmount.String())

	snapToken, redirectURL, err := s.paymentSvc.CreateSnapSession(ctx, order, user)
	if err != nil {
		log.Printf("ERROR: CheckoutService: Snap initialization failed for order %s: %v", order.OrderCode, err)
		return order, "", fmt.Errorf("%w: %v", ErrPaymentInitAfter, err)
	}

	order.MidtransSnapToken = snapToken
	order.MidtransRedirectURL = redirectURL
	return order, redirectURL, nil
}
