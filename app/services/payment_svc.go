package services

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/shopspring/decimal"

	"github.com/cetak3d/go-printshop/app/configs"
	"github.com/cetak3d/go-printshop/app/models"
	"github.com/cetak3d/go-printshop/app/repositories"
	"gorm.io/gorm"
)

var (
	ErrInvalidSignature = errors.New("invalid midtrans notification signature")
	ErrUnhandledStatus  = errors.New("unhandled transaction status")
)

type MidtransNotificationPayload struct {
	TransactionStatus string `json:"transaction_status"`
	OrderID           string `json:"order_id"`
	PaymentType       string `json:"payment_type"`
	FraudStatus       string `json:"fraud_status"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	StatusCode        string `json:"status_code"`
	Currency          string `json:"currency"`
}

// Midtrans rejects item names longer than 50 characters.
const midtransItemNameLimit = 50

// truncateItemName shortens a customer-supplied name to the Midtrans limit
// without splitting a multibyte rune.
func truncateItemName(name string) string {
	runes := []rune(name)
	if len(runes) <= midtransItemNameLimit {
		return name
	}
	return string(runes[:midtransItemNameLimit])
}

type snapAPI interface {
	CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error)
}

type coreAPI interface {
	CheckTransaction(param string) (*coreapi.TransactionStatusResponse, *midtrans.Error)
}

type PaymentService struct {
	db          *gorm.DB
	orderRepo   repositories.OrderRepository
	orderSvc    *OrderService
	mailer      *Mailer
	snapClient  snapAPI
	coreClient  coreAPI
	serverKey   string
	callbackURL string
}

func NewPaymentService(db *gorm.DB, orderRepo repositories.OrderRepository, orderSvc *OrderService, mailer *Mailer) *PaymentService {
	snapClient := configs.GetMidtransSnapClient()
	coreClient := configs.GetMidtransCoreAPIClient()
	return &PaymentService{
		db:          db,
		orderRepo:   orderRepo,
		orderSvc:    orderSvc,
		mailer:      mailer,
		snapClient:  snapClient,
		coreClient:  coreClient,
		serverKey:   configs.LoadENV.MIDTRANS_SERVER_KEY,
		callbackURL: configs.GetAppBaseURL(),
	}
}

// CreateSnapSession opens a Midtrans Snap transaction for the order and
// stores the resulting token and redirect URL on it.
func (s *PaymentService) CreateSnapSession(ctx context.Context, order *models.Order, user *models.User) (string, string, error) {

	var itemDetails []midtrans.ItemDetails
	for _, item := range order.OrderItems {
		itemName := truncateItemName(fmt.Sprintf("%s (%s %s, %smm)", item.FileName, item.Material, item.Color, item.LayerHeight))
		unitPrice := item.TotalPrice.Div(decimal.NewFromInt(int64(item.Qty))).Round(0).IntPart()
		itemDetails = append(itemDetails, midtrans.ItemDetails{
			ID:    item.ID,
			Name:  itemName,
			Price: unitPrice,
			Qty:   int32(item.Qty),
		})
	}

	shippingItemName := truncateItemName(fmt.Sprintf("Biaya Pengiriman (%s - %s)", order.Courier, order.ShippingService))
	itemDetails = append(itemDetails, midtrans.ItemDetails{
		ID:    "SHIPPING_FEE",
		Name:  shippingItemName,
		Price: order.ShippingCost.Round(0).IntPart(),
		Qty:   1,
	})

	// Per-unit rounding can drift a few rupiah from the order total; Midtrans
	// rejects requests where item totals do not sum to the gross amount.
	itemsTotal := int64(0)
	for _, item := range itemDetails {
		itemsTotal += item.Price * int64(item.Qty)
	}
	grossAmount := order.TotalAmount.Round(0).IntPart()
	if diff := grossAmount - itemsTotal; diff != 0 {
		itemDetails = append(itemDetails, midtrans.ItemDetails{
			ID:    "ADJUSTMENT",
			Name:  "Penyesuaian Total Harga",
			Price: diff,
			Qty:   1,
		})
	}

	custDetails := &midtrans.CustomerDetails{
		FName: user.FirstName,
		LName: user.LastName,
		Email: user.Email,
		Phone: user.Phone,
		ShipAddr: &midtrans.CustomerAddress{
			FName:       order.RecipientName,
			Address:     order.Address1,
			City:        order.RegencyName,
			Postcode:    order.PostCode,
			Phone:       order.RecipientPhone,
			CountryCode: "IDN",
		},
	}

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  order.OrderCode,
			GrossAmt: grossAmount,
		},
		Items:           &itemDetails,
		CustomerDetail:  custDetails,
		EnabledPayments: snap.AllSnapPaymentType,
		Callbacks: &snap.Callbacks{
			Finish: s.callbackURL + "/orders/" + order.ID + "?payment=finish",
		},
	}

	snapResp, errMidtrans := s.snapClient.CreateTransaction(snapReq)
	if errMidtrans != nil {
		return "", "", fmt.Errorf("failed to initiate Midtrans transaction: %w", errMidtrans)
	}
	if snapResp == nil || snapResp.Token == "" || snapResp.RedirectURL == "" {
		return "", "", errors.New("midtrans transaction returned invalid response (missing redirect URL or token)")
	}

	if err := s.orderRepo.UpdateSnapSession(ctx, order.ID, snapResp.Token, snapResp.RedirectURL); err != nil {
		log.Printf("ERROR: PaymentService: Failed to store snap session for order %s: %v", order.OrderCode, err)
		return "", "", fmt.Errorf("failed to store snap session: %w", err)
	}

	log.Printf("PaymentService: Snap session created for order %s", order.OrderCode)
	return snapResp.Token, snapResp.RedirectURL, nil
}

// mapTransactionStatus maps a Midtrans (transaction_status, fraud_status)
// pair onto our payment status and the order status it should move to. An
// empty order status means the order stays where it is.
func mapTransactionStatus(transactionStatus, fraudStatus string) (paymentStatus, orderStatus string, err error) {
	switch transactionStatus {
	case "capture", "settlement":
		if fraudStatus != "" && fraudStatus != "accept" {
			return models.PaymentStatusFailed, models.OrderStatusCanceled, nil
		}
		return models.PaymentStatusPaid, models.OrderStatusInReview, nil
	case "pending":
		return models.PaymentStatusPending, "", nil
	case "deny", "expire", "cancel":
		return models.PaymentStatusFailed, models.OrderStatusCanceled, nil
	case "refund", "partial_refund":
		return models.PaymentStatusRefunded, "", nil
	default:
		return "", "", fmt.Errorf("%w: %s", ErrUnhandledStatus, transactionStatus)
	}
}

func isFinalPaymentStatus(status string) bool {
	return status == models.PaymentStatusPaid ||
		status == models.PaymentStatusFailed ||
		status == models.PaymentStatusRefunded
}

// VerifyPayment reconciles an order against Midtrans' authoritative
// transaction status. Called both by the client on return from the gateway
// and by the webhook path; it is safe to call repeatedly.
func (s *PaymentService) VerifyPayment(ctx context.Context, orderCode, changedBy string) (*models.Order, error) {
	transactionStatus, midtransErr := s.coreClient.CheckTransaction(orderCode)
	if midtransErr != nil {
		log.Printf("ERROR: PaymentService: Failed to check transaction status for %s: %v", orderCode, midtransErr.Error())
		return nil, fmt.Errorf("failed to verify transaction with Midtrans: %w", midtransErr.RawError)
	}
	if transactionStatus == nil {
		return nil, errors.New("invalid transaction status from Midtrans API (nil response)")
	}
	if transactionStatus.StatusCode == "404" {
		return nil, errors.New("order not found in Midtrans system")
	}

	order, err := s.orderRepo.FindByCode(ctx, orderCode)
	if err != nil {
		return nil, fmt.Errorf("failed to find order %s: %w", orderCode, err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	newPaymentStatus, newOrderStatus, err := mapTransactionStatus(transactionStatus.TransactionStatus, transactionStatus.FraudStatus)
	if err != nil {
		return nil, err
	}

	// Replayed notifications against a final payment state are no-ops. The one
	// exception is a refund of a paid order, which must still land.
	if isFinalPaymentStatus(order.PaymentStatus) {
		refundOfPaid := newPaymentStatus == models.PaymentStatusRefunded && order.PaymentStatus == models.PaymentStatusPaid
		if !refundOfPaid {
			log.Printf("PaymentService: Order %s payment already final (%s). Skipping update.", orderCode, order.PaymentStatus)
			return order, nil
		}
	}

	paymentFields := map[string]interface{}{
		"payment_status":          newPaymentStatus,
		"payment_type":            transactionStatus.PaymentType,
		"midtrans_transaction_id": transactionStatus.TransactionID,
	}
	if newPaymentStatus == models.PaymentStatusPaid {
		paidAt := parseMidtransTime(transactionStatus.SettlementTime)
		paymentFields["paid_at"] = paidAt
	}

	txErr := runInTransaction(s.db, func(tx *gorm.DB) error {
		if err := s.orderRepo.UpdateFieldsTx(ctx, tx, order.ID, paymentFields); err != nil {
			return fmt.Errorf("failed to update payment fields: %w", err)
		}
		if newOrderStatus != "" {
			if err := s.orderSvc.UpdateStatusTx(ctx, tx, order, newOrderStatus, changedBy); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		log.Printf("ERROR: PaymentService: Reconciliation transaction for order %s failed: %v", orderCode, txErr)
		return nil, txErr
	}

	order.PaymentStatus = newPaymentStatus
	order.PaymentType = transactionStatus.PaymentType
	order.MidtransTransactionID = transactionStatus.TransactionID

	log.Printf("PaymentService: Order %s reconciled. PaymentStatus=%s, OrderStatus=%s", orderCode, newPaymentStatus, order.Status)

	if newPaymentStatus == models.PaymentStatusPaid && s.mailer != nil {
		if err := s.mailer.SendOrderPaidEmail(order); err != nil {
			log.Printf("WARNING: PaymentService: Failed to send payment confirmation email for %s: %v", orderCode, err)
		}
	}

	return order, nil
}

// ProcessNotification handles the Midtrans HTTP webhook. The signature is
// checked before anything else; the payload's own status fields are never
// trusted beyond that — reconciliation re-queries the API.
func (s *PaymentService) ProcessNotification(ctx context.Context, payload MidtransNotificationPayload) (*models.Order, error) {
	if !s.verifySignature(payload) {
		log.Printf("WARNING: PaymentService: Notification for %s failed signature check.", payload.OrderID)
		return nil, ErrInvalidSignature
	}

	log.Printf("PaymentService: Midtrans notification received for %s: status=%s fraud=%s", payload.OrderID, payload.TransactionStatus, payload.FraudStatus)
	return s.VerifyPayment(ctx, payload.OrderID, "midtrans")
}

func (s *PaymentService) verifySignature(payload MidtransNotificationPayload) bool {
	raw := payload.OrderID + payload.StatusCode + payload.GrossAmount + s.serverKey
	sum := sha512.Sum512([]byte(raw))
	return hex.EncodeToString(sum[:]) == payload.SignatureKey
}

func parseMidtransTime(value string) time.Time {
	if t, err := time.ParseInLocation("2006-01-02 15:04:05", value, time.Local); err == nil {
		return t
	}
	return time.Now()
}
