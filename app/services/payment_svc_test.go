package services

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/cetak3d/go-printshop/app/models"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMapTransactionStatus(t *testing.T) {
	cases := []struct {
		name              string
		transactionStatus string
		fraudStatus       string
		wantPayment       string
		wantOrder         string
		wantErr           bool
	}{
		{"settlement", "settlement", "", models.PaymentStatusPaid, models.OrderStatusInReview, false},
		{"capture accepted", "capture", "accept", models.PaymentStatusPaid, models.OrderStatusInReview, false},
		{"capture challenged", "capture", "challenge", models.PaymentStatusFailed, models.OrderStatusCanceled, false},
		{"pending", "pending", "", models.PaymentStatusPending, "", false},
		{"deny", "deny", "", models.PaymentStatusFailed, models.OrderStatusCanceled, false},
		{"expire", "expire", "", models.PaymentStatusFailed, models.OrderStatusCanceled, false},
		{"cancel", "cancel", "", models.PaymentStatusFailed, models.OrderStatusCanceled, false},
		{"refund", "refund", "", models.PaymentStatusRefunded, "", false},
		{"partial refund", "partial_refund", "", models.PaymentStatusRefunded, "", false},
		{"unknown", "authorize", "", "", "", true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			paymentStatus, orderStatus, err := mapTransactionStatus(c.transactionStatus, c.fraudStatus)
			if c.wantErr {
				assert.ErrorIs(t, err, ErrUnhandledStatus)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.wantPayment, paymentStatus)
			assert.Equal(t, c.wantOrder, orderStatus)
		})
	}
}

func TestIsFinalPaymentStatus(t *testing.T) {
	assert.True(t, isFinalPaymentStatus(models.PaymentStatusPaid))
	assert.True(t, isFinalPaymentStatus(models.PaymentStatusFailed))
	assert.True(t, isFinalPaymentStatus(models.PaymentStatusRefunded))
	assert.False(t, isFinalPaymentStatus(models.PaymentStatusPending))
	assert.False(t, isFinalPaymentStatus(""))
}

func TestVerifySignature(t *testing.T) {
	svc := &PaymentService{serverKey: "server-key-123"}

	payload := MidtransNotificationPayload{
		OrderID:     "ORD-20250901-ABC234",
		StatusCode:  "200",
		GrossAmount: "95000.00",
	}
	raw := payload.OrderID + payload.StatusCode + payload.GrossAmount + "server-key-123"
	sum := sha512.Sum512([]byte(raw))
	payload.SignatureKey = hex.EncodeToString(sum[:])

	assert.True(t, svc.verifySignature(payload))

	payload.SignatureKey = "deadbeef"
	assert.False(t, svc.verifySignature(payload))
}

func TestProcessNotification_RejectsBadSignature(t *testing.T) {
	svc := &PaymentService{serverKey: "server-key-123"}

	_, err := svc.ProcessNotification(context.Background(), MidtransNotificationPayload{
		OrderID:      "ORD-20250901-ABC234",
		StatusCode:   "200",
		GrossAmount:  "95000.00",
		SignatureKey: "forged",
	})
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestParseMidtransTime(t *testing.T) {
	parsed := parseMidtransTime("2025-09-01 14:30:00")
	assert.Equal(t, 2025, parsed.Year())
	assert.Equal(t, time.September, parsed.Month())
	assert.Equal(t, 14, parsed.Hour())

	// Unparseable values fall back to now instead of zero time.
	fallback := parseMidtransTime("garbage")
	assert.WithinDuration(t, time.Now(), fallback, time.Minute)
}

func paymentTestOrder() *models.Order {
	return &models.Order{
		ID:        "order-1",
		OrderCode: "ORD-20250901-ABC234",
		Status:    models.OrderStatusUnpaid,
		OrderItems: []models.OrderItem{
			{
				ID:          "item-1",
				FileName:    "case.stl",
				Material:    "PLA",
				Color:       "Hitam",
				LayerHeight: "0.20",
				Qty:         2,
				TotalPrice:  decimal.NewFromInt(80000),
			},
		},
		Subtotal:        decimal.NewFromInt(80000),
		ShippingCost:    decimal.NewFromInt(15000),
		TotalAmount:     decimal.NewFromInt(95000),
		Courier:         "jne",
		ShippingService: "REG",
	}
}

func TestCreateSnapSession_BuildsItemDetails(t *testing.T) {
	order := paymentTestOrder()
	user := &models.User{FirstName: "Budi", Email: "budi@example.com"}

	snapMock := new(SnapClientMock)
	var captured *snap.Request
	snapMock.On("CreateTransaction", mock.Anything).Run(func(args mock.Arguments) {
		captured = args.Get(0).(*snap.Request)
	}).Return(&snap.Response{Token: "tok-1", RedirectURL: "https://app.sandbox.midtrans.com/snap/v4/redirection/tok-1"}, nil)

	orderRepo := new(OrderRepoMock)
	orderRepo.On("UpdateSnapSession", mock.Anything, "order-1", "tok-1", mock.Anything).Return(nil)

	svc := &PaymentService{orderRepo: orderRepo, snapClient: snapMock, callbackURL: "http://localhost:8080"}

	token, redirectURL, err := svc.CreateSnapSession(context.Background(), order, user)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
	assert.NotEmpty(t, redirectURL)

	require.NotNil(t, captured)
	assert.Equal(t, "ORD-20250901-ABC234", captured.TransactionDetails.OrderID)
	assert.Equal(t, int64(95000), captured.TransactionDetails.GrossAmt)

	items := *captured.Items
	require.Len(t, items, 2)
	assert.Equal(t, int64(40000), items[0].Price)
	assert.Equal(t, int32(2), items[0].Qty)
	assert.Equal(t, "SHIPPING_FEE", items[1].ID)
	assert.Equal(t, int64(15000), items[1].Price)

	orderRepo.AssertExpectations(t)
}

func TestCreateSnapSession_AddsAdjustmentOnRoundingDrift(t *testing.T) {
	order := paymentTestOrder()
	// 1001 split over 2 units rounds to 501 each, overshooting by 1.
	order.OrderItems[0].TotalPrice = decimal.NewFromInt(1001)
	order.Subtotal = decimal.NewFromInt(1001)
	order.ShippingCost = decimal.Zero
	order.TotalAmount = decimal.NewFromInt(1001)

	snapMock := new(SnapClientMock)
	var captured *snap.Request
	snapMock.On("CreateTransaction", mock.Anything).Run(func(args mock.Arguments) {
		captured = args.Get(0).(*snap.Request)
	}).Return(&snap.Response{Token: "tok-2", RedirectURL: "https://redirect"}, nil)

	orderRepo := new(OrderRepoMock)
	orderRepo.On("UpdateSnapSession", mock.Anything, "order-1", "tok-2", "https://redirect").Return(nil)

	svc := &PaymentService{orderRepo: orderRepo, snapClient: snapMock, callbackURL: "http://localhost:8080"}

	_, _, err := svc.CreateSnapSession(context.Background(), order, &models.User{})
	require.NoError(t, err)

	items := *captured.Items
	require.Len(t, items, 3)
	assert.Equal(t, "ADJUSTMENT", items[2].ID)
	assert.Equal(t, int64(-1), items[2].Price)

	itemsTotal := int64(0)
	for _, item := range items {
		itemsTotal += item.Price * int64(item.Qty)
	}
	assert.Equal(t, captured.TransactionDetails.GrossAmt, itemsTotal)
}

func TestCreateSnapSession_EmptyResponse(t *testing.T) {
	snapMock := new(SnapClientMock)
	snapMock.On("CreateTransaction", mock.Anything).Return(&snap.Response{}, nil)

	svc := &PaymentService{orderRepo: new(OrderRepoMock), snapClient: snapMock}

	_, _, err := svc.CreateSnapSession(context.Background(), paymentTestOrder(), &models.User{})
	assert.Error(t, err)
}

func TestTruncateItemName(t *testing.T) {
	short := "case.stl (PLA Hitam, 0.20mm)"
	assert.Equal(t, short, truncateItemName(short))

	long := strings.Repeat("ö", 60) + ".stl"
	truncated := truncateItemName(long)
	assert.Equal(t, 50, utf8.RuneCountInString(truncated))
	assert.True(t, utf8.ValidString(truncated))

	// Byte-length truncation would cut this rune in half.
	boundary := strings.Repeat("a", 49) + "ö"
	assert.Equal(t, boundary, truncateItemName(boundary))
}

func TestVerifyPayment_RefundAfterPaid(t *testing.T) {
	coreMock := new(CoreClientMock)
	coreMock.On("CheckTransaction", "ORD-20250901-ABC234").Return(&coreapi.TransactionStatusResponse{
		StatusCode:        "200",
		TransactionStatus: "refund",
		TransactionID:     "mt-tx-1",
		PaymentType:       "bank_transfer",
	}, nil)

	orderRepo := new(OrderRepoMock)
	orderRepo.On("FindByCode", mock.Anything, "ORD-20250901-ABC234").Return(&models.Order{
		ID:            "order-1",
		OrderCode:     "ORD-20250901-ABC234",
		Status:        models.OrderStatusInReview,
		PaymentStatus: models.PaymentStatusPaid,
	}, nil)
	orderRepo.On("UpdateFieldsTx", mock.Anything, mock.Anything, "order-1", mock.MatchedBy(func(fields map[string]interface{}) bool {
		return fields["payment_status"] == models.PaymentStatusRefunded
	})).Return(nil)

	svc := &PaymentService{orderRepo: orderRepo, coreClient: coreMock}

	order, err := svc.VerifyPayment(context.Background(), "ORD-20250901-ABC234", "admin-1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusRefunded, order.PaymentStatus)
	// A refund does not move the fulfillment status by itself.
	assert.Equal(t, models.OrderStatusInReview, order.Status)
	orderRepo.AssertExpectations(t)
}

func TestVerifyPayment_SettlementReplayAfterPaidIsNoOp(t *testing.T) {
	coreMock := new(CoreClientMock)
	coreMock.On("CheckTransaction", "ORD-20250901-ABC234").Return(&coreapi.TransactionStatusResponse{
		StatusCode:        "200",
		TransactionStatus: "settlement",
	}, nil)

	orderRepo := new(OrderRepoMock)
	orderRepo.On("FindByCode", mock.Anything, "ORD-20250901-ABC234").Return(&models.Order{
		ID:            "order-1",
		OrderCode:     "ORD-20250901-ABC234",
		Status:        models.OrderStatusPrinting,
		PaymentStatus: models.PaymentStatusPaid,
	}, nil)

	svc := &PaymentService{orderRepo: orderRepo, coreClient: coreMock}

	order, err := svc.VerifyPayment(context.Background(), "ORD-20250901-ABC234", "midtrans")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, order.PaymentStatus)
	orderRepo.AssertNotCalled(t, "UpdateFieldsTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestVerifyPayment_RefundAfterFailedIsNoOp(t *testing.T) {
	coreMock := new(CoreClientMock)
	coreMock.On("CheckTransaction", "ORD-20250901-ABC234").Return(&coreapi.TransactionStatusResponse{
		StatusCode:        "200",
		TransactionStatus: "refund",
	}, nil)

	orderRepo := new(OrderRepoMock)
	orderRepo.On("FindByCode", mock.Anything, "ORD-20250901-ABC234").Return(&models.Order{
		ID:            "order-1",
		OrderCode:     "ORD-20250901-ABC234",
		Status:        models.OrderStatusCanceled,
		PaymentStatus: models.PaymentStatusFailed,
	}, nil)

	svc := &PaymentService{orderRepo: orderRepo, coreClient: coreMock}

	order, err := svc.VerifyPayment(context.Background(), "ORD-20250901-ABC234", "midtrans")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusFailed, order.PaymentStatus)
	orderRepo.AssertNotCalled(t, "UpdateFieldsTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
