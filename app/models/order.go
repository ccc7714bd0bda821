package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

type Order struct {
	ID        string `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	UserID    string `gorm:"size:36;not null;index" json:"user_id"`
	User      User   `gorm:"foreignKey:UserID" json:"-"`
	OrderCode string `gorm:"type:varchar(50);unique;not null" json:"order_code"`

	Status     string      `gorm:"size:30;default:'unpaid';not null" json:"status"`
	OrderItems []OrderItem `json:"order_items"`

	// Summary snapshot, computed once at creation and never recomputed.
	Subtotal       decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"subtotal"`
	ShippingCost   decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"shipping_cost"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"total_amount"`
	TotalWeight    float64         `gorm:"type:decimal(12,2);not null" json:"total_weight"`
	TotalPrintTime float64         `gorm:"type:decimal(12,2);not null" json:"total_print_time"`

	PaymentMethod         string     `gorm:"size:50" json:"payment_method"`
	PaymentType           string     `gorm:"size:50" json:"payment_type"`
	PaymentStatus         string     `gorm:"size:30;default:'pending'" json:"payment_status"`
	MidtransTransactionID string     `gorm:"size:255;index" json:"midtrans_transaction_id"`
	MidtransSnapToken     string     `gorm:"size:255" json:"midtrans_snap_token"`
	MidtransRedirectURL   string     `gorm:"type:text" json:"midtrans_redirect_url"`
	PaidAt                *time.Time `json:"paid_at"`
	PaymentExpiresAt      *time.Time `json:"payment_expires_at"`

	// Shipping snapshot. Address fields are copied from the user's Address
	// at creation so later address edits do not touch past orders.
	RecipientName  string `gorm:"size:255;not null" json:"recipient_name"`
	RecipientPhone string `gorm:"type:varchar(20);not null" json:"recipient_phone"`
	Address1       string `gorm:"type:text;not null" json:"address1"`
	Address2       string `gorm:"type:text" json:"address2"`
	ProvinceName   string `gorm:"size:100" json:"province_name"`
	RegencyName    string `gorm:"size:100" json:"regency_name"`
	DistrictName   string `gorm:"size:100" json:"district_name"`
	VillageName    string `gorm:"size:100" json:"village_name"`
	PostCode       string `gorm:"type:varchar(10)" json:"post_code"`
	DestinationID  int    `json:"destination_id"`

	Courier         string `gorm:"size:50;not null" json:"courier"`
	ShippingService string `gorm:"size:100;not null" json:"shipping_service"`
	ShippingEtd     string `gorm:"size:50" json:"shipping_etd"`

	// Tracking fields, relevant once status reaches shipping.
	TrackingCode    string `gorm:"size:255" json:"tracking_code"`
	TrackingCarrier string `gorm:"size:100" json:"tracking_carrier"`

	AdminNotes    string `gorm:"type:text" json:"admin_notes"`
	CustomerNotes string `gorm:"type:text" json:"customer_notes"`

	StatusHistories []OrderStatusHistory `json:"status_histories"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	if o.Status == "" {
		o.Status = OrderStatusUnpaid
	}
	return
}
