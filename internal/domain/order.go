package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DeliveryMode distinguishes courier delivery from self pickup.
type DeliveryMode string

const (
	ModeDelivery DeliveryMode = "delivery"
	ModePickup   DeliveryMode = "pickup"
)

// ParseDeliveryMode validates a raw mode value coming from a callback payload.
func ParseDeliveryMode(raw string) (DeliveryMode, error) {
	switch DeliveryMode(strings.ToLower(strings.TrimSpace(raw))) {
	case ModeDelivery:
		return ModeDelivery, nil
	case ModePickup:
		return ModePickup, nil
	}
	return "", ErrInvalidChoice
}

// Status is the operator-visible lifecycle of a placed order.
type Status string

const (
	StatusNew       Status = "NEW"
	StatusCooking   Status = "COOKING"
	StatusOnTheWay  Status = "ON_THE_WAY"
	StatusDone      Status = "DONE"
	StatusCancelled Status = "CANCELLED"
)

// Statuses lists every recognized status in display order.
func Statuses() []Status {
	return []Status{StatusNew, StatusCooking, StatusOnTheWay, StatusDone, StatusCancelled}
}

// ParseStatus validates a raw status value from an operator command.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToUpper(strings.TrimSpace(raw)))
	for _, known := range Statuses() {
		if s == known {
			return s, nil
		}
	}
	return "", ErrInvalidStatus
}

// OrderLine captures one cart line at the moment the order was placed.
// UnitPrice is the catalog price at order time and never changes afterwards.
type OrderLine struct {
	ItemID    string          `db:"item_id"`
	Title     string          `db:"title"`
	Quantity  int             `db:"quantity"`
	UnitPrice decimal.Decimal `db:"unit_price"`
}

// Subtotal returns quantity × unit price.
func (l OrderLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Order is a finalized purchase record. Status is the only field that may
// change after creation.
type Order struct {
	ID          int64           `db:"id"`
	Number      string          `db:"number"`
	UserID      int64           `db:"user_id"`
	Lang        string          `db:"lang"`
	Lines       []OrderLine     `db:"-"`
	Total       decimal.Decimal `db:"total"`
	DeliveryFee decimal.Decimal `db:"delivery_fee"`
	Mode        DeliveryMode    `db:"mode"`
	Address     string          `db:"address"`
	Phone       string          `db:"phone"`
	Comment     string          `db:"comment"`
	Status      Status          `db:"status"`
	CreatedAt   time.Time       `db:"created_at"`
}

// NewOrderNumber produces a short human-facing order number.
func NewOrderNumber() string {
	return strings.ToUpper(uuid.NewString()[:8])
}
