package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderStatusNew       = "new"
	OrderStatusConfirmed = "confirmed"
	OrderStatusPreparing = "preparing"
	OrderStatusOnWay     = "on_way"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// OrderStatuses is the full set of valid order statuses. Any status may
// follow any other; admins have full override.
var OrderStatuses = []string{
	OrderStatusNew,
	OrderStatusConfirmed,
	OrderStatusPreparing,
	OrderStatusOnWay,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

func ValidOrderStatus(status string) bool {
	for _, s := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

var orderStatusDisplay = map[string]map[string]string{
	OrderStatusNew:       {"en": "New", "ar": "جديد"},
	OrderStatusConfirmed: {"en": "Confirmed", "ar": "مؤكد"},
	OrderStatusPreparing: {"en": "Preparing", "ar": "قيد التحضير"},
	OrderStatusOnWay:     {"en": "On the way", "ar": "في الطريق"},
	OrderStatusDelivered: {"en": "Delivered", "ar": "تم التسليم"},
	OrderStatusCancelled: {"en": "Cancelled", "ar": "ملغي"},
}

// Order is the immutable snapshot of a checkout. Subtotal and the item
// unit prices are frozen at checkout time; only the delivery fee (and the
// totals derived from it) may change afterwards.
type Order struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	UserID          uint            `gorm:"not null;index" json:"user_id"`
	User            User            `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Status          string          `gorm:"type:varchar(50);not null;default:'new'" json:"status"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	DeliveryFee     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"delivery_fee"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	AdvanceAmount   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"advance_amount"`
	DeliveryAddress string          `gorm:"type:text;not null" json:"delivery_address"`
	Notes           string          `gorm:"type:text" json:"notes"`
	AdminNotes      string          `gorm:"type:text" json:"admin_notes"`
	CreatedAt       time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"not null" json:"updated_at"`

	Items    []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	Payments []Payment   `gorm:"foreignKey:OrderID" json:"payments"`
}

func (o *Order) StatusDisplay(language string) string {
	if m, ok := orderStatusDisplay[o.Status]; ok {
		if s, ok := m[language]; ok {
			return s
		}
	}
	return o.Status
}

// Recalculate re-derives total and advance from the frozen subtotal and
// the current delivery fee. Must be called after every delivery fee change.
func (o *Order) Recalculate(advancePercentage decimal.Decimal) {
	o.TotalAmount = o.Subtotal.Add(o.DeliveryFee)
	o.AdvanceAmount = o.TotalAmount.Mul(advancePercentage).Div(decimal.NewFromInt(100)).Round(2)
}

// OrderView is the localized wire representation of an order with its
// item and payment children.
type OrderView struct {
	ID              uint            `json:"id"`
	UserID          uint            `json:"user_id"`
	Status          string          `json:"status"`
	StatusDisplay   string          `json:"status_display"`
	Subtotal        float64         `json:"subtotal"`
	DeliveryFee     float64         `json:"delivery_fee"`
	TotalAmount     float64         `json:"total_amount"`
	AdvanceAmount   float64         `json:"advance_amount"`
	DeliveryAddress string          `json:"delivery_address"`
	Notes           string          `json:"notes"`
	AdminNotes      string          `json:"admin_notes"`
	CreatedAt       string          `json:"created_at"`
	UpdatedAt       string          `json:"updated_at"`
	Items           []OrderItemView `json:"items"`
	Payments        []PaymentView   `json:"payments"`
}

func (o *Order) View(language string) OrderView {
	items := make([]OrderItemView, 0, len(o.Items))
	for i := range o.Items {
		items = append(items, o.Items[i].View(language))
	}
	payments := make([]PaymentView, 0, len(o.Payments))
	for i := range o.Payments {
		payments = append(payments, o.Payments[i].View(language))
	}
	return OrderView{
		ID:              o.ID,
		UserID:          o.UserID,
		Status:          o.Status,
		StatusDisplay:   o.StatusDisplay(language),
		Subtotal:        o.Subtotal.InexactFloat64(),
		DeliveryFee:     o.DeliveryFee.InexactFloat64(),
		TotalAmount:     o.TotalAmount.InexactFloat64(),
		AdvanceAmount:   o.AdvanceAmount.InexactFloat64(),
		DeliveryAddress: o.DeliveryAddress,
		Notes:           o.Notes,
		AdminNotes:      o.AdminNotes,
		CreatedAt:       o.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       o.UpdatedAt.Format(time.RFC3339),
		Items:           items,
		Payments:        payments,
	}
}

func decimalFromInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}
