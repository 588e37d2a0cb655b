package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusConfirmed = "confirmed"
	PaymentStatusRejected  = "rejected"
)

// PaymentMethods is the allow-list of manual payment channels.
var PaymentMethods = []string{"instapay", "vodafone_cash", "orange_money", "etisalat_wallet", "cod"}

func ValidPaymentMethod(method string) bool {
	for _, m := range PaymentMethods {
		if m == method {
			return true
		}
	}
	return false
}

var paymentMethodDisplay = map[string]map[string]string{
	"instapay":        {"en": "Instapay", "ar": "إنستاباي"},
	"vodafone_cash":   {"en": "Vodafone Cash", "ar": "فودافون كاش"},
	"orange_money":    {"en": "Orange Money", "ar": "أورانج موني"},
	"etisalat_wallet": {"en": "Etisalat Wallet", "ar": "محفظة اتصالات"},
	"cod":             {"en": "Cash on Delivery", "ar": "الدفع عند الاستلام"},
}

// paymentWalletNumber is the wallet the advance is transferred to for
// every mobile-money method. Cash on delivery has none.
const paymentWalletNumber = "01012345678"

var paymentMethodInstructions = map[string]map[string]string{
	"instapay":        {"en": "Send payment to our Instapay number: " + paymentWalletNumber, "ar": "أرسل الدفع إلى رقم إنستاباي: " + paymentWalletNumber},
	"vodafone_cash":   {"en": "Send payment to our Vodafone Cash number: " + paymentWalletNumber, "ar": "أرسل الدفع إلى رقم فودافون كاش: " + paymentWalletNumber},
	"orange_money":    {"en": "Send payment to our Orange Money number: " + paymentWalletNumber, "ar": "أرسل الدفع إلى رقم أورانج موني: " + paymentWalletNumber},
	"etisalat_wallet": {"en": "Send payment to our Etisalat Wallet number: " + paymentWalletNumber, "ar": "أرسل الدفع إلى رقم محفظة اتصالات: " + paymentWalletNumber},
	"cod":             {"en": "Pay cash when your order arrives", "ar": "ادفع نقداً عند وصول طلبك"},
}

// PaymentMethodInstructions returns the localized transfer instructions
// for a method.
func PaymentMethodInstructions(method, language string) string {
	if m, ok := paymentMethodInstructions[method]; ok {
		if s, ok := m[language]; ok {
			return s
		}
	}
	return ""
}

// PaymentMethodNumber returns the wallet number to pay to, or "" for
// methods settled on delivery.
func PaymentMethodNumber(method string) string {
	if method == "cod" {
		return ""
	}
	return paymentWalletNumber
}

var paymentStatusDisplay = map[string]map[string]string{
	PaymentStatusPending:   {"en": "Pending", "ar": "في الانتظار"},
	PaymentStatusConfirmed: {"en": "Confirmed", "ar": "مؤكد"},
	PaymentStatusRejected:  {"en": "Rejected", "ar": "مرفوض"},
}

// Payment is the single payment attempt tied to an order. The unique
// index on OrderID backs the one-payment-per-order invariant at the
// storage layer, so two racing creates cannot both land.
type Payment struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	OrderID       uint            `gorm:"not null;uniqueIndex" json:"order_id"`
	Order         Order           `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Method        string          `gorm:"type:varchar(50);not null" json:"method"`
	Amount        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Status        string          `gorm:"type:varchar(50);not null;default:'pending'" json:"status"`
	ScreenshotURL string          `gorm:"type:varchar(255)" json:"screenshot_url"`
	TransactionID string          `gorm:"type:varchar(100)" json:"transaction_id"`
	Notes         string          `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"not null" json:"updated_at"`
}

func (p *Payment) MethodDisplay(language string) string {
	if m, ok := paymentMethodDisplay[p.Method]; ok {
		if s, ok := m[language]; ok {
			return s
		}
	}
	return p.Method
}

func (p *Payment) StatusDisplay(language string) string {
	if m, ok := paymentStatusDisplay[p.Status]; ok {
		if s, ok := m[language]; ok {
			return s
		}
	}
	return p.Status
}

type PaymentView struct {
	ID            uint    `json:"id"`
	OrderID       uint    `json:"order_id"`
	Method        string  `json:"method"`
	MethodDisplay string  `json:"method_display"`
	Amount        float64 `json:"amount"`
	Status        string  `json:"status"`
	StatusDisplay string  `json:"status_display"`
	ScreenshotURL string  `json:"screenshot_url"`
	TransactionID string  `json:"transaction_id"`
	Notes         string  `json:"notes"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

func (p *Payment) View(language string) PaymentView {
	return PaymentView{
		ID:            p.ID,
		OrderID:       p.OrderID,
		Method:        p.Method,
		MethodDisplay: p.MethodDisplay(language),
		Amount:        p.Amount.InexactFloat64(),
		Status:        p.Status,
		StatusDisplay: p.StatusDisplay(language),
		ScreenshotURL: p.ScreenshotURL,
		TransactionID: p.TransactionID,
		Notes:         p.Notes,
		CreatedAt:     p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     p.UpdatedAt.Format(time.RFC3339),
	}
}
