package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem carries the quantity and the unit price captured at checkout.
// UnitPrice never tracks later menu item price edits.
type OrderItem struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	OrderID    uint            `gorm:"not null;index" json:"order_id"`
	Order      Order           `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	MenuItemID uint            `gorm:"not null" json:"menu_item_id"`
	MenuItem   MenuItem        `gorm:"foreignKey:MenuItemID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Notes      string          `gorm:"type:text" json:"notes"`
	CreatedAt  time.Time       `gorm:"not null" json:"created_at"`
}

type OrderItemView struct {
	ID         uint          `json:"id"`
	OrderID    uint          `json:"order_id"`
	MenuItemID uint          `json:"menu_item_id"`
	Quantity   int           `json:"quantity"`
	UnitPrice  float64       `json:"unit_price"`
	TotalPrice float64       `json:"total_price"`
	Notes      string        `json:"notes"`
	MenuItem   *MenuItemView `json:"menu_item,omitempty"`
	CreatedAt  string        `json:"created_at"`
}

func (i *OrderItem) View(language string) OrderItemView {
	v := OrderItemView{
		ID:         i.ID,
		OrderID:    i.OrderID,
		MenuItemID: i.MenuItemID,
		Quantity:   i.Quantity,
		UnitPrice:  i.UnitPrice.InexactFloat64(),
		TotalPrice: i.UnitPrice.Mul(decimalFromInt(i.Quantity)).InexactFloat64(),
		Notes:      i.Notes,
		CreatedAt:  i.CreatedAt.Format(time.RFC3339),
	}
	if i.MenuItem.ID != 0 {
		mv := i.MenuItem.View(language)
		v.MenuItem = &mv
	}
	return v
}
