package models

import (
	"time"

	"gorm.io/gorm"
)

// Cart is one pending line for an owner. An owner is either a logged-in
// user or a guest session, never both; use CartOwner to build queries so
// the both-set/both-null states cannot be expressed.
type Cart struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     *uint     `gorm:"index" json:"user_id,omitempty"`
	User       *User     `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	SessionID  *string   `gorm:"type:varchar(255);index" json:"session_id,omitempty"`
	MenuItemID uint      `gorm:"not null" json:"menu_item_id"`
	MenuItem   MenuItem  `gorm:"foreignKey:MenuItemID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Quantity   int       `gorm:"not null;default:1" json:"quantity"`
	Notes      string    `gorm:"type:text" json:"notes"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

func (Cart) TableName() string { return "cart" }

// CartOwner is the tagged union of the two cart ownership kinds.
type CartOwner struct {
	userID  uint
	session string
}

func UserOwner(userID uint) CartOwner { return CartOwner{userID: userID} }

func GuestOwner(sessionID string) CartOwner { return CartOwner{session: sessionID} }

func (o CartOwner) IsUser() bool { return o.userID != 0 }

func (o CartOwner) UserID() uint { return o.userID }

// Scope filters cart rows down to this owner.
func (o CartOwner) Scope() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if o.IsUser() {
			return db.Where("user_id = ?", o.userID)
		}
		return db.Where("session_id = ?", o.session)
	}
}

// Stamp writes the owner onto a new cart row.
func (o CartOwner) Stamp(entry *Cart) {
	if o.IsUser() {
		id := o.userID
		entry.UserID = &id
		entry.SessionID = nil
		return
	}
	s := o.session
	entry.SessionID = &s
	entry.UserID = nil
}

// Owns reports whether the row belongs to this owner.
func (o CartOwner) Owns(entry *Cart) bool {
	if o.IsUser() {
		return entry.UserID != nil && *entry.UserID == o.userID
	}
	return entry.SessionID != nil && *entry.SessionID == o.session
}

// CartItemView is the live-priced wire representation of a cart line:
// total_price always reflects the menu item's current price, unlike the
// frozen unit prices on an order.
type CartItemView struct {
	ID         uint         `json:"id"`
	MenuItemID uint         `json:"menu_item_id"`
	Quantity   int          `json:"quantity"`
	Notes      string       `json:"notes"`
	MenuItem   MenuItemView `json:"menu_item"`
	TotalPrice float64      `json:"total_price"`
	CreatedAt  string       `json:"created_at"`
	UpdatedAt  string       `json:"updated_at"`
}

func (e *Cart) View(language string) CartItemView {
	return CartItemView{
		ID:         e.ID,
		MenuItemID: e.MenuItemID,
		Quantity:   e.Quantity,
		Notes:      e.Notes,
		MenuItem:   e.MenuItem.View(language),
		TotalPrice: e.MenuItem.Price.Mul(decimalFromInt(e.Quantity)).InexactFloat64(),
		CreatedAt:  e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  e.UpdatedAt.Format(time.RFC3339),
	}
}
