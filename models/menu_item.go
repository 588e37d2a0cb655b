package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type MenuItem struct {
	ID            uint                       `gorm:"primaryKey" json:"id"`
	NameAr        string                     `gorm:"type:varchar(200);not null" json:"name_ar"`
	NameEn        string                     `gorm:"type:varchar(200);not null" json:"name_en"`
	DescriptionAr string                     `gorm:"type:text;not null" json:"description_ar"`
	DescriptionEn string                     `gorm:"type:text;not null" json:"description_en"`
	Price         decimal.Decimal            `gorm:"type:decimal(10,2);not null" json:"price"`
	IsAvailable   bool                       `gorm:"default:true" json:"is_available"`
	ImageURLs     datatypes.JSONSlice[string] `json:"image_urls"`
	Category      string                     `gorm:"type:varchar(100);default:'main'" json:"category"`
	CreatedAt     time.Time                  `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time                  `gorm:"not null" json:"updated_at"`
}

// Name returns the display name for the given language.
func (m *MenuItem) Name(language string) string {
	if language == "ar" {
		return m.NameAr
	}
	return m.NameEn
}

// Description returns the display description for the given language.
func (m *MenuItem) Description(language string) string {
	if language == "ar" {
		return m.DescriptionAr
	}
	return m.DescriptionEn
}

// MenuItemView is the localized wire representation of a menu item.
type MenuItemView struct {
	ID            uint     `json:"id"`
	Name          string   `json:"name"`
	NameAr        string   `json:"name_ar"`
	NameEn        string   `json:"name_en"`
	Description   string   `json:"description"`
	DescriptionAr string   `json:"description_ar"`
	DescriptionEn string   `json:"description_en"`
	Price         float64  `json:"price"`
	IsAvailable   bool     `json:"is_available"`
	ImageURLs     []string `json:"image_urls"`
	Category      string   `json:"category"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
}

func (m *MenuItem) View(language string) MenuItemView {
	urls := []string(m.ImageURLs)
	if urls == nil {
		urls = []string{}
	}
	return MenuItemView{
		ID:            m.ID,
		Name:          m.Name(language),
		NameAr:        m.NameAr,
		NameEn:        m.NameEn,
		Description:   m.Description(language),
		DescriptionAr: m.DescriptionAr,
		DescriptionEn: m.DescriptionEn,
		Price:         m.Price.InexactFloat64(),
		IsAvailable:   m.IsAvailable,
		ImageURLs:     urls,
		Category:      m.Category,
		CreatedAt:     m.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     m.UpdatedAt.Format(time.RFC3339),
	}
}
