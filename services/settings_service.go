package services

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/thekitchen/ordering-api/models"
)

// Setting keys persisted in system_settings.
const (
	SettingOrderingEnabled   = "ordering_enabled"
	SettingDeliveryFeeMin    = "delivery_fee_min"
	SettingDeliveryFeeMax    = "delivery_fee_max"
	SettingAdvancePercentage = "advance_percentage"
	SettingPhoneNumber       = "phone_number"
	SettingEmail             = "email"
	SettingAddress           = "address"
)

// SettingDefault describes a setting's default value and its admin-facing
// description.
type SettingDefault struct {
	Value       string
	Description string
}

// SettingDefaults are merged into reads whenever a key has no stored row.
var SettingDefaults = map[string]SettingDefault{
	SettingOrderingEnabled:   {"true", "Enable/disable ordering system"},
	SettingDeliveryFeeMin:    {"40", "Minimum delivery fee in EGP"},
	SettingDeliveryFeeMax:    {"80", "Maximum delivery fee in EGP"},
	SettingAdvancePercentage: {"20", "Advance payment percentage"},
	SettingPhoneNumber:       {"01012345678", "Contact phone number"},
	SettingEmail:             {"contact@thekitchen.com", "Contact email"},
	SettingAddress:           {"Cairo, Egypt", "Restaurant address"},
}

// Settings is the typed view over the key/value store the order engine
// reads from. Numeric and boolean keys are parsed once here instead of
// being juggled as strings at each call site.
type Settings struct {
	OrderingEnabled   bool
	DeliveryFeeMin    decimal.Decimal
	DeliveryFeeMax    decimal.Decimal
	AdvancePercentage decimal.Decimal
	PhoneNumber       string
	Email             string
	Address           string
}

// LoadSettings reads the typed settings, applying defaults for missing or
// unparseable values.
func LoadSettings(db *gorm.DB) Settings {
	return Settings{
		OrderingEnabled:   getString(db, SettingOrderingEnabled) == "true",
		DeliveryFeeMin:    getDecimal(db, SettingDeliveryFeeMin),
		DeliveryFeeMax:    getDecimal(db, SettingDeliveryFeeMax),
		AdvancePercentage: getDecimal(db, SettingAdvancePercentage),
		PhoneNumber:       getString(db, SettingPhoneNumber),
		Email:             getString(db, SettingEmail),
		Address:           getString(db, SettingAddress),
	}
}

func getString(db *gorm.DB, key string) string {
	return models.GetSetting(db, key, SettingDefaults[key].Value)
}

func getDecimal(db *gorm.DB, key string) decimal.Decimal {
	raw := getString(db, key)
	d, err := decimal.NewFromString(raw)
	if err != nil {
		d, _ = decimal.NewFromString(SettingDefaults[key].Value)
	}
	return d
}
