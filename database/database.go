package database

import (
	"os"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/thekitchen/ordering-api/models"
	"github.com/thekitchen/ordering-api/utils"
)

// Migrate creates or updates every table the app uses.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.MenuItem{},
		&models.Cart{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
		&models.SystemSettings{},
	)
}

// SeedMenu inserts the sample menu once; an already-populated menu table
// is left alone.
func SeedMenu(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.MenuItem{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		utils.InfoLogger.Info("Menu items already exist, skipping seed")
		return nil
	}

	samples := []models.MenuItem{
		{
			NameAr:        "كشري مصري",
			NameEn:        "Egyptian Koshary",
			DescriptionAr: "مزيج شهي من الأرز والمكرونة والعدس والحمص بالصلصة والبصل المقلي.",
			DescriptionEn: "Delicious mix of rice, pasta, lentils, and chickpeas with tomato sauce and fried onions.",
			Price:         decimal.NewFromInt(65),
			IsAvailable:   true,
			ImageURLs:     datatypes.NewJSONSlice([]string{"koshary.jpg"}),
		},
		{
			NameAr:        "فول وفلافل",
			NameEn:        "Foul and Falafel",
			DescriptionAr: "فول مدمس بالزيت الحار والفلافل المقرمشة والخضار الطازجة.",
			DescriptionEn: "Fava beans with hot oil and crispy falafel with fresh vegetables.",
			Price:         decimal.NewFromInt(45),
			IsAvailable:   true,
			ImageURLs:     datatypes.NewJSONSlice([]string{"falafel.jpg"}),
		},
		{
			NameAr:        "شاورما لحم",
			NameEn:        "Meat Shawarma",
			DescriptionAr: "لحم ضأن متبل ومشوي على الفحم مع صوص الطحينة والخضار.",
			DescriptionEn: "Seasoned lamb meat grilled on charcoal with tahini sauce and vegetables.",
			Price:         decimal.NewFromInt(85),
			IsAvailable:   true,
			ImageURLs:     datatypes.NewJSONSlice([]string{"shawarma.jpg"}),
		},
		{
			NameAr:        "محشي ورق عنب",
			NameEn:        "Stuffed Grape Leaves",
			DescriptionAr: "ورق عنب محشو بالأرز واللحم المفروم والبهارات العطرية.",
			DescriptionEn: "Grape leaves stuffed with rice, ground meat, and aromatic spices.",
			Price:         decimal.NewFromInt(75),
			IsAvailable:   true,
			ImageURLs:     datatypes.NewJSONSlice([]string{"mahshi.jpg"}),
		},
		{
			NameAr:        "مخللات مشكلة",
			NameEn:        "Mixed Pickles",
			DescriptionAr: "تشكيلة من الخيار والجزر والقرنبيط والبصل المخلل.",
			DescriptionEn: "Assorted pickled cucumbers, carrots, cauliflower, and onions.",
			Price:         decimal.NewFromInt(25),
			IsAvailable:   true,
			ImageURLs:     datatypes.NewJSONSlice([]string{"pickles.jpg"}),
		},
		{
			NameAr:        "كنافة بالقشطة",
			NameEn:        "Kunafa with Cream",
			DescriptionAr: "خيوط الكنافة الذهبية مع القشطة الطازجة وشراب الورد.",
			DescriptionEn: "Golden kunafa threads with fresh cream and rose syrup.",
			Price:         decimal.NewFromInt(55),
			IsAvailable:   true,
			ImageURLs:     datatypes.NewJSONSlice([]string{"kunafa.jpg"}),
		},
	}

	if err := db.Create(&samples).Error; err != nil {
		return err
	}
	utils.InfoLogger.WithField("count", len(samples)).Info("Seeded sample menu items")
	return nil
}

// EnsureAdmin creates the bootstrap admin account from ADMIN_EMAIL and
// ADMIN_PASSWORD when both are set and no user with that email exists.
func EnsureAdmin(db *gorm.DB) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return nil
	}

	var existing models.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := models.User{
		Name:         "Admin",
		Email:        email,
		PasswordHash: string(hash),
		IsAdmin:      true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	utils.InfoLogger.WithField("email", email).Info("Bootstrap admin created")
	return nil
}
