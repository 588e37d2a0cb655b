package config

import (
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Config struct {
	Port        string
	DatabaseURL string
	UploadDir   string
	GinMode     string
}

// AllowedImageExtensions is the upload allow-list for payment proofs and
// menu images.
var AllowedImageExtensions = []string{"png", "jpg", "jpeg", "gif", "webp"}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=thekitchen port=5432 sslmode=disable"),
		UploadDir:   getEnv("UPLOAD_DIR", "static/uploads"),
		GinMode:     getEnv("GIN_MODE", "debug"),
	}
}

// InitDB opens the Postgres connection and tunes the pool.
func InitDB() (*gorm.DB, error) {
	cfg := Load()
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
