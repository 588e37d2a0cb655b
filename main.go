package main

import (
	"flag"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/thekitchen/ordering-api/config"
	"github.com/thekitchen/ordering-api/database"
	"github.com/thekitchen/ordering-api/router"
	"github.com/thekitchen/ordering-api/utils"
)

func main() {
	seed := flag.Bool("seed", false, "seed the menu with sample items and exit setup early")
	flag.Parse()

	// .env is optional in deployed environments.
	_ = godotenv.Load()

	utils.InitLogger()

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.WithError(err).Fatal("Failed to connect to database")
	}

	if err := database.Migrate(db); err != nil {
		utils.ErrorLogger.WithError(err).Fatal("Failed to migrate database")
	}
	if *seed {
		if err := database.SeedMenu(db); err != nil {
			utils.ErrorLogger.WithError(err).Fatal("Failed to seed menu")
		}
	}
	if err := database.EnsureAdmin(db); err != nil {
		utils.ErrorLogger.WithError(err).Fatal("Failed to bootstrap admin")
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		utils.ErrorLogger.WithError(err).Fatal("Failed to create upload directory")
	}

	r := router.SetupRouter(db, cfg)

	utils.InfoLogger.WithField("port", cfg.Port).Info("Starting server")
	if err := r.Run(":" + cfg.Port); err != nil {
		utils.ErrorLogger.WithError(err).Fatal("Server stopped")
	}
}
