package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/thekitchen/ordering-api/config"
	"github.com/thekitchen/ordering-api/controllers"
	"github.com/thekitchen/ordering-api/middlewares"
)

// SetupRouter wires every route group onto a gin engine. Cart routes
// accept both guests and logged-in users; orders and payments require a
// token; admin routes layer AdminOnly on top.
func SetupRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware())
	r.Use(middlewares.NewRateLimiter(120, 60).RateLimit())

	authController := controllers.NewAuthController(db)
	menuController := controllers.NewMenuController(db)
	cartController := controllers.NewCartController(db)
	orderController := controllers.NewOrderController(db)
	paymentController := controllers.NewPaymentController(db, cfg.UploadDir)
	adminController := controllers.NewAdminController(db)

	// Uploaded payment proofs and menu images.
	r.Static("/uploads", cfg.UploadDir)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		auth.Use(middlewares.NewStrictRateLimiter())
		{
			auth.POST("/register", authController.Register)
			auth.POST("/login", authController.Login)
			auth.POST("/logout", middlewares.Authenticate(), authController.Logout)
			auth.GET("/me", middlewares.Authenticate(), authController.Me)
		}

		api.GET("/menu", menuController.ListMenuItems)
		api.GET("/menu/available", menuController.ListAvailableMenuItems)
		api.GET("/menu/:item_id", menuController.GetMenuItem)
		menuAdmin := api.Group("/menu", middlewares.Authenticate(), middlewares.AdminOnly())
		{
			menuAdmin.POST("", menuController.CreateMenuItem)
			menuAdmin.PUT("/:item_id", menuController.UpdateMenuItem)
			menuAdmin.DELETE("/:item_id", menuController.DeleteMenuItem)
			menuAdmin.PUT("/:item_id/toggle-availability", menuController.ToggleAvailability)
			menuAdmin.POST("/:item_id/images", menuController.AddMenuImage)
			menuAdmin.DELETE("/:item_id/images", menuController.RemoveMenuImage)
		}

		cart := api.Group("/cart", middlewares.GuestSession(), middlewares.AuthenticateOptional())
		{
			cart.GET("", cartController.GetCart)
			cart.POST("", cartController.AddToCart)
			cart.PUT("/:item_id", cartController.UpdateCartItem)
			cart.DELETE("/:item_id", cartController.RemoveCartItem)
			cart.DELETE("", cartController.ClearCart)
			cart.POST("/merge", middlewares.Authenticate(), cartController.MergeCart)
		}

		orders := api.Group("/orders", middlewares.Authenticate())
		{
			orders.POST("", orderController.Checkout)
			orders.GET("", orderController.GetOrders)
			orders.GET("/:order_id", orderController.GetOrder)
			orders.POST("/:order_id/reorder", orderController.Reorder)
			orders.PUT("/:order_id/status", middlewares.AdminOnly(), orderController.UpdateStatus)
			orders.PUT("/:order_id/delivery-fee", middlewares.AdminOnly(), orderController.UpdateDeliveryFee)
			orders.PUT("/:order_id/notes", middlewares.AdminOnly(), orderController.UpdateNotes)
		}

		payments := api.Group("/payments")
		{
			payments.GET("/methods", paymentController.GetPaymentMethods)
			payments.POST("", middlewares.Authenticate(), paymentController.CreatePayment)
			payments.POST("/:payment_id/upload", middlewares.Authenticate(), paymentController.UploadProof)
			payments.GET("/order/:order_id", middlewares.Authenticate(), paymentController.GetOrderPayments)
			payments.PUT("/:payment_id/confirm", middlewares.Authenticate(), middlewares.AdminOnly(), paymentController.ConfirmPayment)
			payments.PUT("/:payment_id/reject", middlewares.Authenticate(), middlewares.AdminOnly(), paymentController.RejectPayment)
		}

		api.GET("/admin/ordering-status", adminController.GetOrderingStatus)

		admin := api.Group("/admin", middlewares.Authenticate(), middlewares.AdminOnly())
		{
			admin.GET("/dashboard", adminController.Dashboard)
			admin.GET("/analytics", adminController.Analytics)

			admin.GET("/orders", orderController.ListAllOrders)
			admin.GET("/orders/stats", orderController.OrderStats)

			admin.GET("/payments", paymentController.ListAllPayments)
			admin.GET("/payments/pending", paymentController.ListPendingPayments)
			admin.GET("/payments/stats", paymentController.PaymentStats)

			admin.GET("/customers", adminController.ListCustomers)
			admin.GET("/customers/:user_id", adminController.GetCustomer)

			admin.GET("/settings", adminController.GetSettings)
			admin.PUT("/settings", adminController.UpdateSettings)
			admin.POST("/toggle-ordering", adminController.ToggleOrdering)
		}
	}

	return r
}
