package Controllers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/thekitchen/ordering-api/controllers"
	"github.com/thekitchen/ordering-api/middlewares"
	"github.com/thekitchen/ordering-api/models"
	"github.com/thekitchen/ordering-api/utils"
)

func setupAdminRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	cartCtrl := controllers.NewCartController(db)
	orderCtrl := controllers.NewOrderController(db)
	adminCtrl := controllers.NewAdminController(db)

	cart := router.Group("/cart", middlewares.GuestSession(), middlewares.AuthenticateOptional())
	cart.POST("", cartCtrl.AddToCart)

	orders := router.Group("/orders", middlewares.Authenticate())
	orders.POST("", orderCtrl.Checkout)

	router.GET("/admin/ordering-status", adminCtrl.GetOrderingStatus)

	admin := router.Group("/admin", middlewares.Authenticate(), middlewares.AdminOnly())
	admin.GET("/dashboard", adminCtrl.Dashboard)
	admin.GET("/analytics", adminCtrl.Analytics)
	admin.GET("/customers", adminCtrl.ListCustomers)
	admin.GET("/customers/:user_id", adminCtrl.GetCustomer)
	admin.GET("/settings", adminCtrl.GetSettings)
	admin.PUT("/settings", adminCtrl.UpdateSettings)
	admin.POST("/toggle-ordering", adminCtrl.ToggleOrdering)
	return router
}

func TestSettingsMergeDefaults(t *testing.T) {
	utils.InitLogger()
	db := newTestDB("admintest1")
	router := setupAdminRouter(db)
	_, adminToken := createTestUser(db, "admin@admintest1.com", true)

	// Nothing stored yet, every key still present with its default.
	w := doRequest(router, "GET", "/admin/settings", adminToken, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	settings := decodeBody(t, w)["settings"].(map[string]interface{})
	assert.Equal(t, "40", settings["delivery_fee_min"].(map[string]interface{})["value"])
	assert.Equal(t, "20", settings["advance_percentage"].(map[string]interface{})["value"])
	assert.Equal(t, "true", settings["ordering_enabled"].(map[string]interface{})["value"])

	w = doRequest(router, "PUT", "/admin/settings", adminToken, "", map[string]string{
		"delivery_fee_min": "50",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	settings = decodeBody(t, w)["settings"].(map[string]interface{})
	assert.Equal(t, "50", settings["delivery_fee_min"].(map[string]interface{})["value"])
	// Untouched keys keep their defaults.
	assert.Equal(t, "80", settings["delivery_fee_max"].(map[string]interface{})["value"])

	w = doRequest(router, "PUT", "/admin/settings", adminToken, "", map[string]string{
		"no_such_key": "1",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestToggleOrdering(t *testing.T) {
	utils.InitLogger()
	db := newTestDB("admintest2")
	router := setupAdminRouter(db)
	_, adminToken := createTestUser(db, "admin@admintest2.com", true)

	w := doRequest(router, "GET", "/admin/ordering-status", "", "", nil)
	assert.Equal(t, true, decodeBody(t, w)["ordering_enabled"])

	w = doRequest(router, "POST", "/admin/toggle-ordering", adminToken, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decodeBody(t, w)["ordering_enabled"])

	// The public endpoint sees the change without auth.
	w = doRequest(router, "GET", "/admin/ordering-status", "", "", nil)
	assert.Equal(t, false, decodeBody(t, w)["ordering_enabled"])

	w = doRequest(router, "POST", "/admin/toggle-ordering", adminToken, "", nil)
	assert.Equal(t, true, decodeBody(t, w)["ordering_enabled"])
}

func TestDashboardAndCustomers(t *testing.T) {
	utils.InitLogger()
	db := newTestDB("admintest3")
	router := setupAdminRouter(db)
	item := createTestItem(db, "Koshary", "كشري", 65, true)
	user, token := createTestUser(db, "customer@admintest3.com", false)
	_, adminToken := createTestUser(db, "admin@admintest3.com", true)

	doRequest(router, "POST", "/cart", token, "", map[string]interface{}{
		"menu_item_id": item.ID, "quantity": 2,
	})
	doRequest(router, "POST", "/orders", token, "", map[string]interface{}{
		"delivery_address": "Somewhere",
	})

	w := doRequest(router, "GET", "/admin/dashboard", adminToken, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody(t, w)
	assert.Equal(t, 1.0, resp["total_orders"])
	assert.Equal(t, 1.0, resp["new_orders"])
	assert.Equal(t, 1.0, resp["total_customers"])
	assert.Equal(t, 170.0, resp["today_revenue"])

	w = doRequest(router, "GET", "/admin/customers", adminToken, "", nil)
	resp = decodeBody(t, w)
	assert.Equal(t, 1.0, resp["count"])
	customer := resp["customers"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, 1.0, customer["order_count"])
	assert.Equal(t, 170.0, customer["total_spent"])

	w = doRequest(router, "GET", "/admin/customers/"+itoa(user.ID), adminToken, "", nil)
	resp = decodeBody(t, w)
	assert.Len(t, resp["orders"].([]interface{}), 1)
	assert.Equal(t, 170.0, resp["customer"].(map[string]interface{})["total_spent"])
}

func TestDashboardTodayStartsAtLocalMidnight(t *testing.T) {
	utils.InitLogger()
	db := newTestDB("admintest5")
	router := setupAdminRouter(db)
	user, _ := createTestUser(db, "night@admintest5.com", false)
	_, adminToken := createTestUser(db, "admin@admintest5.com", true)

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	makeOrder := func(createdAt time.Time) models.Order {
		return models.Order{
			UserID:          user.ID,
			Status:          models.OrderStatusDelivered,
			Subtotal:        decimal.NewFromInt(65),
			DeliveryFee:     decimal.NewFromInt(40),
			TotalAmount:     decimal.NewFromInt(105),
			AdvanceAmount:   decimal.NewFromInt(21),
			DeliveryAddress: "Somewhere",
			CreatedAt:       createdAt,
		}
	}
	lastNight := makeOrder(dayStart.Add(-time.Minute))
	thisMorning := makeOrder(dayStart.Add(time.Minute))
	assert.NoError(t, db.Create(&lastNight).Error)
	assert.NoError(t, db.Create(&thisMorning).Error)

	w := doRequest(router, "GET", "/admin/dashboard", adminToken, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody(t, w)
	assert.Equal(t, 2.0, resp["total_orders"])
	assert.Equal(t, 1.0, resp["today_orders"])
	assert.Equal(t, 105.0, resp["today_revenue"])
}

func TestAnalyticsAggregates(t *testing.T) {
	utils.InitLogger()
	db := newTestDB("admintest4")
	router := setupAdminRouter(db)
	item := createTestItem(db, "Koshary", "كشري", 65, true)
	_, token := createTestUser(db, "buyer@admintest4.com", false)
	_, adminToken := createTestUser(db, "admin@admintest4.com", true)

	doRequest(router, "POST", "/cart", token, "", map[string]interface{}{
		"menu_item_id": item.ID, "quantity": 3,
	})
	doRequest(router, "POST", "/orders", token, "", map[string]interface{}{
		"delivery_address": "Somewhere",
	})

	w := doRequest(router, "GET", "/admin/analytics?days=7", adminToken, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody(t, w)
	assert.Equal(t, 7.0, resp["days"])
	assert.Equal(t, 1.0, resp["order_count"])
	top := resp["top_items"].([]interface{})
	assert.Len(t, top, 1)
	assert.Equal(t, 3.0, top[0].(map[string]interface{})["quantity"])
	revenue := resp["revenue_by_day"].([]interface{})
	assert.Len(t, revenue, 1)
	assert.Equal(t, 235.0, revenue[0].(map[string]interface{})["revenue"])
}
