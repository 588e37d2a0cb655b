package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/thekitchen/ordering-api/models"
	"github.com/thekitchen/ordering-api/services"
	"github.com/thekitchen/ordering-api/utils"
)

type AdminController struct {
	DB *gorm.DB
}

func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{DB: db}
}

// Dashboard returns the headline numbers for the admin landing page.
func (ac *AdminController) Dashboard(c *gin.Context) {
	var totalOrders, newOrders, pendingPayments, totalCustomers int64
	ac.DB.Model(&models.Order{}).Count(&totalOrders)
	ac.DB.Model(&models.Order{}).Where("status = ?", models.OrderStatusNew).Count(&newOrders)
	ac.DB.Model(&models.Payment{}).Where("status = ?", models.PaymentStatusPending).Count(&pendingPayments)
	ac.DB.Model(&models.User{}).Where("is_admin = ?", false).Count(&totalCustomers)

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var todayOrders []models.Order
	ac.DB.Where("created_at >= ?", today).Find(&todayOrders)
	todayRevenue := decimal.Zero
	for i := range todayOrders {
		if todayOrders[i].Status != models.OrderStatusCancelled {
			todayRevenue = todayRevenue.Add(todayOrders[i].TotalAmount)
		}
	}

	utils.RespondJSON(c, http.StatusOK, gin.H{
		"total_orders":     totalOrders,
		"new_orders":       newOrders,
		"pending_payments": pendingPayments,
		"total_customers":  totalCustomers,
		"today_orders":     len(todayOrders),
		"today_revenue":    todayRevenue.InexactFloat64(),
	})
}

// ListCustomers returns non-admin users with their order counts and
// lifetime spend.
func (ac *AdminController) ListCustomers(c *gin.Context) {
	var users []models.User
	ac.DB.Where("is_admin = ?", false).Order("id desc").Find(&users)

	views := make([]gin.H, 0, len(users))
	for i := range users {
		var orders []models.Order
		ac.DB.Where("user_id = ?", users[i].ID).Find(&orders)
		spent := decimal.Zero
		for j := range orders {
			if orders[j].Status != models.OrderStatusCancelled {
				spent = spent.Add(orders[j].TotalAmount)
			}
		}
		views = append(views, gin.H{
			"id":          users[i].ID,
			"name":        users[i].Name,
			"email":       users[i].Email,
			"phone":       users[i].Phone,
			"created_at":  users[i].CreatedAt.Format(time.RFC3339),
			"order_count": len(orders),
			"total_spent": spent.InexactFloat64(),
		})
	}
	utils.RespondJSON(c, http.StatusOK, gin.H{"customers": views, "count": len(views)})
}

// GetCustomer returns one customer with their full order history.
func (ac *AdminController) GetCustomer(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("user_id"))

	var user models.User
	if err := ac.DB.First(&user, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("Customer not found"))
		return
	}

	var orders []models.Order
	ac.DB.Where("user_id = ?", user.ID).
		Preload("Items").Preload("Items.MenuItem").Preload("Payments").
		Order("id desc").Find(&orders)

	language := utils.Language(c)
	orderViews := make([]models.OrderView, 0, len(orders))
	spent := decimal.Zero
	for i := range orders {
		orderViews = append(orderViews, orders[i].View(language))
		if orders[i].Status != models.OrderStatusCancelled {
			spent = spent.Add(orders[i].TotalAmount)
		}
	}

	utils.RespondJSON(c, http.StatusOK, gin.H{
		"customer": gin.H{
			"id":          user.ID,
			"name":        user.Name,
			"email":       user.Email,
			"phone":       user.Phone,
			"created_at":  user.CreatedAt.Format(time.RFC3339),
			"order_count": len(orders),
			"total_spent": spent.InexactFloat64(),
		},
		"orders": orderViews,
	})
}

// Analytics aggregates revenue per day over the requested window
// (default 30 days) plus the best-selling items.
func (ac *AdminController) Analytics(c *gin.Context) {
	days := 30
	if d, err := strconv.Atoi(c.Query("days")); err == nil && d > 0 {
		days = d
	}
	since := time.Now().AddDate(0, 0, -days)

	var orders []models.Order
	ac.DB.Where("created_at >= ? AND status <> ?", since, models.OrderStatusCancelled).
		Order("created_at asc").Find(&orders)

	daily := map[string]decimal.Decimal{}
	dailyCount := map[string]int{}
	for i := range orders {
		day := orders[i].CreatedAt.Format("2006-01-02")
		daily[day] = daily[day].Add(orders[i].TotalAmount)
		dailyCount[day]++
	}
	revenueByDay := make([]gin.H, 0, len(daily))
	for day := 0; day < days; day++ {
		key := since.AddDate(0, 0, day+1).Format("2006-01-02")
		if _, ok := daily[key]; !ok {
			continue
		}
		revenueByDay = append(revenueByDay, gin.H{
			"date":    key,
			"revenue": daily[key].InexactFloat64(),
			"orders":  dailyCount[key],
		})
	}

	// Top items by quantity across the same window.
	type itemAgg struct {
		item models.MenuItem
		qty  int
	}
	var orderItems []models.OrderItem
	orderIDs := make([]uint, 0, len(orders))
	for i := range orders {
		orderIDs = append(orderIDs, orders[i].ID)
	}
	if len(orderIDs) > 0 {
		ac.DB.Preload("MenuItem").Where("order_id IN ?", orderIDs).Find(&orderItems)
	}
	agg := map[uint]*itemAgg{}
	for i := range orderItems {
		a, ok := agg[orderItems[i].MenuItemID]
		if !ok {
			a = &itemAgg{item: orderItems[i].MenuItem}
			agg[orderItems[i].MenuItemID] = a
		}
		a.qty += orderItems[i].Quantity
	}
	language := utils.Language(c)
	topItems := make([]gin.H, 0, len(agg))
	for _, a := range agg {
		topItems = append(topItems, gin.H{
			"menu_item_id": a.item.ID,
			"name":         a.item.Name(language),
			"quantity":     a.qty,
		})
	}
	for i := 0; i < len(topItems); i++ {
		for j := i + 1; j < len(topItems); j++ {
			if topItems[j]["quantity"].(int) > topItems[i]["quantity"].(int) {
				topItems[i], topItems[j] = topItems[j], topItems[i]
			}
		}
	}
	if len(topItems) > 10 {
		topItems = topItems[:10]
	}

	utils.RespondJSON(c, http.StatusOK, gin.H{
		"days":           days,
		"revenue_by_day": revenueByDay,
		"top_items":      topItems,
		"order_count":    len(orders),
	})
}

// GetSettings returns every setting, merging defaults over missing rows
// so the admin UI always sees the complete key set.
func (ac *AdminController) GetSettings(c *gin.Context) {
	merged := gin.H{}
	for key, def := range services.SettingDefaults {
		merged[key] = gin.H{
			"value":       models.GetSetting(ac.DB, key, def.Value),
			"description": def.Description,
		}
	}
	utils.RespondJSON(c, http.StatusOK, gin.H{"settings": merged})
}

// UpdateSettings upserts the provided key/value pairs. Unknown keys are
// rejected so typos do not silently create dead settings.
func (ac *AdminController) UpdateSettings(c *gin.Context) {
	var req map[string]string
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	for key := range req {
		if _, ok := services.SettingDefaults[key]; !ok {
			utils.RespondError(c, http.StatusBadRequest, errors.New("Unknown setting: "+key))
			return
		}
	}
	for key, value := range req {
		if err := models.SetSetting(ac.DB, key, value, services.SettingDefaults[key].Description); err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	}

	utils.InfoLogger.WithField("keys", len(req)).Info("Settings updated")
	ac.GetSettings(c)
}

// ToggleOrdering flips the ordering gate and returns the new state.
func (ac *AdminController) ToggleOrdering(c *gin.Context) {
	current := models.GetSetting(ac.DB, services.SettingOrderingEnabled,
		services.SettingDefaults[services.SettingOrderingEnabled].Value)
	next := "true"
	if current == "true" {
		next = "false"
	}
	if err := models.SetSetting(ac.DB, services.SettingOrderingEnabled, next,
		services.SettingDefaults[services.SettingOrderingEnabled].Description); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.WithField("ordering_enabled", next).Info("Ordering toggled")
	utils.RespondJSON(c, http.StatusOK, gin.H{"ordering_enabled": next == "true"})
}

// GetOrderingStatus is the public gate check the storefront polls.
func (ac *AdminController) GetOrderingStatus(c *gin.Context) {
	settings := services.LoadSettings(ac.DB)
	utils.RespondJSON(c, http.StatusOK, gin.H{"ordering_enabled": settings.OrderingEnabled})
}
