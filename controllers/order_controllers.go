package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/thekitchen/ordering-api/middlewares"
	"github.com/thekitchen/ordering-api/models"
	"github.com/thekitchen/ordering-api/services"
	"github.com/thekitchen/ordering-api/utils"
)

type OrderController struct {
	DB *gorm.DB
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{DB: db}
}

// lockForUpdate applies a row lock on dialects that support it. SQLite
// serializes writers on its own and rejects FOR UPDATE.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// Checkout converts the user's cart into an order in one transaction.
// Item prices are re-read under lock and frozen onto the order lines;
// the cart is cleared only if everything else succeeded.
func (oc *OrderController) Checkout(c *gin.Context) {
	userID := middlewares.CurrentUserID(c)

	var req struct {
		DeliveryAddress string `json:"delivery_address" binding:"required"`
		Notes           string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	settings := services.LoadSettings(oc.DB)
	if !settings.OrderingEnabled {
		utils.RespondError(c, http.StatusBadRequest, errors.New("Ordering is currently disabled"))
		return
	}

	var order models.Order
	err := oc.DB.Transaction(func(tx *gorm.DB) error {
		// Locking the cart rows serializes concurrent checkouts for the
		// same user: the loser re-reads an already-emptied cart instead of
		// ordering from stale entries.
		var entries []models.Cart
		if err := lockForUpdate(tx).Where("user_id = ?", userID).Order("id asc").Find(&entries).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return errEmptyCart
		}

		subtotal := decimal.Zero
		items := make([]models.OrderItem, 0, len(entries))
		for i := range entries {
			var item models.MenuItem
			if err := lockForUpdate(tx).First(&item, entries[i].MenuItemID).Error; err != nil {
				return errItemMissing
			}
			if !item.IsAvailable {
				return errItemUnavailable
			}
			qty := decimal.NewFromInt(int64(entries[i].Quantity))
			subtotal = subtotal.Add(item.Price.Mul(qty))
			items = append(items, models.OrderItem{
				MenuItemID: item.ID,
				Quantity:   entries[i].Quantity,
				UnitPrice:  item.Price,
				Notes:      entries[i].Notes,
			})
		}

		order = models.Order{
			UserID:          userID,
			Status:          models.OrderStatusNew,
			Subtotal:        subtotal,
			DeliveryFee:     settings.DeliveryFeeMin,
			DeliveryAddress: req.DeliveryAddress,
			Notes:           req.Notes,
			Items:           items,
		}
		order.Recalculate(settings.AdvancePercentage)

		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", userID).Delete(&models.Cart{}).Error
	})
	if err != nil {
		// Cart problems are the caller's to fix; anything else is ours.
		switch err {
		case errEmptyCart, errItemMissing, errItemUnavailable:
			utils.RespondError(c, http.StatusBadRequest, err)
		default:
			utils.RespondError(c, http.StatusInternalServerError, err)
		}
		return
	}

	utils.InfoLogger.WithField("order_id", order.ID).WithField("user_id", userID).Info("Order created")
	utils.RespondJSON(c, http.StatusCreated, gin.H{"order": order.View(utils.Language(c))})
}

var (
	errEmptyCart       = errors.New("Cart is empty")
	errItemMissing     = errors.New("Menu item not found")
	errItemUnavailable = errors.New("Some items in your cart are no longer available")
)

// GetOrders lists the authenticated user's orders, newest first.
func (oc *OrderController) GetOrders(c *gin.Context) {
	userID := middlewares.CurrentUserID(c)

	var orders []models.Order
	oc.DB.Where("user_id = ?", userID).
		Preload("Items").Preload("Items.MenuItem").Preload("Payments").
		Order("id desc").Find(&orders)

	language := utils.Language(c)
	views := make([]models.OrderView, 0, len(orders))
	for i := range orders {
		views = append(views, orders[i].View(language))
	}
	utils.RespondJSON(c, http.StatusOK, gin.H{"orders": views})
}

// GetOrder returns one order. Non-admins only see their own; a foreign
// order id reads as not found rather than forbidden.
func (oc *OrderController) GetOrder(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("order_id"))

	query := oc.DB.Preload("Items").Preload("Items.MenuItem").Preload("Payments")
	if !c.GetBool("is_admin") {
		query = query.Where("user_id = ?", middlewares.CurrentUserID(c))
	}

	var order models.Order
	if err := query.First(&order, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("Order not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, gin.H{"order": order.View(utils.Language(c))})
}

// UpdateStatus sets any valid status; admins may jump freely between
// statuses, including reopening cancelled orders.
func (oc *OrderController) UpdateStatus(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("order_id"))

	var req struct {
		Status     string `json:"status" binding:"required"`
		AdminNotes string `json:"admin_notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if !models.ValidOrderStatus(req.Status) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("Invalid status"))
		return
	}

	var order models.Order
	if err := oc.DB.First(&order, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("Order not found"))
		return
	}

	order.Status = req.Status
	if req.AdminNotes != "" {
		order.AdminNotes = req.AdminNotes
	}
	if err := oc.DB.Save(&order).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.WithField("order_id", order.ID).WithField("status", order.Status).Info("Order status updated")
	utils.RespondJSON(c, http.StatusOK, gin.H{"order": order.View(utils.Language(c))})
}

// UpdateDeliveryFee changes the fee within the configured bounds and
// re-derives total and advance from the frozen subtotal.
func (oc *OrderController) UpdateDeliveryFee(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("order_id"))

	var req struct {
		DeliveryFee *float64 `json:"delivery_fee" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	settings := services.LoadSettings(oc.DB)
	fee := decimal.NewFromFloat(*req.DeliveryFee).Round(2)
	if fee.LessThan(settings.DeliveryFeeMin) || fee.GreaterThan(settings.DeliveryFeeMax) {
		utils.RespondError(c, http.StatusBadRequest, errors.New(
			"Delivery fee must be between "+settings.DeliveryFeeMin.String()+" and "+settings.DeliveryFeeMax.String()))
		return
	}

	var order models.Order
	if err := oc.DB.First(&order, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("Order not found"))
		return
	}

	order.DeliveryFee = fee
	order.Recalculate(settings.AdvancePercentage)
	if err := oc.DB.Save(&order).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, gin.H{"order": order.View(utils.Language(c))})
}

// UpdateNotes sets the admin-only notes field.
func (oc *OrderController) UpdateNotes(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("order_id"))

	var req struct {
		AdminNotes string `json:"admin_notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var order models.Order
	if err := oc.DB.First(&order, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("Order not found"))
		return
	}

	order.AdminNotes = req.AdminNotes
	if err := oc.DB.Save(&order).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, gin.H{"order": order.View(utils.Language(c))})
}

// Reorder copies a past order's still-available items back into the cart
// at their current prices. Unavailable items are skipped and reported.
func (oc *OrderController) Reorder(c *gin.Context) {
	userID := middlewares.CurrentUserID(c)
	id, _ := strconv.Atoi(c.Param("order_id"))

	var order models.Order
	if err := oc.DB.Preload("Items").Preload("Items.MenuItem").
		Where("user_id = ?", userID).First(&order, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("Order not found"))
		return
	}

	owner := models.UserOwner(userID)
	skipped := make([]string, 0)
	language := utils.Language(c)

	err := oc.DB.Transaction(func(tx *gorm.DB) error {
		for i := range order.Items {
			item := order.Items[i].MenuItem
			if item.ID == 0 || !item.IsAvailable {
				if item.ID != 0 {
					skipped = append(skipped, item.Name(language))
				}
				continue
			}

			var existing models.Cart
			err := tx.Scopes(owner.Scope()).Where("menu_item_id = ?", item.ID).First(&existing).Error
			if err == nil {
				existing.Quantity += order.Items[i].Quantity
				if err := tx.Save(&existing).Error; err != nil {
					return err
				}
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			entry := models.Cart{
				MenuItemID: item.ID,
				Quantity:   order.Items[i].Quantity,
				Notes:      order.Items[i].Notes,
			}
			owner.Stamp(&entry)
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	payload := cartProjection(oc.DB, owner, language)
	payload["skipped_items"] = skipped
	utils.RespondJSON(c, http.StatusOK, payload)
}

// ListAllOrders is the admin view with optional status and date filters.
// Dates are inclusive calendar days in YYYY-MM-DD form.
func (oc *OrderController) ListAllOrders(c *gin.Context) {
	query := oc.DB.Preload("Items").Preload("Items.MenuItem").Preload("Payments").Preload("User")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if from := c.Query("date_from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			query = query.Where("created_at >= ?", t)
		}
	}
	if to := c.Query("date_to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			query = query.Where("created_at < ?", t.AddDate(0, 0, 1))
		}
	}

	var orders []models.Order
	query.Order("id desc").Find(&orders)

	language := utils.Language(c)
	views := make([]gin.H, 0, len(orders))
	for i := range orders {
		views = append(views, gin.H{
			"order":          orders[i].View(language),
			"customer_name":  orders[i].User.Name,
			"customer_phone": orders[i].User.Phone,
		})
	}
	utils.RespondJSON(c, http.StatusOK, gin.H{"orders": views, "count": len(views)})
}

// OrderStats aggregates counts per status plus revenue over delivered
// and confirmed orders.
func (oc *OrderController) OrderStats(c *gin.Context) {
	byStatus := gin.H{}
	var total int64
	oc.DB.Model(&models.Order{}).Count(&total)
	for _, status := range models.OrderStatuses {
		var n int64
		oc.DB.Model(&models.Order{}).Where("status = ?", status).Count(&n)
		byStatus[status] = n
	}

	var revenueOrders []models.Order
	oc.DB.Where("status IN ?", []string{models.OrderStatusConfirmed, models.OrderStatusPreparing,
		models.OrderStatusOnWay, models.OrderStatusDelivered}).Find(&revenueOrders)
	revenue := decimal.Zero
	for i := range revenueOrders {
		revenue = revenue.Add(revenueOrders[i].TotalAmount)
	}

	utils.RespondJSON(c, http.StatusOK, gin.H{
		"total_orders":  total,
		"by_status":     byStatus,
		"total_revenue": revenue.InexactFloat64(),
	})
}
