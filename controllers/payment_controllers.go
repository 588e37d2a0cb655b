package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/thekitchen/ordering-api/config"
	"github.com/thekitchen/ordering-api/middlewares"
	"github.com/thekitchen/ordering-api/models"
	"github.com/thekitchen/ordering-api/utils"
)

type PaymentController struct {
	DB        *gorm.DB
	UploadDir string
}

func NewPaymentController(db *gorm.DB, uploadDir string) *PaymentController {
	return &PaymentController{DB: db, UploadDir: uploadDir}
}

// GetPaymentMethods lists the supported manual payment channels with
// localized display names and transfer instructions.
func (pc *PaymentController) GetPaymentMethods(c *gin.Context) {
	language := utils.Language(c)
	methods := make([]gin.H, 0, len(models.PaymentMethods))
	for _, m := range models.PaymentMethods {
		p := models.Payment{Method: m}
		methods = append(methods, gin.H{
			"value":        m,
			"label":        p.MethodDisplay(language),
			"instructions": models.PaymentMethodInstructions(m, language),
			"number":       models.PaymentMethodNumber(m),
		})
	}
	utils.RespondJSON(c, http.StatusOK, gin.H{"methods": methods})
}

// CreatePayment records the single payment attempt for an order. The
// amount is pinned to the order's advance server-side.
func (pc *PaymentController) CreatePayment(c *gin.Context) {
	userID := middlewares.CurrentUserID(c)

	var req struct {
		OrderID       uint   `json:"order_id" binding:"required"`
		Method        string `json:"method" binding:"required"`
		TransactionID string `json:"transaction_id"`
		Notes         string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if !models.ValidPaymentMethod(req.Method) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("Invalid payment method"))
		return
	}

	query := pc.DB
	if !c.GetBool("is_admin") {
		query = query.Where("user_id = ?", userID)
	}
	var order models.Order
	if err := query.First(&order, req.OrderID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("Order not found"))
		return
	}

	var existing models.Payment
	if err := pc.DB.Where("order_id = ?", order.ID).First(&existing).Error; err == nil {
		utils.RespondError(c, http.StatusConflict, errors.New("Payment already exists for this order"))
		return
	}

	payment := models.Payment{
		OrderID:       order.ID,
		Method:        req.Method,
		Amount:        order.AdvanceAmount,
		Status:        models.PaymentStatusPending,
		TransactionID: req.TransactionID,
		Notes:         strings.TrimSpace(req.Notes),
	}
	if err := pc.DB.Create(&payment).Error; err != nil {
		// The unique index catches the race two app-level checks miss.
		utils.RespondError(c, http.StatusConflict, errors.New("Payment already exists for this order"))
		return
	}

	utils.InfoLogger.WithField("payment_id", payment.ID).WithField("order_id", order.ID).Info("Payment created")
	utils.RespondJSON(c, http.StatusCreated, gin.H{"payment": payment.View(utils.Language(c))})
}

// UploadProof attaches a payment screenshot. Re-uploading resets a
// rejected payment back to pending for another review.
func (pc *PaymentController) UploadProof(c *gin.Context) {
	userID := middlewares.CurrentUserID(c)
	id, _ := strconv.Atoi(c.Param("payment_id"))

	var payment models.Payment
	query := pc.DB.Preload("Order")
	if err := query.First(&payment, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("Payment not found"))
		return
	}
	if !c.GetBool("is_admin") && payment.Order.UserID != userID {
		utils.RespondError(c, http.StatusNotFound, errors.New("Payment not found"))
		return
	}

	file, err := c.FormFile("screenshot")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("Screenshot file is required"))
		return
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(file.Filename)), ".")
	allowed := false
	for _, e := range config.AllowedImageExtensions {
		if e == ext {
			allowed = true
			break
		}
	}
	if !allowed {
		utils.RespondError(c, http.StatusBadRequest, errors.New("File type not allowed"))
		return
	}

	dir := filepath.Join(pc.UploadDir, "payments")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	name := fmt.Sprintf("payment_%d_%d_%s", payment.ID, time.Now().Unix(), filepath.Base(file.Filename))
	if err := c.SaveUploadedFile(file, filepath.Join(dir, name)); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	payment.ScreenshotURL = "/uploads/payments/" + name
	payment.Status = models.PaymentStatusPending
	if err := pc.DB.Save(&payment).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, gin.H{"payment": payment.View(utils.Language(c))})
}

// ConfirmPayment marks the payment confirmed and, in the same
// transaction, moves a still-new order to confirmed. Orders already
// past new keep their status.
func (pc *PaymentController) ConfirmPayment(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("payment_id"))

	var payment models.Payment
	if err := pc.DB.First(&payment, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("Payment not found"))
		return
	}

	var req struct {
		TransactionID string `json:"transaction_id"`
		Notes         string `json:"notes"`
	}
	c.ShouldBindJSON(&req)

	var order models.Order
	err := pc.DB.Transaction(func(tx *gorm.DB) error {
		payment.Status = models.PaymentStatusConfirmed
		if req.TransactionID != "" {
			payment.TransactionID = req.TransactionID
		}
		if req.Notes != "" {
			payment.Notes = req.Notes
		}
		if err := tx.Save(&payment).Error; err != nil {
			return err
		}

		if err := tx.First(&order, payment.OrderID).Error; err != nil {
			return err
		}
		if order.Status == models.OrderStatusNew {
			order.Status = models.OrderStatusConfirmed
			return tx.Save(&order).Error
		}
		return nil
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.WithField("payment_id", payment.ID).Info("Payment confirmed")
	language := utils.Language(c)
	utils.RespondJSON(c, http.StatusOK, gin.H{
		"payment": payment.View(language),
		"order":   order.View(language),
	})
}

// RejectPayment marks the payment rejected. A reason is mandatory so
// the customer knows what to fix before re-uploading proof.
func (pc *PaymentController) RejectPayment(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("payment_id"))

	var req struct {
		Notes string `json:"notes"`
	}
	c.ShouldBindJSON(&req)
	if strings.TrimSpace(req.Notes) == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("Rejection reason is required"))
		return
	}

	var payment models.Payment
	if err := pc.DB.First(&payment, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("Payment not found"))
		return
	}

	payment.Status = models.PaymentStatusRejected
	payment.Notes = req.Notes
	if err := pc.DB.Save(&payment).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.WithField("payment_id", payment.ID).Info("Payment rejected")
	utils.RespondJSON(c, http.StatusOK, gin.H{"payment": payment.View(utils.Language(c))})
}

// GetOrderPayments lists payments for one order, own-scoped for
// non-admins.
func (pc *PaymentController) GetOrderPayments(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("order_id"))

	query := pc.DB
	if !c.GetBool("is_admin") {
		query = query.Where("user_id = ?", middlewares.CurrentUserID(c))
	}
	var order models.Order
	if err := query.First(&order, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("Order not found"))
		return
	}

	var payments []models.Payment
	pc.DB.Where("order_id = ?", order.ID).Order("id desc").Find(&payments)

	language := utils.Language(c)
	views := make([]models.PaymentView, 0, len(payments))
	for i := range payments {
		views = append(views, payments[i].View(language))
	}
	utils.RespondJSON(c, http.StatusOK, gin.H{"payments": views})
}

// ListAllPayments is the admin ledger view with an optional status filter.
func (pc *PaymentController) ListAllPayments(c *gin.Context) {
	query := pc.DB.Preload("Order").Preload("Order.User")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var payments []models.Payment
	query.Order("id desc").Find(&payments)

	language := utils.Language(c)
	views := make([]gin.H, 0, len(payments))
	for i := range payments {
		views = append(views, gin.H{
			"payment":       payments[i].View(language),
			"customer_name": payments[i].Order.User.Name,
			"order_total":   payments[i].Order.TotalAmount.InexactFloat64(),
		})
	}
	utils.RespondJSON(c, http.StatusOK, gin.H{"payments": views, "count": len(views)})
}

// ListPendingPayments is the admin review queue.
func (pc *PaymentController) ListPendingPayments(c *gin.Context) {
	var payments []models.Payment
	pc.DB.Preload("Order").Preload("Order.User").
		Where("status = ?", models.PaymentStatusPending).
		Order("id asc").Find(&payments)

	language := utils.Language(c)
	views := make([]gin.H, 0, len(payments))
	for i := range payments {
		views = append(views, gin.H{
			"payment":       payments[i].View(language),
			"customer_name": payments[i].Order.User.Name,
		})
	}
	utils.RespondJSON(c, http.StatusOK, gin.H{"payments": views, "count": len(views)})
}

// PaymentStats aggregates the ledger by status and method.
func (pc *PaymentController) PaymentStats(c *gin.Context) {
	byStatus := gin.H{}
	for _, status := range []string{models.PaymentStatusPending, models.PaymentStatusConfirmed, models.PaymentStatusRejected} {
		var n int64
		pc.DB.Model(&models.Payment{}).Where("status = ?", status).Count(&n)
		byStatus[status] = n
	}

	byMethod := gin.H{}
	for _, method := range models.PaymentMethods {
		var n int64
		pc.DB.Model(&models.Payment{}).Where("method = ?", method).Count(&n)
		byMethod[method] = n
	}

	var confirmed []models.Payment
	pc.DB.Where("status = ?", models.PaymentStatusConfirmed).Find(&confirmed)
	collected := decimal.Zero
	for i := range confirmed {
		collected = collected.Add(confirmed[i].Amount)
	}

	utils.RespondJSON(c, http.StatusOK, gin.H{
		"by_status":       byStatus,
		"by_method":       byMethod,
		"total_collected": collected.InexactFloat64(),
	})
}
