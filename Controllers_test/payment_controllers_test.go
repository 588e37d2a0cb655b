package Controllers_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/thekitchen/ordering-api/controllers"
	"github.com/thekitchen/ordering-api/middlewares"
	"github.com/thekitchen/ordering-api/models"
	"github.com/thekitchen/ordering-api/utils"
)

func setupPaymentRouter(db *gorm.DB, uploadDir string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	cartCtrl := controllers.NewCartController(db)
	orderCtrl := controllers.NewOrderController(db)
	paymentCtrl := controllers.NewPaymentController(db, uploadDir)

	cart := router.Group("/cart", middlewares.GuestSession(), middlewares.AuthenticateOptional())
	cart.POST("", cartCtrl.AddToCart)

	orders := router.Group("/orders", middlewares.Authenticate())
	orders.POST("", orderCtrl.Checkout)

	router.GET("/payments/methods", paymentCtrl.GetPaymentMethods)
	router.POST("/payments", middlewares.Authenticate(), paymentCtrl.CreatePayment)
	router.POST("/payments/:payment_id/upload", middlewares.Authenticate(), paymentCtrl.UploadProof)
	router.GET("/payments/order/:order_id", middlewares.Authenticate(), paymentCtrl.GetOrderPayments)
	router.PUT("/payments/:payment_id/confirm", middlewares.Authenticate(), middlewares.AdminOnly(), paymentCtrl.ConfirmPayment)
	router.PUT("/payments/:payment_id/reject", middlewares.Authenticate(), middlewares.AdminOnly(), paymentCtrl.RejectPayment)

	admin := router.Group("/admin", middlewares.Authenticate(), middlewares.AdminOnly())
	admin.GET("/payments", paymentCtrl.ListAllPayments)
	admin.GET("/payments/pending", paymentCtrl.ListPendingPayments)
	admin.GET("/payments/stats", paymentCtrl.PaymentStats)
	return router
}

// placeOrder runs a cart fill plus checkout and returns the order id.
func placeOrder(t *testing.T, router *gin.Engine, db *gorm.DB, token string, itemID uint) uint {
	doRequest(router, "POST", "/cart", token, "", map[string]interface{}{
		"menu_item_id": itemID, "quantity": 2,
	})
	w := doRequest(router, "POST", "/orders", token, "", map[string]interface{}{
		"delivery_address": "Somewhere",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	return uint(decodeBody(t, w)["order"].(map[string]interface{})["id"].(float64))
}

func TestPaymentMethodsAreLocalized(t *testing.T) {
	utils.InitLogger()
	db := newTestDB("paytest1")
	router := setupPaymentRouter(db, t.TempDir())

	w := doRequest(router, "GET", "/payments/methods?lang=ar", "", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	methods := decodeBody(t, w)["methods"].([]interface{})
	assert.Len(t, methods, 5)
	first := methods[0].(map[string]interface{})
	assert.Equal(t, "instapay", first["value"])
	assert.Equal(t, "إنستاباي", first["label"])
	assert.Equal(t, "أرسل الدفع إلى رقم إنستاباي: 01012345678", first["instructions"])
	assert.Equal(t, "01012345678", first["number"])

	// Cash on delivery has instructions but no wallet number.
	cod := methods[4].(map[string]interface{})
	assert.Equal(t, "cod", cod["value"])
	assert.Equal(t, "ادفع نقداً عند وصول طلبك", cod["instructions"])
	assert.Equal(t, "", cod["number"])
}

func TestCreatePaymentOncePerOrder(t *testing.T) {
	utils.InitLogger()
	db := newTestDB("paytest2")
	router := setupPaymentRouter(db, t.TempDir())
	item := createTestItem(db, "Koshary", "كشري", 65, true)
	_, token := createTestUser(db, "payer@paytest2.com", false)
	orderID := placeOrder(t, router, db, token, item.ID)

	w := doRequest(router, "POST", "/payments", token, "", map[string]interface{}{
		"order_id": orderID, "method": "instapay", "notes": "sent from my wallet",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	payment := decodeBody(t, w)["payment"].(map[string]interface{})
	assert.Equal(t, "pending", payment["status"])
	assert.Equal(t, "sent from my wallet", payment["notes"])
	// The amount is pinned to the order's advance, ignoring the client.
	assert.Equal(t, 34.0, payment["amount"])

	w = doRequest(router, "POST", "/payments", token, "", map[string]interface{}{
		"order_id": orderID, "method": "vodafone_cash",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Payment already exists for this order", decodeBody(t, w)["error"])
}

func TestCreatePaymentInvalidMethod(t *testing.T) {
	utils.InitLogger()
	db := newTestDB("paytest3")
	router := setupPaymentRouter(db, t.TempDir())
	item := createTestItem(db, "Koshary", "كشري", 65, true)
	_, token := createTestUser(db, "payer@paytest3.com", false)
	orderID := placeOrder(t, router, db, token, item.ID)

	w := doRequest(router, "POST", "/payments", token, "", map[string]interface{}{
		"order_id": orderID, "method": "paypal",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid payment method", decodeBody(t, w)["error"])
}

func TestConfirmPaymentAdvancesNewOrderOnly(t *testing.T) {
	utils.InitLogger()
	db := newTestDB("paytest4")
	router := setupPaymentRouter(db, t.TempDir())
	item := createTestItem(db, "Koshary", "كشري", 65, true)
	_, token := createTestUser(db, "payer@paytest4.com", false)
	_, adminToken := createTestUser(db, "admin@paytest4.com", true)
	orderID := placeOrder(t, router, db, token, item.ID)

	w := doRequest(router, "POST", "/payments", token, "", map[string]interface{}{
		"order_id": orderID, "method": "instapay",
	})
	paymentID := itoa(uint(decodeBody(t, w)["payment"].(map[string]interface{})["id"].(float64)))

	w = doRequest(router, "PUT", "/payments/"+paymentID+"/confirm", adminToken, "", map[string]interface{}{
		"transaction_id": "TX-20260901",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody(t, w)
	assert.Equal(t, "confirmed", resp["payment"].(map[string]interface{})["status"])
	assert.Equal(t, "TX-20260901", resp["payment"].(map[string]interface{})["transaction_id"])
	// The response carries the updated order alongside the payment.
	assert.Equal(t, "confirmed", resp["order"].(map[string]interface{})["status"])

	var payment models.Payment
	db.First(&payment, paymentID)
	assert.Equal(t, "TX-20260901", payment.TransactionID)

	var order models.Order
	db.First(&order, orderID)
	assert.Equal(t, "confirmed", order.Status)

	// Confirming again does not regress an order already moved along.
	db.Model(&order).Update("status", "preparing")
	doRequest(router, "PUT", "/payments/"+paymentID+"/confirm", adminToken, "", nil)
	db.First(&order, orderID)
	assert.Equal(t, "preparing", order.Status)
}

func TestRejectPaymentRequiresReason(t *testing.T) {
	utils.InitLogger()
	db := newTestDB("paytest5")
	router := setupPaymentRouter(db, t.TempDir())
	item := createTestItem(db, "Koshary", "كشري", 65, true)
	_, token := createTestUser(db, "payer@paytest5.com", false)
	_, adminToken := createTestUser(db, "admin@paytest5.com", true)
	orderID := placeOrder(t, router, db, token, item.ID)

	w := doRequest(router, "POST", "/payments", token, "", map[string]interface{}{
		"order_id": orderID, "method": "cod",
	})
	paymentID := itoa(uint(decodeBody(t, w)["payment"].(map[string]interface{})["id"].(float64)))

	w = doRequest(router, "PUT", "/payments/"+paymentID+"/reject", adminToken, "", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Rejection reason is required", decodeBody(t, w)["error"])

	w = doRequest(router, "PUT", "/payments/"+paymentID+"/reject", adminToken, "", map[string]interface{}{
		"notes": "Screenshot unreadable",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	payment := decodeBody(t, w)["payment"].(map[string]interface{})
	assert.Equal(t, "rejected", payment["status"])
	assert.Equal(t, "Screenshot unreadable", payment["notes"])

	// Rejection never touches the order status.
	var order models.Order
	db.First(&order, orderID)
	assert.Equal(t, "new", order.Status)
}

func TestUploadProofResetsToPending(t *testing.T) {
	utils.InitLogger()
	db := newTestDB("paytest6")
	uploadDir := t.TempDir()
	router := setupPaymentRouter(db, uploadDir)
	item := createTestItem(db, "Koshary", "كشري", 65, true)
	_, token := createTestUser(db, "payer@paytest6.com", false)
	_, adminToken := createTestUser(db, "admin@paytest6.com", true)
	orderID := placeOrder(t, router, db, token, item.ID)

	w := doRequest(router, "POST", "/payments", token, "", map[string]interface{}{
		"order_id": orderID, "method": "instapay",
	})
	paymentID := itoa(uint(decodeBody(t, w)["payment"].(map[string]interface{})["id"].(float64)))

	doRequest(router, "PUT", "/payments/"+paymentID+"/reject", adminToken, "", map[string]interface{}{
		"notes": "Wrong amount shown",
	})

	w = uploadProof(router, token, paymentID, "receipt.png")
	assert.Equal(t, http.StatusOK, w.Code)
	payment := decodeBody(t, w)["payment"].(map[string]interface{})
	assert.Equal(t, "pending", payment["status"])
	assert.Contains(t, payment["screenshot_url"], "/uploads/payments/")

	// The file landed on disk.
	files, _ := os.ReadDir(filepath.Join(uploadDir, "payments"))
	assert.Len(t, files, 1)

	w = uploadProof(router, token, paymentID, "notes.txt")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "File type not allowed", decodeBody(t, w)["error"])
}

func uploadProof(router *gin.Engine, token, paymentID, filename string) *httptest.ResponseRecorder {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, _ := writer.CreateFormFile("screenshot", filename)
	part.Write([]byte("fake image bytes"))
	writer.Close()

	req, _ := http.NewRequest("POST", "/payments/"+paymentID+"/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAdminPaymentQueuesAndStats(t *testing.T) {
	utils.InitLogger()
	db := newTestDB("paytest7")
	router := setupPaymentRouter(db, t.TempDir())
	item := createTestItem(db, "Koshary", "كشري", 65, true)
	_, token := createTestUser(db, "payer@paytest7.com", false)
	_, adminToken := createTestUser(db, "admin@paytest7.com", true)
	orderID := placeOrder(t, router, db, token, item.ID)

	w := doRequest(router, "POST", "/payments", token, "", map[string]interface{}{
		"order_id": orderID, "method": "vodafone_cash",
	})
	paymentID := itoa(uint(decodeBody(t, w)["payment"].(map[string]interface{})["id"].(float64)))

	w = doRequest(router, "GET", "/admin/payments/pending", adminToken, "", nil)
	assert.Equal(t, 1.0, decodeBody(t, w)["count"])

	doRequest(router, "PUT", "/payments/"+paymentID+"/confirm", adminToken, "", nil)

	w = doRequest(router, "GET", "/admin/payments/pending", adminToken, "", nil)
	assert.Equal(t, 0.0, decodeBody(t, w)["count"])

	w = doRequest(router, "GET", "/admin/payments/stats", adminToken, "", nil)
	resp := decodeBody(t, w)
	assert.Equal(t, 1.0, resp["by_status"].(map[string]interface{})["confirmed"])
	assert.Equal(t, 1.0, resp["by_method"].(map[string]interface{})["vodafone_cash"])
	assert.Equal(t, 34.0, resp["total_collected"])

	w = doRequest(router, "GET", "/admin/payments?status=confirmed", adminToken, "", nil)
	assert.Equal(t, 1.0, decodeBody(t, w)["count"])

	// Non-admins cannot reach the ledger.
	w = doRequest(router, "GET", "/admin/payments", token, "", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
