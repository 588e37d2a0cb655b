package Controllers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/thekitchen/ordering-api/controllers"
	"github.com/thekitchen/ordering-api/middlewares"
	"github.com/thekitchen/ordering-api/utils"
)

func setupMenuRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	menuCtrl := controllers.NewMenuController(db)
	router.GET("/menu", menuCtrl.ListMenuItems)
	router.GET("/menu/available", menuCtrl.ListAvailableMenuItems)
	router.GET("/menu/:item_id", menuCtrl.GetMenuItem)

	admin := router.Group("/menu", middlewares.Authenticate(), middlewares.AdminOnly())
	admin.POST("", menuCtrl.CreateMenuItem)
	admin.PUT("/:item_id", menuCtrl.UpdateMenuItem)
	admin.PUT("/:item_id/toggle-availability", menuCtrl.ToggleAvailability)
	admin.POST("/:item_id/images", menuCtrl.AddMenuImage)
	admin.DELETE("/:item_id/images", menuCtrl.RemoveMenuImage)
	return router
}

func TestPublicMenuOnlyShowsAvailable(t *testing.T) {
	utils.InitLogger()
	db := newTestDB("menutest1")
	router := setupMenuRouter(db)

	createTestItem(db, "Koshary", "كشري", 65, true)
	createTestItem(db, "Sold Out Dish", "طبق نفد", 50, false)

	w := doRequest(router, "GET", "/menu/available", "", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody(t, w)
	items := resp["items"].([]interface{})
	assert.Len(t, items, 1)
	assert.Equal(t, "Koshary", items[0].(map[string]interface{})["name"])

	// The full catalog includes unavailable items.
	w = doRequest(router, "GET", "/menu", "", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	resp = decodeBody(t, w)
	assert.Len(t, resp["items"].([]interface{}), 2)
}

func TestMenuLocalization(t *testing.T) {
	utils.InitLogger()
	db := newTestDB("menutest2")
	router := setupMenuRouter(db)

	item := createTestItem(db, "Koshary", "كشري", 65, true)

	w := doRequest(router, "GET", "/menu/"+itoa(item.ID)+"?lang=ar", "", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody(t, w)
	got := resp["item"].(map[string]interface{})
	assert.Equal(t, "كشري", got["name"])
	// Raw bilingual fields ride along for admin editing.
	assert.Equal(t, "Koshary", got["name_en"])

	w = doRequest(router, "GET", "/menu/"+itoa(item.ID), "", "", nil)
	resp = decodeBody(t, w)
	assert.Equal(t, "Koshary", resp["item"].(map[string]interface{})["name"])
}

func TestCreateMenuItemValidation(t *testing.T) {
	utils.InitLogger()
	db := newTestDB("menutest3")
	router := setupMenuRouter(db)
	_, adminToken := createTestUser(db, "admin@menutest3.com", true)

	w := doRequest(router, "POST", "/menu", adminToken, "", map[string]interface{}{
		"name_ar":        "طبق",
		"name_en":        "Dish",
		"description_ar": "وصف",
		"description_en": "Description",
		"price":          -5.0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeBody(t, w)
	assert.Equal(t, "Invalid price", resp["error"])

	w = doRequest(router, "POST", "/menu", adminToken, "", map[string]interface{}{
		"name_ar":        "طبق",
		"name_en":        "Dish",
		"description_ar": "وصف",
		"description_en": "Description",
		"price":          19.999,
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	resp = decodeBody(t, w)
	// Prices are stored rounded to two decimal places.
	assert.Equal(t, 20.0, resp["item"].(map[string]interface{})["price"])
}

func TestToggleAvailabilityTwiceRestoresState(t *testing.T) {
	utils.InitLogger()
	db := newTestDB("menutest4")
	router := setupMenuRouter(db)
	_, adminToken := createTestUser(db, "admin@menutest4.com", true)
	item := createTestItem(db, "Koshary", "كشري", 65, true)

	w := doRequest(router, "PUT", "/menu/"+itoa(item.ID)+"/toggle-availability", adminToken, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody(t, w)
	assert.Equal(t, false, resp["item"].(map[string]interface{})["is_available"])

	w = doRequest(router, "PUT", "/menu/"+itoa(item.ID)+"/toggle-availability", adminToken, "", nil)
	resp = decodeBody(t, w)
	assert.Equal(t, true, resp["item"].(map[string]interface{})["is_available"])
}

func TestMenuAdminGate(t *testing.T) {
	utils.InitLogger()
	db := newTestDB("menutest5")
	router := setupMenuRouter(db)
	_, userToken := createTestUser(db, "user@menutest5.com", false)

	w := doRequest(router, "POST", "/menu", userToken, "", map[string]interface{}{})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestMenuImages(t *testing.T) {
	utils.InitLogger()
	db := newTestDB("menutest6")
	router := setupMenuRouter(db)
	_, adminToken := createTestUser(db, "admin@menutest6.com", true)
	item := createTestItem(db, "Koshary", "كشري", 65, true)

	w := doRequest(router, "POST", "/menu/"+itoa(item.ID)+"/images", adminToken, "", map[string]interface{}{
		"image_url": "koshary.jpg",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody(t, w)
	urls := resp["item"].(map[string]interface{})["image_urls"].([]interface{})
	assert.Len(t, urls, 1)

	w = doRequest(router, "DELETE", "/menu/"+itoa(item.ID)+"/images", adminToken, "", map[string]interface{}{
		"image_url": "missing.jpg",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(router, "DELETE", "/menu/"+itoa(item.ID)+"/images", adminToken, "", map[string]interface{}{
		"image_url": "koshary.jpg",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	resp = decodeBody(t, w)
	assert.Len(t, resp["item"].(map[string]interface{})["image_urls"].([]interface{}), 0)
}
