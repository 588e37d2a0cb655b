package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/thekitchen/ordering-api/models"
	"github.com/thekitchen/ordering-api/utils"
)

// newTestDB opens a named in-memory database so each test file gets its
// own isolated schema.
func newTestDB(name string) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.MenuItem{},
		&models.Cart{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
		&models.SystemSettings{},
	)
	if err != nil {
		panic(err)
	}
	return db
}

func createTestUser(db *gorm.DB, email string, isAdmin bool) (models.User, string) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	user := models.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: string(hash),
		IsAdmin:      isAdmin,
	}
	db.Create(&user)
	token, err := utils.GenerateToken(user.ID, user.IsAdmin)
	if err != nil {
		panic(err)
	}
	return user, token
}

func createTestItem(db *gorm.DB, nameEn, nameAr string, price int64, available bool) models.MenuItem {
	item := models.MenuItem{
		NameAr:      nameAr,
		NameEn:      nameEn,
		Price:       decimal.NewFromInt(price),
		IsAvailable: available,
	}
	db.Create(&item)
	return item
}

// doRequest issues a JSON request, optionally with a bearer token and a
// guest cart cookie.
func doRequest(router *gin.Engine, method, path, token, session string, payload interface{}) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewBuffer(b)
	} else {
		body = bytes.NewBuffer(nil)
	}
	req, _ := http.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if session != "" {
		req.AddCookie(&http.Cookie{Name: "cart_session", Value: session})
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var resp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err)
	return resp
}
