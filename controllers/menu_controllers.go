package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/thekitchen/ordering-api/models"
	"github.com/thekitchen/ordering-api/utils"
)

type MenuController struct {
	DB *gorm.DB
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{DB: db}
}

func menuItemViews(items []models.MenuItem, language string) []models.MenuItemView {
	views := make([]models.MenuItemView, 0, len(items))
	for i := range items {
		views = append(views, items[i].View(language))
	}
	return views
}

// ListMenuItems -> full catalog, newest first.
func (mc *MenuController) ListMenuItems(c *gin.Context) {
	language := utils.Language(c)

	var items []models.MenuItem
	if err := mc.DB.Order("id desc").Find(&items).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, gin.H{"items": menuItemViews(items, language)})
}

// ListAvailableMenuItems -> only items customers can order right now.
func (mc *MenuController) ListAvailableMenuItems(c *gin.Context) {
	language := utils.Language(c)

	var items []models.MenuItem
	if err := mc.DB.Where("is_available = ?", true).Order("id desc").Find(&items).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, gin.H{"items": menuItemViews(items, language)})
}

// GetMenuItem -> detail of one item.
func (mc *MenuController) GetMenuItem(c *gin.Context) {
	language := utils.Language(c)
	id, _ := strconv.Atoi(c.Param("item_id"))

	var item models.MenuItem
	if err := mc.DB.First(&item, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("Menu item not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, gin.H{"item": item.View(language)})
}

// CreateMenuItem [admin]
func (mc *MenuController) CreateMenuItem(c *gin.Context) {
	type request struct {
		NameAr        string   `json:"name_ar" binding:"required"`
		NameEn        string   `json:"name_en" binding:"required"`
		DescriptionAr string   `json:"description_ar" binding:"required"`
		DescriptionEn string   `json:"description_en" binding:"required"`
		Price         float64  `json:"price" binding:"required"`
		IsAvailable   *bool    `json:"is_available"`
		Category      string   `json:"category"`
		ImageURLs     []string `json:"image_urls"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	price := decimal.NewFromFloat(req.Price).Round(2)
	if price.IsNegative() {
		utils.RespondError(c, http.StatusBadRequest, errors.New("Invalid price"))
		return
	}

	item := models.MenuItem{
		NameAr:        strings.TrimSpace(req.NameAr),
		NameEn:        strings.TrimSpace(req.NameEn),
		DescriptionAr: strings.TrimSpace(req.DescriptionAr),
		DescriptionEn: strings.TrimSpace(req.DescriptionEn),
		Price:         price,
		IsAvailable:   true,
		Category:      "main",
		ImageURLs:     datatypes.NewJSONSlice([]string{}),
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}
	if cat := strings.TrimSpace(req.Category); cat != "" {
		item.Category = cat
	}
	if len(req.ImageURLs) > 0 {
		item.ImageURLs = datatypes.NewJSONSlice(req.ImageURLs)
	}

	if err := mc.DB.Create(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, gin.H{"item": item.View(utils.Language(c))})
}

// UpdateMenuItem [admin] -> partial update; absent fields stay untouched.
func (mc *MenuController) UpdateMenuItem(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("item_id"))

	var item models.MenuItem
	if err := mc.DB.First(&item, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("Menu item not found"))
		return
	}

	type request struct {
		NameAr        *string   `json:"name_ar"`
		NameEn        *string   `json:"name_en"`
		DescriptionAr *string   `json:"description_ar"`
		DescriptionEn *string   `json:"description_en"`
		Price         *float64  `json:"price"`
		IsAvailable   *bool     `json:"is_available"`
		Category      *string   `json:"category"`
		ImageURLs     *[]string `json:"image_urls"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.NameAr != nil {
		item.NameAr = strings.TrimSpace(*req.NameAr)
	}
	if req.NameEn != nil {
		item.NameEn = strings.TrimSpace(*req.NameEn)
	}
	if req.DescriptionAr != nil {
		item.DescriptionAr = strings.TrimSpace(*req.DescriptionAr)
	}
	if req.DescriptionEn != nil {
		item.DescriptionEn = strings.TrimSpace(*req.DescriptionEn)
	}
	if req.Price != nil {
		price := decimal.NewFromFloat(*req.Price).Round(2)
		if price.IsNegative() {
			utils.RespondError(c, http.StatusBadRequest, errors.New("Invalid price"))
			return
		}
		item.Price = price
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}
	if req.Category != nil {
		item.Category = strings.TrimSpace(*req.Category)
	}
	if req.ImageURLs != nil {
		item.ImageURLs = datatypes.NewJSONSlice(*req.ImageURLs)
	}

	if err := mc.DB.Save(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, gin.H{"item": item.View(utils.Language(c))})
}

// DeleteMenuItem [admin]
func (mc *MenuController) DeleteMenuItem(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("item_id"))

	var item models.MenuItem
	if err := mc.DB.First(&item, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("Menu item not found"))
		return
	}

	if err := mc.DB.Delete(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, gin.H{})
}

// ToggleAvailability [admin]
func (mc *MenuController) ToggleAvailability(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("item_id"))

	var item models.MenuItem
	if err := mc.DB.First(&item, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("Menu item not found"))
		return
	}

	item.IsAvailable = !item.IsAvailable
	if err := mc.DB.Save(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, gin.H{"item": item.View(utils.Language(c))})
}

// AddMenuImage [admin] -> appends a URL to the item's image list.
func (mc *MenuController) AddMenuImage(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("item_id"))

	var item models.MenuItem
	if err := mc.DB.First(&item, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("Menu item not found"))
		return
	}

	var req struct {
		ImageURL string `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	url := strings.TrimSpace(req.ImageURL)
	if url == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("Image URL required"))
		return
	}

	item.ImageURLs = append(item.ImageURLs, url)
	if err := mc.DB.Save(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, gin.H{"item": item.View(utils.Language(c))})
}

// RemoveMenuImage [admin] -> removes a URL from the item's image list.
func (mc *MenuController) RemoveMenuImage(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("item_id"))

	var item models.MenuItem
	if err := mc.DB.First(&item, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("Menu item not found"))
		return
	}

	var req struct {
		ImageURL string `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	url := strings.TrimSpace(req.ImageURL)
	if url == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("Image URL required"))
		return
	}

	kept := make([]string, 0, len(item.ImageURLs))
	found := false
	for _, u := range item.ImageURLs {
		if u == url {
			found = true
			continue
		}
		kept = append(kept, u)
	}
	if !found {
		utils.RespondError(c, http.StatusNotFound, errors.New("Image not found"))
		return
	}

	item.ImageURLs = datatypes.NewJSONSlice(kept)
	if err := mc.DB.Save(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, gin.H{"item": item.View(utils.Language(c))})
}
