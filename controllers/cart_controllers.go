package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/thekitchen/ordering-api/middlewares"
	"github.com/thekitchen/ordering-api/models"
	"github.com/thekitchen/ordering-api/utils"
)

type CartController struct {
	DB *gorm.DB
}

func NewCartController(db *gorm.DB) *CartController {
	return &CartController{DB: db}
}

// cartOwner resolves the acting cart owner: the authenticated user when
// logged in, otherwise the guest session.
func cartOwner(c *gin.Context) models.CartOwner {
	if id := middlewares.CurrentUserID(c); id != 0 {
		return models.UserOwner(id)
	}
	return models.GuestOwner(middlewares.CartSessionID(c))
}

// cartProjection is the live-priced cart read path: the subtotal is
// recomputed from current menu prices on every call, never frozen.
func cartProjection(db *gorm.DB, owner models.CartOwner, language string) gin.H {
	var entries []models.Cart
	db.Scopes(owner.Scope()).Preload("MenuItem").Order("id asc").Find(&entries)

	items := make([]models.CartItemView, 0, len(entries))
	subtotal := decimal.Zero
	totalItems := 0
	for i := range entries {
		items = append(items, entries[i].View(language))
		subtotal = subtotal.Add(entries[i].MenuItem.Price.Mul(decimal.NewFromInt(int64(entries[i].Quantity))))
		totalItems += entries[i].Quantity
	}

	return gin.H{
		"items":       items,
		"subtotal":    subtotal.InexactFloat64(),
		"total_items": totalItems,
	}
}

// GetCart returns the owner's current cart.
func (cc *CartController) GetCart(c *gin.Context) {
	owner := cartOwner(c)
	utils.RespondJSON(c, http.StatusOK, cartProjection(cc.DB, owner, utils.Language(c)))
}

// AddToCart adds a menu item; a second add of the same item increments
// the existing entry instead of creating a duplicate row.
func (cc *CartController) AddToCart(c *gin.Context) {
	var req struct {
		MenuItemID uint   `json:"menu_item_id" binding:"required"`
		Quantity   int    `json:"quantity" binding:"required"`
		Notes      string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Quantity <= 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("Quantity must be greater than 0"))
		return
	}

	var item models.MenuItem
	if err := cc.DB.First(&item, req.MenuItemID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("Menu item not found"))
		return
	}
	if !item.IsAvailable {
		utils.RespondError(c, http.StatusBadRequest, errors.New("Menu item is not available"))
		return
	}

	owner := cartOwner(c)
	notes := strings.TrimSpace(req.Notes)

	err := cc.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.Cart
		err := tx.Scopes(owner.Scope()).Where("menu_item_id = ?", req.MenuItemID).First(&existing).Error
		if err == nil {
			existing.Quantity += req.Quantity
			if notes != "" {
				existing.Notes = notes
			}
			return tx.Save(&existing).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		entry := models.Cart{
			MenuItemID: req.MenuItemID,
			Quantity:   req.Quantity,
			Notes:      notes,
		}
		owner.Stamp(&entry)
		return tx.Create(&entry).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, cartProjection(cc.DB, owner, utils.Language(c)))
}

// UpdateCartItem changes quantity (and optionally notes) on one entry.
func (cc *CartController) UpdateCartItem(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("item_id"))

	var req struct {
		Quantity *int   `json:"quantity"`
		Notes    string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Quantity == nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("Quantity required"))
		return
	}
	if *req.Quantity <= 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("Quantity must be greater than 0"))
		return
	}

	var entry models.Cart
	if err := cc.DB.First(&entry, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("Cart item not found"))
		return
	}

	owner := cartOwner(c)
	if !owner.Owns(&entry) {
		utils.RespondError(c, http.StatusForbidden, errors.New("Access denied"))
		return
	}

	entry.Quantity = *req.Quantity
	if notes := strings.TrimSpace(req.Notes); notes != "" {
		entry.Notes = notes
	}
	if err := cc.DB.Save(&entry).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, cartProjection(cc.DB, owner, utils.Language(c)))
}

// RemoveCartItem deletes one entry after an ownership check.
func (cc *CartController) RemoveCartItem(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("item_id"))

	var entry models.Cart
	if err := cc.DB.First(&entry, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("Cart item not found"))
		return
	}

	owner := cartOwner(c)
	if !owner.Owns(&entry) {
		utils.RespondError(c, http.StatusForbidden, errors.New("Access denied"))
		return
	}

	if err := cc.DB.Delete(&entry).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, cartProjection(cc.DB, owner, utils.Language(c)))
}

// ClearCart removes every entry for the owner.
func (cc *CartController) ClearCart(c *gin.Context) {
	owner := cartOwner(c)

	if err := cc.DB.Scopes(owner.Scope()).Delete(&models.Cart{}).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, gin.H{
		"items":       []models.CartItemView{},
		"subtotal":    0,
		"total_items": 0,
	})
}

// MergeCart folds the guest-session cart into the logged-in user's cart.
// Called once after login; the guest cookie is cleared afterwards so a
// second call cannot double quantities.
func (cc *CartController) MergeCart(c *gin.Context) {
	userID := middlewares.CurrentUserID(c)
	sessionID := middlewares.CartSessionID(c)
	userOwner := models.UserOwner(userID)

	var guestEntries []models.Cart
	cc.DB.Where("session_id = ?", sessionID).Find(&guestEntries)

	if len(guestEntries) > 0 {
		err := cc.DB.Transaction(func(tx *gorm.DB) error {
			for i := range guestEntries {
				guest := &guestEntries[i]

				var existing models.Cart
				err := tx.Where("user_id = ? AND menu_item_id = ?", userID, guest.MenuItemID).First(&existing).Error
				if err == nil {
					existing.Quantity += guest.Quantity
					if guest.Notes != "" && existing.Notes == "" {
						existing.Notes = guest.Notes
					}
					if err := tx.Save(&existing).Error; err != nil {
						return err
					}
					if err := tx.Delete(guest).Error; err != nil {
						return err
					}
					continue
				}
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					return err
				}

				// Re-own the guest entry.
				userOwner.Stamp(guest)
				if err := tx.Save(guest).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	}

	middlewares.ClearCartSession(c)
	utils.RespondJSON(c, http.StatusOK, cartProjection(cc.DB, userOwner, utils.Language(c)))
}
