package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nexcart/nexcart-api/initializers"
	"github.com/nexcart/nexcart-api/middlewares"
	"github.com/nexcart/nexcart-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func GetCart(ctx *gin.Context) {
	principal, ok := middlewares.CurrentPrincipal(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	var items []models.CartItem
	result := initializers.DB.
		Preload("Product").
		Where("user_id = ?", principal.ID).
		Order("created_at desc").
		Find(&items)
	if result.Error != nil {
		log.Println("Database error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch cart")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"items": items})
}

func AddToCart(ctx *gin.Context) {
	principal, ok := middlewares.CurrentPrincipal(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	var addData models.AddToCartData
	if err := ctx.ShouldBindJSON(&addData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	var product models.Product
	if err := initializers.DB.First(&product, addData.ProductID).Error; err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Product not found")
		return
	}

	var existingItem models.CartItem
	err := initializers.DB.
		Where("user_id = ? AND product_id = ?", principal.ID, addData.ProductID).
		First(&existingItem).Error

	if err == nil {
		// Duplicate add: merge into the existing line.
		existingItem.Quantity += addData.Quantity
		if err := initializers.DB.Save(&existingItem).Error; err != nil {
			log.Println("Update error:", err)
			sendErrorResponse(ctx, http.StatusBadRequest, "Unable to update cart item quantity.")
			return
		}

		sendJSONResponse(ctx, http.StatusOK, gin.H{
			"message": "Cart item quantity updated",
			"item":    existingItem,
		})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Println("Database error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Unable to fetch cart item")
		return
	}

	cartItem := models.CartItem{
		UserID:    principal.ID,
		ProductID: addData.ProductID,
		Quantity:  addData.Quantity,
		Price:     product.Price,
	}
	if err := initializers.DB.Create(&cartItem).Error; err != nil {
		log.Println("Create error:", err)
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to create cart item")
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{
		"message": product.Name + " added to cart",
		"item":    cartItem,
	})
}

func findOwnedCartItem(ctx *gin.Context, userID uint) (models.CartItem, bool) {
	var cartItem models.CartItem
	itemId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse cart item id")
		return cartItem, false
	}

	if result := initializers.DB.First(&cartItem, itemId); result.Error != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Cart item not found")
		return cartItem, false
	}

	if cartItem.UserID != userID {
		sendErrorResponse(ctx, http.StatusBadRequest, "Unauthorized access to cart item")
		return cartItem, false
	}

	return cartItem, true
}

func UpdateCartItem(ctx *gin.Context) {
	principal, ok := middlewares.CurrentPrincipal(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	var updateData models.UpdateCartItemData
	if err := ctx.ShouldBindJSON(&updateData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	cartItem, ok := findOwnedCartItem(ctx, principal.ID)
	if !ok {
		return
	}

	if result := initializers.DB.Model(&cartItem).Update("quantity", updateData.Quantity); result.Error != nil {
		log.Println("Update error:", result.Error)
		sendErrorResponse(ctx, http.StatusBadRequest, "Unable to update cart item quantity.")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"item": cartItem})
}

func RemoveFromCart(ctx *gin.Context) {
	principal, ok := middlewares.CurrentPrincipal(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	cartItem, ok := findOwnedCartItem(ctx, principal.ID)
	if !ok {
		return
	}

	if result := initializers.DB.Delete(&cartItem); result.Error != nil {
		log.Println("Delete error:", result.Error)
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to remove cart item")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Cart item removed"})
}

func ClearCart(ctx *gin.Context) {
	principal, ok := middlewares.CurrentPrincipal(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	if result := initializers.DB.Where("user_id = ?", principal.ID).Delete(&models.CartItem{}); result.Error != nil {
		log.Println("Delete error:", result.Error)
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to clear cart")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Cart cleared"})
}

func GetCartItemCount(ctx *gin.Context) {
	principal, ok := middlewares.CurrentPrincipal(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	var count int64
	result := initializers.DB.Model(&models.CartItem{}).
		Where("user_id = ?", principal.ID).
		Count(&count)
	if result.Error != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to count cart items")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"count": count})
}

// GetCartTotal sums the cart at current product prices.
func GetCartTotal(ctx *gin.Context) {
	principal, ok := middlewares.CurrentPrincipal(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	var items []models.CartItem
	result := initializers.DB.
		Preload("Product").
		Where("user_id = ?", principal.ID).
		Find(&items)
	if result.Error != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch cart")
		return
	}

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"total": total})
}
