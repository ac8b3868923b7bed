package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartItem is one cart line. A user has at most one line per product;
// duplicate adds merge into the existing line.
type CartItem struct {
	gorm.Model
	UserID    uint            `json:"userId" gorm:"uniqueIndex:idx_cart_user_product;not null"`
	ProductID uint            `json:"productId" gorm:"uniqueIndex:idx_cart_user_product;not null"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(10,2)"`
	Product   Product         `json:"product"`
}

type AddToCartData struct {
	ProductID uint `json:"productId" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,gt=0"`
}

type UpdateCartItemData struct {
	Quantity int `json:"quantity" binding:"required,gt=0"`
}
