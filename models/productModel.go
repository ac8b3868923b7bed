package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Product struct {
	gorm.Model
	Name          string          `json:"name" binding:"required"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	StockQuantity int             `json:"stockQuantity"`
	ImageURL      string          `json:"imageUrl"`
	Gallery       datatypes.JSON  `json:"gallery"`
	Category      string          `json:"category"`
	Brand         string          `json:"brand"`
	SKU           string          `json:"sku"`
	Rating        float64         `json:"rating" gorm:"type:decimal(3,2);default:0"`
	ReviewCount   int             `json:"reviewCount" gorm:"default:0"`
	SoldCount     int             `json:"soldCount" gorm:"default:0"`
	Featured      bool            `json:"featured" gorm:"default:false"`
	// Pointer so an explicit false is not dropped from the INSERT in
	// favor of the column default.
	Active *bool `json:"active" gorm:"default:true"`
}
