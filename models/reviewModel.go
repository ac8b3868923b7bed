package models

import "gorm.io/gorm"

// Review is unique per (user, product); a user reviews a product once.
type Review struct {
	gorm.Model
	UserID    uint   `json:"userId" gorm:"uniqueIndex:idx_review_user_product;not null"`
	ProductID uint   `json:"productId" gorm:"uniqueIndex:idx_review_user_product;not null"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

type ReviewData struct {
	ProductID uint   `json:"productId" binding:"required"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Comment   string `json:"comment"`
}

type ReviewUpdateData struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}
