package controllers

import (
	"errors"
	"log"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nexcart/nexcart-api/initializers"
	"github.com/nexcart/nexcart-api/middlewares"
	"github.com/nexcart/nexcart-api/models"
	"gorm.io/gorm"
)

// refreshProductRating recomputes a product's average rating and review
// count from its surviving reviews.
func refreshProductRating(db *gorm.DB, productID uint) error {
	var stats struct {
		Avg   float64
		Count int64
	}
	err := db.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("product_id = ?", productID).
		Scan(&stats).Error
	if err != nil {
		return err
	}

	return db.Model(&models.Product{}).
		Where("id = ?", productID).
		Updates(map[string]any{"rating": stats.Avg, "review_count": stats.Count}).Error
}

func CreateReview(ctx *gin.Context) {
	principal, ok := middlewares.CurrentPrincipal(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	var reviewData models.ReviewData
	if err := ctx.ShouldBindJSON(&reviewData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	var product models.Product
	if err := initializers.DB.First(&product, reviewData.ProductID).Error; err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Product not found")
		return
	}

	var existing models.Review
	err := initializers.DB.
		Where("user_id = ? AND product_id = ?", principal.ID, reviewData.ProductID).
		First(&existing).Error
	if err == nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "You have already reviewed this product")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Println("Database error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	review := models.Review{
		UserID:    principal.ID,
		ProductID: reviewData.ProductID,
		Rating:    reviewData.Rating,
		Comment:   reviewData.Comment,
	}
	if result := initializers.DB.Create(&review); result.Error != nil {
		log.Println("Review creation error:", result.Error)
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to create review")
		return
	}

	if err := refreshProductRating(initializers.DB, review.ProductID); err != nil {
		log.Println("Rating refresh error:", err)
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{"review": review})
}

func GetProductReviews(ctx *gin.Context) {
	productId, err := strconv.Atoi(ctx.Param("productId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse productId")
		return
	}

	var product models.Product
	if result := initializers.DB.First(&product, productId); result.Error != nil {
		sendErrorResponse(ctx, http.StatusNotFound, "Product not found")
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "15"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 15
	}
	offset := (page - 1) * limit

	var reviews []models.Review
	result := initializers.DB.
		Where("product_id = ?", productId).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&reviews)
	if result.Error != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, "Unable to fetch reviews")
		return
	}

	var count int64
	initializers.DB.Model(&models.Review{}).Where("product_id = ?", productId).Count(&count)
	totalPages := math.Ceil(float64(count) / float64(limit))

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"reviews": reviews,
		"metadata": gin.H{
			"total":       count,
			"currentPage": page,
			"limit":       limit,
			"hasNextPage": int(totalPages) > page,
		},
	})
}

func GetAverageRating(ctx *gin.Context) {
	productId, err := strconv.Atoi(ctx.Param("productId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse productId")
		return
	}

	var average float64
	initializers.DB.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0)").
		Where("product_id = ?", productId).
		Scan(&average)

	sendJSONResponse(ctx, http.StatusOK, gin.H{"averageRating": average})
}

func GetReviewCount(ctx *gin.Context) {
	productId, err := strconv.Atoi(ctx.Param("productId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse productId")
		return
	}

	var count int64
	initializers.DB.Model(&models.Review{}).Where("product_id = ?", productId).Count(&count)

	sendJSONResponse(ctx, http.StatusOK, gin.H{"count": count})
}

func GetUserReviews(ctx *gin.Context) {
	principal, ok := middlewares.CurrentPrincipal(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	var reviews []models.Review
	result := initializers.DB.
		Where("user_id = ?", principal.ID).
		Order("created_at desc").
		Find(&reviews)
	if result.Error != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, "Unable to fetch reviews")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"reviews": reviews})
}

func findOwnedReview(ctx *gin.Context, userID uint) (models.Review, bool) {
	var review models.Review
	reviewId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse review id")
		return review, false
	}

	if result := initializers.DB.First(&review, reviewId); result.Error != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Review not found")
		return review, false
	}

	if review.UserID != userID {
		sendErrorResponse(ctx, http.StatusBadRequest, "Unauthorized access to review")
		return review, false
	}

	return review, true
}

func UpdateReview(ctx *gin.Context) {
	principal, ok := middlewares.CurrentPrincipal(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	var updateData models.ReviewUpdateData
	if err := ctx.ShouldBindJSON(&updateData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	review, ok := findOwnedReview(ctx, principal.ID)
	if !ok {
		return
	}

	updates := map[string]any{"rating": updateData.Rating, "comment": updateData.Comment}
	if result := initializers.DB.Model(&review).Updates(updates); result.Error != nil {
		log.Println("Review update error:", result.Error)
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to update review")
		return
	}

	if err := refreshProductRating(initializers.DB, review.ProductID); err != nil {
		log.Println("Rating refresh error:", err)
	}

	initializers.DB.First(&review, review.ID)
	sendJSONResponse(ctx, http.StatusOK, gin.H{"review": review})
}

func DeleteReview(ctx *gin.Context) {
	principal, ok := middlewares.CurrentPrincipal(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	review, ok := findOwnedReview(ctx, principal.ID)
	if !ok {
		return
	}

	if result := initializers.DB.Delete(&review); result.Error != nil {
		log.Println("Review delete error:", result.Error)
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to delete review")
		return
	}

	if err := refreshProductRating(initializers.DB, review.ProductID); err != nil {
		log.Println("Rating refresh error:", err)
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Review deleted successfully."})
}
