package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/nexcart/nexcart-api/initializers"
	"github.com/nexcart/nexcart-api/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Common error response helper
func respondWithError(ctx *gin.Context, statusCode int, message string, err error) {
	errMsg := ""
	if err != nil {
		errMsg = err.Error()
	}
	ctx.JSON(statusCode, gin.H{
		"message": message,
		"error":   errMsg,
	})
}

// Columns the catalog listing may sort on.
var productSortColumns = map[string]string{
	"name":      "name",
	"price":     "price",
	"rating":    "rating",
	"soldCount": "sold_count",
	"createdAt": "created_at",
}

func CreateProduct(ctx *gin.Context) {
	var product models.Product
	if err := ctx.ShouldBindJSON(&product); err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := initializers.DB.Create(&product).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to create product", err)
		return
	}

	ctx.JSON(http.StatusCreated, product)
}

func GetProducts(ctx *gin.Context) {
	var products []models.Product

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "15"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 15
	}
	offset := (page - 1) * limit

	query := initializers.DB.Model(&models.Product{}).Where("active = ?", true)

	if search := ctx.Query("search"); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", pattern, pattern)
	}
	if category := ctx.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if brand := ctx.Query("brand"); brand != "" {
		query = query.Where("brand = ?", brand)
	}
	if minPrice := ctx.Query("minPrice"); minPrice != "" {
		if min, err := strconv.ParseFloat(minPrice, 64); err == nil {
			query = query.Where("price >= ?", min)
		}
	}
	if maxPrice := ctx.Query("maxPrice"); maxPrice != "" {
		if max, err := strconv.ParseFloat(maxPrice, 64); err == nil {
			query = query.Where("price <= ?", max)
		}
	}

	sortColumn, ok := productSortColumns[ctx.DefaultQuery("sortBy", "name")]
	if !ok {
		sortColumn = "name"
	}
	sortDir := ctx.DefaultQuery("sortDir", "asc")
	if sortDir != "asc" && sortDir != "desc" {
		sortDir = "asc"
	}

	var count int64
	query.Count(&count)

	result := query.Order(sortColumn + " " + sortDir).Limit(limit).Offset(offset).Find(&products)
	if result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch products", result.Error)
		return
	}

	previousPage := page - 1
	nextPage := page + 1
	totalPages := math.Ceil(float64(count) / float64(limit))

	ctx.JSON(http.StatusOK, gin.H{
		"products": products,
		"metadata": gin.H{
			"total":        count,
			"currentPage":  page,
			"limit":        limit,
			"hasPrevPage":  previousPage > 0,
			"hasNextPage":  int(totalPages) > page,
			"previousPage": previousPage,
			"nextPage":     nextPage,
		},
	})
}

func GetProduct(ctx *gin.Context) {
	productId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid product ID", err)
		return
	}

	var product models.Product
	result := initializers.DB.First(&product, productId)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			respondWithError(ctx, http.StatusNotFound, "Product not found", nil)
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "Unable to retrieve product", result.Error)
		}
		return
	}

	ctx.JSON(http.StatusOK, product)
}

func SearchProducts(ctx *gin.Context) {
	searchQuery := ctx.Query("query")
	if searchQuery == "" {
		respondWithError(ctx, http.StatusBadRequest, "Missing search query", nil)
		return
	}

	pattern := "%" + searchQuery + "%"
	var products []models.Product
	result := initializers.DB.
		Where("active = ?", true).
		Where("name LIKE ? OR description LIKE ? OR category LIKE ? OR brand LIKE ?",
			pattern, pattern, pattern, pattern).
		Limit(20).
		Find(&products)
	if result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to search products", result.Error)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"products": products})
}

func GetCategories(ctx *gin.Context) {
	var categories []string
	result := initializers.DB.Model(&models.Product{}).
		Where("active = ? AND category <> ''", true).
		Distinct().
		Pluck("category", &categories)
	if result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch categories", result.Error)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"categories": categories})
}

func GetBrands(ctx *gin.Context) {
	var brands []string
	result := initializers.DB.Model(&models.Product{}).
		Where("active = ? AND brand <> ''", true).
		Distinct().
		Pluck("brand", &brands)
	if result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch brands", result.Error)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"brands": brands})
}

func GetFeaturedProducts(ctx *gin.Context) {
	var products []models.Product
	result := initializers.DB.
		Where("featured = ? AND active = ?", true, true).
		Order("created_at desc").
		Find(&products)
	if result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch featured products", result.Error)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"products": products})
}

func GetBestSellers(ctx *gin.Context) {
	var products []models.Product
	result := initializers.DB.
		Where("active = ?", true).
		Order("sold_count desc").
		Limit(10).
		Find(&products)
	if result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch best sellers", result.Error)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"products": products})
}

func GetLatestProducts(ctx *gin.Context) {
	var products []models.Product
	result := initializers.DB.
		Where("active = ?", true).
		Order("created_at desc").
		Limit(10).
		Find(&products)
	if result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch latest products", result.Error)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"products": products})
}

func GetRelatedProducts(ctx *gin.Context) {
	productId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid product ID", err)
		return
	}

	var product models.Product
	if result := initializers.DB.First(&product, productId); result.Error != nil {
		respondWithError(ctx, http.StatusNotFound, "Product not found", nil)
		return
	}

	var related []models.Product
	result := initializers.DB.
		Where("category = ? AND id <> ? AND active = ?", product.Category, product.ID, true).
		Order("rating desc").
		Limit(4).
		Find(&related)
	if result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch related products", result.Error)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"products": related})
}

func UpdateProduct(ctx *gin.Context) {
	productId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid product ID", err)
		return
	}

	var product models.Product
	if result := initializers.DB.First(&product, productId); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			respondWithError(ctx, http.StatusNotFound, "Product not found", nil)
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "Failed to fetch product", result.Error)
		}
		return
	}

	var productData models.Product
	if err := ctx.ShouldBindJSON(&productData); err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	updates := map[string]any{
		"name":           productData.Name,
		"description":    productData.Description,
		"price":          productData.Price,
		"stock_quantity": productData.StockQuantity,
		"image_url":      productData.ImageURL,
		"category":       productData.Category,
		"brand":          productData.Brand,
		"sku":            productData.SKU,
		"featured":       productData.Featured,
	}
	if productData.Active != nil {
		updates["active"] = *productData.Active
	}
	if result := initializers.DB.Model(&product).Updates(updates); result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to update product", result.Error)
		return
	}

	initializers.DB.First(&product, productId)
	ctx.JSON(http.StatusOK, product)
}

func DeleteProduct(ctx *gin.Context) {
	productId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid product ID", err)
		return
	}

	if result := initializers.DB.Delete(&models.Product{}, productId); result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to delete product", result.Error)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully."})
}

func UpdateStock(ctx *gin.Context) {
	productId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid product ID", err)
		return
	}

	var stockData struct {
		StockQuantity int `json:"stockQuantity" binding:"min=0"`
	}
	if err := ctx.ShouldBindJSON(&stockData); err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var product models.Product
	if result := initializers.DB.First(&product, productId); result.Error != nil {
		respondWithError(ctx, http.StatusNotFound, "Product not found", nil)
		return
	}

	if result := initializers.DB.Model(&product).Update("stock_quantity", stockData.StockQuantity); result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to update stock", result.Error)
		return
	}

	initializers.DB.First(&product, productId)
	ctx.JSON(http.StatusOK, product)
}

// getAWSUploader returns a configured AWS S3 uploader
func getAWSUploader() (*manager.Uploader, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		return nil, fmt.Errorf("error loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg)
	return manager.NewUploader(client), nil
}

func UploadProductImages(ctx *gin.Context) {
	productId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid product ID", err)
		return
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid form data", err)
		return
	}

	files := form.File["images"]
	if len(files) == 0 {
		respondWithError(ctx, http.StatusBadRequest, "No files uploaded", nil)
		return
	}

	var product models.Product
	if err := initializers.DB.First(&product, productId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondWithError(ctx, http.StatusNotFound, "Product not found", nil)
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "Failed to validate product", err)
		}
		return
	}

	uploader, err := getAWSUploader()
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to configure AWS", err)
		return
	}

	bucket := os.Getenv("S3_BUCKET")
	var uploadedUrls []string
	var failedUploads []string

	for _, file := range files {
		f, openErr := file.Open()
		if openErr != nil {
			log.Printf("Error opening file %s: %v", file.Filename, openErr)
			failedUploads = append(failedUploads, file.Filename)
			continue
		}

		// Unique key so concurrent uploads never overwrite each other
		uniqueFilename := fmt.Sprintf("%d-%s-%s", productId, time.Now().Format("20060102150405"), file.Filename)

		result, uploadErr := uploader.Upload(context.TODO(), &s3.PutObjectInput{
			Bucket:      aws.String(bucket),
			Key:         aws.String(uniqueFilename),
			Body:        f,
			ACL:         "public-read",
			ContentType: aws.String(file.Header.Get("Content-Type")),
		})
		f.Close()

		if uploadErr != nil {
			log.Printf("Error uploading file %s: %v", file.Filename, uploadErr)
			failedUploads = append(failedUploads, file.Filename)
			continue
		}

		uploadedUrls = append(uploadedUrls, result.Location)
	}

	if len(uploadedUrls) > 0 {
		var gallery []string
		if len(product.Gallery) > 0 {
			if err := json.Unmarshal(product.Gallery, &gallery); err != nil {
				log.Printf("Error decoding product gallery: %v", err)
				gallery = nil
			}
		}
		gallery = append(gallery, uploadedUrls...)

		encoded, err := json.Marshal(gallery)
		if err == nil {
			if err := initializers.DB.Model(&product).Update("gallery", datatypes.JSON(encoded)).Error; err != nil {
				log.Printf("Error saving product gallery: %v", err)
			}
		}
	}

	response := gin.H{
		"message": "Files processed",
		"urls":    uploadedUrls,
	}
	if len(failedUploads) > 0 {
		response["failed"] = failedUploads
	}

	ctx.JSON(http.StatusOK, response)
}
