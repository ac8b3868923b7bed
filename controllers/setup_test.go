package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/nexcart/nexcart-api/initializers"
	"github.com/nexcart/nexcart-api/middlewares"
	"github.com/nexcart/nexcart-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var testUserSeq int

// setupTestDB opens a per-test in-memory database and points the shared
// connection at it.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Review{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	initializers.DB = db
	if initializers.OrderNode == nil {
		initializers.InitOrderNode()
	}
	os.Setenv("JWT_SECRET", "test-secret")

	return db
}

// newTestRouter wires the same surface the route packages register in
// production, minus the S3 image upload.
func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	server := gin.New()

	auth := server.Group("/auth")
	{
		auth.POST("/register", Register)
		auth.POST("/register/verify-otp", VerifyRegistrationOtp)
		auth.POST("/register/resend-otp", ResendRegistrationOtp)
		auth.POST("/login", Login)
		auth.POST("/send-otp", SendOtp)
		auth.POST("/verify-otp", VerifyOtp)
		auth.POST("/send-verification-link", SendVerificationLink)
		auth.POST("/verify-email/:verificationToken", VerifyEmail)
		auth.POST("/forgot-password", SendPasswordResetLink)
		auth.POST("/reset-password/:resetToken", ResetPassword)
		auth.GET("/profile", middlewares.RequireAuth(), GetProfile)
		auth.PUT("/profile", middlewares.RequireAuth(), UpdateProfile)
	}

	products := server.Group("/products")
	{
		products.GET("", GetProducts)
		products.GET("/search", SearchProducts)
		products.GET("/categories", GetCategories)
		products.GET("/brands", GetBrands)
		products.GET("/featured", GetFeaturedProducts)
		products.GET("/best-sellers", GetBestSellers)
		products.GET("/latest", GetLatestProducts)
		products.GET("/:id", GetProduct)
		products.GET("/:id/related", GetRelatedProducts)
	}

	productAdmin := server.Group("/products", middlewares.RequireAuth(), middlewares.RequireAdmin())
	{
		productAdmin.POST("", CreateProduct)
		productAdmin.PUT("/:id", UpdateProduct)
		productAdmin.DELETE("/:id", DeleteProduct)
		productAdmin.PATCH("/:id/stock", UpdateStock)
	}

	cart := server.Group("/cart", middlewares.RequireAuth())
	{
		cart.GET("", GetCart)
		cart.POST("", AddToCart)
		cart.GET("/count", GetCartItemCount)
		cart.GET("/total", GetCartTotal)
		cart.PUT("/:id", UpdateCartItem)
		cart.DELETE("/:id", RemoveFromCart)
		cart.DELETE("", ClearCart)
	}

	orders := server.Group("/orders", middlewares.RequireAuth())
	{
		orders.POST("", PlaceOrder)
		orders.GET("", GetMyOrders)
		orders.GET("/:orderId", GetOrder)
		orders.PUT("/:orderId/cancel", CancelOrder)
	}

	orderAdmin := server.Group("/orders/admin", middlewares.RequireAuth(), middlewares.RequireAdmin())
	{
		orderAdmin.GET("/all", GetOrders)
		orderAdmin.GET("/analytics", GetOrderAnalytics)
		orderAdmin.GET("/recent", GetRecentOrders)
		orderAdmin.PUT("/:orderId/status", UpdateOrderStatus)
		orderAdmin.PUT("/:orderId/payment-status", UpdatePaymentStatus)
	}

	reviews := server.Group("/reviews")
	{
		reviews.GET("/product/:productId", GetProductReviews)
		reviews.GET("/product/:productId/average", GetAverageRating)
		reviews.GET("/product/:productId/count", GetReviewCount)
	}

	ownedReviews := server.Group("/reviews", middlewares.RequireAuth())
	{
		ownedReviews.POST("", CreateReview)
		ownedReviews.GET("/user", GetUserReviews)
		ownedReviews.PUT("/:id", UpdateReview)
		ownedReviews.DELETE("/:id", DeleteReview)
	}

	return server
}

func createTestUser(t *testing.T, db *gorm.DB, email, role string) (models.User, string) {
	t.Helper()

	hashed, err := hashPassword("password123")
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	testUserSeq++
	user := models.User{
		Email:         email,
		Password:      hashed,
		FirstName:     "Test",
		LastName:      "User",
		Phone:         fmt.Sprintf("25470%07d", testUserSeq),
		Role:          role,
		EmailVerified: true,
	}
	if result := db.Create(&user); result.Error != nil {
		t.Fatalf("Failed to create test user: %v", result.Error)
	}

	token, err := generateJWT(user)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	return user, token
}

func boolPtr(b bool) *bool {
	return &b
}

func createTestProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int) models.Product {
	t.Helper()

	product := models.Product{
		Name:          name,
		Description:   "Test product",
		Price:         decimal.NewFromFloat(price),
		StockQuantity: stock,
		Category:      "Electronics",
		Brand:         "Generic",
		Active:        boolPtr(true),
	}
	if result := db.Create(&product); result.Error != nil {
		t.Fatalf("Failed to create test product: %v", result.Error)
	}

	return product
}

func performRequest(t *testing.T, router *gin.Engine, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response body %q: %v", recorder.Body.String(), err)
	}
	return body
}
