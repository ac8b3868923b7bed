package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func GetHome(ctx *gin.Context) {
	message := `Welcome to NexCart API ❤️. Enjoy seamless interaction with this API.

The following are the endpoints for this API:

AUTH
- POST "/auth/register" - Start registration and receive an OTP by email
- POST "/auth/register/verify-otp" - Verify registration OTP and create account
- POST "/auth/register/resend-otp" - Resend the registration OTP
- POST "/auth/login" - Access user account
- POST "/auth/send-otp" - Request a login OTP
- POST "/auth/verify-otp" - Verify a login OTP
- POST "/auth/send-verification-link" - Request an email verification link
- POST "/auth/verify-email/:verificationToken" - Verify email address
- POST "/auth/forgot-password" - Request password reset
- POST "/auth/reset-password/:resetToken" - Reset user password
- GET "/auth/profile" - Get own profile
- PUT "/auth/profile" - Update own profile

PRODUCT
- GET "/products" - Get all products with filters and pagination
- GET "/products/:id" - Get product by ID
- GET "/products/search" - Search products
- GET "/products/categories" - List categories
- GET "/products/brands" - List brands
- GET "/products/featured" - Featured products
- GET "/products/best-sellers" - Best selling products
- GET "/products/latest" - Latest products
- GET "/products/:id/related" - Related products

CART
- GET "/cart" - Get own cart
- POST "/cart" - Add product to cart
- PUT "/cart/:id" - Update cart item quantity
- DELETE "/cart/:id" - Remove cart item
- DELETE "/cart" - Clear cart
- GET "/cart/count" - Count cart items
- GET "/cart/total" - Cart total

ORDER
- POST "/orders" - Place an order from the cart
- GET "/orders" - Get own orders
- GET "/orders/:id" - Get order by ID
- PUT "/orders/:id/cancel" - Cancel an order

REVIEW
- POST "/reviews" - Create a product review
- GET "/reviews/product/:productId" - Get reviews for a product
- GET "/reviews/product/:productId/average" - Average rating for a product
- GET "/reviews/product/:productId/count" - Review count for a product
- GET "/reviews/user" - Get own reviews
- PUT "/reviews/:id" - Update own review
- DELETE "/reviews/:id" - Delete own review`

	ctx.JSON(http.StatusOK, gin.H{
		"message": message,
	})
}

func GetHealth(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}
