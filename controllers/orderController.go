package controllers

import (
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nexcart/nexcart-api/initializers"
	"github.com/nexcart/nexcart-api/middlewares"
	"github.com/nexcart/nexcart-api/models"
	"github.com/nexcart/nexcart-api/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var errCartEmpty = errors.New("cart is empty")

func generateOrderNumber() string {
	return "ORD-" + initializers.OrderNode.Generate().String()
}

func sendOrderConfirmationEmail(email, orderNumber string) error {
	body := fmt.Sprintf("Your order %s has been placed. Thank you for your purchase!", orderNumber)
	return utils.SendEmail(email, "Order Confirmation", body)
}

// PlaceOrder turns the user's cart into an order. Stock checks, stock
// decrements, order/item inserts and the cart clear all commit or roll
// back together.
func PlaceOrder(ctx *gin.Context) {
	principal, ok := middlewares.CurrentPrincipal(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	var orderData models.PlaceOrderData
	if err := ctx.ShouldBindJSON(&orderData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	var order models.Order
	err := initializers.DB.Transaction(func(tx *gorm.DB) error {
		var cartItems []models.CartItem
		if err := tx.Preload("Product").Where("user_id = ?", principal.ID).Find(&cartItems).Error; err != nil {
			return err
		}
		if len(cartItems) == 0 {
			return errCartEmpty
		}

		totalAmount := decimal.Zero
		var orderItems []models.OrderItem

		for _, cartItem := range cartItems {
			product := cartItem.Product
			if product.StockQuantity < cartItem.Quantity {
				return fmt.Errorf("product %s is out of stock", product.Name)
			}

			// Price is frozen here; later product repricing never
			// touches this line.
			lineTotal := product.Price.Mul(decimal.NewFromInt(int64(cartItem.Quantity)))
			totalAmount = totalAmount.Add(lineTotal)

			orderItems = append(orderItems, models.OrderItem{
				ProductID:  product.ID,
				Name:       product.Name,
				Quantity:   cartItem.Quantity,
				Price:      product.Price,
				TotalPrice: lineTotal,
			})

			result := tx.Model(&models.Product{}).
				Where("id = ?", product.ID).
				Updates(map[string]any{
					"stock_quantity": gorm.Expr("stock_quantity - ?", cartItem.Quantity),
					"sold_count":     gorm.Expr("sold_count + ?", cartItem.Quantity),
				})
			if result.Error != nil {
				return result.Error
			}
		}

		order = models.Order{
			OrderNumber:     generateOrderNumber(),
			UserID:          principal.ID,
			TotalAmount:     totalAmount,
			Status:          models.OrderStatusPending,
			PaymentStatus:   models.PaymentStatusPending,
			ShippingAddress: orderData.ShippingAddress,
			BillingAddress:  orderData.BillingAddress,
			Phone:           orderData.Phone,
			Email:           orderData.Email,
			Notes:           orderData.Notes,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for i := range orderItems {
			orderItems[i].OrderID = order.ID
		}
		if err := tx.Create(&orderItems).Error; err != nil {
			return err
		}

		return tx.Where("user_id = ?", principal.ID).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		log.Println("Order placement error:", err)
		sendErrorResponse(ctx, http.StatusBadRequest, err.Error())
		return
	}

	if err := sendOrderConfirmationEmail(order.Email, order.OrderNumber); err != nil {
		log.Println("Error sending order confirmation email:", err)
	}

	initializers.DB.Preload("OrderItems").First(&order, order.ID)
	sendJSONResponse(ctx, http.StatusCreated, gin.H{"order": order})
}

func GetMyOrders(ctx *gin.Context) {
	principal, ok := middlewares.CurrentPrincipal(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	var orders []models.Order
	result := initializers.DB.
		Preload("OrderItems").
		Where("user_id = ?", principal.ID).
		Order("created_at desc").
		Find(&orders)
	if result.Error != nil {
		log.Println(result.Error)
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to fetch orders.")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"orders": orders})
}

func findOwnedOrder(ctx *gin.Context, userID uint) (models.Order, bool) {
	var order models.Order
	orderId, err := strconv.Atoi(ctx.Param("orderId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse orderId")
		return order, false
	}

	if result := initializers.DB.Preload("OrderItems").First(&order, orderId); result.Error != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Order not found")
		return order, false
	}

	if order.UserID != userID {
		sendErrorResponse(ctx, http.StatusBadRequest, "Unauthorized access to order")
		return order, false
	}

	return order, true
}

func GetOrder(ctx *gin.Context) {
	principal, ok := middlewares.CurrentPrincipal(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	order, ok := findOwnedOrder(ctx, principal.ID)
	if !ok {
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"order": order})
}

// CancelOrder cancels an undelivered order and restores product stock.
func CancelOrder(ctx *gin.Context) {
	principal, ok := middlewares.CurrentPrincipal(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	order, ok := findOwnedOrder(ctx, principal.ID)
	if !ok {
		return
	}

	if order.Status == models.OrderStatusDelivered || order.Status == models.OrderStatusCancelled {
		sendErrorResponse(ctx, http.StatusBadRequest, "Cannot cancel this order")
		return
	}

	err := initializers.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&order).Update("status", models.OrderStatusCancelled).Error; err != nil {
			return err
		}

		for _, item := range order.OrderItems {
			var product models.Product
			if err := tx.First(&product, item.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				return err
			}

			soldCount := product.SoldCount - item.Quantity
			if soldCount < 0 {
				soldCount = 0
			}
			updates := map[string]any{
				"stock_quantity": product.StockQuantity + item.Quantity,
				"sold_count":     soldCount,
			}
			if err := tx.Model(&product).Updates(updates).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Println("Order cancellation error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to cancel order")
		return
	}

	initializers.DB.Preload("OrderItems").First(&order, order.ID)
	sendJSONResponse(ctx, http.StatusOK, gin.H{"order": order})
}

// GetOrders lists all orders for administrators.
func GetOrders(ctx *gin.Context) {
	var orders []models.Order

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "15"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 15
	}
	offset := (page - 1) * limit

	sortOrder := ctx.DefaultQuery("sort", "desc")
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	query := initializers.DB.Preload("OrderItems")
	if search := ctx.Query("search"); search != "" {
		query = query.Where("order_number LIKE ?", "%"+search+"%")
	}

	result := query.Order("created_at " + sortOrder).Limit(limit).Offset(offset).Find(&orders)
	if result.Error != nil {
		log.Println("Database error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Unable to fetch orders")
		return
	}

	var count int64
	countQuery := initializers.DB.Model(&models.Order{})
	if search := ctx.Query("search"); search != "" {
		countQuery = countQuery.Where("order_number LIKE ?", "%"+search+"%")
	}
	countQuery.Count(&count)

	previousPage := page - 1
	nextPage := page + 1
	totalPages := math.Ceil(float64(count) / float64(limit))

	ctx.JSON(http.StatusOK, gin.H{
		"orders": orders,
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

func UpdateOrderStatus(ctx *gin.Context) {
	var statusData struct {
		Status string `json:"status" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&statusData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse request body")
		return
	}

	status := strings.ToUpper(statusData.Status)
	if !models.ValidOrderStatus(status) {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid order status: "+statusData.Status)
		return
	}

	orderId, err := strconv.Atoi(ctx.Param("orderId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse orderId")
		return
	}

	result := initializers.DB.Model(&models.Order{}).Where("id = ?", orderId).Update("status", status)
	if result.Error != nil {
		log.Println(result.Error)
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to update order status")
		return
	}
	if result.RowsAffected == 0 {
		sendErrorResponse(ctx, http.StatusBadRequest, "Order not found")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Order status updated successfully."})
}

func UpdatePaymentStatus(ctx *gin.Context) {
	var statusData struct {
		PaymentStatus string `json:"paymentStatus" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&statusData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse request body")
		return
	}

	status := strings.ToUpper(statusData.PaymentStatus)
	if !models.ValidPaymentStatus(status) {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid payment status: "+statusData.PaymentStatus)
		return
	}

	orderId, err := strconv.Atoi(ctx.Param("orderId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse orderId")
		return
	}

	result := initializers.DB.Model(&models.Order{}).Where("id = ?", orderId).Update("payment_status", status)
	if result.Error != nil {
		log.Println(result.Error)
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to update payment status")
		return
	}
	if result.RowsAffected == 0 {
		sendErrorResponse(ctx, http.StatusBadRequest, "Order not found")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Payment status updated successfully."})
}

func sumOrderTotals(query *gorm.DB) decimal.Decimal {
	var total decimal.Decimal
	query.Select("COALESCE(SUM(total_amount), 0)").Scan(&total)
	return total
}

// GetOrderAnalytics reports order counts and revenue sums overall, for the
// current month, and for the current year.
func GetOrderAnalytics(ctx *gin.Context) {
	now := time.Now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	startOfYear := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())

	var totalOrders, monthlyOrders, yearlyOrders int64
	initializers.DB.Model(&models.Order{}).Count(&totalOrders)
	initializers.DB.Model(&models.Order{}).
		Where("created_at BETWEEN ? AND ?", startOfMonth, now).
		Count(&monthlyOrders)
	initializers.DB.Model(&models.Order{}).
		Where("created_at BETWEEN ? AND ?", startOfYear, now).
		Count(&yearlyOrders)

	totalRevenue := sumOrderTotals(initializers.DB.Model(&models.Order{}))
	monthlyRevenue := sumOrderTotals(initializers.DB.Model(&models.Order{}).
		Where("created_at BETWEEN ? AND ?", startOfMonth, now))
	yearlyRevenue := sumOrderTotals(initializers.DB.Model(&models.Order{}).
		Where("created_at BETWEEN ? AND ?", startOfYear, now))

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"totalOrders":    totalOrders,
		"totalRevenue":   totalRevenue,
		"monthlyOrders":  monthlyOrders,
		"monthlyRevenue": monthlyRevenue,
		"yearlyOrders":   yearlyOrders,
		"yearlyRevenue":  yearlyRevenue,
	})
}

func GetRecentOrders(ctx *gin.Context) {
	var orders []models.Order
	result := initializers.DB.
		Preload("OrderItems").
		Order("created_at desc").
		Limit(10).
		Find(&orders)
	if result.Error != nil {
		log.Println("Database error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Unable to fetch recent orders")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"orders": orders})
}
