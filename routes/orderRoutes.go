package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/nexcart/nexcart-api/controllers"
	"github.com/nexcart/nexcart-api/middlewares"
)

func OrderRoutes(server *gin.Engine) {
	orders := server.Group("/orders", middlewares.RequireAuth())
	{
		orders.POST("", controllers.PlaceOrder)
		orders.GET("", controllers.GetMyOrders)
		orders.GET("/:orderId", controllers.GetOrder)
		orders.PUT("/:orderId/cancel", controllers.CancelOrder)
	}

	admin := server.Group("/orders/admin", middlewares.RequireAuth(), middlewares.RequireAdmin())
	{
		admin.GET("/all", controllers.GetOrders)
		admin.GET("/analytics", controllers.GetOrderAnalytics)
		admin.GET("/recent", controllers.GetRecentOrders)
		admin.PUT("/:orderId/status", controllers.UpdateOrderStatus)
		admin.PUT("/:orderId/payment-status", controllers.UpdatePaymentStatus)
	}
}
