package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/nexcart/nexcart-api/controllers"
	"github.com/nexcart/nexcart-api/middlewares"
)

func CartRoutes(server *gin.Engine) {
	cart := server.Group("/cart", middlewares.RequireAuth())
	{
		cart.GET("", controllers.GetCart)
		cart.POST("", controllers.AddToCart)
		cart.GET("/count", controllers.GetCartItemCount)
		cart.GET("/total", controllers.GetCartTotal)
		cart.PUT("/:id", controllers.UpdateCartItem)
		cart.DELETE("/:id", controllers.RemoveFromCart)
		cart.DELETE("", controllers.ClearCart)
	}
}
