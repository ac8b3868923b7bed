package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/nexcart/nexcart-api/controllers"
	"github.com/nexcart/nexcart-api/middlewares"
)

func ReviewRoutes(server *gin.Engine) {
	reviews := server.Group("/reviews")
	{
		reviews.GET("/product/:productId", controllers.GetProductReviews)
		reviews.GET("/product/:productId/average", controllers.GetAverageRating)
		reviews.GET("/product/:productId/count", controllers.GetReviewCount)
	}

	owned := server.Group("/reviews", middlewares.RequireAuth())
	{
		owned.POST("", controllers.CreateReview)
		owned.GET("/user", controllers.GetUserReviews)
		owned.PUT("/:id", controllers.UpdateReview)
		owned.DELETE("/:id", controllers.DeleteReview)
	}
}
