package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/nexcart/nexcart-api/controllers"
	"github.com/nexcart/nexcart-api/middlewares"
)

func ProductRoutes(server *gin.Engine) {
	products := server.Group("/products")
	{
		products.GET("", controllers.GetProducts)
		products.GET("/search", controllers.SearchProducts)
		products.GET("/categories", controllers.GetCategories)
		products.GET("/brands", controllers.GetBrands)
		products.GET("/featured", controllers.GetFeaturedProducts)
		products.GET("/best-sellers", controllers.GetBestSellers)
		products.GET("/latest", controllers.GetLatestProducts)
		products.GET("/:id", controllers.GetProduct)
		products.GET("/:id/related", controllers.GetRelatedProducts)
	}

	admin := server.Group("/products", middlewares.RequireAuth(), middlewares.RequireAdmin())
	{
		admin.POST("", controllers.CreateProduct)
		admin.PUT("/:id", controllers.UpdateProduct)
		admin.DELETE("/:id", controllers.DeleteProduct)
		admin.PATCH("/:id/stock", controllers.UpdateStock)
		admin.POST("/:id/images", controllers.UploadProductImages)
	}
}
