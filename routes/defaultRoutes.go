package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/nexcart/nexcart-api/controllers"
)

func DefaultRoutes(server *gin.Engine) {
	server.GET("/", controllers.GetHome)
	server.GET("/health", controllers.GetHealth)
}
