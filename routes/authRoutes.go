package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/nexcart/nexcart-api/controllers"
	"github.com/nexcart/nexcart-api/middlewares"
)

func AuthRoutes(server *gin.Engine) {
	auth := server.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/register/verify-otp", controllers.VerifyRegistrationOtp)
		auth.POST("/register/resend-otp", controllers.ResendRegistrationOtp)
		auth.POST("/login", controllers.Login)
		auth.POST("/send-otp", controllers.SendOtp)
		auth.POST("/verify-otp", controllers.VerifyOtp)
		auth.POST("/send-verification-link", controllers.SendVerificationLink)
		auth.POST("/verify-email/:verificationToken", controllers.VerifyEmail)
		auth.POST("/forgot-password", controllers.SendPasswordResetLink)
		auth.POST("/reset-password/:resetToken", controllers.ResetPassword)
		auth.GET("/profile", middlewares.RequireAuth(), controllers.GetProfile)
		auth.PUT("/profile", middlewares.RequireAuth(), controllers.UpdateProfile)
	}
}
