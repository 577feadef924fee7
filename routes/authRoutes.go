package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Manav-Sonawane/reclaim-backend/controllers"
	"github.com/Manav-Sonawane/reclaim-backend/middlewares"
)

// AuthRoutes sets up the authentication routes
func AuthRoutes(r *gin.Engine) {
	auth := r.Group("/api/auth")
	{
		auth.POST("/register", controllers.RegisterUser)
		auth.POST("/login", controllers.LoginUser)
		auth.POST("/google", controllers.GoogleAuth)
		auth.GET("/me", middlewares.AuthMiddleware(), controllers.GetMe)
		auth.POST("/logout", controllers.LogoutUser)
	}

	users := r.Group("/api/users")
	{
		users.PUT("/profile", middlewares.AuthMiddleware(), controllers.UpdateProfile)
	}
}
