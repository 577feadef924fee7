package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Manav-Sonawane/reclaim-backend/controllers"
	"github.com/Manav-Sonawane/reclaim-backend/middlewares"
)

// AdminRoutes sets up the moderation routes
func AdminRoutes(r *gin.Engine) {
	admin := r.Group("/api/admin", middlewares.AuthMiddleware(), middlewares.RequireAdmin())
	{
		admin.GET("/stats", controllers.GetDashboardStats)
		admin.GET("/users", controllers.GetAllUsers)
		admin.GET("/items", controllers.GetAllItems)
		admin.PUT("/users/:id/role", controllers.UpdateUserRole)
		admin.DELETE("/users/:id", controllers.DeleteUser)
		admin.DELETE("/items/:id", controllers.AdminDeleteItem)
	}
}
