package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Manav-Sonawane/reclaim-backend/controllers"
	"github.com/Manav-Sonawane/reclaim-backend/middlewares"
)

// UploadRoutes sets up the image upload route
func UploadRoutes(r *gin.Engine) {
	upload := r.Group("/api/upload", middlewares.AuthMiddleware())
	{
		upload.POST("", controllers.UploadImage)
	}
}
