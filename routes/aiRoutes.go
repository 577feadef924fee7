package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Manav-Sonawane/reclaim-backend/controllers"
)

// AIRoutes sets up the natural-language search route
func AIRoutes(r *gin.Engine) {
	ai := r.Group("/api/ai")
	{
		ai.POST("/search", controllers.SearchItemsAI)
	}
}
