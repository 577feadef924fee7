package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Manav-Sonawane/reclaim-backend/config"
	"github.com/Manav-Sonawane/reclaim-backend/controllers"
	"github.com/Manav-Sonawane/reclaim-backend/middlewares"
)

// ItemRoutes sets up the item, match and comment routes
func ItemRoutes(r *gin.Engine) {
	item := r.Group("/api/items")
	{
		item.POST("",
			middlewares.AuthMiddleware(),
			middlewares.ItemRateLimiter(config.App.ItemDailyLimit),
			controllers.CreateItem)
		item.GET("", controllers.GetItems)
		item.GET("/user/me", middlewares.AuthMiddleware(), controllers.GetMyItems)
		item.GET("/:id", middlewares.OptionalAuth(), controllers.GetItem)
		item.GET("/:id/matches", controllers.GetItemMatches)
		item.PUT("/:id/status", middlewares.AuthMiddleware(), controllers.UpdateItemStatus)
		item.POST("/:id/vote", middlewares.AuthMiddleware(), controllers.HandleVoteOnItem)
		item.DELETE("/:id", middlewares.AuthMiddleware(), controllers.DeleteItem)

		// Comment routes
		item.POST("/:id/comments", middlewares.AuthMiddleware(), controllers.AddComment)
		item.GET("/:id/comments", controllers.GetComments)
	}
}
