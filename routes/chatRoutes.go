package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Manav-Sonawane/reclaim-backend/controllers"
	"github.com/Manav-Sonawane/reclaim-backend/middlewares"
)

// ChatRoutes sets up the chat routes
func ChatRoutes(r *gin.Engine) {
	chat := r.Group("/api/chats", middlewares.AuthMiddleware())
	{
		chat.POST("", controllers.CreateOrGetChat)
		chat.GET("", controllers.GetMyChats)
		chat.GET("/unread", controllers.GetUnreadCount)
		chat.GET("/:id", controllers.GetChatByID)
		chat.PUT("/:id/read", controllers.MarkChatRead)
	}
}
