package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Manav-Sonawane/reclaim-backend/controllers"
	"github.com/Manav-Sonawane/reclaim-backend/middlewares"
)

// ClaimRoutes sets up the claim lifecycle routes
func ClaimRoutes(r *gin.Engine) {
	claim := r.Group("/api/claims", middlewares.AuthMiddleware())
	{
		claim.POST("", controllers.CreateClaim)
		claim.GET("", controllers.GetClaims)
		claim.GET("/user/me", controllers.GetMyClaims)
		claim.GET("/item/:itemId", controllers.GetClaimsByItem)
		claim.PUT("/:id", controllers.UpdateClaimStatus)
		claim.PUT("/:id/resolve", controllers.ResolveClaim)
		claim.PUT("/:id/message", controllers.UpdateClaimMessage)
		claim.DELETE("/:id", controllers.DeleteClaim)
	}
}
