package main

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Manav-Sonawane/reclaim-backend/config"
	"github.com/Manav-Sonawane/reclaim-backend/models"
	"github.com/Manav-Sonawane/reclaim-backend/routes"
	"github.com/Manav-Sonawane/reclaim-backend/sockets"
)

func corsOrigins(raw string) []string {
	var origins []string
	for _, part := range strings.Split(raw, ",") {
		if origin := strings.TrimSpace(part); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	return origins
}

func ensureIndexes() {
	if err := models.EnsureUserIndexes(config.GetCollection("users")); err != nil {
		log.Fatalf("Failed to create user indexes: %v", err)
	}
	if err := models.EnsureItemIndexes(config.GetCollection("items")); err != nil {
		log.Fatalf("Failed to create item indexes: %v", err)
	}
	if err := models.EnsureClaimIndex(config.GetCollection("claims")); err != nil {
		log.Fatalf("Failed to create claim index: %v", err)
	}
	if err := models.EnsureChatIndex(config.GetCollection("chats")); err != nil {
		log.Fatalf("Failed to create chat index: %v", err)
	}
}

func main() {
	cfg := config.LoadConfig()
	logger := config.InitLogger(cfg.Environment)
	defer logger.Sync()

	db := config.ConnectDB()
	if db == nil {
		log.Fatal("Failed to connect to MongoDB")
	}
	log.Println("MongoDB connection established successfully!")

	config.ConnectRedis()
	ensureIndexes()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins(cfg.CORSOrigins),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.AuthRoutes(r)
	routes.ItemRoutes(r)
	routes.ClaimRoutes(r)
	routes.ChatRoutes(r)
	routes.AdminRoutes(r)
	routes.AIRoutes(r)
	routes.UploadRoutes(r)

	hub := sockets.NewHub(config.RedisClient)
	go hub.Run(context.Background())
	r.GET("/ws", sockets.ServeWS(hub))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
