package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Manav-Sonawane/reclaim-backend/config"
	"github.com/Manav-Sonawane/reclaim-backend/models"
)

// GetItemMatches returns ranked counterpart items for a reference item:
// opposite disposition, same category, still open, and nearby.
func GetItemMatches(c *gin.Context) {
	idParam := c.Param("id")
	itemID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var baseItem models.Item
	err = itemCollection.FindOne(ctx, bson.M{"_id": itemID}).Decode(&baseItem)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve item"})
		}
		return
	}

	candidates, err := fetchCounterparts(ctx, &baseItem, config.App.MatchRadiusKm)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve matches"})
		return
	}

	matches := models.RankMatches(&baseItem, candidates, config.App.MatchLimit)

	c.JSON(http.StatusOK, matches)
}
