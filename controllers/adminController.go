package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Manav-Sonawane/reclaim-backend/models"
)

// GetDashboardStats returns counters for the admin dashboard
func GetDashboardStats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	totalUsers, err := userCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		totalUsers = 0
	}
	totalItems, err := itemCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		totalItems = 0
	}
	lostItems, err := itemCollection.CountDocuments(ctx, bson.M{"type": models.TypeLost})
	if err != nil {
		lostItems = 0
	}
	foundItems, err := itemCollection.CountDocuments(ctx, bson.M{"type": models.TypeFound})
	if err != nil {
		foundItems = 0
	}
	openClaims, err := claimCollection.CountDocuments(ctx, bson.M{"status": models.ClaimPending})
	if err != nil {
		openClaims = 0
	}

	c.JSON(http.StatusOK, gin.H{
		"totalUsers":    totalUsers,
		"totalItems":    totalItems,
		"lostItems":     lostItems,
		"foundItems":    foundItems,
		"pendingClaims": openClaims,
	})
}

// GetAllUsers lists all users, newest first
func GetAllUsers(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetProjection(bson.M{"password": 0})

	cursor, err := userCollection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve users"})
		return
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode users"})
		return
	}

	c.JSON(http.StatusOK, users)
}

// GetAllItems lists every item regardless of status, newest first
func GetAllItems(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := itemCollection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve items"})
		return
	}
	defer cursor.Close(ctx)

	var items []models.Item
	if err := cursor.All(ctx, &items); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode items"})
		return
	}

	c.JSON(http.StatusOK, items)
}

// UpdateUserRole changes a user's role. Only super admins may manage roles,
// and super admin accounts themselves are untouchable.
func UpdateUserRole(c *gin.Context) {
	currentVal, exists := c.Get("current_user")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	current := currentVal.(models.User)
	if current.Role != models.RoleSuperAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only Super Admins can manage roles"})
		return
	}

	targetID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var input struct {
		Role string `json:"role" binding:"required,oneof=user admin"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var target models.User
	err = userCollection.FindOne(ctx, bson.M{"_id": targetID}).Decode(&target)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		}
		return
	}

	if target.Role == models.RoleSuperAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot modify Super Admin"})
		return
	}

	_, err = userCollection.UpdateOne(ctx, bson.M{"_id": targetID}, bson.M{"$set": bson.M{
		"role":      models.UserRole(input.Role),
		"updatedAt": time.Now(),
	}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User role updated"})
}

// DeleteUser removes a user and everything they posted
func DeleteUser(c *gin.Context) {
	targetID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var target models.User
	err = userCollection.FindOne(ctx, bson.M{"_id": targetID}).Decode(&target)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		}
		return
	}

	if target.Role == models.RoleSuperAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot delete Super Admin"})
		return
	}

	_, err = userCollection.DeleteOne(ctx, bson.M{"_id": targetID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}

	_, _ = itemCollection.DeleteMany(ctx, bson.M{"user": targetID})
	_, _ = claimCollection.DeleteMany(ctx, bson.M{"claimant": targetID})
	_, _ = commentCollection.DeleteMany(ctx, bson.M{"user": targetID})

	c.JSON(http.StatusOK, gin.H{"message": "User removed"})
}

// AdminDeleteItem removes any item regardless of owner
func AdminDeleteItem(c *gin.Context) {
	itemID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := itemCollection.DeleteOne(ctx, bson.M{"_id": itemID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}

	_, _ = claimCollection.DeleteMany(ctx, bson.M{"item": itemID})
	_, _ = chatCollection.DeleteMany(ctx, bson.M{"item": itemID})
	_, _ = commentCollection.DeleteMany(ctx, bson.M{"item": itemID})

	c.JSON(http.StatusOK, gin.H{"message": "Item removed"})
}
