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

	"github.com/Manav-Sonawane/reclaim-backend/config"
	"github.com/Manav-Sonawane/reclaim-backend/models"
)

var claimCollection *mongo.Collection = config.GetCollection("claims")

// CreateClaim opens an ownership assertion against an item. The unique
// (item, claimant) index makes a duplicate attempt a conflict instead of a
// second record.
func CreateClaim(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	claimantID, err := primitive.ObjectIDFromHex(userID.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var input struct {
		ItemID  string `json:"itemId" binding:"required"`
		Message string `json:"message" binding:"max=1000"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	itemID, err := primitive.ObjectIDFromHex(input.ItemID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var item models.Item
	err = itemCollection.FindOne(ctx, bson.M{"_id": itemID}).Decode(&item)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve item"})
		}
		return
	}

	if item.Status != models.StatusOpen && item.Status != models.StatusMatched {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Item is no longer open for claims"})
		return
	}

	claim := models.Claim{
		ID:        primitive.NewObjectID(),
		Item:      itemID,
		Claimant:  claimantID,
		Status:    models.ClaimPending,
		Message:   input.Message,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	_, err = claimCollection.InsertOne(ctx, claim)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "You have already claimed this item"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create claim"})
		return
	}

	c.JSON(http.StatusCreated, claim)
}

// GetClaims lists claims for review. Admins see everything; everyone else
// sees claims targeting items they own.
func GetClaims(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	userObjID, err := primitive.ObjectIDFromHex(userID.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if !isAdminRequest(ctx, userObjID) {
		cursor, err := itemCollection.Find(ctx, bson.M{"user": userObjID},
			options.Find().SetProjection(bson.M{"_id": 1}))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve claims"})
			return
		}
		var owned []struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cursor.All(ctx, &owned); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve claims"})
			return
		}
		itemIDs := make([]primitive.ObjectID, 0, len(owned))
		for _, o := range owned {
			itemIDs = append(itemIDs, o.ID)
		}
		filter["item"] = bson.M{"$in": itemIDs}
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := claimCollection.Find(ctx, filter, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve claims"})
		return
	}
	defer cursor.Close(ctx)

	var claims []models.Claim
	if err := cursor.All(ctx, &claims); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode claims"})
		return
	}

	c.JSON(http.StatusOK, claims)
}

// GetMyClaims lists the authenticated user's own claims
func GetMyClaims(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	claimantID, err := primitive.ObjectIDFromHex(userID.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := claimCollection.Find(ctx, bson.M{"claimant": claimantID}, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve claims"})
		return
	}
	defer cursor.Close(ctx)

	var claims []models.Claim
	if err := cursor.All(ctx, &claims); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode claims"})
		return
	}

	c.JSON(http.StatusOK, claims)
}

// GetClaimsByItem lists claims on an item, visible to the item owner or an
// admin.
func GetClaimsByItem(c *gin.Context) {
	itemID, err := primitive.ObjectIDFromHex(c.Param("itemId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	userObjID, err := primitive.ObjectIDFromHex(userID.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var item models.Item
	err = itemCollection.FindOne(ctx, bson.M{"_id": itemID}).Decode(&item)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve item"})
		}
		return
	}

	if item.User != userObjID && !isAdminRequest(ctx, userObjID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to view these claims"})
		return
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := claimCollection.Find(ctx, bson.M{"item": itemID}, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve claims"})
		return
	}
	defer cursor.Close(ctx)

	var claims []models.Claim
	if err := cursor.All(ctx, &claims); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode claims"})
		return
	}

	c.JSON(http.StatusOK, claims)
}

// UpdateClaimStatus moves a pending claim to approved or rejected. Only the
// target item's owner or an admin may review. Approval cascades the item to
// claimed; re-applying that cascade is a no-op.
func UpdateClaimStatus(c *gin.Context) {
	claimID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid claim ID"})
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	userObjID, err := primitive.ObjectIDFromHex(userID.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var input struct {
		Status   string `json:"status" binding:"required,oneof=approved rejected"`
		Response string `json:"response" binding:"max=1000"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var claim models.Claim
	err = claimCollection.FindOne(ctx, bson.M{"_id": claimID}).Decode(&claim)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Claim not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve claim"})
		}
		return
	}

	var item models.Item
	err = itemCollection.FindOne(ctx, bson.M{"_id": claim.Item}).Decode(&item)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve item"})
		}
		return
	}

	if item.User != userObjID && !isAdminRequest(ctx, userObjID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to review this claim"})
		return
	}

	newStatus := models.ClaimStatus(input.Status)
	if !claim.CanTransition(newStatus) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only pending claims can be reviewed"})
		return
	}

	now := time.Now()
	update := bson.M{
		"status":     newStatus,
		"resolvedAt": now,
		"updatedAt":  now,
	}
	if input.Response != "" {
		update["response"] = input.Response
	}

	_, err = claimCollection.UpdateOne(ctx, bson.M{"_id": claimID}, bson.M{"$set": update})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update claim"})
		return
	}

	// Approval advances the item to claimed; setting claimed on an
	// already-claimed item is a no-op.
	if newStatus == models.ClaimApproved && models.CanTransitionStatus(item.Status, models.StatusClaimed) {
		_, err = itemCollection.UpdateOne(ctx, bson.M{"_id": item.ID}, bson.M{"$set": bson.M{
			"status":    models.StatusClaimed,
			"updatedAt": now,
		}})
		if err != nil {
			config.Log.Errorw("Failed to cascade item status on claim approval",
				"claim", claimID.Hex(), "item", item.ID.Hex(), "error", err)
		}
	}

	claim.Status = newStatus
	claim.Response = input.Response
	claim.ResolvedAt = &now
	claim.UpdatedAt = now
	c.JSON(http.StatusOK, claim)
}

// ResolveClaim closes out an approved claim: the claim moves to completed
// and the item to retrieved.
func ResolveClaim(c *gin.Context) {
	claimID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid claim ID"})
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	userObjID, err := primitive.ObjectIDFromHex(userID.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var claim models.Claim
	err = claimCollection.FindOne(ctx, bson.M{"_id": claimID}).Decode(&claim)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Claim not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve claim"})
		}
		return
	}

	var item models.Item
	err = itemCollection.FindOne(ctx, bson.M{"_id": claim.Item}).Decode(&item)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve item"})
		}
		return
	}

	if item.User != userObjID && !isAdminRequest(ctx, userObjID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to resolve this claim"})
		return
	}

	if !claim.CanTransition(models.ClaimCompleted) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only approved claims can be resolved"})
		return
	}

	now := time.Now()
	_, err = claimCollection.UpdateOne(ctx, bson.M{"_id": claimID}, bson.M{"$set": bson.M{
		"status":    models.ClaimCompleted,
		"updatedAt": now,
	}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update claim"})
		return
	}

	if models.CanTransitionStatus(item.Status, models.StatusRetrieved) {
		_, _ = itemCollection.UpdateOne(ctx, bson.M{"_id": item.ID}, bson.M{"$set": bson.M{
			"status":    models.StatusRetrieved,
			"updatedAt": now,
		}})
	}

	c.JSON(http.StatusOK, gin.H{"message": "Claim resolved", "status": models.ClaimCompleted})
}

// UpdateClaimMessage edits the claimant's proof message while the claim is
// still pending.
func UpdateClaimMessage(c *gin.Context) {
	claimID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid claim ID"})
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	userObjID, err := primitive.ObjectIDFromHex(userID.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var input struct {
		Message string `json:"message" binding:"required,max=1000"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var claim models.Claim
	err = claimCollection.FindOne(ctx, bson.M{"_id": claimID}).Decode(&claim)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Claim not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve claim"})
		}
		return
	}

	if claim.Claimant != userObjID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to edit this claim"})
		return
	}

	if !claim.Editable() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only pending claims can be edited"})
		return
	}

	_, err = claimCollection.UpdateOne(ctx, bson.M{"_id": claimID}, bson.M{"$set": bson.M{
		"message":   input.Message,
		"updatedAt": time.Now(),
	}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update claim"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Claim message updated"})
}

// DeleteClaim withdraws a pending claim. Only the claimant may do this.
func DeleteClaim(c *gin.Context) {
	claimID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid claim ID"})
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	userObjID, err := primitive.ObjectIDFromHex(userID.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var claim models.Claim
	err = claimCollection.FindOne(ctx, bson.M{"_id": claimID}).Decode(&claim)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Claim not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve claim"})
		}
		return
	}

	if claim.Claimant != userObjID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to delete this claim"})
		return
	}

	if !claim.Editable() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only pending claims can be deleted"})
		return
	}

	_, err = claimCollection.DeleteOne(ctx, bson.M{"_id": claimID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete claim"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Claim deleted successfully"})
}
