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

var chatCollection *mongo.Collection = config.GetCollection("chats")

// CreateOrGetChat finds or creates the chat between the requester and an
// item's owner. The upsert plus the unique (item, pairKey) index make this
// atomic: two racing requests converge on one chat document.
func CreateOrGetChat(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	requesterID, err := primitive.ObjectIDFromHex(userID.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var input struct {
		ItemID string `json:"itemId" binding:"required"`
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

	if item.User == requesterID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot open a chat on your own item"})
		return
	}

	pairKey := models.PairKey(requesterID, item.User)
	now := time.Now()

	filter := bson.M{"item": itemID, "pairKey": pairKey}
	update := bson.M{"$setOnInsert": bson.M{
		"item":         itemID,
		"participants": []primitive.ObjectID{requesterID, item.User},
		"pairKey":      pairKey,
		"messages":     []models.Message{},
		"createdAt":    now,
		"updatedAt":    now,
	}}

	// The upsert result says whether this request created the chat; stored
	// timestamps cannot, since BSON datetimes carry millisecond precision.
	result, err := chatCollection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create chat"})
		return
	}

	var chat models.Chat
	if err := chatCollection.FindOne(ctx, filter).Decode(&chat); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve chat"})
		return
	}

	status := http.StatusOK
	if result.UpsertedCount > 0 {
		status = http.StatusCreated
	}
	c.JSON(status, chat)
}

// GetMyChats lists the user's chats, most recent activity first
func GetMyChats(c *gin.Context) {
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

	findOptions := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	cursor, err := chatCollection.Find(ctx, bson.M{"participants": userObjID}, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve chats"})
		return
	}
	defer cursor.Close(ctx)

	var chats []models.Chat
	if err := cursor.All(ctx, &chats); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode chats"})
		return
	}

	c.JSON(http.StatusOK, chats)
}

// GetChatByID returns a chat's full message history to its participants
func GetChatByID(c *gin.Context) {
	chatID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid chat ID"})
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

	var chat models.Chat
	err = chatCollection.FindOne(ctx, bson.M{"_id": chatID}).Decode(&chat)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Chat not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve chat"})
		}
		return
	}

	if !chat.HasParticipant(userObjID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not a participant of this chat"})
		return
	}

	c.JSON(http.StatusOK, chat)
}

// GetUnreadCount reports whether the user has any unread messages
func GetUnreadCount(c *gin.Context) {
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

	count, err := chatCollection.CountDocuments(ctx, bson.M{
		"participants": userObjID,
		"messages": bson.M{"$elemMatch": bson.M{
			"sender": bson.M{"$ne": userObjID},
			"read":   false,
		}},
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check unread messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"hasUnread": count > 0})
}

// MarkChatRead flags all peer messages in a chat as read
func MarkChatRead(c *gin.Context) {
	chatID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid chat ID"})
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

	var chat models.Chat
	err = chatCollection.FindOne(ctx, bson.M{"_id": chatID}).Decode(&chat)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Chat not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve chat"})
		}
		return
	}

	if !chat.HasParticipant(userObjID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not a participant of this chat"})
		return
	}

	_, err = chatCollection.UpdateOne(ctx,
		bson.M{"_id": chatID},
		bson.M{"$set": bson.M{"messages.$[elem].read": true}},
		options.Update().SetArrayFilters(options.ArrayFilters{
			Filters: []interface{}{bson.M{
				"elem.sender": bson.M{"$ne": userObjID},
				"elem.read":   false,
			}},
		}),
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark messages as read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Messages marked as read"})
}

// IsChatParticipant reports whether the user belongs to the chat. An
// unknown chat id counts as non-membership.
func IsChatParticipant(ctx context.Context, chatID, userID primitive.ObjectID) (bool, error) {
	var chat models.Chat
	if err := chatCollection.FindOne(ctx, bson.M{"_id": chatID}).Decode(&chat); err != nil {
		if err == mongo.ErrNoDocuments {
			return false, nil
		}
		return false, err
	}
	return chat.HasParticipant(userID), nil
}

// AppendChatMessage durably appends a message to a chat on behalf of a
// participant. Used by the real-time hub, which only broadcasts after this
// succeeds.
func AppendChatMessage(ctx context.Context, chatID, senderID primitive.ObjectID, text string) (*models.Message, error) {
	var chat models.Chat
	if err := chatCollection.FindOne(ctx, bson.M{"_id": chatID}).Decode(&chat); err != nil {
		return nil, err
	}
	if !chat.HasParticipant(senderID) {
		return nil, mongo.ErrNoDocuments
	}

	message := models.Message{
		Sender:    senderID,
		Content:   text,
		Timestamp: time.Now(),
		Read:      false,
	}

	_, err := chatCollection.UpdateOne(ctx, bson.M{"_id": chatID}, bson.M{
		"$push": bson.M{"messages": message},
		"$set":  bson.M{"updatedAt": message.Timestamp},
	})
	if err != nil {
		return nil, err
	}
	return &message, nil
}
