package controllers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Manav-Sonawane/reclaim-backend/config"
	"github.com/Manav-Sonawane/reclaim-backend/models"
	"github.com/Manav-Sonawane/reclaim-backend/utils"
)

var itemCollection *mongo.Collection = config.GetCollection("items")
var userCollection *mongo.Collection = config.GetCollection("users")

// candidateLimit caps how many counterpart documents are pulled from the
// database before in-memory ranking.
const candidateLimit = 50

// CreateItem handles the creation of a new lost/found report
func CreateItem(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	createdByID, err := primitive.ObjectIDFromHex(userID.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var input struct {
		Type        string     `json:"type" binding:"required"`
		Title       string     `json:"title" binding:"required,max=200"`
		Description string     `json:"description" binding:"max=1000"`
		Category    string     `json:"category" binding:"required"`
		Color       string     `json:"color" binding:"max=50"`
		Date        *time.Time `json:"date,omitempty"`
		Images      []string   `json:"images,omitempty"`
		Address     string     `json:"address" binding:"required,max=200"`
		City        string     `json:"city" binding:"max=100"`
		Latitude    *float64   `json:"latitude,omitempty"`
		Longitude   *float64   `json:"longitude,omitempty"`
		Contact     string     `json:"contact" binding:"max=200"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Type != string(models.TypeLost) && input.Type != string(models.TypeFound) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid type"})
		return
	}

	if !models.ValidCategories[input.Category] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
		return
	}

	location := models.Location{
		Address: input.Address,
		City:    input.City,
	}
	if input.Latitude != nil && input.Longitude != nil {
		location.Geo = models.NewGeoPoint(*input.Longitude, *input.Latitude)
	}

	date := time.Now()
	if input.Date != nil {
		date = *input.Date
	}

	images := input.Images
	if images == nil {
		images = []string{}
	}

	item := models.Item{
		ID:          primitive.NewObjectID(),
		Type:        models.ItemType(input.Type),
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Color:       input.Color,
		Date:        date,
		Images:      images,
		Location:    location,
		Status:      models.StatusOpen,
		User:        createdByID,
		Contact:     input.Contact,
		Upvotes:     []primitive.ObjectID{},
		Downvotes:   []primitive.ObjectID{},
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err = itemCollection.InsertOne(ctx, item)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create item"})
		return
	}

	// Notify owners of nearby counterparts without delaying the response.
	go notifyMatchOwners(item)

	c.JSON(http.StatusCreated, item)
}

// GetItems handles retrieving open items with filtering and sorting
func GetItems(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	itemType := c.Query("type")
	category := c.Query("category")
	search := c.Query("search")
	location := c.Query("location")
	box := c.Query("box")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit < 1 || limit > 100 {
		limit = 50
	}

	filter := bson.M{"status": models.StatusOpen}

	if itemType == string(models.TypeLost) || itemType == string(models.TypeFound) {
		filter["type"] = itemType
	}

	if category != "" && category != "all" {
		filter["category"] = category
	}

	if search != "" {
		filter["$or"] = []bson.M{
			{"title": bson.M{"$regex": search, "$options": "i"}},
			{"description": bson.M{"$regex": search, "$options": "i"}},
		}
	}

	if location != "" {
		filter["$and"] = []bson.M{{
			"$or": []bson.M{
				{"location.city": bson.M{"$regex": location, "$options": "i"}},
				{"location.address": bson.M{"$regex": location, "$options": "i"}},
			},
		}}
	}

	// Geo filters: a point with a radius, or a bounding box. $near sorts by
	// distance so the recency sort is skipped in that case.
	nearQuery := false
	if latStr, lngStr := c.Query("lat"), c.Query("lng"); latStr != "" && lngStr != "" {
		lat, latErr := strconv.ParseFloat(latStr, 64)
		lng, lngErr := strconv.ParseFloat(lngStr, 64)
		if latErr != nil || lngErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coordinates"})
			return
		}
		radiusKm, err := strconv.ParseFloat(c.DefaultQuery("radius", "10"), 64)
		if err != nil || radiusKm <= 0 {
			radiusKm = 10
		}
		filter["location.geo"] = bson.M{
			"$near": bson.M{
				"$geometry":    models.NewGeoPoint(lng, lat),
				"$maxDistance": radiusKm * 1000,
			},
		}
		nearQuery = true
	} else if box != "" {
		polygon, err := boxToPolygon(box)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid box, expected minLng,minLat,maxLng,maxLat"})
			return
		}
		filter["location.geo"] = bson.M{
			"$geoWithin": bson.M{"$geometry": polygon},
		}
	}

	findOptions := options.Find().SetLimit(int64(limit))
	if !nearQuery {
		findOptions.SetSort(bson.D{{Key: "createdAt", Value: -1}})
	}

	cursor, err := itemCollection.Find(ctx, filter, findOptions)
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

// boxToPolygon turns "minLng,minLat,maxLng,maxLat" into a closed GeoJSON
// polygon for $geoWithin.
func boxToPolygon(box string) (bson.M, error) {
	parts := strings.Split(box, ",")
	if len(parts) != 4 {
		return nil, strconv.ErrSyntax
	}
	coords := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		coords[i] = v
	}
	minLng, minLat, maxLng, maxLat := coords[0], coords[1], coords[2], coords[3]
	ring := [][]float64{
		{minLng, minLat},
		{maxLng, minLat},
		{maxLng, maxLat},
		{minLng, maxLat},
		{minLng, minLat},
	}
	return bson.M{"type": "Polygon", "coordinates": [][][]float64{ring}}, nil
}

// GetItem retrieves an item by its ID with creator info
func GetItem(c *gin.Context) {
	idParam := c.Param("id")
	itemID, err := primitive.ObjectIDFromHex(idParam)
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

	// Get creator info
	var creator models.User
	createdByMap := map[string]interface{}{
		"id": item.User,
	}
	if err := userCollection.FindOne(ctx, bson.M{"_id": item.User}).Decode(&creator); err == nil {
		createdByMap["name"] = creator.Name
		createdByMap["email"] = creator.Email
	}

	// Current user's vote state, if authenticated
	userVote := ""
	if userIDStr, exists := c.Get("user_id"); exists {
		if currentUserID, err := primitive.ObjectIDFromHex(userIDStr.(string)); err == nil {
			for _, u := range item.Upvotes {
				if u == currentUserID {
					userVote = "up"
				}
			}
			for _, d := range item.Downvotes {
				if d == currentUserID {
					userVote = "down"
				}
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"item":      item,
		"createdBy": createdByMap,
		"upvotes":   len(item.Upvotes),
		"downvotes": len(item.Downvotes),
		"userVote":  userVote,
	})
}

// GetMyItems retrieves all items created by the authenticated user
func GetMyItems(c *gin.Context) {
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

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := itemCollection.Find(ctx, bson.M{"user": userObjID}, findOptions)
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

// UpdateItemStatus advances an item's lifecycle status. Only the owner or an
// admin may do this, and the lifecycle never moves backwards.
func UpdateItemStatus(c *gin.Context) {
	idParam := c.Param("id")
	itemID, err := primitive.ObjectIDFromHex(idParam)
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

	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
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
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to update this item"})
		return
	}

	newStatus := models.ItemStatus(input.Status)
	if !models.CanTransitionStatus(item.Status, newStatus) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status transition"})
		return
	}

	_, err = itemCollection.UpdateOne(ctx, bson.M{"_id": itemID}, bson.M{"$set": bson.M{
		"status":    newStatus,
		"updatedAt": time.Now(),
	}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item status updated", "status": newStatus})
}

// DeleteItem allows the creator of an item (or an admin) to delete it
func DeleteItem(c *gin.Context) {
	idParam := c.Param("id")
	itemID, err := primitive.ObjectIDFromHex(idParam)
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
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to delete this item"})
		return
	}

	_, err = itemCollection.DeleteOne(ctx, bson.M{"_id": itemID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
		return
	}

	// Delete associated claims, chats and comments
	_, _ = claimCollection.DeleteMany(ctx, bson.M{"item": itemID})
	_, _ = chatCollection.DeleteMany(ctx, bson.M{"item": itemID})
	_, _ = commentCollection.DeleteMany(ctx, bson.M{"item": itemID})

	c.JSON(http.StatusOK, gin.H{"message": "Item deleted successfully"})
}

func isAdminRequest(ctx context.Context, userID primitive.ObjectID) bool {
	var user models.User
	if err := userCollection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		return false
	}
	return user.IsAdmin()
}

// HandleVoteOnItem applies a tri-state vote (none/up/down) for the user.
// Voting the same direction again clears it, the other direction switches it.
func HandleVoteOnItem(c *gin.Context) {
	idParam := c.Param("id")
	itemID, err := primitive.ObjectIDFromHex(idParam)
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

	var input struct {
		Direction string `json:"direction" binding:"required,oneof=up down"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
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

	up, down, state := models.ApplyVote(item.Upvotes, item.Downvotes, userObjID, models.VoteDirection(input.Direction))

	_, err = itemCollection.UpdateOne(ctx, bson.M{"_id": itemID}, bson.M{"$set": bson.M{
		"upvotes":   up,
		"downvotes": down,
		"updatedAt": time.Now(),
	}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update vote"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"userVote":  state,
		"upvotes":   len(up),
		"downvotes": len(down),
	})
}

// fetchCounterparts returns open items of the opposite disposition and same
// category near the reference item. With a geo point the locality filter is
// proximity within radiusKm; otherwise it falls back to city equality. A
// reference item with neither yields no candidates.
func fetchCounterparts(ctx context.Context, base *models.Item, radiusKm float64) ([]models.Item, error) {
	filter := bson.M{
		"_id":      bson.M{"$ne": base.ID},
		"type":     base.Type.Opposite(),
		"category": base.Category,
		"status":   models.StatusOpen,
	}

	switch {
	case base.Location.Geo != nil:
		filter["location.geo"] = bson.M{
			"$near": bson.M{
				"$geometry":    base.Location.Geo,
				"$maxDistance": radiusKm * 1000,
			},
		}
	case base.Location.City != "":
		filter["location.city"] = base.Location.City
	case base.Location.Address != "":
		filter["location.address"] = base.Location.Address
	default:
		return nil, nil
	}

	cursor, err := itemCollection.Find(ctx, filter, options.Find().SetLimit(candidateLimit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var candidates []models.Item
	if err := cursor.All(ctx, &candidates); err != nil {
		return nil, err
	}
	return candidates, nil
}

// notifyMatchOwners runs detached after an item is created: it re-runs the
// matching engine with the tighter notification radius and emails each match
// owner. Failures are logged and swallowed; they never reach the creator.
func notifyMatchOwners(item models.Item) {
	defer func() {
		if r := recover(); r != nil {
			config.Log.Errorw("Match notification panicked", "item", item.ID.Hex(), "panic", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	candidates, err := fetchCounterparts(ctx, &item, config.App.NotifyRadiusKm)
	if err != nil {
		config.Log.Errorw("Match notification query failed", "item", item.ID.Hex(), "error", err)
		return
	}

	matches := models.RankMatches(&item, candidates, config.App.MatchLimit)
	for _, match := range matches {
		// The opposite-type filter already excludes the creator's own
		// items, but re-check so a bad document can't self-notify.
		if match.Item.User == item.User {
			continue
		}

		var owner models.User
		if err := userCollection.FindOne(ctx, bson.M{"_id": match.Item.User}).Decode(&owner); err != nil {
			// Owner may have been deleted mid-flight; skip quietly.
			continue
		}
		if owner.Email == "" {
			continue
		}

		subject := "Possible match for your " + string(match.Item.Type) + " item: " + match.Item.Title
		body := "Hi " + owner.Name + ",\n\n" +
			"A new " + string(item.Type) + " item was just posted that looks like a match for \"" +
			match.Item.Title + "\":\n\n" +
			"  " + item.Title + " (" + item.Category + ", " + item.Location.Address + ")\n\n" +
			"Log in to view the posting and start a chat if it is yours.\n"

		if err := utils.SendEmail(owner.Email, subject, body); err != nil {
			config.Log.Warnw("Match notification email failed",
				"item", item.ID.Hex(), "recipient", owner.Email, "error", err)
		}
	}
}
