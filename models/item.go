package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ItemType enum
type ItemType string

const (
	TypeLost  ItemType = "lost"
	TypeFound ItemType = "found"
)

// Opposite returns the counterpart disposition.
func (t ItemType) Opposite() ItemType {
	if t == TypeLost {
		return TypeFound
	}
	return TypeLost
}

// ItemStatus enum
type ItemStatus string

const (
	StatusOpen      ItemStatus = "open"
	StatusMatched   ItemStatus = "matched"
	StatusClaimed   ItemStatus = "claimed"
	StatusResolved  ItemStatus = "resolved"
	StatusRetrieved ItemStatus = "retrieved"
)

// statusRank orders the lifecycle. Transitions must be monotonic: an item
// never moves back toward open, and terminal states never change.
var statusRank = map[ItemStatus]int{
	StatusOpen:      0,
	StatusMatched:   1,
	StatusClaimed:   2,
	StatusResolved:  2,
	StatusRetrieved: 2,
}

// CanTransitionStatus reports whether an item may move from one status to
// another. Setting the same status again is allowed so cascades stay
// idempotent.
func CanTransitionStatus(from, to ItemStatus) bool {
	fromRank, ok := statusRank[from]
	if !ok {
		return false
	}
	toRank, ok := statusRank[to]
	if !ok {
		return false
	}
	if from == to {
		return true
	}
	// Terminal states are frozen.
	if fromRank == 2 {
		return false
	}
	return toRank > fromRank
}

// ValidCategories is the closed category set.
var ValidCategories = map[string]bool{
	"Electronics": true,
	"Accessories": true,
	"Documents":   true,
	"Clothing":    true,
	"Keys":        true,
	"Pets":        true,
	"Other":       true,
}

// GeoPoint is a GeoJSON point, coordinates ordered [longitude, latitude].
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

func NewGeoPoint(lng, lat float64) *GeoPoint {
	return &GeoPoint{Type: "Point", Coordinates: []float64{lng, lat}}
}

type Location struct {
	Address string    `bson:"address" json:"address"`
	City    string    `bson:"city,omitempty" json:"city,omitempty"`
	Geo     *GeoPoint `bson:"geo,omitempty" json:"geo,omitempty"`
}

// Item represents a lost or found report
type Item struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Type        ItemType             `bson:"type" json:"type"`
	Title       string               `bson:"title" json:"title"`
	Description string               `bson:"description,omitempty" json:"description,omitempty"`
	Category    string               `bson:"category" json:"category"`
	Color       string               `bson:"color,omitempty" json:"color,omitempty"`
	Date        time.Time            `bson:"date" json:"date"`
	Images      []string             `bson:"images" json:"images"`
	Location    Location             `bson:"location" json:"location"`
	Status      ItemStatus           `bson:"status" json:"status"`
	User        primitive.ObjectID   `bson:"user" json:"user"`
	Contact     string               `bson:"contact,omitempty" json:"contact,omitempty"`
	Upvotes     []primitive.ObjectID `bson:"upvotes" json:"upvotes"`
	Downvotes   []primitive.ObjectID `bson:"downvotes" json:"downvotes"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// VoteDirection enum
type VoteDirection string

const (
	VoteUp   VoteDirection = "up"
	VoteDown VoteDirection = "down"
)

// ApplyVote computes the item's vote sets after a user casts a vote.
// The relation per user is tri-state (none/up/down): voting the current
// direction again clears it, voting the other direction switches it.
// Returns the new sets and the user's resulting state ("up", "down" or "").
func ApplyVote(upvotes, downvotes []primitive.ObjectID, user primitive.ObjectID, dir VoteDirection) (up, down []primitive.ObjectID, state string) {
	inUp := containsID(upvotes, user)
	inDown := containsID(downvotes, user)

	up = removeID(upvotes, user)
	down = removeID(downvotes, user)

	switch dir {
	case VoteUp:
		if !inUp {
			up = append(up, user)
			state = "up"
		}
	case VoteDown:
		if !inDown {
			down = append(down, user)
			state = "down"
		}
	}
	return up, down, state
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func removeID(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// EnsureItemIndexes creates the 2dsphere index for proximity queries plus
// the common filter index.
func EnsureItemIndexes(collection *mongo.Collection) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "location.geo", Value: "2dsphere"}}},
		{Keys: bson.D{{Key: "type", Value: 1}, {Key: "category", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
