package models

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Message is a single chat message, embedded in its chat document.
type Message struct {
	Sender    primitive.ObjectID `bson:"sender" json:"sender"`
	Content   string             `bson:"content" json:"content"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
	Read      bool               `bson:"read" json:"read"`
}

// Chat is a conversation scoped to one item and exactly two participants.
// The participant set is fixed at creation.
type Chat struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Item         primitive.ObjectID   `bson:"item" json:"item"`
	Participants []primitive.ObjectID `bson:"participants" json:"participants"`
	PairKey      string               `bson:"pairKey" json:"-"`
	Messages     []Message            `bson:"messages" json:"messages"`
	CreatedAt    time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// HasParticipant reports whether the user belongs to the chat.
func (c *Chat) HasParticipant(user primitive.ObjectID) bool {
	for _, p := range c.Participants {
		if p == user {
			return true
		}
	}
	return false
}

// PairKey builds a deterministic key for a participant pair so the unique
// (item, pairKey) index can enforce one chat per item and pair regardless
// of which side opens it.
func PairKey(a, b primitive.ObjectID) string {
	ids := []string{a.Hex(), b.Hex()}
	sort.Strings(ids)
	return strings.Join(ids, ":")
}

// EnsureChatIndex creates the unique compound index backing the atomic
// find-or-create of chats.
func EnsureChatIndex(collection *mongo.Collection) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "item", Value: 1}, {Key: "pairKey", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	_, err := collection.Indexes().CreateOne(ctx, indexModel)
	return err
}
