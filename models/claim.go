package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ClaimStatus enum
type ClaimStatus string

const (
	ClaimPending   ClaimStatus = "pending"
	ClaimApproved  ClaimStatus = "approved"
	ClaimRejected  ClaimStatus = "rejected"
	ClaimCompleted ClaimStatus = "completed"
)

// Claim is an ownership assertion against a found item
type Claim struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Item       primitive.ObjectID `bson:"item" json:"item"`
	Claimant   primitive.ObjectID `bson:"claimant" json:"claimant"`
	Status     ClaimStatus        `bson:"status" json:"status"`
	Message    string             `bson:"message,omitempty" json:"message,omitempty"`
	Response   string             `bson:"response,omitempty" json:"response,omitempty"`
	ResolvedAt *time.Time         `bson:"resolvedAt,omitempty" json:"resolvedAt,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CanTransition reports whether the claim may move to the given status.
// pending -> approved | rejected, approved -> completed.
func (c *Claim) CanTransition(to ClaimStatus) bool {
	switch c.Status {
	case ClaimPending:
		return to == ClaimApproved || to == ClaimRejected
	case ClaimApproved:
		return to == ClaimCompleted
	default:
		return false
	}
}

// Editable reports whether the claimant may still change or withdraw the
// claim. Only pending claims are editable.
func (c *Claim) Editable() bool {
	return c.Status == ClaimPending
}

// EnsureClaimIndex creates a unique compound index for (item, claimant) so
// a duplicate claim surfaces as a write conflict instead of a second record.
func EnsureClaimIndex(collection *mongo.Collection) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "item", Value: 1}, {Key: "claimant", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	_, err := collection.Indexes().CreateOne(ctx, indexModel)
	return err
}
