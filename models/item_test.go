package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCanTransitionStatus(t *testing.T) {
	tests := []struct {
		name string
		from ItemStatus
		to   ItemStatus
		want bool
	}{
		{"open to matched", StatusOpen, StatusMatched, true},
		{"open to claimed", StatusOpen, StatusClaimed, true},
		{"open to retrieved", StatusOpen, StatusRetrieved, true},
		{"matched to claimed", StatusMatched, StatusClaimed, true},
		{"matched to open", StatusMatched, StatusOpen, false},
		{"claimed to open", StatusClaimed, StatusOpen, false},
		{"claimed to matched", StatusClaimed, StatusMatched, false},
		{"claimed to resolved", StatusClaimed, StatusResolved, false},
		{"resolved to retrieved", StatusResolved, StatusRetrieved, false},
		{"retrieved to claimed", StatusRetrieved, StatusClaimed, false},
		{"same status open", StatusOpen, StatusOpen, true},
		{"same status claimed", StatusClaimed, StatusClaimed, true},
		{"same status retrieved", StatusRetrieved, StatusRetrieved, true},
		{"unknown from", ItemStatus("bogus"), StatusOpen, false},
		{"unknown to", StatusOpen, ItemStatus("bogus"), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanTransitionStatus(tc.from, tc.to))
		})
	}
}

func TestApplyVote(t *testing.T) {
	user := primitive.NewObjectID()
	other := primitive.NewObjectID()

	t.Run("first upvote", func(t *testing.T) {
		up, down, state := ApplyVote(nil, nil, user, VoteUp)
		assert.Equal(t, []primitive.ObjectID{user}, up)
		assert.Empty(t, down)
		assert.Equal(t, "up", state)
	})

	t.Run("repeated upvote clears it", func(t *testing.T) {
		up, down, state := ApplyVote([]primitive.ObjectID{user}, nil, user, VoteUp)
		assert.Empty(t, up)
		assert.Empty(t, down)
		assert.Equal(t, "", state)
	})

	t.Run("downvote switches an upvote", func(t *testing.T) {
		up, down, state := ApplyVote([]primitive.ObjectID{user}, nil, user, VoteDown)
		assert.Empty(t, up)
		assert.Equal(t, []primitive.ObjectID{user}, down)
		assert.Equal(t, "down", state)
	})

	t.Run("upvote switches a downvote", func(t *testing.T) {
		up, down, state := ApplyVote(nil, []primitive.ObjectID{user}, user, VoteUp)
		assert.Equal(t, []primitive.ObjectID{user}, up)
		assert.Empty(t, down)
		assert.Equal(t, "up", state)
	})

	t.Run("other voters untouched", func(t *testing.T) {
		up, down, state := ApplyVote([]primitive.ObjectID{other}, []primitive.ObjectID{user}, user, VoteDown)
		assert.Equal(t, []primitive.ObjectID{other}, up)
		assert.Empty(t, down)
		assert.Equal(t, "", state)
	})
}

func TestApplyVoteMutualExclusion(t *testing.T) {
	user := primitive.NewObjectID()

	up := []primitive.ObjectID{}
	down := []primitive.ObjectID{}
	for _, dir := range []VoteDirection{VoteUp, VoteDown, VoteDown, VoteUp, VoteUp, VoteDown} {
		up, down, _ = ApplyVote(up, down, user, dir)
		assert.False(t, containsID(up, user) && containsID(down, user),
			"user must never appear in both sets")
	}
}

func TestNewGeoPoint(t *testing.T) {
	p := NewGeoPoint(73.8567, 18.5204)

	assert.Equal(t, "Point", p.Type)
	assert.Equal(t, []float64{73.8567, 18.5204}, p.Coordinates, "coordinates are [lng, lat]")
}
