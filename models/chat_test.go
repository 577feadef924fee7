package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestPairKeySymmetric(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()

	assert.Equal(t, PairKey(a, b), PairKey(b, a))
	assert.NotEqual(t, PairKey(a, b), PairKey(a, primitive.NewObjectID()))
}

// BSON datetimes carry millisecond precision, so a stored CreatedAt never
// equals the nanosecond wall-clock value that produced it. Anything deciding
// "did this request create the chat" must use the upsert result, not a
// timestamp comparison.
func TestChatTimestampStorageRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 9, 26, 535897932, time.UTC)
	chat := Chat{
		ID:        primitive.NewObjectID(),
		Item:      primitive.NewObjectID(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	raw, err := bson.Marshal(chat)
	require.NoError(t, err)

	var decoded Chat
	require.NoError(t, bson.Unmarshal(raw, &decoded))

	assert.False(t, decoded.CreatedAt.Equal(now),
		"sub-millisecond precision does not survive storage")
	assert.True(t, decoded.CreatedAt.Equal(now.Truncate(time.Millisecond)))
}

func TestHasParticipant(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	chat := Chat{Participants: []primitive.ObjectID{a, b}}

	assert.True(t, chat.HasParticipant(a))
	assert.True(t, chat.HasParticipant(b))
	assert.False(t, chat.HasParticipant(primitive.NewObjectID()))
}
