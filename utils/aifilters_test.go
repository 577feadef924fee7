package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/Manav-Sonawane/reclaim-backend/models"
)

func TestParseAIFilters(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		query string
		want  AIFilters
	}{
		{
			name:  "plain json",
			raw:   `{"search":"red wallet","type":"lost","category":"Accessories","city":"Pune"}`,
			query: "I lost a red wallet in Pune",
			want:  AIFilters{Search: "red wallet", Type: "lost", Category: "Accessories", City: "Pune"},
		},
		{
			name:  "markdown fenced json",
			raw:   "```json\n{\"search\":\"iphone\",\"type\":\"found\"}\n```",
			query: "found an iphone",
			want:  AIFilters{Search: "iphone", Type: "found"},
		},
		{
			name:  "garbage falls back to raw query",
			raw:   "sorry, I can't do that",
			query: "blue umbrella",
			want:  AIFilters{Search: "blue umbrella"},
		},
		{
			name:  "empty extraction falls back to raw query",
			raw:   `{}`,
			query: "blue umbrella",
			want:  AIFilters{Search: "blue umbrella"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseAIFilters(tc.raw, tc.query))
		})
	}
}

func TestBuildAIQuery(t *testing.T) {
	query := BuildAIQuery(AIFilters{
		Search:   "wallet",
		Type:     "lost",
		Category: "Accessories",
		City:     "Pune",
	})

	assert.Equal(t, models.StatusOpen, query["status"])
	assert.Equal(t, "lost", query["type"])
	assert.Equal(t, "Accessories", query["category"])
	assert.Equal(t, bson.M{"$regex": "Pune", "$options": "i"}, query["location.city"])

	or, ok := query["$or"].([]bson.M)
	assert.True(t, ok)
	assert.Len(t, or, 2)
}

func TestBuildAIQueryIgnoresInvalidFilters(t *testing.T) {
	query := BuildAIQuery(AIFilters{Type: "stolen", Category: "Spaceships"})

	assert.NotContains(t, query, "type")
	assert.NotContains(t, query, "category")
	assert.NotContains(t, query, "$or")
	assert.Equal(t, models.StatusOpen, query["status"])
}

func TestBuildAIQueryLocationFallback(t *testing.T) {
	query := BuildAIQuery(AIFilters{Location: "Central Park"})

	assert.NotContains(t, query, "location.city")
	assert.Equal(t, bson.M{"$regex": "Central Park", "$options": "i"}, query["location.address"])
}
