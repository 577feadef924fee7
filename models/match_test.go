package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testItem(title string, t ItemType, category, city, color string, createdAt time.Time) Item {
	return Item{
		ID:        primitive.NewObjectID(),
		Type:      t,
		Title:     title,
		Category:  category,
		Color:     color,
		Location:  Location{Address: city + " main street", City: city},
		Status:    StatusOpen,
		CreatedAt: createdAt,
	}
}

func TestMatchScore(t *testing.T) {
	now := time.Now()
	base := testItem("lost wallet", TypeLost, "Accessories", "Pune", "Brown", now)

	tests := []struct {
		name      string
		candidate Item
		want      int
	}{
		{
			name:      "category, locality and color",
			candidate: testItem("found wallet", TypeFound, "Accessories", "Pune", "brown", now),
			want:      ScoreCategory + ScoreLocality + ScoreColor,
		},
		{
			name:      "category only",
			candidate: testItem("found wallet", TypeFound, "Accessories", "Mumbai", "Black", now),
			want:      ScoreCategory,
		},
		{
			name:      "locality only",
			candidate: testItem("found phone", TypeFound, "Electronics", "Pune", "", now),
			want:      ScoreLocality,
		},
		{
			name:      "no overlap",
			candidate: testItem("found phone", TypeFound, "Electronics", "Mumbai", "Black", now),
			want:      0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MatchScore(&base, &tc.candidate))
		})
	}
}

func TestMatchScoreColorCaseInsensitive(t *testing.T) {
	base := testItem("lost cat", TypeLost, "Pets", "Pune", "GINGER", time.Now())
	candidate := testItem("found cat", TypeFound, "Pets", "Pune", "ginger", time.Now())

	assert.Equal(t, ScoreCategory+ScoreLocality+ScoreColor, MatchScore(&base, &candidate))
}

func TestMatchScoreReciprocal(t *testing.T) {
	lost := testItem("lost keys", TypeLost, "Keys", "Pune", "Silver", time.Now())
	found := testItem("found keys", TypeFound, "Keys", "Pune", "silver", time.Now())

	assert.Equal(t, MatchScore(&lost, &found), MatchScore(&found, &lost))
}

func TestRankMatchesOrderAndCap(t *testing.T) {
	now := time.Now()
	base := testItem("lost wallet", TypeLost, "Accessories", "Pune", "Brown", now)

	full := testItem("full match", TypeFound, "Accessories", "Pune", "Brown", now.Add(-2*time.Hour))
	older := testItem("older category match", TypeFound, "Accessories", "Mumbai", "", now.Add(-3*time.Hour))
	newer := testItem("newer category match", TypeFound, "Accessories", "Mumbai", "", now.Add(-1*time.Hour))
	noScore := testItem("unrelated", TypeFound, "Electronics", "Delhi", "", now)

	matches := RankMatches(&base, []Item{older, noScore, newer, full}, 0)

	assert.Len(t, matches, 3, "zero-score candidates must be dropped")
	assert.Equal(t, "full match", matches[0].Item.Title)
	assert.Equal(t, "newer category match", matches[1].Item.Title, "ties broken by recency")
	assert.Equal(t, "older category match", matches[2].Item.Title)

	capped := RankMatches(&base, []Item{older, noScore, newer, full}, 2)
	assert.Len(t, capped, 2)
	assert.Equal(t, "full match", capped[0].Item.Title)
}

func TestRankMatchesSkipsSelf(t *testing.T) {
	base := testItem("lost wallet", TypeLost, "Accessories", "Pune", "Brown", time.Now())

	matches := RankMatches(&base, []Item{base}, 0)

	assert.Empty(t, matches)
}

func TestItemTypeOpposite(t *testing.T) {
	assert.Equal(t, TypeFound, TypeLost.Opposite())
	assert.Equal(t, TypeLost, TypeFound.Opposite())
}
