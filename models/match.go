package models

import (
	"sort"
	"strings"
)

// Scoring weights for counterpart matching. Category is already guaranteed
// by the candidate filter but still scored, so the weights keep working if
// the filter is ever relaxed.
const (
	ScoreCategory = 2
	ScoreLocality = 2
	ScoreColor    = 1
)

// Match pairs a candidate item with its score against a reference item.
type Match struct {
	Item  Item `json:"item"`
	Score int  `json:"matchScore"`
}

// MatchScore scores a candidate counterpart against the reference item.
func MatchScore(base, candidate *Item) int {
	score := 0

	if candidate.Category == base.Category {
		score += ScoreCategory
	}

	if sameLocality(base, candidate) {
		score += ScoreLocality
	}

	if base.Color != "" && candidate.Color != "" &&
		strings.EqualFold(base.Color, candidate.Color) {
		score += ScoreColor
	}

	return score
}

func sameLocality(a, b *Item) bool {
	if a.Location.City != "" && strings.EqualFold(a.Location.City, b.Location.City) {
		return true
	}
	return a.Location.Address != "" && strings.EqualFold(a.Location.Address, b.Location.Address)
}

// RankMatches scores the candidates, drops zero scores, sorts by score
// descending with ties broken by recency (newest candidate first), and caps
// the result at limit. A limit <= 0 means no cap.
func RankMatches(base *Item, candidates []Item, limit int) []Match {
	matches := make([]Match, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.ID == base.ID {
			continue
		}
		if score := MatchScore(base, &candidate); score > 0 {
			matches = append(matches, Match{Item: candidate, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Item.CreatedAt.After(matches[j].Item.CreatedAt)
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}
