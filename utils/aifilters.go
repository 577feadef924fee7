package utils

import (
	"encoding/json"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/Manav-Sonawane/reclaim-backend/models"
)

// AIFilters is the structure the language model is asked to extract from a
// free-text search query.
type AIFilters struct {
	Search   string `json:"search"`
	Type     string `json:"type"`
	Category string `json:"category"`
	Location string `json:"location"`
	City     string `json:"city"`
}

// ParseAIFilters parses the model's JSON output, stripping markdown fences.
// Any parse failure (or an empty extraction) falls back to using the whole
// query as a free-text search term.
func ParseAIFilters(raw, query string) AIFilters {
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	var filters AIFilters
	if err := json.Unmarshal([]byte(cleaned), &filters); err != nil {
		return AIFilters{Search: query}
	}
	if filters == (AIFilters{}) {
		return AIFilters{Search: query}
	}
	return filters
}

// BuildAIQuery turns extracted filters into the same open-item filter the
// REST search uses. Unknown types and categories are ignored rather than
// rejected, since the extraction is best-effort.
func BuildAIQuery(filters AIFilters) bson.M {
	query := bson.M{"status": models.StatusOpen}

	if filters.Search != "" {
		query["$or"] = []bson.M{
			{"title": bson.M{"$regex": filters.Search, "$options": "i"}},
			{"description": bson.M{"$regex": filters.Search, "$options": "i"}},
		}
	}
	if filters.Type == string(models.TypeLost) || filters.Type == string(models.TypeFound) {
		query["type"] = filters.Type
	}
	if models.ValidCategories[filters.Category] {
		query["category"] = filters.Category
	}
	if filters.City != "" {
		query["location.city"] = bson.M{"$regex": filters.City, "$options": "i"}
	} else if filters.Location != "" {
		query["location.address"] = bson.M{"$regex": filters.Location, "$options": "i"}
	}

	return query
}
