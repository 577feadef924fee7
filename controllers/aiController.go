package controllers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	openai "github.com/sashabaranov/go-openai"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Manav-Sonawane/reclaim-backend/config"
	"github.com/Manav-Sonawane/reclaim-backend/models"
	"github.com/Manav-Sonawane/reclaim-backend/utils"
)

const aiSearchLimit = 5

const extractPromptFormat = `You are a search assistant for a "Lost & Found" application.
Analyze the following user query and extract key search filters.

User Query: %q

Return ONLY a valid JSON object with the following fields (all optional, use null if not present):
- search: (string) keywords for title/description matching (e.g. "red wallet", "iphone")
- type: (string) "lost" or "found". If the user says "I lost...", type is "lost". If "I found...", type is "found".
- category: (string) One of: ["Electronics", "Accessories", "Documents", "Clothing", "Keys", "Pets", "Other"].
- location: (string) General location text (e.g. "Central Park").
- city: (string) City name if mentioned.`

func completePrompt(ctx context.Context, client *openai.Client, prompt string) (string, error) {
	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: config.App.OpenAIModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion")
	}
	return resp.Choices[0].Message.Content, nil
}

// SearchItemsAI answers a free-text query: the language model extracts
// structured filters, the filters drive a regular item search, and a second
// completion produces a short summary. Provider failures degrade to a plain
// text search, never to an error for the caller.
func SearchItemsAI(c *gin.Context) {
	var input struct {
		Query string `json:"query" binding:"required,max=500"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query string is required"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var client *openai.Client
	if config.App.OpenAIKey != "" {
		client = openai.NewClient(config.App.OpenAIKey)
	}

	filters := utils.AIFilters{Search: input.Query}
	if client != nil {
		raw, err := completePrompt(ctx, client, fmt.Sprintf(extractPromptFormat, input.Query))
		if err != nil {
			config.Log.Warnw("AI filter extraction failed", "error", err)
		} else {
			filters = utils.ParseAIFilters(raw, input.Query)
		}
	}

	query := utils.BuildAIQuery(filters)

	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(aiSearchLimit)

	cursor, err := itemCollection.Find(ctx, query, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search items"})
		return
	}
	defer cursor.Close(ctx)

	var items []models.Item
	if err := cursor.All(ctx, &items); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode items"})
		return
	}

	summary := summaryFallback(len(items))
	if client != nil {
		titles := make([]string, 0, len(items))
		for _, item := range items {
			titles = append(titles, fmt.Sprintf("%s (%s)", item.Title, item.Location.Address))
		}
		summaryPrompt := fmt.Sprintf(`User Query: %q
Found Items: %s

Write a helpful, friendly, short response summarizing what was found.
If items were found, mention the top 1-2 briefly.
If no items found, suggest expanding the search.
Do not include JSON, just plain text.`, input.Query, strings.Join(titles, "; "))

		if text, err := completePrompt(ctx, client, summaryPrompt); err == nil {
			summary = strings.TrimSpace(text)
		} else {
			config.Log.Warnw("AI summary generation failed", "error", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"filters": filters,
		"items":   items,
		"message": summary,
	})
}

func summaryFallback(count int) string {
	if count == 0 {
		return "No matching items were found. Try broadening your search."
	}
	return fmt.Sprintf("Found %d matching item(s).", count)
}
