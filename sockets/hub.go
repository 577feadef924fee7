package sockets

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Manav-Sonawane/reclaim-backend/config"
)

// chatChannelPrefix namespaces the Redis pub/sub channels used for chat
// fan-out. Every instance subscribes to the pattern, so a message published
// by one instance reaches room members connected anywhere.
const chatChannelPrefix = "chat:"

// Hub tracks which websocket clients are in which chat rooms and fans
// published messages out to them. Delivery is at-most-once: a client that is
// offline simply misses the broadcast and reconciles by re-fetching the chat.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}

	redis *redis.Client
}

func NewHub(redisClient *redis.Client) *Hub {
	return &Hub{
		rooms: make(map[string]map[*Client]struct{}),
		redis: redisClient,
	}
}

// Run subscribes to the chat channels and pumps published messages into
// local rooms. Blocks; run it in its own goroutine.
func (h *Hub) Run(ctx context.Context) {
	pubsub := h.redis.PSubscribe(ctx, chatChannelPrefix+"*")
	defer pubsub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-pubsub.Channel():
			if !ok {
				return
			}
			room := strings.TrimPrefix(msg.Channel, chatChannelPrefix)
			h.deliver(room, []byte(msg.Payload))
		}
	}
}

// Publish sends a payload to every member of a room, on every instance.
func (h *Hub) Publish(ctx context.Context, room string, payload []byte) error {
	return h.redis.Publish(ctx, chatChannelPrefix+room, payload).Err()
}

func (h *Hub) deliver(room string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[room] {
		select {
		case client.send <- payload:
		default:
			// Slow consumer; drop the frame rather than block the hub.
		}
	}
}

func (h *Hub) join(room string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]struct{})
	}
	h.rooms[room][client] = struct{}{}
	client.rooms[room] = struct{}{}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for room := range client.rooms {
		delete(h.rooms[room], client)
		if len(h.rooms[room]) == 0 {
			delete(h.rooms, room)
		}
	}
}

// RoomSize reports how many local clients are in a room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// inboundEvent is a client-to-server frame.
type inboundEvent struct {
	Event    string `json:"event"`
	ChatID   string `json:"chatId"`
	SenderID string `json:"senderId,omitempty"`
	Text     string `json:"text,omitempty"`
}

// outboundMessage is the receive_message frame broadcast to a room.
type outboundMessage struct {
	Event     string    `json:"event"`
	ChatID    string    `json:"chatId"`
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

func encodeMessage(chatID, sender, text string, timestamp time.Time) []byte {
	payload, _ := json.Marshal(outboundMessage{
		Event:     "receive_message",
		ChatID:    chatID,
		Sender:    sender,
		Text:      text,
		Timestamp: timestamp,
	})
	return payload
}

func logSocketError(msg string, err error) {
	if config.Log != nil {
		config.Log.Warnw(msg, "error", err)
	}
}
