package sockets

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Manav-Sonawane/reclaim-backend/controllers"
	"github.com/Manav-Sonawane/reclaim-backend/utils"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Cross-origin policy is enforced by the HTTP CORS layer.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client is one websocket connection belonging to an authenticated user.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	userID primitive.ObjectID
	rooms  map[string]struct{}
}

// ServeWS upgrades an HTTP request to a websocket connection. The JWT is
// taken from the "token" query parameter since browsers cannot set headers
// on websocket dials.
func ServeWS(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.Query("token")
		userIDStr, err := utils.ParseToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization token"})
			return
		}
		userID, err := primitive.ObjectIDFromHex(userIDStr)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization token"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logSocketError("Websocket upgrade failed", err)
			return
		}

		client := &Client{
			hub:    hub,
			conn:   conn,
			send:   make(chan []byte, 64),
			userID: userID,
			rooms:  make(map[string]struct{}),
		}

		go client.writePump()
		go client.readPump()
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.remove(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logSocketError("Websocket read failed", err)
			}
			return
		}

		var event inboundEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			c.sendError("invalid message")
			continue
		}

		switch event.Event {
		case "join_room":
			c.handleJoinRoom(event)
		case "send_message":
			c.handleSendMessage(event)
		}
	}
}

// handleJoinRoom admits the connection to a room only if its user is a
// participant of the chat. Broadcasts are otherwise visible to anyone who
// learns a chat id.
func (c *Client) handleJoinRoom(event inboundEvent) {
	chatID, err := primitive.ObjectIDFromHex(event.ChatID)
	if err != nil {
		c.sendError("invalid chatId")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ok, err := controllers.IsChatParticipant(ctx, chatID, c.userID)
	if err != nil {
		logSocketError("Room membership check failed", err)
		c.sendError("Failed to join room")
		return
	}
	if !ok {
		c.sendError("You are not a participant of this chat")
		return
	}

	c.hub.join(event.ChatID, c)
}

// handleSendMessage persists the message and only then broadcasts it, so a
// live frame never outlives a failed write.
func (c *Client) handleSendMessage(event inboundEvent) {
	if event.ChatID == "" || event.Text == "" {
		c.sendError("chatId and text are required")
		return
	}

	chatID, err := primitive.ObjectIDFromHex(event.ChatID)
	if err != nil {
		c.sendError("invalid chatId")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// The sender is the authenticated connection owner, never a field the
	// client controls.
	message, err := controllers.AppendChatMessage(ctx, chatID, c.userID, event.Text)
	if err != nil {
		logSocketError("Message save failed", err)
		c.sendError("Failed to send message")
		return
	}

	payload := encodeMessage(event.ChatID, c.userID.Hex(), message.Content, message.Timestamp)
	if err := c.hub.Publish(ctx, event.ChatID, payload); err != nil {
		logSocketError("Message broadcast failed", err)
	}
}

func (c *Client) sendError(message string) {
	payload, _ := json.Marshal(gin.H{"event": "error", "message": message})
	select {
	case c.send <- payload:
	default:
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
