package ws

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"technestia/internal/auth"
	"technestia/internal/config"
	"technestia/internal/metrics"
	"technestia/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"
)

type Client struct {
	room   *RoomHub
	conn   *websocket.Conn
	send   chan []byte
	db     *gorm.DB
	userID uint
	uname  string
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type InboundMessage struct {
	Type     string `json:"type"`
	Content  string `json:"content"`
	IsTyping bool   `json:"is_typing"`
}

// Serve upgrades a participant's connection into the room hub. Only current
// (non-left) participants may connect.
func Serve(h *Hub, db *gorm.DB, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		roomIDStr := c.Query("room_id")
		rid64, err := strconv.ParseUint(roomIDStr, 10, 64)
		if err != nil || rid64 == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid room_id"})
			return
		}
		roomID := uint(rid64)
		var room models.ChatRoom
		if err := db.First(&room, roomID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "chat room not found"})
			return
		}

		// Browsers cannot set headers on websocket dials, so the token may
		// also arrive as a query param.
		authz := c.GetHeader("Authorization")
		token := c.Query("token")
		if token == "" && len(authz) > 7 && (authz[:7] == "Bearer " || authz[:7] == "bearer ") {
			token = authz[7:]
		}
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "missing token"})
			return
		}
		claims, err := auth.ParseAccessToken(token, cfg.JWTSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid token"})
			return
		}
		var user models.User
		if err := db.First(&user, claims.UserID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "user not found"})
			return
		}
		var membership int64
		if err := db.Model(&models.ChatParticipant{}).
			Where("chat_room_id = ? AND user_id = ? AND has_left = ?", roomID, user.ID, false).
			Count(&membership).Error; err != nil || membership == 0 {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "not a participant of this chat room"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		rh := h.GetRoom(roomID)
		client := &Client{room: rh, conn: conn, send: make(chan []byte, 256), db: db, userID: user.ID, uname: user.Username}
		rh.register <- client

		go client.writePump()
		client.readPump()
	}
}

func (c *Client) readPump() {
	defer func() {
		c.room.unregister <- c
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(1 << 20) // 1MB
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			break
		}
		var in InboundMessage
		if err := json.Unmarshal(data, &in); err != nil || in.Content == "" && in.Type != "typing" {
			continue
		}
		// typing signal (not persisted)
		if in.Type == "typing" {
			evt := map[string]interface{}{"type": "typing", "chat_room_id": c.room.roomID, "user_id": c.userID, "username": c.uname, "is_typing": in.IsTyping}
			if b, err := json.Marshal(evt); err == nil {
				c.room.broadcast <- b
			}
			continue
		}
		msg := models.ChatMessage{ChatRoomID: c.room.roomID, SenderID: c.userID, Content: in.Content, MessageType: models.MessageText}
		if err := c.db.Create(&msg).Error; err != nil {
			continue
		}
		evt := map[string]interface{}{
			"type": "message",
			"message": map[string]interface{}{
				"id":           msg.ID,
				"chat_room_id": msg.ChatRoomID,
				"sender":       map[string]interface{}{"id": c.userID, "username": c.uname},
				"content":      msg.Content,
				"message_type": msg.MessageType,
				"created_at":   msg.CreatedAt,
			},
		}
		b, _ := json.Marshal(evt)
		metrics.ChatMessagesTotal.Inc()
		c.room.broadcast <- b
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			_, _ = w.Write(message)
			_ = w.Close()
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
