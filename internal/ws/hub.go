package ws

import (
	"encoding/json"
	"sync"
	"sync/atomic"

	"technestia/internal/metrics"
)

// Hub manages per-chat-room sub hubs, created lazily.
type Hub struct {
	mu    sync.RWMutex
	rooms map[uint]*RoomHub
}

func NewHub() *Hub { return &Hub{rooms: make(map[uint]*RoomHub)} }

// GetRoom lazily creates the RoomHub for a chat room.
func (h *Hub) GetRoom(roomID uint) *RoomHub {
	h.mu.RLock()
	room := h.rooms[roomID]
	h.mu.RUnlock()
	if room != nil {
		return room
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	room = h.rooms[roomID]
	if room != nil {
		return room
	}
	room = NewRoomHub(roomID)
	h.rooms[roomID] = room
	go room.run()
	return room
}

func (h *Hub) Online(roomID uint) int {
	h.mu.RLock()
	room := h.rooms[roomID]
	h.mu.RUnlock()
	if room == nil {
		return 0
	}
	return room.Online()
}

// Broadcast pushes a payload to every client connected to the room. A room
// nobody is connected to is skipped; REST polling remains the source of truth.
func (h *Hub) Broadcast(roomID uint, payload []byte) {
	h.mu.RLock()
	room := h.rooms[roomID]
	h.mu.RUnlock()
	if room == nil {
		return
	}
	select {
	case room.broadcast <- payload:
	default:
	}
}

type RoomHub struct {
	roomID     uint
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	online     int32
}

func NewRoomHub(roomID uint) *RoomHub {
	return &RoomHub{
		roomID:     roomID,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
	}
}

func (rh *RoomHub) run() {
	for {
		select {
		case c := <-rh.register:
			rh.clients[c] = true
			atomic.StoreInt32(&rh.online, int32(len(rh.clients)))
			metrics.WsConnections.Inc()
			rh.fanout(rh.presenceEvent("join", c))
		case c := <-rh.unregister:
			if _, ok := rh.clients[c]; ok {
				delete(rh.clients, c)
				close(c.send)
				atomic.StoreInt32(&rh.online, int32(len(rh.clients)))
				metrics.WsConnections.Dec()
				rh.fanout(rh.presenceEvent("leave", c))
			}
		case msg := <-rh.broadcast:
			for c := range rh.clients {
				select {
				case c.send <- msg:
				default:
					close(c.send)
					delete(rh.clients, c)
					metrics.WsConnections.Dec()
				}
			}
		}
	}
}

func (rh *RoomHub) presenceEvent(kind string, c *Client) []byte {
	evt := map[string]interface{}{
		"type":         kind,
		"chat_room_id": rh.roomID,
		"user_id":      c.userID,
		"username":     c.uname,
		"online":       int(atomic.LoadInt32(&rh.online)),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return nil
	}
	return b
}

func (rh *RoomHub) fanout(b []byte) {
	if b == nil {
		return
	}
	for c := range rh.clients {
		select {
		case c.send <- b:
		default:
			close(c.send)
			delete(rh.clients, c)
		}
	}
}

// Online returns the number of connected clients, reused by REST responses.
func (rh *RoomHub) Online() int { return int(atomic.LoadInt32(&rh.online)) }
