package kds

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-commands/services"
)

const (
	writeWait = 5 * time.Second
	// sendBuffer is how many messages a screen may fall behind before it is
	// dropped.
	sendBuffer = 32
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type client struct {
	conn         *websocket.Conn
	restaurantID uint
	role         string
	send         chan []byte
	done         chan struct{}
}

// Hub keeps the staff screens connected over websocket and pushes
// committed command events to the screens of the same restaurant.
// A zero restaurant id marks a super admin screen that sees everything.
// Each screen has its own queue and writer goroutine, so Notify never waits
// on a socket.
type Hub struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]*client
	Logger  *logrus.Logger
}

func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]*client),
		Logger:  logger,
	}
}

func (h *Hub) Register(conn *websocket.Conn, restaurantID uint, role string) {
	cl := &client{
		conn:         conn,
		restaurantID: restaurantID,
		role:         role,
		send:         make(chan []byte, sendBuffer),
		done:         make(chan struct{}),
	}
	h.mu.Lock()
	h.clients[conn] = cl
	h.mu.Unlock()

	go h.writePump(cl)
}

func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	cl, ok := h.clients[conn]
	if ok {
		delete(h.clients, conn)
	}
	h.mu.Unlock()
	if ok {
		close(cl.done)
		conn.Close()
	}
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Notify implements services.Notifier. Messages are queued; a screen whose
// queue is full is dropped.
func (h *Hub) Notify(ctx context.Context, ev services.Event) error {
	data, err := json.Marshal(Message{Event: string(ev.Type), Data: ev})
	if err != nil {
		return err
	}

	h.mu.RLock()
	targets := make([]*client, 0, len(h.clients))
	for _, cl := range h.clients {
		if cl.restaurantID != 0 && cl.restaurantID != ev.RestaurantID {
			continue
		}
		targets = append(targets, cl)
	}
	h.mu.RUnlock()

	for _, cl := range targets {
		select {
		case cl.send <- data:
		case <-cl.done:
		default:
			h.warn(cl, nil, "kds: send queue full, dropping client")
			h.Unregister(cl.conn)
		}
	}
	return nil
}

func (h *Hub) writePump(cl *client) {
	for {
		select {
		case data := <-cl.send:
			cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				h.warn(cl, err, "kds: dropping client")
				h.Unregister(cl.conn)
				return
			}
		case <-cl.done:
			return
		}
	}
}

func (h *Hub) warn(cl *client, err error, msg string) {
	if h.Logger == nil {
		return
	}
	entry := h.Logger.WithField("role", cl.role)
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Warn(msg)
}
