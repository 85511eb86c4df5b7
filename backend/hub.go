package backend

import (
	"encoding/json"
	"net/http"
	"sync"

	"SceneIntelServer/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// eventHub fans stored events out to connected dashboard websockets.
// Clients that fail a write are dropped.
type eventHub struct {
	mu      sync.Mutex
	clients map[string]*websocket.Conn
}

func newEventHub() *eventHub {
	return &eventHub{clients: map[string]*websocket.Conn{}}
}

func (h *eventHub) add(conn *websocket.Conn) string {
	id := uuid.NewString()
	h.mu.Lock()
	h.clients[id] = conn
	h.mu.Unlock()
	return id
}

func (h *eventHub) remove(id string) {
	h.mu.Lock()
	conn, ok := h.clients[id]
	if ok {
		delete(h.clients, id)
	}
	h.mu.Unlock()
	if ok {
		_ = conn.Close()
	}
}

func (h *eventHub) broadcast(event map[string]any) {
	msg, err := json.Marshal(event)
	if err != nil {
		logger.S().Errorf("event marshal failed: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for id, conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			logger.S().Infof("dropping websocket client %s: %v", id, err)
			_ = conn.Close()
			delete(h.clients, id)
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// wsEvents upgrades the connection and pushes every subsequently stored
// event to the client until it disconnects.
func (s *Server) wsEvents(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// upgrade failed, response already written
		return
	}
	id := s.hub.add(conn)

	// the dashboard never sends anything; the read loop only detects close
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				s.hub.remove(id)
				return
			}
		}
	}()
}
