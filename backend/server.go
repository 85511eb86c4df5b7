package backend

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"SceneIntelServer/logger"
	"SceneIntelServer/monitor"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Server is the store-and-forward service between the ingest node and the
// dashboard. All state is in-memory and ephemeral by design: the active
// scene, a bounded event log of frame results, and the latest annotated
// JPEG frame. Switching scenes clears events and frame so temporal signals
// never bleed across scenes.
type Server struct {
	mu        sync.RWMutex
	scenes    map[string]SceneInfo
	active    string
	events    []map[string]any
	maxEvents int
	lastFrame []byte

	hub *eventHub
}

// NewServer validates the configuration and builds an empty server.
func NewServer(cfg Config) (*Server, error) {
	cfg = cfg.withDefaults()
	if _, ok := cfg.Scenes[cfg.ActiveScene]; !ok {
		return nil, fmt.Errorf("active scene %q is not in the scene list", cfg.ActiveScene)
	}
	return &Server{
		scenes:    cfg.Scenes,
		active:    cfg.ActiveScene,
		maxEvents: cfg.MaxEvents,
		hub:       newEventHub(),
	}, nil
}

// Routes wires the HTTP surface onto a gin engine.
func (s *Server) Routes() *gin.Engine {
	r := gin.Default()
	r.GET("/scene", s.getScene)
	r.GET("/scenes", s.listScenes)
	r.POST("/scenes/switch", s.switchScene)
	r.POST("/frame", s.receiveFrame)
	r.GET("/events", s.getEvents)
	r.POST("/video", s.uploadVideo)
	r.GET("/video", s.getVideo)
	r.GET("/health", s.health)
	r.GET("/ws/events", s.wsEvents)
	return r
}

// getScene is polled by the ingest node to decide which stream to run.
func (s *Server) getScene(c *gin.Context) {
	s.mu.RLock()
	active := s.active
	s.mu.RUnlock()
	c.JSON(http.StatusOK, gin.H{"scene": active})
}

// listScenes populates the dashboard selector.
func (s *Server) listScenes(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c.JSON(http.StatusOK, gin.H{
		"active": s.active,
		"scenes": s.scenes,
	})
}

type sceneSwitchRequest struct {
	Scene string `json:"scene" binding:"required"`
}

// switchScene changes the active scene and clears events and the stored
// frame to prevent cross-scene bleed.
func (s *Server) switchScene(c *gin.Context) {
	var req sceneSwitchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.scenes[req.Scene]; !ok {
		logger.S().Errorf("scene switch failed, unknown scene: %s", req.Scene)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown scene", "scene": req.Scene})
		return
	}
	if req.Scene == s.active {
		c.JSON(http.StatusOK, gin.H{"status": "noop", "active_scene": s.active})
		return
	}

	s.active = req.Scene
	s.events = nil
	s.lastFrame = nil
	logger.S().Infof("scene switched to %s", s.active)

	c.JSON(http.StatusOK, gin.H{"status": "ok", "active_scene": s.active})
}

// receiveFrame accepts one frame-result payload from the ingest node,
// stamps it and appends it to the bounded event log.
func (s *Server) receiveFrame(c *gin.Context) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if payload == nil {
		// a literal JSON null binds without error
		payload = map[string]any{}
	}

	s.mu.Lock()
	payload["id"] = uuid.NewString()
	payload["received_at"] = float64(time.Now().UnixNano()) / float64(time.Second)
	payload["scene"] = s.active
	s.events = append(s.events, payload)
	if len(s.events) > s.maxEvents {
		s.events = s.events[len(s.events)-s.maxEvents:]
	}
	s.mu.Unlock()

	monitor.EventsTotal.Inc()
	s.hub.broadcast(payload)

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// getEvents serves the newest events first for dashboard polling.
func (s *Server) getEvents(c *gin.Context) {
	limit := 20
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = n
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.events)
	if limit > n {
		limit = n
	}
	out := make([]map[string]any, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, s.events[i])
	}
	c.JSON(http.StatusOK, out)
}

// uploadVideo stores the latest annotated JPEG frame.
func (s *Server) uploadVideo(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.mu.Lock()
	s.lastFrame = body
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// getVideo serves the latest frame for the dashboard <img> tag.
func (s *Server) getVideo(c *gin.Context) {
	s.mu.RLock()
	frame := s.lastFrame
	s.mu.RUnlock()
	if frame == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.Data(http.StatusOK, "image/jpeg", frame)
}

func (s *Server) health(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"active_scene": s.active,
		"events":       len(s.events),
		"has_video":    s.lastFrame != nil,
	})
}
