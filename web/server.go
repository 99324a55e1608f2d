package web

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"markestedt/clipdeck/config"
	"markestedt/clipdeck/platform"
	"markestedt/clipdeck/slots"
	"markestedt/clipdeck/storage"
)

//go:embed static/*
var staticFiles embed.FS

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// StatusSource reports whether a keyboard operation is awaiting confirmation.
type StatusSource interface {
	InFlight() bool
}

// Server represents the web server
type Server struct {
	db       *storage.DB
	deck     *slots.Deck
	config   *config.Config
	status   StatusSource
	triggers chan<- platform.Trigger
	port     int
	hub      *Hub
	mu       sync.RWMutex
}

// NewServer creates a new web server. Triggers fired from the dashboard are
// delivered on the triggers channel alongside hotkey and MIDI events.
func NewServer(db *storage.DB, deck *slots.Deck, cfg *config.Config, status StatusSource, triggers chan<- platform.Trigger) *Server {
	hub := NewHub()
	go hub.Run()

	return &Server{
		db:       db,
		deck:     deck,
		config:   cfg,
		status:   status,
		triggers: triggers,
		port:     cfg.Web.Port,
		hub:      hub,
	}
}

// Start starts the web server
func (s *Server) Start() error {
	mux := http.NewServeMux()

	// API endpoints
	mux.HandleFunc("/api/config", s.handleConfig)
	mux.HandleFunc("/api/slots", s.handleSlots)
	mux.HandleFunc("/api/stats", s.handleStats)
	mux.HandleFunc("/api/history", s.handleHistory)
	mux.HandleFunc("/api/history/", s.handleHistory)
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/trigger", s.handleTrigger)
	mux.HandleFunc("/ws", s.handleWebSocket)

	// Static files
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return fmt.Errorf("failed to load static files: %w", err)
	}
	mux.Handle("/", http.FileServer(http.FS(staticFS)))

	addr := fmt.Sprintf("localhost:%d", s.port)
	slog.Info("Starting web server", "url", fmt.Sprintf("http://%s", addr))

	return http.ListenAndServe(addr, mux)
}

// GetConfig returns the current configuration (thread-safe)
func (s *Server) GetConfig() *config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// UpdateConfig updates the configuration (thread-safe)
func (s *Server) UpdateConfig(cfg *config.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = cfg
}

// BroadcastStatus broadcasts a status update to all connected clients
func (s *Server) BroadcastStatus(status string) {
	s.hub.BroadcastMessage(Message{
		Type: MessageTypeStatus,
		Data: StatusMessage{Status: status},
	})
}

// BroadcastSlot broadcasts a slot content change to all connected clients
func (s *Server) BroadcastSlot(slot int, content string) {
	s.hub.BroadcastMessage(Message{
		Type: MessageTypeSlot,
		Data: SlotMessage{
			Slot:     slot,
			Preview:  preview(content),
			Occupied: content != "",
		},
	})
}

// BroadcastCapture broadcasts a completed operation to all connected clients
func (s *Server) BroadcastCapture(c *storage.Capture) {
	s.hub.BroadcastMessage(Message{
		Type: MessageTypeCapture,
		Data: CaptureMessage{
			ID:        c.ID,
			Slot:      c.Slot,
			Action:    c.Action,
			Source:    c.Source,
			Success:   c.Success,
			Timestamp: c.Timestamp.Format("2006-01-02T15:04:05Z"),
		},
	})
}

// handleWebSocket handles WebSocket connections
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Failed to upgrade WebSocket connection", "error", err)
		return
	}

	client := newClient(s.hub, conn)
	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}
