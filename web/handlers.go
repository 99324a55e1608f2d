package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"markestedt/clipdeck/config"
	"markestedt/clipdeck/platform"
	"markestedt/clipdeck/slots"
)

// previewLen caps slot content shown in API responses; full content never
// leaves the machine through the dashboard.
const previewLen = 120

func preview(content string) string {
	if len(content) > previewLen {
		return content[:previewLen] + "…"
	}
	return content
}

// handleConfig handles GET and PUT requests for configuration
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleGetConfig(w, r)
	case http.MethodPut:
		s.handlePutConfig(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleGetConfig returns the current configuration
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg := s.GetConfig()

	response := struct {
		CopyModifiers   string `json:"copyModifiers"`
		PasteModifiers  string `json:"pasteModifiers"`
		MIDIEnabled     bool   `json:"midiEnabled"`
		MIDIPort        string `json:"midiPort"`
		MIDIBaseNote    int    `json:"midiBaseNote"`
		MIDIPasteOffset int    `json:"midiPasteOffset"`
		WebPort         int    `json:"webPort"`
		CleanupInterval int    `json:"cleanupIntervalMs"`
	}{
		CopyModifiers:   cfg.Hotkeys.CopyModifiers,
		PasteModifiers:  cfg.Hotkeys.PasteModifiers,
		MIDIEnabled:     cfg.MIDI.Enabled,
		MIDIPort:        cfg.MIDI.Port,
		MIDIBaseNote:    cfg.MIDI.BaseNote,
		MIDIPasteOffset: cfg.MIDI.PasteOffset,
		WebPort:         cfg.Web.Port,
		CleanupInterval: cfg.Cleanup.IntervalMs,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// handlePutConfig updates the configuration. Hotkey and MIDI changes take
// effect on the next start.
func (s *Server) handlePutConfig(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CopyModifiers   *string `json:"copyModifiers"`
		PasteModifiers  *string `json:"pasteModifiers"`
		MIDIEnabled     *bool   `json:"midiEnabled"`
		MIDIPort        *string `json:"midiPort"`
		MIDIBaseNote    *int    `json:"midiBaseNote"`
		MIDIPasteOffset *int    `json:"midiPasteOffset"`
		WebPort         *int    `json:"webPort"`
		CleanupInterval *int    `json:"cleanupIntervalMs"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	cfg := s.GetConfig()

	if req.CopyModifiers != nil {
		if _, err := config.ParseModifiers(*req.CopyModifiers); err != nil {
			http.Error(w, "Invalid copy modifiers: "+err.Error(), http.StatusBadRequest)
			return
		}
		cfg.Hotkeys.CopyModifiers = *req.CopyModifiers
	}
	if req.PasteModifiers != nil {
		if _, err := config.ParseModifiers(*req.PasteModifiers); err != nil {
			http.Error(w, "Invalid paste modifiers: "+err.Error(), http.StatusBadRequest)
			return
		}
		cfg.Hotkeys.PasteModifiers = *req.PasteModifiers
	}
	if req.MIDIEnabled != nil {
		cfg.MIDI.Enabled = *req.MIDIEnabled
	}
	if req.MIDIPort != nil {
		cfg.MIDI.Port = *req.MIDIPort
	}
	if req.MIDIBaseNote != nil {
		cfg.MIDI.BaseNote = *req.MIDIBaseNote
	}
	if req.MIDIPasteOffset != nil {
		cfg.MIDI.PasteOffset = *req.MIDIPasteOffset
	}
	if req.WebPort != nil {
		cfg.Web.Port = *req.WebPort
	}
	if req.CleanupInterval != nil {
		cfg.Cleanup.IntervalMs = *req.CleanupInterval
	}

	if err := cfg.Save(); err != nil {
		slog.Error("Failed to save config", "error", err)
		http.Error(w, "Failed to save configuration", http.StatusInternalServerError)
		return
	}

	s.UpdateConfig(cfg)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "success"})
}

// handleSlots returns the current contents of all slots
func (s *Server) handleSlots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	all := s.deck.All()

	type slotView struct {
		Slot     int    `json:"slot"`
		Preview  string `json:"preview"`
		Chars    int    `json:"chars"`
		Occupied bool   `json:"occupied"`
	}

	views := make([]slotView, 0, slots.Count)
	for i := 1; i <= slots.Count; i++ {
		content, ok := all[i]
		views = append(views, slotView{
			Slot:     i,
			Preview:  preview(content),
			Chars:    len(content),
			Occupied: ok,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"slots": views})
}

// handleStats returns statistics for the specified time range
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	daysStr := r.URL.Query().Get("days")
	days := 7 // default to 7 days
	if daysStr != "" {
		if d, err := strconv.Atoi(daysStr); err == nil && d > 0 {
			days = d
		}
	}

	overall, err := s.db.GetOverallStats(days)
	if err != nil {
		slog.Error("Failed to get overall stats", "error", err)
		http.Error(w, "Failed to get statistics", http.StatusInternalServerError)
		return
	}

	daily, err := s.db.GetDailyStats(days)
	if err != nil {
		slog.Error("Failed to get daily stats", "error", err)
		http.Error(w, "Failed to get statistics", http.StatusInternalServerError)
		return
	}

	bySlot, err := s.db.GetSlotStats(days)
	if err != nil {
		slog.Error("Failed to get slot stats", "error", err)
		http.Error(w, "Failed to get statistics", http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"overall": overall,
		"daily":   daily,
		"slots":   bySlot,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// handleHistory handles GET and DELETE requests for capture history
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleGetHistory(w, r)
	case http.MethodDelete:
		s.handleDeleteHistory(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleGetHistory returns paginated capture history
func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	limitStr := r.URL.Query().Get("limit")
	offsetStr := r.URL.Query().Get("offset")

	limit := 50 // default
	offset := 0

	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	if offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	captures, err := s.db.GetCaptures(limit, offset)
	if err != nil {
		slog.Error("Failed to get captures", "error", err)
		http.Error(w, "Failed to get history", http.StatusInternalServerError)
		return
	}

	total, err := s.db.GetCaptureCount()
	if err != nil {
		slog.Error("Failed to get capture count", "error", err)
		http.Error(w, "Failed to get history", http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"captures": captures,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// handleDeleteHistory deletes a capture by ID
func (s *Server) handleDeleteHistory(w http.ResponseWriter, r *http.Request) {
	// Extract ID from path (e.g., /api/history/123)
	parts := strings.Split(r.URL.Path, "/")
	if len(parts) < 4 {
		http.Error(w, "Invalid path", http.StatusBadRequest)
		return
	}

	idStr := parts[len(parts)-1]
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	if err := s.db.DeleteCapture(id); err != nil {
		slog.Error("Failed to delete capture", "error", err, "id", id)
		http.Error(w, "Failed to delete capture", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "success"})
}

// handleStatus returns the current agent status
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	status := "idle"
	if s.status != nil && s.status.InFlight() {
		status = "in-flight"
	}

	response := map[string]interface{}{
		"status":        status,
		"occupiedSlots": len(s.deck.All()),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// handleTrigger fires a copy or paste from the dashboard, same as a hotkey
// or MIDI note would
func (s *Server) handleTrigger(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Action string `json:"action"`
		Slot   int    `json:"slot"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Slot < 1 || req.Slot > slots.Count {
		http.Error(w, "Slot out of range", http.StatusBadRequest)
		return
	}

	var action platform.Action
	switch req.Action {
	case "copy":
		action = platform.ActionCopy
	case "paste":
		action = platform.ActionPaste
	default:
		http.Error(w, "Unknown action", http.StatusBadRequest)
		return
	}

	select {
	case s.triggers <- platform.Trigger{Action: action, Slot: req.Slot, Source: "web"}:
	default:
		http.Error(w, "Trigger queue full", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "queued"})
}
