package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/wricardo/terminal-maze/game/engine"
	"github.com/wricardo/terminal-maze/transport/websocket"
)

// maxHistoryLimit caps the page size of GET /api/history
const maxHistoryLimit = 100

// StateReader is the read-only view of a running game
type StateReader interface {
	Snapshot() engine.Snapshot
	History() []engine.MoveHistoryEntry
}

// StateResponse is the body of GET /api/state
type StateResponse struct {
	RunID    string          `json:"run_id"`
	Board    []string        `json:"board"`
	Snapshot engine.Snapshot `json:"snapshot"`
}

// HistoryResponse is the body of GET /api/history
type HistoryResponse struct {
	RunID      string                    `json:"run_id"`
	TotalMoves int                       `json:"total_moves"`
	Page       int                       `json:"page"`
	Limit      int                       `json:"limit"`
	Order      string                    `json:"order"`
	Moves      []engine.MoveHistoryEntry `json:"moves"`
}

// Server represents the spectator API server
type Server struct {
	state  StateReader
	hub    *websocket.Hub
	runID  string
	router *mux.Router
}

// NewServer creates a new spectator server. hub may be nil, in which case
// /ws is not served.
func NewServer(state StateReader, hub *websocket.Hub, runID string) *Server {
	s := &Server{
		state:  state,
		hub:    hub,
		runID:  runID,
		router: mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	s.router.Use(logRequests)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/state", s.handleGetState).Methods("GET")
	api.HandleFunc("/history", s.handleGetHistory).Methods("GET")
	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	if s.hub != nil {
		s.router.HandleFunc("/ws", s.hub.ServeWS)
	}
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start),
		}).Debug("spectator request")
	})
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	snap := s.state.Snapshot()
	respondJSON(w, http.StatusOK, StateResponse{
		RunID:    s.runID,
		Board:    snap.Rows(),
		Snapshot: snap,
	})
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	page, limit, order := 1, 20, "desc"

	query := r.URL.Query()
	if pageStr := query.Get("page"); pageStr != "" {
		p, err := strconv.Atoi(pageStr)
		if err != nil || p < 1 {
			respondError(w, http.StatusBadRequest, "page must be a positive integer")
			return
		}
		page = p
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		l, err := strconv.Atoi(limitStr)
		if err != nil || l < 1 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = l
		if limit > maxHistoryLimit {
			limit = maxHistoryLimit
		}
	}

	if o := query.Get("order"); o != "" {
		if o != "asc" && o != "desc" {
			respondError(w, http.StatusBadRequest, "order must be asc or desc")
			return
		}
		order = o
	}

	// History is capped; the snapshot counts every move
	snap := s.state.Snapshot()
	history := s.state.History()
	respondJSON(w, http.StatusOK, HistoryResponse{
		RunID:      s.runID,
		TotalMoves: snap.TotalMoves,
		Page:       page,
		Limit:      limit,
		Order:      order,
		Moves:      paginate(history, page, limit, order),
	})
}

// paginate returns one page of history. Newest first when order is desc.
func paginate(history []engine.MoveHistoryEntry, page, limit int, order string) []engine.MoveHistoryEntry {
	ordered := make([]engine.MoveHistoryEntry, len(history))
	if order == "desc" {
		for i, entry := range history {
			ordered[len(history)-1-i] = entry
		}
	} else {
		copy(ordered, history)
	}

	if limit < 1 {
		return []engine.MoveHistoryEntry{}
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	// Compare page numbers rather than offsets so huge pages cannot overflow
	pages := (len(ordered) + limit - 1) / limit
	if page < 1 || page > pages {
		return []engine.MoveHistoryEntry{}
	}

	start := (page - 1) * limit
	end := start + limit
	if end > len(ordered) {
		end = len(ordered)
	}
	return ordered[start:end]
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"run_id": s.runID,
	})
}
