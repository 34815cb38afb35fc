// Package server exposes loaded games and replay snapshots over HTTP and
// WebSocket. Each request folds its own state tree, so handlers are safe
// under concurrency without locking the engine.
package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/courtside/courtside-server-go/internal/game"
)

// Snapshot is the wire shape of a replay position: the state after
// folding events [0..step], plus a deterministic revision checksum.
type Snapshot struct {
	GameID   string      `json:"gameId"`
	Step     int         `json:"step"`
	Total    int         `json:"total"`
	Revision string      `json:"revision"`
	State    *game.State `json:"state"`
}

// Server routes game and replay requests against a registry.
type Server struct {
	registry *Registry
	engine   *game.Engine
	logger   *zap.Logger
}

// New creates a server over a loaded registry.
func New(registry *Registry, logger *zap.Logger) *Server {
	return &Server{
		registry: registry,
		engine:   game.NewEngine(logger),
		logger:   logger,
	}
}

// Handler returns the HTTP routing table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/games", s.handleListGames)
	mux.HandleFunc("GET /api/games/{id}/events", s.handleEvents)
	mux.HandleFunc("GET /api/games/{id}/state", s.handleState)
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	return mux
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.registry.List())
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.registry.Get(r.PathValue("id"))
	if !ok {
		s.writeError(w, http.StatusNotFound, "game not found")
		return
	}
	s.writeJSON(w, http.StatusOK, entry.Events)
}

// handleState serves the box score as of an arbitrary step. The state is
// rebuilt from zero per request; event counts are small enough that the
// O(k) fold is cheap.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	entry, ok := s.registry.Get(gameID)
	if !ok {
		s.writeError(w, http.StatusNotFound, "game not found")
		return
	}

	step := len(entry.Events) - 1
	if raw := r.URL.Query().Get("step"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "step must be an integer")
			return
		}
		step = parsed
	}
	if step < -1 {
		step = -1
	}
	if step >= len(entry.Events) {
		step = len(entry.Events) - 1
	}

	st, err := s.engine.ReplayTo(entry.Events, step, entry.Roster)
	if err != nil {
		s.logger.Error("replay failed", zap.String("game_id", gameID), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to load data")
		return
	}
	if len(entry.Events) > 0 && step == len(entry.Events)-1 {
		st.Status = game.StatusFinished
	}
	// The event list is served by its own endpoint; keep snapshots small.
	st.Events = nil

	s.writeJSON(w, http.StatusOK, Snapshot{
		GameID:   gameID,
		Step:     step,
		Total:    len(entry.Events),
		Revision: st.Checksum(),
		State:    st,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
