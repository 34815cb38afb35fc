package server

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/courtside/courtside-server-go/internal/game"
	"github.com/courtside/courtside-server-go/internal/parser"
	"github.com/courtside/courtside-server-go/internal/roster"
)

// GameEntry is one loaded game: its roster bundle and parsed events.
// Entries are read-only after load and safe to share across handlers.
type GameEntry struct {
	Info   roster.GameInfo
	Roster *roster.Config
	Events []game.Event
}

// GameSummary is the listing shape served by the games index.
type GameSummary struct {
	ID         string `json:"id"`
	Date       string `json:"date,omitempty"`
	Venue      string `json:"venue,omitempty"`
	HomeTeam   string `json:"homeTeam"`
	AwayTeam   string `json:"awayTeam"`
	EventCount int    `json:"eventCount"`
}

// Registry holds every game loaded at startup, keyed by game id.
type Registry struct {
	logger *zap.Logger

	mu    sync.RWMutex
	games map[string]*GameEntry
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		logger: logger,
		games:  make(map[string]*GameEntry),
	}
}

// LoadDir loads every *.yaml game bundle in dir, parsing the transcript
// each bundle points at. A bundle that fails to load is skipped with a
// diagnostic; the registry serves whatever loaded cleanly.
func (r *Registry) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read games directory: %w", err)
	}

	loaded := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || (!strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml")) {
			continue
		}
		path := filepath.Join(dir, name)
		if err := r.loadBundle(path); err != nil {
			r.logger.Warn("skipping game bundle",
				zap.String("path", path),
				zap.Error(err),
			)
			continue
		}
		loaded++
	}

	if loaded == 0 {
		return fmt.Errorf("no loadable game bundles in %s", dir)
	}
	r.logger.Info("game registry loaded", zap.Int("games", loaded))
	return nil
}

func (r *Registry) loadBundle(path string) error {
	cfg, err := roster.Load(path)
	if err != nil {
		return err
	}

	transcriptPath := cfg.TranscriptFile
	if !filepath.IsAbs(transcriptPath) {
		transcriptPath = filepath.Join(filepath.Dir(path), transcriptPath)
	}
	raw, err := os.ReadFile(transcriptPath)
	if err != nil {
		return fmt.Errorf("failed to read transcript: %w", err)
	}

	events := parser.New(cfg, r.logger).Parse(string(raw))

	id := cfg.Info.ID
	if id == "" {
		id = strings.TrimSuffix(strings.TrimSuffix(filepath.Base(path), ".yaml"), ".yml")
	}

	r.Add(id, &GameEntry{Info: cfg.Info, Roster: cfg, Events: events})
	r.logger.Info("game loaded",
		zap.String("game_id", id),
		zap.Int("events", len(events)),
	)
	return nil
}

// Add registers a game entry under the given id.
func (r *Registry) Add(id string, entry *GameEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry.Info.ID = id
	r.games[id] = entry
}

// Get returns the entry for a game id.
func (r *Registry) Get(id string) (*GameEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.games[id]
	return entry, ok
}

// List returns summaries for every loaded game, sorted by id.
func (r *Registry) List() []GameSummary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	summaries := make([]GameSummary, 0, len(r.games))
	for id, entry := range r.games {
		summaries = append(summaries, GameSummary{
			ID:         id,
			Date:       entry.Info.Date,
			Venue:      entry.Info.Venue,
			HomeTeam:   entry.Roster.Home.Name,
			AwayTeam:   entry.Roster.Away.Name,
			EventCount: len(entry.Events),
		})
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].ID < summaries[j].ID })
	return summaries
}
