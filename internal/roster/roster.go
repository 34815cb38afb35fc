package roster

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// PlayerConfig describes one rostered player and every spelling of their
// name that can appear in a transcript.
type PlayerConfig struct {
	Name     string   `mapstructure:"name" json:"name"`
	Aliases  []string `mapstructure:"aliases" json:"aliases,omitempty"`
	Number   string   `mapstructure:"number" json:"number,omitempty"`
	Position string   `mapstructure:"position" json:"position,omitempty"`
}

// TeamConfig is one side's roster: an ordered player list plus the
// designated starting five.
type TeamConfig struct {
	ID       string         `mapstructure:"id" json:"id"`
	Name     string         `mapstructure:"name" json:"name"`
	Players  []PlayerConfig `mapstructure:"players" json:"players"`
	Starters []string       `mapstructure:"starters" json:"starters"`
}

// GameInfo carries display metadata for a game bundle.
type GameInfo struct {
	ID    string `mapstructure:"id" json:"id"`
	Date  string `mapstructure:"date" json:"date,omitempty"`
	Venue string `mapstructure:"venue" json:"venue,omitempty"`
}

// Config is a full game bundle: metadata, both rosters and the transcript
// file the parser should consume. It is read-only after Load and safe to
// share across concurrent parses.
type Config struct {
	Info           GameInfo   `mapstructure:"info"`
	Home           TeamConfig `mapstructure:"home"`
	Away           TeamConfig `mapstructure:"away"`
	TranscriptFile string     `mapstructure:"transcript_file"`
}

// Load reads a game bundle from a YAML file.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read roster bundle: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal roster bundle: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the caller contract: both rosters non-empty, canonical
// names unique per team, and a starting five that exists on the roster.
func (c *Config) Validate() error {
	if err := c.Home.validate(); err != nil {
		return fmt.Errorf("home team: %w", err)
	}
	if err := c.Away.validate(); err != nil {
		return fmt.Errorf("away team: %w", err)
	}
	return nil
}

func (t *TeamConfig) validate() error {
	if len(t.Players) == 0 {
		return fmt.Errorf("empty roster")
	}

	seen := make(map[string]bool, len(t.Players))
	for _, p := range t.Players {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			return fmt.Errorf("player with empty name")
		}
		if seen[name] {
			return fmt.Errorf("duplicate player %q", name)
		}
		seen[name] = true
	}

	if len(t.Starters) != 5 {
		return fmt.Errorf("expected 5 starters, got %d", len(t.Starters))
	}
	for _, s := range t.Starters {
		if !seen[s] {
			return fmt.Errorf("starter %q not on roster", s)
		}
	}

	return nil
}

// PlayerNames returns the roster's canonical names in roster order.
func (t *TeamConfig) PlayerNames() []string {
	names := make([]string, 0, len(t.Players))
	for _, p := range t.Players {
		names = append(names, p.Name)
	}
	return names
}

// HasPlayer reports whether the canonical name is on the roster.
func (t *TeamConfig) HasPlayer(name string) bool {
	for _, p := range t.Players {
		if p.Name == name {
			return true
		}
	}
	return false
}

// AllAliases returns every spelling that resolves to a player, always
// including the canonical name itself.
func (p *PlayerConfig) AllAliases() []string {
	aliases := make([]string, 0, len(p.Aliases)+1)
	aliases = append(aliases, p.Name)
	for _, a := range p.Aliases {
		if a != p.Name {
			aliases = append(aliases, a)
		}
	}
	return aliases
}

// Normalize resolves a free-text name fragment to the canonical roster
// name. Longer aliases are checked first so a shared surname cannot
// shadow a more specific spelling.
func (t *TeamConfig) Normalize(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}

	best := ""
	bestLen := -1
	for _, p := range t.Players {
		for _, alias := range p.AllAliases() {
			if strings.Contains(name, alias) && len(alias) > bestLen {
				best = p.Name
				bestLen = len(alias)
			}
		}
	}
	if bestLen < 0 {
		return "", false
	}
	return best, true
}
