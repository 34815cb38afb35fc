package game

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/courtside/courtside-server-go/internal/roster"
)

// Status is the coarse lifecycle of a game state.
type Status string

const (
	StatusNotStarted Status = "NOT_STARTED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusFinished   Status = "FINISHED"
)

// PlayerStats holds one player's cumulative box-score line.
type PlayerStats struct {
	Points    int `json:"points"`
	Rebounds  int `json:"rebounds"`
	Assists   int `json:"assists"`
	Steals    int `json:"steals"`
	Blocks    int `json:"blocks"`
	Fouls     int `json:"fouls"`
	Turnovers int `json:"turnovers"`
	PlayTime  int `json:"playTime"` // whole minutes on court

	TwoPointsMade        int `json:"twoPointsMade"`
	TwoPointsAttempted   int `json:"twoPointsAttempted"`
	ThreePointsMade      int `json:"threePointsMade"`
	ThreePointsAttempted int `json:"threePointsAttempted"`
	FreeThrowsMade       int `json:"freeThrowsMade"`
	FreeThrowsAttempted  int `json:"freeThrowsAttempted"`

	OffensiveRebounds int `json:"offensiveRebounds"`
	DefensiveRebounds int `json:"defensiveRebounds"`
}

// TeamStats mirrors PlayerStats at team level. Points and rebounds are
// derived sums over players; the discrete counters accumulate
// independently.
type TeamStats struct {
	Points    int `json:"points"`
	Rebounds  int `json:"rebounds"`
	Assists   int `json:"assists"`
	Steals    int `json:"steals"`
	Blocks    int `json:"blocks"`
	Fouls     int `json:"fouls"`
	Turnovers int `json:"turnovers"`

	TwoPointsMade        int `json:"twoPointsMade"`
	TwoPointsAttempted   int `json:"twoPointsAttempted"`
	ThreePointsMade      int `json:"threePointsMade"`
	ThreePointsAttempted int `json:"threePointsAttempted"`
	FreeThrowsMade       int `json:"freeThrowsMade"`
	FreeThrowsAttempted  int `json:"freeThrowsAttempted"`

	OffensiveRebounds int `json:"offensiveRebounds"`
	DefensiveRebounds int `json:"defensiveRebounds"`
}

// Player is a rostered player plus their mutable cumulative stats.
type Player struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Number   string      `json:"number,omitempty"`
	Position string      `json:"position,omitempty"`
	Team     Side        `json:"team"`
	Stats    PlayerStats `json:"stats"`
}

// Team is one side: identity, ordered roster and team totals.
type Team struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Side    Side      `json:"side"`
	Players []*Player `json:"players"`
	Stats   TeamStats `json:"stats"`

	byName map[string]*Player
}

// FindPlayer returns the player with the canonical name, or nil.
func (t *Team) FindPlayer(name string) *Player {
	return t.byName[name]
}

// sumPoints recomputes the team's points as the sum over players.
func (t *Team) sumPoints() {
	total := 0
	for _, p := range t.Players {
		total += p.Stats.Points
	}
	t.Stats.Points = total
}

// sumRebounds recomputes the team's rebound totals as sums over players.
func (t *Team) sumRebounds() {
	off, def := 0, 0
	for _, p := range t.Players {
		off += p.Stats.OffensiveRebounds
		def += p.Stats.DefensiveRebounds
	}
	t.Stats.OffensiveRebounds = off
	t.Stats.DefensiveRebounds = def
	t.Stats.Rebounds = off + def
}

// State is the aggregate root the engine folds events into. The caller
// owns the state exclusively for the duration of a fold; seeking
// backward discards it for a fresh one.
type State struct {
	ID       string  `json:"id"`
	HomeTeam *Team   `json:"homeTeam"`
	AwayTeam *Team   `json:"awayTeam"`
	Quarter  int     `json:"quarter"`
	Time     string  `json:"time"`
	Events   []Event `json:"events,omitempty"`
	Status   Status  `json:"status"`

	clock *playTimeTracker
}

// NewState builds a zeroed game state from a validated roster bundle.
// An invalid bundle is a caller contract violation and fails fast.
func NewState(cfg *roster.Config) (*State, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil roster config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid roster config: %w", err)
	}

	home := newTeam(cfg.Home, SideHome)
	away := newTeam(cfg.Away, SideAway)

	st := &State{
		ID:       uuid.NewString(),
		HomeTeam: home,
		AwayTeam: away,
		Quarter:  1,
		Time:     QuarterClock,
		Status:   StatusNotStarted,
	}
	st.clock = newPlayTimeTracker(cfg)
	return st, nil
}

func newTeam(cfg roster.TeamConfig, side Side) *Team {
	t := &Team{
		ID:      cfg.ID,
		Name:    cfg.Name,
		Side:    side,
		Players: make([]*Player, 0, len(cfg.Players)),
		byName:  make(map[string]*Player, len(cfg.Players)),
	}
	for _, pc := range cfg.Players {
		p := &Player{
			ID:       fmt.Sprintf("%s-%s", side, pc.Name),
			Name:     pc.Name,
			Number:   pc.Number,
			Position: pc.Position,
			Team:     side,
		}
		t.Players = append(t.Players, p)
		t.byName[p.Name] = p
	}
	return t
}

// TeamFor returns the team for the given side.
func (s *State) TeamFor(side Side) *Team {
	if side == SideAway {
		return s.AwayTeam
	}
	return s.HomeTeam
}
