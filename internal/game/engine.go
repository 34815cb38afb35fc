package game

import (
	"go.uber.org/zap"

	"github.com/courtside/courtside-server-go/internal/roster"
)

// Engine folds ordered event sequences into game state. It holds no
// per-game state of its own; each fold operates on a state tree the
// caller owns exclusively, so concurrent replays are safe.
type Engine struct {
	logger *zap.Logger
}

// NewEngine creates an engine. A nil logger disables diagnostics.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// ReplayTo reinitializes a state from the roster bundle and folds
// events[0..index]. Seeking always replays from zero; there are no
// inverse operations. An index below zero yields the fresh state, an
// index past the end folds the whole slice.
func (e *Engine) ReplayTo(events []Event, index int, cfg *roster.Config) (*State, error) {
	st, err := NewState(cfg)
	if err != nil {
		return nil, err
	}
	st.Events = events

	if index >= len(events) {
		index = len(events) - 1
	}
	for i := 0; i <= index; i++ {
		e.ApplyEvent(st, events[i])
	}
	return st, nil
}

// ApplyEvent folds a single event into the state in place. Malformed or
// unresolvable events degrade to clock-only updates; they never fail.
func (e *Engine) ApplyEvent(st *State, ev Event) {
	if st.Status == StatusNotStarted {
		st.Status = StatusInProgress
	}

	// Time accrual runs off observed clock gaps and must happen before
	// the event's semantic effect.
	st.clock.accrueTo(ev.Time)

	switch ev.Type {
	case EventTwoPointsMade:
		e.applyMadeShot(st, ev, 2)
	case EventThreePointsMade:
		e.applyMadeShot(st, ev, 3)
	case EventFreeThrowMade:
		e.applyMadeShot(st, ev, 1)
	case EventTwoPointsMissed, EventThreePointsMissed, EventFreeThrowMissed:
		e.applyMissedShot(st, ev)
	case EventRebound:
		e.applyRebound(st, ev)
	case EventAssist:
		e.applyCounter(st, ev, func(p *PlayerStats, t *TeamStats) { p.Assists++; t.Assists++ })
	case EventBlock:
		e.applyCounter(st, ev, func(p *PlayerStats, t *TeamStats) { p.Blocks++; t.Blocks++ })
	case EventSteal:
		e.applyCounter(st, ev, func(p *PlayerStats, t *TeamStats) { p.Steals++; t.Steals++ })
	case EventFoul:
		e.applyCounter(st, ev, func(p *PlayerStats, t *TeamStats) { p.Fouls++; t.Fouls++ })
	case EventTurnover:
		e.applyCounter(st, ev, func(p *PlayerStats, t *TeamStats) { p.Turnovers++; t.Turnovers++ })
	case EventSubstitution:
		st.clock.substitute(ev.Team, ev.PlayerIn, ev.PlayerOut, ev.Time)
	case EventQuarterStart:
		st.clock.resetQuarter()
	}

	st.clock.writeMinutes(st)

	// Every event advances transcript progress, whatever its type.
	st.Time = ev.Time
	st.Quarter = ev.Quarter
}

// lookup resolves the event's player on the acting team. A miss is a
// data-quality condition, not an error: the event becomes a no-op for
// stats while still advancing the clock.
func (e *Engine) lookup(st *State, ev Event) (*Team, *Player) {
	team := st.TeamFor(ev.Team)
	player := team.FindPlayer(ev.Player)
	if player == nil {
		e.logger.Warn("event references unknown player",
			zap.String("player", ev.Player),
			zap.String("team", string(ev.Team)),
			zap.String("type", string(ev.Type)),
		)
	}
	return team, player
}

// applyMadeShot credits a make. Free throws are always worth exactly one
// point, whatever running total the transcript embedded next to them;
// field goals prefer the parsed point value and fall back to the shot
// class. Team points are derived as the sum over players so the two
// totals can never diverge.
func (e *Engine) applyMadeShot(st *State, ev Event, classPoints int) {
	team, player := e.lookup(st, ev)
	if player == nil {
		return
	}

	points := classPoints
	if ev.Type != EventFreeThrowMade && ev.Points > 0 {
		points = ev.Points
	}
	player.Stats.Points += points

	switch ev.Type {
	case EventTwoPointsMade:
		player.Stats.TwoPointsMade++
		player.Stats.TwoPointsAttempted++
		team.Stats.TwoPointsMade++
		team.Stats.TwoPointsAttempted++
	case EventThreePointsMade:
		player.Stats.ThreePointsMade++
		player.Stats.ThreePointsAttempted++
		team.Stats.ThreePointsMade++
		team.Stats.ThreePointsAttempted++
	case EventFreeThrowMade:
		player.Stats.FreeThrowsMade++
		player.Stats.FreeThrowsAttempted++
		team.Stats.FreeThrowsMade++
		team.Stats.FreeThrowsAttempted++
	}

	team.sumPoints()
}

func (e *Engine) applyMissedShot(st *State, ev Event) {
	team, player := e.lookup(st, ev)
	if player == nil {
		return
	}

	switch ev.Type {
	case EventTwoPointsMissed:
		player.Stats.TwoPointsAttempted++
		team.Stats.TwoPointsAttempted++
	case EventThreePointsMissed:
		player.Stats.ThreePointsAttempted++
		team.Stats.ThreePointsAttempted++
	case EventFreeThrowMissed:
		player.Stats.FreeThrowsAttempted++
		team.Stats.FreeThrowsAttempted++
	}
}

// applyRebound overwrites the player's rebound counts with the absolute
// totals the transcript annotation reported, then rederives the team
// totals. A rebound event without totals carries no usable increment and
// leaves the counts untouched.
func (e *Engine) applyRebound(st *State, ev Event) {
	team, player := e.lookup(st, ev)
	if player == nil {
		return
	}
	if !ev.HasReboundTotals {
		e.logger.Debug("rebound without totals annotation",
			zap.String("player", ev.Player),
			zap.String("description", ev.Description),
		)
		return
	}

	player.Stats.OffensiveRebounds = ev.OffensiveRebounds
	player.Stats.DefensiveRebounds = ev.DefensiveRebounds
	player.Stats.Rebounds = ev.OffensiveRebounds + ev.DefensiveRebounds

	team.sumRebounds()
}

func (e *Engine) applyCounter(st *State, ev Event, inc func(*PlayerStats, *TeamStats)) {
	team, player := e.lookup(st, ev)
	if player == nil {
		return
	}
	inc(&player.Stats, &team.Stats)
}
