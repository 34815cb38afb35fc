package game

import (
	"github.com/google/uuid"
)

// Side identifies which bench an event belongs to.
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
)

// EventType indicates the category of a game event.
type EventType string

const (
	EventGameStart         EventType = "GAME_START"
	EventGameEnd           EventType = "GAME_END"
	EventQuarterStart      EventType = "QUARTER_START"
	EventQuarterEnd        EventType = "QUARTER_END"
	EventTwoPointsMade     EventType = "TWO_POINTS_MADE"
	EventTwoPointsMissed   EventType = "TWO_POINTS_MISSED"
	EventThreePointsMade   EventType = "THREE_POINTS_MADE"
	EventThreePointsMissed EventType = "THREE_POINTS_MISSED"
	EventFreeThrowMade     EventType = "FREE_THROW_MADE"
	EventFreeThrowMissed   EventType = "FREE_THROW_MISSED"
	EventRebound           EventType = "REBOUND"
	EventAssist            EventType = "ASSIST"
	EventBlock             EventType = "BLOCK"
	EventSteal             EventType = "STEAL"
	EventFoul              EventType = "FOUL"
	EventTurnover          EventType = "TURNOVER"
	EventTimeout           EventType = "TIMEOUT"
	EventSubstitution      EventType = "SUBSTITUTION"
	EventJumpBall          EventType = "JUMP_BALL"
	EventViolation         EventType = "VIOLATION"
	EventUnknown           EventType = "UNKNOWN"
)

// IsMadeShot reports whether the event type scores points.
func (et EventType) IsMadeShot() bool {
	switch et {
	case EventTwoPointsMade, EventThreePointsMade, EventFreeThrowMade:
		return true
	}
	return false
}

// IsFieldGoal reports whether the event type is a two or three point
// attempt, made or missed.
func (et EventType) IsFieldGoal() bool {
	switch et {
	case EventTwoPointsMade, EventTwoPointsMissed,
		EventThreePointsMade, EventThreePointsMissed:
		return true
	}
	return false
}

// Score is a cumulative home/away score snapshot as reported by the
// transcript. When present it is authoritative and never rederived.
type Score struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// Event is one atomic occurrence parsed from the transcript.
type Event struct {
	ID      string    `json:"id"`
	Type    EventType `json:"type"`
	Team    Side      `json:"team"`
	Player  string    `json:"player"` // canonical name, empty for team-level events
	Time    string    `json:"time"`   // MM:SS, counting down within a quarter
	Quarter int       `json:"quarter"`
	Points  int       `json:"points"`
	Score   *Score    `json:"score,omitempty"`

	// Rebound events only.
	IsOffensive bool `json:"isOffensive,omitempty"`
	// Absolute offensive/defensive totals reported by the transcript
	// annotation. Applied by the engine as overwrites, not deltas.
	HasReboundTotals  bool `json:"hasReboundTotals,omitempty"`
	OffensiveRebounds int  `json:"offensiveRebounds,omitempty"`
	DefensiveRebounds int  `json:"defensiveRebounds,omitempty"`

	// Substitution events only. Player holds the incoming name as well.
	PlayerIn  string `json:"playerIn,omitempty"`
	PlayerOut string `json:"playerOut,omitempty"`

	// Original source fragment, retained for display and audit.
	Description string `json:"description,omitempty"`
}

// NewEvent creates an event with a fresh ID and common fields populated.
func NewEvent(eventType EventType, team Side, player, clock string, quarter int) Event {
	return Event{
		ID:      uuid.NewString(),
		Type:    eventType,
		Team:    team,
		Player:  player,
		Time:    clock,
		Quarter: quarter,
	}
}
