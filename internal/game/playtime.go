package game

import (
	"fmt"

	"github.com/courtside/courtside-server-go/internal/roster"
)

// playerClock tracks one player's on-court status between observed clock
// readings. lastUpdate is seconds remaining at the last observation.
type playerClock struct {
	inGame     bool
	lastUpdate int
	accrued    int // total seconds on court
}

// playTimeTracker accrues seconds-on-court from the gaps between
// consecutive clock observations, not from event counts: the transcript
// reports an irregular number of events per minute of game time.
type playTimeTracker struct {
	players map[string]*playerClock // key: side-canonicalName
}

func playerKey(side Side, name string) string {
	return fmt.Sprintf("%s-%s", side, name)
}

func newPlayTimeTracker(cfg *roster.Config) *playTimeTracker {
	tr := &playTimeTracker{players: make(map[string]*playerClock)}
	tr.initTeam(SideHome, cfg.Home)
	tr.initTeam(SideAway, cfg.Away)
	return tr
}

func (tr *playTimeTracker) initTeam(side Side, team roster.TeamConfig) {
	starters := make(map[string]bool, len(team.Starters))
	for _, s := range team.Starters {
		starters[s] = true
	}
	for _, p := range team.Players {
		pc := &playerClock{}
		if starters[p.Name] {
			pc.inGame = true
			pc.lastUpdate = quarterSeconds
		}
		tr.players[playerKey(side, p.Name)] = pc
	}
}

// accrueTo credits every in-game player with the countdown gap between
// their last observation and the given clock, then advances them to it.
// A non-positive gap (same reading, or a clock from the next quarter
// before the reset arrived) accrues nothing.
func (tr *playTimeTracker) accrueTo(clock string) {
	now := clockSeconds(clock)
	for _, pc := range tr.players {
		if !pc.inGame {
			continue
		}
		if gap := pc.lastUpdate - now; gap > 0 {
			pc.accrued += gap
			pc.lastUpdate = now
		}
	}
}

// resetQuarter rewinds every in-game player's observation to the quarter
// start. The tail of the previous quarter is only credited if it was
// already accrued at that quarter's last real event.
func (tr *playTimeTracker) resetQuarter() {
	for _, pc := range tr.players {
		if pc.inGame {
			pc.lastUpdate = quarterSeconds
		}
	}
}

// substitute stops accrual for the outgoing player and resumes it for
// the incoming one, both anchored at the substitution clock.
func (tr *playTimeTracker) substitute(side Side, in, out, clock string) {
	at := clockSeconds(clock)
	if pc, ok := tr.players[playerKey(side, out)]; ok {
		pc.inGame = false
		pc.lastUpdate = at
	}
	if pc, ok := tr.players[playerKey(side, in)]; ok {
		pc.inGame = true
		pc.lastUpdate = at
	}
}

// seconds returns accrued on-court seconds for a player key.
func (tr *playTimeTracker) seconds(side Side, name string) int {
	if pc, ok := tr.players[playerKey(side, name)]; ok {
		return pc.accrued
	}
	return 0
}

// writeMinutes converts accrued seconds to whole minutes (rounded) and
// stores them on each player's stat line.
func (tr *playTimeTracker) writeMinutes(st *State) {
	for _, team := range []*Team{st.HomeTeam, st.AwayTeam} {
		for _, p := range team.Players {
			secs := tr.seconds(team.Side, p.Name)
			p.Stats.PlayTime = (secs + 30) / 60
		}
	}
}
