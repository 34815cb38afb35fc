package game

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
)

// Checksum computes a deterministic digest of a state's observable
// statistics. Two folds of the same events over the same rosters always
// produce the same checksum; random IDs and the event list itself are
// excluded, so a snapshot stripped of its events hashes the same as the
// live state it was taken from. Served to clients as the snapshot
// revision and used in tests to prove seek idempotence.
func (s *State) Checksum() string {
	data := s.buildDeterministicRepresentation()
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}

// buildDeterministicRepresentation creates a canonical string form of
// the state, independent of map iteration order.
func (s *State) buildDeterministicRepresentation() string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "GAME:%d|%s|%s\n", s.Quarter, s.Time, s.Status)

	for _, team := range []*Team{s.HomeTeam, s.AwayTeam} {
		ts := team.Stats
		fmt.Fprintf(&buf, "TEAM:%s|%s|%d|%d|%d|%d|%d|%d|%d|%d|%d|%d|%d|%d|%d|%d|%d\n",
			team.Side, team.ID,
			ts.Points, ts.Rebounds, ts.OffensiveRebounds, ts.DefensiveRebounds,
			ts.Assists, ts.Steals, ts.Blocks, ts.Fouls, ts.Turnovers,
			ts.TwoPointsMade, ts.TwoPointsAttempted,
			ts.ThreePointsMade, ts.ThreePointsAttempted,
			ts.FreeThrowsMade, ts.FreeThrowsAttempted,
		)

		names := make([]string, 0, len(team.Players))
		for _, p := range team.Players {
			names = append(names, p.Name)
		}
		sort.Strings(names)

		for _, name := range names {
			ps := team.FindPlayer(name).Stats
			fmt.Fprintf(&buf, "PLAYER:%s|%d|%d|%d|%d|%d|%d|%d|%d|%d|%d|%d|%d|%d|%d|%d|%d\n",
				name,
				ps.Points, ps.Rebounds, ps.OffensiveRebounds, ps.DefensiveRebounds,
				ps.Assists, ps.Steals, ps.Blocks, ps.Fouls, ps.Turnovers, ps.PlayTime,
				ps.TwoPointsMade, ps.TwoPointsAttempted,
				ps.ThreePointsMade, ps.ThreePointsAttempted,
				ps.FreeThrowsMade, ps.FreeThrowsAttempted,
			)
		}
	}

	return buf.String()
}
