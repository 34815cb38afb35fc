// Package parser converts a semi-structured play-by-play transcript into
// an ordered, typed event sequence. The transcript is an external format
// outside this system's control: the parser tolerates malformed rows by
// dropping the unparseable fragment and never returns an error.
package parser

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/courtside/courtside-server-go/internal/game"
	"github.com/courtside/courtside-server-go/internal/roster"
)

var (
	clockPattern        = regexp.MustCompile(`^\d{2}:\d{2}$`)
	scorePattern        = regexp.MustCompile(`(\d+)-(\d+)`)
	pointsPattern       = regexp.MustCompile(`命中\((\d+)\s*分\)`)
	quarterStartPattern = regexp.MustCompile(`第(\d+)节开始`)
	quarterEndPattern   = regexp.MustCompile(`第(\d+)节结束`)
	substitutionPattern = regexp.MustCompile(`换人：\s*(.+?)\s*替换\s*(.+?)\s*$`)
	reboundPattern      = regexp.MustCompile(`\(进攻篮板[:：](\d+)\s*防守篮板[:：](\d+)\)`)
	assistPattern       = regexp.MustCompile(`[（(]([^（）()]+?)\s*助攻[）)]`)
)

// aliasEntry maps one transcript spelling to a canonical roster name.
type aliasEntry struct {
	alias     string
	canonical string
}

// Parser turns transcript text into game events. It is stateless once
// constructed and safe for concurrent use; the roster bundle it reads is
// never mutated.
type Parser struct {
	logger *zap.Logger

	// per side, aliases sorted longest first so a shared surname cannot
	// beat a more specific spelling.
	aliases map[game.Side][]aliasEntry
	teams   map[game.Side]*roster.TeamConfig
}

// New builds a parser over one game's roster bundle. A nil logger
// disables diagnostics.
func New(cfg *roster.Config, logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Parser{
		logger:  logger,
		aliases: make(map[game.Side][]aliasEntry, 2),
		teams: map[game.Side]*roster.TeamConfig{
			game.SideHome: &cfg.Home,
			game.SideAway: &cfg.Away,
		},
	}
	p.aliases[game.SideHome] = buildAliasIndex(cfg.Home)
	p.aliases[game.SideAway] = buildAliasIndex(cfg.Away)
	return p
}

func buildAliasIndex(team roster.TeamConfig) []aliasEntry {
	entries := make([]aliasEntry, 0, len(team.Players)*2)
	for _, pl := range team.Players {
		for _, alias := range pl.AllAliases() {
			entries = append(entries, aliasEntry{alias: alias, canonical: pl.Name})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return len(entries[i].alias) > len(entries[j].alias)
	})
	return entries
}

// Parse converts the transcript into an ordered event list. It is a
// total function: malformed lines degrade to fewer events, never to an
// error.
func (p *Parser) Parse(text string) []game.Event {
	events := make([]game.Event, 0, 256)
	currentQuarter := 1

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		// Quarter markers are section headers, but the start marker must
		// surface as an event: downstream playing-time accrual keys off
		// the clock reset it carries.
		if m := quarterStartPattern.FindStringSubmatch(line); m != nil {
			currentQuarter, _ = strconv.Atoi(m[1])
			ev := game.NewEvent(game.EventQuarterStart, game.SideHome, "", game.QuarterClock, currentQuarter)
			ev.Description = line
			events = append(events, ev)
			continue
		}
		if quarterEndPattern.MatchString(line) {
			continue
		}

		// Header and footer rows have no tab-delimited shape.
		if !strings.Contains(line, "\t") || strings.Contains(line, "时间") {
			continue
		}

		events = append(events, p.parseLine(line, currentQuarter)...)
	}

	return events
}

// parseLine handles one data row: time, home action, score, away action.
func (p *Parser) parseLine(line string, quarter int) []game.Event {
	parts := strings.SplitN(line, "\t", 4)
	field := func(i int) string {
		if i < len(parts) {
			return strings.TrimSpace(parts[i])
		}
		return ""
	}

	clock := field(0)
	if !clockPattern.MatchString(clock) {
		p.logger.Warn("invalid clock value, using quarter start", zap.String("clock", clock))
		clock = game.QuarterClock
	}

	var score *game.Score
	if m := scorePattern.FindStringSubmatch(field(2)); m != nil {
		home, _ := strconv.Atoi(m[1])
		away, _ := strconv.Atoi(m[2])
		score = &game.Score{Home: home, Away: away}
	}

	events := make([]game.Event, 0, 2)
	for _, side := range []game.Side{game.SideHome, game.SideAway} {
		action := field(1)
		if side == game.SideAway {
			action = field(3)
		}
		if action == "" {
			continue
		}
		for _, ev := range p.parseAction(action, side, quarter, clock) {
			if score != nil {
				// Each event owns its snapshot; events from the same
				// line must not alias one struct.
				sc := *score
				ev.Score = &sc
			}
			events = append(events, ev)
		}
	}
	return events
}

// parseAction turns a single action fragment into zero, one or two
// events (a made basket with an assist annotation yields two).
func (p *Parser) parseAction(action string, side game.Side, quarter int, clock string) []game.Event {
	if strings.Contains(action, markSubstitution) {
		if ev, ok := p.parseSubstitution(action, side, quarter, clock); ok {
			return []game.Event{ev}
		}
		return nil
	}

	player, ok := p.extractPlayer(action, side)
	if !ok {
		p.logger.Debug("no rostered player in action, dropping fragment",
			zap.String("action", action),
			zap.String("team", string(side)),
		)
		return nil
	}

	eventType := classify(action)
	ev := game.NewEvent(eventType, side, player, clock, quarter)
	ev.Description = action
	ev.Points = derivePoints(action, eventType)

	if eventType == game.EventRebound {
		ev.IsOffensive = strings.Contains(action, "进攻篮板")
		if m := reboundPattern.FindStringSubmatch(action); m != nil {
			ev.HasReboundTotals = true
			ev.OffensiveRebounds, _ = strconv.Atoi(m[1])
			ev.DefensiveRebounds, _ = strconv.Atoi(m[2])
		}
	}

	events := []game.Event{ev}
	if assist, ok := p.extractAssist(action, side, eventType); ok {
		assistEv := game.NewEvent(game.EventAssist, side, assist, clock, quarter)
		assistEv.Description = action
		events = append(events, assistEv)
	}
	return events
}

// parseSubstitution resolves both sides of a "player A replaces player B"
// action. The incoming player is the event's player; an unresolvable
// incoming name drops the event, an unresolvable outgoing name keeps it
// with the outgoing field empty.
func (p *Parser) parseSubstitution(action string, side game.Side, quarter int, clock string) (game.Event, bool) {
	m := substitutionPattern.FindStringSubmatch(action)
	if m == nil {
		p.logger.Warn("malformed substitution action", zap.String("action", action))
		return game.Event{}, false
	}

	team := p.teams[side]
	in, inOK := team.Normalize(m[1])
	out, outOK := team.Normalize(m[2])
	if !inOK {
		p.logger.Warn("substitution with unknown incoming player",
			zap.String("name", m[1]),
			zap.String("team", string(side)),
		)
		return game.Event{}, false
	}
	if !outOK {
		p.logger.Warn("substitution with unknown outgoing player",
			zap.String("name", m[2]),
			zap.String("team", string(side)),
		)
	}

	ev := game.NewEvent(game.EventSubstitution, side, in, clock, quarter)
	ev.PlayerIn = in
	ev.PlayerOut = out
	ev.Description = action
	return ev, true
}

// extractPlayer matches the action text against the acting side's alias
// index, most specific alias first.
func (p *Parser) extractPlayer(action string, side game.Side) (string, bool) {
	for _, entry := range p.aliases[side] {
		if strings.HasPrefix(action, entry.alias) {
			return entry.canonical, true
		}
	}
	return "", false
}

// extractAssist pulls an assist attribution off a made field goal. The
// named player must resolve on the acting team's roster; otherwise the
// annotation is dropped with a diagnostic and the score stands alone.
func (p *Parser) extractAssist(action string, side game.Side, eventType game.EventType) (string, bool) {
	if eventType != game.EventTwoPointsMade && eventType != game.EventThreePointsMade {
		return "", false
	}
	m := assistPattern.FindStringSubmatch(action)
	if m == nil {
		return "", false
	}

	name, ok := p.teams[side].Normalize(m[1])
	if !ok {
		p.logger.Warn("assist attribution with unknown player",
			zap.String("name", m[1]),
			zap.String("team", string(side)),
		)
		return "", false
	}
	return name, true
}

// derivePoints computes the event's point value. Free throws are fixed
// at one point regardless of embedded annotations; field goals prefer an
// explicit parenthetical total and fall back to the shot class.
func derivePoints(action string, eventType game.EventType) int {
	switch eventType {
	case game.EventFreeThrowMade:
		return 1
	case game.EventTwoPointsMade, game.EventThreePointsMade:
		if m := pointsPattern.FindStringSubmatch(action); m != nil {
			if pts, err := strconv.Atoi(m[1]); err == nil && pts > 0 {
				return pts
			}
		}
		if eventType == game.EventThreePointsMade {
			return 3
		}
		return 2
	}
	return 0
}
