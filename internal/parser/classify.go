package parser

import (
	"strings"

	"github.com/courtside/courtside-server-go/internal/game"
)

// Transcript vocabulary. The feed describes actions in Chinese; the
// made/missed markers combine with shot keywords to pick a shot class.
const (
	markMade   = "命中"
	markMissed = "不中"
	markThree  = "三分"

	markSubstitution = "换人："
)

// freeThrowKeywords cover single, two-shot and three-shot trips.
var freeThrowKeywords = []string{"罚球", "两罚", "三罚"}

// classifyRule pairs a predicate with the event type it yields.
// Rules are evaluated top to bottom and the first match wins.
type classifyRule struct {
	match     func(string) bool
	eventType game.EventType
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func contains(keyword string) func(string) bool {
	return func(s string) bool { return strings.Contains(s, keyword) }
}

// classifyRules is the fallback table for actions that are neither shots
// nor substitutions. Order is the tie-break: more specific phrases come
// before generic ones.
var classifyRules = []classifyRule{
	{contains("篮板"), game.EventRebound},
	{contains("助攻"), game.EventAssist},
	{contains("封盖"), game.EventBlock},
	{contains("抢断"), game.EventSteal},
	{contains("犯规"), game.EventFoul},
	{contains("失误"), game.EventTurnover},
	{contains("暂停"), game.EventTimeout},
	{contains("跳球"), game.EventJumpBall},
	{contains("违例"), game.EventViolation},
}

// classify maps an action fragment to its event type. Shot outcomes are
// checked before the generic table so a made basket annotated with an
// assist still classifies as the score, not the assist.
func classify(action string) game.EventType {
	if strings.Contains(action, markSubstitution) {
		return game.EventSubstitution
	}

	if containsAny(action, freeThrowKeywords) {
		if strings.Contains(action, markMade) {
			return game.EventFreeThrowMade
		}
		if strings.Contains(action, markMissed) {
			return game.EventFreeThrowMissed
		}
	}

	if strings.Contains(action, markMade) {
		if strings.Contains(action, markThree) {
			return game.EventThreePointsMade
		}
		return game.EventTwoPointsMade
	}
	if strings.Contains(action, markMissed) {
		if strings.Contains(action, markThree) {
			return game.EventThreePointsMissed
		}
		return game.EventTwoPointsMissed
	}

	for _, rule := range classifyRules {
		if rule.match(action) {
			return rule.eventType
		}
	}

	return game.EventUnknown
}
