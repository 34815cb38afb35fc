package game

import (
	"fmt"
	"regexp"
	"strconv"
)

// QuarterClock is the nominal clock value at the start of a quarter.
const QuarterClock = "12:00"

// quarterSeconds is QuarterClock expressed in seconds.
const quarterSeconds = 12 * 60

var clockPattern = regexp.MustCompile(`^(\d{2}):(\d{2})$`)

// ParseClock converts an MM:SS countdown clock to seconds remaining.
func ParseClock(clock string) (int, error) {
	m := clockPattern.FindStringSubmatch(clock)
	if m == nil {
		return 0, fmt.Errorf("invalid clock value %q", clock)
	}
	minutes, _ := strconv.Atoi(m[1])
	seconds, _ := strconv.Atoi(m[2])
	if seconds > 59 {
		return 0, fmt.Errorf("invalid clock value %q", clock)
	}
	return minutes*60 + seconds, nil
}

// FormatClock converts seconds remaining to an MM:SS clock string.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// clockSeconds parses a clock value, substituting the quarter start on
// malformed input so a fold never stalls on bad transcript data.
func clockSeconds(clock string) int {
	secs, err := ParseClock(clock)
	if err != nil {
		return quarterSeconds
	}
	return secs
}
