package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testEvents() []Event {
	ev1 := NewEvent(EventQuarterStart, SideHome, "", QuarterClock, 1)
	ev2 := NewEvent(EventTwoPointsMade, SideHome, "詹姆斯", "10:30", 1)
	ev2.Points = 2
	ev3 := NewEvent(EventThreePointsMade, SideAway, "爱德华兹", "09:50", 1)
	ev3.Points = 3
	ev4 := NewEvent(EventFreeThrowMade, SideHome, "戴维斯", "08:12", 1)
	ev5 := NewEvent(EventSteal, SideAway, "康利", "07:40", 1)
	return []Event{ev1, ev2, ev3, ev4, ev5}
}

func newTestReplay(t *testing.T) *Replay {
	t.Helper()
	r, err := NewReplay("test-game", testEvents(), testRoster(), zaptest.NewLogger(t))
	require.NoError(t, err)
	return r
}

func TestReplayStartsFresh(t *testing.T) {
	r := newTestReplay(t)

	assert.Equal(t, 5, r.Size())
	assert.Equal(t, -1, r.Cursor())
	st := r.Current()
	assert.Equal(t, StatusNotStarted, st.Status)
	assert.Equal(t, 0, st.HomeTeam.Stats.Points)
}

func TestReplayNext(t *testing.T) {
	r := newTestReplay(t)

	st, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, 0, r.Cursor())
	assert.Equal(t, StatusInProgress, st.Status)

	st, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, 2, st.HomeTeam.Stats.Points)

	st, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, 3, st.AwayTeam.Stats.Points)
}

func TestReplayNextPastEnd(t *testing.T) {
	r := newTestReplay(t)

	for i := 0; i < r.Size(); i++ {
		_, err := r.Next()
		require.NoError(t, err)
	}
	st := r.Current()
	assert.Equal(t, StatusFinished, st.Status)

	// Stepping past the last event holds position.
	st, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, r.Size()-1, r.Cursor())
	assert.Equal(t, StatusFinished, st.Status)
}

func TestReplayPrevious(t *testing.T) {
	r := newTestReplay(t)

	_, err := r.SeekTo(2)
	require.NoError(t, err)
	st, err := r.Previous()
	require.NoError(t, err)
	assert.Equal(t, 1, r.Cursor())
	assert.Equal(t, 2, st.HomeTeam.Stats.Points)
	assert.Equal(t, 0, st.AwayTeam.Stats.Points)
}

func TestReplayPreviousBeforeStart(t *testing.T) {
	r := newTestReplay(t)

	st, err := r.Previous()
	require.NoError(t, err)
	assert.Equal(t, -1, r.Cursor())
	assert.Equal(t, StatusNotStarted, st.Status)
}

func TestReplaySkip(t *testing.T) {
	r := newTestReplay(t)

	st, err := r.Skip(3)
	require.NoError(t, err)
	assert.Equal(t, 2, r.Cursor())
	assert.Equal(t, 3, st.AwayTeam.Stats.Points)

	st, err = r.Skip(-2)
	require.NoError(t, err)
	assert.Equal(t, 0, r.Cursor())
	assert.Equal(t, 0, st.HomeTeam.Stats.Points)

	// Skips clamp at both ends.
	_, err = r.Skip(100)
	require.NoError(t, err)
	assert.Equal(t, r.Size()-1, r.Cursor())
	_, err = r.Skip(-100)
	require.NoError(t, err)
	assert.Equal(t, -1, r.Cursor())
}

func TestReplaySeekMatchesStepping(t *testing.T) {
	r := newTestReplay(t)

	// Walk forward event by event and record checksums.
	stepped := make([]string, 0, r.Size())
	for i := 0; i < r.Size(); i++ {
		st, err := r.Next()
		require.NoError(t, err)
		stepped = append(stepped, st.Checksum())
	}

	// Seeking to each position from scratch must land on the same state.
	for i := 0; i < r.Size(); i++ {
		st, err := r.SeekTo(i)
		require.NoError(t, err)
		assert.Equal(t, stepped[i], st.Checksum(), "seek to %d", i)
	}
}

func TestReplayStartResets(t *testing.T) {
	r := newTestReplay(t)

	_, err := r.SeekTo(4)
	require.NoError(t, err)
	st, err := r.Start()
	require.NoError(t, err)
	assert.Equal(t, -1, r.Cursor())
	assert.Equal(t, StatusNotStarted, st.Status)
	assert.Equal(t, 0, st.HomeTeam.Stats.Points)
}
