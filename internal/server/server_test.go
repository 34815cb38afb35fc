package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/courtside/courtside-server-go/internal/game"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	reg := NewRegistry(zaptest.NewLogger(t))
	require.NoError(t, reg.LoadDir(writeTestGameDir(t)))
	return New(reg, zaptest.NewLogger(t))
}

func doJSON(t *testing.T, h http.Handler, url string, out any) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if out != nil && rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec
}

func TestListGames(t *testing.T) {
	srv := newTestServer(t)

	var summaries []GameSummary
	rec := doJSON(t, srv.Handler(), "/api/games", &summaries)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, summaries, 1)
	assert.Equal(t, "lakers-wolves", summaries[0].ID)
}

func TestGetEvents(t *testing.T) {
	srv := newTestServer(t)

	var events []game.Event
	rec := doJSON(t, srv.Handler(), "/api/games/lakers-wolves/events", &events)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, events, 6)
}

func TestGetEventsUnknownGame(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv.Handler(), "/api/games/nope/events", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetStateFinal(t *testing.T) {
	srv := newTestServer(t)

	var snap Snapshot
	rec := doJSON(t, srv.Handler(), "/api/games/lakers-wolves/state", &snap)
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "lakers-wolves", snap.GameID)
	assert.Equal(t, 5, snap.Step)
	assert.Equal(t, 6, snap.Total)
	assert.NotEmpty(t, snap.Revision)
	require.NotNil(t, snap.State)
	assert.Equal(t, game.StatusFinished, snap.State.Status)
	assert.Equal(t, 5, snap.State.HomeTeam.Stats.Points)
	assert.Nil(t, snap.State.Events)
}

func TestGetStateAtStep(t *testing.T) {
	srv := newTestServer(t)

	// Step 1 is the opening two-point make.
	var snap Snapshot
	doJSON(t, srv.Handler(), "/api/games/lakers-wolves/state?step=1", &snap)
	assert.Equal(t, 1, snap.Step)
	assert.Equal(t, 2, snap.State.HomeTeam.Stats.Points)
	assert.Equal(t, game.StatusInProgress, snap.State.Status)
}

func TestGetStateStepClamped(t *testing.T) {
	srv := newTestServer(t)

	var snap Snapshot
	doJSON(t, srv.Handler(), "/api/games/lakers-wolves/state?step=999", &snap)
	assert.Equal(t, 5, snap.Step)

	doJSON(t, srv.Handler(), "/api/games/lakers-wolves/state?step=-5", &snap)
	assert.Equal(t, -1, snap.Step)
	assert.Equal(t, game.StatusNotStarted, snap.State.Status)
}

func TestGetStateBadStep(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv.Handler(), "/api/games/lakers-wolves/state?step=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetStateRevisionStable(t *testing.T) {
	srv := newTestServer(t)

	// The same step always folds to the same state; the revision proves it.
	var first, second Snapshot
	doJSON(t, srv.Handler(), "/api/games/lakers-wolves/state?step=3", &first)
	doJSON(t, srv.Handler(), "/api/games/lakers-wolves/state?step=3", &second)
	assert.Equal(t, first.Revision, second.Revision)

	var other Snapshot
	doJSON(t, srv.Handler(), "/api/games/lakers-wolves/state?step=2", &other)
	assert.NotEqual(t, first.Revision, other.Revision)
}

func TestGetStateUnknownGame(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv.Handler(), "/api/games/nope/state", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func dialWS(t *testing.T, srv *Server) *websocket.Conn {
	t.Helper()
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func roundTrip(t *testing.T, conn *websocket.Conn, req wsRequest) wsResponse {
	t.Helper()
	require.NoError(t, conn.WriteJSON(req))
	var resp wsResponse
	require.NoError(t, conn.ReadJSON(&resp))
	return resp
}

func TestWebSocketPlayback(t *testing.T) {
	conn := dialWS(t, newTestServer(t))

	resp := roundTrip(t, conn, wsRequest{Type: "join", GameID: "lakers-wolves"})
	require.Equal(t, "snapshot", resp.Type)
	require.NotNil(t, resp.Snapshot)
	assert.Equal(t, -1, resp.Snapshot.Step)
	assert.Equal(t, 6, resp.Snapshot.Total)

	resp = roundTrip(t, conn, wsRequest{Type: "next"})
	assert.Equal(t, 0, resp.Snapshot.Step)
	resp = roundTrip(t, conn, wsRequest{Type: "next"})
	assert.Equal(t, 1, resp.Snapshot.Step)
	assert.Equal(t, 2, resp.Snapshot.State.HomeTeam.Stats.Points)

	resp = roundTrip(t, conn, wsRequest{Type: "prev"})
	assert.Equal(t, 0, resp.Snapshot.Step)

	resp = roundTrip(t, conn, wsRequest{Type: "seek", Step: 5})
	assert.Equal(t, 5, resp.Snapshot.Step)
	assert.Equal(t, game.StatusFinished, resp.Snapshot.State.Status)

	resp = roundTrip(t, conn, wsRequest{Type: "start"})
	assert.Equal(t, -1, resp.Snapshot.Step)
	assert.Equal(t, game.StatusNotStarted, resp.Snapshot.State.Status)
}

func TestWebSocketSeekMatchesHTTPState(t *testing.T) {
	srv := newTestServer(t)
	conn := dialWS(t, srv)

	roundTrip(t, conn, wsRequest{Type: "join", GameID: "lakers-wolves"})
	resp := roundTrip(t, conn, wsRequest{Type: "seek", Step: 3})

	var snap Snapshot
	doJSON(t, srv.Handler(), "/api/games/lakers-wolves/state?step=3", &snap)
	assert.Equal(t, snap.Revision, resp.Snapshot.Revision)

	// Both transports must also agree with a bare engine fold: the
	// revision identifies the state, not the transport that served it.
	entry, ok := srv.registry.Get("lakers-wolves")
	require.True(t, ok)
	st, err := game.NewEngine(zaptest.NewLogger(t)).ReplayTo(entry.Events, 3, entry.Roster)
	require.NoError(t, err)
	assert.Equal(t, st.Checksum(), snap.Revision)
}

func TestWebSocketRequiresJoin(t *testing.T) {
	conn := dialWS(t, newTestServer(t))

	resp := roundTrip(t, conn, wsRequest{Type: "next"})
	assert.Equal(t, "error", resp.Type)
	assert.Equal(t, "join a game first", resp.Error)
}

func TestWebSocketJoinUnknownGame(t *testing.T) {
	conn := dialWS(t, newTestServer(t))

	resp := roundTrip(t, conn, wsRequest{Type: "join", GameID: "nope"})
	assert.Equal(t, "error", resp.Type)
}

func TestWebSocketUnknownCommand(t *testing.T) {
	conn := dialWS(t, newTestServer(t))

	roundTrip(t, conn, wsRequest{Type: "join", GameID: "lakers-wolves"})
	resp := roundTrip(t, conn, wsRequest{Type: "rewind-all"})
	assert.Equal(t, "error", resp.Type)
}
