package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/courtside/courtside-server-go/internal/game"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Maximum message size allowed from peer.
	maxMessageSize = 4 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client message types.
const (
	msgJoin  = "join"
	msgStart = "start"
	msgNext  = "next"
	msgPrev  = "prev"
	msgSeek  = "seek"
	msgSkip  = "skip"
)

// wsRequest is a playback command from the client.
type wsRequest struct {
	Type   string `json:"type"`
	GameID string `json:"gameId,omitempty"`
	Step   int    `json:"step,omitempty"`
	Count  int    `json:"count,omitempty"`
}

// wsResponse is either a snapshot or an error.
type wsResponse struct {
	Type     string    `json:"type"`
	Error    string    `json:"error,omitempty"`
	Snapshot *Snapshot `json:"snapshot,omitempty"`
}

// handleWebSocket runs an interactive playback session. Each connection
// owns its own replay session; nothing is shared between clients, so
// concurrent scrubbing needs no coordination.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageSize)

	var session *game.Replay
	var total int

	for {
		var req wsRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("websocket read error", zap.Error(err))
			}
			return
		}

		if req.Type == msgJoin {
			entry, ok := s.registry.Get(req.GameID)
			if !ok {
				s.writeWS(conn, wsResponse{Type: "error", Error: "game not found"})
				continue
			}
			session, err = game.NewReplay(req.GameID, entry.Events, entry.Roster, s.logger)
			if err != nil {
				s.writeWS(conn, wsResponse{Type: "error", Error: "failed to load data"})
				continue
			}
			total = len(entry.Events)
			s.sendSnapshot(conn, session, total)
			continue
		}

		if session == nil {
			s.writeWS(conn, wsResponse{Type: "error", Error: "join a game first"})
			continue
		}

		var seekErr error
		switch req.Type {
		case msgStart:
			_, seekErr = session.Start()
		case msgNext:
			_, seekErr = session.Next()
		case msgPrev:
			_, seekErr = session.Previous()
		case msgSeek:
			_, seekErr = session.SeekTo(req.Step)
		case msgSkip:
			_, seekErr = session.Skip(req.Count)
		default:
			s.writeWS(conn, wsResponse{Type: "error", Error: "unknown message type"})
			continue
		}
		if seekErr != nil {
			s.logger.Error("playback seek failed",
				zap.String("game_id", session.GameID),
				zap.Error(seekErr),
			)
			s.writeWS(conn, wsResponse{Type: "error", Error: "failed to load data"})
			continue
		}

		s.sendSnapshot(conn, session, total)
	}
}

func (s *Server) sendSnapshot(conn *websocket.Conn, session *game.Replay, total int) {
	st := session.Current()
	// The client fetched the event list over HTTP when it joined; strip
	// it from the per-step view without touching the live session state.
	view := *st
	view.Events = nil
	s.writeWS(conn, wsResponse{
		Type: "snapshot",
		Snapshot: &Snapshot{
			GameID:   session.GameID,
			Step:     session.Cursor(),
			Total:    total,
			Revision: st.Checksum(),
			State:    &view,
		},
	})
}

func (s *Server) writeWS(conn *websocket.Conn, resp wsResponse) {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(resp); err != nil {
		s.logger.Debug("websocket write failed", zap.Error(err))
	}
}
