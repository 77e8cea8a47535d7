package model

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/benbeisheim/chess-ai-backend/internal/engine"
	"github.com/benbeisheim/chess-ai-backend/internal/ws"
)

func at(t *testing.T, s string) Position {
	t.Helper()
	sq, err := engine.ParseSquare(s)
	require.NoError(t, err)
	return positionOf(sq)
}

func wsMove(t *testing.T, uci string) WSMove {
	t.Helper()
	return WSMove{From: at(t, uci[:2]), To: at(t, uci[2:4])}
}

func newTestGame(t *testing.T) *Game {
	t.Helper()
	g := NewGame("g1", 10*time.Minute, zerolog.Nop())
	_, err := g.AddPlayer("alice")
	require.NoError(t, err)
	_, err = g.AddPlayer("bob")
	require.NoError(t, err)
	return g
}

func gameFromFEN(t *testing.T, fen string) *Game {
	t.Helper()
	pos, err := engine.ParseFEN(fen)
	require.NoError(t, err)
	g, err := RestoreGame("g1", pos.Snapshot(), 10*time.Minute, zerolog.Nop())
	require.NoError(t, err)
	_, err = g.AddPlayer("alice")
	require.NoError(t, err)
	_, err = g.AddPlayer("bob")
	require.NoError(t, err)
	return g
}

// playAlternating plays uci moves for alice (White) and bob (Black) in turn.
func playAlternating(t *testing.T, g *Game, moves ...string) {
	t.Helper()
	for _, m := range moves {
		player := "alice"
		if g.Position().Turn() == engine.Black {
			player = "bob"
		}
		require.NoError(t, g.MakeMove(player, wsMove(t, m)), m)
	}
}

func notations(g *Game) []string {
	var out []string
	for _, m := range g.GetState().MoveHistory {
		out = append(out, m.WhitePly.Notation)
		if m.BlackPly != nil {
			out = append(out, m.BlackPly.Notation)
		}
	}
	return out
}

type fakeConn struct {
	mu       sync.Mutex
	messages [][]byte
	closed   bool
	fail     bool
}

func (c *fakeConn) WriteMessage(_ int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("broken pipe")
	}
	c.messages = append(c.messages, data)
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}

func (c *fakeConn) last(t *testing.T) (ws.MessageType, GameState) {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	require.NotEmpty(t, c.messages)
	var msg ws.Message
	require.NoError(t, json.Unmarshal(c.messages[len(c.messages)-1], &msg))
	var state GameState
	if msg.Type == ws.MessageTypeGameState {
		require.NoError(t, json.Unmarshal(msg.Payload, &state))
	}
	return msg.Type, state
}
