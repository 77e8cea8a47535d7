package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mustSquare(t *testing.T, s string) Square {
	t.Helper()
	sq, err := ParseSquare(s)
	require.NoError(t, err)
	return sq
}

func mustFEN(t *testing.T, fen string) *Position {
	t.Helper()
	p, err := ParseFEN(fen)
	require.NoError(t, err)
	return p
}

// play applies a sequence of coordinate moves ("e2e4"), each of which must be legal.
func play(t *testing.T, p *Position, moves ...string) []Event {
	t.Helper()
	var events []Event
	for _, mv := range moves {
		from, to := mustSquare(t, mv[:2]), mustSquare(t, mv[2:4])
		m, ok := p.FindLegal(from, to)
		require.Truef(t, ok, "%s is not legal in %s", mv, p.FEN())
		ev, err := p.Apply(m)
		require.NoError(t, err)
		require.NoError(t, p.Validate())
		events = append(events, ev...)
	}
	return events
}

func hasMove(moves []Move, from, to Square) bool {
	for _, m := range moves {
		if m.From == from && m.To == to {
			return true
		}
	}
	return false
}
