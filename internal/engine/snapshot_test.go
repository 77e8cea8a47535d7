package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRoundTrip(t *testing.T) {
	p := NewPosition()
	play(t, p, "e2e4", "e7e5", "g1f3", "b8c6", "f1c4")

	data, err := json.Marshal(p.Snapshot())
	require.NoError(t, err)

	var snap Snapshot
	require.NoError(t, json.Unmarshal(data, &snap))
	restored, err := FromSnapshot(snap)
	require.NoError(t, err)

	assert.True(t, p.Equal(restored))
	assert.Equal(t, len(p.LegalMoves()), len(restored.LegalMoves()))
}

func TestSnapshotJSONShape(t *testing.T) {
	p := mustFEN(t, "4k3/8/8/8/8/8/8/4K3 b - - 0 1")
	data, err := json.Marshal(p.Snapshot())
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"pieces": [
			{"kind": "king", "color": "white", "square": {"file": 4, "rank": 0}, "moveCount": 1},
			{"kind": "king", "color": "black", "square": {"file": 4, "rank": 7}, "moveCount": 1}
		],
		"turn": "black"
	}`, string(data))
}

func TestSnapshotDropsEnPassantRight(t *testing.T) {
	p := NewPosition()
	play(t, p, "e2e4")
	restored, err := FromSnapshot(p.Snapshot())
	require.NoError(t, err)
	_, ok := restored.EnPassantTarget()
	assert.False(t, ok)
}

func TestFromSnapshotReportsAllProblems(t *testing.T) {
	snap := Snapshot{
		Turn: White,
		Pieces: []PieceSnapshot{
			{Kind: King, Color: White, Square: Sq(4, 0)},
			{Kind: Queen, Color: White, Square: Sq(4, 0)},
			{Kind: Rook, Color: Black, Square: Sq(9, 9)},
		},
	}
	_, err := FromSnapshot(snap)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvariantViolation)
	assert.ErrorIs(t, err, ErrOutOfBounds)

	_, err = FromSnapshot(Snapshot{Turn: White, Pieces: []PieceSnapshot{{Kind: King, Color: White, Square: Sq(4, 0)}}})
	require.ErrorIs(t, err, ErrInvariantViolation)

	var bad Snapshot
	require.Error(t, json.Unmarshal([]byte(`{"pieces":[{"kind":"wizard"}],"turn":"white"}`), &bad))
}

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"r3k2r/8/8/8/8/8/8/R3K2R b Kq - 0 1",
		"k7/8/8/3pP3/8/8/8/7K w - d6 0 1",
	}
	for _, fen := range fens {
		assert.Equal(t, fen, mustFEN(t, fen).FEN())
	}
}

func TestFENAfterDoubleStep(t *testing.T) {
	p := NewPosition()
	play(t, p, "e2e4")
	assert.Equal(t, "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1", p.FEN())
}

func TestParseFENErrors(t *testing.T) {
	for _, fen := range []string{
		"",
		"8/8/8/8/8/8/8/8",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w",
		"rnbqkbnr/pppppppp/9/8/8/8/PPPPPPPP/RNBQKBNR w",
		"rnbqkbnr/ppppzppp/8/8/8/8/PPPPPPPP/RNBQKBNR w",
		"8/8/8/8/8/8/8/8 w - - 0 1",
	} {
		_, err := ParseFEN(fen)
		assert.ErrorIs(t, err, ErrBadFEN, fen)
	}
}
