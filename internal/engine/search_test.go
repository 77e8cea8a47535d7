package engine

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	assert.Equal(t, float32(0), Evaluate(NewPosition()))

	p := mustFEN(t, "4k3/8/8/3q4/8/8/3R4/4K3 w - - 0 1")
	assert.Equal(t, float32(50-90), Evaluate(p))
}

func TestPickMoveReturnsLegalMove(t *testing.T) {
	positions := []*Position{
		NewPosition(),
		mustFEN(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"),
		mustFEN(t, "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1"),
	}
	for i, p := range positions {
		s := NewSearcher(2, int64(i))
		m, err := s.PickMove(p)
		require.NoError(t, err)
		assert.True(t, hasMove(p.LegalMoves(), m.From, m.To), "%s not legal", m)
	}
}

func TestPickMoveCapturesHangingQueen(t *testing.T) {
	p := mustFEN(t, "4k3/8/8/3q4/8/8/3R4/4K3 w - - 0 1")
	m, err := NewSearcher(2, 1).PickMove(p)
	require.NoError(t, err)
	assert.Equal(t, "d2d5", m.String())
}

func TestPickMoveFindsMateInOne(t *testing.T) {
	p := mustFEN(t, "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1")
	for seed := int64(0); seed < 5; seed++ {
		m, err := NewSearcher(2, seed).PickMove(p)
		require.NoError(t, err)
		assert.Equal(t, "a1a8", m.String())
	}
}

func TestPickMoveBlackMinimises(t *testing.T) {
	p := mustFEN(t, "4k3/8/8/3r4/8/8/3Q4/4K3 b - - 0 1")
	m, err := NewSearcher(1, 7).PickMove(p)
	require.NoError(t, err)
	assert.Equal(t, "d5d2", m.String())
}

func TestPickMoveFailsOnTerminalPositions(t *testing.T) {
	mate := NewPosition()
	play(t, mate, "f2f3", "e7e5", "g2g4", "d8h4")
	_, err := NewSearcher(2, 1).PickMove(mate)
	require.ErrorIs(t, err, ErrNoMovesAvailable)

	stalemate := mustFEN(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	_, err = NewSearcher(2, 1).PickMove(stalemate)
	require.ErrorIs(t, err, ErrNoMovesAvailable)
}

func TestPickMoveIsReproducibleForSeed(t *testing.T) {
	p := NewPosition()
	a, err := NewSearcher(2, 42).PickMove(p)
	require.NoError(t, err)
	b, err := NewSearcher(2, 42).PickMove(p)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestParallelRootSearchMatchesSerial(t *testing.T) {
	p := mustFEN(t, "r1bqkbnr/pppp1ppp/2n5/4p3/2B1P3/5Q2/PPPP1PPP/RNB1K1NR w KQkq - 0 1")
	serial := NewSearcher(2, 9)
	parallel := NewSearcher(2, 9)
	parallel.Workers = 4

	a, err := serial.ScoreMoves(p)
	require.NoError(t, err)
	b, err := parallel.ScoreMoves(p)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	ma, err := serial.PickMove(p)
	require.NoError(t, err)
	mb, err := parallel.PickMove(p)
	require.NoError(t, err)
	assert.Equal(t, ma, mb)
	// Qxf7 is mate
	assert.Equal(t, "f3f7", ma.String())
}

func TestAlphaBetaMatchesMinimax(t *testing.T) {
	cases := []struct {
		name  string
		fen   string
		depth int
	}{
		{"start", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", 2},
		{"open game", "r1bqkb1r/pppp1ppp/2n2n2/4p2Q/2B1P3/8/PPPP1PPP/RNB1K1NR w KQkq - 0 1", 2},
		{"endgame", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 3},
		{"black to move", "4k3/8/8/3r4/8/2N5/3Q4/4K3 b - - 0 1", 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := mustFEN(t, tc.fen)
			want := Minimax(p, tc.depth)
			got := AlphaBeta(p, tc.depth, math32.Inf(-1), math32.Inf(1))
			assert.Equal(t, want, got)

			scored, err := NewSearcher(tc.depth, 3).ScoreMoves(p)
			require.NoError(t, err)
			assert.Equal(t, want, BestValue(p.Turn(), scored))
		})
	}
}

func TestTerminalScores(t *testing.T) {
	mate := NewPosition()
	play(t, mate, "f2f3", "e7e5", "g2g4", "d8h4")
	assert.Equal(t, -MateValue-2, AlphaBeta(mate, 2, math32.Inf(-1), math32.Inf(1)))

	stalemate := mustFEN(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	assert.Equal(t, float32(0), Minimax(stalemate, 2))
}
