package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPositionLayout(t *testing.T) {
	p := NewPosition()
	require.NoError(t, p.Validate())
	assert.Len(t, p.Pieces(), 32)
	assert.Equal(t, White, p.Turn())

	king, ok := p.At(mustSquare(t, "e1"))
	require.True(t, ok)
	assert.Equal(t, Piece{Kind: King, Color: White, Square: mustSquare(t, "e1")}, king)

	queen, ok := p.At(mustSquare(t, "d8"))
	require.True(t, ok)
	assert.Equal(t, Queen, queen.Kind)
	assert.Equal(t, Black, queen.Color)

	_, ok = p.At(mustSquare(t, "e4"))
	assert.False(t, ok)
	_, ok = p.At(Sq(8, 0))
	assert.False(t, ok)

	assert.Equal(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", p.FEN())
}

func TestApplyErrors(t *testing.T) {
	p := NewPosition()

	_, err := p.Apply(Move{From: mustSquare(t, "e2"), To: Sq(4, 8)})
	require.ErrorIs(t, err, ErrOutOfBounds)

	_, err = p.Apply(Move{From: mustSquare(t, "e4"), To: mustSquare(t, "e5")})
	require.ErrorIs(t, err, ErrIllegalMover)

	_, err = p.Apply(Move{From: mustSquare(t, "e7"), To: mustSquare(t, "e5")})
	require.ErrorIs(t, err, ErrIllegalMover)

	_, err = p.Apply(Move{From: mustSquare(t, "d1"), To: mustSquare(t, "d2")})
	require.ErrorIs(t, err, ErrInvariantViolation)

	// nothing changed
	assert.True(t, p.Equal(NewPosition()))
}

func TestApplyMovesPieceAndFlipsTurn(t *testing.T) {
	p := NewPosition()
	events, err := p.Apply(Move{From: mustSquare(t, "g1"), To: mustSquare(t, "f3")})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, EventMoved, events[0].Kind)
	assert.Equal(t, mustSquare(t, "f3"), events[0].Piece.Square)
	assert.Equal(t, 1, events[0].Piece.MoveCount)

	assert.Equal(t, Black, p.Turn())
	knight, ok := p.At(mustSquare(t, "f3"))
	require.True(t, ok)
	assert.Equal(t, Knight, knight.Kind)
	_, ok = p.At(mustSquare(t, "g1"))
	assert.False(t, ok)
}

func TestApplyCaptureEmitsEvent(t *testing.T) {
	p := NewPosition()
	events := play(t, p, "e2e4", "d7d5", "e4d5")
	last := events[len(events)-2:]
	assert.Equal(t, EventCaptured, last[0].Kind)
	assert.Equal(t, Pawn, last[0].Piece.Kind)
	assert.Equal(t, Black, last[0].Piece.Color)
	assert.Equal(t, mustSquare(t, "d5"), last[0].From)
	assert.Equal(t, EventMoved, last[1].Kind)
	assert.Len(t, p.Pieces(), 31)
}

func TestCloneIsIndependent(t *testing.T) {
	p := NewPosition()
	c := p.Clone()
	require.True(t, p.Equal(c))

	play(t, c, "e2e4")
	assert.False(t, p.Equal(c))
	pawn, ok := p.At(mustSquare(t, "e2"))
	require.True(t, ok)
	assert.Equal(t, 0, pawn.MoveCount)
	assert.Equal(t, White, p.Turn())
}

func TestCloneApplyDeterminism(t *testing.T) {
	p := NewPosition()
	play(t, p, "e2e4", "e7e5", "g1f3")
	c := p.Clone()

	m, ok := p.FindLegal(mustSquare(t, "b8"), mustSquare(t, "c6"))
	require.True(t, ok)
	_, err := p.Apply(m)
	require.NoError(t, err)
	_, err = c.Apply(m)
	require.NoError(t, err)

	assert.True(t, p.Equal(c))
	assert.Equal(t, p.Snapshot(), c.Snapshot())
}

func TestPromotionReplacesPawnWithQueen(t *testing.T) {
	p := mustFEN(t, "8/4P1k1/8/8/8/8/8/4K3 w - - 0 1")
	events := play(t, p, "e7e8")

	require.Len(t, events, 2)
	assert.Equal(t, EventMoved, events[0].Kind)
	assert.Equal(t, EventPromoted, events[1].Kind)
	assert.Equal(t, Queen, events[1].Piece.Kind)

	queen, ok := p.At(mustSquare(t, "e8"))
	require.True(t, ok)
	assert.Equal(t, Queen, queen.Kind)
	assert.Equal(t, White, queen.Color)
}

func TestBlackPromotesOnFirstRank(t *testing.T) {
	p := mustFEN(t, "4k3/8/8/8/8/8/p7/1N2K3 b - - 0 1")
	moves := p.LegalMovesFrom(mustSquare(t, "a2"))
	require.Len(t, moves, 2)
	for _, m := range moves {
		assert.Equal(t, MovePromotion, m.Kind)
	}
	play(t, p, "a2b1")
	q, ok := p.At(mustSquare(t, "b1"))
	require.True(t, ok)
	assert.Equal(t, Piece{Kind: Queen, Color: Black, Square: mustSquare(t, "b1"), MoveCount: 2}, q)
}

func TestValidateReportsEveryViolation(t *testing.T) {
	p := emptyPosition(White)
	require.NoError(t, p.put(newPiece(Pawn, White, mustSquare(t, "a8"))))
	err := p.Validate()
	require.ErrorIs(t, err, ErrInvariantViolation)
	// pawn on back rank, no white king, no black king
	assert.Contains(t, err.Error(), "3 errors occurred")
}

func TestPutRejectsOccupiedSquare(t *testing.T) {
	p := NewPosition()
	err := p.put(newPiece(Queen, White, mustSquare(t, "e2")))
	require.ErrorIs(t, err, ErrInvariantViolation)
}
