package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueenRaidAttackers(t *testing.T) {
	p := NewPosition()
	play(t, p, "e2e4", "e7e5", "d1h5")

	assert.False(t, p.InCheck(Black))
	assert.Equal(t, Normal, p.Classify())

	queen, ok := p.At(mustSquare(t, "h5"))
	require.True(t, ok)
	assert.Empty(t, p.AttackersOf(queen), "no black piece reaches h5 yet")

	f7, ok := p.At(mustSquare(t, "f7"))
	require.True(t, ok)
	attackers := p.AttackersOf(f7)
	require.Len(t, attackers, 1)
	assert.Equal(t, Queen, attackers[0].Kind)

	play(t, p, "g7g6")
	queen, _ = p.At(mustSquare(t, "h5"))
	attackers = p.AttackersOf(queen)
	require.Len(t, attackers, 1)
	assert.Equal(t, Piece{Kind: Pawn, Color: Black, Square: mustSquare(t, "g6"), MoveCount: 1}, attackers[0])
}

func TestFoolsMate(t *testing.T) {
	p := NewPosition()
	play(t, p, "f2f3", "e7e5", "g2g4", "d8h4")

	assert.True(t, p.InCheck(White))
	assert.Empty(t, p.LegalMoves())
	assert.False(t, p.HasLegalMoves())
	assert.Equal(t, Checkmate, p.Classify())
	assert.True(t, p.Classify().Terminal())

	king, _ := p.KingOf(White)
	attackers := p.AttackersOf(king)
	require.Len(t, attackers, 1)
	assert.Equal(t, Queen, attackers[0].Kind)
}

func TestStalemate(t *testing.T) {
	p := mustFEN(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	assert.False(t, p.InCheck(Black))
	assert.Empty(t, p.LegalMoves())
	assert.Equal(t, Stalemate, p.Classify())
	assert.True(t, p.Classify().Terminal())
}

func TestClassify(t *testing.T) {
	p := NewPosition()
	assert.Equal(t, Normal, p.Classify())
	play(t, p, "e2e4", "f7f6", "d2d4", "g7g5", "d1h5")
	assert.Equal(t, Checkmate, p.Classify())

	p = mustFEN(t, "4k3/8/8/8/8/8/8/4K2R b - - 0 1")
	assert.Equal(t, Normal, p.Classify())
	p = mustFEN(t, "4k2R/8/8/8/8/8/8/4K3 b - - 0 1")
	assert.Equal(t, Check, p.Classify())
	assert.False(t, p.Classify().Terminal())
}

func TestPinnedPieceCannotMove(t *testing.T) {
	p := mustFEN(t, "4k3/4r3/8/8/8/8/4B3/4K3 w - - 0 1")
	assert.Empty(t, p.LegalMovesFrom(mustSquare(t, "e2")))
	assert.NotEmpty(t, p.PseudoMovesFrom(mustSquare(t, "e2"), true))
}

func TestKingCannotCaptureDefendedPiece(t *testing.T) {
	p := mustFEN(t, "4r1k1/8/8/8/8/8/4q3/4K3 w - - 0 1")
	assert.Equal(t, Checkmate, p.Classify())

	p = mustFEN(t, "4k3/8/8/8/8/8/4q3/4K3 w - - 0 1")
	moves := p.LegalMoves()
	require.Len(t, moves, 1)
	assert.Equal(t, mustSquare(t, "e2"), moves[0].To)
}

func TestLegalMovesLeavePositionUntouched(t *testing.T) {
	p := mustFEN(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	before := p.Clone()
	_ = p.LegalMoves()
	_ = p.Classify()
	assert.True(t, p.Equal(before))
}
