package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSquare(t *testing.T) {
	sq, err := ParseSquare("a1")
	require.NoError(t, err)
	assert.Equal(t, Sq(0, 0), sq)

	sq, err = ParseSquare("h8")
	require.NoError(t, err)
	assert.Equal(t, Sq(7, 7), sq)
	assert.Equal(t, "h8", sq.String())

	for _, bad := range []string{"", "i1", "a9", "a0", "e44"} {
		_, err := ParseSquare(bad)
		assert.ErrorIs(t, err, ErrOutOfBounds, bad)
	}
	assert.Equal(t, "(8,-1)", Sq(8, -1).String())
}

func TestColorAndKindText(t *testing.T) {
	assert.Equal(t, Black, White.Opponent())
	assert.Equal(t, 7, White.PromotionRank())
	assert.Equal(t, 6, Black.PawnRank())

	k, err := ParseKind("knight")
	require.NoError(t, err)
	assert.Equal(t, Knight, k)
	assert.Equal(t, "N", k.Letter())
	assert.Equal(t, "", Pawn.Letter())

	_, err = ParseColor("green")
	assert.Error(t, err)
}
