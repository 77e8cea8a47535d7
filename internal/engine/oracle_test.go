package engine

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/dylhunn/dragontoothmg"
	"github.com/notnil/chess"
	"github.com/stretchr/testify/require"
)

// Third-party generators report every promotion piece separately; this engine always
// promotes to a queen, so move sets are compared as distinct from/to pairs.

func engineMoveSet(p *Position) []string {
	seen := map[string]bool{}
	for _, m := range p.LegalMoves() {
		seen[m.From.String()+m.To.String()] = true
	}
	return sortedKeys(seen)
}

func dragontoothMoveSet(fen string) []string {
	board := dragontoothmg.ParseFen(fen)
	seen := map[string]bool{}
	for _, m := range board.GenerateLegalMoves() {
		from := Sq(int(m.From()%8), int(m.From()/8))
		to := Sq(int(m.To()%8), int(m.To()/8))
		seen[from.String()+to.String()] = true
	}
	return sortedKeys(seen)
}

func notnilMoveSet(t *testing.T, fen string) []string {
	opt, err := chess.FEN(fen)
	require.NoError(t, err)
	game := chess.NewGame(opt)
	seen := map[string]bool{}
	for _, m := range game.ValidMoves() {
		from := Sq(int(m.S1().File()), int(m.S1().Rank()))
		to := Sq(int(m.S2().File()), int(m.S2().Rank()))
		seen[from.String()+to.String()] = true
	}
	return sortedKeys(seen)
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func TestLegalMovesAgreeWithDragontooth(t *testing.T) {
	fens := []string{
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
		"k7/8/8/3pP3/8/8/8/7K w - d6 0 2",
	}
	for _, fen := range fens {
		p := mustFEN(t, fen)
		require.Equal(t, dragontoothMoveSet(fen), engineMoveSet(p), fen)
	}
}

func TestRandomPlayoutsAgreeWithNotnil(t *testing.T) {
	for seed := int64(1); seed <= 4; seed++ {
		r := rand.New(rand.NewSource(seed))
		p := NewPosition()
		for ply := 0; ply < 80; ply++ {
			fen := p.FEN()
			require.Equal(t, notnilMoveSet(t, fen), engineMoveSet(p), "seed %d ply %d: %s", seed, ply, fen)

			moves := p.LegalMoves()
			if len(moves) == 0 {
				break
			}
			_, err := p.Apply(moves[r.Intn(len(moves))])
			require.NoError(t, err)
			require.NoError(t, p.Validate())
		}
	}
}
