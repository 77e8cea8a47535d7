package engine

import (
	"math/rand"
	"sync"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"
)

// MateValue is the score of a checkmated side, beyond any material balance.
const MateValue float32 = 100000

// terminalScore scores a position without legal moves. Mates found with more depth
// remaining are preferred.
func terminalScore(p *Position, depth int) float32 {
	if !p.InCheck(p.turn) {
		return 0
	}
	if p.turn == White {
		return -MateValue - float32(depth)
	}
	return MateValue + float32(depth)
}

// AlphaBeta searches depth plies below p with alpha-beta pruning. White maximises,
// Black minimises.
func AlphaBeta(p *Position, depth int, alpha, beta float32) float32 {
	if depth <= 0 {
		return Evaluate(p)
	}
	moves := p.LegalMoves()
	if len(moves) == 0 {
		return terminalScore(p, depth)
	}
	if p.turn == White {
		best := math32.Inf(-1)
		for _, m := range moves {
			child := p.Clone()
			child.play(m)
			best = max32(best, AlphaBeta(child, depth-1, alpha, beta))
			alpha = max32(alpha, best)
			if alpha >= beta {
				break
			}
		}
		return best
	}
	best := math32.Inf(1)
	for _, m := range moves {
		child := p.Clone()
		child.play(m)
		best = min32(best, AlphaBeta(child, depth-1, alpha, beta))
		beta = min32(beta, best)
		if alpha >= beta {
			break
		}
	}
	return best
}

// Minimax is the unpruned search. It returns the same value as AlphaBeta with an
// infinite window and exists as a reference for it.
func Minimax(p *Position, depth int) float32 {
	if depth <= 0 {
		return Evaluate(p)
	}
	moves := p.LegalMoves()
	if len(moves) == 0 {
		return terminalScore(p, depth)
	}
	maximize := p.turn == White
	best := math32.Inf(1)
	if maximize {
		best = math32.Inf(-1)
	}
	for _, m := range moves {
		child := p.Clone()
		child.play(m)
		v := Minimax(child, depth-1)
		if maximize {
			best = max32(best, v)
		} else {
			best = min32(best, v)
		}
	}
	return best
}

// Searcher picks moves for an automated player. It is not safe for concurrent use;
// give each goroutine its own.
type Searcher struct {
	// Depth is the number of plies searched, counting the root move.
	Depth int
	// Workers > 1 scores root moves in parallel.
	Workers int

	rand *rand.Rand
}

func NewSearcher(depth int, seed int64) *Searcher {
	return NewSearcherWithRand(depth, rand.New(rand.NewSource(seed)))
}

func NewSearcherWithRand(depth int, r *rand.Rand) *Searcher {
	if depth < 1 {
		depth = 1
	}
	return &Searcher{Depth: depth, Workers: 1, rand: r}
}

// ScoredMove is a root move with its search value.
type ScoredMove struct {
	Move  Move
	Value float32
}

// ScoreMoves searches every legal root move to the searcher's depth. Each root move is
// searched with a full window so tied values are exact.
func (s *Searcher) ScoreMoves(p *Position) ([]ScoredMove, error) {
	moves := p.LegalMoves()
	if len(moves) == 0 {
		return nil, errors.Wrapf(ErrNoMovesAvailable, "%s to move in %s", p.turn, p.Classify())
	}
	scored := make([]ScoredMove, len(moves))
	score := func(i int) {
		child := p.Clone()
		child.play(moves[i])
		scored[i] = ScoredMove{Move: moves[i], Value: AlphaBeta(child, s.Depth-1, math32.Inf(-1), math32.Inf(1))}
	}

	if s.Workers <= 1 {
		for i := range moves {
			score(i)
		}
		return scored, nil
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < s.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				score(i)
			}
		}()
	}
	for i := range moves {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return scored, nil
}

// PickMove returns the best move for the side to move, choosing at random among moves
// of equal value. It fails with ErrNoMovesAvailable on checkmate or stalemate.
func (s *Searcher) PickMove(p *Position) (Move, error) {
	scored, err := s.ScoreMoves(p)
	if err != nil {
		return Move{}, err
	}
	best := BestValue(p.turn, scored)
	var ties []Move
	for _, sm := range scored {
		if sm.Value == best {
			ties = append(ties, sm.Move)
		}
	}
	return ties[s.rand.Intn(len(ties))], nil
}

// BestValue is the value the side to move would choose among scored.
func BestValue(turn Color, scored []ScoredMove) float32 {
	best := scored[0].Value
	for _, sm := range scored[1:] {
		if turn == White {
			best = max32(best, sm.Value)
		} else {
			best = min32(best, sm.Value)
		}
	}
	return best
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}
