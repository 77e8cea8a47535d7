package engine

import "golang.org/x/exp/slices"

// LegalMoves returns the moves of the side to move that do not leave its own king
// attacked. Each candidate is tried on a clone of the position, the receiver is left
// untouched. The result is recomputed on every call.
func (p *Position) LegalMoves() []Move {
	var legal []Move
	for _, m := range p.PseudoMoves(p.turn, true) {
		if p.isLegal(m) {
			legal = append(legal, m)
		}
	}
	return legal
}

// HasLegalMoves stops at the first legal move.
func (p *Position) HasLegalMoves() bool {
	for _, m := range p.PseudoMoves(p.turn, true) {
		if p.isLegal(m) {
			return true
		}
	}
	return false
}

// LegalMovesFrom returns the legal moves of the piece on sq.
func (p *Position) LegalMovesFrom(sq Square) []Move {
	pc := p.piece(sq)
	if pc == nil || pc.Color != p.turn {
		return nil
	}
	var legal []Move
	for _, m := range p.pieceMoves(pc, true) {
		if p.isLegal(m) {
			legal = append(legal, m)
		}
	}
	return legal
}

// FindLegal looks up the legal move between two squares.
func (p *Position) FindLegal(from, to Square) (Move, bool) {
	moves := p.LegalMovesFrom(from)
	i := slices.IndexFunc(moves, func(m Move) bool { return m.To == to })
	if i < 0 {
		return Move{}, false
	}
	return moves[i], true
}

func (p *Position) isLegal(m Move) bool {
	if !m.Eligible {
		return false
	}
	sim := p.Clone()
	sim.play(m)
	return !sim.InCheck(p.turn)
}
