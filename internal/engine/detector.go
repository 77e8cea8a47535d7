package engine

// State classifies a position for the side to move.
type State uint8

const (
	Normal State = iota
	Check
	Checkmate
	Stalemate
)

func (s State) String() string {
	switch s {
	case Check:
		return "check"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	}
	return "normal"
}

// Terminal reports whether the game is over; no moves may be requested afterwards.
func (s State) Terminal() bool {
	return s == Checkmate || s == Stalemate
}

// AttackersOf returns the enemy pieces that threaten target's square.
func (p *Position) AttackersOf(target Piece) []Piece {
	var attackers []Piece
	for _, pc := range p.piecesOf(target.Color.Opponent()) {
		for _, sq := range p.AttackedSquares(*pc) {
			if sq == target.Square {
				attackers = append(attackers, *pc)
				break
			}
		}
	}
	return attackers
}

// IsSquareAttacked reports whether any piece of color by threatens sq.
func (p *Position) IsSquareAttacked(sq Square, by Color) bool {
	for _, pc := range p.piecesOf(by) {
		for _, target := range p.AttackedSquares(*pc) {
			if target == sq {
				return true
			}
		}
	}
	return false
}

// InCheck reports whether the king of color is attacked.
func (p *Position) InCheck(color Color) bool {
	king := p.king(color)
	if king == nil {
		return false
	}
	return p.IsSquareAttacked(king.Square, color.Opponent())
}

// Classify evaluates the position for the side to move.
func (p *Position) Classify() State {
	inCheck := p.InCheck(p.turn)
	hasMoves := p.HasLegalMoves()
	switch {
	case inCheck && !hasMoves:
		return Checkmate
	case !inCheck && !hasMoves:
		return Stalemate
	case inCheck:
		return Check
	}
	return Normal
}
