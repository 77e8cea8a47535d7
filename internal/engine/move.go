package engine

import "fmt"

type MoveKind uint8

const (
	MoveOrdinary MoveKind = iota
	MoveCastle
	MoveEnPassant
	MovePromotion
)

func (k MoveKind) String() string {
	switch k {
	case MoveCastle:
		return "castle"
	case MoveEnPassant:
		return "en-passant"
	case MovePromotion:
		return "promotion"
	}
	return "ordinary"
}

// Move is a candidate or applied move. Castling moves carry the rook relocation.
//
// Eligible is false for candidates that already break a cheap rule (a castle through an
// attacked square); those are listed for completeness but never become legal.
type Move struct {
	From     Square
	To       Square
	Kind     MoveKind
	RookFrom Square
	RookTo   Square
	Eligible bool
}

// SameSquares reports whether both moves go between the same two squares.
func (m Move) SameSquares(other Move) bool {
	return m.From == other.From && m.To == other.To
}

func (m Move) String() string {
	s := fmt.Sprintf("%s%s", m.From, m.To)
	if m.Kind == MovePromotion {
		s += "q"
	}
	return s
}

// castleRookSquares returns the rook relocation for a king moving two files along its rank.
func castleRookSquares(from, to Square) (rookFrom, rookTo Square) {
	if to.File < from.File {
		return Sq(0, from.Rank), Sq(3, from.Rank)
	}
	return Sq(7, from.Rank), Sq(5, from.Rank)
}

type EventKind uint8

const (
	EventMoved EventKind = iota
	EventCaptured
	EventPromoted
)

func (k EventKind) String() string {
	switch k {
	case EventCaptured:
		return "captured"
	case EventPromoted:
		return "promoted"
	}
	return "moved"
}

// Event describes one change Apply made to the board, in order. A shell renders or
// records these instead of hooking into piece internals.
//
//   - EventMoved: Piece travelled From -> To (Piece holds the state after the move).
//   - EventCaptured: Piece was removed from From (the en-passant victim is not on To).
//   - EventPromoted: the pawn on To was replaced by Piece.
type Event struct {
	Kind  EventKind
	Piece Piece
	From  Square
	To    Square
}
