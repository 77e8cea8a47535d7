package engine

import (
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// Position is a full game state: who stands where, who is to move, and the en-passant
// target left by the previous double step. A Position handed to a search or a legality
// check is never mutated by it; simulations work on clones.
type Position struct {
	board [8][8]*Piece // [file][rank]
	turn  Color

	enPassant    Square
	hasEnPassant bool
}

var backRank = [8]Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewPosition returns the standard starting layout with White to move.
func NewPosition() *Position {
	p := &Position{turn: White}
	for file, kind := range backRank {
		p.board[file][White.HomeRank()] = newPiece(kind, White, Sq(file, White.HomeRank()))
		p.board[file][White.PawnRank()] = newPiece(Pawn, White, Sq(file, White.PawnRank()))
		p.board[file][Black.HomeRank()] = newPiece(kind, Black, Sq(file, Black.HomeRank()))
		p.board[file][Black.PawnRank()] = newPiece(Pawn, Black, Sq(file, Black.PawnRank()))
	}
	return p
}

// emptyPosition is the starting point for positions assembled piece by piece.
func emptyPosition(turn Color) *Position {
	return &Position{turn: turn}
}

// Clone returns a deep copy; no piece is shared between the two positions.
func (p *Position) Clone() *Position {
	c := &Position{
		turn:         p.turn,
		enPassant:    p.enPassant,
		hasEnPassant: p.hasEnPassant,
	}
	for f := 0; f < 8; f++ {
		for r := 0; r < 8; r++ {
			if pc := p.board[f][r]; pc != nil {
				c.board[f][r] = pc.clone()
			}
		}
	}
	return c
}

func (p *Position) Turn() Color {
	return p.turn
}

// EnPassantTarget returns the square a pawn may capture onto en passant this turn.
func (p *Position) EnPassantTarget() (Square, bool) {
	return p.enPassant, p.hasEnPassant
}

// At returns the piece on sq. Off-board squares are always empty.
func (p *Position) At(sq Square) (Piece, bool) {
	pc := p.piece(sq)
	if pc == nil {
		return Piece{}, false
	}
	return *pc, true
}

func (p *Position) piece(sq Square) *Piece {
	if !sq.InBounds() {
		return nil
	}
	return p.board[sq.File][sq.Rank]
}

func (p *Position) empty(sq Square) bool {
	return sq.InBounds() && p.board[sq.File][sq.Rank] == nil
}

// Pieces lists every piece on the board, rank by rank from a1.
func (p *Position) Pieces() []Piece {
	pieces := make([]Piece, 0, 32)
	p.each(func(pc *Piece) {
		pieces = append(pieces, *pc)
	})
	return pieces
}

func (p *Position) each(fn func(pc *Piece)) {
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			if pc := p.board[f][r]; pc != nil {
				fn(pc)
			}
		}
	}
}

func (p *Position) piecesOf(color Color) []*Piece {
	pieces := make([]*Piece, 0, 16)
	p.each(func(pc *Piece) {
		if pc.Color == color {
			pieces = append(pieces, pc)
		}
	})
	return pieces
}

// KingOf returns the king of the given color.
func (p *Position) KingOf(color Color) (Piece, bool) {
	if k := p.king(color); k != nil {
		return *k, true
	}
	return Piece{}, false
}

func (p *Position) king(color Color) *Piece {
	for f := 0; f < 8; f++ {
		for r := 0; r < 8; r++ {
			if pc := p.board[f][r]; pc != nil && pc.Kind == King && pc.Color == color {
				return pc
			}
		}
	}
	return nil
}

// put places a new piece. Two pieces on one square is an invariant violation.
func (p *Position) put(pc *Piece) error {
	if !pc.Square.InBounds() {
		return errors.Wrapf(ErrOutOfBounds, "cannot place %s %s", pc.Color, pc.Kind)
	}
	if other := p.piece(pc.Square); other != nil {
		return errors.Wrapf(ErrInvariantViolation, "%s already occupied by %s %s", pc.Square, other.Color, other.Kind)
	}
	p.board[pc.Square.File][pc.Square.Rank] = pc
	return nil
}

// Apply plays m on the position and returns what changed.
//
// It checks that the move is on the board and that the side to move owns the piece on
// m.From; it does not check legality, use LegalMoves or FindLegal for that. Castling,
// en passant and promotion are recognised from the piece and geometry, so a move built
// from two squares alone is applied correctly.
func (p *Position) Apply(m Move) ([]Event, error) {
	if !m.From.InBounds() || !m.To.InBounds() {
		return nil, errors.Wrapf(ErrOutOfBounds, "move %s -> %s", m.From, m.To)
	}
	mover := p.piece(m.From)
	if mover == nil {
		return nil, errors.Wrapf(ErrIllegalMover, "no piece on %s", m.From)
	}
	if mover.Color != p.turn {
		return nil, errors.Wrapf(ErrIllegalMover, "%s, but %s is to move", mover, p.turn)
	}
	if m.From == m.To {
		return nil, errors.Wrapf(ErrInvariantViolation, "%s does not leave %s", mover.Kind, m.From)
	}
	if target := p.piece(m.To); target != nil && target.Color == mover.Color {
		return nil, errors.Wrapf(ErrInvariantViolation, "%s cannot capture own %s on %s", mover, target.Kind, m.To)
	}
	m = p.resolve(mover, m)
	switch m.Kind {
	case MoveCastle:
		rook := p.piece(m.RookFrom)
		if rook == nil || rook.Kind != Rook || rook.Color != mover.Color {
			return nil, errors.Wrapf(ErrInvariantViolation, "no %s rook on %s to castle with", mover.Color, m.RookFrom)
		}
		if occupant := p.piece(m.RookTo); occupant != nil {
			return nil, errors.Wrapf(ErrInvariantViolation, "castling rook blocked on %s", m.RookTo)
		}
	case MoveEnPassant:
		victim := p.piece(enPassantVictim(m))
		if victim == nil || victim.Kind != Pawn || victim.Color == mover.Color {
			return nil, errors.Wrapf(ErrInvariantViolation, "no pawn to capture en passant behind %s", m.To)
		}
	}
	return p.play(m), nil
}

// resolve fills in the special-move kind a bare from/to move implies.
func (p *Position) resolve(mover *Piece, m Move) Move {
	switch mover.Kind {
	case King:
		if abs(m.To.File-m.From.File) == 2 && m.To.Rank == m.From.Rank {
			m.Kind = MoveCastle
			m.RookFrom, m.RookTo = castleRookSquares(m.From, m.To)
		}
	case Pawn:
		switch {
		case m.To.Rank == mover.Color.PromotionRank():
			m.Kind = MovePromotion
		case m.To.File != m.From.File && p.piece(m.To) == nil:
			m.Kind = MoveEnPassant
		}
	}
	return m
}

func enPassantVictim(m Move) Square {
	return Sq(m.To.File, m.From.Rank)
}

// play performs an already validated move.
func (p *Position) play(m Move) []Event {
	events := make([]Event, 0, 3)
	mover := p.board[m.From.File][m.From.Rank]

	captureAt := m.To
	if m.Kind == MoveEnPassant {
		captureAt = enPassantVictim(m)
	}
	if victim := p.board[captureAt.File][captureAt.Rank]; victim != nil {
		p.board[captureAt.File][captureAt.Rank] = nil
		events = append(events, Event{Kind: EventCaptured, Piece: *victim, From: captureAt, To: captureAt})
	}

	p.relocate(mover, m.To)
	events = append(events, Event{Kind: EventMoved, Piece: *mover, From: m.From, To: m.To})

	if m.Kind == MoveCastle {
		rook := p.board[m.RookFrom.File][m.RookFrom.Rank]
		p.relocate(rook, m.RookTo)
		events = append(events, Event{Kind: EventMoved, Piece: *rook, From: m.RookFrom, To: m.RookTo})
	}

	if mover.Kind == Pawn && m.To.Rank == mover.Color.PromotionRank() {
		queen := newPiece(Queen, mover.Color, m.To)
		queen.MoveCount = mover.MoveCount
		p.board[m.To.File][m.To.Rank] = queen
		events = append(events, Event{Kind: EventPromoted, Piece: *queen, From: m.To, To: m.To})
	}

	p.hasEnPassant = false
	if mover.Kind == Pawn && abs(m.To.Rank-m.From.Rank) == 2 {
		p.enPassant = Sq(m.From.File, m.From.Rank+mover.Color.Forward())
		p.hasEnPassant = true
	}
	p.turn = p.turn.Opponent()
	return events
}

func (p *Position) relocate(pc *Piece, to Square) {
	p.board[pc.Square.File][pc.Square.Rank] = nil
	pc.Square = to
	pc.MoveCount++
	p.board[to.File][to.Rank] = pc
}

// Validate checks the structural invariants of the position and reports every
// violation it finds.
func (p *Position) Validate() error {
	var result *multierror.Error
	kings := map[Color]int{}
	for f := 0; f < 8; f++ {
		for r := 0; r < 8; r++ {
			pc := p.board[f][r]
			if pc == nil {
				continue
			}
			if pc.Square != Sq(f, r) {
				result = multierror.Append(result, errors.Wrapf(ErrInvariantViolation, "%s stored on %s", pc, Sq(f, r)))
			}
			if !pc.Kind.Valid() {
				result = multierror.Append(result, errors.Wrapf(ErrInvariantViolation, "unknown piece kind on %s", pc.Square))
			}
			if pc.Kind == King {
				kings[pc.Color]++
			}
			if pc.Kind == Pawn && (r == 0 || r == 7) {
				result = multierror.Append(result, errors.Wrapf(ErrInvariantViolation, "%s on a back rank", pc))
			}
		}
	}
	for _, c := range []Color{White, Black} {
		if kings[c] != 1 {
			result = multierror.Append(result, errors.Wrapf(ErrInvariantViolation, "%d %s kings", kings[c], c))
		}
	}
	return result.ErrorOrNil()
}

// Equal compares piece layout, move counters, turn and en-passant target.
func (p *Position) Equal(other *Position) bool {
	if p.turn != other.turn || p.hasEnPassant != other.hasEnPassant {
		return false
	}
	if p.hasEnPassant && p.enPassant != other.enPassant {
		return false
	}
	for f := 0; f < 8; f++ {
		for r := 0; r < 8; r++ {
			a, b := p.board[f][r], other.board[f][r]
			if (a == nil) != (b == nil) {
				return false
			}
			if a != nil && *a != *b {
				return false
			}
		}
	}
	return true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
