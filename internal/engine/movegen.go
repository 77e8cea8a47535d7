package engine

type direction struct{ df, dr int }

var (
	rookDirs   = []direction{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopDirs = []direction{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	queenDirs  = append(append([]direction{}, rookDirs...), bishopDirs...)
	kingDirs   = queenDirs
	knightDirs = []direction{{2, 1}, {2, -1}, {-2, 1}, {-2, -1}, {1, 2}, {1, -2}, {-1, 2}, {-1, -2}}
)

// PseudoMoves lists the moves of every piece of color that respect movement shape and
// occupancy, whether or not they leave the own king attacked. special adds castling
// candidates; it must be false whenever attacked squares are being computed.
func (p *Position) PseudoMoves(color Color, special bool) []Move {
	var moves []Move
	for _, pc := range p.piecesOf(color) {
		moves = append(moves, p.pieceMoves(pc, special)...)
	}
	return moves
}

// PseudoMovesFrom lists the pseudo-legal moves of the piece on sq.
func (p *Position) PseudoMovesFrom(sq Square, special bool) []Move {
	pc := p.piece(sq)
	if pc == nil {
		return nil
	}
	return p.pieceMoves(pc, special)
}

func (p *Position) pieceMoves(pc *Piece, special bool) []Move {
	switch pc.Kind {
	case Pawn:
		return p.pawnMoves(pc)
	case Rook:
		return p.slidingMoves(pc, rookDirs)
	case Bishop:
		return p.slidingMoves(pc, bishopDirs)
	case Queen:
		return p.slidingMoves(pc, queenDirs)
	case Knight:
		return p.stepMoves(pc, knightDirs)
	case King:
		moves := p.stepMoves(pc, kingDirs)
		if special {
			moves = append(moves, p.castlingMoves(pc)...)
		}
		return moves
	}
	return nil
}

func (p *Position) pawnMoves(pc *Piece) []Move {
	var moves []Move
	fwd := pc.Color.Forward()
	add := func(to Square, kind MoveKind) {
		if to.Rank == pc.Color.PromotionRank() {
			kind = MovePromotion
		}
		moves = append(moves, Move{From: pc.Square, To: to, Kind: kind, Eligible: true})
	}

	one := pc.Square.Add(0, fwd)
	if p.empty(one) {
		add(one, MoveOrdinary)
		two := pc.Square.Add(0, 2*fwd)
		if pc.MoveCount == 0 && p.empty(two) {
			add(two, MoveOrdinary)
		}
	}
	for _, df := range []int{-1, 1} {
		to := pc.Square.Add(df, fwd)
		if !to.InBounds() {
			continue
		}
		if target := p.piece(to); target != nil {
			if target.Color != pc.Color {
				add(to, MoveOrdinary)
			}
			continue
		}
		if p.canCaptureEnPassant(pc, to) {
			add(to, MoveEnPassant)
		}
	}
	return moves
}

// canCaptureEnPassant reports whether pc may take the pawn that just passed over to.
func (p *Position) canCaptureEnPassant(pc *Piece, to Square) bool {
	if !p.hasEnPassant || p.enPassant != to || pc.Color != p.turn {
		return false
	}
	victim := p.piece(Sq(to.File, pc.Square.Rank))
	return victim != nil && victim.Kind == Pawn && victim.Color != pc.Color
}

func (p *Position) slidingMoves(pc *Piece, dirs []direction) []Move {
	var moves []Move
	for _, d := range dirs {
		for to := pc.Square.Add(d.df, d.dr); to.InBounds(); to = to.Add(d.df, d.dr) {
			target := p.piece(to)
			if target == nil {
				moves = append(moves, Move{From: pc.Square, To: to, Eligible: true})
				continue
			}
			if target.Color != pc.Color {
				moves = append(moves, Move{From: pc.Square, To: to, Eligible: true})
			}
			break
		}
	}
	return moves
}

func (p *Position) stepMoves(pc *Piece, dirs []direction) []Move {
	var moves []Move
	for _, d := range dirs {
		to := pc.Square.Add(d.df, d.dr)
		if !to.InBounds() {
			continue
		}
		if target := p.piece(to); target == nil || target.Color != pc.Color {
			moves = append(moves, Move{From: pc.Square, To: to, Eligible: true})
		}
	}
	return moves
}

type castlingSide struct {
	rookFile int
	between  []int // files that must be empty
	transit  []int // files the king crosses, must not be attacked
	kingTo   int
	rookTo   int
}

var castlingSides = []castlingSide{
	{rookFile: 0, between: []int{1, 2, 3}, transit: []int{3, 2}, kingTo: 2, rookTo: 3},
	{rookFile: 7, between: []int{5, 6}, transit: []int{5, 6}, kingTo: 6, rookTo: 5},
}

// castlingMoves builds castling candidates for an unmoved king. A candidate whose king
// square or transit squares are attacked is still returned, marked not Eligible.
func (p *Position) castlingMoves(king *Piece) []Move {
	rank := king.Color.HomeRank()
	if king.MoveCount != 0 || king.Square != Sq(4, rank) {
		return nil
	}
	var moves []Move
	enemy := king.Color.Opponent()
	for _, side := range castlingSides {
		rook := p.piece(Sq(side.rookFile, rank))
		if rook == nil || rook.Kind != Rook || rook.Color != king.Color || rook.MoveCount != 0 {
			continue
		}
		clear := true
		for _, f := range side.between {
			if !p.empty(Sq(f, rank)) {
				clear = false
				break
			}
		}
		if !clear {
			continue
		}
		safe := !p.IsSquareAttacked(king.Square, enemy)
		for _, f := range side.transit {
			if !safe {
				break
			}
			safe = !p.IsSquareAttacked(Sq(f, rank), enemy)
		}
		moves = append(moves, Move{
			From:     king.Square,
			To:       Sq(side.kingTo, rank),
			Kind:     MoveCastle,
			RookFrom: rook.Square,
			RookTo:   Sq(side.rookTo, rank),
			Eligible: safe,
		})
	}
	return moves
}

// AttackedSquares lists the squares pc threatens. For most pieces these are the
// destinations of its non-special pseudo-legal moves; a pawn threatens its two forward
// diagonals whatever stands on them.
func (p *Position) AttackedSquares(pc Piece) []Square {
	if pc.Kind == Pawn {
		var squares []Square
		for _, df := range []int{-1, 1} {
			if sq := pc.Square.Add(df, pc.Color.Forward()); sq.InBounds() {
				squares = append(squares, sq)
			}
		}
		return squares
	}
	live := p.piece(pc.Square)
	if live == nil {
		return nil
	}
	moves := p.pieceMoves(live, false)
	squares := make([]Square, 0, len(moves))
	for _, m := range moves {
		squares = append(squares, m.To)
	}
	return squares
}
