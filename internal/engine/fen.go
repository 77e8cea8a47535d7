package engine

import (
	"strings"

	"github.com/pkg/errors"
)

var fenLetters = map[Kind]byte{Pawn: 'p', Rook: 'r', Knight: 'n', Bishop: 'b', King: 'k', Queen: 'q'}

// FEN renders the position in Forsyth-Edwards notation. Castling rights come from the
// move counters of kings and corner rooks. Move clocks are not tracked and are always
// written as "0 1".
func (p *Position) FEN() string {
	var b strings.Builder
	for r := 7; r >= 0; r-- {
		empty := 0
		for f := 0; f < 8; f++ {
			pc := p.board[f][r]
			if pc == nil {
				empty++
				continue
			}
			if empty > 0 {
				b.WriteByte(byte('0' + empty))
				empty = 0
			}
			letter := fenLetters[pc.Kind]
			if pc.Color == White {
				letter -= 'a' - 'A'
			}
			b.WriteByte(letter)
		}
		if empty > 0 {
			b.WriteByte(byte('0' + empty))
		}
		if r > 0 {
			b.WriteByte('/')
		}
	}
	if p.turn == White {
		b.WriteString(" w ")
	} else {
		b.WriteString(" b ")
	}
	b.WriteString(p.castlingRights())
	b.WriteByte(' ')
	if p.hasEnPassant {
		b.WriteString(p.enPassant.String())
	} else {
		b.WriteByte('-')
	}
	b.WriteString(" 0 1")
	return b.String()
}

func (p *Position) castlingRights() string {
	var rights string
	for _, c := range []Color{White, Black} {
		rank := c.HomeRank()
		king := p.piece(Sq(4, rank))
		if king == nil || king.Kind != King || king.Color != c || king.MoveCount != 0 {
			continue
		}
		for _, side := range []struct {
			file   int
			letter string
		}{{7, "k"}, {0, "q"}} {
			rook := p.piece(Sq(side.file, rank))
			if rook == nil || rook.Kind != Rook || rook.Color != c || rook.MoveCount != 0 {
				continue
			}
			if c == White {
				rights += strings.ToUpper(side.letter)
			} else {
				rights += side.letter
			}
		}
	}
	if rights == "" {
		return "-"
	}
	return rights
}

// ParseFEN builds a position from Forsyth-Edwards notation. Only the placement and side
// to move are required. Move counters are reconstructed: kings and corner rooks without
// castling rights, and pawns off their starting rank, count as having moved once.
func ParseFEN(fen string) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 2 {
		return nil, errors.Wrapf(ErrBadFEN, "%q: want at least placement and side to move", fen)
	}

	var turn Color
	switch fields[1] {
	case "w":
		turn = White
	case "b":
		turn = Black
	default:
		return nil, errors.Wrapf(ErrBadFEN, "side to move %q", fields[1])
	}
	p := emptyPosition(turn)

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, errors.Wrapf(ErrBadFEN, "%d ranks in placement", len(ranks))
	}
	for i, row := range ranks {
		rank := 7 - i
		file := 0
		for _, ch := range row {
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			kind, color, ok := fenPiece(ch)
			if !ok {
				return nil, errors.Wrapf(ErrBadFEN, "unknown piece %q", ch)
			}
			if file > 7 {
				return nil, errors.Wrapf(ErrBadFEN, "rank %d overflows", rank+1)
			}
			if err := p.put(newPiece(kind, color, Sq(file, rank))); err != nil {
				return nil, err
			}
			file++
		}
		if file != 8 {
			return nil, errors.Wrapf(ErrBadFEN, "rank %d has %d files", rank+1, file)
		}
	}

	rights := "-"
	if len(fields) > 2 {
		rights = fields[2]
	}
	p.each(func(pc *Piece) {
		pc.MoveCount = initialMoveCount(pc, rights)
	})

	if len(fields) > 3 && fields[3] != "-" {
		sq, err := ParseSquare(fields[3])
		if err != nil {
			return nil, errors.Wrapf(ErrBadFEN, "en passant square %q", fields[3])
		}
		p.enPassant, p.hasEnPassant = sq, true
	}

	if err := p.Validate(); err != nil {
		return nil, errors.Wrapf(ErrBadFEN, "%s", err)
	}
	return p, nil
}

func fenPiece(ch rune) (Kind, Color, bool) {
	color := Black
	lower := ch
	if ch >= 'A' && ch <= 'Z' {
		color = White
		lower = ch + ('a' - 'A')
	}
	for kind, letter := range fenLetters {
		if rune(letter) == lower {
			return kind, color, true
		}
	}
	return 0, 0, false
}

func initialMoveCount(pc *Piece, rights string) int {
	home := pc.Square.Rank == pc.Color.HomeRank()
	hasRight := func(letter byte) bool {
		if pc.Color == White {
			letter -= 'a' - 'A'
		}
		return strings.IndexByte(rights, letter) >= 0
	}
	switch pc.Kind {
	case Pawn:
		if pc.Square.Rank == pc.Color.PawnRank() {
			return 0
		}
	case King:
		if home && pc.Square.File == 4 && (hasRight('k') || hasRight('q')) {
			return 0
		}
	case Rook:
		if home && pc.Square.File == 7 && hasRight('k') {
			return 0
		}
		if home && pc.Square.File == 0 && hasRight('q') {
			return 0
		}
	default:
		return 0
	}
	return 1
}
