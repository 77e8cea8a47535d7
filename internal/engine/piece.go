package engine

import (
	"fmt"

	"github.com/pkg/errors"
)

type Kind uint8

const (
	Pawn Kind = iota
	Rook
	Knight
	Bishop
	King
	Queen
)

var kindNames = [...]string{
	Pawn:   "pawn",
	Rook:   "rook",
	Knight: "knight",
	Bishop: "bishop",
	King:   "king",
	Queen:  "queen",
}

// material values used by the static evaluator
var kindValues = [...]float32{
	Pawn:   10,
	Rook:   50,
	Knight: 30,
	Bishop: 30,
	King:   900,
	Queen:  90,
}

func (k Kind) Valid() bool {
	return int(k) < len(kindNames)
}

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("kind(%d)", k)
	}
	return kindNames[k]
}

// Letter returns the notation letter for the kind, empty for pawns.
func (k Kind) Letter() string {
	switch k {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	}
	return ""
}

func (k Kind) Value() float32 {
	return kindValues[k]
}

func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), nil
		}
	}
	return 0, errors.Errorf("unknown piece kind %q", s)
}

func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, errors.Errorf("unknown piece kind %d", k)
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

type Color uint8

const (
	White Color = iota
	Black
)

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// Forward is the rank direction pawns of this color advance in.
func (c Color) Forward() int {
	if c == White {
		return 1
	}
	return -1
}

func (c Color) HomeRank() int {
	if c == White {
		return 0
	}
	return 7
}

func (c Color) PawnRank() int {
	return c.HomeRank() + c.Forward()
}

func (c Color) PromotionRank() int {
	return c.Opponent().HomeRank()
}

func ParseColor(s string) (Color, error) {
	switch s {
	case "white":
		return White, nil
	case "black":
		return Black, nil
	}
	return 0, errors.Errorf("unknown color %q", s)
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Piece is a single occupant of the board. MoveCount counts how many times it has moved
// and drives castling and pawn double-step eligibility.
type Piece struct {
	Kind      Kind
	Color     Color
	Square    Square
	MoveCount int
}

func newPiece(kind Kind, color Color, sq Square) *Piece {
	switch kind {
	case Pawn, Rook, Knight, Bishop, King, Queen:
		return &Piece{Kind: kind, Color: color, Square: sq}
	}
	panic(fmt.Sprintf("engine: unknown piece kind %d", kind))
}

func (p *Piece) clone() *Piece {
	c := *p
	return &c
}

func (p Piece) String() string {
	return fmt.Sprintf("%s %s on %s", p.Color, p.Kind, p.Square)
}
