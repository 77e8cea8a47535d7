package engine

import (
	"fmt"

	"github.com/pkg/errors"
)

// Square is a board coordinate. Rank 0 is White's back rank.
type Square struct {
	File int `json:"file"`
	Rank int `json:"rank"`
}

func Sq(file, rank int) Square {
	return Square{File: file, Rank: rank}
}

func (s Square) InBounds() bool {
	return s.File >= 0 && s.File < 8 && s.Rank >= 0 && s.Rank < 8
}

func (s Square) Add(df, dr int) Square {
	return Square{File: s.File + df, Rank: s.Rank + dr}
}

func (s Square) String() string {
	if !s.InBounds() {
		return fmt.Sprintf("(%d,%d)", s.File, s.Rank)
	}
	return fmt.Sprintf("%c%d", 'a'+s.File, s.Rank+1)
}

// ParseSquare reads algebraic coordinates such as "e4".
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return Square{}, errors.Wrapf(ErrOutOfBounds, "square %q", s)
	}
	sq := Sq(int(s[0]-'a'), int(s[1]-'1'))
	if !sq.InBounds() {
		return Square{}, errors.Wrapf(ErrOutOfBounds, "square %q", s)
	}
	return sq, nil
}
