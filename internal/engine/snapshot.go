package engine

import (
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// PieceSnapshot is the persisted form of a piece.
type PieceSnapshot struct {
	Kind      Kind   `json:"kind"`
	Color     Color  `json:"color"`
	Square    Square `json:"square"`
	MoveCount int    `json:"moveCount"`
}

// Snapshot is everything needed to restore a position: the pieces and the side to move.
// Legal moves are derived and never stored; the en-passant right does not survive a
// snapshot.
type Snapshot struct {
	Pieces []PieceSnapshot `json:"pieces"`
	Turn   Color           `json:"turn"`
}

func (p *Position) Snapshot() Snapshot {
	snap := Snapshot{Turn: p.turn, Pieces: make([]PieceSnapshot, 0, 32)}
	p.each(func(pc *Piece) {
		snap.Pieces = append(snap.Pieces, PieceSnapshot{
			Kind:      pc.Kind,
			Color:     pc.Color,
			Square:    pc.Square,
			MoveCount: pc.MoveCount,
		})
	})
	return snap
}

// FromSnapshot rebuilds a position, reporting every problem found in the snapshot.
func FromSnapshot(s Snapshot) (*Position, error) {
	if s.Turn != White && s.Turn != Black {
		return nil, errors.Wrapf(ErrBadSnapshot, "turn %d", s.Turn)
	}
	p := emptyPosition(s.Turn)
	var result *multierror.Error
	for _, ps := range s.Pieces {
		if !ps.Kind.Valid() || (ps.Color != White && ps.Color != Black) || ps.MoveCount < 0 {
			result = multierror.Append(result, errors.Wrapf(ErrBadSnapshot, "piece on %s", ps.Square))
			continue
		}
		pc := newPiece(ps.Kind, ps.Color, ps.Square)
		pc.MoveCount = ps.MoveCount
		if err := p.put(pc); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if result != nil {
		return nil, result.ErrorOrNil()
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
