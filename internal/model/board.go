package model

import (
	"fmt"

	"github.com/benbeisheim/chess-ai-backend/internal/engine"
)

type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

func pieceType(k engine.Kind) PieceType {
	return PieceType(k.String())
}

// BoardState is the board as the client draws it: Board[y][x] with y = 0 on Black's
// back rank.
type BoardState struct {
	Board             [][]*Piece `json:"board"`
	BlackKingPosition Position   `json:"blackKingPosition"`
	WhiteKingPosition Position   `json:"whiteKingPosition"`
}

type Piece struct {
	Type     PieceType `json:"type"`
	Color    string    `json:"color"`
	Position Position  `json:"position"`
	HasMoved bool      `json:"hasMoved"`
}

// Position is a client board coordinate.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func positionOf(sq engine.Square) Position {
	return Position{X: sq.File, Y: 7 - sq.Rank}
}

func (p Position) square() engine.Square {
	return engine.Sq(p.X, 7-p.Y)
}

func (p Position) getSquareNotation() string {
	return fmt.Sprintf("%c%d", p.X+97, 8-p.Y)
}

func (p Position) getFileNotation() string {
	return fmt.Sprintf("%c", p.X+97)
}

func (p Position) getRankNotation() string {
	return fmt.Sprintf("%d", 8-p.Y)
}

func clientPiece(pc engine.Piece) *Piece {
	return &Piece{
		Type:     pieceType(pc.Kind),
		Color:    pc.Color.String(),
		Position: positionOf(pc.Square),
		HasMoved: pc.MoveCount > 0,
	}
}

func newBoardState(pos *engine.Position) *BoardState {
	board := &BoardState{}
	for i := 0; i < 8; i++ {
		board.Board = append(board.Board, make([]*Piece, 8))
	}
	for _, pc := range pos.Pieces() {
		cp := clientPiece(pc)
		board.Board[cp.Position.Y][cp.Position.X] = cp
		if pc.Kind == engine.King {
			switch pc.Color {
			case engine.White:
				board.WhiteKingPosition = cp.Position
			case engine.Black:
				board.BlackKingPosition = cp.Position
			}
		}
	}
	return board
}

// ParsePosition reads an algebraic square such as "e2".
func ParsePosition(s string) (Position, error) {
	sq, err := engine.ParseSquare(s)
	if err != nil {
		return Position{}, err
	}
	return positionOf(sq), nil
}
