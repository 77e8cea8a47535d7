package model

import "github.com/benbeisheim/chess-ai-backend/internal/engine"

// AIPlayerID occupies the seat of the automated player in AI games.
const AIPlayerID = "computer"

type Player struct {
	ID string
}

type ClientPlayer struct {
	ID       string `json:"name"`
	Color    string `json:"color"`
	TimeLeft int    `json:"timeLeft"`
}

type PlayerColor string

const (
	PlayerColorWhite PlayerColor = "white"
	PlayerColorBlack PlayerColor = "black"
)

func playerColor(c engine.Color) PlayerColor {
	if c == engine.White {
		return PlayerColorWhite
	}
	return PlayerColorBlack
}

func (c PlayerColor) Engine() (engine.Color, bool) {
	switch c {
	case PlayerColorWhite:
		return engine.White, true
	case PlayerColorBlack:
		return engine.Black, true
	}
	return 0, false
}
