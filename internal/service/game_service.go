package service

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/benbeisheim/chess-ai-backend/internal/model"
	"github.com/benbeisheim/chess-ai-backend/internal/storage"
)

type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

func (gs *GameService) JoinGame(gameID string, playerID string) (model.PlayerColor, error) {
	return gs.gameManager.AddPlayerToGame(gameID, playerID)
}

func (gs *GameService) CreateGame() (string, error) {
	gameID := uuid.New().String()

	if err := gs.gameManager.CreateGame(gameID); err != nil {
		return "", errors.Wrap(err, "failed to create game")
	}

	return gameID, nil
}

// CreateAIGame seats playerID on color against the engine. An empty color means white.
func (gs *GameService) CreateAIGame(playerID string, color model.PlayerColor) (string, model.PlayerColor, error) {
	if color == "" {
		color = model.PlayerColorWhite
	}
	human, ok := color.Engine()
	if !ok {
		return "", "", errors.Wrapf(model.ErrInvalidColor, "%q", color)
	}

	gameID := uuid.New().String()
	if err := gs.gameManager.CreateAIGame(gameID, human.Opponent()); err != nil {
		return "", "", errors.Wrap(err, "failed to create ai game")
	}
	joined, err := gs.gameManager.AddPlayerToGame(gameID, playerID)
	if err != nil {
		return "", "", err
	}
	return gameID, joined, nil
}

func (gs *GameService) JoinMatchmaking(playerID string) error {
	return gs.gameManager.JoinMatchmaking(playerID)
}

func (gs *GameService) GetGameState(gameID string) (model.GameState, error) {
	return gs.gameManager.GetGameState(gameID)
}

func (gs *GameService) LegalMoves(gameID string, from *model.Position) ([]model.SimpleMove, error) {
	return gs.gameManager.LegalMoves(gameID, from)
}

func (gs *GameService) HandleMove(gameID string, playerID string, move model.WSMove) error {
	return gs.gameManager.MakeMove(gameID, playerID, move)
}

func (gs *GameService) Resign(gameID string, playerID string) error {
	return gs.gameManager.Resign(gameID, playerID)
}

func (gs *GameService) SaveGame(gameID string) (storage.Record, error) {
	return gs.gameManager.SaveGame(gameID)
}

func (gs *GameService) LoadGame(snapshotID string) (string, error) {
	return gs.gameManager.LoadGame(snapshotID)
}

func (gs *GameService) ListSnapshots() ([]storage.Record, error) {
	return gs.gameManager.ListSnapshots()
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn model.Conn) error {
	return gs.gameManager.RegisterConnection(gameID, playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string, conn model.Conn) {
	gs.gameManager.UnregisterConnection(gameID, playerID, conn)
}

func (gs *GameService) SendError(gameID string, playerID string, cause error) error {
	return gs.gameManager.SendError(gameID, playerID, cause)
}

func (gs *GameService) RegisterMatchmakingChannel(playerID string, ch chan string) {
	gs.gameManager.RegisterMatchmakingChannel(playerID, ch)
}

func (gs *GameService) UnregisterMatchmakingChannel(playerID string, ch chan string) {
	gs.gameManager.UnregisterMatchmakingChannel(playerID, ch)
}
