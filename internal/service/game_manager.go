package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/benbeisheim/chess-ai-backend/internal/engine"
	"github.com/benbeisheim/chess-ai-backend/internal/model"
	"github.com/benbeisheim/chess-ai-backend/internal/storage"
	"github.com/benbeisheim/chess-ai-backend/internal/ws"
)

// SnapshotStore persists game positions.
type SnapshotStore interface {
	Save(gameID string, snap engine.Snapshot) (storage.Record, error)
	Load(id string) (storage.Record, error)
	List() ([]storage.Record, error)
}

type Options struct {
	ClockTime           time.Duration
	MatchmakingInterval time.Duration
	Store               SnapshotStore
	AI                  *AIPlayer
	Log                 zerolog.Logger
}

type GameManager struct {
	games            map[string]*model.Game
	queue            *model.Queue
	matchingChannels map[string]chan string
	mu               sync.RWMutex

	clockTime time.Duration
	store     SnapshotStore
	ai        *AIPlayer
	log       zerolog.Logger

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func NewGameManager(opts Options) *GameManager {
	gm := &GameManager{
		games:            make(map[string]*model.Game),
		queue:            model.NewQueue(),
		matchingChannels: make(map[string]chan string),
		clockTime:        opts.ClockTime,
		store:            opts.Store,
		ai:               opts.AI,
		log:              opts.Log,
		stop:             make(chan struct{}),
		done:             make(chan struct{}),
	}

	// Start matchmaking processor
	go gm.processMatchmaking(opts.MatchmakingInterval)

	return gm
}

// Stop ends matchmaking and waits for running AI searches.
func (gm *GameManager) Stop() {
	gm.stopOnce.Do(func() {
		close(gm.stop)
		<-gm.done
		if gm.ai != nil {
			gm.ai.Wait()
		}
	})
}

func (gm *GameManager) RegisterMatchmakingChannel(playerID string, ch chan string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	gm.log.Debug().Str("player_id", playerID).Msg("registering matchmaking channel")

	if existingCh, exists := gm.matchingChannels[playerID]; exists {
		delete(gm.matchingChannels, playerID)
		close(existingCh)
	}
	gm.matchingChannels[playerID] = ch
}

// UnregisterMatchmakingChannel forgets ch and takes the player out of the queue. A
// channel that was already replaced or notified is left alone.
func (gm *GameManager) UnregisterMatchmakingChannel(playerID string, ch chan string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if current, exists := gm.matchingChannels[playerID]; exists && current == ch {
		delete(gm.matchingChannels, playerID)
		gm.queue.Remove(playerID)
	}
}

func (gm *GameManager) processMatchmaking(interval time.Duration) {
	defer close(gm.done)
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-gm.stop:
			return
		case <-ticker.C:
			gm.matchPlayers()
		}
	}
}

// matchPlayers pairs everyone waiting and notifies both sides of each new game.
func (gm *GameManager) matchPlayers() {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	for {
		player1, player2, ok := gm.queue.GetNextPair()
		if !ok {
			return
		}

		gameID := uuid.New().String()
		game := model.NewGame(gameID, gm.clockTime, gm.log)
		p1Color, err := game.AddPlayer(player1.ID)
		if err != nil {
			gm.log.Error().Err(err).Msg("adding matched player")
			continue
		}
		p2Color, err := game.AddPlayer(player2.ID)
		if err != nil {
			gm.log.Error().Err(err).Msg("adding matched player")
			continue
		}
		gm.games[gameID] = game
		gm.log.Info().Str("game_id", gameID).Str("white", player1.ID).Str("black", player2.ID).Msg("match found")

		gm.notifyMatchLocked(player1.ID, model.MatchFoundEvent{GameID: gameID, Color: p1Color})
		gm.notifyMatchLocked(player2.ID, model.MatchFoundEvent{GameID: gameID, Color: p2Color})
	}
}

func (gm *GameManager) notifyMatchLocked(playerID string, event model.MatchFoundEvent) {
	ch, ok := gm.matchingChannels[playerID]
	if !ok {
		gm.log.Warn().Str("player_id", playerID).Msg("matched player has no channel")
		return
	}
	delete(gm.matchingChannels, playerID)
	defer close(ch)

	data, err := ws.Encode(ws.MessageTypeMatchFound, event)
	if err != nil {
		gm.log.Error().Err(err).Msg("encoding match event")
		return
	}
	select {
	case ch <- string(data):
	default:
		gm.log.Warn().Str("player_id", playerID).Msg("match channel full")
	}
}

func (gm *GameManager) CreateGame(gameID string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return errors.Wrapf(model.ErrGameExists, "%s", gameID)
	}

	gm.games[gameID] = model.NewGame(gameID, gm.clockTime, gm.log)
	return nil
}

// CreateAIGame creates a game with the automated player on aiColor. If the engine
// plays White it starts thinking straight away.
func (gm *GameManager) CreateAIGame(gameID string, aiColor engine.Color) error {
	if gm.ai == nil {
		return errors.New("no ai player configured")
	}
	game := model.NewGame(gameID, gm.clockTime, gm.log)
	if err := game.SetAI(aiColor); err != nil {
		return err
	}

	gm.mu.Lock()
	if _, exists := gm.games[gameID]; exists {
		gm.mu.Unlock()
		return errors.Wrapf(model.ErrGameExists, "%s", gameID)
	}
	gm.games[gameID] = game
	gm.mu.Unlock()

	gm.ai.Play(game)
	return nil
}

func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, errors.Wrapf(model.ErrGameNotFound, "%s", gameID)
	}

	return game, nil
}

func (gm *GameManager) AddPlayerToGame(gameID string, playerID string) (model.PlayerColor, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return "", err
	}
	return game.AddPlayer(playerID)
}

func (gm *GameManager) JoinMatchmaking(playerID string) error {
	return gm.queue.AddPlayer(model.Player{ID: playerID})
}

func (gm *GameManager) GetGameState(gameID string) (model.GameState, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return game.GetState(), nil
}

func (gm *GameManager) LegalMoves(gameID string, from *model.Position) ([]model.SimpleMove, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return game.LegalMovesFrom(from), nil
}

// MakeMove plays a human move and hands the turn to the engine in AI games.
func (gm *GameManager) MakeMove(gameID string, playerID string, move model.WSMove) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	if err := game.MakeMove(playerID, move); err != nil {
		return err
	}
	if gm.ai != nil {
		gm.ai.Play(game)
	}
	return nil
}

func (gm *GameManager) Resign(gameID string, playerID string) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.Resign(playerID)
}

func (gm *GameManager) SaveGame(gameID string) (storage.Record, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return storage.Record{}, err
	}
	rec, err := gm.store.Save(gameID, game.Snapshot())
	if err != nil {
		return storage.Record{}, err
	}
	gm.log.Info().Str("game_id", gameID).Str("snapshot_id", rec.ID).Msg("game saved")
	return rec, nil
}

// LoadGame starts a new game from a saved position and returns its id. The seats start
// empty.
func (gm *GameManager) LoadGame(snapshotID string) (string, error) {
	rec, err := gm.store.Load(snapshotID)
	if err != nil {
		return "", err
	}
	gameID := uuid.New().String()
	game, err := model.RestoreGame(gameID, rec.Position, gm.clockTime, gm.log)
	if err != nil {
		return "", err
	}

	gm.mu.Lock()
	gm.games[gameID] = game
	gm.mu.Unlock()
	gm.log.Info().Str("game_id", gameID).Str("snapshot_id", snapshotID).Msg("game loaded")
	return gameID, nil
}

func (gm *GameManager) ListSnapshots() ([]storage.Record, error) {
	return gm.store.List()
}

func (gm *GameManager) RegisterConnection(gameID string, playerID string, conn model.Conn) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.RegisterConnection(playerID, conn)
}

func (gm *GameManager) UnregisterConnection(gameID string, playerID string, conn model.Conn) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return
	}
	game.UnregisterConnection(playerID, conn)
}

func (gm *GameManager) SendError(gameID string, playerID string, cause error) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.SendError(playerID, cause)
}
