package service

import (
	"math/rand"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/benbeisheim/chess-ai-backend/internal/engine"
	"github.com/benbeisheim/chess-ai-backend/internal/model"
)

// AIPlayer moves for the automated side of AI games. Searches run on a copy of the
// position so the game stays responsive while the engine thinks.
type AIPlayer struct {
	depth   int
	workers int

	mu  sync.Mutex
	rng *rand.Rand

	wg  sync.WaitGroup
	log zerolog.Logger
}

func NewAIPlayer(depth, workers int, seed int64, log zerolog.Logger) *AIPlayer {
	return &AIPlayer{
		depth:   depth,
		workers: workers,
		rng:     rand.New(rand.NewSource(seed)),
		log:     log.With().Str("component", "ai").Logger(),
	}
}

// Play starts a background search if the automated player is to move.
func (ai *AIPlayer) Play(game *model.Game) {
	if !game.AwaitingAI() {
		return
	}
	ai.wg.Add(1)
	go func() {
		defer ai.wg.Done()
		if err := ai.Move(game); err != nil {
			ai.log.Error().Err(err).Str("game_id", game.ID).Msg("ai move failed")
		}
	}()
}

// Move searches and plays one move synchronously.
func (ai *AIPlayer) Move(game *model.Game) error {
	if !game.AwaitingAI() {
		return nil
	}
	pos := game.Position()
	start := time.Now()
	m, err := ai.searcher().PickMove(pos)
	if err != nil {
		return errors.Wrapf(err, "search in game %s", game.ID)
	}
	if err := game.ApplyEngineMove(m); err != nil {
		return errors.Wrapf(err, "apply %s in game %s", m, game.ID)
	}
	ai.log.Info().
		Str("game_id", game.ID).
		Str("move", m.String()).
		Dur("took", time.Since(start)).
		Msg("ai moved")
	return nil
}

// Wait blocks until every background search has finished.
func (ai *AIPlayer) Wait() {
	ai.wg.Wait()
}

// searcher returns a fresh searcher; a Searcher is not safe for concurrent use, so
// each search gets its own seeded from the shared source.
func (ai *AIPlayer) searcher() *engine.Searcher {
	ai.mu.Lock()
	seed := ai.rng.Int63()
	ai.mu.Unlock()

	s := engine.NewSearcher(ai.depth, seed)
	s.Workers = ai.workers
	return s
}
