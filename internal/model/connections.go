package model

import (
	"sync"

	"github.com/gofiber/websocket/v2"
	"github.com/pkg/errors"

	"github.com/benbeisheim/chess-ai-backend/internal/ws"
)

// Conn is the part of a websocket connection a game writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// GameConnections holds the observers of one game. All writes go through it so a
// connection never sees two concurrent writers.
type GameConnections struct {
	connections map[string]Conn // playerID -> connection
	mu          sync.Mutex
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]Conn),
	}
}

// add registers conn for playerID, closing an older connection of the same player.
func (gc *GameConnections) add(playerID string, conn Conn) {
	gc.mu.Lock()
	defer gc.mu.Unlock()

	if old, exists := gc.connections[playerID]; exists && old != conn {
		_ = old.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "replaced by a newer connection"),
		)
		_ = old.Close()
	}
	gc.connections[playerID] = conn
}

// remove drops conn only if it is still the player's current connection.
func (gc *GameConnections) remove(playerID string, conn Conn) bool {
	gc.mu.Lock()
	defer gc.mu.Unlock()

	if current, exists := gc.connections[playerID]; exists && current == conn {
		delete(gc.connections, playerID)
		return true
	}
	return false
}

func (gc *GameConnections) send(playerID string, data []byte) error {
	gc.mu.Lock()
	defer gc.mu.Unlock()

	conn, exists := gc.connections[playerID]
	if !exists {
		return errors.Wrapf(ErrNotInGame, "no connection for %s", playerID)
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}

// broadcast writes data to every connection and drops the ones that fail.
func (gc *GameConnections) broadcast(data []byte) map[string]error {
	gc.mu.Lock()
	defer gc.mu.Unlock()

	var failed map[string]error
	for playerID, conn := range gc.connections {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			if failed == nil {
				failed = make(map[string]error)
			}
			failed[playerID] = err
			delete(gc.connections, playerID)
		}
	}
	return failed
}

func (gc *GameConnections) Count() int {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return len(gc.connections)
}

// RegisterConnection adds an observer and sends it the current state.
func (g *Game) RegisterConnection(playerID string, conn Conn) error {
	g.mu.Lock()
	isAuthorized := g.isPlayerInGame(playerID) || g.canSpectate()
	data, err := g.messageLocked()
	g.mu.Unlock()

	if !isAuthorized {
		return errors.Wrap(ErrNotInGame, "not authorized to join this game")
	}
	if err != nil {
		return err
	}

	g.connections.add(playerID, conn)
	g.log.Debug().Str("player_id", playerID).Msg("connection registered")
	return g.connections.send(playerID, data)
}

func (g *Game) UnregisterConnection(playerID string, conn Conn) {
	if g.connections.remove(playerID, conn) {
		g.log.Debug().Str("player_id", playerID).Msg("connection unregistered")
	}
}

// SendError reports a failed request to one observer.
func (g *Game) SendError(playerID string, cause error) error {
	data, err := ws.Encode(ws.MessageTypeError, cause.Error())
	if err != nil {
		return err
	}
	return g.connections.send(playerID, data)
}

func (g *Game) broadcast(data []byte) {
	for playerID, err := range g.connections.broadcast(data) {
		g.log.Warn().Err(err).Str("player_id", playerID).Msg("failed to send state, dropping connection")
	}
}
