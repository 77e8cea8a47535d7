package model

import (
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/benbeisheim/chess-ai-backend/internal/engine"
	"github.com/benbeisheim/chess-ai-backend/internal/ws"
)

// The Game struct focuses on a single game's state and its observers. The engine
// position is the source of truth; state is the client view rebuilt after every move.
type Game struct {
	ID          string
	mu          sync.Mutex
	position    *engine.Position
	state       GameState
	hasAI       bool
	aiColor     engine.Color
	connections *GameConnections // Connections just for this game
	whiteClock  *Clock
	blackClock  *Clock
	log         zerolog.Logger
}

type Players struct {
	White ClientPlayer `json:"white"`
	Black ClientPlayer `json:"black"`
}

type GameState struct {
	Sound           string         `json:"sound"`
	Board           *BoardState    `json:"boardState"`
	FEN             string         `json:"fen"`
	ToMove          string         `json:"toMove"`
	MoveHistory     []Move         `json:"moveHistory"`
	CapturedPieces  CapturedPieces `json:"capturedPieces"`
	IsCheck         bool           `json:"isCheck"`
	LegalMoves      []SimpleMove   `json:"legalMoves"`
	EnPassantTarget *Position      `json:"enPassantTarget"`
	Resolve         *string        `json:"resolve"`
	Winner          *string        `json:"winner"`
	Players         Players        `json:"players"`
	LastMove        *SimpleMove    `json:"lastMove"`
}

// CapturedPieces lists, per color, the enemy pieces that color has taken.
type CapturedPieces struct {
	White []Piece `json:"white"`
	Black []Piece `json:"black"`
}

const (
	resolveTimeout     = "timeout"
	resolveResignation = "resignation"
)

func NewGame(id string, clockTime time.Duration, log zerolog.Logger) *Game {
	return newGame(id, engine.NewPosition(), clockTime, log)
}

// RestoreGame starts a game from a saved position. Move history and captures are not
// part of a snapshot and start empty.
func RestoreGame(id string, snap engine.Snapshot, clockTime time.Duration, log zerolog.Logger) (*Game, error) {
	pos, err := engine.FromSnapshot(snap)
	if err != nil {
		return nil, err
	}
	return newGame(id, pos, clockTime, log), nil
}

func newGame(id string, pos *engine.Position, clockTime time.Duration, log zerolog.Logger) *Game {
	g := &Game{
		ID:          id,
		position:    pos,
		connections: NewGameConnections(),
		whiteClock:  NewClock(clockTime),
		blackClock:  NewClock(clockTime),
		log:         log.With().Str("game_id", id).Logger(),
	}
	g.state = GameState{
		MoveHistory:    make([]Move, 0),
		CapturedPieces: newCapturedPieces(),
	}
	g.refreshLocked()
	return g
}

func newCapturedPieces() CapturedPieces {
	return CapturedPieces{
		White: make([]Piece, 0),
		Black: make([]Piece, 0),
	}
}

// SetAI seats the automated player on color. It must happen before a human takes
// that seat.
func (g *Game) SetAI(color engine.Color) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	seat := g.seat(color)
	if seat.ID != "" {
		return errors.Wrapf(ErrGameFull, "%s seat taken", color)
	}
	*seat = ClientPlayer{ID: AIPlayerID, Color: color.String(), TimeLeft: g.clockFor(color).tenths()}
	g.hasAI = true
	g.aiColor = color
	g.startClockLocked()
	return nil
}

func (g *Game) AIColor() (engine.Color, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.aiColor, g.hasAI
}

// AwaitingAI reports whether the automated player is to move in a live game.
func (g *Game) AwaitingAI() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.hasAI && g.state.Resolve == nil && g.position.Turn() == g.aiColor
}

// AddPlayer seats playerID on the first free side. Joining twice returns the seat
// already held.
func (g *Game) AddPlayer(playerID string) (PlayerColor, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if color, ok := g.colorOf(playerID); ok {
		return playerColor(color), nil
	}
	for _, color := range []engine.Color{engine.White, engine.Black} {
		seat := g.seat(color)
		if seat.ID == "" {
			*seat = ClientPlayer{ID: playerID, Color: color.String(), TimeLeft: g.clockFor(color).tenths()}
			g.log.Info().Str("player_id", playerID).Str("color", color.String()).Msg("player joined")
			g.startClockLocked()
			return playerColor(color), nil
		}
	}
	return "", ErrGameFull
}

// startClockLocked runs the clock of the side to move once both seats are taken.
func (g *Game) startClockLocked() {
	if g.state.Players.White.ID == "" || g.state.Players.Black.ID == "" || g.state.Resolve != nil {
		return
	}
	g.clockFor(g.position.Turn()).Start()
}

func (g *Game) seat(color engine.Color) *ClientPlayer {
	if color == engine.White {
		return &g.state.Players.White
	}
	return &g.state.Players.Black
}

func (g *Game) colorOf(playerID string) (engine.Color, bool) {
	if playerID == "" {
		return 0, false
	}
	if g.state.Players.White.ID == playerID {
		return engine.White, true
	}
	if g.state.Players.Black.ID == playerID {
		return engine.Black, true
	}
	return 0, false
}

func (g *Game) clockFor(color engine.Color) *Clock {
	if color == engine.White {
		return g.whiteClock
	}
	return g.blackClock
}

func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.snapshotStateLocked()
}

func (g *Game) snapshotStateLocked() GameState {
	s := g.state
	s.MoveHistory = make([]Move, len(g.state.MoveHistory))
	copy(s.MoveHistory, g.state.MoveHistory)
	s.CapturedPieces = CapturedPieces{
		White: append(make([]Piece, 0, len(g.state.CapturedPieces.White)), g.state.CapturedPieces.White...),
		Black: append(make([]Piece, 0, len(g.state.CapturedPieces.Black)), g.state.CapturedPieces.Black...),
	}
	s.Players.White.TimeLeft = g.whiteClock.tenths()
	s.Players.Black.TimeLeft = g.blackClock.tenths()
	return s
}

// Position returns a copy of the engine position for callers that search or inspect it
// without holding the game.
func (g *Game) Position() *engine.Position {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.position.Clone()
}

func (g *Game) Snapshot() engine.Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.position.Snapshot()
}

func (g *Game) IsOver() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.Resolve != nil
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.isPlayerInGame(playerID)
}

func (g *Game) isPlayerInGame(playerID string) bool {
	_, ok := g.colorOf(playerID)
	return ok
}

func (g *Game) CanSpectate() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.canSpectate()
}

func (g *Game) canSpectate() bool {
	return g.state.Players.White.ID == "" || g.state.Players.Black.ID == ""
}

// LegalMovesFrom lists the legal moves of the piece standing on from, or every legal
// move when from is nil.
func (g *Game) LegalMovesFrom(from *Position) []SimpleMove {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.Resolve != nil {
		return []SimpleMove{}
	}
	if from == nil {
		return simpleMoves(g.position.LegalMoves())
	}
	return simpleMoves(g.position.LegalMovesFrom(from.square()))
}

func simpleMoves(moves []engine.Move) []SimpleMove {
	out := make([]SimpleMove, 0, len(moves))
	for _, m := range moves {
		out = append(out, SimpleMove{From: positionOf(m.From), To: positionOf(m.To)})
	}
	return out
}

// MakeMove plays a move for a human player and broadcasts the new state.
func (g *Game) MakeMove(playerID string, move WSMove) error {
	data, err := g.makeMove(playerID, move)
	if data != nil {
		g.broadcast(data)
	}
	return err
}

func (g *Game) makeMove(playerID string, move WSMove) ([]byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.Resolve != nil {
		return nil, ErrGameOver
	}
	color, ok := g.colorOf(playerID)
	if !ok || playerID == AIPlayerID {
		return nil, ErrNotInGame
	}
	if color != g.position.Turn() {
		return nil, ErrNotYourTurn
	}
	if g.clockFor(color).Expired() {
		g.flagLocked(color)
		data, err := g.messageLocked()
		if err != nil {
			return nil, err
		}
		return data, ErrGameOver
	}

	from, to := move.From.square(), move.To.square()
	if !from.InBounds() || !to.InBounds() {
		return nil, errors.Wrapf(ErrIllegalMove, "%s -> %s is off the board", from, to)
	}
	if move.Promotion != "" && move.Promotion != Queen {
		return nil, errors.Wrapf(ErrIllegalMove, "cannot promote to %s", move.Promotion)
	}
	m, ok := g.position.FindLegal(from, to)
	if !ok {
		return nil, errors.Wrapf(ErrIllegalMove, "%s%s", from, to)
	}
	return g.playLocked(m)
}

// ApplyEngineMove plays a move chosen by the automated player.
func (g *Game) ApplyEngineMove(m engine.Move) error {
	data, err := g.applyEngineMove(m)
	if data != nil {
		g.broadcast(data)
	}
	return err
}

func (g *Game) applyEngineMove(m engine.Move) ([]byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.Resolve != nil {
		return nil, ErrGameOver
	}
	if !g.hasAI || g.position.Turn() != g.aiColor {
		return nil, ErrNotYourTurn
	}
	legal, ok := g.position.FindLegal(m.From, m.To)
	if !ok {
		return nil, errors.Wrapf(ErrIllegalMove, "engine move %s", m)
	}
	return g.playLocked(legal)
}

// Resign ends the game in favour of the opponent of playerID.
func (g *Game) Resign(playerID string) error {
	data, err := g.resign(playerID)
	if data != nil {
		g.broadcast(data)
	}
	return err
}

func (g *Game) resign(playerID string) ([]byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.Resolve != nil {
		return nil, ErrGameOver
	}
	color, ok := g.colorOf(playerID)
	if !ok || playerID == AIPlayerID {
		return nil, ErrNotInGame
	}
	g.whiteClock.Stop()
	g.blackClock.Stop()
	resolve, winner := resolveResignation, color.Opponent().String()
	g.state.Resolve = &resolve
	g.state.Winner = &winner
	g.state.LegalMoves = []SimpleMove{}
	g.log.Info().Str("player_id", playerID).Msg("player resigned")
	return g.messageLocked()
}

// flagLocked ends the game on time against color.
func (g *Game) flagLocked(color engine.Color) {
	g.clockFor(color).Stop()
	resolve, winner := resolveTimeout, color.Opponent().String()
	g.state.Resolve = &resolve
	g.state.Winner = &winner
	g.state.LegalMoves = []SimpleMove{}
	g.log.Info().Str("loser", color.String()).Msg("flag fell")
}

func (g *Game) playLocked(m engine.Move) ([]byte, error) {
	mover := g.position.Turn()
	piece, _ := g.position.At(m.From)
	notation := g.notationLocked(m, piece)

	events, err := g.position.Apply(m)
	if err != nil {
		return nil, err
	}

	ply := Ply{
		Piece:    clientPiece(piece),
		From:     positionOf(m.From),
		To:       positionOf(m.To),
		Notation: notation,
	}
	g.state.Sound = "move"
	for _, ev := range events {
		switch ev.Kind {
		case engine.EventCaptured:
			ply.CapturedPiece = clientPiece(ev.Piece)
			g.addCaptureLocked(mover, *ply.CapturedPiece)
			g.state.Sound = "capture"
		case engine.EventMoved:
			if m.Kind == engine.MoveCastle && ev.Piece.Kind == engine.Rook {
				ply.CastleRookMove = &CastleRookMove{From: positionOf(ev.From), To: positionOf(ev.To)}
			}
		case engine.EventPromoted:
			ply.Promotion = pieceType(ev.Piece.Kind)
		}
	}

	g.clockFor(mover).Stop()
	g.refreshLocked()
	switch {
	case g.state.Resolve != nil && *g.state.Resolve == engine.Checkmate.String():
		ply.Notation += "#"
	case g.state.IsCheck:
		ply.Notation += "+"
	}
	if g.state.IsCheck {
		g.state.Sound = "check"
	}
	if g.state.Resolve == nil {
		g.clockFor(mover.Opponent()).Start()
	}

	if mover == engine.White {
		g.state.MoveHistory = append(g.state.MoveHistory, Move{WhitePly: ply})
	} else {
		if len(g.state.MoveHistory) == 0 {
			// restored with Black to move
			g.state.MoveHistory = append(g.state.MoveHistory, Move{WhitePly: Ply{Notation: "..."}})
		}
		g.state.MoveHistory[len(g.state.MoveHistory)-1].BlackPly = &ply
	}
	g.state.LastMove = &SimpleMove{From: ply.From, To: ply.To}

	g.log.Debug().Str("move", m.String()).Str("notation", ply.Notation).Msg("move played")
	if g.state.Resolve != nil {
		g.log.Info().Str("resolve", *g.state.Resolve).Msg("game over")
	}
	return g.messageLocked()
}

func (g *Game) addCaptureLocked(captor engine.Color, p Piece) {
	if captor == engine.White {
		g.state.CapturedPieces.White = append(g.state.CapturedPieces.White, p)
	} else {
		g.state.CapturedPieces.Black = append(g.state.CapturedPieces.Black, p)
	}
}

// refreshLocked rebuilds the derived parts of the client state from the position.
func (g *Game) refreshLocked() {
	turn := g.position.Turn()
	g.state.Board = newBoardState(g.position)
	g.state.FEN = g.position.FEN()
	g.state.ToMove = turn.String()

	g.state.EnPassantTarget = nil
	if sq, ok := g.position.EnPassantTarget(); ok {
		p := positionOf(sq)
		g.state.EnPassantTarget = &p
	}

	status := g.position.Classify()
	g.state.IsCheck = status == engine.Check || status == engine.Checkmate
	g.state.LegalMoves = simpleMoves(g.position.LegalMoves())
	if status.Terminal() {
		resolve := status.String()
		g.state.Resolve = &resolve
		if status == engine.Checkmate {
			winner := turn.Opponent().String()
			g.state.Winner = &winner
		}
	}
	g.state.Players.White.TimeLeft = g.whiteClock.tenths()
	g.state.Players.Black.TimeLeft = g.blackClock.tenths()
}

// notationLocked writes m in algebraic notation as seen before it is played; the
// check suffix is added afterwards.
func (g *Game) notationLocked(m engine.Move, piece engine.Piece) string {
	if m.Kind == engine.MoveCastle {
		if m.To.File < m.From.File {
			return "O-O-O"
		}
		return "O-O"
	}
	from, to := positionOf(m.From), positionOf(m.To)
	_, occupied := g.position.At(m.To)
	capture := occupied || m.Kind == engine.MoveEnPassant

	var b strings.Builder
	b.WriteString(piece.Kind.Letter())
	if piece.Kind == engine.Pawn {
		if capture {
			b.WriteString(from.getFileNotation())
		}
	} else {
		b.WriteString(g.disambiguationLocked(m, piece.Kind))
	}
	if capture {
		b.WriteString("x")
	}
	b.WriteString(to.getSquareNotation())
	if m.Kind == engine.MovePromotion {
		b.WriteString("=Q")
	}
	return b.String()
}

// disambiguationLocked names the origin file, rank or both when another piece of the
// same kind could also reach the destination.
func (g *Game) disambiguationLocked(m engine.Move, kind engine.Kind) string {
	var others, sameFile, sameRank bool
	for _, other := range g.position.LegalMoves() {
		if other.To != m.To || other.From == m.From {
			continue
		}
		if pc, _ := g.position.At(other.From); pc.Kind != kind {
			continue
		}
		others = true
		sameFile = sameFile || other.From.File == m.From.File
		sameRank = sameRank || other.From.Rank == m.From.Rank
	}
	from := positionOf(m.From)
	switch {
	case !others:
		return ""
	case !sameFile:
		return from.getFileNotation()
	case !sameRank:
		return from.getRankNotation()
	}
	return from.getFileNotation() + from.getRankNotation()
}

func (g *Game) messageLocked() ([]byte, error) {
	data, err := ws.Encode(ws.MessageTypeGameState, g.snapshotStateLocked())
	if err != nil {
		return nil, errors.Wrap(err, "marshal game state")
	}
	return data, nil
}
