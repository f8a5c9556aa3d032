package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/iamasit07/connect-four/internal/domain"
	"github.com/iamasit07/connect-four/internal/service/bot"
	"github.com/iamasit07/connect-four/pkg/uid"
)

const (
	MsgGameStart = "game_start"
	MsgMoveMade  = "move_made"
	MsgGameOver  = "game_over"
	MsgError     = "error"

	ReasonConnectFour = "connect_four"
	ReasonDraw        = "draw"
	ReasonSurrender   = "surrender"

	finishedSessionTTL = 1 * time.Hour
	activeSessionTTL   = 24 * time.Hour
)

var ErrSessionNotFound = errors.New("session not found")

// Notifier delivers server messages to whoever plays a game.
type Notifier interface {
	SendMessage(gameID string, message domain.ServerMessage) error
}

type GameRepository interface {
	SaveGame(ctx context.Context, record domain.GameRecord) error
}

// SnapshotCache stores serialized snapshots of live games (Redis in production).
type SnapshotCache interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type SessionOptions struct {
	Height       int
	Width        int
	HumanChecker domain.Checker
	Bot          bot.Config
}

// GameSession is one human-vs-AI game held in memory.
type GameSession struct {
	GameID       string
	Game         *domain.Game
	HumanChecker domain.Checker
	Bot          *bot.AIPlayer
	Reason       string
	CreatedAt    time.Time
	FinishedAt   time.Time
	mu           sync.Mutex
	manager      *SessionManager
}

// SessionManager manages active game sessions
type SessionManager struct {
	Session map[string]*GameSession // gameID → GameSession
	mu      sync.RWMutex

	repo        GameRepository
	cache       SnapshotCache
	botDelay    time.Duration
	snapshotTTL time.Duration

	// saveMu orders saves.Add against Close so Add never races Wait
	saveMu sync.Mutex
	closed bool
	saves  sync.WaitGroup
}

// NewSessionManager wires the manager. repo and cache may be nil.
func NewSessionManager(repo GameRepository, cache SnapshotCache, botDelay time.Duration) *SessionManager {
	return &SessionManager{
		Session:     make(map[string]*GameSession),
		repo:        repo,
		cache:       cache,
		botDelay:    botDelay,
		snapshotTTL: activeSessionTTL,
	}
}

func snapshotKey(gameID string) string {
	return "game:" + gameID
}

func (sm *SessionManager) CreateSession(opts SessionOptions, conn Notifier) (*GameSession, error) {
	if !opts.HumanChecker.Valid() {
		return nil, domain.ErrInvalidSymbol
	}
	ai, err := opts.Bot.NewPlayer(opts.HumanChecker.Opponent())
	if err != nil {
		return nil, err
	}
	if opts.Height == 0 && opts.Width == 0 {
		opts.Height, opts.Width = domain.DefaultRows, domain.DefaultColumns
	}
	g, err := domain.NewGame(opts.Height, opts.Width)
	if err != nil {
		return nil, err
	}

	gs := &GameSession{
		GameID:       uid.GenerateGameID(),
		Game:         g,
		HumanChecker: opts.HumanChecker,
		Bot:          ai,
		CreatedAt:    time.Now(),
		manager:      sm,
	}

	sm.mu.Lock()
	sm.Session[gs.GameID] = gs
	sm.mu.Unlock()

	log.Info().
		Str("game", gs.GameID).
		Str("human", gs.HumanChecker.String()).
		Stringer("bot", ai.Config()).
		Int("height", opts.Height).
		Int("width", opts.Width).
		Msg("session created")

	gs.mu.Lock()
	conn.SendMessage(gs.GameID, domain.ServerMessage{
		Type:        MsgGameStart,
		GameID:      gs.GameID,
		YourChecker: int(gs.HumanChecker),
		CurrentTurn: int(g.CurrentPlayer),
		Board:       g.Board.Grid(),
	})
	snap := gs.snapshotLocked()
	gs.mu.Unlock()
	sm.publish(snap)

	// X opens, so the bot moves first when the human took O
	if gs.botToMove() {
		sm.triggerBot(gs, conn)
	}
	return gs, nil
}

func (sm *SessionManager) GetSession(gameID string) (*GameSession, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, exists := sm.Session[gameID]
	return session, exists
}

func (sm *SessionManager) RemoveSession(gameID string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.Session[gameID]; !exists {
		return ErrSessionNotFound
	}
	log.Info().Str("game", gameID).Msg("removing session")
	delete(sm.Session, gameID)
	return nil
}

// ActiveGames lists snapshots of the games still being played.
func (sm *SessionManager) ActiveGames() []domain.GameSnapshot {
	sm.mu.RLock()
	sessions := make([]*GameSession, 0, len(sm.Session))
	for _, gs := range sm.Session {
		sessions = append(sessions, gs)
	}
	sm.mu.RUnlock()

	games := make([]domain.GameSnapshot, 0, len(sessions))
	for _, gs := range sessions {
		snap := gs.Snapshot()
		if snap.Status == domain.StatusActive {
			games = append(games, snap)
		}
	}
	return games
}

// LoadSnapshot looks a game up in memory first and in the cache second.
func (sm *SessionManager) LoadSnapshot(ctx context.Context, gameID string) (*domain.GameSnapshot, error) {
	if gs, ok := sm.GetSession(gameID); ok {
		snap := gs.Snapshot()
		return &snap, nil
	}
	if sm.cache == nil {
		return nil, ErrSessionNotFound
	}

	data, err := sm.cache.Get(ctx, snapshotKey(gameID))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionNotFound, err)
	}
	var snap domain.GameSnapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snap, nil
}

// CleanupOldSessions drops finished sessions after an hour and abandoned ones after a day.
func (sm *SessionManager) CleanupOldSessions(now time.Time) int {
	sm.mu.Lock()
	var stale []string
	for gameID, session := range sm.Session {
		session.mu.Lock()
		expired := (session.Game.IsFinished() && now.Sub(session.FinishedAt) > finishedSessionTTL) ||
			(!session.Game.IsFinished() && now.Sub(session.CreatedAt) > activeSessionTTL)
		session.mu.Unlock()

		if expired {
			delete(sm.Session, gameID)
			stale = append(stale, gameID)
		}
	}
	sm.mu.Unlock()

	if len(stale) > 0 && sm.cache != nil {
		keys := make([]string, len(stale))
		for i, id := range stale {
			keys[i] = snapshotKey(id)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := sm.cache.Del(ctx, keys...); err != nil {
			log.Warn().Err(err).Msg("failed to drop cached snapshots")
		}
	}

	if len(stale) > 0 {
		log.Info().Int("removed", len(stale)).Msg("memory cleanup: removed stale game sessions")
	}
	return len(stale)
}

// Wait blocks until every pending asynchronous save has finished.
func (sm *SessionManager) Wait() {
	sm.saves.Wait()
}

// Close stops delayed bot replies and new saves, then waits for the
// saves already running.
func (sm *SessionManager) Close() {
	sm.saveMu.Lock()
	sm.closed = true
	sm.saveMu.Unlock()
	sm.saves.Wait()
}

func (sm *SessionManager) isClosed() bool {
	sm.saveMu.Lock()
	defer sm.saveMu.Unlock()
	return sm.closed
}

func (sm *SessionManager) publish(snap domain.GameSnapshot) {
	if sm.cache == nil {
		return
	}
	data, err := json.Marshal(snap)
	if err != nil {
		log.Error().Err(err).Str("game", snap.GameID).Msg("failed to encode snapshot")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := sm.cache.Set(ctx, snapshotKey(snap.GameID), data, sm.snapshotTTL); err != nil {
		log.Warn().Err(err).Str("game", snap.GameID).Msg("failed to cache snapshot")
	}
}

// Saves game data to the repository in background to avoid blocking game_over messages
func (sm *SessionManager) saveGameAsync(record domain.GameRecord) {
	if sm.repo == nil {
		return
	}
	sm.saveMu.Lock()
	if sm.closed {
		sm.saveMu.Unlock()
		log.Warn().Str("game", record.GameID).Msg("shutting down, game not saved")
		return
	}
	sm.saves.Add(1)
	sm.saveMu.Unlock()
	go func() {
		defer sm.saves.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := sm.repo.SaveGame(ctx, record); err != nil {
			log.Error().Err(err).Str("game", record.GameID).Msg("error saving game")
			return
		}
		log.Info().Str("game", record.GameID).Msg("game saved")
	}()
}

func (sm *SessionManager) triggerBot(gs *GameSession, conn Notifier) {
	if sm.botDelay <= 0 {
		if err := gs.HandleBotMove(conn); err != nil {
			log.Error().Err(err).Str("game", gs.GameID).Msg("error handling bot move")
		}
		return
	}

	go func() {
		// small delay to feel natural
		time.Sleep(sm.botDelay)
		if sm.isClosed() {
			return
		}
		if err := gs.HandleBotMove(conn); err != nil {
			log.Error().Err(err).Str("game", gs.GameID).Msg("error handling bot move")
		}
	}()
}

func (gs *GameSession) botToMove() bool {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return !gs.Game.IsFinished() && gs.Game.CurrentPlayer == gs.Bot.Checker()
}

func (gs *GameSession) Snapshot() domain.GameSnapshot {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.snapshotLocked()
}

func (gs *GameSession) snapshotLocked() domain.GameSnapshot {
	return domain.GameSnapshot{
		GameID:        gs.GameID,
		Board:         gs.Game.Board.Grid(),
		CurrentPlayer: int(gs.Game.CurrentPlayer),
		Status:        gs.Game.Status,
		Winner:        int(gs.Game.Winner),
		MoveCount:     gs.Game.MoveCount,
		HumanChecker:  int(gs.HumanChecker),
		BotConfig:     gs.Bot.Config().String(),
		StartedAt:     gs.CreatedAt,
	}
}

// HandleMove applies the human's move and lets the bot answer.
func (gs *GameSession) HandleMove(checker domain.Checker, column int, conn Notifier) error {
	gs.mu.Lock()
	if gs.Game.IsFinished() {
		gs.mu.Unlock()
		return domain.ErrGameOver
	}
	if checker != gs.HumanChecker {
		gs.mu.Unlock()
		return domain.ErrNotYourTurn
	}

	row, err := gs.Game.MakeMove(checker, column)
	if err != nil {
		gs.mu.Unlock()
		return err
	}
	gs.afterMoveLocked(checker, column, row, conn)
	snap := gs.snapshotLocked()
	gs.mu.Unlock()

	gs.manager.publish(snap)

	if gs.botToMove() {
		gs.manager.triggerBot(gs, conn)
	}
	return nil
}

func (gs *GameSession) HandleBotMove(conn Notifier) error {
	gs.mu.Lock()

	// verify it's actually the bot's turn (race condition check)
	if gs.Game.IsFinished() || gs.Game.CurrentPlayer != gs.Bot.Checker() {
		gs.mu.Unlock()
		return nil
	}

	column, err := gs.Bot.NextMove(gs.Game.Board)
	if err != nil {
		gs.mu.Unlock()
		return err
	}
	row, err := gs.Game.MakeMove(gs.Bot.Checker(), column)
	if err != nil {
		gs.mu.Unlock()
		return err
	}
	gs.afterMoveLocked(gs.Bot.Checker(), column, row, conn)
	snap := gs.snapshotLocked()
	gs.mu.Unlock()

	gs.manager.publish(snap)
	return nil
}

// Abandon ends the game in the bot's favour.
func (gs *GameSession) Abandon(conn Notifier) error {
	gs.mu.Lock()
	if gs.Game.IsFinished() {
		gs.mu.Unlock()
		return domain.ErrGameOver
	}

	log.Info().Str("game", gs.GameID).Msg("game terminated by abandonment")
	gs.Game.Status = domain.StatusWon
	gs.Game.Winner = gs.Bot.Checker()
	gs.finishLocked(ReasonSurrender, conn)
	snap := gs.snapshotLocked()
	gs.mu.Unlock()

	gs.manager.publish(snap)
	return nil
}

func (gs *GameSession) afterMoveLocked(player domain.Checker, column, row int, conn Notifier) {
	conn.SendMessage(gs.GameID, domain.ServerMessage{
		Type:     MsgMoveMade,
		GameID:   gs.GameID,
		Column:   &column,
		Row:      &row,
		Player:   int(player),
		Board:    gs.Game.Board.Grid(),
		NextTurn: int(gs.Game.CurrentPlayer),
	})

	switch gs.Game.Status {
	case domain.StatusWon:
		gs.finishLocked(ReasonConnectFour, conn)
	case domain.StatusDraw:
		gs.finishLocked(ReasonDraw, conn)
	}
}

func (gs *GameSession) finishLocked(reason string, conn Notifier) {
	gs.FinishedAt = time.Now()
	gs.Reason = reason

	winner := "draw"
	if gs.Game.Winner != domain.Empty {
		winner = gs.Game.Winner.String()
	}

	conn.SendMessage(gs.GameID, domain.ServerMessage{
		Type:   MsgGameOver,
		GameID: gs.GameID,
		Winner: winner,
		Reason: reason,
		Board:  gs.Game.Board.Grid(),
	})

	log.Info().
		Str("game", gs.GameID).
		Str("winner", winner).
		Str("reason", reason).
		Int("moves", gs.Game.MoveCount).
		Msg("game over")

	gs.manager.saveGameAsync(domain.GameRecord{
		GameID:          gs.GameID,
		HumanChecker:    gs.HumanChecker.String(),
		BotConfig:       gs.Bot.Config().String(),
		Winner:          winner,
		Reason:          reason,
		TotalMoves:      gs.Game.MoveCount,
		Moves:           append([]int(nil), gs.Game.Moves...),
		DurationSeconds: int(gs.FinishedAt.Sub(gs.CreatedAt).Seconds()),
		CreatedAt:       gs.CreatedAt,
		FinishedAt:      gs.FinishedAt,
		Board:           gs.Game.Board.Grid(),
	})
}
