package game

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/iamasit07/connect-four/internal/domain"
	"github.com/iamasit07/connect-four/internal/service/bot"
)

type recorder struct {
	mu   sync.Mutex
	msgs []domain.ServerMessage
}

func (r *recorder) SendMessage(_ string, msg domain.ServerMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
	return nil
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.msgs))
	for i, m := range r.msgs {
		out[i] = m.Type
	}
	return out
}

type memRepo struct {
	mu    sync.Mutex
	saved []domain.GameRecord
}

func (m *memRepo) SaveGame(_ context.Context, rec domain.GameRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, rec)
	return nil
}

type memCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemCache() *memCache { return &memCache{data: map[string]string{}} }

func (m *memCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch v := value.(type) {
	case []byte:
		m.data[key] = string(v)
	case string:
		m.data[key] = v
	}
	return nil
}

func (m *memCache) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return "", errors.New("redis: nil")
	}
	return v, nil
}

func (m *memCache) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

var leftBot = bot.Config{Algorithm: bot.AlgoAlphaBeta, Lookahead: 2, TieBreak: bot.Leftmost}

func TestSessionHumanMoveAndBotReply(t *testing.T) {
	repo, cache := &memRepo{}, newMemCache()
	sm := NewSessionManager(repo, cache, 0)
	rec := &recorder{}

	gs, err := sm.CreateSession(SessionOptions{HumanChecker: domain.X, Bot: leftBot}, rec)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if err := gs.HandleMove(domain.X, 3, rec); err != nil {
		t.Fatalf("HandleMove: %v", err)
	}

	want := []string{MsgGameStart, MsgMoveMade, MsgMoveMade}
	got := rec.types()
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}

	snap := gs.Snapshot()
	if snap.MoveCount != 2 || snap.CurrentPlayer != int(domain.X) {
		t.Fatalf("expected the human to move after the reply, got %+v", snap)
	}

	// the cache holds the same snapshot once the session is gone from memory
	if err := sm.RemoveSession(gs.GameID); err != nil {
		t.Fatalf("RemoveSession: %v", err)
	}
	cached, err := sm.LoadSnapshot(context.Background(), gs.GameID)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if cached.MoveCount != 2 || cached.BotConfig != leftBot.String() {
		t.Fatalf("unexpected cached snapshot %+v", cached)
	}
	raw, _ := json.Marshal(cached)
	if len(raw) == 0 {
		t.Fatalf("snapshot does not encode")
	}
}

func TestSessionRejectsBadMoves(t *testing.T) {
	sm := NewSessionManager(nil, nil, 0)
	rec := &recorder{}
	gs, err := sm.CreateSession(SessionOptions{HumanChecker: domain.X, Bot: leftBot}, rec)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	if err := gs.HandleMove(domain.O, 0, rec); !errors.Is(err, domain.ErrNotYourTurn) {
		t.Fatalf("expected ErrNotYourTurn, got %v", err)
	}
	if err := gs.HandleMove(domain.X, 7, rec); !errors.Is(err, domain.ErrInvalidColumn) {
		t.Fatalf("expected ErrInvalidColumn, got %v", err)
	}
	if gs.Snapshot().MoveCount != 0 {
		t.Fatalf("rejected moves must not change the game")
	}
}

func TestSessionBotOpensWhenHumanIsO(t *testing.T) {
	sm := NewSessionManager(nil, nil, 0)
	rec := &recorder{}
	gs, err := sm.CreateSession(SessionOptions{HumanChecker: domain.O, Bot: leftBot}, rec)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	snap := gs.Snapshot()
	if snap.MoveCount != 1 || snap.CurrentPlayer != int(domain.O) {
		t.Fatalf("expected the bot's opening move, got %+v", snap)
	}
}

func TestSessionBotWinsAndGameIsSaved(t *testing.T) {
	repo := &memRepo{}
	sm := NewSessionManager(repo, nil, 0)
	rec := &recorder{}
	gs, err := sm.CreateSession(SessionOptions{HumanChecker: domain.X, Bot: leftBot}, rec)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	// the human fills from the right and ignores the bot's threats
	over := func() bool { return gs.Snapshot().Status != domain.StatusActive }
	for i := 0; i < 30 && !over(); i++ {
		played := false
		for col := 6; col >= 0 && !played; col-- {
			err := gs.HandleMove(domain.X, col, rec)
			switch {
			case err == nil:
				played = true
			case errors.Is(err, domain.ErrIllegalMove):
			default:
				t.Fatalf("HandleMove(%d): %v", col, err)
			}
		}
	}
	sm.Wait()

	snap := gs.Snapshot()
	if snap.Status == domain.StatusActive {
		t.Fatalf("game did not finish: %+v", snap)
	}
	if len(repo.saved) != 1 {
		t.Fatalf("expected one saved game, got %d", len(repo.saved))
	}
	if repo.saved[0].TotalMoves != snap.MoveCount || repo.saved[0].GameID != gs.GameID {
		t.Fatalf("saved record %+v does not match snapshot %+v", repo.saved[0], snap)
	}
	types := rec.types()
	if types[len(types)-1] != MsgGameOver {
		t.Fatalf("last message should be game_over, got %v", types)
	}
}

func TestSessionAbandon(t *testing.T) {
	repo := &memRepo{}
	sm := NewSessionManager(repo, nil, 0)
	rec := &recorder{}
	gs, err := sm.CreateSession(SessionOptions{HumanChecker: domain.X, Bot: leftBot}, rec)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	if err := gs.Abandon(rec); err != nil {
		t.Fatalf("Abandon: %v", err)
	}
	if err := gs.Abandon(rec); !errors.Is(err, domain.ErrGameOver) {
		t.Fatalf("second abandon: expected ErrGameOver, got %v", err)
	}
	if err := gs.HandleMove(domain.X, 0, rec); !errors.Is(err, domain.ErrGameOver) {
		t.Fatalf("move after abandon: expected ErrGameOver, got %v", err)
	}
	sm.Wait()

	if len(repo.saved) != 1 || repo.saved[0].Winner != "O" || repo.saved[0].Reason != ReasonSurrender {
		t.Fatalf("unexpected saved records %+v", repo.saved)
	}
	if got := sm.ActiveGames(); len(got) != 0 {
		t.Fatalf("abandoned game still listed as active: %+v", got)
	}
}

func TestCleanupOldSessions(t *testing.T) {
	cache := newMemCache()
	sm := NewSessionManager(nil, cache, 0)
	rec := &recorder{}

	active, _ := sm.CreateSession(SessionOptions{HumanChecker: domain.X, Bot: leftBot}, rec)
	finished, _ := sm.CreateSession(SessionOptions{HumanChecker: domain.X, Bot: leftBot}, rec)
	if err := finished.Abandon(rec); err != nil {
		t.Fatalf("Abandon: %v", err)
	}

	now := time.Now()
	if n := sm.CleanupOldSessions(now); n != 0 {
		t.Fatalf("nothing is stale yet, removed %d", n)
	}
	if n := sm.CleanupOldSessions(now.Add(2 * time.Hour)); n != 1 {
		t.Fatalf("expected the finished session to go, removed %d", n)
	}
	if _, ok := sm.GetSession(finished.GameID); ok {
		t.Fatalf("finished session still present")
	}
	if _, err := sm.LoadSnapshot(context.Background(), finished.GameID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("cached snapshot should be dropped, got %v", err)
	}
	if n := sm.CleanupOldSessions(now.Add(25 * time.Hour)); n != 1 {
		t.Fatalf("expected the abandoned active session to go, removed %d", n)
	}
	if _, ok := sm.GetSession(active.GameID); ok {
		t.Fatalf("day-old active session still present")
	}
}

func TestDelayedBotReply(t *testing.T) {
	sm := NewSessionManager(nil, nil, 5*time.Millisecond)
	rec := &recorder{}
	gs, err := sm.CreateSession(SessionOptions{HumanChecker: domain.X, Bot: leftBot}, rec)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if err := gs.HandleMove(domain.X, 0, rec); err != nil {
		t.Fatalf("HandleMove: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for gs.Snapshot().MoveCount < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("bot never replied")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestAdvise(t *testing.T) {
	svc := NewService(3, 10, 10)
	grid := make([][]int, domain.DefaultRows)
	for r := range grid {
		grid[r] = make([]int, domain.DefaultColumns)
	}
	grid[5][0], grid[5][1], grid[5][2] = 1, 1, 1
	grid[4][0], grid[4][1] = 2, 2

	adv, err := svc.Advise(AdviceRequest{
		Grid:    grid,
		Checker: domain.O,
		Bot:     bot.Config{Algorithm: bot.AlgoMinimax, Lookahead: 9, TieBreak: bot.Leftmost},
	})
	if err != nil {
		t.Fatalf("Advise: %v", err)
	}
	if adv.Column != 3 {
		t.Fatalf("expected the block at 3, got %d (%v)", adv.Column, adv.Scores)
	}
	if adv.Nodes == 0 {
		t.Fatalf("expected the search to count nodes")
	}

	wide := make([][]int, domain.DefaultRows)
	for r := range wide {
		wide[r] = make([]int, 60)
	}
	if _, err := svc.Advise(AdviceRequest{Grid: wide, Checker: domain.X, Bot: leftBot}); !errors.Is(err, domain.ErrInvalidDimensions) {
		t.Fatalf("expected ErrInvalidDimensions for a 6x60 grid, got %v", err)
	}
	tall := make([][]int, 11)
	for r := range tall {
		tall[r] = make([]int, domain.DefaultColumns)
	}
	if _, err := svc.Advise(AdviceRequest{Grid: tall, Checker: domain.X, Bot: leftBot}); !errors.Is(err, domain.ErrInvalidDimensions) {
		t.Fatalf("expected ErrInvalidDimensions for an 11x7 grid, got %v", err)
	}

	grid[5][3] = 1
	grid[4][2] = 2
	if _, err := svc.Advise(AdviceRequest{Grid: grid, Checker: domain.O, Bot: leftBot}); !errors.Is(err, domain.ErrGameOver) {
		t.Fatalf("expected ErrGameOver on a won board, got %v", err)
	}
}

func TestCloseStopsSavesAndDelayedReplies(t *testing.T) {
	repo := &memRepo{}
	sm := NewSessionManager(repo, nil, 100*time.Millisecond)
	rec := &recorder{}

	finished, err := sm.CreateSession(SessionOptions{HumanChecker: domain.X, Bot: leftBot}, rec)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	pending, err := sm.CreateSession(SessionOptions{HumanChecker: domain.X, Bot: leftBot}, rec)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if err := finished.Abandon(rec); err != nil {
		t.Fatalf("Abandon: %v", err)
	}
	if err := pending.HandleMove(domain.X, 0, rec); err != nil {
		t.Fatalf("HandleMove: %v", err)
	}

	// the save queued before Close must land
	sm.Close()
	if len(repo.saved) != 1 {
		t.Fatalf("expected the earlier save to finish, got %d", len(repo.saved))
	}

	// after Close, a new finish is not saved
	if err := pending.Abandon(rec); err != nil {
		t.Fatalf("Abandon: %v", err)
	}
	// and the delayed reply scheduled above does not play
	time.Sleep(150 * time.Millisecond)
	if n := pending.Snapshot().MoveCount; n != 1 {
		t.Fatalf("bot moved after Close, move count %d", n)
	}
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if len(repo.saved) != 1 {
		t.Fatalf("saves after Close must be dropped, got %d", len(repo.saved))
	}
}
