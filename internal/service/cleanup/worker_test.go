package cleanup

import (
	"context"
	"testing"
	"time"

	"github.com/iamasit07/connect-four/internal/domain"
	"github.com/iamasit07/connect-four/internal/service/bot"
	"github.com/iamasit07/connect-four/internal/service/game"
)

type countingPruner struct {
	calls int
	days  int
}

func (p *countingPruner) DeleteFinishedBefore(_ context.Context, days int) (int64, error) {
	p.calls++
	p.days = days
	return 3, nil
}

type nopNotifier struct{}

func (nopNotifier) SendMessage(string, domain.ServerMessage) error { return nil }

func TestSweepPrunesSessionsAndArchive(t *testing.T) {
	sm := game.NewSessionManager(nil, nil, 0)
	cfg := bot.Config{Algorithm: bot.AlgoMinimax, Lookahead: 1, TieBreak: bot.Leftmost}
	gs, err := sm.CreateSession(game.SessionOptions{HumanChecker: domain.X, Bot: cfg}, nopNotifier{})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	pruner := &countingPruner{}
	w := NewWorker(sm, pruner)

	w.sweep(context.Background(), time.Now())
	if _, ok := sm.GetSession(gs.GameID); !ok {
		t.Fatalf("a fresh session must survive the sweep")
	}
	if pruner.calls != 1 || pruner.days != 30 {
		t.Fatalf("expected one prune with 30 days, got %d calls with %d days", pruner.calls, pruner.days)
	}

	w.sweep(context.Background(), time.Now().Add(25*time.Hour))
	if _, ok := sm.GetSession(gs.GameID); ok {
		t.Fatalf("a day-old unfinished session must be dropped")
	}
}

func TestRunStopsWithContext(t *testing.T) {
	sm := game.NewSessionManager(nil, nil, 0)
	w := NewWorker(sm, nil)
	w.Interval = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(5 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not stop after cancel")
	}
}
