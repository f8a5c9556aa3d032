package game

import (
	"context"
	"errors"
	"testing"

	"github.com/iamasit07/connect-four/internal/domain"
	"github.com/iamasit07/connect-four/internal/service/bot"
)

// scripted plays a fixed list of columns.
type scripted struct {
	checker domain.Checker
	cols    []int
	n       int
}

func (s *scripted) Checker() domain.Checker { return s.checker }
func (s *scripted) NumMoves() int           { return s.n }

func (s *scripted) NextMove(*domain.Board) (int, error) {
	if s.n >= len(s.cols) {
		return -1, domain.ErrNoLegalMove
	}
	c := s.cols[s.n]
	s.n++
	return c, nil
}

func TestPlayRequiresOneOfEach(t *testing.T) {
	x1 := &scripted{checker: domain.X}
	x2 := &scripted{checker: domain.X}
	if _, err := Play(context.Background(), x1, x2, MatchOptions{}); !errors.Is(err, domain.ErrInvalidSymbol) {
		t.Fatalf("expected ErrInvalidSymbol, got %v", err)
	}
}

func TestPlayHorizontalWin(t *testing.T) {
	x := &scripted{checker: domain.X, cols: []int{0, 1, 2, 3}}
	o := &scripted{checker: domain.O, cols: []int{0, 1, 2}}

	var events []MoveEvent
	var turns []domain.Checker
	res, err := Play(context.Background(), x, o, MatchOptions{
		OnTurn: func(p domain.Player, g *domain.Game) {
			if g.MoveCount != len(turns) {
				t.Errorf("turn %d announced after %d moves", len(turns), g.MoveCount)
			}
			turns = append(turns, p.Checker())
		},
		OnMove: func(ev MoveEvent) { events = append(events, ev) },
	})
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if res.Winner != domain.X || res.MoveCount != 7 {
		t.Fatalf("expected X to win after 7 plies, got %v after %d", res.Winner, res.MoveCount)
	}
	if len(events) != 7 || events[6].Row != domain.DefaultRows-1 || events[6].Column != 3 {
		t.Fatalf("unexpected events %+v", events)
	}
	if len(turns) != 7 || turns[0] != domain.X || turns[1] != domain.O {
		t.Fatalf("unexpected turn order %v", turns)
	}
	if res.MovesBy[domain.X] != 4 || res.MovesBy[domain.O] != 3 {
		t.Fatalf("unexpected per-player counts %v", res.MovesBy)
	}
}

func TestPlayOStarts(t *testing.T) {
	o := &scripted{checker: domain.O, cols: []int{0, 0, 0, 0}}
	x := &scripted{checker: domain.X, cols: []int{1, 1, 1}}
	res, err := Play(context.Background(), o, x, MatchOptions{})
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if res.Winner != domain.O {
		t.Fatalf("expected O to win, got %v", res.Winner)
	}
}

func TestPlayDrawOnSmallBoard(t *testing.T) {
	// 2x2 cannot hold a line of four
	x := &scripted{checker: domain.X, cols: []int{0, 1}}
	o := &scripted{checker: domain.O, cols: []int{0, 1}}
	res, err := Play(context.Background(), x, o, MatchOptions{Height: 2, Width: 2})
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if res.Winner != domain.Empty || !res.Board.IsFull() {
		t.Fatalf("expected a draw on a full board, got %v\n%s", res.Winner, res.Board)
	}
}

func TestPlayRejectsIllegalMove(t *testing.T) {
	x := &scripted{checker: domain.X, cols: []int{9}}
	o := &scripted{checker: domain.O}
	if _, err := Play(context.Background(), x, o, MatchOptions{}); !errors.Is(err, domain.ErrInvalidColumn) {
		t.Fatalf("expected ErrInvalidColumn, got %v", err)
	}
}

func TestPlayCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	x := &scripted{checker: domain.X, cols: []int{0}}
	o := &scripted{checker: domain.O, cols: []int{1}}
	if _, err := Play(ctx, x, o, MatchOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestPlayAIAgainstAI(t *testing.T) {
	cfg := bot.Config{Algorithm: bot.AlgoAlphaBeta, Lookahead: 2, TieBreak: bot.Leftmost}
	x, err := cfg.NewPlayer(domain.X)
	if err != nil {
		t.Fatalf("NewPlayer: %v", err)
	}
	o, err := cfg.NewPlayer(domain.O)
	if err != nil {
		t.Fatalf("NewPlayer: %v", err)
	}
	res, err := Play(context.Background(), x, o, MatchOptions{})
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if res.Winner == domain.Empty && !res.Board.IsFull() {
		t.Fatalf("game ended without a winner on a board with room")
	}
	if res.Winner != domain.Empty && res.Board.Winner() != res.Winner {
		t.Fatalf("reported winner %v, board says %v", res.Winner, res.Board.Winner())
	}
}
