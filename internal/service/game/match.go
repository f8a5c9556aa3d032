package game

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/iamasit07/connect-four/internal/domain"
)

// MoveEvent describes one applied move of a match.
type MoveEvent struct {
	Player domain.Player
	Column int
	Row    int
	Game   *domain.Game
}

type MatchOptions struct {
	Height int
	Width  int
	// OnTurn is called before a player is asked for its move.
	OnTurn func(p domain.Player, g *domain.Game)
	// OnMove is called after every applied move, the final one included.
	OnMove func(MoveEvent)
}

// Result is the state of a match once it has ended.
type Result struct {
	Board     *domain.Board
	Winner    domain.Checker // Empty for a draw
	MoveCount int
	Moves     []int
	// MovesBy counts the moves each side made.
	MovesBy map[domain.Checker]int
}

// Play runs a full match, p1 moving first. One player must hold X and the other O.
// The board is checked for a win or a draw after every move, so a player is
// never asked to move on a full board.
func Play(ctx context.Context, p1, p2 domain.Player, opts MatchOptions) (*Result, error) {
	if !p1.Checker().Valid() || !p2.Checker().Valid() || p1.Checker() == p2.Checker() {
		return nil, fmt.Errorf("need one X player and one O player: %w", domain.ErrInvalidSymbol)
	}

	height, width := opts.Height, opts.Width
	if height == 0 && width == 0 {
		height, width = domain.DefaultRows, domain.DefaultColumns
	}
	g, err := domain.NewGame(height, width)
	if err != nil {
		return nil, err
	}
	// domain.Game always opens with X
	g.CurrentPlayer = p1.Checker()

	players := [2]domain.Player{p1, p2}
	for turn := 0; !g.IsFinished(); turn = 1 - turn {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		p := players[turn]
		if opts.OnTurn != nil {
			opts.OnTurn(p, g)
		}
		column, err := p.NextMove(g.Board)
		if err != nil {
			return nil, fmt.Errorf("player %s: %w", p.Checker(), err)
		}

		row, err := g.MakeMove(p.Checker(), column)
		if err != nil {
			return nil, fmt.Errorf("player %s column %d: %w", p.Checker(), column, err)
		}

		log.Debug().
			Str("player", p.Checker().String()).
			Int("column", column).
			Int("row", row).
			Int("move", g.MoveCount).
			Msg("move")

		if opts.OnMove != nil {
			opts.OnMove(MoveEvent{Player: p, Column: column, Row: row, Game: g})
		}
	}

	return &Result{
		Board:     g.Board,
		Winner:    g.Winner,
		MoveCount: g.MoveCount,
		Moves:     g.Moves,
		MovesBy: map[domain.Checker]int{
			p1.Checker(): p1.NumMoves(),
			p2.Checker(): p2.NumMoves(),
		},
	}, nil
}
