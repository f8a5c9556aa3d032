// Package tournament plays AI configurations against each other and ranks
// them on an Elo ladder.
package tournament

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"sort"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/iamasit07/connect-four/internal/domain"
	"github.com/iamasit07/connect-four/internal/service/bot"
	"github.com/iamasit07/connect-four/internal/service/game"
)

type Entrant struct {
	Name   string
	Config bot.Config
	Rating int
	Wins   int
	Losses int
	Draws  int
}

func (e *Entrant) Played() int {
	return e.Wins + e.Losses + e.Draws
}

// ParseEntrants turns "algo:lookahead:tiebreak" strings into entrants.
// Repeated configurations get a "#n" suffix so every name is unique.
func ParseEntrants(specs []string) ([]*Entrant, error) {
	if len(specs) < 2 {
		return nil, fmt.Errorf("need at least two entrants, got %d", len(specs))
	}
	seen := make(map[string]int)
	entrants := make([]*Entrant, 0, len(specs))
	for _, s := range specs {
		cfg, err := bot.ParseConfig(s)
		if err != nil {
			return nil, fmt.Errorf("entrant %q: %w", s, err)
		}
		name := cfg.String()
		seen[name]++
		if n := seen[name]; n > 1 {
			name = fmt.Sprintf("%s#%d", name, n)
		}
		entrants = append(entrants, &Entrant{Name: name, Config: cfg, Rating: domain.InitialRating})
	}
	return entrants, nil
}

type Options struct {
	GamesPerColour int
	// Concurrency caps the games in flight; 0 means GOMAXPROCS.
	Concurrency int
	Height      int
	Width       int
	// Seed makes RANDOM tie-breaks reproducible. Zero draws from frand.
	Seed int64
}

// Pairing is one scheduled game. X and O index into the entrant list.
type Pairing struct {
	Index int
	X, O  int
}

type GameResult struct {
	Pairing
	Winner domain.Checker // Empty for a draw
	Moves  int
}

type Result struct {
	Games     []GameResult
	Standings []*Entrant
}

// Schedule lists the games of a double round robin: every pair meets
// gamesPerColour times with each side opening.
func Schedule(n, gamesPerColour int) []Pairing {
	var games []Pairing
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			for k := 0; k < gamesPerColour; k++ {
				games = append(games, Pairing{Index: len(games), X: i, O: j})
				games = append(games, Pairing{Index: len(games), X: j, O: i})
			}
		}
	}
	return games
}

// Run plays the whole schedule. Games run concurrently on their own boards
// and players; ratings are applied afterwards in schedule order so the
// standings do not depend on which game finished first.
func Run(ctx context.Context, entrants []*Entrant, opts Options) (*Result, error) {
	if opts.GamesPerColour <= 0 {
		opts.GamesPerColour = 1
	}
	limit := opts.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	schedule := Schedule(len(entrants), opts.GamesPerColour)
	results := make([]GameResult, len(schedule))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, p := range schedule {
		g.Go(func() error {
			res, err := playOne(gctx, entrants, p, opts)
			if err != nil {
				return fmt.Errorf("game %d (%s vs %s): %w", p.Index, entrants[p.X].Name, entrants[p.O].Name, err)
			}
			results[p.Index] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ApplyResults(entrants, results)
	return &Result{Games: results, Standings: Standings(entrants)}, nil
}

func playOne(ctx context.Context, entrants []*Entrant, p Pairing, opts Options) (GameResult, error) {
	var xOpts, oOpts []bot.Option
	if opts.Seed != 0 {
		base := opts.Seed + int64(p.Index)*2
		xOpts = append(xOpts, bot.WithRand(rand.New(rand.NewSource(base))))
		oOpts = append(oOpts, bot.WithRand(rand.New(rand.NewSource(base+1))))
	}

	px, err := entrants[p.X].Config.NewPlayer(domain.X, xOpts...)
	if err != nil {
		return GameResult{}, err
	}
	po, err := entrants[p.O].Config.NewPlayer(domain.O, oOpts...)
	if err != nil {
		return GameResult{}, err
	}

	res, err := game.Play(ctx, px, po, game.MatchOptions{Height: opts.Height, Width: opts.Width})
	if err != nil {
		return GameResult{}, err
	}

	log.Debug().
		Int("game", p.Index).
		Str("x", entrants[p.X].Name).
		Str("o", entrants[p.O].Name).
		Stringer("winner", res.Winner).
		Int("moves", res.MoveCount).
		Msg("tournament game finished")

	return GameResult{Pairing: p, Winner: res.Winner, Moves: res.MoveCount}, nil
}

// ApplyResults updates records and ratings game by game, in slice order.
func ApplyResults(entrants []*Entrant, results []GameResult) {
	for _, r := range results {
		x, o := entrants[r.X], entrants[r.O]

		var scoreX float64
		switch r.Winner {
		case domain.X:
			scoreX = 1
			x.Wins++
			o.Losses++
		case domain.O:
			scoreX = 0
			x.Losses++
			o.Wins++
		default:
			scoreX = 0.5
			x.Draws++
			o.Draws++
		}

		rx, ro := x.Rating, o.Rating
		x.Rating = domain.CalculateElo(rx, ro, scoreX)
		o.Rating = domain.CalculateElo(ro, rx, 1-scoreX)
	}
}

// Standings returns the entrants by rating, best first, ties by name.
func Standings(entrants []*Entrant) []*Entrant {
	out := append([]*Entrant(nil), entrants...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Rating != out[j].Rating {
			return out[i].Rating > out[j].Rating
		}
		return out[i].Name < out[j].Name
	})
	return out
}
