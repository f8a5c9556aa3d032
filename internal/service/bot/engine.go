package bot

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/iamasit07/connect-four/internal/domain"
)

// AIPlayer picks moves by searching lookahead plies ahead.
type AIPlayer struct {
	checker   domain.Checker
	tieBreak  TieBreak
	lookahead int
	algo      Algorithm
	rng       Rand
	numMoves  int

	// results of the last NextMove/ScoresFor call
	LastScores []int
	LastNodes  int
}

type Option func(*AIPlayer)

// WithRand injects the source used by the Random tie-break.
func WithRand(r Rand) Option {
	return func(p *AIPlayer) {
		p.rng = r
	}
}

func NewAIPlayer(checker domain.Checker, tieBreak TieBreak, lookahead int, algo Algorithm, opts ...Option) (*AIPlayer, error) {
	if !checker.Valid() {
		return nil, domain.ErrInvalidSymbol
	}
	if tieBreak < Leftmost || tieBreak > Random {
		return nil, ErrInvalidTieBreak
	}
	if lookahead < 0 {
		return nil, ErrInvalidLookahead
	}
	if algo != AlgoMinimax && algo != AlgoAlphaBeta {
		return nil, ErrInvalidAlgorithm
	}

	p := &AIPlayer{
		checker:   checker,
		tieBreak:  tieBreak,
		lookahead: lookahead,
		algo:      algo,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.rng == nil {
		p.rng = defaultRand()
	}
	return p, nil
}

// NewPlayer builds an AI player for checker with these settings.
func (c Config) NewPlayer(checker domain.Checker, opts ...Option) (*AIPlayer, error) {
	return NewAIPlayer(checker, c.TieBreak, c.Lookahead, c.Algorithm, opts...)
}

func (p *AIPlayer) Checker() domain.Checker { return p.checker }
func (p *AIPlayer) NumMoves() int           { return p.numMoves }
func (p *AIPlayer) Lookahead() int          { return p.lookahead }
func (p *AIPlayer) TieBreak() TieBreak      { return p.tieBreak }
func (p *AIPlayer) Algorithm() Algorithm    { return p.algo }

func (p *AIPlayer) String() string {
	return fmt.Sprintf("Player %s (%s, %d, %s)", p.checker, p.tieBreak, p.lookahead, p.algo)
}

func (p *AIPlayer) Config() Config {
	return Config{Algorithm: p.algo, Lookahead: p.lookahead, TieBreak: p.tieBreak}
}

// ScoresFor scores every column of b for this player; b itself is never modified.
func (p *AIPlayer) ScoresFor(b *domain.Board) []int {
	scores := make([]int, b.Width())
	searcher := NewSearcher(p.checker)
	work := b.Copy()

	for col := 0; col < b.Width(); col++ {
		if !work.CanAddTo(col) {
			scores[col] = ScoreFull
			continue
		}

		work.AddChecker(p.checker, col)
		switch {
		case work.IsWinFor(p.checker):
			scores[col] = ScoreWin
		case p.lookahead == 0:
			scores[col] = ScoreNeutral
		case p.algo == AlgoAlphaBeta:
			scores[col] = OutcomeScore(searcher.AlphaBeta(work, p.lookahead-1, p.checker.Opponent()))
		default:
			scores[col] = OutcomeScore(searcher.Minimax(work, p.lookahead-1, p.checker.Opponent()))
		}
		work.RemoveChecker(col)
	}

	p.LastScores = scores
	p.LastNodes = searcher.Nodes
	return scores
}

// NextMove returns the chosen column. The board must still have a legal move.
func (p *AIPlayer) NextMove(b *domain.Board) (int, error) {
	if b.IsFull() {
		return -1, domain.ErrNoLegalMove
	}
	p.numMoves++

	scores := p.ScoresFor(b)
	col, err := ChooseColumn(scores, p.tieBreak, p.rng)
	if err != nil {
		return -1, err
	}

	log.Debug().
		Str("checker", p.checker.String()).
		Stringer("config", p.Config()).
		Ints("scores", scores).
		Int("nodes", p.LastNodes).
		Int("column", col).
		Msg("ai-move")
	return col, nil
}
