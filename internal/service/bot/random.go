package bot

import (
	"github.com/iamasit07/connect-four/internal/domain"
)

// RandomPlayer plays a uniformly random legal column.
type RandomPlayer struct {
	checker  domain.Checker
	rng      Rand
	numMoves int
}

func NewRandomPlayer(checker domain.Checker, rng Rand) (*RandomPlayer, error) {
	if !checker.Valid() {
		return nil, domain.ErrInvalidSymbol
	}
	if rng == nil {
		rng = defaultRand()
	}
	return &RandomPlayer{checker: checker, rng: rng}, nil
}

func (p *RandomPlayer) Checker() domain.Checker { return p.checker }
func (p *RandomPlayer) NumMoves() int           { return p.numMoves }

func (p *RandomPlayer) NextMove(b *domain.Board) (int, error) {
	validColumns := b.ValidMoves()
	if len(validColumns) == 0 {
		return -1, domain.ErrNoLegalMove
	}
	p.numMoves++
	return validColumns[p.rng.Intn(len(validColumns))], nil
}
