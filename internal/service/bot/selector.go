package bot

import (
	"strings"

	"github.com/iamasit07/connect-four/internal/domain"
)

// Column scores. Full columns sit below every legal score.
const (
	ScoreFull    = -1
	ScoreLoss    = 0
	ScoreNeutral = 50
	ScoreWin     = 100
)

type TieBreak int

const (
	Leftmost TieBreak = iota
	Rightmost
	Random
)

func (t TieBreak) String() string {
	switch t {
	case Leftmost:
		return "LEFT"
	case Rightmost:
		return "RIGHT"
	case Random:
		return "RANDOM"
	}
	return "UNKNOWN"
}

// ParseTieBreak accepts LEFT/RIGHT/RANDOM and the long forms LEFTMOST/RIGHTMOST.
func ParseTieBreak(s string) (TieBreak, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LEFT", "LEFTMOST":
		return Leftmost, nil
	case "RIGHT", "RIGHTMOST":
		return Rightmost, nil
	case "RANDOM":
		return Random, nil
	}
	return Leftmost, ErrInvalidTieBreak
}

type Algorithm int

const (
	AlgoMinimax Algorithm = iota
	AlgoAlphaBeta
)

func (a Algorithm) String() string {
	switch a {
	case AlgoMinimax:
		return "MINIMAX"
	case AlgoAlphaBeta:
		return "ALPHABETA"
	}
	return "UNKNOWN"
}

func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "MINIMAX":
		return AlgoMinimax, nil
	case "ALPHABETA", "ALPHA-BETA":
		return AlgoAlphaBeta, nil
	}
	return AlgoMinimax, ErrInvalidAlgorithm
}

// OutcomeScore maps a search outcome onto the column score scale.
func OutcomeScore(o Outcome) int {
	switch {
	case o > Neutral:
		return ScoreWin
	case o < Neutral:
		return ScoreLoss
	default:
		return ScoreNeutral
	}
}

// ChooseColumn picks among the best scored columns according to policy.
// rng is only consulted for Random and may be nil otherwise.
func ChooseColumn(scores []int, policy TieBreak, rng Rand) (int, error) {
	best := ScoreFull
	var tied []int
	for col, score := range scores {
		if score <= ScoreFull {
			continue
		}
		if score > best {
			best = score
			tied = tied[:0]
		}
		if score == best {
			tied = append(tied, col)
		}
	}

	if len(tied) == 0 {
		return -1, domain.ErrNoLegalMove
	}

	switch policy {
	case Leftmost:
		return tied[0], nil
	case Rightmost:
		return tied[len(tied)-1], nil
	case Random:
		if rng == nil {
			rng = defaultRand()
		}
		return tied[rng.Intn(len(tied))], nil
	}
	return -1, ErrInvalidTieBreak
}
