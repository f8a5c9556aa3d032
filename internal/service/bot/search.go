package bot

import (
	"github.com/iamasit07/connect-four/internal/domain"
)

// Outcome is a search result from the searching player's point of view.
type Outcome int

const (
	Loss    Outcome = -1
	Neutral Outcome = 0
	Win     Outcome = 1
)

// sentinels one step outside the Outcome range
const (
	minusInf Outcome = -2
	plusInf  Outcome = 2
)

func (o Outcome) String() string {
	switch o {
	case Loss:
		return "loss"
	case Win:
		return "win"
	default:
		return "neutral"
	}
}

// Searcher walks the game tree for one player. Nodes counts every position
// visited since the searcher was created.
//
// A Searcher works on a private copy of the board it is given, dropping and
// lifting checkers in place; every AddChecker is undone before the frame
// returns. It must not be shared between goroutines.
type Searcher struct {
	me    domain.Checker
	opp   domain.Checker
	Nodes int
}

func NewSearcher(me domain.Checker) *Searcher {
	return &Searcher{me: me, opp: me.Opponent()}
}

// Minimax evaluates board with depth plies of lookahead, toMove to play.
func Minimax(board *domain.Board, depth int, me, toMove domain.Checker) Outcome {
	return NewSearcher(me).Minimax(board, depth, toMove)
}

// AlphaBeta returns the same value as Minimax while visiting fewer positions.
func AlphaBeta(board *domain.Board, depth int, me, toMove domain.Checker) Outcome {
	return NewSearcher(me).AlphaBeta(board, depth, toMove)
}

// Minimax and AlphaBeta return Neutral when either symbol is not X or O.
func (s *Searcher) Minimax(board *domain.Board, depth int, toMove domain.Checker) Outcome {
	if !s.me.Valid() || !toMove.Valid() {
		return Neutral
	}
	return s.minimax(board.Copy(), depth, toMove)
}

func (s *Searcher) AlphaBeta(board *domain.Board, depth int, toMove domain.Checker) Outcome {
	if !s.me.Valid() || !toMove.Valid() {
		return Neutral
	}
	// The root window spans the whole Outcome range, so the result is exact
	// and a Win (or Loss) child cuts exactly where Minimax stops.
	return s.alphaBeta(board.Copy(), depth, toMove, Loss, Win)
}

// terminal reports the value of positions that end the search.
func (s *Searcher) terminal(board *domain.Board, depth int) (Outcome, bool) {
	if board.IsWinFor(s.me) {
		return Win, true
	}
	if board.IsWinFor(s.opp) {
		return Loss, true
	}
	if depth == 0 {
		return Neutral, true
	}
	return Neutral, false
}

func (s *Searcher) minimax(board *domain.Board, depth int, toMove domain.Checker) Outcome {
	s.Nodes++
	if v, done := s.terminal(board, depth); done {
		return v
	}

	maximizing := toMove == s.me
	best := plusInf
	if maximizing {
		best = minusInf
	}
	explored := false

	for col := 0; col < board.Width(); col++ {
		if !board.CanAddTo(col) {
			continue
		}
		board.AddChecker(toMove, col)
		v := s.minimax(board, depth-1, toMove.Opponent())
		board.RemoveChecker(col)
		explored = true

		if maximizing && v > best {
			best = v
			if best == Win {
				break
			}
		}
		if !maximizing && v < best {
			best = v
			if best == Loss {
				break
			}
		}
	}

	// a full board with no line is a draw
	if !explored {
		return Neutral
	}
	return best
}

func (s *Searcher) alphaBeta(board *domain.Board, depth int, toMove domain.Checker, alpha, beta Outcome) Outcome {
	s.Nodes++
	if v, done := s.terminal(board, depth); done {
		return v
	}

	maximizing := toMove == s.me
	value := plusInf
	if maximizing {
		value = minusInf
	}
	explored := false

	for col := 0; col < board.Width(); col++ {
		if !board.CanAddTo(col) {
			continue
		}
		board.AddChecker(toMove, col)
		v := s.alphaBeta(board, depth-1, toMove.Opponent(), alpha, beta)
		board.RemoveChecker(col)
		explored = true

		if maximizing {
			value = max(value, v)
			alpha = max(alpha, value)
		} else {
			value = min(value, v)
			beta = min(beta, value)
		}
		if alpha >= beta {
			break
		}
	}

	if !explored {
		return Neutral
	}
	return value
}
