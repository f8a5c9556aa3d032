package game

import (
	"fmt"

	"github.com/iamasit07/connect-four/internal/domain"
	"github.com/iamasit07/connect-four/internal/service/bot"
)

// Service is the entry point for stateless engine queries (facade)
type Service struct {
	MaxLookahead int
	// grids beyond these bounds are rejected; 0 means no limit
	MaxHeight int
	MaxWidth  int
}

func NewService(maxLookahead, maxHeight, maxWidth int) *Service {
	return &Service{MaxLookahead: maxLookahead, MaxHeight: maxHeight, MaxWidth: maxWidth}
}

// checkSize bounds the search cost, which grows with width^lookahead.
func (s *Service) checkSize(grid [][]int) error {
	if s.MaxHeight > 0 && len(grid) > s.MaxHeight {
		return fmt.Errorf("board has %d rows, at most %d allowed: %w", len(grid), s.MaxHeight, domain.ErrInvalidDimensions)
	}
	if s.MaxWidth > 0 {
		for _, row := range grid {
			if len(row) > s.MaxWidth {
				return fmt.Errorf("board has %d columns, at most %d allowed: %w", len(row), s.MaxWidth, domain.ErrInvalidDimensions)
			}
		}
	}
	return nil
}

type AdviceRequest struct {
	Grid    [][]int
	Checker domain.Checker
	Bot     bot.Config
}

type Advice struct {
	Column int
	Scores []int
	Nodes  int
}

// Advise runs the AI for one position and reports its choice with the column scores.
func (s *Service) Advise(req AdviceRequest, opts ...bot.Option) (*Advice, error) {
	if err := s.checkSize(req.Grid); err != nil {
		return nil, err
	}
	board, err := domain.BoardFromGrid(req.Grid)
	if err != nil {
		return nil, err
	}
	if board.Winner() != domain.Empty {
		return nil, domain.ErrGameOver
	}

	cfg := req.Bot
	if s.MaxLookahead > 0 && cfg.Lookahead > s.MaxLookahead {
		cfg.Lookahead = s.MaxLookahead
	}
	ai, err := cfg.NewPlayer(req.Checker, opts...)
	if err != nil {
		return nil, err
	}

	column, err := ai.NextMove(board)
	if err != nil {
		return nil, err
	}
	return &Advice{Column: column, Scores: ai.LastScores, Nodes: ai.LastNodes}, nil
}
