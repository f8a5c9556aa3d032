package bot

import "github.com/iamasit07/connect-four/internal/domain"

const (
	ErrInvalidTieBreak  domain.Error = "invalid tie-break policy"
	ErrInvalidAlgorithm domain.Error = "invalid search algorithm"
	ErrInvalidLookahead domain.Error = "lookahead must not be negative"
)
