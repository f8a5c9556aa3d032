package bot

import (
	"fmt"
	"strconv"
	"strings"
)

// Config is an AI player's settings without a checker, so one Config can
// produce players for either side.
type Config struct {
	Algorithm Algorithm
	Lookahead int
	TieBreak  TieBreak
}

func (c Config) String() string {
	return fmt.Sprintf("%s:%d:%s", c.Algorithm, c.Lookahead, c.TieBreak)
}

// ParseConfig reads "algo:lookahead[:tiebreak]", e.g. "alphabeta:4:random".
// The tie-break defaults to RANDOM.
func ParseConfig(s string) (Config, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return Config{}, fmt.Errorf("bad bot config %q: want algo:lookahead[:tiebreak]", s)
	}

	algo, err := ParseAlgorithm(parts[0])
	if err != nil {
		return Config{}, fmt.Errorf("bad bot config %q: %w", s, err)
	}
	lookahead, err := strconv.Atoi(parts[1])
	if err != nil {
		return Config{}, fmt.Errorf("bad bot config %q: %w", s, err)
	}
	if lookahead < 0 {
		return Config{}, fmt.Errorf("bad bot config %q: %w", s, ErrInvalidLookahead)
	}

	tieBreak := Random
	if len(parts) == 3 {
		if tieBreak, err = ParseTieBreak(parts[2]); err != nil {
			return Config{}, fmt.Errorf("bad bot config %q: %w", s, err)
		}
	}
	return Config{Algorithm: algo, Lookahead: lookahead, TieBreak: tieBreak}, nil
}
