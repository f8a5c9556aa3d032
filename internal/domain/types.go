package domain

// Checker is the content of a single board cell.
type Checker int

const (
	Empty Checker = 0
	X     Checker = 1
	O     Checker = 2
)

const (
	DefaultRows    = 6
	DefaultColumns = 7
	ToWin          = 4
)

func (c Checker) String() string {
	switch c {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return " "
	}
}

// Valid reports whether c is one of the two player symbols.
func (c Checker) Valid() bool {
	return c == X || c == O
}

// Opponent returns the other player's symbol. Empty has no opponent.
func (c Checker) Opponent() Checker {
	switch c {
	case X:
		return O
	case O:
		return X
	default:
		return Empty
	}
}

// ParseChecker accepts "X"/"O" (any case) or "1"/"2".
func ParseChecker(s string) (Checker, error) {
	switch s {
	case "X", "x", "1":
		return X, nil
	case "O", "o", "2":
		return O, nil
	}
	return Empty, ErrInvalidSymbol
}

// to represent the game status
type GameStatus string

const (
	StatusActive GameStatus = "active"
	StatusWon    GameStatus = "won"
	StatusDraw   GameStatus = "draw"
)

// basic error that can occur
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrInvalidSymbol     Error = "invalid symbol"
	ErrInvalidColumn     Error = "invalid column"
	ErrIllegalMove       Error = "column is full"
	ErrNoLegalMove       Error = "no legal move"
	ErrInvalidDimensions Error = "invalid board dimensions"
	ErrInvalidGrid       Error = "invalid board grid"
	ErrGameOver          Error = "game is already over"
	ErrNotYourTurn       Error = "not your turn"
)
