package domain

// Game tracks turn order and the result on top of a Board.
// X always moves first.
type Game struct {
	Board         *Board
	CurrentPlayer Checker
	Status        GameStatus
	Winner        Checker
	MoveCount     int
	Moves         []int
}

func NewGame(height, width int) (*Game, error) {
	board, err := NewBoard(height, width)
	if err != nil {
		return nil, err
	}
	return &Game{
		Board:         board,
		CurrentPlayer: X,
		Status:        StatusActive,
		Winner:        Empty,
	}, nil
}

// MakeMove applies player's checker in column and returns the landing row.
func (g *Game) MakeMove(player Checker, column int) (int, error) {
	if g.Status != StatusActive {
		return -1, ErrGameOver
	}
	if !player.Valid() {
		return -1, ErrInvalidSymbol
	}
	if player != g.CurrentPlayer {
		return -1, ErrNotYourTurn
	}

	row, err := g.Board.AddChecker(player, column)
	if err != nil {
		return -1, err
	}

	g.MoveCount++
	g.Moves = append(g.Moves, column)

	if g.Board.IsWinFor(player) {
		g.Status = StatusWon
		g.Winner = player
		return row, nil
	}

	if g.Board.IsFull() {
		g.Status = StatusDraw
		return row, nil
	}

	g.CurrentPlayer = player.Opponent()
	return row, nil
}

func (g *Game) IsFinished() bool {
	return g.Status == StatusWon || g.Status == StatusDraw
}
