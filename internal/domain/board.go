package domain

import "strings"

// Board is a Connect Four grid of arbitrary dimensions.
// Row 0 is the top row and row height-1 the bottom one.
type Board struct {
	height int
	width  int
	slots  [][]Checker
}

func NewBoard(height, width int) (*Board, error) {
	if height <= 0 || width <= 0 {
		return nil, ErrInvalidDimensions
	}
	slots := make([][]Checker, height)
	for i := range slots {
		slots[i] = make([]Checker, width)
	}
	return &Board{height: height, width: width, slots: slots}, nil
}

// BoardFromGrid rebuilds a board from the integer form produced by Grid.
// The grid must be rectangular, hold only 0/1/2 and respect gravity.
func BoardFromGrid(grid [][]int) (*Board, error) {
	if len(grid) == 0 {
		return nil, ErrInvalidDimensions
	}
	b, err := NewBoard(len(grid), len(grid[0]))
	if err != nil {
		return nil, err
	}

	for r, row := range grid {
		if len(row) != b.width {
			return nil, ErrInvalidGrid
		}
		for c, v := range row {
			checker := Checker(v)
			if checker != Empty && !checker.Valid() {
				return nil, ErrInvalidGrid
			}
			b.slots[r][c] = checker
		}
	}

	// no floating checkers: once a column has a checker, everything below is filled
	for c := 0; c < b.width; c++ {
		seen := false
		for r := 0; r < b.height; r++ {
			if b.slots[r][c] != Empty {
				seen = true
			} else if seen {
				return nil, ErrInvalidGrid
			}
		}
	}
	return b, nil
}

func (b *Board) Height() int { return b.height }
func (b *Board) Width() int  { return b.width }

// Slot returns the checker at (row, col), or Empty when out of range.
func (b *Board) Slot(row, col int) Checker {
	if row < 0 || row >= b.height || col < 0 || col >= b.width {
		return Empty
	}
	return b.slots[row][col]
}

// Grid returns the board as integers (0 empty, 1 X, 2 O), for storage and the wire.
func (b *Board) Grid() [][]int {
	grid := make([][]int, b.height)
	for r := range b.slots {
		grid[r] = make([]int, b.width)
		for c, v := range b.slots[r] {
			grid[r][c] = int(v)
		}
	}
	return grid
}

func (b *Board) CanAddTo(col int) bool {
	if col < 0 || col >= b.width {
		return false
	}
	// the top cell is the last one to fill
	return b.slots[0][col] == Empty
}

// AddChecker drops checker into col and returns the row it landed on.
func (b *Board) AddChecker(checker Checker, col int) (int, error) {
	if !checker.Valid() {
		return -1, ErrInvalidSymbol
	}
	if col < 0 || col >= b.width {
		return -1, ErrInvalidColumn
	}

	// shifting the disk from top to bottom till it
	// reaches the end or another disk
	for row := b.height - 1; row >= 0; row-- {
		if b.slots[row][col] == Empty {
			b.slots[row][col] = checker
			return row, nil
		}
	}
	return -1, ErrIllegalMove
}

// AddCheckers plays the digits of cols alternately as X and O, starting with X.
// Digits outside the board still consume a turn.
func (b *Board) AddCheckers(cols string) {
	checker := X
	for _, ch := range cols {
		col := int(ch - '0')
		if ch >= '0' && ch <= '9' && b.CanAddTo(col) {
			b.AddChecker(checker, col)
		}
		checker = checker.Opponent()
	}
}

// RemoveChecker takes the topmost checker out of col. Empty or unknown columns are left alone.
func (b *Board) RemoveChecker(col int) {
	if col < 0 || col >= b.width {
		return
	}
	for row := 0; row < b.height; row++ {
		if b.slots[row][col] != Empty {
			b.slots[row][col] = Empty
			return
		}
	}
}

func (b *Board) IsFull() bool {
	for c := 0; c < b.width; c++ {
		if b.CanAddTo(c) {
			return false
		}
	}
	return true
}

// ValidMoves lists the columns that can still take a checker, left to right.
func (b *Board) ValidMoves() []int {
	moves := make([]int, 0, b.width)
	for c := 0; c < b.width; c++ {
		if b.CanAddTo(c) {
			moves = append(moves, c)
		}
	}
	return moves
}

func (b *Board) Reset() {
	for r := range b.slots {
		for c := range b.slots[r] {
			b.slots[r][c] = Empty
		}
	}
}

// this creates a deep copy of the board
func (b *Board) Copy() *Board {
	slots := make([][]Checker, b.height)
	for i := range b.slots {
		slots[i] = make([]Checker, b.width)
		copy(slots[i], b.slots[i])
	}
	return &Board{height: b.height, width: b.width, slots: slots}
}

func (b *Board) String() string {
	var sb strings.Builder
	for _, row := range b.slots {
		sb.WriteByte('|')
		for _, v := range row {
			sb.WriteString(v.String())
			sb.WriteByte('|')
		}
		sb.WriteByte('\n')
	}

	sb.WriteString(strings.Repeat("-", 2*b.width+1))
	sb.WriteByte('\n')

	sb.WriteByte(' ')
	for c := 0; c < b.width; c++ {
		sb.WriteByte(byte('0' + c%10))
		sb.WriteByte(' ')
	}
	sb.WriteByte('\n')
	return sb.String()
}
