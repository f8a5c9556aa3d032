package domain

// IsWinFor reports whether checker owns ToWin contiguous cells in any direction.
// It rescans the whole board on every call.
func (b *Board) IsWinFor(checker Checker) bool {
	if !checker.Valid() {
		return false
	}
	return b.isHorizontalWin(checker) ||
		b.isVerticalWin(checker) ||
		b.isDownDiagonalWin(checker) ||
		b.isUpDiagonalWin(checker)
}

// Winner returns the symbol that has a line, or Empty.
func (b *Board) Winner() Checker {
	if b.IsWinFor(X) {
		return X
	}
	if b.IsWinFor(O) {
		return O
	}
	return Empty
}

func (b *Board) isHorizontalWin(checker Checker) bool {
	for row := 0; row < b.height; row++ {
		for col := 0; col+ToWin <= b.width; col++ {
			if b.window(checker, row, col, 0, 1) {
				return true
			}
		}
	}
	return false
}

func (b *Board) isVerticalWin(checker Checker) bool {
	for row := 0; row+ToWin <= b.height; row++ {
		for col := 0; col < b.width; col++ {
			if b.window(checker, row, col, 1, 0) {
				return true
			}
		}
	}
	return false
}

// down-right: anchored at the upper-left end of the line
func (b *Board) isDownDiagonalWin(checker Checker) bool {
	for row := 0; row+ToWin <= b.height; row++ {
		for col := 0; col+ToWin <= b.width; col++ {
			if b.window(checker, row, col, 1, 1) {
				return true
			}
		}
	}
	return false
}

// up-right: anchored at the lower-left end of the line
func (b *Board) isUpDiagonalWin(checker Checker) bool {
	for row := ToWin - 1; row < b.height; row++ {
		for col := 0; col+ToWin <= b.width; col++ {
			if b.window(checker, row, col, -1, 1) {
				return true
			}
		}
	}
	return false
}

// window checks ToWin cells starting at (row, col) stepping by (dRow, dCol).
// Callers keep the whole window inside the board.
func (b *Board) window(checker Checker, row, col, dRow, dCol int) bool {
	for i := 0; i < ToWin; i++ {
		if b.slots[row+i*dRow][col+i*dCol] != checker {
			return false
		}
	}
	return true
}
