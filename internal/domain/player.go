package domain

// Player is anything that can pick a column for its checker.
// NextMove is only called on a board that still has a legal move.
type Player interface {
	Checker() Checker
	NextMove(b *Board) (int, error)
	NumMoves() int
}
