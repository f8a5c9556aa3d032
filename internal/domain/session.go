package domain

import "time"

// GameRecord is a finished game as it is persisted.
type GameRecord struct {
	GameID          string    `json:"gameId"`
	HumanChecker    string    `json:"humanChecker"`
	BotConfig       string    `json:"botConfig"`
	Winner          string    `json:"winner"` // "X", "O" or "draw"
	Reason          string    `json:"reason"`
	TotalMoves      int       `json:"totalMoves"`
	Moves           []int     `json:"moves"`
	DurationSeconds int       `json:"durationSeconds"`
	CreatedAt       time.Time `json:"createdAt"`
	FinishedAt      time.Time `json:"finishedAt"`
	Board           [][]int   `json:"board"`
}

// GameSnapshot is the live view of a session, cached and served to watchers.
type GameSnapshot struct {
	GameID        string     `json:"gameId"`
	Board         [][]int    `json:"board"`
	CurrentPlayer int        `json:"currentPlayer"`
	Status        GameStatus `json:"status"`
	Winner        int        `json:"winner"`
	MoveCount     int        `json:"moveCount"`
	HumanChecker  int        `json:"humanChecker"`
	BotConfig     string     `json:"botConfig"`
	StartedAt     time.Time  `json:"startedAt"`
}
