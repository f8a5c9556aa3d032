package cli

import (
	"fmt"
	"io"

	"github.com/iamasit07/connect-four/internal/domain"
	"github.com/iamasit07/connect-four/internal/service/game"
)

// Printer narrates a match on out.
type Printer struct {
	out io.Writer
}

func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

func name(p domain.Player) string {
	if s, ok := p.(fmt.Stringer); ok {
		return s.String()
	}
	return "Player " + p.Checker().String()
}

func (pr *Printer) Welcome(b *domain.Board) {
	fmt.Fprintln(pr.out, "Welcome to Connect Four!")
	fmt.Fprintln(pr.out)
	fmt.Fprintln(pr.out, b)
}

// OnTurn and OnMove plug into game.MatchOptions.
func (pr *Printer) OnTurn(p domain.Player, _ *domain.Game) {
	fmt.Fprintf(pr.out, "%s's turn\n\n", name(p))
}

func (pr *Printer) OnMove(ev game.MoveEvent) {
	fmt.Fprintf(pr.out, "%s plays column %d\n\n", name(ev.Player), ev.Column)
	fmt.Fprintln(pr.out, ev.Game.Board)

	switch ev.Game.Status {
	case domain.StatusWon:
		fmt.Fprintf(pr.out, "%s wins in %d moves\nCongratulations!\n", name(ev.Player), ev.Player.NumMoves())
	case domain.StatusDraw:
		fmt.Fprintln(pr.out, "It's a tie!")
	}
}
