// Package cli is the terminal front end: a human player reading columns
// from a reader and a printer that narrates a match.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iamasit07/connect-four/internal/domain"
)

// HumanPlayer reads column numbers line by line until it gets a legal one.
type HumanPlayer struct {
	checker  domain.Checker
	in       *bufio.Scanner
	out      io.Writer
	numMoves int
}

func NewHumanPlayer(checker domain.Checker, in io.Reader, out io.Writer) (*HumanPlayer, error) {
	return NewHumanPlayerFromScanner(checker, bufio.NewScanner(in), out)
}

// NewHumanPlayerFromScanner lets several players take turns on one input.
// A scanner buffers ahead, so players sharing a reader must share the scanner too.
func NewHumanPlayerFromScanner(checker domain.Checker, in *bufio.Scanner, out io.Writer) (*HumanPlayer, error) {
	if !checker.Valid() {
		return nil, domain.ErrInvalidSymbol
	}
	return &HumanPlayer{checker: checker, in: in, out: out}, nil
}

func (p *HumanPlayer) Checker() domain.Checker { return p.checker }
func (p *HumanPlayer) NumMoves() int           { return p.numMoves }

func (p *HumanPlayer) String() string {
	return "Player " + p.checker.String()
}

// NextMove returns io.ErrUnexpectedEOF when input runs out before a legal column.
func (p *HumanPlayer) NextMove(b *domain.Board) (int, error) {
	if b.IsFull() {
		return -1, domain.ErrNoLegalMove
	}
	p.numMoves++
	for {
		fmt.Fprint(p.out, "Enter a column: ")
		if !p.in.Scan() {
			if err := p.in.Err(); err != nil {
				return -1, err
			}
			return -1, io.ErrUnexpectedEOF
		}

		col, err := strconv.Atoi(strings.TrimSpace(p.in.Text()))
		if err == nil && b.CanAddTo(col) {
			return col, nil
		}
		fmt.Fprint(p.out, "Try again!\n\n")
	}
}
