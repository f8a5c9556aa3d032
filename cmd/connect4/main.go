// Command connect4 plays Connect Four in the terminal.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog/log"

	"github.com/iamasit07/connect-four/internal/config"
	"github.com/iamasit07/connect-four/internal/domain"
	"github.com/iamasit07/connect-four/internal/service/bot"
	"github.com/iamasit07/connect-four/internal/service/game"
	"github.com/iamasit07/connect-four/internal/transport/cli"
)

func main() {
	mode := flag.String("mode", "hvai", "hvai (human X vs AI O), hvh, or aivai")
	xBot := flag.String("x", "alphabeta:4:random", "AI for X in aivai mode, algo:lookahead:tiebreak")
	oBot := flag.String("o", "alphabeta:4:random", "AI for O, algo:lookahead:tiebreak")
	height := flag.Int("height", domain.DefaultRows, "board rows")
	width := flag.Int("width", domain.DefaultColumns, "board columns")
	logLevel := flag.String("log-level", "warn", "log level")
	flag.Parse()

	config.SetupLogger(*logLevel, "console", os.Stderr)

	p1, p2, err := players(*mode, *xBot, *oBot)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	board, err := domain.NewBoard(*height, *width)
	if err != nil {
		log.Fatal().Err(err).Msg("bad board size")
	}
	printer := cli.NewPrinter(os.Stdout)
	printer.Welcome(board)

	if _, err := game.Play(ctx, p1, p2, game.MatchOptions{
		Height: *height,
		Width:  *width,
		OnTurn: printer.OnTurn,
		OnMove: printer.OnMove,
	}); err != nil {
		log.Fatal().Err(err).Msg("game aborted")
	}
}

func players(mode, xSpec, oSpec string) (domain.Player, domain.Player, error) {
	aiFor := func(checker domain.Checker, spec string) (domain.Player, error) {
		cfg, err := bot.ParseConfig(spec)
		if err != nil {
			return nil, err
		}
		return cfg.NewPlayer(checker)
	}
	// both humans read from one scanner so neither buffers the other's input
	stdin := bufio.NewScanner(os.Stdin)
	human := func(checker domain.Checker) (domain.Player, error) {
		return cli.NewHumanPlayerFromScanner(checker, stdin, os.Stdout)
	}

	var x, o domain.Player
	var err error
	switch mode {
	case "hvai":
		if x, err = human(domain.X); err != nil {
			return nil, nil, err
		}
		o, err = aiFor(domain.O, oSpec)
	case "hvh":
		if x, err = human(domain.X); err != nil {
			return nil, nil, err
		}
		o, err = human(domain.O)
	case "aivai":
		if x, err = aiFor(domain.X, xSpec); err != nil {
			return nil, nil, err
		}
		o, err = aiFor(domain.O, oSpec)
	default:
		err = fmt.Errorf("unknown mode %q", mode)
	}
	return x, o, err
}
