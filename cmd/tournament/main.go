// Command tournament runs a round robin between AI configurations and
// prints an Elo table.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/rs/zerolog/log"

	"github.com/iamasit07/connect-four/internal/config"
	"github.com/iamasit07/connect-four/internal/domain"
	"github.com/iamasit07/connect-four/internal/service/tournament"
)

func main() {
	games := flag.Int("games", 2, "games per colour for every pair")
	workers := flag.Int("workers", 0, "games played at once (0 = GOMAXPROCS)")
	seed := flag.Int64("seed", 0, "seed for RANDOM tie-breaks (0 = unseeded)")
	height := flag.Int("height", domain.DefaultRows, "board rows")
	width := flag.Int("width", domain.DefaultColumns, "board columns")
	logLevel := flag.String("log-level", "info", "log level")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] algo:lookahead[:tiebreak] ...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	config.SetupLogger(*logLevel, "console", os.Stderr)

	entrants, err := tournament.ParseEntrants(flag.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Info().Int("entrants", len(entrants)).Int("games", len(tournament.Schedule(len(entrants), *games))).Msg("tournament starting")

	res, err := tournament.Run(ctx, entrants, tournament.Options{
		GamesPerColour: *games,
		Concurrency:    *workers,
		Height:         *height,
		Width:          *width,
		Seed:           *seed,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("tournament failed")
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tENTRANT\tRATING\tW\tL\tD")
	for i, e := range res.Standings {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%d\n", i+1, e.Name, e.Rating, e.Wins, e.Losses, e.Draws)
	}
	tw.Flush()
}
