// autoplay lets the solver play 2048 on its own. With one game it prints
// the board after every move; with more it plays them in parallel and
// prints summary statistics.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/expecto/automatic"
	"github.com/domino14/expecto/board"
	"github.com/domino14/expecto/config"
)

const moveDelay = 50 * time.Millisecond

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	level, err := zerolog.ParseLevel(cfg.GetString(config.ConfigLogLevel))
	if err != nil {
		level = zerolog.InfoLevel
	}
	if cfg.GetBool(config.ConfigDebug) {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(output).Level(level).With().Timestamp().Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	games := cfg.GetInt(config.ConfigAutoplayGames)
	seeds, err := automatic.SeedsForBatch(cfg.GetString(config.ConfigAutoplaySeedfile), games)
	if err != nil {
		log.Fatal().Err(err).Msg("seeds")
	}

	if games <= 1 {
		playOne(ctx, cfg, seeds)
		return
	}

	logfile := cfg.GetString(config.ConfigAutoplayLogfile)
	start := time.Now()
	results, err := automatic.PlayGames(ctx, cfg, games, cfg.GetInt(config.ConfigAutoplayThreads), logfile, seeds)
	if err != nil {
		log.Fatal().Err(err).Msg("autoplay")
	}
	summary := automatic.Summarize(results)
	fmt.Print(summary.String())
	log.Info().Dur("elapsed", time.Since(start)).Msg("autoplay-done")

	if logfile != "" {
		out, err := summary.YAML()
		if err != nil {
			log.Fatal().Err(err).Msg("summary")
		}
		path := strings.TrimSuffix(logfile, ".csv") + ".summary.yaml"
		if err := os.WriteFile(path, out, 0o644); err != nil {
			log.Fatal().Err(err).Msg("summary")
		}
		log.Info().Str("file", path).Msg("wrote-summary")
	}
}

func playOne(ctx context.Context, cfg *config.Config, seeds [][32]byte) {
	r, err := automatic.NewGameRunner(nil, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("runner")
	}
	if len(seeds) > 0 {
		r.SetRandomizer(board.NewSeededRandomizer(seeds[0]))
	}
	r.SetOutput(os.Stdout, true)
	r.SetDelay(moveDelay)
	r.StartGame(automatic.GameID(0))
	res := r.PlayGame(ctx)
	fmt.Printf("Final score: %d, max tile: %d, moves: %d\n", res.Score, res.MaxTile, res.Moves)
}
