package automatic

// Batch play: many games, many threads, one CSV turn log.

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/expecto/board"
	"github.com/domino14/expecto/config"
)

var (
	GamesPlayed *expvar.Int
	IsPlaying   *expvar.Int
)

func init() {
	GamesPlayed = expvar.NewInt("gamesPlayed")
	IsPlaying = expvar.NewInt("isPlaying")
}

// TurnLogHeader is the first line of a turn log.
const TurnLogHeader = "gameID,move,direction,score,maxtile,empty,depth,nodes,elapsedms,position\n"

var errAlreadyPlaying = errors.New("games are already being played, please wait till complete")

// GameID names the i-th game of a batch.
func GameID(i int) string {
	return fmt.Sprintf("game-%d", i+1)
}

// PlayGames plays numGames games over the given number of threads. Each
// thread owns its own runner and solver. If logfile is not empty, every move
// is written to it as CSV. Game i spawns its tiles from seeds[i%len(seeds)],
// so a batch can be replayed exactly; with no seeds, fresh random ones are
// used. Results are
// returned in game order; games that never started because ctx was done are
// left out.
func PlayGames(ctx context.Context, cfg *config.Config, numGames, threads int,
	logfile string, seeds [][32]byte) ([]GameResult, error) {

	if IsPlaying.Value() > 0 {
		return nil, errAlreadyPlaying
	}
	threads = max(1, min(threads, numGames))
	if len(seeds) == 0 {
		var err error
		if seeds, err = GenerateSeeds(numGames); err != nil {
			return nil, err
		}
	}

	var logChan chan string
	var logWriter errgroup.Group
	if logfile != "" {
		f, err := os.Create(logfile)
		if err != nil {
			return nil, err
		}
		logChan = make(chan string, 100)
		logWriter.Go(func() error {
			return writeTurnLog(f, logChan)
		})
	}

	log.Info().Int("games", numGames).Int("threads", threads).Msg("starting-autoplay")
	GamesPlayed.Set(0)
	results := make([]GameResult, numGames)
	started := make([]bool, numGames)
	jobs := make(chan int, 100)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(jobs)
		for i := 0; i < numGames; i++ {
			select {
			case jobs <- i:
			case <-gctx.Done():
				log.Info().Int("queued", i).Msg("got-stop-signal")
				return nil
			}
		}
		return nil
	})

	for t := 0; t < threads; t++ {
		g.Go(func() error {
			r, err := NewGameRunner(logChan, cfg)
			if err != nil {
				return err
			}
			IsPlaying.Add(1)
			defer IsPlaying.Add(-1)
			for i := range jobs {
				if gctx.Err() != nil {
					continue
				}
				r.SetRandomizer(board.NewSeededRandomizer(seeds[i%len(seeds)]))
				r.StartGame(GameID(i))
				started[i] = true
				results[i] = r.PlayGame(gctx)
				GamesPlayed.Add(1)
				if n := GamesPlayed.Value(); n%100 == 0 {
					log.Info().Int64("games", n).Msg("progress")
				}
			}
			return nil
		})
	}

	err := g.Wait()
	if logChan != nil {
		close(logChan)
	}
	if werr := logWriter.Wait(); werr != nil && err == nil {
		err = werr
	}
	log.Info().Int64("games", GamesPlayed.Value()).Msg("all-games-finished")

	played := make([]GameResult, 0, numGames)
	for i, res := range results {
		if started[i] {
			played = append(played, res)
		}
	}
	return played, err
}

// writeTurnLog drains logChan into w. It keeps draining after a write error
// so that the players never block.
func writeTurnLog(w io.WriteCloser, logChan chan string) error {
	_, err := io.WriteString(w, TurnLogHeader)
	for msg := range logChan {
		if err != nil {
			continue
		}
		_, err = io.WriteString(w, msg)
	}
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	log.Debug().Err(err).Msg("exiting-turn-logger")
	return err
}
