// Package automatic plays whole games of 2048 with the search engine, either
// one at a time with the board printed after every move, or in large
// parallel batches for statistics.
package automatic

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/domino14/expecto/board"
	"github.com/domino14/expecto/config"
	"github.com/domino14/expecto/expectimax"
)

// StopReason says why a game ended.
type StopReason string

const (
	StopWon        StopReason = "won"
	StopNoMoves    StopReason = "no-moves"
	StopNoBestMove StopReason = "no-best-move"
	StopCancelled  StopReason = "cancelled"
)

// GameResult is the outcome of one game.
type GameResult struct {
	GameID    string        `yaml:"game-id"`
	Score     int           `yaml:"score"`
	MaxTile   int           `yaml:"max-tile"`
	Moves     int           `yaml:"moves"`
	Won       bool          `yaml:"won"`
	Reason    StopReason    `yaml:"reason"`
	MeanDepth float64       `yaml:"mean-depth"`
	Elapsed   time.Duration `yaml:"elapsed"`
	Final     string        `yaml:"final"`
}

// GameRunner is the master struct here for the automatic game logic. It
// owns a solver, so a runner must not be shared between goroutines.
type GameRunner struct {
	solver *expectimax.Solver
	rng    board.Randomizer
	board  *board.Board

	gameID      string
	moves       int
	lastMove    board.Direction
	depthTotal  int
	config      *config.Config
	logchan     chan string
	out         io.Writer
	colors      bool
	delay       time.Duration
	playPastWin bool
}

// NewGameRunner creates a runner with a solver configured from cfg. If
// logchan is not nil, a CSV line is sent on it for every move played.
func NewGameRunner(logchan chan string, cfg *config.Config) (*GameRunner, error) {
	solver, err := expectimax.NewSolverFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return &GameRunner{
		solver:      solver,
		config:      cfg,
		logchan:     logchan,
		playPastWin: cfg.GetBool(config.ConfigPlayPastWin),
	}, nil
}

func (r *GameRunner) Solver() *expectimax.Solver {
	return r.solver
}

func (r *GameRunner) Board() *board.Board {
	return r.board
}

func (r *GameRunner) Moves() int {
	return r.moves
}

// LastMove is the most recent move played.
func (r *GameRunner) LastMove() board.Direction {
	return r.lastMove
}

// SetRandomizer sets the source of tile spawns. nil means the package
// default from the board package.
func (r *GameRunner) SetRandomizer(rng board.Randomizer) {
	r.rng = rng
}

// SetOutput makes the runner print the board after every move, the way an
// interactive player would see it.
func (r *GameRunner) SetOutput(w io.Writer, colors bool) {
	r.out = w
	r.colors = colors
}

// SetDelay pauses between moves so a game can be watched.
func (r *GameRunner) SetDelay(d time.Duration) {
	r.delay = d
}

func (r *GameRunner) SetPlayPastWin(p bool) {
	r.playPastWin = p
}

// StartGame sets up a fresh board with two spawned tiles.
func (r *GameRunner) StartGame(gameID string) {
	r.StartFromBoard(gameID, board.NewBoard(r.rng))
}

// StartFromBoard continues play from an existing position. The runner takes
// a copy of b.
func (r *GameRunner) StartFromBoard(gameID string, b *board.Board) {
	r.gameID = gameID
	r.board = b.Copy()
	r.moves = 0
	r.depthTotal = 0
}

func (r *GameRunner) printBoard() {
	if r.out == nil {
		return
	}
	if r.colors {
		fmt.Fprint(r.out, r.board.ToDisplayText())
	} else {
		fmt.Fprint(r.out, r.board.ToPlainText())
	}
}

func (r *GameRunner) say(format string, args ...any) {
	if r.out == nil {
		return
	}
	fmt.Fprintf(r.out, format+"\n", args...)
}

// checkOver reports whether the game is finished before the next move.
func (r *GameRunner) checkOver(ctx context.Context) (StopReason, bool) {
	switch {
	case ctx.Err() != nil:
		return StopCancelled, true
	case !r.playPastWin && r.board.IsWin():
		return StopWon, true
	case !r.board.CanMove():
		return StopNoMoves, true
	}
	return "", false
}

// PlayTurn asks the solver for a move, plays it and spawns a tile. It
// returns false, with the reason, if the game is over instead.
func (r *GameRunner) PlayTurn(ctx context.Context) (bool, StopReason) {
	if reason, over := r.checkOver(ctx); over {
		return false, reason
	}
	dir, ok := r.solver.FindBestMove(ctx, r.board)
	if !ok {
		return false, StopNoBestMove
	}
	info := r.solver.LastSearch()
	if !r.board.Move(dir) {
		// The solver only suggests moves that change the board.
		log.Error().Str("position", r.board.Notation()).Str("move", dir.String()).
			Msg("ineffective-move-suggested")
		return false, StopNoBestMove
	}
	r.board.Spawn(r.rng)
	r.lastMove = dir
	r.moves++
	r.depthTotal += info.CompletedDepth

	if r.logchan != nil {
		r.logchan <- fmt.Sprintf("%v,%v,%v,%v,%v,%v,%v,%v,%v,\"%v\"\n",
			r.gameID,
			r.moves,
			dir,
			r.board.Score(),
			r.board.MaxTile(),
			r.board.CountEmpty(),
			info.CompletedDepth,
			info.Nodes,
			info.Elapsed.Milliseconds(),
			strings.Fields(r.board.Notation())[0])
	}
	return true, ""
}

// PlayGame plays until the game is won (unless playing past a win), no
// move is possible, or ctx is done.
func (r *GameRunner) PlayGame(ctx context.Context) GameResult {
	start := time.Now()
	r.say("Starting game %s", r.gameID)
	r.printBoard()

	var reason StopReason
	for {
		var played bool
		played, reason = r.PlayTurn(ctx)
		if !played {
			break
		}
		r.say("Move %d: %s", r.moves, strings.ToUpper(r.lastMove.String()))
		r.printBoard()
		if r.delay > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(r.delay):
			}
		}
	}

	switch reason {
	case StopWon:
		r.say("Reached %d!", board.WinningTile)
	case StopNoMoves, StopNoBestMove:
		r.say("No more moves left. Game over.")
	case StopCancelled:
		r.say("Game stopped.")
	}
	if reason != StopCancelled {
		r.printBoard()
	}

	res := GameResult{
		GameID:  r.gameID,
		Score:   r.board.Score(),
		MaxTile: r.board.MaxTile(),
		Moves:   r.moves,
		Won:     r.board.MaxTile() >= board.WinningTile,
		Reason:  reason,
		Elapsed: time.Since(start),
		Final:   r.board.Notation(),
	}
	if r.moves > 0 {
		res.MeanDepth = float64(r.depthTotal) / float64(r.moves)
	}
	log.Debug().Str("game-id", res.GameID).Int("score", res.Score).
		Int("max-tile", res.MaxTile).Int("moves", res.Moves).
		Str("reason", string(res.Reason)).Msg("game-over")
	return res
}
