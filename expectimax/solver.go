package expectimax

import (
	"context"
	"fmt"
	"io"
	"math"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/domino14/expecto/board"
	"github.com/domino14/expecto/equity"
	"github.com/domino14/expecto/zobrist"
)

/*
function expectimax(node, depth, maximizing) is
    if depth = 0 or node is terminal then
        return heuristic value of node
    if maximizing then
        return max over moves m of expectimax(apply(node, m), depth − 1, false)
    else
        return sum over empty squares s and spawns v of
            P(v) / |empty| × expectimax(place(node, s, v), depth − 1, true)
*/

// MaxDepth is the deepest iteration the solver will ever start.
const MaxDepth = 10

// MoveValue is the value of a root move at one depth.
type MoveValue struct {
	Move  string  `yaml:"move"`
	Value float64 `yaml:"value"`
}

// DepthResult describes one completed iteration.
type DepthResult struct {
	Depth   int         `yaml:"depth"`
	Values  []MoveValue `yaml:"values"`
	Best    string      `yaml:"best"`
	Nodes   uint64      `yaml:"nodes"`
	Elapsed string      `yaml:"elapsed"`
}

// SearchInfo describes the most recent search.
type SearchInfo struct {
	Budget         time.Duration
	Elapsed        time.Duration
	CompletedDepth int
	Interrupted    bool
	Best           board.Direction
	Found          bool
	Nodes          uint64
	Table          TableStats
	Depths         []DepthResult
}

type Solver struct {
	zobrist   *zobrist.Zobrist
	evaluator equity.Evaluator
	ttable    *TranspositionTable

	transpositionTableOptim bool
	cachePolicy             CachePolicy
	cacheCapacity           int
	cacheMemoryFraction     float64

	minTime  time.Duration
	maxTime  time.Duration
	maxDepth int

	nodes      atomic.Uint64
	lastSearch SearchInfo

	logStream io.Writer
}

// Init initializes the solver. A solver is meant to be reused for every move
// of a game.
func (s *Solver) Init(e equity.Evaluator) error {
	if e == nil {
		e = equity.NewStaticEvaluator()
	}
	s.evaluator = e
	s.zobrist = &zobrist.Zobrist{}
	s.zobrist.Initialize()
	s.transpositionTableOptim = true
	s.cachePolicy = CachePerSearch
	s.cacheMemoryFraction = 0.05
	s.minTime = DefaultMinTime
	s.maxTime = DefaultMaxTime
	s.maxDepth = MaxDepth
	s.ttable = &TranspositionTable{}
	return s.ttable.Reset(s.cachePolicy, s.cacheCapacity, s.cacheMemoryFraction)
}

// SetTimeBudget sets the search time for a full and an empty board. If both
// are zero, searches have no deadline and stop only at the maximum depth or
// when the caller's context is done.
func (s *Solver) SetTimeBudget(minTime, maxTime time.Duration) {
	s.minTime = minTime
	s.maxTime = max(minTime, maxTime)
}

// SetMaxDepth limits iterative deepening. It never goes past MaxDepth.
func (s *Solver) SetMaxDepth(d int) {
	s.maxDepth = max(1, min(d, MaxDepth))
}

func (s *Solver) MaxDepth() int {
	return s.maxDepth
}

func (s *Solver) SetTranspositionTableOptim(o bool) {
	s.transpositionTableOptim = o
}

// SetCachePolicy replaces the transposition table with an empty one run
// under the given policy. capacity and fractionOfMemory only apply to
// CacheBounded.
func (s *Solver) SetCachePolicy(p CachePolicy, capacity int, fractionOfMemory float64) error {
	if fractionOfMemory > 0 {
		s.cacheMemoryFraction = fractionOfMemory
	}
	if err := s.ttable.Reset(p, capacity, s.cacheMemoryFraction); err != nil {
		return err
	}
	s.cachePolicy = p
	s.cacheCapacity = capacity
	return nil
}

func (s *Solver) SetLogStream(l io.Writer) {
	s.logStream = l
}

func (s *Solver) TranspositionTable() *TranspositionTable {
	return s.ttable
}

func (s *Solver) Evaluator() equity.Evaluator {
	return s.evaluator
}

// LastSearch returns details about the most recent call to FindBestMove.
func (s *Solver) LastSearch() SearchInfo {
	return s.lastSearch
}

// Budget is the time the solver would spend on b.
func (s *Solver) Budget(b *board.Board) time.Duration {
	return Budget(s.minTime, s.maxTime, b.CountEmpty())
}

// FindBestMove picks the move for b with the best expected outcome. It
// deepens the search one level at a time until the time budget runs out or
// the maximum depth has been searched, and answers with the best move of the
// deepest iteration that finished. An iteration cut short by the deadline
// is thrown away, except the first one, which always runs to completion.
//
// The second return value is false if no move changes the board.
func (s *Solver) FindBestMove(ctx context.Context, b *board.Board) (board.Direction, bool) {
	start := time.Now()
	budget := s.Budget(b)
	if budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, budget)
		defer cancel()
	}
	s.nodes.Store(0)
	if s.transpositionTableOptim {
		s.ttable.beginSearch()
	}
	info := SearchInfo{Budget: budget}
	order := OrderMoves(b)

	log.Debug().Dur("budget", budget).Int("empty", b.CountEmpty()).
		Str("position", b.Notation()).Msg("find-best-move")

	var child board.Board
	for depth := 1; depth <= s.maxDepth; depth++ {
		log.Debug().Int("depth", depth).Msg("deepening-iteratively")
		res := DepthResult{Depth: depth}
		bestVal := math.Inf(-1)
		var best board.Direction
		found := false
		interrupted := false

		for _, d := range order {
			child.CopyFrom(b)
			if !child.Move(d) {
				continue
			}
			g := child.Grid()
			val := s.expectimax(ctx, &child, s.zobrist.Hash(&g), depth-1, false)
			res.Values = append(res.Values, MoveValue{Move: d.String(), Value: val})
			if val > bestVal {
				bestVal = val
				best = d
				found = true
			}
			if depth > 1 && ctx.Err() != nil {
				interrupted = true
				break
			}
		}
		if interrupted {
			info.Interrupted = true
			log.Debug().Int("depth", depth).Msg("depth-abandoned")
			break
		}
		info.Best, info.Found = best, found
		info.CompletedDepth = depth
		res.Nodes = s.nodes.Load()
		res.Elapsed = time.Since(start).String()
		if found {
			res.Best = best.String()
		}
		info.Depths = append(info.Depths, res)
		s.writeLog(res)
		log.Debug().Int("depth", depth).Str("best", res.Best).Float64("value", bestVal).
			Uint64("nodes", res.Nodes).Msg("best-val")

		// Deeper searches cannot find a move where a shallow one found none.
		if !found || ctx.Err() != nil {
			break
		}
	}

	info.Elapsed = time.Since(start)
	info.Nodes = s.nodes.Load()
	info.Table = s.ttable.Stats()
	s.lastSearch = info

	log.Debug().
		Int("completed-depth", info.CompletedDepth).
		Bool("found", info.Found).
		Str("move", info.Best.String()).
		Uint64("nodes", info.Nodes).
		Dur("elapsed", info.Elapsed).
		Uint64("tt-created", info.Table.Created).
		Uint64("tt-lookups", info.Table.Lookups).
		Uint64("tt-hits", info.Table.Hits).
		Int("tt-size", info.Table.Size).
		Msg("search-done")

	return info.Best, info.Found
}

func (s *Solver) writeLog(res DepthResult) {
	if s.logStream == nil {
		return
	}
	out, err := yaml.Marshal([]DepthResult{res})
	if err != nil {
		log.Err(err).Msg("marshalling-depth-result")
		return
	}
	fmt.Fprint(s.logStream, string(out))
}

func (s *Solver) expectimax(ctx context.Context, b *board.Board, key uint64, depth int, maximizing bool) float64 {
	s.nodes.Add(1)
	if ctx.Err() != nil || depth == 0 || b.IsWin() || !b.CanMove() {
		return s.evaluator.Evaluate(b)
	}
	tkey := TableKey{Hash: key, Depth: uint8(depth), Maximizing: maximizing}
	if s.transpositionTableOptim {
		if v, ok := s.ttable.lookup(tkey); ok {
			return v
		}
	}
	var val float64
	if maximizing {
		val = s.maxNode(ctx, b, depth)
	} else {
		val = s.chanceNode(ctx, b, key, depth)
	}
	if s.transpositionTableOptim {
		s.storeValue(ctx, tkey, val)
	}
	return val
}

// storeValue caches val. A value computed after the deadline is a static
// evaluation in disguise, so only the persistent policy keeps it.
func (s *Solver) storeValue(ctx context.Context, k TableKey, val float64) {
	if ctx.Err() != nil && s.cachePolicy != CachePersistent {
		return
	}
	s.ttable.store(k, val)
}

func (s *Solver) maxNode(ctx context.Context, b *board.Board, depth int) float64 {
	best := math.Inf(-1)
	moved := false
	var child board.Board
	for _, d := range OrderMoves(b) {
		child.CopyFrom(b)
		if !child.Move(d) {
			continue
		}
		moved = true
		g := child.Grid()
		best = max(best, s.expectimax(ctx, &child, s.zobrist.Hash(&g), depth-1, false))
	}
	if !moved {
		return s.evaluator.Evaluate(b)
	}
	return best
}

func (s *Solver) chanceNode(ctx context.Context, b *board.Board, key uint64, depth int) float64 {
	empties := b.EmptySquares()
	if len(empties) == 0 {
		return s.evaluator.Evaluate(b)
	}
	total := 0.0
	var child board.Board
	for _, sq := range empties {
		for _, o := range board.SpawnOutcomes {
			child.CopyFrom(b)
			child.SetTile(sq.Row, sq.Col, o.Value)
			childKey := s.zobrist.AddTile(key, sq, o.Value)
			total += o.Probability * s.expectimax(ctx, &child, childKey, depth-1, true)
		}
	}
	return total / float64(len(empties))
}
