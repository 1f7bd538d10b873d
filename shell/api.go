package shell

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/domino14/expecto/automatic"
	"github.com/domino14/expecto/board"
	"github.com/domino14/expecto/config"
	"github.com/domino14/expecto/equity"
	"github.com/domino14/expecto/expectimax"
)

//go:embed helptext/*.txt
var helptext embed.FS

type Response struct {
	message string
}

func (r *Response) String() string {
	return r.message
}

type CmdOptions map[string][]string

func (c CmdOptions) String(key string) string {
	v := c[key]
	if len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c CmdOptions) Int(key string) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return 0, errors.New(key + " not found in options")
	}
	return strconv.Atoi(v[0])
}

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultI, nil
	}
	return strconv.Atoi(v[0])
}

func (c CmdOptions) BoolDefault(key string, defaultB bool) (bool, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultB, nil
	}
	return strconv.ParseBool(v[0])
}

func msg(message string) *Response {
	return &Response{message: message}
}

func (sc *ShellController) help(cmd *shellcmd) (*Response, error) {
	topic := "usage"
	if len(cmd.args) > 0 {
		topic = cmd.args[0]
	}
	dat, err := helptext.ReadFile("helptext/" + topic + ".txt")
	if err != nil {
		return msg("There is no help text for the topic " + topic), nil
	}
	return msg(strings.TrimRight(string(dat), "\n")), nil
}

// ensureRunner creates the game runner on first use.
func (sc *ShellController) ensureRunner() error {
	if sc.runner != nil {
		return nil
	}
	r, err := automatic.NewGameRunner(nil, sc.config)
	if err != nil {
		return err
	}
	r.SetRandomizer(sc.rng)
	sc.runner = r
	return nil
}

func (sc *ShellController) currentBoard() (*board.Board, error) {
	if sc.runner == nil || sc.runner.Board() == nil {
		return nil, errNoGame
	}
	return sc.runner.Board(), nil
}

func (sc *ShellController) boardText(b *board.Board) string {
	if sc.l != nil {
		return b.ToDisplayText()
	}
	return b.ToPlainText()
}

func (sc *ShellController) setPosition(b *board.Board) {
	sc.runner.StartFromBoard("shell", b)
	sc.history = nil
}

func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	if name := cmd.options.String("seed"); name != "" {
		sc.rng = board.NewSeededRandomizer(automatic.SeedFromString(name))
	} else {
		sc.rng = nil
	}
	if err := sc.ensureRunner(); err != nil {
		return nil, err
	}
	sc.runner.SetRandomizer(sc.rng)
	sc.setPosition(board.NewBoard(sc.rng))
	return sc.show(cmd)
}

func (sc *ShellController) load(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("load needs a position; see help load")
	}
	b, err := board.ParseNotation(strings.Join(cmd.args, " "))
	if err != nil {
		return nil, err
	}
	if err := sc.ensureRunner(); err != nil {
		return nil, err
	}
	sc.setPosition(b)
	return sc.show(cmd)
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	b, err := sc.currentBoard()
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	sb.WriteString(sc.boardText(b))
	fmt.Fprintf(&sb, "Position: %s\n", b.Notation())
	switch {
	case b.IsWin():
		sb.WriteString("Reached 2048!")
	case !b.CanMove():
		sb.WriteString("No moves left. Game over.")
	default:
		fmt.Fprintf(&sb, "Empty squares: %d", b.CountEmpty())
	}
	return msg(sb.String()), nil
}

func (sc *ShellController) eval(cmd *shellcmd) (*Response, error) {
	b, err := sc.currentBoard()
	if err != nil {
		return nil, err
	}
	e := equity.NewStaticEvaluator()
	return msg(strings.TrimRight(equity.BreakdownTable(e.Breakdown(b)), "\n")), nil
}

func (sc *ShellController) best(ctx context.Context, cmd *shellcmd) (*Response, error) {
	b, err := sc.currentBoard()
	if err != nil {
		return nil, err
	}
	solver := sc.runner.Solver()
	dir, ok := solver.FindBestMove(ctx, b)
	if !ok {
		return msg("No move changes the board."), nil
	}
	info := solver.LastSearch()
	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Move\tValue\t")
	if n := len(info.Depths); n > 0 {
		for _, mv := range info.Depths[n-1].Values {
			fmt.Fprintf(tw, "%s\t%.1f\t\n", mv.Move, mv.Value)
		}
	}
	tw.Flush()
	fmt.Fprintf(&sb, "Best move: %s\n", dir)
	fmt.Fprintf(&sb, "Depth: %d%s  Nodes: %d  Time: %v (budget %v)\n",
		info.CompletedDepth, interruptedSuffix(info.Interrupted), info.Nodes,
		info.Elapsed.Round(time.Millisecond), info.Budget)
	fmt.Fprintf(&sb, "Table: %d entries, %d lookups, %d hits, %d created",
		info.Table.Size, info.Table.Lookups, info.Table.Hits, info.Table.Created)
	return msg(sb.String()), nil
}

func interruptedSuffix(interrupted bool) string {
	if interrupted {
		return " (next depth ran out of time)"
	}
	return ""
}

func (sc *ShellController) move(cmd *shellcmd) (*Response, error) {
	b, err := sc.currentBoard()
	if err != nil {
		return nil, err
	}
	if len(cmd.args) != 1 {
		return nil, errors.New("move needs exactly one direction")
	}
	dir, err := board.ParseDirection(cmd.args[0])
	if err != nil {
		return nil, err
	}
	doSpawn, err := cmd.options.BoolDefault("spawn", true)
	if err != nil {
		return nil, err
	}
	before := b.Copy()
	if !b.Move(dir) {
		return nil, fmt.Errorf("moving %s does not change the board", dir)
	}
	sc.history = append(sc.history, before)
	if doSpawn {
		b.Spawn(sc.rng)
	}
	return sc.show(cmd)
}

func (sc *ShellController) spawn(cmd *shellcmd) (*Response, error) {
	b, err := sc.currentBoard()
	if err != nil {
		return nil, err
	}
	before := b.Copy()
	if !b.Spawn(sc.rng) {
		return nil, errors.New("the board is full")
	}
	sc.history = append(sc.history, before)
	return sc.show(cmd)
}

func (sc *ShellController) undo(cmd *shellcmd) (*Response, error) {
	b, err := sc.currentBoard()
	if err != nil {
		return nil, err
	}
	if len(sc.history) == 0 {
		return nil, errors.New("nothing to undo")
	}
	last := sc.history[len(sc.history)-1]
	sc.history = sc.history[:len(sc.history)-1]
	b.CopyFrom(last)
	return sc.show(cmd)
}

func (sc *ShellController) play(ctx context.Context, cmd *shellcmd) (*Response, error) {
	b, err := sc.currentBoard()
	if err != nil {
		return nil, err
	}
	limit := -1
	if len(cmd.args) > 0 {
		limit, err = strconv.Atoi(cmd.args[0])
		if err != nil || limit < 1 {
			return nil, fmt.Errorf("bad number of moves %q", cmd.args[0])
		}
	}
	played := 0
	var reason automatic.StopReason
	for limit < 0 || played < limit {
		before := b.Copy()
		var ok bool
		ok, reason = sc.runner.PlayTurn(ctx)
		if !ok {
			break
		}
		sc.history = append(sc.history, before)
		played++
		sc.showMessage(fmt.Sprintf("Move %d: %s", played, strings.ToUpper(sc.runner.LastMove().String())))
		sc.showMessage(sc.boardText(b))
	}
	text := fmt.Sprintf("Played %d moves. Score: %d", played, b.Score())
	if reason != "" {
		text += fmt.Sprintf(" (stopped: %s)", reason)
	}
	return msg(text), nil
}

func (sc *ShellController) autoplay(ctx context.Context, cmd *shellcmd) (*Response, error) {
	if len(cmd.args) > 0 {
		switch cmd.args[0] {
		case "stop":
			if !sc.stopAutoplay() {
				return msg("No games are being played."), nil
			}
			return msg("Stopped."), nil
		case "summary":
			sc.autoplayMu.Lock()
			defer sc.autoplayMu.Unlock()
			if sc.lastSummary == nil {
				return msg("No batch has finished yet."), nil
			}
			return msg(sc.lastSummary.String()), nil
		default:
			return nil, fmt.Errorf("unknown autoplay argument %q", cmd.args[0])
		}
	}

	games, err := cmd.options.IntDefault("games", sc.config.GetInt(config.ConfigAutoplayGames))
	if err != nil {
		return nil, err
	}
	threads, err := cmd.options.IntDefault("threads", sc.config.GetInt(config.ConfigAutoplayThreads))
	if err != nil {
		return nil, err
	}
	if games < 1 || threads < 1 {
		return nil, errors.New("games and threads must be positive")
	}
	logfile := cmd.options.String("logfile")
	if logfile == "" {
		logfile = sc.config.GetString(config.ConfigAutoplayLogfile)
	}
	seedfile := cmd.options.String("seedfile")
	if seedfile == "" {
		seedfile = sc.config.GetString(config.ConfigAutoplaySeedfile)
	}
	seeds, err := automatic.SeedsForBatch(seedfile, games)
	if err != nil {
		return nil, err
	}

	sc.autoplayMu.Lock()
	defer sc.autoplayMu.Unlock()
	if sc.autoplayDone != nil {
		return nil, errors.New("games are already being played; use autoplay stop")
	}
	actx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	sc.autoplayCancel = cancel
	sc.autoplayDone = done

	go func() {
		defer close(done)
		defer cancel()
		results, err := automatic.PlayGames(actx, sc.config, games, threads, logfile, seeds)
		if err != nil {
			log.Err(err).Msg("autoplay-error")
		}
		summary := automatic.Summarize(results)
		sc.showMessage(summary.String())
		sc.autoplayMu.Lock()
		sc.lastSummary = &summary
		sc.autoplayDone = nil
		sc.autoplayCancel = nil
		sc.autoplayMu.Unlock()
	}()
	return msg(fmt.Sprintf("Playing %d games on %d threads in the background.", games, threads)), nil
}

// stopAutoplay cancels a running batch and waits for it. It returns false
// if nothing was running.
func (sc *ShellController) stopAutoplay() bool {
	sc.autoplayMu.Lock()
	cancel, done := sc.autoplayCancel, sc.autoplayDone
	sc.autoplayMu.Unlock()
	if done == nil {
		return false
	}
	cancel()
	<-done
	return true
}

func (sc *ShellController) autoplayRunning() bool {
	sc.autoplayMu.Lock()
	defer sc.autoplayMu.Unlock()
	return sc.autoplayDone != nil
}

// Wait blocks until the running batch, if any, is done.
func (sc *ShellController) Wait() {
	sc.autoplayMu.Lock()
	done := sc.autoplayDone
	sc.autoplayMu.Unlock()
	if done != nil {
		<-done
	}
}

var settableKeys = []string{
	config.ConfigSearchMinTime,
	config.ConfigSearchMaxTime,
	config.ConfigSearchMaxDepth,
	config.ConfigCachePolicy,
	config.ConfigCacheCapacity,
	config.ConfigCacheMemoryFraction,
	config.ConfigPlayPastWin,
	config.ConfigAutoplayGames,
	config.ConfigAutoplayThreads,
}

func (sc *ShellController) showSettings() string {
	var sb strings.Builder
	for _, k := range settableKeys {
		fmt.Fprintf(&sb, "%-24s %v\n", k, sc.config.Get(k))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func parseSetting(key, value string) (any, error) {
	switch key {
	case config.ConfigSearchMinTime, config.ConfigSearchMaxTime:
		return time.ParseDuration(value)
	case config.ConfigSearchMaxDepth, config.ConfigCacheCapacity,
		config.ConfigAutoplayGames, config.ConfigAutoplayThreads:
		return strconv.Atoi(value)
	case config.ConfigCacheMemoryFraction:
		return strconv.ParseFloat(value, 64)
	case config.ConfigPlayPastWin:
		return strconv.ParseBool(value)
	case config.ConfigCachePolicy:
		if value != "off" {
			if _, err := expectimax.ParseCachePolicy(value); err != nil {
				return nil, err
			}
		}
		return value, nil
	}
	return nil, fmt.Errorf("%q is not a setting; see help set", key)
}

func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return msg(sc.showSettings()), nil
	}
	key := cmd.args[0]
	if len(cmd.args) == 1 {
		if !slices.Contains(settableKeys, key) {
			return nil, fmt.Errorf("%q is not a setting; see help set", key)
		}
		return msg(fmt.Sprintf("%s: %v", key, sc.config.Get(key))), nil
	}
	val, err := parseSetting(key, cmd.args[1])
	if err != nil {
		return nil, err
	}
	if sc.autoplayRunning() {
		return nil, errAutoplayRunning
	}
	sc.config.Set(key, val)
	if err := sc.rebuildRunner(); err != nil {
		return nil, err
	}
	return msg(fmt.Sprintf("set %s to %v", key, val)), nil
}

// rebuildRunner replaces the solver after a settings change, keeping the
// current position.
func (sc *ShellController) rebuildRunner() error {
	old := sc.runner
	sc.runner = nil
	if err := sc.ensureRunner(); err != nil {
		sc.runner = old
		return err
	}
	if old != nil && old.Board() != nil {
		sc.runner.StartFromBoard("shell", old.Board())
	}
	return nil
}

func (sc *ShellController) cache(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) > 0 {
		return sc.set(&shellcmd{cmd: "set", args: []string{config.ConfigCachePolicy, cmd.args[0]}})
	}
	if err := sc.ensureRunner(); err != nil {
		return nil, err
	}
	tt := sc.runner.Solver().TranspositionTable()
	policy := sc.config.GetString(config.ConfigCachePolicy)
	st := tt.Stats()
	text := fmt.Sprintf("Policy: %s\nEntries: %d", policy, st.Size)
	if c := tt.Capacity(); c > 0 {
		text += fmt.Sprintf(" (capacity %d)", c)
	}
	text += fmt.Sprintf("\nLast search: %d lookups, %d hits, %d created", st.Lookups, st.Hits, st.Created)
	return msg(text), nil
}
