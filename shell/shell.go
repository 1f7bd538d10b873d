package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/domino14/expecto/automatic"
	"github.com/domino14/expecto/board"
	"github.com/domino14/expecto/config"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errNoGame            = errors.New("no game in progress; use new or load")
	errExit              = errors.New("exit")
	errAutoplayRunning   = errors.New("settings cannot change while games are being played; use autoplay stop")
)

type shellcmd struct {
	cmd     string
	args    []string
	options CmdOptions
}

type ShellController struct {
	l      *readline.Instance
	out    io.Writer
	config *config.Config

	runner  *automatic.GameRunner
	rng     board.Randomizer
	history []*board.Board

	autoplayMu     sync.Mutex
	autoplayCancel context.CancelFunc
	autoplayDone   chan struct{}
	lastSummary    *automatic.Summary
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func NewShellController(cfg *config.Config) *ShellController {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[33mexpecto>\033[0m ",
		HistoryFile:     "/tmp/expecto-readline.tmp",
		AutoComplete:    completer,
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	sc := newController(cfg, l.Stdout())
	sc.l = l
	return sc
}

// newController creates a controller with no terminal attached; output goes
// to w.
func newController(cfg *config.Config, w io.Writer) *ShellController {
	return &ShellController{out: w, config: cfg}
}

func (sc *ShellController) showMessage(msg string) {
	showMessage(msg, sc.out)
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

// extractFields splits a command line into the command, its positional
// arguments and its -option value pairs. Options may repeat.
func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := CmdOptions{}
	for i := 1; i < len(fields); i++ {
		if strings.HasPrefix(fields[i], "-") && len(fields[i]) > 1 {
			if i == len(fields)-1 {
				return nil, errWrongOptionSyntax
			}
			key := fields[i][1:]
			options[key] = append(options[key], fields[i+1])
			i++
			continue
		}
		args = append(args, fields[i])
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

// Execute runs a single command line.
func (sc *ShellController) Execute(ctx context.Context, line string) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	switch cmd.cmd {
	case "exit", "quit":
		return nil, errExit
	case "help":
		return sc.help(cmd)
	case "new":
		return sc.newGame(cmd)
	case "load":
		return sc.load(cmd)
	case "show":
		return sc.show(cmd)
	case "eval":
		return sc.eval(cmd)
	case "best":
		return sc.best(ctx, cmd)
	case "move", "m":
		return sc.move(cmd)
	case "spawn":
		return sc.spawn(cmd)
	case "undo":
		return sc.undo(cmd)
	case "play":
		return sc.play(ctx, cmd)
	case "autoplay":
		return sc.autoplay(ctx, cmd)
	case "set":
		return sc.set(cmd)
	case "cache":
		return sc.cache(cmd)
	case "script":
		return sc.script(ctx, cmd)
	}
	// A bare direction is a move.
	if _, err := board.ParseDirection(cmd.cmd); err == nil {
		return sc.move(&shellcmd{cmd: "move", args: []string{cmd.cmd}, options: cmd.options})
	}
	log.Debug().Str("line", line).Msg("unrecognized-command")
	return nil, fmt.Errorf("unrecognized command %q; try help", cmd.cmd)
}

func (sc *ShellController) Loop(ctx context.Context, sig chan os.Signal) {
	defer sc.l.Close()

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			}
			continue
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		resp, err := sc.Execute(ctx, line)
		if errors.Is(err, errExit) {
			sig <- syscall.SIGINT
			break
		}
		if err != nil {
			sc.showError(err)
			continue
		}
		if resp != nil && resp.message != "" {
			sc.showMessage(resp.message)
		}
	}
	sc.stopAutoplay()
	log.Debug().Msg("exiting-readline-loop")
}
