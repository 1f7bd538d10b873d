package shell

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"
	luajson "layeh.com/gopher-json"

	"github.com/domino14/expecto/board"
)

// Shell commands a script can call. Each one becomes a global Lua function
// expecto_<name> taking the rest of the command line as a single string.
var scriptCommands = []string{
	"new", "load", "show", "eval", "best", "move", "spawn", "undo", "play",
	"autoplay", "set", "cache",
}

func getShell(L *lua.LState) *ShellController {
	shell := L.GetGlobal("expecto_shell")
	ud, ok := shell.(*lua.LUserData)
	if !ok {
		panic("luserdata not right type")
	}
	sc, ok := ud.Value.(*ShellController)
	if !ok {
		panic("shellcontroller not right type")
	}
	return sc
}

// command wraps a shell command. The Lua function returns the command's
// output, or a string starting with "ERROR: " if it failed.
func command(ctx context.Context, name string) lua.LGFunction {
	return func(L *lua.LState) int {
		line := name
		if L.GetTop() > 0 {
			line += " " + L.ToString(1)
		}
		sc := getShell(L)
		r, err := sc.Execute(ctx, line)
		if err != nil {
			log.Err(err).Str("command", name).Msg("error-executing-script-command")
			L.Push(lua.LString("ERROR: " + err.Error()))
			return 1
		}
		if r == nil {
			L.Push(lua.LString(""))
			return 1
		}
		L.Push(lua.LString(r.message))
		// return number of results pushed to stack.
		return 1
	}
}

func scriptBoard(L *lua.LState) *board.Board {
	b, err := getShell(L).currentBoard()
	if err != nil {
		L.RaiseError("%s", err.Error())
	}
	return b
}

func Score(L *lua.LState) int {
	L.Push(lua.LNumber(scriptBoard(L).Score()))
	return 1
}

func MaxTile(L *lua.LState) int {
	L.Push(lua.LNumber(scriptBoard(L).MaxTile()))
	return 1
}

// Tile takes a zero-based row and column.
func Tile(L *lua.LState) int {
	row := L.CheckInt(1)
	col := L.CheckInt(2)
	if row < 0 || row >= board.Dim {
		L.ArgError(1, "row out of range")
	}
	if col < 0 || col >= board.Dim {
		L.ArgError(2, "column out of range")
	}
	L.Push(lua.LNumber(scriptBoard(L).Tile(row, col)))
	return 1
}

func Position(L *lua.LState) int {
	L.Push(lua.LString(scriptBoard(L).Notation()))
	return 1
}

func CanMove(L *lua.LState) int {
	L.Push(lua.LBool(scriptBoard(L).CanMove()))
	return 1
}

func IsWin(L *lua.LState) int {
	L.Push(lua.LBool(scriptBoard(L).IsWin()))
	return 1
}

// WaitForAutoplay blocks until a background autoplay batch is done.
func WaitForAutoplay(L *lua.LState) int {
	getShell(L).Wait()
	return 0
}

// script runs a Lua file. Whatever the file returns last is shown as the
// command's output.
func (sc *ShellController) script(ctx context.Context, cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("need arguments for script")
	}

	filepath := cmd.args[0]

	L := lua.NewState()
	defer L.Close()
	L.SetContext(ctx)
	luajson.Preload(L)

	lsc := L.NewUserData()
	lsc.Value = sc

	L.SetGlobal("expecto_shell", lsc)
	for _, name := range scriptCommands {
		L.SetGlobal("expecto_"+name, L.NewFunction(command(ctx, name)))
	}
	L.SetGlobal("expecto_score", L.NewFunction(Score))
	L.SetGlobal("expecto_max_tile", L.NewFunction(MaxTile))
	L.SetGlobal("expecto_tile", L.NewFunction(Tile))
	L.SetGlobal("expecto_position", L.NewFunction(Position))
	L.SetGlobal("expecto_can_move", L.NewFunction(CanMove))
	L.SetGlobal("expecto_is_win", L.NewFunction(IsWin))
	L.SetGlobal("expecto_wait", L.NewFunction(WaitForAutoplay))

	if err := L.DoFile(filepath); err != nil {
		log.Err(err).Str("script", filepath).Msg("script-failed")
		return nil, err
	}
	if L.GetTop() == 0 || L.Get(-1) == lua.LNil {
		return msg(""), nil
	}
	return msg(L.Get(-1).String()), nil
}
