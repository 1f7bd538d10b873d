package shell

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matryer/is"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.lua")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestScript(t *testing.T) {
	is := is.New(t)
	sc, _ := testController()
	path := writeScript(t, `
local json = require("json")
expecto_load("2,2,.,./.,.,.,./.,.,.,./.,.,.,. 0")
local moved = expecto_move("left -spawn false")
local refused = expecto_move("up -spawn false")
local best = expecto_best()
return json.encode({
  score = expecto_score(),
  corner = expecto_tile(0, 0),
  maxtile = expecto_max_tile(),
  position = expecto_position(),
  moved = string.find(moved, "ERROR") == nil,
  refused = string.sub(refused, 1, 7),
  best = string.find(best, "Best move:") ~= nil,
  canmove = expecto_can_move(),
  won = expecto_is_win(),
})
`)
	out := execute(t, sc, "script "+path)

	var res struct {
		Score    float64 `json:"score"`
		Corner   float64 `json:"corner"`
		MaxTile  float64 `json:"maxtile"`
		Position string  `json:"position"`
		Moved    bool    `json:"moved"`
		Refused  string  `json:"refused"`
		Best     bool    `json:"best"`
		CanMove  bool    `json:"canmove"`
		Won      bool    `json:"won"`
	}
	is.NoErr(json.Unmarshal([]byte(out), &res))
	is.Equal(res.Score, 4.0)
	is.Equal(res.Corner, 4.0)
	is.Equal(res.MaxTile, 4.0)
	is.Equal(res.Position, "4,.,.,./.,.,.,./.,.,.,./.,.,.,. 4")
	is.True(res.Moved)
	is.Equal(res.Refused, "ERROR: ")
	is.True(res.Best)
	is.True(res.CanMove)
	is.True(!res.Won)

	// The script changed the shell's own game.
	b, err := sc.currentBoard()
	is.NoErr(err)
	is.Equal(b.Score(), 4)
}

func TestScriptPlaysAndSets(t *testing.T) {
	is := is.New(t)
	sc, _ := testController()
	path := writeScript(t, `
expecto_set("search-max-depth 1")
expecto_new("-seed scripted")
expecto_play("5")
return expecto_score()
`)
	out := execute(t, sc, "script "+path)
	is.True(out != "")
	is.Equal(sc.config.GetInt("search-max-depth"), 1)
	is.Equal(sc.runner.Moves(), 5)
	is.Equal(len(sc.history), 5)
}

func TestScriptErrors(t *testing.T) {
	is := is.New(t)
	sc, _ := testController()
	ctx := context.Background()

	_, err := sc.Execute(ctx, "script")
	is.True(err != nil)
	_, err = sc.Execute(ctx, "script "+filepath.Join(t.TempDir(), "missing.lua"))
	is.True(err != nil)
	_, err = sc.Execute(ctx, "script "+writeScript(t, "this is not lua"))
	is.True(err != nil)

	// Board accessors fail without a game.
	_, err = sc.Execute(ctx, "script "+writeScript(t, "return expecto_score()"))
	is.True(err != nil)
	is.True(strings.Contains(err.Error(), errNoGame.Error()))

	execute(t, sc, "new")
	_, err = sc.Execute(ctx, "script "+writeScript(t, "return expecto_tile(4, 0)"))
	is.True(err != nil)

	is.Equal(execute(t, sc, "script "+writeScript(t, "local x = 1")), "")
}
