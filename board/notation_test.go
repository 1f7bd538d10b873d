package board

import (
	"strings"
	"testing"

	"github.com/matryer/is"
)

func TestNotationRoundTrip(t *testing.T) {
	is := is.New(t)
	b := FromGrid(Grid{
		{2, 0, 0, 4},
		{0, 0, 0, 0},
		{0, 8, 0, 0},
		{0, 0, 0, 2},
	}, 36)
	is.Equal(b.Notation(), "2,.,.,4/.,.,.,./.,8,.,./.,.,.,2 36")
	parsed, err := ParseNotation(b.Notation())
	is.NoErr(err)
	is.Equal(parsed.Grid(), b.Grid())
	is.Equal(parsed.Score(), 36)
}

func TestParseNotation(t *testing.T) {
	is := is.New(t)
	b, err := ParseNotation("0,0,0,0/2,2,0,0/0,0,0,0/0,0,0,131072")
	is.NoErr(err)
	is.Equal(b.Score(), 0)
	is.Equal(b.Tile(1, 0), 2)
	is.Equal(b.Tile(3, 3), 131072)

	type testcase struct {
		pos    string
		errStr string
	}
	for _, tc := range []testcase{
		{"", "cannot parse"},
		{"2,.,.,./.,.,.,./.,.,.,.", "4 rows"},
		{"2,.,./.,.,.,./.,.,.,./.,.,.,.", "4 cells"},
		{"3,.,.,./.,.,.,./.,.,.,./.,.,.,.", "power of two"},
		{"x,.,.,./.,.,.,./.,.,.,./.,.,.,.", "invalid syntax"},
		{"262144,.,.,./.,.,.,./.,.,.,./.,.,.,.", "larger than"},
		{".,.,.,./.,.,.,./.,.,.,./.,.,.,. -5", "negative"},
		{".,.,.,./.,.,.,./.,.,.,./.,.,.,. 5 6", "cannot parse"},
	} {
		_, err := ParseNotation(tc.pos)
		is.True(err != nil)
		is.True(strings.Contains(err.Error(), tc.errStr))
	}
}

func TestDisplayText(t *testing.T) {
	is := is.New(t)
	b := FromGrid(Grid{{2, 16, 128, 2048}}, 1234)
	plain := b.ToPlainText()
	lines := strings.Split(plain, "\n")
	is.Equal(lines[0], "Score: 1234")
	is.Equal(lines[2], "+------+------+------+------+")
	is.Equal(lines[3], "|  2   |  16  | 128  | 2048 |")
	is.Equal(lines[5], "|      |      |      |      |")

	colored := b.ToDisplayText()
	is.True(strings.Contains(colored, "\033[0;33m 2048 \033[0m"))
}
