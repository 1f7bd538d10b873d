package board

import (
	"math/rand"
	"testing"

	"github.com/matryer/is"
)

func seed(b byte) [32]byte {
	var s [32]byte
	s[0] = b
	return s
}

func TestMergeLine(t *testing.T) {
	is := is.New(t)
	type testcase struct {
		line     [Dim]int
		expected [Dim]int
		gained   int
	}
	cases := []testcase{
		{[Dim]int{2, 2, 4, 4}, [Dim]int{4, 8, 0, 0}, 12},
		{[Dim]int{0, 2, 0, 2}, [Dim]int{4, 0, 0, 0}, 4},
		{[Dim]int{2, 2, 2, 2}, [Dim]int{4, 4, 0, 0}, 8},
		{[Dim]int{2, 4, 2, 4}, [Dim]int{2, 4, 2, 4}, 0},
		{[Dim]int{0, 0, 0, 0}, [Dim]int{0, 0, 0, 0}, 0},
		{[Dim]int{4, 4, 8, 0}, [Dim]int{8, 8, 0, 0}, 8},
		{[Dim]int{2, 2, 2, 0}, [Dim]int{4, 2, 0, 0}, 4},
		{[Dim]int{0, 0, 0, 8}, [Dim]int{8, 0, 0, 0}, 0},
		{[Dim]int{1024, 1024, 0, 0}, [Dim]int{2048, 0, 0, 0}, 2048},
	}
	for _, tc := range cases {
		merged, gained := MergeLine(tc.line)
		is.Equal(merged, tc.expected)
		is.Equal(gained, tc.gained)
	}
}

func TestMoveDirections(t *testing.T) {
	is := is.New(t)
	start := Grid{
		{2, 2, 0, 4},
		{0, 4, 4, 4},
		{2, 0, 0, 2},
		{0, 0, 0, 8},
	}
	type testcase struct {
		dir      Direction
		expected Grid
		score    int
	}
	cases := []testcase{
		{Left, Grid{
			{4, 4, 0, 0},
			{8, 4, 0, 0},
			{4, 0, 0, 0},
			{8, 0, 0, 0},
		}, 16},
		{Right, Grid{
			{0, 0, 4, 4},
			{0, 0, 4, 8},
			{0, 0, 0, 4},
			{0, 0, 0, 8},
		}, 16},
		{Up, Grid{
			{4, 2, 4, 8},
			{0, 4, 0, 2},
			{0, 0, 0, 8},
			{0, 0, 0, 0},
		}, 12},
		{Down, Grid{
			{0, 0, 0, 0},
			{0, 0, 0, 8},
			{0, 2, 0, 2},
			{4, 4, 4, 8},
		}, 12},
	}
	for _, tc := range cases {
		b := FromGrid(start, 100)
		changed, score := b.ApplyMove(tc.dir)
		is.True(changed)
		is.Equal(b.Grid(), tc.expected)
		is.Equal(score, 100+tc.score)
	}
}

func TestNoOpMoveLeavesBoardUntouched(t *testing.T) {
	is := is.New(t)
	g := Grid{
		{2, 4, 8, 16},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}
	for _, d := range []Direction{Up, Left, Right} {
		b := FromGrid(g, 40)
		is.True(!b.Move(d))
		is.Equal(b.Grid(), g)
		is.Equal(b.Score(), 40)
	}
	b := FromGrid(g, 40)
	is.True(b.Move(Down))
	is.Equal(b.Tile(3, 3), 16)
	is.Equal(b.Score(), 40)
}

func tileSum(g Grid) int {
	s := 0
	for r := 0; r < Dim; r++ {
		for c := 0; c < Dim; c++ {
			s += g[r][c]
		}
	}
	return s
}

func TestRandomPlayInvariants(t *testing.T) {
	is := is.New(t)
	rng := NewSeededRandomizer(seed(7))
	for game := 0; game < 20; game++ {
		b := NewBoard(rng)
		is.Equal(b.CountEmpty(), Dim*Dim-2)
		for b.CanMove() {
			before := b.Copy()
			d := Direction(rng.Intn(NumDirections))
			changed := b.Move(d)
			// Score never goes down, and merging conserves the tile total.
			is.True(b.Score() >= before.Score())
			is.Equal(tileSum(b.Grid()), tileSum(before.Grid()))
			if !changed {
				is.Equal(b.Grid(), before.Grid())
				is.Equal(b.Score(), before.Score())
				continue
			}
			empty := b.CountEmpty()
			is.True(b.Spawn(rng))
			is.Equal(b.CountEmpty(), empty-1)
		}
	}
}

func TestMoveDoesNotAliasCopies(t *testing.T) {
	is := is.New(t)
	b := FromGrid(Grid{{2, 2, 0, 0}}, 0)
	c := b.Copy()
	is.True(c.Move(Left))
	is.Equal(b.Tile(0, 0), 2)
	is.Equal(c.Tile(0, 0), 4)
	is.Equal(b.Score(), 0)
	is.Equal(c.Score(), 4)

	var d Board
	d.CopyFrom(c)
	d.SetTile(3, 3, 8)
	is.Equal(c.Tile(3, 3), 0)
}

func TestSpawn(t *testing.T) {
	is := is.New(t)
	rng := rand.New(rand.NewSource(42))
	twos := 0
	trials := 20000
	for i := 0; i < trials; i++ {
		b := &Board{}
		is.True(b.Spawn(rng))
		is.Equal(b.CountEmpty(), Dim*Dim-1)
		switch b.MaxTile() {
		case 2:
			twos++
		case 4:
		default:
			t.Fatalf("unexpected spawned tile %d", b.MaxTile())
		}
	}
	frac := float64(twos) / float64(trials)
	is.True(frac > 0.88 && frac < 0.92)
}

func TestSpawnOnFullBoard(t *testing.T) {
	is := is.New(t)
	g := Grid{
		{2, 4, 2, 4},
		{4, 2, 4, 2},
		{2, 4, 2, 4},
		{4, 2, 4, 2},
	}
	b := FromGrid(g, 0)
	is.True(!b.Spawn(nil))
	is.Equal(b.Grid(), g)
	is.True(!b.CanMove())
	for _, d := range AllDirections {
		is.True(!b.Copy().Move(d))
	}
}

func TestSeededSpawnsAreReproducible(t *testing.T) {
	is := is.New(t)
	b1 := NewBoard(NewSeededRandomizer(seed(3)))
	b2 := NewBoard(NewSeededRandomizer(seed(3)))
	is.Equal(b1.Grid(), b2.Grid())
}

func TestCanMove(t *testing.T) {
	is := is.New(t)
	full := Grid{
		{2, 4, 2, 4},
		{4, 2, 4, 2},
		{2, 4, 2, 4},
		{4, 2, 4, 4},
	}
	is.True(FromGrid(full, 0).CanMove()) // horizontal pair in the last row
	full[3][3] = 8
	full[2][3] = 8
	is.True(FromGrid(full, 0).CanMove()) // vertical pair in the last column
	full[2][3] = 4
	full[3][3] = 2
	is.True(!FromGrid(full, 0).CanMove())
	full[0][0] = 0
	is.True(FromGrid(full, 0).CanMove())
}

func TestIsWin(t *testing.T) {
	is := is.New(t)
	b := FromGrid(Grid{{1024, 1024}}, 0)
	is.True(!b.IsWin())
	is.True(b.Move(Right))
	is.True(b.IsWin())
	is.Equal(b.Tile(0, 3), WinningTile)
	is.True(FromGrid(Grid{{}, {}, {}, {0, 0, 0, 2048}}, 0).IsWin())
}

func TestEmptySquares(t *testing.T) {
	is := is.New(t)
	b := FromGrid(Grid{
		{2, 2, 2, 2},
		{2, 0, 2, 2},
		{2, 2, 2, 2},
		{2, 2, 2, 0},
	}, 0)
	is.Equal(b.EmptySquares(), []Square{{1, 1}, {3, 3}})
	is.Equal(b.CountEmpty(), 2)
	is.Equal(b.MaxTile(), 2)
}

func TestParseDirection(t *testing.T) {
	is := is.New(t)
	for _, s := range []string{"up", "U", "w"} {
		d, err := ParseDirection(s)
		is.NoErr(err)
		is.Equal(d, Up)
	}
	d, err := ParseDirection("a")
	is.NoErr(err)
	is.Equal(d, Left)
	_, err = ParseDirection("sideways")
	is.True(err != nil)
	is.Equal(Down.String(), "down")
	is.True(!Direction(9).Valid())
}

func BenchmarkMove(b *testing.B) {
	board := FromGrid(Grid{
		{2, 4, 8, 16},
		{32, 64, 128, 256},
		{512, 1024, 2048, 4096},
		{0, 2, 2, 0},
	}, 0)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, d := range AllDirections {
			c := *board
			c.Move(d)
		}
	}
}
