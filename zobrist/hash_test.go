package zobrist

import (
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/expecto/board"
)

func TestHashIgnoresScore(t *testing.T) {
	is := is.New(t)
	z := &Zobrist{}
	z.Initialize()
	g := board.Grid{
		{2, 0, 0, 4},
		{0, 0, 0, 0},
		{0, 8, 0, 0},
		{0, 0, 0, 2},
	}
	b1 := board.FromGrid(g, 0)
	b2 := board.FromGrid(g, 5000)
	g1, g2 := b1.Grid(), b2.Grid()
	is.Equal(z.Hash(&g1), z.Hash(&g2))

	var empty board.Grid
	is.Equal(z.Hash(&empty), uint64(0))
	is.True(z.Hash(&g1) != 0)
}

func TestHashAfterAddingTile(t *testing.T) {
	is := is.New(t)
	z := &Zobrist{}
	z.Initialize()
	b := board.FromGrid(board.Grid{
		{2, 0, 0, 4},
		{0, 0, 0, 0},
		{0, 8, 0, 0},
		{0, 0, 0, 2},
	}, 0)
	g := b.Grid()
	h := z.Hash(&g)

	for _, sq := range b.EmptySquares() {
		for _, outcome := range board.SpawnOutcomes {
			c := b.Copy()
			c.SetTile(sq.Row, sq.Col, outcome.Value)
			cg := c.Grid()
			h1 := z.AddTile(h, sq, outcome.Value)
			is.Equal(h1, z.Hash(&cg))
			is.True(h1 != h)
			// Adding the same tile again takes it back off.
			is.Equal(z.AddTile(h1, sq, outcome.Value), h)
		}
	}
}

func TestHashDistinguishesLayouts(t *testing.T) {
	is := is.New(t)
	z := &Zobrist{}
	z.Initialize()
	// Same multiset of tiles, different squares.
	g1 := board.Grid{{2, 4}}
	g2 := board.Grid{{4, 2}}
	g3 := board.Grid{{2}, {4}}
	is.True(z.Hash(&g1) != z.Hash(&g2))
	is.True(z.Hash(&g1) != z.Hash(&g3))
}

func TestHashLargeTiles(t *testing.T) {
	is := is.New(t)
	z := &Zobrist{}
	z.Initialize()
	g1 := board.Grid{{131072, 131072}}
	g2 := board.Grid{{262144}}
	g3 := board.Grid{{1 << 40}}
	is.True(z.Hash(&g1) != 0)
	is.True(z.Hash(&g2) != 0)
	is.True(z.Hash(&g2) != z.Hash(&g3))
	h := z.AddTile(z.Hash(&g2), board.Square{Row: 3, Col: 3}, 524288)
	g2[3][3] = 524288
	is.Equal(h, z.Hash(&g2))
}
