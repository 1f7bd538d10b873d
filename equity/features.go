package equity

import (
	"github.com/domino14/expecto/board"
)

// Weights of the static evaluation. They were tuned by hand and are kept
// exactly as tuned.
const (
	EmptyWeight        = 1200.0
	MaxTileWeight      = 2.0
	SmoothnessWeight   = -250.0
	MonotonicityWeight = 1200.0
	CornerWeight       = 1500.0
	HolesWeight        = -400.0
)

// A Feature measures one property of a position. Larger raw values are not
// necessarily better; the sign of the feature's weight decides that.
type Feature interface {
	Name() string
	Value(g *board.Grid) float64
}

// EmptySquares counts empty squares.
type EmptySquares struct{}

func (EmptySquares) Name() string { return "empty" }

func (EmptySquares) Value(g *board.Grid) float64 {
	n := 0
	for r := 0; r < board.Dim; r++ {
		for c := 0; c < board.Dim; c++ {
			if g[r][c] == 0 {
				n++
			}
		}
	}
	return float64(n)
}

// MaxTile is the value of the largest tile.
type MaxTile struct{}

func (MaxTile) Name() string { return "max-tile" }

func (MaxTile) Value(g *board.Grid) float64 {
	return float64(g.MaxTile())
}

// Smoothness sums the absolute differences between orthogonally adjacent
// tiles. Empty squares are skipped. Lower is smoother.
type Smoothness struct{}

func (Smoothness) Name() string { return "smoothness" }

func (Smoothness) Value(g *board.Grid) float64 {
	smooth := 0
	for r := 0; r < board.Dim; r++ {
		for c := 0; c < board.Dim; c++ {
			v := g[r][c]
			if v == 0 {
				continue
			}
			if c+1 < board.Dim && g[r][c+1] != 0 {
				smooth += absDiff(v, g[r][c+1])
			}
			if r+1 < board.Dim && g[r+1][c] != 0 {
				smooth += absDiff(v, g[r+1][c])
			}
		}
	}
	return float64(smooth)
}

// Monotonicity is zero when every row and every column is ordered in one
// direction, and increasingly negative the more they zigzag. For rows and
// columns separately, the total of decreasing steps and the total of
// non-decreasing steps are computed; the smaller of the two is the penalty.
// Empty squares count as zeros.
type Monotonicity struct{}

func (Monotonicity) Name() string { return "monotonicity" }

func (Monotonicity) Value(g *board.Grid) float64 {
	var rowDec, rowInc, colDec, colInc int
	for r := 0; r < board.Dim; r++ {
		for c := 0; c < board.Dim-1; c++ {
			a, b := g[r][c], g[r][c+1]
			if a > b {
				rowDec += a - b
			} else {
				rowInc += b - a
			}
		}
	}
	for c := 0; c < board.Dim; c++ {
		for r := 0; r < board.Dim-1; r++ {
			a, b := g[r][c], g[r+1][c]
			if a > b {
				colDec += a - b
			} else {
				colInc += b - a
			}
		}
	}
	return float64(-min(colDec, colInc) - min(rowDec, rowInc))
}

// CornerBonus is 1 if the largest tile sits in a corner.
type CornerBonus struct{}

func (CornerBonus) Name() string { return "corner" }

func (CornerBonus) Value(g *board.Grid) float64 {
	m := g.MaxTile()
	last := board.Dim - 1
	if g[0][0] == m || g[0][last] == m || g[last][0] == m || g[last][last] == m {
		return 1
	}
	return 0
}

// Holes counts empty squares with a tile somewhere above them in the same
// column.
type Holes struct{}

func (Holes) Name() string { return "holes" }

func (Holes) Value(g *board.Grid) float64 {
	holes := 0
	for c := 0; c < board.Dim; c++ {
		covered := false
		for r := 0; r < board.Dim; r++ {
			if g[r][c] != 0 {
				covered = true
			} else if covered {
				holes++
			}
		}
	}
	return float64(holes)
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
