package board

// Dim is the width and height of the board.
const Dim = 4

// WinningTile is the tile value that counts as a win.
const WinningTile = 2048

// MaxExponent bounds the exponent of any tile that can exist on a 4x4 board.
// The largest reachable tile is 2^17.
const MaxExponent = 17

// Grid holds the tile values, row-major. 0 is an empty cell; anything else
// is a power of two. Grid is an array, so assigning it copies it.
type Grid [Dim][Dim]int

// A Square is a coordinate on the grid.
type Square struct {
	Row int
	Col int
}

// SpawnOutcome is a tile value that can appear after a move together with
// the probability that a spawn produces it.
type SpawnOutcome struct {
	Value       int
	Probability float64
}

// SpawnOutcomes are the possible spawned tiles. Spawn draws from the same
// distribution.
var SpawnOutcomes = [2]SpawnOutcome{{2, 0.9}, {4, 0.1}}

// Board is the state of a game: the tiles plus the score accumulated from
// merges. The zero value is an empty board with a score of 0.
//
// Board is a plain value with no pointers in it, so copies made with Copy or
// by assignment are fully independent of each other.
type Board struct {
	grid  Grid
	score int
}

// NewBoard creates a board with two tiles spawned on it.
func NewBoard(rng Randomizer) *Board {
	b := &Board{}
	b.Spawn(rng)
	b.Spawn(rng)
	return b
}

// FromGrid creates a board with the given tiles and score. No tiles are
// spawned.
func FromGrid(g Grid, score int) *Board {
	return &Board{grid: g, score: score}
}

// Copy returns an independent copy of the board.
func (b *Board) Copy() *Board {
	c := *b
	return &c
}

// CopyFrom overwrites b with the contents of o.
func (b *Board) CopyFrom(o *Board) {
	*b = *o
}

func (b *Board) Grid() Grid {
	return b.grid
}

func (b *Board) Score() int {
	return b.score
}

func (b *Board) Tile(row, col int) int {
	return b.grid[row][col]
}

// SetTile places a value directly on the board. It is used by the search to
// enumerate spawns and by tests; it does not touch the score.
func (b *Board) SetTile(row, col, value int) {
	b.grid[row][col] = value
}

// Spawn puts a new tile on a random empty square: a 2 nine times out of ten,
// otherwise a 4. It returns false, and does nothing, if the board is full.
func (b *Board) Spawn(rng Randomizer) bool {
	if rng == nil {
		rng = DefaultRandomizer
	}
	var empties [Dim * Dim]Square
	n := b.emptySquares(&empties)
	if n == 0 {
		return false
	}
	sq := empties[rng.Intn(n)]
	value := SpawnOutcomes[0].Value
	if rng.Intn(10) >= 9 {
		value = SpawnOutcomes[1].Value
	}
	b.grid[sq.Row][sq.Col] = value
	return true
}

func (b *Board) emptySquares(dst *[Dim * Dim]Square) int {
	n := 0
	for r := 0; r < Dim; r++ {
		for c := 0; c < Dim; c++ {
			if b.grid[r][c] == 0 {
				dst[n] = Square{r, c}
				n++
			}
		}
	}
	return n
}

// EmptySquares lists the empty squares in row-major order.
func (b *Board) EmptySquares() []Square {
	var empties [Dim * Dim]Square
	n := b.emptySquares(&empties)
	sqs := make([]Square, n)
	copy(sqs, empties[:n])
	return sqs
}

// CountEmpty returns the number of empty squares.
func (b *Board) CountEmpty() int {
	n := 0
	for r := 0; r < Dim; r++ {
		for c := 0; c < Dim; c++ {
			if b.grid[r][c] == 0 {
				n++
			}
		}
	}
	return n
}

// MaxTile returns the largest tile on the board, or 0 if it is empty.
func (b *Board) MaxTile() int {
	return b.grid.MaxTile()
}

// MaxTile returns the largest value in the grid.
func (g *Grid) MaxTile() int {
	m := 0
	for r := 0; r < Dim; r++ {
		for c := 0; c < Dim; c++ {
			if g[r][c] > m {
				m = g[r][c]
			}
		}
	}
	return m
}

// CanMove returns whether some move would change the board: either there
// is an empty square or two orthogonal neighbours hold the same tile.
func (b *Board) CanMove() bool {
	for r := 0; r < Dim; r++ {
		for c := 0; c < Dim; c++ {
			v := b.grid[r][c]
			if v == 0 {
				return true
			}
			if c+1 < Dim && b.grid[r][c+1] == v {
				return true
			}
			if r+1 < Dim && b.grid[r+1][c] == v {
				return true
			}
		}
	}
	return false
}

// IsWin returns whether the winning tile is on the board.
func (b *Board) IsWin() bool {
	for r := 0; r < Dim; r++ {
		for c := 0; c < Dim; c++ {
			if b.grid[r][c] == WinningTile {
				return true
			}
		}
	}
	return false
}

// line extracts row or column i in the order the slide in direction d
// traverses it.
func (b *Board) line(d Direction, i int) [Dim]int {
	var l [Dim]int
	for j := 0; j < Dim; j++ {
		k := j
		if d.reversed() {
			k = Dim - 1 - j
		}
		if d.horizontal() {
			l[j] = b.grid[i][k]
		} else {
			l[j] = b.grid[k][i]
		}
	}
	return l
}

func (b *Board) setLine(d Direction, i int, l [Dim]int) {
	for j := 0; j < Dim; j++ {
		k := j
		if d.reversed() {
			k = Dim - 1 - j
		}
		if d.horizontal() {
			b.grid[i][k] = l[j]
		} else {
			b.grid[k][i] = l[j]
		}
	}
}

// Move slides all tiles in direction d, merging equal neighbours and adding
// the merged values to the score. It returns whether any square changed; if
// it did not, the board is exactly as it was before the call. Move does not
// spawn a new tile.
func (b *Board) Move(d Direction) bool {
	moved := false
	for i := 0; i < Dim; i++ {
		l := b.line(d, i)
		merged, gained := MergeLine(l)
		if merged == l {
			continue
		}
		moved = true
		b.setLine(d, i, merged)
		b.score += gained
	}
	return moved
}

// ApplyMove is Move for callers that also want the resulting score.
func (b *Board) ApplyMove(d Direction) (bool, int) {
	changed := b.Move(d)
	return changed, b.score
}
