package zobrist

import (
	"math/bits"

	"lukechampine.com/frand"

	"github.com/domino14/expecto/board"
)

const bignum = 1<<63 - 2

const numSquares = board.Dim * board.Dim

// Zobrist hashes a 2048 position from its tiles alone; the score is not
// part of the key. One random key exists per (square, tile exponent) pair,
// for every power of two an int can hold: merges during a search can go past
// the largest tile a real game reaches.
// https://en.wikipedia.org/wiki/Zobrist_hashing
type Zobrist struct {
	posTable [numSquares][numExponents]uint64
}

const numExponents = bits.UintSize

// Initialize fills the key table. Keys for exponent 0 stay zero so that
// empty squares do not contribute to the hash.
func (z *Zobrist) Initialize() {
	for i := 0; i < numSquares; i++ {
		for j := 1; j < numExponents; j++ {
			z.posTable[i][j] = frand.Uint64n(bignum) + 1
		}
	}
}

func exponent(v int) int {
	return bits.TrailingZeros(uint(v))
}

// Hash computes the key of a full grid.
func (z *Zobrist) Hash(g *board.Grid) uint64 {
	key := uint64(0)
	for r := 0; r < board.Dim; r++ {
		for c := 0; c < board.Dim; c++ {
			if g[r][c] == 0 {
				continue
			}
			key ^= z.posTable[r*board.Dim+c][exponent(g[r][c])]
		}
	}
	return key
}

// AddTile returns the key of the position obtained by placing value on an
// empty square of the position with the given key. Placing a tile on a
// square that already holds the same value removes it instead.
func (z *Zobrist) AddTile(key uint64, sq board.Square, value int) uint64 {
	return key ^ z.posTable[sq.Row*board.Dim+sq.Col][exponent(value)]
}
