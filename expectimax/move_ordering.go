package expectimax

import (
	"github.com/domino14/expecto/board"
)

var (
	bottomLeftOrder  = [board.NumDirections]board.Direction{board.Up, board.Left, board.Right, board.Down}
	bottomRightOrder = [board.NumDirections]board.Direction{board.Up, board.Right, board.Left, board.Down}
	topLeftOrder     = [board.NumDirections]board.Direction{board.Down, board.Left, board.Right, board.Up}
	topRightOrder    = [board.NumDirections]board.Direction{board.Down, board.Right, board.Left, board.Up}
	defaultOrder     = [board.NumDirections]board.Direction{board.Up, board.Right, board.Down, board.Left}
)

// OrderMoves ranks the four directions for search. Moves that keep the
// largest tile in its corner come first and the move that would pull it out
// comes last. Corners are checked top-left, top-right, bottom-left,
// bottom-right; the first one holding the maximum decides.
func OrderMoves(b *board.Board) [board.NumDirections]board.Direction {
	m := b.MaxTile()
	last := board.Dim - 1
	switch m {
	case b.Tile(0, 0):
		return topLeftOrder
	case b.Tile(0, last):
		return topRightOrder
	case b.Tile(last, 0):
		return bottomLeftOrder
	case b.Tile(last, last):
		return bottomRightOrder
	}
	return defaultOrder
}
