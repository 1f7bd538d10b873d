package expectimax

import (
	"time"

	"github.com/domino14/expecto/board"
)

const (
	DefaultMinTime = 100 * time.Millisecond
	DefaultMaxTime = 800 * time.Millisecond
)

// Budget returns the time allowed for a search given the number of empty
// squares. A crowded board is the dangerous one, so it gets the most time:
// the budget interpolates linearly from maxTime with no empty squares to
// minTime with all of them empty.
func Budget(minTime, maxTime time.Duration, emptyCount int) time.Duration {
	const squares = board.Dim * board.Dim
	emptyCount = max(0, min(emptyCount, squares))
	fill := 1 - float64(emptyCount)/squares
	return minTime + time.Duration(float64(maxTime-minTime)*fill)
}
