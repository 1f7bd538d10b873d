package board

import (
	"fmt"
	"strings"
)

// Direction is one of the four ways the tiles can be slid. The numeric
// values are fixed: some of the search code indexes tables by direction.
type Direction uint8

const (
	Up Direction = iota
	Right
	Down
	Left
)

// NumDirections is the number of distinct moves.
const NumDirections = 4

// AllDirections lists the directions in their natural order.
var AllDirections = [NumDirections]Direction{Up, Right, Down, Left}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	case Left:
		return "left"
	}
	return fmt.Sprintf("direction(%d)", uint8(d))
}

// Valid returns whether d is one of the four named directions.
func (d Direction) Valid() bool {
	return d < NumDirections
}

// horizontal moves operate on rows; the others on columns.
func (d Direction) horizontal() bool {
	return d == Left || d == Right
}

// reversed moves traverse their line from the far end so the merge always
// proceeds toward index 0 of the extracted line.
func (d Direction) reversed() bool {
	return d == Right || d == Down
}

// ParseDirection accepts full names ("up"), their first letters ("u") and
// the usual wasd keys.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "u", "w":
		return Up, nil
	case "right", "r", "d":
		return Right, nil
	case "down", "s":
		return Down, nil
	case "left", "l", "a":
		return Left, nil
	}
	return 0, fmt.Errorf("unrecognized direction %q", s)
}
