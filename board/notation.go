package board

import (
	"errors"
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

var (
	errWrongRowCount = errors.New("a position needs exactly 4 rows")
	errWrongColCount = errors.New("every row needs exactly 4 cells")
)

// Notation returns a compact one-line description of the board: rows
// separated by slashes, cells by commas, empty squares as dots, followed by
// the score. For example:
//
//	2,.,.,4/.,.,.,./.,8,.,./.,.,.,2 36
func (b *Board) Notation() string {
	var sb strings.Builder
	for r := 0; r < Dim; r++ {
		if r > 0 {
			sb.WriteByte('/')
		}
		for c := 0; c < Dim; c++ {
			if c > 0 {
				sb.WriteByte(',')
			}
			if b.grid[r][c] == 0 {
				sb.WriteByte('.')
			} else {
				sb.WriteString(strconv.Itoa(b.grid[r][c]))
			}
		}
	}
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.score))
	return sb.String()
}

// ParseNotation reads a board written by Notation. Empty squares may be
// written as "." or "0", and the score may be omitted, in which case it is
// zero.
func ParseNotation(s string) (*Board, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 || len(fields) > 2 {
		return nil, fmt.Errorf("cannot parse position %q", s)
	}
	rows := strings.Split(fields[0], "/")
	if len(rows) != Dim {
		return nil, errWrongRowCount
	}
	b := &Board{}
	for r, row := range rows {
		cells := strings.Split(row, ",")
		if len(cells) != Dim {
			return nil, errWrongColCount
		}
		for c, cell := range cells {
			v, err := parseTile(cell)
			if err != nil {
				return nil, fmt.Errorf("row %d col %d: %w", r+1, c+1, err)
			}
			b.grid[r][c] = v
		}
	}
	if len(fields) == 2 {
		score, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("bad score: %w", err)
		}
		if score < 0 {
			return nil, errors.New("score cannot be negative")
		}
		b.score = score
	}
	return b, nil
}

func parseTile(cell string) (int, error) {
	if cell == "." {
		return 0, nil
	}
	v, err := strconv.Atoi(cell)
	if err != nil {
		return 0, err
	}
	if v == 0 {
		return 0, nil
	}
	if v < 2 || bits.OnesCount(uint(v)) != 1 {
		return 0, fmt.Errorf("%d is not a power of two", v)
	}
	if bits.TrailingZeros(uint(v)) > MaxExponent {
		return 0, fmt.Errorf("%d is larger than any reachable tile", v)
	}
	return v, nil
}
