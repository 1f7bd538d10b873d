package board

import (
	"fmt"
	"strconv"
	"strings"
)

const resetColor = "\033[0m"

var tileColors = map[int]string{
	0:    "\033[0;37m",
	2:    "\033[1;30m",
	4:    "\033[1;34m",
	8:    "\033[1;36m",
	16:   "\033[1;32m",
	32:   "\033[1;33m",
	64:   "\033[1;31m",
	128:  "\033[1;35m",
	256:  "\033[1;37m",
	512:  "\033[0;31m",
	1024: "\033[0;32m",
	2048: "\033[0;33m",
}

const cellWidth = 6

// center pads s to width. Any odd leftover space goes on the right.
func center(s string, width int) string {
	if len(s) >= width {
		return s
	}
	marg := width - len(s)
	left := marg / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", marg-left)
}

func (b *Board) render(colors bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Score: %d\n\n", b.score)
	hline := "+" + strings.Repeat(strings.Repeat("-", cellWidth)+"+", Dim)
	sb.WriteString(hline)
	sb.WriteByte('\n')
	for r := 0; r < Dim; r++ {
		sb.WriteByte('|')
		for c := 0; c < Dim; c++ {
			v := b.grid[r][c]
			cell := strings.Repeat(" ", cellWidth)
			if v != 0 {
				cell = center(strconv.Itoa(v), cellWidth)
			}
			if colors {
				color, ok := tileColors[v]
				if !ok {
					color = resetColor
				}
				sb.WriteString(color + cell + resetColor)
			} else {
				sb.WriteString(cell)
			}
			sb.WriteByte('|')
		}
		sb.WriteByte('\n')
		sb.WriteString(hline)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ToDisplayText renders the board for a color terminal.
func (b *Board) ToDisplayText() string {
	return b.render(true)
}

// ToPlainText renders the board without any escape codes.
func (b *Board) ToPlainText() string {
	return b.render(false)
}

func (b *Board) String() string {
	return b.Notation()
}
