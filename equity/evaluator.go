package equity

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/domino14/expecto/board"
)

// Evaluator assigns a static score to a position, with no lookahead.
type Evaluator interface {
	Evaluate(b *board.Board) float64
}

// WeightedFeature pairs a feature with its coefficient.
type WeightedFeature struct {
	Feature
	Weight float64
}

// StaticEvaluator is a linear combination of features.
type StaticEvaluator struct {
	features []WeightedFeature
}

// NewStaticEvaluator returns the standard evaluator:
//
//	1200*empty + 2*maxTile - 250*smoothness + 1200*monotonicity
//	  + 1500*corner - 400*holes
func NewStaticEvaluator() *StaticEvaluator {
	return &StaticEvaluator{
		features: []WeightedFeature{
			{EmptySquares{}, EmptyWeight},
			{MaxTile{}, MaxTileWeight},
			{Smoothness{}, SmoothnessWeight},
			{Monotonicity{}, MonotonicityWeight},
			{CornerBonus{}, CornerWeight},
			{Holes{}, HolesWeight},
		},
	}
}

func (e *StaticEvaluator) Evaluate(b *board.Board) float64 {
	g := b.Grid()
	return lo.SumBy(e.features, func(f WeightedFeature) float64 {
		return f.Weight * f.Value(&g)
	})
}

// Contribution is a single feature's part of an evaluation.
type Contribution struct {
	Name     string
	Raw      float64
	Weighted float64
}

// Breakdown lists what every feature contributes to the evaluation of b.
// The Weighted fields sum to Evaluate(b).
func (e *StaticEvaluator) Breakdown(b *board.Board) []Contribution {
	g := b.Grid()
	return lo.Map(e.features, func(f WeightedFeature, _ int) Contribution {
		raw := f.Value(&g)
		return Contribution{Name: f.Name(), Raw: raw, Weighted: f.Weight * raw}
	})
}

// BreakdownTable renders a breakdown for display.
func BreakdownTable(cs []Contribution) string {
	var sb strings.Builder
	sb.WriteString("     Feature       Raw   Weighted\n")
	total := 0.0
	for _, c := range cs {
		fmt.Fprintf(&sb, "%14s %9.1f %10.1f\n", c.Name, c.Raw, c.Weighted)
		total += c.Weighted
	}
	fmt.Fprintf(&sb, "%14s %9s %10.1f\n", "total", "", total)
	return sb.String()
}
