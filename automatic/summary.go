package automatic

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/samber/lo"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/domino14/expecto/stats"
)

// Summary aggregates the results of a batch of games.
type Summary struct {
	Games       int                `yaml:"games"`
	Wins        int                `yaml:"wins"`
	WinRate     float64            `yaml:"win-rate"`
	MeanScore   float64            `yaml:"mean-score"`
	ScoreStdev  float64            `yaml:"score-stdev"`
	ScoreCI95   [2]float64         `yaml:"score-ci95,flow"`
	MinScore    float64            `yaml:"min-score"`
	MedianScore float64            `yaml:"median-score"`
	P90Score    float64            `yaml:"p90-score"`
	MaxScore    float64            `yaml:"max-score"`
	MeanMoves   float64            `yaml:"mean-moves"`
	MeanDepth   float64            `yaml:"mean-depth"`
	MaxTiles    map[int]int        `yaml:"max-tiles"`
	StopReasons map[StopReason]int `yaml:"stop-reasons"`
	scores      []float64
}

// Summarize computes statistics over a batch.
func Summarize(results []GameResult) Summary {
	s := Summary{Games: len(results)}
	if len(results) == 0 {
		return s
	}
	scoreStat := &stats.Statistic{}
	moveStat := &stats.Statistic{}
	depthStat := &stats.Statistic{}
	for _, r := range results {
		scoreStat.Push(float64(r.Score))
		moveStat.Push(float64(r.Moves))
		if r.Moves > 0 {
			depthStat.Push(r.MeanDepth)
		}
		s.scores = append(s.scores, float64(r.Score))
	}
	s.Wins = lo.CountBy(results, func(r GameResult) bool { return r.Won })
	s.WinRate = float64(s.Wins) / float64(s.Games)
	s.MeanScore = scoreStat.Mean()
	s.ScoreStdev = scoreStat.Stdev()
	s.ScoreCI95[0], s.ScoreCI95[1] = scoreStat.ConfidenceInterval(95)
	s.MinScore = scoreStat.Min()
	s.MaxScore = scoreStat.Max()
	qs := stats.Quantiles(s.scores, 0.5, 0.9)
	s.MedianScore, s.P90Score = qs[0], qs[1]
	s.MeanMoves = moveStat.Mean()
	s.MeanDepth = depthStat.Mean()
	s.MaxTiles = lo.CountValues(lo.Map(results, func(r GameResult, _ int) int { return r.MaxTile }))
	s.StopReasons = lo.CountValues(lo.Map(results, func(r GameResult, _ int) StopReason { return r.Reason }))
	return s
}

func (s Summary) YAML() ([]byte, error) {
	return yaml.Marshal(s)
}

// String renders the summary for a terminal, with a histogram of scores.
func (s Summary) String() string {
	p := message.NewPrinter(language.English)
	var sb strings.Builder
	p.Fprintf(&sb, "Games played: %d\n", s.Games)
	if s.Games == 0 {
		return sb.String()
	}
	p.Fprintf(&sb, "Reached %d: %d (%.2f%%)\n", 2048, s.Wins, 100*s.WinRate)
	p.Fprintf(&sb, "Mean score: %.1f  Stdev: %.1f  95%% CI: [%.1f, %.1f]\n",
		s.MeanScore, s.ScoreStdev, s.ScoreCI95[0], s.ScoreCI95[1])
	p.Fprintf(&sb, "Score min/median/p90/max: %.0f / %.0f / %.0f / %.0f\n",
		s.MinScore, s.MedianScore, s.P90Score, s.MaxScore)
	p.Fprintf(&sb, "Mean moves: %.1f  Mean search depth: %.2f\n", s.MeanMoves, s.MeanDepth)
	sb.WriteString("Max tile distribution:\n")
	tiles := slices.Sorted(maps.Keys(s.MaxTiles))
	slices.Reverse(tiles)
	for _, t := range tiles {
		p.Fprintf(&sb, "%8d: %d\n", t, s.MaxTiles[t])
	}
	if len(s.scores) > 1 {
		sb.WriteString("Scores:\n")
		var buf bytes.Buffer
		h := histogram.Hist(10, s.scores)
		if err := histogram.Fprint(&buf, h, histogram.Linear(40)); err != nil {
			fmt.Fprintf(&sb, "(histogram: %v)\n", err)
		} else {
			sb.Write(buf.Bytes())
		}
	}
	return sb.String()
}
