package automatic

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matryer/is"
)

func TestPlayGames(t *testing.T) {
	is := is.New(t)
	cfg := fastConfig(1)
	logfile := filepath.Join(t.TempDir(), "turns.csv")
	seeds := [][32]byte{seed(1), seed(2), seed(3)}

	results, err := PlayGames(context.Background(), cfg, 4, 2, logfile, seeds)
	is.NoErr(err)
	is.Equal(len(results), 4)
	totalMoves := 0
	for i, res := range results {
		is.Equal(res.GameID, GameID(i))
		is.True(res.Moves > 0)
		totalMoves += res.Moves
	}
	is.Equal(GamesPlayed.Value(), int64(4))
	is.Equal(IsPlaying.Value(), int64(0))
	// Game 4 reuses the first seed.
	is.Equal(results[3].Final, results[0].Final)

	f, err := os.Open(logfile)
	is.NoErr(err)
	defer f.Close()
	scanner := bufio.NewScanner(f)
	lines := 0
	for scanner.Scan() {
		if lines == 0 {
			is.Equal(scanner.Text()+"\n", TurnLogHeader)
		}
		lines++
	}
	is.NoErr(scanner.Err())
	is.Equal(lines, totalMoves+1)

	// The same seeds on one thread give the same games.
	again, err := PlayGames(context.Background(), cfg, 3, 1, "", seeds)
	is.NoErr(err)
	for i := range again {
		is.Equal(again[i].Final, results[i].Final)
	}
}

func TestPlayGamesCancelled(t *testing.T) {
	is := is.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results, err := PlayGames(ctx, fastConfig(1), 10, 2, "", nil)
	is.NoErr(err)
	is.Equal(len(results), 0)
}

func TestSeedFiles(t *testing.T) {
	is := is.New(t)
	dir := t.TempDir()
	seeds, err := GenerateSeeds(5)
	is.NoErr(err)
	is.True(seeds[0] != seeds[1])

	path := filepath.Join(dir, "seeds.txt")
	is.NoErr(SaveSeeds(seeds, path))
	loaded, err := LoadSeeds(path)
	is.NoErr(err)
	is.Equal(loaded, seeds)

	named := filepath.Join(dir, "named.txt")
	is.NoErr(os.WriteFile(named, []byte("# benchmark\nalpha\n\nbeta\n"), 0o644))
	loaded, err = LoadSeeds(named)
	is.NoErr(err)
	is.Equal(loaded, [][32]byte{SeedFromString("alpha"), SeedFromString("beta")})

	empty := filepath.Join(dir, "empty.txt")
	is.NoErr(os.WriteFile(empty, []byte("# nothing\n"), 0o644))
	_, err = LoadSeeds(empty)
	is.Equal(err, errNoSeeds)

	_, err = LoadSeeds(filepath.Join(dir, "missing.txt"))
	is.True(err != nil)

	batch := filepath.Join(dir, "batch.txt")
	created, err := SeedsForBatch(batch, 3)
	is.NoErr(err)
	is.Equal(len(created), 3)
	reused, err := SeedsForBatch(batch, 10)
	is.NoErr(err)
	is.Equal(reused, created)
	none, err := SeedsForBatch("", 3)
	is.NoErr(err)
	is.Equal(len(none), 0)
}

func TestSeedFromString(t *testing.T) {
	is := is.New(t)
	is.Equal(SeedFromString("game-1"), SeedFromString("game-1"))
	is.True(SeedFromString("game-1") != SeedFromString("game-2"))
}

func TestSummarize(t *testing.T) {
	is := is.New(t)
	results := []GameResult{
		{GameID: "a", Score: 20000, MaxTile: 2048, Moves: 1000, Won: true, Reason: StopWon, MeanDepth: 3},
		{GameID: "b", Score: 12000, MaxTile: 1024, Moves: 700, Reason: StopNoMoves, MeanDepth: 4},
		{GameID: "c", Score: 16000, MaxTile: 1024, Moves: 850, Reason: StopNoMoves, MeanDepth: 5},
	}
	s := Summarize(results)
	is.Equal(s.Games, 3)
	is.Equal(s.Wins, 1)
	is.Equal(s.MeanScore, 16000.0)
	is.Equal(s.MinScore, 12000.0)
	is.Equal(s.MaxScore, 20000.0)
	is.Equal(s.MedianScore, 16000.0)
	is.Equal(s.MeanDepth, 4.0)
	is.Equal(s.MaxTiles, map[int]int{2048: 1, 1024: 2})
	is.Equal(s.StopReasons, map[StopReason]int{StopWon: 1, StopNoMoves: 2})
	is.True(s.ScoreCI95[0] < 16000 && s.ScoreCI95[1] > 16000)

	text := s.String()
	is.True(strings.Contains(text, "Games played: 3"))
	is.True(strings.Contains(text, "Mean score: 16,000.0"))
	is.True(strings.Contains(text, "Scores:"))

	out, err := s.YAML()
	is.NoErr(err)
	is.True(strings.Contains(string(out), "win-rate:"))
	is.True(strings.Contains(string(out), "stop-reasons:"))

	is.Equal(Summarize(nil).String(), "Games played: 0\n")
}
