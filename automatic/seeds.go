package automatic

import (
	"bufio"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cespare/xxhash"
	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"
)

var errNoSeeds = errors.New("seed file has no seeds")

// GenerateSeeds creates n random 32-byte seeds, one per game.
func GenerateSeeds(n int) ([][32]byte, error) {
	seeds := make([][32]byte, n)
	for i := range seeds {
		if _, err := frand.Read(seeds[i][:]); err != nil {
			return nil, fmt.Errorf("failed to generate seed %d: %w", i, err)
		}
	}
	return seeds, nil
}

// SeedFromString derives a seed from a name, so that "game 7 of my
// benchmark" can be replayed without keeping a seed file around.
func SeedFromString(s string) [32]byte {
	var seed [32]byte
	for i := 0; i < 4; i++ {
		h := xxhash.Sum64String(s + "/" + strconv.Itoa(i))
		binary.LittleEndian.PutUint64(seed[i*8:], h)
	}
	return seed
}

// SaveSeeds writes seeds to a file, one base64 seed per line.
func SaveSeeds(seeds [][32]byte, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create seed file: %w", err)
	}
	writer := bufio.NewWriter(file)
	fmt.Fprintf(writer, "# %d game seeds (base64 URL-safe encoded, 32 bytes each)\n", len(seeds))
	for _, seed := range seeds {
		writer.WriteString(base64.RawURLEncoding.EncodeToString(seed[:]))
		writer.WriteByte('\n')
	}
	if err := writer.Flush(); err != nil {
		file.Close()
		return fmt.Errorf("failed to write seed file: %w", err)
	}
	return file.Close()
}

// LoadSeeds reads a file written by SaveSeeds. Blank lines and lines starting
// with # are skipped. Any other line that is not a base64 seed is treated as
// a name and turned into a seed with SeedFromString.
func LoadSeeds(path string) ([][32]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer file.Close()

	var seeds [][32]byte
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		decoded, err := base64.RawURLEncoding.DecodeString(line)
		if err != nil || len(decoded) != 32 {
			seeds = append(seeds, SeedFromString(line))
			continue
		}
		var seed [32]byte
		copy(seed[:], decoded)
		seeds = append(seeds, seed)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading seed file: %w", err)
	}
	if len(seeds) == 0 {
		return nil, errNoSeeds
	}
	return seeds, nil
}

// SeedsForBatch returns the seeds for a batch of games. With no seed file it
// returns nil, and PlayGames picks fresh seeds. An existing seed file is
// read; a missing one is created with fresh seeds so the batch can be
// replayed.
func SeedsForBatch(seedfile string, games int) ([][32]byte, error) {
	if seedfile == "" {
		return nil, nil
	}
	if _, err := os.Stat(seedfile); err == nil {
		return LoadSeeds(seedfile)
	}
	seeds, err := GenerateSeeds(games)
	if err != nil {
		return nil, err
	}
	if err := SaveSeeds(seeds, seedfile); err != nil {
		return nil, err
	}
	log.Info().Str("seedfile", seedfile).Int("seeds", len(seeds)).Msg("saved-seeds")
	return seeds, nil
}
