package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDebug               = "debug"
	ConfigLogLevel            = "log-level"
	ConfigSearchMinTime       = "search-min-time"
	ConfigSearchMaxTime       = "search-max-time"
	ConfigSearchMaxDepth      = "search-max-depth"
	ConfigCachePolicy         = "cache-policy"
	ConfigCacheCapacity       = "cache-capacity"
	ConfigCacheMemoryFraction = "cache-memory-fraction"
	ConfigAutoplayThreads     = "autoplay-threads"
	ConfigAutoplayGames       = "autoplay-games"
	ConfigAutoplayLogfile     = "autoplay-logfile"
	ConfigAutoplaySeedfile    = "autoplay-seedfile"
	ConfigPlayPastWin         = "play-past-win"
	ConfigCPUProfile          = "cpu-profile"
	ConfigMemProfile          = "mem-profile"
)

type Config struct {
	viper.Viper
	args []string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(ConfigDebug, false)
	v.SetDefault(ConfigLogLevel, "info")
	v.SetDefault(ConfigSearchMinTime, 100*time.Millisecond)
	v.SetDefault(ConfigSearchMaxTime, 800*time.Millisecond)
	v.SetDefault(ConfigSearchMaxDepth, 10)
	v.SetDefault(ConfigCachePolicy, "per-search")
	v.SetDefault(ConfigCacheCapacity, 0)
	v.SetDefault(ConfigCacheMemoryFraction, 0.05)
	v.SetDefault(ConfigAutoplayThreads, 1)
	v.SetDefault(ConfigAutoplayGames, 1)
	v.SetDefault(ConfigAutoplayLogfile, "")
	v.SetDefault(ConfigAutoplaySeedfile, "")
	v.SetDefault(ConfigPlayPastWin, false)
	v.SetDefault(ConfigCPUProfile, "")
	v.SetDefault(ConfigMemProfile, "")
}

func flagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("expecto", pflag.ContinueOnError)
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.String(ConfigLogLevel, "info", "log level: debug, info, warn or error")
	fs.Duration(ConfigSearchMinTime, 100*time.Millisecond, "search budget when the board is empty")
	fs.Duration(ConfigSearchMaxTime, 800*time.Millisecond, "search budget when the board is full")
	fs.Int(ConfigSearchMaxDepth, 10, "deepest iteration of the search (at most 10)")
	fs.String(ConfigCachePolicy, "per-search", "transposition cache policy: per-search, persistent, bounded or off")
	fs.Int(ConfigCacheCapacity, 0, "entries kept by the bounded cache; 0 sizes it from system memory")
	fs.Float64(ConfigCacheMemoryFraction, 0.05, "fraction of system memory for the bounded cache")
	fs.Int(ConfigAutoplayThreads, 1, "games played in parallel by autoplay")
	fs.Int(ConfigAutoplayGames, 1, "number of games autoplay plays")
	fs.String(ConfigAutoplayLogfile, "", "write a CSV turn log to this file")
	fs.String(ConfigAutoplaySeedfile, "", "read per-game seeds from this file")
	fs.Bool(ConfigPlayPastWin, false, "keep playing after reaching 2048")
	fs.String(ConfigCPUProfile, "", "write a cpu profile to this file")
	fs.String(ConfigMemProfile, "", "write a memory profile to this file")
	return fs
}

// DefaultConfig returns a config holding only the default values. It reads
// no flags, files or environment variables.
func DefaultConfig() *Config {
	c := &Config{Viper: *viper.New()}
	setDefaults(&c.Viper)
	return c
}

// Load reads configuration, in increasing order of precedence, from
// defaults, an optional config.yaml (in the working directory or
// $HOME/.expecto), EXPECTO_* environment variables and the given command-line
// arguments.
func (c *Config) Load(args []string) error {
	c.Viper = *viper.New()
	setDefaults(&c.Viper)

	fs := flagSet()
	if err := fs.Parse(args); err != nil {
		return err
	}
	c.args = fs.Args()
	if err := c.BindPFlags(fs); err != nil {
		return err
	}

	c.SetEnvPrefix("expecto")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	c.SetConfigName("config")
	c.SetConfigType("yaml")
	c.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		c.AddConfigPath(filepath.Join(home, ".expecto"))
	}
	err := c.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config file: %w", err)
		}
		log.Debug().Msg("no-config-file")
	} else {
		log.Info().Str("file", c.ConfigFileUsed()).Msg("loaded-config-file")
	}
	return c.validate()
}

// Args returns the command-line arguments left over after flag parsing.
func (c *Config) Args() []string {
	return c.args
}

func (c *Config) validate() error {
	if c.GetDuration(ConfigSearchMaxTime) < c.GetDuration(ConfigSearchMinTime) {
		return fmt.Errorf("%s must not be smaller than %s", ConfigSearchMaxTime, ConfigSearchMinTime)
	}
	if c.GetInt(ConfigSearchMaxDepth) < 1 {
		return fmt.Errorf("%s must be at least 1", ConfigSearchMaxDepth)
	}
	if f := c.GetFloat64(ConfigCacheMemoryFraction); f <= 0 || f > 1 {
		return fmt.Errorf("%s must be in (0, 1]", ConfigCacheMemoryFraction)
	}
	if c.GetInt(ConfigAutoplayThreads) < 1 {
		return fmt.Errorf("%s must be at least 1", ConfigAutoplayThreads)
	}
	return nil
}
