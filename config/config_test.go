package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"outbreak/engine"
	"outbreak/game"
	"outbreak/sim"
	"outbreak/strategy"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()

	require.NoError(t, c.Validate())
	require.Equal(t, 2*time.Second, c.Search.Duration)
	require.Equal(t, 0.1, c.Search.Exploration)
	require.Equal(t, 0.9, c.Search.Decay)
	require.Equal(t, 3, c.Search.BatchSize)
	require.Equal(t, 5, c.Match.Zombies)
	require.Equal(t, 200, c.Match.MaxTurns)

	c.Classes[game.Medic] = 0
	require.Equal(t, 5, strategy.DefaultClasses[game.Medic], "Defaults should not share the class table")
}

func TestParse(t *testing.T) {
	t.Run("overrides the defaults", func(t *testing.T) {
		c, err := Parse([]byte(`
search:
  duration: 500ms
  decay: 0.5
  shuffle_seed: 9
match:
  games: 3
  humans: 8
classes:
  BUILDER: 2
log_level: debug
`))

		require.NoError(t, err)
		require.Equal(t, 500*time.Millisecond, c.Search.Duration)
		require.Equal(t, 0.5, c.Search.Decay)
		require.Equal(t, 0.1, c.Search.Exploration, "Unset fields should keep their default")
		require.Equal(t, 3, c.Match.Games)
		require.Equal(t, 8, c.Match.Humans)
		require.Equal(t, 2, c.Classes[game.Builder])
		require.Equal(t, 5, c.Classes[game.Marksman])
		level, err := c.Level()
		require.NoError(t, err)
		require.Equal(t, zerolog.DebugLevel, level)
		require.IsType(t, &sim.ShuffledBatcher{}, c.Search.Batcher())
	})

	t.Run("rejects malformed yaml", func(t *testing.T) {
		_, err := Parse([]byte("search: [1, 2"))
		require.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("rejects a board that does not fit", func(t *testing.T) {
		_, err := Parse([]byte("match:\n  humans: 2001\n"))
		require.ErrorIs(t, err, ErrInvalidConfig)
		require.ErrorIs(t, err, engine.ErrBoardFull)
	})

	t.Run("rejects a bad duration", func(t *testing.T) {
		_, err := Parse([]byte("search:\n  duration: soon\n"))
		require.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestValidate(t *testing.T) {
	for name, mutate := range map[string]func(c *Config){
		"zero decay":             func(c *Config) { c.Search.Decay = 0 },
		"decay above one":        func(c *Config) { c.Search.Decay = 1.1 },
		"negative exploration":   func(c *Config) { c.Search.Exploration = -0.1 },
		"empty batches":          func(c *Config) { c.Search.BatchSize = 0 },
		"no budget":              func(c *Config) { c.Search.Duration = 0; c.Search.Episodes = 0 },
		"no games":               func(c *Config) { c.Match.Games = 0 },
		"no humans":              func(c *Config) { c.Match.Humans = 0 },
		"too many turns":         func(c *Config) { c.Match.MaxTurns = game.Turns + 1 },
		"zombie class":           func(c *Config) { c.Classes[game.Zombie] = 1 },
		"unknown class":          func(c *Config) { c.Classes["WIZARD"] = 1 },
		"negative class count":   func(c *Config) { c.Classes[game.Medic] = -1 },
		"unknown log level":      func(c *Config) { c.LogLevel = "loud" },
		"negative terrain count": func(c *Config) { c.Match.Walls = -1 },
		"humans overflow":        func(c *Config) { c.Match.Humans = 2001 },
		"terrain overflow":       func(c *Config) { c.Match.Walls, c.Match.Trees = 6000, 1 },
		"remote without scheme":  func(c *Config) { c.Remote = "localhost:8080" },
		"remote not over http":   func(c *Config) { c.Remote = "ftp://agent:21" },
	} {
		t.Run(name, func(t *testing.T) {
			c := Default()
			mutate(&c)
			require.ErrorIs(t, c.Validate(), ErrInvalidConfig)
		})
	}

	t.Run("a remote agent", func(t *testing.T) {
		c := Default()
		c.Remote = "http://localhost:8080"
		require.NoError(t, c.Validate())
	})

	t.Run("episodes alone are a budget", func(t *testing.T) {
		c := Default()
		c.Search.Duration = 0
		c.Search.Episodes = 100
		require.NoError(t, c.Validate())
	})
}

func TestLoad(t *testing.T) {
	t.Run("no path gives the defaults", func(t *testing.T) {
		c, err := Load("")
		require.NoError(t, err)
		require.Equal(t, Default(), c)
	})

	t.Run("reads a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "outbreak.yaml")
		require.NoError(t, os.WriteFile(path, []byte("match:\n  seed: 42\n"), 0644))

		c, err := Load(path)

		require.NoError(t, err)
		require.Equal(t, uint64(42), c.Match.Seed)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
	})
}

func TestSearchOptions(t *testing.T) {
	s := Default().Search
	require.Equal(t, sim.ChunkBatcher{Size: 3}, s.Batcher())
	require.Len(t, s.Options(), 4)

	s.Episodes = 10
	require.Len(t, s.Options(), 5)
}
