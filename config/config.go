package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"outbreak/engine"
	"outbreak/game"
	"outbreak/searcher"
	"outbreak/sim"
	"outbreak/strategy"

	"github.com/rs/zerolog"
	"golang.org/x/exp/maps"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

// Search configures the planner of both sides.
type Search struct {
	Duration    time.Duration `yaml:"duration"`
	Episodes    int           `yaml:"episodes"` // Takes precedence over duration when set
	Exploration float64       `yaml:"exploration"`
	Decay       float64       `yaml:"decay"`
	BatchSize   int           `yaml:"batch_size"`
	ShuffleSeed uint64        `yaml:"shuffle_seed"` // 0 keeps enumeration order
}

// Match configures the self-play matches.
type Match struct {
	Games    int    `yaml:"games"`
	Seed     uint64 `yaml:"seed"`
	Humans   int    `yaml:"humans"`
	Zombies  int    `yaml:"zombies"`
	Walls    int    `yaml:"walls"`
	Trees    int    `yaml:"trees"`
	Rivers   int    `yaml:"rivers"`
	MaxTurns int    `yaml:"max_turns"`
}

// Config is the whole run configuration. Remote is the URL of an agent
// playing the zombies; empty plays them locally.
type Config struct {
	Search    Search                          `yaml:"search"`
	Match     Match                           `yaml:"match"`
	Classes   map[game.CharacterClassType]int `yaml:"classes"`
	LogLevel  string                          `yaml:"log_level"`
	OutputDir string                          `yaml:"output_dir"`
	Remote    string                          `yaml:"remote"`
}

func Default() Config {
	return Config{
		Search: Search{
			Duration:    searcher.DefaultDuration,
			Exploration: searcher.DefaultExploration,
			Decay:       searcher.DefaultDecay,
			BatchSize:   sim.DefaultBatchSize,
		},
		Match: Match{
			Games:    1,
			Seed:     1,
			Humans:   20,
			Zombies:  game.StartingZombies,
			Walls:    40,
			Trees:    40,
			Rivers:   20,
			MaxTurns: game.Turns,
		},
		Classes:   maps.Clone(strategy.DefaultClasses),
		LogLevel:  "info",
		OutputDir: "experiments",
	}
}

// Load reads a YAML file over the defaults. An empty path gives the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (Config, error) {
	c := Default()
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	s := c.Search
	switch {
	case s.Decay <= 0 || s.Decay > 1:
		return fmt.Errorf("%w: decay %v outside (0, 1]", ErrInvalidConfig, s.Decay)
	case s.Exploration < 0:
		return fmt.Errorf("%w: negative exploration %v", ErrInvalidConfig, s.Exploration)
	case s.BatchSize < 1:
		return fmt.Errorf("%w: batch size %d below 1", ErrInvalidConfig, s.BatchSize)
	case s.Duration <= 0 && s.Episodes <= 0:
		return fmt.Errorf("%w: search needs a duration or a number of episodes", ErrInvalidConfig)
	}

	m := c.Match
	switch {
	case m.Games < 1:
		return fmt.Errorf("%w: %d games", ErrInvalidConfig, m.Games)
	case m.Humans < 1 || m.Zombies < 0:
		return fmt.Errorf("%w: %d humans and %d zombies", ErrInvalidConfig, m.Humans, m.Zombies)
	case m.MaxTurns < 1 || m.MaxTurns > game.Turns:
		return fmt.Errorf("%w: max turns %d outside [1, %d]", ErrInvalidConfig, m.MaxTurns, game.Turns)
	}
	if err := m.Board().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	for class, n := range c.Classes {
		if !class.Valid() || class == game.Zombie {
			return fmt.Errorf("%w: %q is not a human class", ErrInvalidConfig, class)
		}
		if n < 0 {
			return fmt.Errorf("%w: negative count for %s", ErrInvalidConfig, class)
		}
	}

	if c.Remote != "" {
		u, err := url.Parse(c.Remote)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: remote %q is not an http url", ErrInvalidConfig, c.Remote)
		}
	}

	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

func (c Config) Level() (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return level, nil
}

// Options translates the search section into planner options.
func (s Search) Options() []searcher.Option {
	options := []searcher.Option{
		searcher.WithExploration(s.Exploration),
		searcher.WithDecay(s.Decay),
		searcher.WithBatcher(s.Batcher()),
	}
	if s.Episodes > 0 {
		options = append(options, searcher.WithEpisodes(s.Episodes))
	}
	if s.Duration > 0 {
		options = append(options, searcher.WithDuration(s.Duration))
	}
	return options
}

func (s Search) Batcher() sim.Batcher {
	if s.ShuffleSeed != 0 {
		return sim.NewShuffledBatcher(s.BatchSize, s.ShuffleSeed)
	}
	return sim.ChunkBatcher{Size: s.BatchSize}
}

func (m Match) Board() engine.Board {
	return engine.Board{Humans: m.Humans, Zombies: m.Zombies, Walls: m.Walls, Trees: m.Trees, Rivers: m.Rivers}
}
