package experiments

import (
	"fmt"

	"outbreak/communication/client"
	"outbreak/config"
	"outbreak/engine"
	"outbreak/experiments/metrics"
	"outbreak/game"
	"outbreak/searcher"
	"outbreak/strategy"

	"github.com/rs/zerolog/log"
)

// Result is where an experiment stored its tables, with the replay of
// every game it played.
type Result struct {
	Dir     string
	Replays [][]*game.GameState
}

// MatchUp pairs the configuration playing the humans with the one playing
// the zombies.
type MatchUp struct {
	Humans  metrics.AgentConfig
	Zombies metrics.AgentConfig
}

// RunSelfPlay plays the configured search against itself.
func RunSelfPlay(cfg config.Config) (Result, error) {
	agent := agentConfig(1, cfg.Search)
	return runExperiment(cfg, "selfplay", []metrics.AgentConfig{agent}, []MatchUp{{Humans: agent, Zombies: agent}})
}

// RunExplorationExperiment pits humans searching with different exploration
// constants against the configured zombies.
func RunExplorationExperiment(cfg config.Config, constants []float64) (Result, error) {
	baseline := agentConfig(0, cfg.Search)
	configs := []metrics.AgentConfig{baseline}
	matchUps := []MatchUp{}
	for i, c := range constants {
		agent := baseline
		agent.ID = i + 1
		agent.Exploration = c
		configs = append(configs, agent)
		matchUps = append(matchUps, MatchUp{Humans: agent, Zombies: baseline})
	}
	return runExperiment(cfg, "exploration", configs, matchUps)
}

func runExperiment(cfg config.Config, name string, configs []metrics.AgentConfig, matchUps []MatchUp) (Result, error) {
	count := 0
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}
	result := Result{}

	log.Info().Msgf("starting %s experiment...", name)
	if cfg.Remote != "" {
		log.Info().Msgf("zombies are played by %s", cfg.Remote)
	}

	for mi, matchUp := range matchUps {
		log.Info().Msgf("starting matchup %d of %d between humans=%+v and zombies=%+v...", mi+1, len(matchUps), matchUp.Humans, matchUp.Zombies)

		for i := 0; i < cfg.Match.Games; i++ {
			seed := cfg.Match.Seed + uint64(i) // Every matchup plays the same boards
			gameMetric, moveMetrics, frames, err := runGame(cfg, matchUp, seed)
			if err != nil {
				return Result{}, fmt.Errorf("matchup %d game %d: %w", mi+1, i+1, err)
			}
			count++
			gameRecords = append(gameRecords, metrics.GameRecord{
				ID:          count,
				HumanAgent:  matchUp.Humans.ID,
				ZombieAgent: matchUp.Zombies.ID,
				GameMetric:  gameMetric,
			})
			for _, mm := range moveMetrics {
				moveRecords = append(moveRecords, metrics.MoveRecord{
					Game:       count,
					MoveMetric: mm,
				})
			}
			result.Replays = append(result.Replays, frames)

			log.Info().Msgf("completed matchup %d of %d game %d with winner: %s", mi+1, len(matchUps), i+1, gameMetric.Winner)
		}
	}

	log.Info().Msgf("completed %s experiment", name)

	writer, err := metrics.NewWriter(cfg.OutputDir, name)
	if err != nil {
		return Result{}, fmt.Errorf("failed to create experiment writer: %w", err)
	}
	result.Dir = writer.Dir()

	if err := writer.WriteAgentConfigs(configs); err != nil {
		return Result{}, fmt.Errorf("failed to store agent configs: %w", err)
	}
	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return Result{}, fmt.Errorf("failed to write game records: %w", err)
	}
	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return Result{}, fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msgf("stored %d games in %s", len(gameRecords), result.Dir)

	return result, nil
}

// runGame plays a single match on a board generated from seed.
func runGame(cfg config.Config, matchUp MatchUp, seed uint64) (metrics.GameMetric, []metrics.MoveMetric, []*game.GameState, error) {
	humans := strategy.New(createMCTS(matchUp.Humans, cfg.Search), cfg.Classes)
	zombies := newZombies(cfg, matchUp)

	classes := humans.DecideCharacterClasses(game.CharacterClasses, cfg.Match.Humans, cfg.Match.Humans)
	gs, err := engine.CreateBoard(cfg.Match.Board(), classes, seed)
	if err != nil {
		return metrics.GameMetric{}, nil, nil, err
	}

	e, err := engine.NewLocalEngine(gs, engine.NewSide(humans), engine.NewSide(zombies), cfg.Match.MaxTurns)
	if err != nil {
		return metrics.GameMetric{}, nil, nil, err
	}
	gameMetric, moveMetrics, err := e.Run()
	if err != nil {
		return metrics.GameMetric{}, nil, nil, err
	}
	return gameMetric, moveMetrics, e.Frames(), nil
}

// newZombies plays the zombies through the remote agent when one is
// configured.
func newZombies(cfg config.Config, matchUp MatchUp) strategy.Strategy {
	if cfg.Remote != "" {
		return client.NewClient(cfg.Remote, client.DefaultTimeout)
	}
	return strategy.New(createMCTS(matchUp.Zombies, cfg.Search), cfg.Classes)
}

func agentConfig(id int, s config.Search) metrics.AgentConfig {
	return metrics.AgentConfig{
		ID:          id,
		Duration:    s.Duration,
		Episodes:    s.Episodes,
		Exploration: s.Exploration,
		Decay:       s.Decay,
		BatchSize:   s.BatchSize,
	}
}

func createMCTS(agent metrics.AgentConfig, s config.Search) *searcher.MCTS {
	s.Duration = agent.Duration
	s.Episodes = agent.Episodes
	s.Exploration = agent.Exploration
	s.Decay = agent.Decay
	s.BatchSize = agent.BatchSize

	options := append(s.Options(), searcher.WithMetrics())
	return searcher.NewMCTS(options...)
}
