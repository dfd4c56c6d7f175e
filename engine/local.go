package engine

import (
	"fmt"
	"time"

	"outbreak/experiments/metrics"
	"outbreak/game"
	"outbreak/sim"
	"outbreak/strategy"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

// Side is one player of a local match: its strategy and the context the
// strategy keeps across calls.
type Side struct {
	Strategy strategy.Strategy
	Context  *strategy.Context
}

func NewSide(s strategy.Strategy) *Side {
	return &Side{Strategy: s, Context: strategy.NewContext()}
}

// LocalEngine plays a match in process, with the simulation acting as the
// authoritative game.
type LocalEngine struct {
	state    *sim.State
	sides    [2]*Side // Indexed by game.Faction
	maxTurns int
	frames   []*game.GameState
}

func NewLocalEngine(gs *game.GameState, humans, zombies *Side, maxTurns int) (*LocalEngine, error) {
	state, err := sim.New(gs, nil, sim.MovePhase)
	if err != nil {
		return nil, fmt.Errorf("invalid starting state: %w", err)
	}
	if maxTurns <= 0 || maxTurns > game.Turns {
		maxTurns = game.Turns
	}

	e := &LocalEngine{
		state:    state,
		maxTurns: maxTurns,
		frames:   []*game.GameState{state.ToGameState()},
	}
	e.sides[game.Humans] = humans
	e.sides[game.Zombies] = zombies
	return e, nil
}

// Frames returns the game state at the start and after every turn.
func (e *LocalEngine) Frames() []*game.GameState {
	return e.frames
}

func (e *LocalEngine) State() *sim.State {
	return e.state
}

func (e *LocalEngine) Run() (metrics.GameMetric, []metrics.MoveMetric, error) {
	startTime := time.Now()
	humans, zombies := e.state.Counts()
	log.Info().Msgf("starting match with %d humans and %d zombies", humans, zombies)

	for !e.state.IsFinished() && e.state.Turn() < e.maxTurns {
		if err := e.playTurn(); err != nil {
			return metrics.GameMetric{}, nil, fmt.Errorf("turn %d: %w", e.state.Turn(), err)
		}
		e.frames = append(e.frames, e.state.ToGameState())
	}

	turn, humans, zombies := e.state.Stats()
	humanScore, zombieScore := e.state.Scores()
	winner := game.Humans
	if humans == 0 {
		winner = game.Zombies
	}
	gameMetric := metrics.GameMetric{
		Winner:      winner.String(),
		Turns:       turn,
		Humans:      humans,
		Zombies:     zombies,
		HumanScore:  humanScore,
		ZombieScore: zombieScore,
		StartTime:   startTime,
		EndTime:     time.Now(),
		Duration:    time.Since(startTime),
	}
	log.Info().Msgf("match over after %d turns, winner: %s (%d-%d)", turn, gameMetric.Winner, humanScore, zombieScore)

	moveMetrics := append(slices.Clone(e.sides[game.Humans].Context.MoveMetrics()), e.sides[game.Zombies].Context.MoveMetrics()...)
	slices.SortStableFunc(moveMetrics, func(a, b metrics.MoveMetric) int {
		return a.Turn - b.Turn
	})
	return gameMetric, moveMetrics, nil
}

// playTurn asks the acting side for each of its sub-phases in order, the
// way the authoritative game does.
func (e *LocalEngine) playTurn() error {
	side := e.sides[e.state.ActingFaction()]

	moves := side.Strategy.DecideMoves(side.Context,
		byCharacter(e.state.Enumerate().Moves, func(m game.MoveAction) string { return m.CharacterID }),
		e.state.ToGameState())
	if err := e.advance(sim.Actions{Moves: moves}); err != nil {
		return err
	}

	attacks := side.Strategy.DecideAttacks(side.Context,
		byCharacter(e.state.Enumerate().Attacks, func(a game.AttackAction) string { return a.CharacterID }),
		e.state.ToGameState())
	if err := e.advance(sim.Actions{Attacks: attacks}); err != nil {
		return err
	}

	if e.state.Phase() != sim.AbilityPhase { // Zombies have no abilities
		return nil
	}
	abilities := side.Strategy.DecideAbilities(side.Context,
		byCharacter(e.state.Enumerate().Abilities, func(a game.AbilityAction) string { return a.CharacterID }),
		e.state.ToGameState())
	return e.advance(sim.Actions{Abilities: abilities})
}

func (e *LocalEngine) advance(actions sim.Actions) error {
	next, err := e.state.Advance(actions)
	if err != nil {
		return err
	}
	e.state = next
	return nil
}

// byCharacter groups the possible actions by the character taking them.
func byCharacter[T any](actions []T, id func(T) string) map[string][]T {
	grouped := make(map[string][]T)
	for _, action := range actions {
		grouped[id(action)] = append(grouped[id(action)], action)
	}
	return grouped
}
