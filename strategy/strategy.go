package strategy

import (
	"fmt"

	"outbreak/game"
	"outbreak/searcher"
	"outbreak/sim"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

// Strategy answers the decision calls of the authoritative game for one side.
type Strategy interface {
	DecideCharacterClasses(possible []game.CharacterClassType, numToPick, maxPerClass int) map[game.CharacterClassType]int
	DecideMoves(ctx *Context, possible map[string][]game.MoveAction, gs *game.GameState) []game.MoveAction
	DecideAttacks(ctx *Context, possible map[string][]game.AttackAction, gs *game.GameState) []game.AttackAction
	DecideAbilities(ctx *Context, possible map[string][]game.AbilityAction, gs *game.GameState) []game.AbilityAction
}

// searching plans a whole turn with one search at the move decision and
// serves the attack and ability decisions from that plan.
type searching struct {
	mcts    *searcher.MCTS
	classes map[game.CharacterClassType]int
}

// New returns a searching strategy. classes is the preferred number of
// characters per class; nil means DefaultClasses.
func New(mcts *searcher.MCTS, classes map[game.CharacterClassType]int) Strategy {
	if classes == nil {
		classes = DefaultClasses
	}
	return &searching{mcts: mcts, classes: classes}
}

func (s *searching) DecideCharacterClasses(possible []game.CharacterClassType, numToPick, maxPerClass int) map[game.CharacterClassType]int {
	return pickClasses(s.classes, possible, numToPick, maxPerClass)
}

func (s *searching) DecideMoves(ctx *Context, possible map[string][]game.MoveAction, gs *game.GameState) (moves []game.MoveAction) {
	defer failClosed(ctx, "moves", &moves)

	ctx.rewind(gs.Turn)
	ctx.reset()
	state, err := sim.New(gs, ctx.Cooldowns(gs), sim.MovePhase)
	if err != nil {
		log.Warn().Err(err).Msgf("cannot plan turn %d", gs.Turn)
		return nil
	}
	plan, metric, err := s.mcts.Simulate(state)
	if err != nil {
		log.Warn().Err(err).Msgf("search failed on turn %d", gs.Turn)
		return nil
	}
	ctx.start(state, plan, metric)

	moves = legal(plan.Moves, possible, func(m game.MoveAction) string { return m.CharacterID })
	ctx.advance(sim.Actions{Moves: moves})
	return moves
}

func (s *searching) DecideAttacks(ctx *Context, possible map[string][]game.AttackAction, gs *game.GameState) (attacks []game.AttackAction) {
	defer failClosed(ctx, "attacks", &attacks)

	plan, ok := ctx.Plan(gs.Turn)
	if !ok {
		return nil
	}
	attacks = legal(plan.Attacks, possible, func(a game.AttackAction) string { return a.CharacterID })
	ctx.advance(sim.Actions{Attacks: attacks})
	return attacks
}

func (s *searching) DecideAbilities(ctx *Context, possible map[string][]game.AbilityAction, gs *game.GameState) (abilities []game.AbilityAction) {
	defer failClosed(ctx, "abilities", &abilities)

	plan, ok := ctx.Plan(gs.Turn)
	if !ok {
		return nil
	}
	abilities = legal(plan.Abilities, possible, func(a game.AbilityAction) string { return a.CharacterID })
	ctx.advance(sim.Actions{Abilities: abilities})
	return abilities
}

// legal keeps the planned actions the authoritative game listed for their character.
func legal[T comparable](planned []T, possible map[string][]T, character func(T) string) []T {
	var actions []T
	for _, action := range planned {
		if slices.Contains(possible[character(action)], action) {
			actions = append(actions, action)
		}
	}
	return actions
}

// failClosed turns a panic during a decision into an empty decision.
func failClosed[T any](ctx *Context, what string, decision *[]T) {
	if r := recover(); r != nil {
		log.Error().Err(fmt.Errorf("%v", r)).Msgf("deciding %s failed, passing", what)
		ctx.reset()
		*decision = nil
	}
}
