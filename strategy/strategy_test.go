package strategy

import (
	"testing"

	"outbreak/experiments/metrics"
	"outbreak/game"
	"outbreak/searcher"
	"outbreak/sim"

	"github.com/stretchr/testify/require"
)

func character(id string, class game.CharacterClassType, x, y int) game.Character {
	stats, _ := sim.Stats(class)
	return game.Character{
		ID:       id,
		Position: game.Position{X: x, Y: y},
		IsZombie: class == game.Zombie,
		Class:    class,
		Health:   stats.Health,
	}
}

func skirmish(turn int) *game.GameState {
	gs := game.NewGameState(turn)
	for _, c := range []game.Character{
		character("m", game.Medic, 10, 10),
		character("n", game.Marksman, 12, 10),
		character("z", game.Zombie, 14, 10),
		character("z2", game.Zombie, 60, 60),
	} {
		gs.Characters[c.ID] = c
	}
	return gs
}

func byCharacter[T any](actions []T, id func(T) string) map[string][]T {
	grouped := make(map[string][]T)
	for _, action := range actions {
		grouped[id(action)] = append(grouped[id(action)], action)
	}
	return grouped
}

func moveID(m game.MoveAction) string       { return m.CharacterID }
func attackID(a game.AttackAction) string   { return a.CharacterID }
func abilityID(a game.AbilityAction) string { return a.CharacterID }

func newStrategy() Strategy {
	return New(searcher.NewMCTS(searcher.WithEpisodes(200)), nil)
}

func TestDecideCharacterClasses(t *testing.T) {
	all := game.CharacterClasses
	s := newStrategy()

	t.Run("preferred classes when nothing clips them", func(t *testing.T) {
		got := s.DecideCharacterClasses(all, 16, 5)
		require.Equal(t, DefaultClasses, got)
	})

	t.Run("clipped to the number to pick", func(t *testing.T) {
		got := s.DecideCharacterClasses(all, 8, 5)
		require.Equal(t, map[game.CharacterClassType]int{game.Marksman: 5, game.Traceur: 3}, got)
	})

	t.Run("clipped per class", func(t *testing.T) {
		got := s.DecideCharacterClasses(all, 16, 2)
		require.Equal(t, map[game.CharacterClassType]int{
			game.Marksman: 2, game.Traceur: 2, game.Medic: 2, game.Demolitionist: 1,
		}, got)
	})

	t.Run("only offered classes", func(t *testing.T) {
		got := s.DecideCharacterClasses([]game.CharacterClassType{game.Medic, game.Builder}, 16, 5)
		require.Equal(t, map[game.CharacterClassType]int{game.Medic: 5}, got)
	})
}

func TestDecideTurn(t *testing.T) {
	s := newStrategy()
	ctx := NewContext()
	gs := skirmish(0)
	state, err := sim.New(gs, nil, sim.MovePhase)
	require.NoError(t, err)

	moves := s.DecideMoves(ctx, byCharacter(state.Enumerate().Moves, moveID), gs)
	require.NotEmpty(t, moves)
	for _, move := range moves {
		require.Contains(t, state.Enumerate().Moves, move)
	}
	_, ok := ctx.Plan(0)
	require.True(t, ok, "Plan should be cached for the turn")
	require.Len(t, ctx.MoveMetrics(), 1)
	require.Equal(t, "humans", ctx.MoveMetrics()[0].Faction)

	state, err = state.Advance(sim.Actions{Moves: moves})
	require.NoError(t, err)
	attacks := s.DecideAttacks(ctx, byCharacter(state.Enumerate().Attacks, attackID), gs)
	for _, attack := range attacks {
		require.Contains(t, state.Enumerate().Attacks, attack)
	}

	state, err = state.Advance(sim.Actions{Attacks: attacks})
	require.NoError(t, err)
	abilities := s.DecideAbilities(ctx, byCharacter(state.Enumerate().Abilities, abilityID), gs)
	for _, ability := range abilities {
		require.Contains(t, state.Enumerate().Abilities, ability)
	}

	state, err = state.Advance(sim.Actions{Abilities: abilities})
	require.NoError(t, err)
	require.Equal(t, state.Cooldowns(), ctx.Cooldowns(state.ToGameState()),
		"Cooldowns should follow the actions handed out")
	require.Len(t, ctx.MoveMetrics(), 1, "Attacks and abilities should not search")
}

func TestDecideFromCache(t *testing.T) {
	t.Run("nothing cached", func(t *testing.T) {
		s := newStrategy()
		gs := skirmish(0)

		require.Empty(t, s.DecideAttacks(NewContext(), map[string][]game.AttackAction{}, gs))
		require.Empty(t, s.DecideAbilities(NewContext(), map[string][]game.AbilityAction{}, gs))
	})

	t.Run("plans expire with their turn", func(t *testing.T) {
		ctx := NewContext()
		state, err := sim.New(skirmish(0), nil, sim.MovePhase)
		require.NoError(t, err)
		attack := game.AttackAction{CharacterID: "n", TargetID: "z", Type: game.AttackCharacter}
		ctx.start(state, searcher.Plan{Attacks: []game.AttackAction{attack}}, metrics.SearchMetric{})
		possible := map[string][]game.AttackAction{"n": {attack}}

		require.Empty(t, newStrategy().DecideAttacks(ctx, possible, skirmish(2)))
	})

	t.Run("unlisted actions are dropped", func(t *testing.T) {
		ctx := NewContext()
		state, err := sim.New(skirmish(0), nil, sim.AttackPhase)
		require.NoError(t, err)
		listed := game.AttackAction{CharacterID: "n", TargetID: "z", Type: game.AttackCharacter}
		unlisted := game.AttackAction{CharacterID: "m", TargetID: "z", Type: game.AttackCharacter}
		ctx.start(state, searcher.Plan{Attacks: []game.AttackAction{unlisted, listed}}, metrics.SearchMetric{})
		possible := map[string][]game.AttackAction{"n": {listed}}

		got := newStrategy().DecideAttacks(ctx, possible, skirmish(0))

		require.Equal(t, []game.AttackAction{listed}, got)
	})
}

func TestFailClosed(t *testing.T) {
	t.Run("malformed state", func(t *testing.T) {
		gs := skirmish(0)
		m := gs.Characters["m"]
		m.Health = game.MaxHealth + 1
		gs.Characters["m"] = m
		ctx := NewContext()

		moves := newStrategy().DecideMoves(ctx, map[string][]game.MoveAction{}, gs)

		require.Empty(t, moves)
		_, ok := ctx.Plan(0)
		require.False(t, ok)
	})

	t.Run("panicking search", func(t *testing.T) {
		s := New(searcher.NewMCTS(searcher.WithEpisodes(5), searcher.WithEvaluationFn(func(*sim.State) float64 {
			panic("evaluation broke")
		})), nil)
		ctx := NewContext()
		gs := skirmish(0)
		state, err := sim.New(gs, nil, sim.MovePhase)
		require.NoError(t, err)

		var moves []game.MoveAction
		require.NotPanics(t, func() {
			moves = s.DecideMoves(ctx, byCharacter(state.Enumerate().Moves, moveID), gs)
		})

		require.Empty(t, moves)
		_, ok := ctx.Plan(0)
		require.False(t, ok)
	})
}

func TestContextCooldowns(t *testing.T) {
	gs := game.NewGameState(0)
	gs.Characters["h"] = character("h", game.Marksman, 10, 10)
	gs.Characters["z"] = character("z", game.Zombie, 11, 10)
	state, err := sim.New(gs, nil, sim.MovePhase)
	require.NoError(t, err)
	ctx := NewContext()

	require.Equal(t, map[string]sim.Cooldowns{"h": {}, "z": {}}, ctx.Cooldowns(gs), "New characters start at zero")

	ctx.start(state, searcher.Plan{}, metrics.SearchMetric{})
	ctx.advance(sim.Actions{})
	ctx.advance(sim.Actions{Attacks: []game.AttackAction{{CharacterID: "h", TargetID: "z", Type: game.AttackCharacter}}})
	require.Equal(t, sim.Cooldowns{}, ctx.Cooldowns(gs)["h"], "Cooldowns should only update once the turn is over")
	ctx.advance(sim.Actions{})

	require.Equal(t, sim.Cooldowns{Attack: 8}, ctx.Cooldowns(gs)["h"])

	turned := gs.Copy()
	h := turned.Characters["h"]
	h.IsZombie = true
	h.Class = game.Zombie
	turned.Characters["h"] = h
	require.Equal(t, sim.Cooldowns{}, ctx.Cooldowns(turned)["h"], "Turned characters start over")
}

func TestContextNewMatch(t *testing.T) {
	gs := game.NewGameState(4)
	gs.Characters["h"] = character("h", game.Marksman, 10, 10)
	gs.Characters["z"] = character("z", game.Zombie, 11, 10)
	state, err := sim.New(gs, nil, sim.AttackPhase)
	require.NoError(t, err)
	ctx := NewContext()
	ctx.start(state, searcher.Plan{}, metrics.SearchMetric{})
	ctx.advance(sim.Actions{Attacks: []game.AttackAction{{CharacterID: "h", TargetID: "z", Type: game.AttackCharacter}}})
	ctx.advance(sim.Actions{})
	require.Equal(t, sim.Cooldowns{Attack: 8}, ctx.Cooldowns(gs)["h"])

	ctx.rewind(6)
	require.Equal(t, sim.Cooldowns{Attack: 8}, ctx.Cooldowns(gs)["h"], "Later turns keep the table")

	fresh := gs.Copy()
	fresh.Turn = 0
	newStrategy().DecideMoves(ctx, map[string][]game.MoveAction{}, fresh)

	require.Equal(t, sim.Cooldowns{}, ctx.Cooldowns(fresh)["h"], "A new match should start from a clean table")
}
