package sim

import (
	"testing"

	"outbreak/game"

	"github.com/stretchr/testify/require"
)

func character(id string, class game.CharacterClassType, x, y int) game.Character {
	stats, _ := Stats(class)
	return game.Character{
		ID:       id,
		Position: game.Position{X: x, Y: y},
		IsZombie: class == game.Zombie,
		Class:    class,
		Health:   stats.Health,
	}
}

func terrain(id string, kind game.TerrainType, x, y, health int, attackThrough bool) game.Terrain {
	return game.Terrain{
		ID:               id,
		Position:         game.Position{X: x, Y: y},
		Health:           health,
		CanAttackThrough: attackThrough,
		Type:             kind,
	}
}

func gameState(turn int, characters []game.Character, terrains ...game.Terrain) *game.GameState {
	gs := game.NewGameState(turn)
	for _, c := range characters {
		gs.Characters[c.ID] = c
	}
	for _, t := range terrains {
		gs.Terrains[t.ID] = t
	}
	return gs
}

func newState(t *testing.T, turn int, phase Phase, characters []game.Character, terrains ...game.Terrain) *State {
	t.Helper()
	s, err := New(gameState(turn, characters, terrains...), nil, phase)
	require.NoError(t, err)
	return s
}

func manhattan(a, b game.Position) int {
	dx, dy := a.X-b.X, a.Y-b.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}
