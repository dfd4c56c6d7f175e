package client

import (
	"net/http/httptest"
	"testing"

	"outbreak/communication/server"
	"outbreak/game"
	"outbreak/searcher"
	"outbreak/sim"
	"outbreak/strategy"

	"github.com/stretchr/testify/require"
)

func skirmish() *game.GameState {
	gs := game.NewGameState(0)
	gs.Characters["h"] = game.Character{ID: "h", Position: game.Position{X: 10, Y: 10}, Class: game.Marksman, Health: 1}
	gs.Characters["z"] = game.Character{ID: "z", Position: game.Position{X: 12, Y: 10}, IsZombie: true, Class: game.Zombie, Health: 1}
	return gs
}

func TestClient(t *testing.T) {
	remote := server.NewServer(strategy.New(searcher.NewMCTS(searcher.WithEpisodes(50)), nil))
	ts := httptest.NewServer(remote.Handler())
	defer ts.Close()
	c := NewClient(ts.URL, 0)

	t.Run("classes", func(t *testing.T) {
		got := c.DecideCharacterClasses(game.CharacterClasses, 8, 5)
		require.Equal(t, map[game.CharacterClassType]int{game.Marksman: 5, game.Traceur: 3}, got)
	})

	t.Run("a full turn", func(t *testing.T) {
		gs := skirmish()
		state, err := sim.New(gs, nil, sim.MovePhase)
		require.NoError(t, err)
		possible := map[string][]game.MoveAction{}
		for _, m := range state.Enumerate().Moves {
			possible[m.CharacterID] = append(possible[m.CharacterID], m)
		}

		moves := c.DecideMoves(nil, possible, gs)
		require.NotEmpty(t, moves)
		for _, m := range moves {
			require.Contains(t, possible[m.CharacterID], m)
		}

		state, err = state.Advance(sim.Actions{Moves: moves})
		require.NoError(t, err)
		attacks := map[string][]game.AttackAction{}
		for _, a := range state.Enumerate().Attacks {
			attacks[a.CharacterID] = append(attacks[a.CharacterID], a)
		}
		for _, a := range c.DecideAttacks(nil, attacks, gs) {
			require.Contains(t, attacks[a.CharacterID], a)
		}
		require.Empty(t, c.DecideAbilities(nil, map[string][]game.AbilityAction{}, gs))
	})
}

func TestClientFailsClosed(t *testing.T) {
	ts := httptest.NewServer(server.NewServer(strategy.New(searcher.NewMCTS(searcher.WithEpisodes(5)), nil)).Handler())
	url := ts.URL
	ts.Close()
	c := NewClient(url, 0)

	require.Nil(t, c.DecideCharacterClasses(game.CharacterClasses, 4, 4))
	require.Nil(t, c.DecideMoves(nil, map[string][]game.MoveAction{}, skirmish()))

	t.Run("rejected state", func(t *testing.T) {
		ts := httptest.NewServer(server.NewServer(strategy.New(searcher.NewMCTS(searcher.WithEpisodes(5)), nil)).Handler())
		defer ts.Close()
		gs := skirmish()
		gs.Turn = -1

		require.Nil(t, NewClient(ts.URL, 0).DecideMoves(nil, map[string][]game.MoveAction{}, gs))
	})
}
