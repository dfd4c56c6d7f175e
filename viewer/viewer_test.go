package viewer

import (
	"testing"
	"time"

	"outbreak/game"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

func frames(n int) []*game.GameState {
	var fs []*game.GameState
	for turn := 0; turn < n; turn++ {
		gs := game.NewGameState(turn)
		gs.Characters["h"] = game.Character{ID: "h", Position: game.Position{X: 2 + turn, Y: 3}, Class: game.Normal, Health: 1}
		gs.Characters["z"] = game.Character{ID: "z", Position: game.Position{X: 5, Y: 5}, IsZombie: true, Class: game.Zombie, Health: 1, IsStunned: turn == 1}
		gs.Terrains["w"] = game.Terrain{ID: "w", Position: game.Position{X: 0, Y: 0}, Health: 5, Type: game.Wall}
		gs.Terrains["r"] = game.Terrain{ID: "r", Position: game.Position{X: 1, Y: 0}, Health: 1, CanAttackThrough: true, Type: game.River}
		gs.Terrains["b"] = game.Terrain{ID: "b", Position: game.Position{X: 2, Y: 0}, Health: 0, Type: game.Barricade}
		fs = append(fs, gs)
	}
	return fs
}

func key(s string) tea.KeyMsg {
	switch s {
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m tea.Model, keys ...string) (model, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		m, cmd = m.Update(key(k))
	}
	return m.(model), cmd
}

func TestStepping(t *testing.T) {
	t.Run("steps within the recorded frames", func(t *testing.T) {
		m, _ := press(New(frames(3)), "right", "right", "right")
		require.Equal(t, 2, m.current, "Stepping should stop at the last frame")

		m, _ = press(m, "left", "left", "left")
		require.Zero(t, m.current)

		m, _ = press(m, "G")
		require.Equal(t, 2, m.current)
		m, _ = press(m, "g")
		require.Zero(t, m.current)
	})

	t.Run("quits", func(t *testing.T) {
		for _, k := range []string{"q", "esc"} {
			_, cmd := press(New(frames(1)), k)
			require.NotNil(t, cmd)
			require.IsType(t, tea.QuitMsg{}, cmd())
		}
	})

	t.Run("plays until the last frame", func(t *testing.T) {
		m, cmd := press(New(frames(2)), " ")
		require.True(t, m.playing)
		require.NotNil(t, cmd)

		next, cmd := m.Update(tickMsg(time.Now()))
		m = next.(model)
		require.Equal(t, 1, m.current)
		require.NotNil(t, cmd)

		next, cmd = m.Update(tickMsg(time.Now()))
		m = next.(model)
		require.False(t, m.playing)
		require.Nil(t, cmd)
	})

	t.Run("ticks are ignored when paused", func(t *testing.T) {
		m := New(frames(2))
		next, cmd := m.Update(tickMsg(time.Now()))
		require.Zero(t, next.(model).current)
		require.Nil(t, cmd)
	})
}

func TestGrid(t *testing.T) {
	m := New(frames(2)).(model)
	require.Equal(t, game.Position{}, m.origin, "The window cannot start off the board")

	rows := m.grid(m.frames[0])

	require.Len(t, rows, defaultHeight)
	require.Len(t, rows[0], defaultWidth)
	require.Equal(t, "#~..", string(rows[0][:4]), "Destroyed terrain should be drawn as ground")
	require.Equal(t, humanGlyph, rows[3][2])
	require.Equal(t, zombieGlyph, rows[5][5])

	require.Equal(t, stunnedGlyph, m.grid(m.frames[1])[5][5])
}

func TestPan(t *testing.T) {
	m, _ := press(New(frames(1)), "d", "s")
	require.Equal(t, game.Position{X: panStep, Y: panStep}, m.origin)
	require.Equal(t, zombieGlyph, m.grid(m.frames[0])[0][0], "The zombie at (5, 5) should be the new top left tile")

	m, _ = press(m, "a", "a", "w", "w")
	require.Equal(t, game.Position{}, m.origin, "Panning should stay on the board")

	next, _ := m.Update(tea.WindowSizeMsg{Width: 500, Height: 500})
	m = next.(model)
	require.Equal(t, game.BoardSize, m.width)
	require.Equal(t, game.BoardSize, m.height)
	m, _ = press(m, "d")
	require.Equal(t, game.Position{}, m.origin, "A full board window cannot pan")
}

func TestView(t *testing.T) {
	view := New(frames(3)).View()
	require.Contains(t, view, "frame 1/3")
	require.Contains(t, view, "turn 0")
	require.Contains(t, view, "humans 1  zombies 1")

	require.Contains(t, New(nil).View(), "No frames")
	require.Error(t, Run(nil))
}
