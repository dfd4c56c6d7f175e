package viewer

import (
	"fmt"
	"strings"
	"time"

	"outbreak/game"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	defaultWidth  = 60
	defaultHeight = 30
	panStep       = 5
	playInterval  = 300 * time.Millisecond
)

// Glyphs drawn for every kind of tile.
const (
	emptyGlyph     = '.'
	humanGlyph     = 'H'
	zombieGlyph    = 'Z'
	stunnedGlyph   = 'z'
	wallGlyph      = '#'
	barricadeGlyph = '+'
	treeGlyph      = 'T'
	riverGlyph     = '~'
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87")).Bold(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#AFAFAF"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")).Italic(true)
	boardStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#444444"))

	glyphStyles = map[rune]lipgloss.Style{
		emptyGlyph:     lipgloss.NewStyle().Foreground(lipgloss.Color("#3A3A3A")),
		humanGlyph:     lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD75F")).Bold(true),
		zombieGlyph:    lipgloss.NewStyle().Foreground(lipgloss.Color("#D70000")).Bold(true),
		stunnedGlyph:   lipgloss.NewStyle().Foreground(lipgloss.Color("#AF5F5F")),
		wallGlyph:      lipgloss.NewStyle().Foreground(lipgloss.Color("#BCBCBC")),
		barricadeGlyph: lipgloss.NewStyle().Foreground(lipgloss.Color("#D7AF5F")),
		treeGlyph:      lipgloss.NewStyle().Foreground(lipgloss.Color("#008700")),
		riverGlyph:     lipgloss.NewStyle().Foreground(lipgloss.Color("#5F87FF")),
	}
)

type tickMsg time.Time

type model struct {
	frames  []*game.GameState
	current int
	playing bool
	// Top left tile of the visible window
	origin game.Position
	width  int
	height int
}

// New returns a viewer over the frames of one match, centered on the humans
// of the first frame.
func New(frames []*game.GameState) tea.Model {
	m := model{frames: frames, width: defaultWidth, height: defaultHeight}
	if len(frames) > 0 {
		m.origin = m.centerOn(frames[0])
	}
	return m
}

// Run replays the frames until the user quits.
func Run(frames []*game.GameState) error {
	if len(frames) == 0 {
		return fmt.Errorf("nothing to replay")
	}
	_, err := tea.NewProgram(New(frames), tea.WithAltScreen()).Run()
	return err
}

func tick() tea.Cmd {
	return tea.Tick(playInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			return m, tea.Quit
		case "right", "l", "n":
			m.step(1)
		case "left", "h", "p":
			m.step(-1)
		case "home", "g":
			m.current = 0
		case "end", "G":
			m.current = m.last()
		case "w", "up":
			m.pan(0, -panStep)
		case "s", "down":
			m.pan(0, panStep)
		case "a":
			m.pan(-panStep, 0)
		case "d":
			m.pan(panStep, 0)
		case "c":
			if frame := m.frame(); frame != nil {
				m.origin = m.centerOn(frame)
			}
		case " ":
			m.playing = !m.playing
			if m.playing {
				return m, tick()
			}
		}
	case tickMsg:
		if !m.playing {
			return m, nil
		}
		if m.current >= m.last() {
			m.playing = false
			return m, nil
		}
		m.step(1)
		return m, tick()
	case tea.WindowSizeMsg:
		// Leave room for the border, title, status and help lines
		m.width = clamp(msg.Width-2, 1, game.BoardSize)
		m.height = clamp(msg.Height-6, 1, game.BoardSize)
		m.pan(0, 0)
	}
	return m, nil
}

func (m model) View() string {
	frame := m.frame()
	if frame == nil {
		return "No frames to replay.\n"
	}

	rows := m.grid(frame)
	lines := make([]string, len(rows))
	for i, row := range rows {
		var b strings.Builder
		for _, glyph := range row {
			b.WriteString(glyphStyles[glyph].Render(string(glyph)))
		}
		lines[i] = b.String()
	}

	humans, zombies := frame.Counts()
	status := fmt.Sprintf("frame %d/%d  turn %d  humans %d  zombies %d  view %v",
		m.current+1, len(m.frames), frame.Turn, humans, zombies, m.origin)
	if m.playing {
		status += "  playing"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("outbreak replay"),
		boardStyle.Render(strings.Join(lines, "\n")),
		statusStyle.Render(status),
		helpStyle.Render("←/→ step  space play  g/G first/last  wasd pan  c center  q quit"),
	) + "\n"
}

func (m model) frame() *game.GameState {
	if len(m.frames) == 0 {
		return nil
	}
	return m.frames[m.current]
}

func (m model) last() int {
	return max(len(m.frames)-1, 0)
}

func (m *model) step(delta int) {
	m.current = clamp(m.current+delta, 0, m.last())
}

func (m *model) pan(dx, dy int) {
	m.origin = game.Position{
		X: clamp(m.origin.X+dx, 0, game.BoardSize-m.width),
		Y: clamp(m.origin.Y+dy, 0, game.BoardSize-m.height),
	}
}

// centerOn returns the origin that puts the humans of the frame in the
// middle of the window, or the zombies once every human has turned.
func (m model) centerOn(frame *game.GameState) game.Position {
	humans, _ := frame.Counts()
	sumX, sumY, n := 0, 0, 0
	for _, c := range frame.Characters {
		if humans > 0 && c.IsZombie {
			continue
		}
		sumX += c.Position.X
		sumY += c.Position.Y
		n++
	}
	if n == 0 {
		return game.Position{}
	}
	return game.Position{
		X: clamp(sumX/n-m.width/2, 0, game.BoardSize-m.width),
		Y: clamp(sumY/n-m.height/2, 0, game.BoardSize-m.height),
	}
}

// grid draws the visible window of the frame. Characters are drawn over
// terrain and destroyed terrain is drawn as empty ground.
func (m model) grid(frame *game.GameState) [][]rune {
	rows := make([][]rune, m.height)
	for y := range rows {
		rows[y] = []rune(strings.Repeat(string(emptyGlyph), m.width))
	}
	draw := func(p game.Position, glyph rune) {
		x, y := p.X-m.origin.X, p.Y-m.origin.Y
		if x < 0 || x >= m.width || y < 0 || y >= m.height {
			return
		}
		rows[y][x] = glyph
	}

	for _, t := range frame.Terrains {
		if t.Health > 0 {
			draw(t.Position, terrainGlyph(t.Type))
		}
	}
	for _, c := range frame.Characters {
		draw(c.Position, characterGlyph(c))
	}
	return rows
}

func terrainGlyph(t game.TerrainType) rune {
	switch t {
	case game.Wall:
		return wallGlyph
	case game.Barricade:
		return barricadeGlyph
	case game.Tree:
		return treeGlyph
	case game.River:
		return riverGlyph
	}
	return emptyGlyph
}

func characterGlyph(c game.Character) rune {
	switch {
	case c.IsZombie && c.IsStunned:
		return stunnedGlyph
	case c.IsZombie:
		return zombieGlyph
	}
	return humanGlyph
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
