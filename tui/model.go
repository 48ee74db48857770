package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tilemerge/tilemerge/game/engine"
	"github.com/tilemerge/tilemerge/game/service"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	winStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("82"))

	stuckStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	emptyCellStyle = lipgloss.NewStyle().
			Width(6).
			Align(lipgloss.Center).
			Foreground(lipgloss.Color("238"))
)

// tileColors maps tile values to terminal colors, roughly warm as
// values grow. Values past 2048 reuse the hottest color.
var tileColors = map[engine.Tile]lipgloss.Color{
	2:    lipgloss.Color("252"),
	4:    lipgloss.Color("230"),
	8:    lipgloss.Color("222"),
	16:   lipgloss.Color("216"),
	32:   lipgloss.Color("209"),
	64:   lipgloss.Color("202"),
	128:  lipgloss.Color("227"),
	256:  lipgloss.Color("226"),
	512:  lipgloss.Color("220"),
	1024: lipgloss.Color("214"),
	2048: lipgloss.Color("208"),
}

func tileStyle(v engine.Tile) lipgloss.Style {
	color, ok := tileColors[v]
	if !ok {
		color = lipgloss.Color("208")
	}
	return lipgloss.NewStyle().
		Width(6).
		Align(lipgloss.Center).
		Bold(true).
		Foreground(color)
}

// Model is the interactive game screen.
type Model struct {
	svc        service.GameService
	sessionID  string
	configName string
	state      *engine.GameState

	keys     keyMap
	width    int
	height   int
	err      error
	quitting bool
}

// NewModel creates a Model bound to an existing session.
func NewModel(svc service.GameService, sessionID string, state *engine.GameState) Model {
	return Model{
		svc:        svc,
		sessionID:  sessionID,
		configName: state.ConfigName,
		state:      state,
		keys:       defaultKeyMap(),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Up):
			return m.move("up"), nil
		case key.Matches(msg, m.keys.Down):
			return m.move("down"), nil
		case key.Matches(msg, m.keys.Left):
			return m.move("left"), nil
		case key.Matches(msg, m.keys.Right):
			return m.move("right"), nil

		case key.Matches(msg, m.keys.New), key.Matches(msg, m.keys.Reset):
			state, err := m.svc.Reset(context.Background(), m.sessionID)
			if err != nil {
				m.err = err
				return m, nil
			}
			m.state = state
			m.err = nil
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

func (m Model) move(direction string) Model {
	result, err := m.svc.Move(context.Background(), m.sessionID, direction)
	if err != nil {
		m.err = err
		return m
	}
	m.state = result.GameState
	m.err = nil
	return m
}

func (m Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Tile Merge"))
	if m.configName != "" {
		b.WriteString(statusStyle.Render(fmt.Sprintf("  [%s]", m.configName)))
	}
	b.WriteString("\n\n")

	if m.state == nil {
		b.WriteString(errorStyle.Render("No game loaded"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(m.renderBoard())
	b.WriteString("\n")

	b.WriteString(statusStyle.Render(fmt.Sprintf("Moves: %d   Max tile: %d", m.state.Moves, m.state.MaxTile)))
	b.WriteString("\n")

	if m.state.GameOver {
		b.WriteString("\n")
		if m.state.Won {
			b.WriteString(winStyle.Render("You win!"))
		} else {
			b.WriteString(stuckStyle.Render("No moves left."))
		}
		b.WriteString("\n")
	} else if m.state.Message != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(m.state.Message))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("arrows/hjkl/wasd: slide  n: new game  q: quit"))
	b.WriteString("\n")

	return b.String()
}

func (m Model) renderBoard() string {
	var b strings.Builder
	grid := m.state.Grid
	for row := 0; row < grid.Rows(); row++ {
		for col := 0; col < grid.Cols(); col++ {
			v := grid.At(row, col)
			if v == engine.Empty {
				b.WriteString(emptyCellStyle.Render("·"))
			} else {
				b.WriteString(tileStyle(v).Render(fmt.Sprintf("%d", v)))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Run creates a session on svc and drives the interactive game loop
// until the player quits.
func Run(svc service.GameService, configName string) error {
	info, err := svc.CreateSession(context.Background(), configName)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	model := NewModel(svc, info.ID, info.GameState)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
