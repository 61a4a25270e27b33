package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/sandbox/internal/config"
)

var sceneInfo = map[string]string{
	"reference": "two attracting bodies",
	"gravity":   "falling and bouncing",
	"liquid":    "drag in the lower half",
	"friction":  "sliding to rest",
	"cluster":   "all-pairs attraction",
}

const (
	stateMenu = iota
	stateSim
)

// menu picks a preset scene and hands over to the live view.
type menu struct {
	state  int
	cursor int
	scenes []string
	opts   Options
	live   Model
	width  int
	height int
	err    error
}

func NewMenu(opts Options) *menu {
	return &menu{
		state:  stateMenu,
		scenes: config.ListPresets(),
		opts:   opts,
		width:  defaultTermWidth,
		height: defaultTermHeight,
	}
}

func (m menu) Init() tea.Cmd { return nil }

func (m menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == stateSim {
		if ws, ok := msg.(tea.WindowSizeMsg); ok {
			m.width, m.height = ws.Width, ws.Height
		}
		next, cmd := m.live.Update(msg)
		m.live = next.(Model)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.scenes)-1 {
				m.cursor++
			}
		case "enter", " ":
			return m.start()
		}
	}
	return m, nil
}

func (m menu) start() (tea.Model, tea.Cmd) {
	name := m.scenes[m.cursor]
	opts := m.opts
	opts.Scene = name
	opts.Config = config.GetPreset(name)

	live, err := NewModel(opts)
	if err != nil {
		m.err = err
		return m, nil
	}
	live.resize(m.width, m.height)
	m.live = live
	m.state = stateSim
	return m, m.live.Init()
}

func (m menu) View() string {
	if m.state == stateSim {
		return m.live.View()
	}

	title := lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	sub := lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	cursor := lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	selected := lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	desc := lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	key := lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)

	var b strings.Builder
	b.WriteString("\n\n    " + title.Render("SANDBOX") + "\n    " + sub.Render("2d physics playground") + "\n    " + sub.Render(Separator(25)) + "\n\n")
	for i, name := range m.scenes {
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", cursor.Render("▸"), selected.Render(fmt.Sprintf("%-12s", name)), desc.Render(sceneInfo[name])))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n", dim.Render(fmt.Sprintf("%-12s", name)), dim.Render(sceneInfo[name])))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444")).Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + key.Render("j/k") + dim.Render(" navigate  ") + key.Render("enter") + dim.Render(" select  ") + key.Render("q") + dim.Render(" quit") + "\n")
	return b.String()
}

// RunMenu shows the scene picker, then the live view for the chosen scene.
func RunMenu(opts Options) error {
	_, err := tea.NewProgram(NewMenu(opts), tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
