package viz

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/sandbox/internal/clock"
	"github.com/san-kum/sandbox/internal/config"
	"github.com/san-kum/sandbox/internal/logging"
	"github.com/san-kum/sandbox/internal/physics"
	"github.com/san-kum/sandbox/internal/sim"
)

const (
	defaultTermWidth  = 120
	defaultTermHeight = 32
	historyCapacity   = 300
	trailCapacity     = 200
)

type TickMsg time.Time

// Options configures the live view.
type Options struct {
	Scene  string
	Config *config.Config
	Theme  string
	Log    *slog.Logger
	// Pacer overrides the wall-clock pacer built from Config.Run.
	Pacer  *clock.Pacer
}

// Model runs a world at the configured frame rate and draws it on a Braille
// canvas. Arrow keys push the controlled body and a left click spawns a new
// body at the pointer.
type Model struct {
	scene    string
	cfg      *config.Config
	log      *slog.Logger
	world    *sim.World
	pacer    *clock.Pacer
	vp       Viewport
	canvas   *Canvas
	theme    Theme
	styles   styles
	running  bool
	showHelp bool
	energy   []float64
	trail    []physics.Vec2
	lastDt   float64
	termW    int
	termH    int
}

func NewModel(opts Options) (Model, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	log := opts.Log
	if log == nil {
		log = logging.Discard()
	}
	scene := opts.Scene
	if scene == "" {
		scene = "sandbox"
	}

	w, err := sim.FromConfig(cfg, nil, log)
	if err != nil {
		return Model{}, err
	}

	pacer := opts.Pacer
	if pacer == nil {
		pacer = clock.NewPacer(cfg.Run.FPS, cfg.Run.MaxDt)
	}

	theme := GetTheme(opts.Theme)
	m := Model{
		scene:   scene,
		cfg:     cfg,
		log:     log,
		world:   w,
		pacer:   pacer,
		theme:   theme,
		styles:  newStyles(theme),
		running: true,
		energy:  make([]float64, 0, historyCapacity),
		trail:   make([]physics.Vec2, 0, trailCapacity),
	}
	m.resize(defaultTermWidth, defaultTermHeight)
	return m, nil
}

// World exposes the running world, mainly for tests.
func (m Model) World() *sim.World { return m.world }

func (m Model) Init() tea.Cmd {
	m.pacer.Reset()
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.pacer.Budget(), func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and steps the world.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case TickMsg:
		dt := m.pacer.Since()
		if m.running {
			m.step(dt)
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ", "space":
		m.running = !m.running
		if m.running {
			m.pacer.Reset()
		}
	case "r":
		m.reset()
	case "left", "a":
		m.push(sim.Left)
	case "right", "d":
		m.push(sim.Right)
	case "up", "w":
		m.push(sim.Up)
	case "down", "s":
		m.push(sim.Down)
	case "tab":
		if n := m.world.Len(); n > 0 {
			_ = m.world.SetControlled((m.world.Controlled() + 1) % n)
			m.trail = m.trail[:0]
		}
	case "t":
		m.theme = NextTheme(m.theme)
		m.styles = newStyles(m.theme)
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

// push is dropped while paused so pushes do not pile up for the next frame.
func (m *Model) push(d sim.Direction) {
	if m.running {
		m.world.Submit(sim.Push(d))
	}
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return
	}
	p, ok := m.vp.CellToWorld(msg.X-canvasOffset, msg.Y-canvasOffset)
	if !ok {
		return
	}
	m.world.Submit(sim.Spawn(p.X, p.Y))
}

func (m *Model) step(dt float64) {
	m.world.Step(dt)
	m.lastDt = dt

	f := m.world.Snapshot()
	var ke float64
	for _, b := range f.Bodies {
		ke += b.KineticEnergy()
		if b.Controlled {
			m.trail = append(m.trail, b.Position)
		}
	}
	m.energy = append(m.energy, ke)
	if len(m.energy) > historyCapacity {
		m.energy = m.energy[1:]
	}
	if len(m.trail) > trailCapacity {
		m.trail = m.trail[1:]
	}
}

// reset rebuilds the world from the starting configuration.
func (m *Model) reset() {
	w, err := sim.FromConfig(m.cfg, nil, m.log)
	if err != nil {
		m.log.Error("reset failed", "error", err)
		return
	}
	m.world = w
	m.energy = m.energy[:0]
	m.trail = m.trail[:0]
	m.pacer.Reset()
	m.resize(m.termW, m.termH)
}

func (m *Model) resize(width, height int) {
	m.termW, m.termH = width, height
	m.vp = FitViewport(m.world.Bounds(), width-statsWidth-2*canvasOffset, height-2*canvasOffset)
	m.canvas = NewCanvas(m.vp.Cols, m.vp.Rows)
}

// View renders the canvas with the stats panel beside it.
func (m Model) View() string {
	f := m.world.Snapshot()
	scene := Scene{Frame: f, Trail: m.trail}
	if m.world.Forces().DragEnabled {
		scene.Liquid = m.world.Liquid()
	}
	Render(m.canvas, m.vp, scene)
	canvasView := m.styles.canvas.Render(m.canvas.String())

	st := m.styles
	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(m.scene)) + "\n")
	if m.running {
		s.WriteString(st.active.Render("RUNNING") + "\n")
	} else {
		s.WriteString(st.paused.Render("PAUSED") + "\n")
	}

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Kinetic energy"))
		s.WriteString(st.graph.Render(chart) + "\n")
	}

	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", f.Time))
	row("Frame", fmt.Sprintf("%d", f.Index))
	row("dt", fmt.Sprintf("%.1fms", m.lastDt*1000))
	row("Bodies", fmt.Sprintf("%d", len(f.Bodies)))
	row("Bounces", fmt.Sprintf("%d", f.Bounces))
	if c := m.world.Controlled(); c < len(f.Bodies) {
		b := f.Bodies[c]
		row("Controlled", fmt.Sprintf("#%d %s", c, b.Shape.Kind))
		row("Position", fmt.Sprintf("(%.0f, %.0f)", b.Position.X, b.Position.Y))
		row("Velocity", fmt.Sprintf("(%.0f, %.0f)", b.Velocity.X, b.Velocity.Y))
	}

	s.WriteString(st.help.Render(Separator(statsWidth-4) + "\nSP:Pause R:Reset Q:Quit\n←↑→↓:Push  Click:Spawn\nTab:Body  T:Theme  ?:Help"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.stats.Render(s.String()))

	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  R        - Reset scene              ║
║  Q        - Quit                     ║
║  Arrows   - Push (ignored if paused) ║
║  WASD     - Push controlled body     ║
║  Tab      - Control next body        ║
║  Click    - Spawn a body             ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

// Run starts the live view full screen with mouse reporting.
func Run(opts Options) error {
	m, err := NewModel(opts)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
