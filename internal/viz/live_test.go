package viz

import (
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/sandbox/internal/clock"
	"github.com/san-kum/sandbox/internal/config"
)

// steppingClock advances 10ms on every read.
func steppingClock() func() time.Time {
	t := time.Unix(0, 0)
	return func() time.Time {
		t = t.Add(10 * time.Millisecond)
		return t
	}
}

func newTestModel(t *testing.T, cfg *config.Config) Model {
	t.Helper()
	if cfg == nil {
		cfg = config.DefaultConfig()
		cfg.Forces.Attraction = config.AttractionNone
	}
	m, err := NewModel(Options{
		Scene:  "test",
		Config: cfg,
		Pacer:  clock.NewPacerWithClock(60, 0.016, steppingClock(), func(time.Duration) {}),
	})
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func key(s string) tea.KeyMsg {
	switch s {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestLiveTickStepsWorld(t *testing.T) {
	m := newTestModel(t, nil)

	m, cmd := update(t, m, TickMsg{})
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
	if m.World().Frame() != 1 {
		t.Errorf("frame = %d, want 1", m.World().Frame())
	}
	if math.Abs(m.World().Elapsed()-0.01) > 1e-9 {
		t.Errorf("elapsed = %v, want 0.01", m.World().Elapsed())
	}
}

func TestLivePauseStopsStepping(t *testing.T) {
	m := newTestModel(t, nil)

	m, _ = update(t, m, key(" "))
	m, _ = update(t, m, TickMsg{})
	if m.World().Frame() != 0 {
		t.Errorf("paused world advanced to frame %d", m.World().Frame())
	}
	if !strings.Contains(m.View(), "PAUSED") {
		t.Error("view should show PAUSED")
	}

	m, _ = update(t, m, key(" "))
	m, _ = update(t, m, TickMsg{})
	if m.World().Frame() != 1 {
		t.Errorf("resumed world at frame %d, want 1", m.World().Frame())
	}
}

func TestLiveArrowPushesControlledBody(t *testing.T) {
	m := newTestModel(t, nil)

	m, _ = update(t, m, key("right"))
	m, _ = update(t, m, TickMsg{})

	b, err := m.World().Body(0)
	if err != nil {
		t.Fatal(err)
	}
	if b.Velocity.X <= 0 {
		t.Errorf("velocity.x = %v, want positive", b.Velocity.X)
	}
	if b.Velocity.Y != 0 {
		t.Errorf("velocity.y = %v, want 0", b.Velocity.Y)
	}
}

func TestLivePushWhilePausedIsDropped(t *testing.T) {
	m := newTestModel(t, nil)

	m, _ = update(t, m, key(" "))
	for i := 0; i < 5; i++ {
		m, _ = update(t, m, key("right"))
	}
	m, _ = update(t, m, key(" "))
	m, _ = update(t, m, TickMsg{})

	b, err := m.World().Body(0)
	if err != nil {
		t.Fatal(err)
	}
	if !b.Velocity.IsZero() {
		t.Errorf("velocity = %v, pushes made while paused should be dropped", b.Velocity)
	}
}

func TestLiveTabCyclesControl(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = update(t, m, key("tab"))
	if m.World().Controlled() != 1 {
		t.Errorf("controlled = %d, want 1", m.World().Controlled())
	}
	m, _ = update(t, m, key("tab"))
	if m.World().Controlled() != 0 {
		t.Errorf("controlled = %d, want 0", m.World().Controlled())
	}
}

func TestLiveClickSpawnsAtPointer(t *testing.T) {
	m := newTestModel(t, nil)
	want, ok := m.vp.CellToWorld(10, 5)
	if !ok {
		t.Fatal("cell should map into the world")
	}

	m, _ = update(t, m, tea.MouseMsg{
		X:      10 + canvasOffset,
		Y:      5 + canvasOffset,
		Button: tea.MouseButtonLeft,
		Action: tea.MouseActionPress,
	})
	if m.World().Len() != 2 {
		t.Fatal("spawn must wait for the next frame")
	}
	m, _ = update(t, m, TickMsg{})

	if m.World().Len() != 3 {
		t.Fatalf("Len() = %d, want 3", m.World().Len())
	}
	b, _ := m.World().Body(2)
	// spawned this frame, so it has moved at most one step from the click
	if d := b.Position.Sub(want).Len(); d > b.Velocity.Len()*0.01+1e-9 {
		t.Errorf("spawned at %v, clicked %v", b.Position, want)
	}
}

func TestLiveClickOutsideCanvasIgnored(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = update(t, m, tea.MouseMsg{X: 500, Y: 500, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	m, _ = update(t, m, tea.MouseMsg{X: 5, Y: 5, Button: tea.MouseButtonRight, Action: tea.MouseActionPress})
	m, _ = update(t, m, TickMsg{})
	if m.World().Len() != 2 {
		t.Errorf("Len() = %d, want 2", m.World().Len())
	}
}

func TestLiveReset(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = update(t, m, TickMsg{})
	m, _ = update(t, m, TickMsg{})

	m, _ = update(t, m, key("r"))
	if m.World().Frame() != 0 {
		t.Errorf("frame after reset = %d", m.World().Frame())
	}
}

func TestLiveQuit(t *testing.T) {
	m := newTestModel(t, nil)
	_, cmd := update(t, m, key("q"))
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestLiveResize(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80 + statsWidth + 2, Height: 32})
	if m.vp.Cols > 80 || m.vp.Rows > 30 {
		t.Errorf("viewport %dx%d exceeds the terminal", m.vp.Cols, m.vp.Rows)
	}
	if m.canvas.Width != m.vp.Cols || m.canvas.Height != m.vp.Rows {
		t.Error("canvas does not match viewport")
	}
}

func TestLiveView(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = update(t, m, TickMsg{})
	m, _ = update(t, m, TickMsg{})

	out := m.View()
	for _, want := range []string{"TEST", "RUNNING", "Bodies", "Bounces"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}

	m, _ = update(t, m, key("?"))
	if !strings.Contains(m.View(), "KEYBOARD SHORTCUTS") {
		t.Error("help overlay missing")
	}
}

func TestMenuStartsPreset(t *testing.T) {
	var mdl tea.Model = NewMenu(Options{Pacer: clock.NewPacerWithClock(60, 0.016, steppingClock(), func(time.Duration) {})})
	if !strings.Contains(mdl.View(), "reference") {
		t.Error("menu should list presets")
	}

	mdl, _ = mdl.Update(key("down"))
	mdl, cmd := mdl.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("starting a scene should schedule a tick")
	}

	mn := mdl.(menu)
	if mn.state != stateSim {
		t.Fatal("menu did not switch to the live view")
	}
	if mn.live.scene != mn.scenes[1] {
		t.Errorf("started %q, want %q", mn.live.scene, mn.scenes[1])
	}
}
