package barplot_test

import (
	"errors"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/derickschaefer/forecast/internal/barplot"
	"github.com/derickschaefer/forecast/internal/config"
)

// keyScreen is a simulation screen of a fixed size that has a key press
// queued as soon as it is initialised, and keeps what was on it when the
// session finished.
type keyScreen struct {
	tcell.SimulationScreen
	rows, cols int
	inits      int
	cells      []tcell.SimCell
	width      int
}

func newKeyScreen(rows, cols int) *keyScreen {
	return &keyScreen{SimulationScreen: tcell.NewSimulationScreen("UTF-8"), rows: rows, cols: cols}
}

func (k *keyScreen) Init() error {
	if err := k.SimulationScreen.Init(); err != nil {
		return err
	}
	k.inits++
	k.SetSize(k.cols, k.rows)
	k.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)
	return nil
}

func (k *keyScreen) Fini() {
	cells, w, _ := k.GetContents()
	k.cells = append([]tcell.SimCell(nil), cells...)
	k.width = w
	k.SimulationScreen.Fini()
}

func (k *keyScreen) factory() barplot.ScreenFactory {
	return func() (tcell.Screen, error) { return k, nil }
}

func (k *keyScreen) at(x, y int) (rune, tcell.Style) {
	c := k.cells[y*k.width+x]
	if len(c.Runes) == 0 {
		return ' ', c.Style
	}
	return c.Runes[0], c.Style
}

func background(st tcell.Style) tcell.Color {
	_, bg, _ := st.Decompose()
	return bg
}

func foreground(st tcell.Style) tcell.Color {
	fg, _, _ := st.Decompose()
	return fg
}

func screenPlotter(k *keyScreen) *barplot.Plotter {
	p := config.DefaultPlot()
	p.Height = 5
	p.Bar.Width = 3
	return &barplot.Plotter{Config: p, NewScreen: k.factory()}
}

// ─── Session ──────────────────────────────────────────────────────────────────

func TestSessionDrawsAndRestores(t *testing.T) {
	k := newKeyScreen(12, 30)
	if err := screenPlotter(k).Labeled([]float64{-3, 0, 5}, []string{"a", "b", "c"}, barplot.RoleBar); err != nil {
		t.Fatalf("Labeled: %v", err)
	}
	if k.inits != 1 {
		t.Fatalf("expected one Init, got %d", k.inits)
	}
	if k.cells == nil {
		t.Fatal("screen was never finalised")
	}

	// Bar c grows up from the baseline (row 6) to row 1 at columns 18–20.
	for y := 1; y <= 5; y++ {
		if _, st := k.at(18, y); background(st) != tcell.ColorRed {
			t.Errorf("cell (18,%d): expected red bar", y)
		}
	}
	if _, st := k.at(18, 0); background(st) == tcell.ColorRed {
		t.Error("bar c drawn above the axis top")
	}
	// Bar a grows down three rows at columns 10–12.
	for y := 7; y <= 9; y++ {
		if _, st := k.at(12, y); background(st) != tcell.ColorRed {
			t.Errorf("cell (12,%d): expected red bar", y)
		}
	}
	if _, st := k.at(12, 10); background(st) == tcell.ColorRed {
		t.Error("bar a drawn past its height")
	}

	r, st := k.at(8, 6)
	if r != '+' {
		t.Errorf("baseline axis glyph: expected '+', got %q", r)
	}
	if foreground(st) != tcell.ColorYellow {
		t.Errorf("baseline highlight: expected yellow, got %v", foreground(st))
	}
	if r, _ := k.at(10, 6); r != 'a' {
		t.Errorf("label a: got %q", r)
	}
	if r, _ := k.at(8, 3); r != '|' {
		t.Errorf("axis tick: got %q", r)
	}
}

func TestSessionOverlayPaintsLast(t *testing.T) {
	k := newKeyScreen(12, 30)
	if err := screenPlotter(k).Overlaid([]float64{4, 2}, []float64{1, -2}, nil); err != nil {
		t.Fatalf("Overlaid: %v", err)
	}
	// factor 1.25, column 12: bar 0 primary rows 1..5, overlay row 5.
	if _, st := k.at(12, 5); background(st) != tcell.ColorBlue {
		t.Error("overlay should paint over the primary segment")
	}
	if _, st := k.at(12, 4); background(st) != tcell.ColorRed {
		t.Error("primary segment above the overlay should stay red")
	}
	// Bar 1 overlay goes below the baseline.
	if _, st := k.at(16, 8); background(st) != tcell.ColorBlue {
		t.Error("negative overlay should extend below the baseline")
	}
}

func TestSessionSequentialPlots(t *testing.T) {
	for i := 0; i < 2; i++ {
		k := newKeyScreen(12, 30)
		if err := screenPlotter(k).Indexed([]float64{1, 2}); err != nil {
			t.Fatalf("plot %d: %v", i, err)
		}
	}
}

func TestSessionFactoryError(t *testing.T) {
	boom := errors.New("no tty")
	p := &barplot.Plotter{
		Config:    config.DefaultPlot(),
		NewScreen: func() (tcell.Screen, error) { return nil, boom },
	}
	err := p.Indexed([]float64{1, 2, 3})
	if !errors.Is(err, barplot.ErrNoTerminal) {
		t.Fatalf("expected ErrNoTerminal, got %v", err)
	}

	// The lock must have been released.
	k := newKeyScreen(12, 30)
	if err := screenPlotter(k).Indexed([]float64{1}); err != nil {
		t.Fatalf("plot after failure: %v", err)
	}
}

type failingInit struct {
	tcell.SimulationScreen
}

func (failingInit) Init() error { return errors.New("terminal not a tty") }

func TestSessionInitError(t *testing.T) {
	_, err := barplot.OpenSession(func() (tcell.Screen, error) {
		return failingInit{tcell.NewSimulationScreen("UTF-8")}, nil
	})
	if !errors.Is(err, barplot.ErrNoTerminal) {
		t.Fatalf("expected ErrNoTerminal, got %v", err)
	}
}

func TestSessionCloseTwice(t *testing.T) {
	k := newKeyScreen(10, 20)
	sess, err := barplot.OpenSession(k.factory())
	if err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	rows, cols := sess.Size()
	if rows != 10 || cols != 20 {
		t.Errorf("Size: expected 10×20, got %d×%d", rows, cols)
	}
	sess.Close()
	sess.Close()
	sess.Wait()
}
