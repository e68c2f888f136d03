// Package barplot renders numeric series as vertical character-cell bar charts
// centred in the terminal. It knows nothing about weather: callers hand it
// values, labels and a plot configuration.
//
// Each plot call is one synchronous cycle: scale the values, open a terminal
// session, compute the geometry from the live screen size, draw the axis and
// the bars, then block until a key is pressed and restore the terminal.
//
// Three bar variants share one renderer:
//
//   - Labeled: one series, caller-supplied labels (nil labels ⇒ "00", "01", …)
//   - Overlaid: two series on one shared scale, drawn from the same baseline
//   - Indexed: one series with positional labels
//
// Daylight draws horizontal day-length bars instead.
package barplot

import (
	"errors"
	"fmt"
	"io"

	"github.com/derickschaefer/forecast/internal/config"
)

var (
	// ErrNoTerminal is returned when no display surface can be acquired.
	ErrNoTerminal = errors.New("barplot: no terminal available")
	// ErrLengthMismatch is returned when parallel inputs differ in length.
	ErrLengthMismatch = errors.New("barplot: series and labels differ in length")
)

// Plotter draws plots for one plot configuration.
type Plotter struct {
	Config config.Plot
	// Capacity caps the number of bar positions drawn; 0 means no cap.
	Capacity int
	// NewScreen creates the session screen; nil means tcell.NewScreen.
	NewScreen ScreenFactory
	// Out switches to plain mode: the plot is drawn into a Canvas of
	// Rows×Cols and written to Out, without a session or key wait. Zero
	// Rows/Cols are taken from $LINES/$COLUMNS.
	Out        io.Writer
	Rows, Cols int
}

// New returns a Plotter for p drawing to the terminal.
func New(p config.Plot) *Plotter {
	return &Plotter{Config: p}
}

// Labeled plots one series, one bar per value, coloured by role. labels must
// be as long as values or nil for positional labels.
func (p *Plotter) Labeled(values []float64, labels []string, role Role) error {
	if labels != nil && len(labels) != len(values) {
		return fmt.Errorf("%w: %d values, %d labels", ErrLengthMismatch, len(values), len(labels))
	}
	values, labels = p.clip(values), p.clipLabels(labels)
	res := Scale(values, p.Config.Height)
	return p.drawBarPlot(res.MaxAbs, singleBars(res.Heights, labels, role))
}

// Indexed plots one series with positional labels "00", "01", ….
func (p *Plotter) Indexed(values []float64) error {
	return p.Labeled(values, nil, RoleBar)
}

// Overlaid plots two series sharing one axis, e.g. daily maxima over minima.
// Both series are scaled together; the overlay series paints over the primary
// one where they meet.
func (p *Plotter) Overlaid(primary, overlay []float64, labels []string) error {
	if len(primary) != len(overlay) {
		return fmt.Errorf("%w: %d primary, %d overlay values", ErrLengthMismatch, len(primary), len(overlay))
	}
	if labels != nil && len(labels) != len(primary) {
		return fmt.Errorf("%w: %d values, %d labels", ErrLengthMismatch, len(primary), len(labels))
	}
	primary, overlay, labels = p.clip(primary), p.clip(overlay), p.clipLabels(labels)
	res, hp, ho := ScaleOverlay(primary, overlay, p.Config.Height)
	return p.drawBarPlot(res.MaxAbs, overlaidBars(hp, ho, labels))
}

// Daylight plots one horizontal bar per day showing the daylight interval
// within the whole day.
func (p *Plotter) Daylight(days []Day) error {
	if p.Capacity > 0 && len(days) > p.Capacity {
		days = days[:p.Capacity]
	}
	dl := p.Config.Daylight
	return p.run(func(s Surface, rows, cols int, st Styles) {
		width := DaylightWidth(cols, dl.WidthFrac, dl.WidthMax)
		drawDaylight(s, rows, cols, days, width, st)
	})
}

func (p *Plotter) drawBarPlot(maxAbs float64, bars []bar) error {
	height, width := p.Config.Height, p.Config.Bar.Width
	return p.run(func(s Surface, rows, cols int, st Styles) {
		geo := Origin(rows, cols, len(bars), width, height)
		drawLegend(s, geo, height, maxAbs, st)
		drawBars(s, geo, height, width, bars, st)
	})
}

// run resolves styles, acquires a surface, draws on it and releases it. The
// terminal size is read after acquisition, on every call.
func (p *Plotter) run(draw func(s Surface, rows, cols int, st Styles)) error {
	st, err := NewStyles(p.Config)
	if err != nil {
		return err
	}

	if p.Out != nil {
		rows, cols := termSize()
		if p.Rows > 0 {
			rows = p.Rows
		}
		if p.Cols > 0 {
			cols = p.Cols
		}
		c := NewCanvas(cols, rows)
		c.Base = st.Base
		c.Shades = st.plainShades()
		draw(c, rows, cols, st)
		_, err := c.WriteTo(p.Out)
		return err
	}

	sess, err := OpenSession(p.NewScreen)
	if err != nil {
		return err
	}
	defer sess.Close()

	rows, cols := sess.Size()
	draw(sess.Surface(), rows, cols, st)
	sess.Wait()
	return nil
}

func (p *Plotter) clip(values []float64) []float64 {
	if p.Capacity > 0 && len(values) > p.Capacity {
		return values[:p.Capacity]
	}
	return values
}

func (p *Plotter) clipLabels(labels []string) []string {
	if labels == nil {
		return nil
	}
	if p.Capacity > 0 && len(labels) > p.Capacity {
		return labels[:p.Capacity]
	}
	return labels
}
