package barplot_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/derickschaefer/forecast/internal/barplot"
	"github.com/derickschaefer/forecast/internal/config"
)

// plainPlotter draws into a 12×30 canvas with a five-row half axis and
// three-column bars, so that values up to 5 scale one-to-one.
func plainPlotter(buf *bytes.Buffer) *barplot.Plotter {
	p := config.DefaultPlot()
	p.Height = 5
	p.Bar.Width = 3
	return &barplot.Plotter{Config: p, Out: buf, Rows: 12, Cols: 30}
}

func outputLines(buf *bytes.Buffer) []string {
	return strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
}

// ─── Labeled ──────────────────────────────────────────────────────────────────

func TestLabeledPlain(t *testing.T) {
	var buf bytes.Buffer
	if err := plainPlotter(&buf).Labeled([]float64{-3, 0, 5}, []string{"a", "b", "c"}, barplot.RoleBar); err != nil {
		t.Fatalf("Labeled: %v", err)
	}
	lines := outputLines(&buf)

	// Column = 15 - 11/2 = 10, Row = 6 - 5 = 1; the blank first row is dropped.
	if len(lines) != 11 {
		t.Fatalf("expected 11 lines, got %d:\n%s", len(lines), buf.String())
	}
	checks := map[int]string{
		0:  "    5.0 |         ███",
		5:  "    0.0 + a   b   c",
		6:  "        | ███",
		8:  "        | ███",
		9:  "        |",
		10: "   -5.0 |",
	}
	for i, want := range checks {
		if lines[i] != want {
			t.Errorf("line %d:\nexpected %q\n     got %q", i, want, lines[i])
		}
	}
}

func TestLegendSymmetric(t *testing.T) {
	var buf bytes.Buffer
	// Only positive data: the axis still spans ±maxAbs.
	if err := plainPlotter(&buf).Labeled([]float64{1.5, 2.25}, nil, barplot.RoleBar); err != nil {
		t.Fatalf("Labeled: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "2.2 |") && !strings.Contains(out, "2.3 |") {
		t.Errorf("missing top label:\n%s", out)
	}
	if !strings.Contains(out, "-2.2 |") && !strings.Contains(out, "-2.3 |") {
		t.Errorf("missing bottom label:\n%s", out)
	}
	if !strings.Contains(out, "0.0 +") {
		t.Errorf("missing baseline label:\n%s", out)
	}
}

func TestIndexedLabels(t *testing.T) {
	var buf bytes.Buffer
	if err := plainPlotter(&buf).Indexed([]float64{1, 2, 3}); err != nil {
		t.Fatalf("Indexed: %v", err)
	}
	lines := outputLines(&buf)
	if lines[5] != "    0.0 + 00  01  02" {
		t.Errorf("baseline row: got %q", lines[5])
	}
}

func TestLabelsTruncatedToBarWidth(t *testing.T) {
	var buf bytes.Buffer
	if err := plainPlotter(&buf).Labeled([]float64{1, 2}, []string{"Monday", "Tuesday"}, barplot.RoleBar); err != nil {
		t.Fatalf("Labeled: %v", err)
	}
	if strings.Contains(buf.String(), "Mond") {
		t.Errorf("label wider than a bar:\n%s", buf.String())
	}
}

func TestAllZeroDrawsAxisOnly(t *testing.T) {
	var buf bytes.Buffer
	if err := plainPlotter(&buf).Labeled([]float64{0, 0, 0}, []string{"x", "y", "z"}, barplot.RoleBar); err != nil {
		t.Fatalf("Labeled: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "█") {
		t.Errorf("all-zero input should draw no bars:\n%s", out)
	}
	if !strings.Contains(out, "0.0 + x   y   z") {
		t.Errorf("axis and labels expected:\n%s", out)
	}
	if strings.Contains(out, "-0.0") {
		t.Errorf("zero extreme should not be signed:\n%s", out)
	}
	lines := outputLines(&buf)
	if lines[0] != "    0.0 |" || lines[len(lines)-1] != "    0.0 |" {
		t.Errorf("extremes: got %q and %q", lines[0], lines[len(lines)-1])
	}
}

func TestLabeledLengthMismatch(t *testing.T) {
	var buf bytes.Buffer
	err := plainPlotter(&buf).Labeled([]float64{1, 2, 3}, []string{"a"}, barplot.RoleBar)
	if !errors.Is(err, barplot.ErrLengthMismatch) {
		t.Fatalf("expected ErrLengthMismatch, got %v", err)
	}
	if buf.Len() != 0 {
		t.Error("nothing should be drawn on a length mismatch")
	}
}

func TestCapacityTruncates(t *testing.T) {
	var buf bytes.Buffer
	p := plainPlotter(&buf)
	p.Capacity = 2
	if err := p.Labeled([]float64{1, 2, 3, 4}, []string{"a", "b", "c", "d"}, barplot.RoleBar); err != nil {
		t.Fatalf("Labeled: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "a   b") || strings.Contains(out, "c") {
		t.Errorf("expected exactly two bars:\n%s", out)
	}
}

func TestInvalidColour(t *testing.T) {
	var buf bytes.Buffer
	p := plainPlotter(&buf)
	p.Config.Bar.Color = "not-a-colour"
	if err := p.Indexed([]float64{1}); err == nil {
		t.Fatal("expected an error for an unknown colour")
	}
}

// ─── Overlaid ─────────────────────────────────────────────────────────────────

func TestOverlaidLengthMismatch(t *testing.T) {
	var buf bytes.Buffer
	err := plainPlotter(&buf).Overlaid([]float64{1, 2}, []float64{1}, nil)
	if !errors.Is(err, barplot.ErrLengthMismatch) {
		t.Fatalf("expected ErrLengthMismatch, got %v", err)
	}
}

func TestOverlaidPlain(t *testing.T) {
	var buf bytes.Buffer
	if err := plainPlotter(&buf).Overlaid([]float64{5, 2}, []float64{1, -2}, []string{"a", "b"}); err != nil {
		t.Fatalf("Overlaid: %v", err)
	}
	lines := outputLines(&buf)
	// Column = 15 - 7/2 = 12; axis at 10.
	if lines[0] != "      5.0 | ███" {
		t.Errorf("top row: got %q", lines[0])
	}
	// Overlay cells are shaded so they stay apart from the primary bars.
	if lines[4] != "          | ▒▒▒ ███" {
		t.Errorf("row above baseline: got %q", lines[4])
	}
	if lines[5] != "      0.0 + a   b" {
		t.Errorf("baseline row: got %q", lines[5])
	}
	if lines[7] != "          |     ▒▒▒" {
		t.Errorf("second row below baseline: got %q", lines[7])
	}
}

func TestOverlaidPlainSharedColour(t *testing.T) {
	var buf bytes.Buffer
	p := plainPlotter(&buf)
	p.Config.Bar.OverlayColor = p.Config.Bar.Color
	if err := p.Overlaid([]float64{5, 2}, []float64{1, -2}, []string{"a", "b"}); err != nil {
		t.Fatalf("Overlaid: %v", err)
	}
	if out := buf.String(); strings.Contains(out, "▒") {
		t.Errorf("one colour should draw one glyph:\n%s", out)
	}
}
