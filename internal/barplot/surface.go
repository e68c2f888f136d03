package barplot

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Surface is anything cells can be painted on. tcell.Screen satisfies it.
type Surface interface {
	SetContent(x, y int, mainc rune, combc []rune, style tcell.Style)
	Size() (width, height int)
}

// put paints one cell, skipping cells outside the surface.
func put(s Surface, x, y int, r rune, style tcell.Style) {
	w, h := s.Size()
	if x < 0 || y < 0 || x >= w || y >= h {
		return
	}
	s.SetContent(x, y, r, nil, style)
}

// puts writes str starting at column x and returns the column after it.
func puts(s Surface, x, y int, str string, style tcell.Style) int {
	for _, r := range str {
		put(s, x, y, r, style)
		x += runewidth.RuneWidth(r)
	}
	return x
}

// ─── Canvas ───────────────────────────────────────────────────────────────────

// Canvas is an in-memory Surface used for plain (non-interactive) output.
// Blank cells painted with a background other than Base are bar cells and are
// written as Fill, or as Shades[bg] when the background has its own glyph.
type Canvas struct {
	Base   tcell.Color
	Fill   rune
	Shades map[tcell.Color]rune

	width, height int
	runes         [][]rune
	styles        [][]tcell.Style
}

// NewCanvas returns a blank width×height canvas.
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{
		Base:   tcell.ColorDefault,
		Fill:   '█',
		width:  width,
		height: height,
		runes:  make([][]rune, height),
		styles: make([][]tcell.Style, height),
	}
	for y := range c.runes {
		c.runes[y] = []rune(strings.Repeat(" ", width))
		c.styles[y] = make([]tcell.Style, width)
		for x := range c.styles[y] {
			c.styles[y][x] = tcell.StyleDefault
		}
	}
	return c
}

func (c *Canvas) SetContent(x, y int, mainc rune, _ []rune, style tcell.Style) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return
	}
	c.runes[y][x] = mainc
	c.styles[y][x] = style
}

func (c *Canvas) Size() (int, int) {
	return c.width, c.height
}

// Cell returns the rune and style at x, y.
func (c *Canvas) Cell(x, y int) (rune, tcell.Style) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return ' ', tcell.StyleDefault
	}
	return c.runes[y][x], c.styles[y][x]
}

// Lines renders the canvas as text, one string per row, trailing blanks
// trimmed and leading/trailing empty rows dropped.
func (c *Canvas) Lines() []string {
	lines := make([]string, 0, c.height)
	for y := 0; y < c.height; y++ {
		var sb strings.Builder
		for x := 0; x < c.width; x++ {
			r, st := c.runes[y][x], c.styles[y][x]
			if r == ' ' {
				if _, bg, _ := st.Decompose(); bg != c.Base && bg != tcell.ColorDefault {
					r = c.Fill
					if shade, ok := c.Shades[bg]; ok {
						r = shade
					}
				}
			}
			sb.WriteRune(r)
		}
		lines = append(lines, strings.TrimRight(sb.String(), " "))
	}
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// WriteTo writes the rendered lines to w.
func (c *Canvas) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	for _, line := range c.Lines() {
		k, err := bw.WriteString(line + "\n")
		n += int64(k)
		if err != nil {
			return n, err
		}
	}
	return n, bw.Flush()
}

// termSize returns the terminal size from $LINES and $COLUMNS, defaulting
// to 24×80.
func termSize() (rows, cols int) {
	rows, cols = 24, 80
	if v, err := strconv.Atoi(os.Getenv("LINES")); err == nil && v > 0 {
		rows = v
	}
	if v, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && v > 20 {
		cols = v
	}
	return rows, cols
}
