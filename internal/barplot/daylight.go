package barplot

import (
	"math"

	"github.com/mattn/go-runewidth"
)

// MinutesPerDay is the fixed domain daylight bars are scaled over.
const MinutesPerDay = 1440

// Day is one row of the daylight plot. Sunrise and Sunset are minutes since
// local midnight.
type Day struct {
	Label        string
	Sunrise      float64
	Sunset       float64
	SunriseLabel string
	SunsetLabel  string
}

// Span is a daylight interval in bar columns, [Start, End).
type Span struct {
	Start, End int
}

// DaylightWidth returns the bar width for a terminal cols wide: frac of the
// width, capped at max, never below one column.
func DaylightWidth(cols int, frac float64, max int) int {
	w := int(frac * float64(cols))
	if w > max {
		w = max
	}
	if w < 1 {
		w = 1
	}
	return w
}

// ScaleDaylight maps each day's sunrise and sunset onto barWidth columns.
// The scale is fixed to a whole day: midnight and the following midnight are
// scaled along with the data so that 1440 minutes span the full bar.
func ScaleDaylight(days []Day, barWidth int) []Span {
	values := make([]float64, 0, 2*len(days)+2)
	for _, d := range days {
		values = append(values, clampMinutes(d.Sunrise), clampMinutes(d.Sunset))
	}
	values = append(values, 0, MinutesPerDay)

	res := Scale(values, barWidth)
	spans := make([]Span, len(days))
	for i := range days {
		start, end := res.Heights[2*i], res.Heights[2*i+1]
		if end < start {
			// sunset falls after the next local midnight
			end = barWidth
		}
		spans[i] = Span{Start: start, End: end}
	}
	return spans
}

// drawDaylight draws one row per day, vertically centred: the day label, the
// whole day as a dotted track, the daylight interval on top of it, then the
// sunrise and sunset labels.
func drawDaylight(s Surface, rows, cols int, days []Day, barWidth int, st Styles) {
	spans := ScaleDaylight(days, barWidth)

	labelW, riseW, setW := 0, 0, 0
	for _, d := range days {
		labelW = maxInt(labelW, runewidth.StringWidth(d.Label))
		riseW = maxInt(riseW, runewidth.StringWidth(d.SunriseLabel))
		setW = maxInt(setW, runewidth.StringWidth(d.SunsetLabel))
	}

	total := labelW + 1 + barWidth + 1 + riseW + 1 + setW
	dx := (cols - total) / 2
	dy := (rows - len(days)) / 2

	legend, light := st.Of(RoleLegend), st.Of(RoleDaylight)
	for i, d := range days {
		y := dy + i
		puts(s, dx, y, d.Label, legend)

		bx := dx + labelW + 1
		for x := bx; x < bx+barWidth; x++ {
			put(s, x, y, '·', legend)
		}
		for x := bx + spans[i].Start; x < bx+spans[i].End; x++ {
			put(s, x, y, '█', light)
		}

		tx := bx + barWidth + 1
		puts(s, tx, y, d.SunriseLabel, legend)
		puts(s, tx+riseW+1, y, d.SunsetLabel, legend)
	}
}

func clampMinutes(m float64) float64 {
	if math.IsNaN(m) {
		return 0
	}
	return math.Max(0, math.Min(MinutesPerDay, m))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
