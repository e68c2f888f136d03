package barplot

import (
	"fmt"

	"github.com/derickschaefer/forecast/internal/util"
)

// segment is one coloured run of a bar, in signed rows from the baseline.
type segment struct {
	height int
	role   Role
}

// bar is one labelled bar position. Overlay plots carry two segments that
// share the baseline; later segments paint over earlier ones.
type bar struct {
	label    string
	segments []segment
}

// drawBars paints each bar from the baseline outward: up for positive
// heights, down for negative ones. Labels sit on the baseline row at the
// bar's first column.
func drawBars(s Surface, geo Geometry, height, width int, bars []bar, st Styles) {
	baseline := geo.Baseline(height)
	for i, b := range bars {
		x0 := geo.BarColumn(i, width)
		puts(s, x0, baseline, util.Truncate(b.label, width), st.Of(RoleLegend))

		for _, seg := range b.segments {
			step := -1
			if seg.height < 0 {
				step = 1
			}
			style := st.Of(seg.role)
			for k := 1; k <= abs(seg.height); k++ {
				y := baseline + step*k
				for x := x0; x < x0+width; x++ {
					put(s, x, y, barGlyph, style)
				}
			}
		}
	}
}

// singleBars pairs scaled heights with labels. Missing labels fall back to
// the two-digit position.
func singleBars(heights []int, labels []string, role Role) []bar {
	bars := make([]bar, len(heights))
	for i, h := range heights {
		bars[i] = bar{
			label:    labelAt(labels, i),
			segments: []segment{{height: h, role: role}},
		}
	}
	return bars
}

// overlaidBars pairs two height sets position by position.
func overlaidBars(primary, overlay []int, labels []string) []bar {
	bars := make([]bar, len(primary))
	for i := range primary {
		bars[i] = bar{
			label: labelAt(labels, i),
			segments: []segment{
				{height: primary[i], role: RoleBar},
				{height: overlay[i], role: RoleOverlay},
			},
		}
	}
	return bars
}

func labelAt(labels []string, i int) string {
	if labels == nil {
		return fmt.Sprintf("%02d", i)
	}
	return labels[i]
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
