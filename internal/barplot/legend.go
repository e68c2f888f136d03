package barplot

import "fmt"

const (
	tickGlyph     = '|'
	baselineGlyph = '+'
	barGlyph      = ' '
	overlayGlyph  = '▒'
)

// drawLegend draws the vertical axis two columns left of the first bar. The
// baseline carries "0.0"; the extremes carry ±maxAbs, so the axis is always
// symmetric around zero whatever the data's real minimum. Zero is never signed.
func drawLegend(s Surface, geo Geometry, height int, maxAbs float64, st Styles) {
	axis := geo.Column - 2
	top := fmt.Sprintf("%.1f", maxAbs)
	bottom := top
	if maxAbs > 0 {
		bottom = "-" + top
	}

	for y := geo.Row; y <= geo.Row+2*height; y++ {
		switch y {
		case geo.Baseline(height):
			put(s, axis, y, baselineGlyph, st.Of(RoleHighlight))
			puts(s, geo.Column-6, y, "0.0", st.Of(RoleLegend))
		case geo.Row:
			put(s, axis, y, tickGlyph, st.Of(RoleLegend))
			puts(s, geo.Column-(len(top)+3), y, top, st.Of(RoleLegend))
		case geo.Row + 2*height:
			put(s, axis, y, tickGlyph, st.Of(RoleLegend))
			puts(s, geo.Column-(len(bottom)+3), y, bottom, st.Of(RoleLegend))
		default:
			put(s, axis, y, tickGlyph, st.Of(RoleLegend))
		}
	}
}
