package barplot

// Geometry anchors a plot on the screen. Row is the top of the axis; the zero
// baseline is Row+height. Column is the first column of the first bar.
type Geometry struct {
	Column int
	Row    int
}

// Origin centres n bars of barWidth columns, separated by one blank column,
// in a rows×cols terminal, with height rows above and below the baseline.
func Origin(rows, cols, n, barWidth, height int) Geometry {
	return Geometry{
		Column: cols/2 - (n*(barWidth+1)-1)/2,
		Row:    rows/2 - height,
	}
}

// Baseline returns the row of the zero baseline.
func (g Geometry) Baseline(height int) int {
	return g.Row + height
}

// BarColumn returns the first column of bar i.
func (g Geometry) BarColumn(i, barWidth int) int {
	return g.Column + i*(barWidth+1)
}
