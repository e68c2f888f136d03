package barplot

import "math"

// ScaleResult is the outcome of fitting a value set into a fixed number of
// character rows. It is recomputed for every plot.
type ScaleResult struct {
	// Factor converts a raw value into signed rows. Zero when the value set
	// has no magnitude (empty or all zeros).
	Factor float64
	// Heights holds one signed row count per input value.
	Heights []int
	// MaxAbs and MinAbs are the largest and smallest absolute values seen.
	MaxAbs float64
	MinAbs float64
}

// Scale fits values into height rows on either side of zero. Every value is
// scaled relative to the set's own largest magnitude and rounded toward zero,
// so no bar is ever longer than height.
//
// A set without magnitude scales to all-zero heights; non-finite values are
// treated as zero.
func Scale(values []float64, height int) ScaleResult {
	res := ScaleResult{Heights: make([]int, len(values))}
	if len(values) == 0 {
		return res
	}

	res.MinAbs = math.Inf(1)
	for _, v := range values {
		m := math.Abs(finite(v))
		if m > res.MaxAbs {
			res.MaxAbs = m
		}
		if m < res.MinAbs {
			res.MinAbs = m
		}
	}
	if res.MaxAbs == 0 {
		return res
	}

	res.Factor = float64(height) / res.MaxAbs
	for i, v := range values {
		res.Heights[i] = towardZero(finite(v) * res.Factor)
	}
	return res
}

// ScaleOverlay scales two series on one shared axis: the largest magnitude is
// taken over both sets together. The returned heights are split back per
// series.
func ScaleOverlay(primary, overlay []float64, height int) (ScaleResult, []int, []int) {
	joined := make([]float64, 0, len(primary)+len(overlay))
	joined = append(joined, primary...)
	joined = append(joined, overlay...)
	res := Scale(joined, height)
	return res, res.Heights[:len(primary)], res.Heights[len(primary):]
}

func towardZero(m float64) int {
	switch {
	case m < 0:
		return int(math.Ceil(m))
	case m > 0:
		return int(math.Floor(m))
	default:
		return 0
	}
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
