// Package util provides shared utilities: unit conversion, location parsing,
// label truncation and error collection.
package util

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// ─── Unit Conversion ──────────────────────────────────────────────────────────

// FahrenheitToCelsius converts °F to °C.
func FahrenheitToCelsius(f float64) float64 {
	return (f - 32.0) * 5.0 / 9.0
}

// MPHToKPH converts miles per hour to kilometres per hour.
func MPHToKPH(mph float64) float64 {
	return mph * 1.609344
}

// compassPoints are the 16-wind compass names, clockwise from north.
var compassPoints = [...]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// Bearing maps a wind bearing in degrees to a 16-point compass name.
// NaN bearings (calm wind, field absent) return "-".
func Bearing(deg float64) string {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return "-"
	}
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	idx := int(math.Floor(deg/22.5+0.5)) % len(compassPoints)
	return compassPoints[idx]
}

// ─── Location Parsing ─────────────────────────────────────────────────────────

// ParseLocation parses a "<latitude>:<longitude>" string.
func ParseLocation(s string) (lat, lon float64, err error) {
	la, lo, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, 0, fmt.Errorf("invalid location %q: expected <latitude>:<longitude>", s)
	}
	lat, err = strconv.ParseFloat(strings.TrimSpace(la), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid latitude %q", la)
	}
	lon, err = strconv.ParseFloat(strings.TrimSpace(lo), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid longitude %q", lo)
	}
	if lat < -90 || lat > 90 {
		return 0, 0, fmt.Errorf("latitude %g out of range [-90, 90]", lat)
	}
	if lon < -180 || lon > 180 {
		return 0, 0, fmt.Errorf("longitude %g out of range [-180, 180]", lon)
	}
	return lat, lon, nil
}

// ─── Labels ───────────────────────────────────────────────────────────────────

// Truncate cuts s to at most width terminal columns. Wide runes count double.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "")
}

// ─── Error Helpers ────────────────────────────────────────────────────────────

// MultiError collects multiple errors and presents them as one.
type MultiError struct {
	Errors []error
}

func (m *MultiError) Add(err error) {
	if err != nil {
		m.Errors = append(m.Errors, err)
	}
}

func (m *MultiError) Err() error {
	if len(m.Errors) == 0 {
		return nil
	}
	return m
}

func (m *MultiError) Error() string {
	msgs := make([]string, len(m.Errors))
	for i, e := range m.Errors {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}
