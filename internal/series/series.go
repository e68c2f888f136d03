// Package series turns a decoded forecast into plot input: value slices,
// fixed-width labels and daylight rows. Time stamps are rendered in the
// forecast's own time zone.
package series

import (
	"time"

	"github.com/derickschaefer/forecast/internal/barplot"
	"github.com/derickschaefer/forecast/internal/config"
	"github.com/derickschaefer/forecast/internal/model"
	"github.com/derickschaefer/forecast/internal/util"
)

const (
	// MaxHourly is the number of hourly slots a plot can hold.
	MaxHourly = 48
	// Days is the number of days on the daily temperature plot.
	Days = 7
)

// Series is one plot's worth of values and their labels.
type Series struct {
	Values []float64
	Labels []string
}

// Overlay is a pair of series sharing labels, e.g. daily maxima and minima.
type Overlay struct {
	Primary []float64
	Overlay []float64
	Labels  []string
}

// HourlyTemperature returns the current hour plus SucceedingHours, in °C.
func HourlyTemperature(f *model.Forecast, p config.Plot) Series {
	pts := hourly(f, p)
	conv := celsius(f)
	s := Series{Values: make([]float64, len(pts)), Labels: make([]string, len(pts))}
	loc := f.Location()
	for i, pt := range pts {
		s.Values[i] = conv(pt.Temperature)
		s.Labels[i] = label(pt, loc, p.Hourly.LabelFormat, p.Bar.Width)
	}
	return s
}

// HourlyPrecipitation returns precipitation probability in percent for the
// same hours as HourlyTemperature.
func HourlyPrecipitation(f *model.Forecast, p config.Plot) Series {
	pts := hourly(f, p)
	loc := f.Location()
	s := Series{Values: make([]float64, len(pts)), Labels: make([]string, len(pts))}
	for i, pt := range pts {
		s.Values[i] = pt.PrecipProbability * 100
		s.Labels[i] = label(pt, loc, p.Hourly.LabelFormat, p.Bar.Width)
	}
	return s
}

// DailyPrecipitation returns precipitation probability in percent per day.
func DailyPrecipitation(f *model.Forecast, p config.Plot) Series {
	pts := f.Daily.Data
	loc := f.Location()
	s := Series{Values: make([]float64, len(pts)), Labels: make([]string, len(pts))}
	for i, pt := range pts {
		s.Values[i] = pt.PrecipProbability * 100
		s.Labels[i] = label(pt, loc, p.Daily.LabelFormat, p.Bar.Width)
	}
	return s
}

// DailyTemperature returns daily maxima over minima in °C for up to Days days.
func DailyTemperature(f *model.Forecast, p config.Plot) Overlay {
	pts := f.Daily.Data
	if len(pts) > Days {
		pts = pts[:Days]
	}
	conv := celsius(f)
	loc := f.Location()
	o := Overlay{
		Primary: make([]float64, len(pts)),
		Overlay: make([]float64, len(pts)),
		Labels:  make([]string, len(pts)),
	}
	for i, pt := range pts {
		o.Primary[i] = conv(pt.TemperatureMax)
		o.Overlay[i] = conv(pt.TemperatureMin)
		o.Labels[i] = label(pt, loc, p.Daily.LabelFormat, p.Bar.Width)
	}
	return o
}

// Daylight returns one row per day with sunrise and sunset as minutes since
// that day's local midnight. Days without a sunrise (polar night) have an
// empty interval.
func Daylight(f *model.Forecast, p config.Plot) []barplot.Day {
	loc := f.Location()
	dl := p.Daylight
	days := make([]barplot.Day, 0, len(f.Daily.Data))
	for _, pt := range f.Daily.Data {
		t := pt.At(loc)
		midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
		d := barplot.Day{Label: t.Format(dl.DateLabelFormat), SunriseLabel: "-", SunsetLabel: "-"}
		if pt.SunriseTime != 0 && pt.SunsetTime != 0 {
			rise := time.Unix(pt.SunriseTime, 0).In(loc)
			set := time.Unix(pt.SunsetTime, 0).In(loc)
			d.Sunrise = rise.Sub(midnight).Minutes()
			d.Sunset = set.Sub(midnight).Minutes()
			d.SunriseLabel = rise.Format(dl.TimeLabelFormat)
			d.SunsetLabel = set.Format(dl.TimeLabelFormat)
		}
		days = append(days, d)
	}
	return days
}

// hourly returns the current hour plus SucceedingHours, capped at MaxHourly
// and at the data available.
func hourly(f *model.Forecast, p config.Plot) []model.DataPoint {
	n := p.Hourly.SucceedingHours + 1
	if n > MaxHourly {
		n = MaxHourly
	}
	if n > len(f.Hourly.Data) {
		n = len(f.Hourly.Data)
	}
	if n < 0 {
		n = 0
	}
	return f.Hourly.Data[:n]
}

// celsius returns the conversion from the forecast's temperature unit to °C.
func celsius(f *model.Forecast) func(float64) float64 {
	if f.ImperialUnits() {
		return util.FahrenheitToCelsius
	}
	return func(v float64) float64 { return v }
}

func label(pt model.DataPoint, loc *time.Location, layout string, width int) string {
	return util.Truncate(pt.At(loc).Format(layout), width)
}
