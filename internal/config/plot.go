package config

import (
	"fmt"

	"github.com/derickschaefer/forecast/internal/util"
)

// Plot holds everything the bar-plot engine and the series adapters read.
// The same struct is the "plot" object of config.json.
type Plot struct {
	// Height is the number of rows above and below the zero baseline.
	Height int `json:"height"`
	// Opaque paints the unset side of every colour pair black instead of
	// leaving the terminal's own default colour.
	Opaque bool `json:"opaque,omitempty"`

	Bar           BarStyle      `json:"bar"`
	Legend        LegendStyle   `json:"legend"`
	Precipitation PrecipStyle   `json:"precipitation"`
	Daylight      DaylightStyle `json:"daylight"`
	Hourly        HourlyStyle   `json:"hourly"`
	Daily         DailyStyle    `json:"daily"`
}

type BarStyle struct {
	Width        int    `json:"width"`
	Color        string `json:"color"`
	OverlayColor string `json:"overlay_color"`
}

type LegendStyle struct {
	Color              string `json:"color"`
	TextHighlightColor string `json:"texthighlight_color"`
}

type PrecipStyle struct {
	BarColor string `json:"bar_color"`
}

// DaylightStyle configures the daylight plot. The bar spans WidthFrac of the
// terminal width, never more than WidthMax columns.
type DaylightStyle struct {
	Color           string  `json:"color"`
	WidthFrac       float64 `json:"width_frac"`
	WidthMax        int     `json:"width_max"`
	DateLabelFormat string  `json:"date_label_format"`
	TimeLabelFormat string  `json:"time_label_format"`
}

// HourlyStyle configures the hourly plots. LabelFormat is a Go time layout.
type HourlyStyle struct {
	SucceedingHours int    `json:"succeeding_hours"`
	LabelFormat     string `json:"label_format"`
}

// DailyStyle configures the daily plots. LabelFormat is a Go time layout.
type DailyStyle struct {
	LabelFormat string `json:"label_format"`
}

// DefaultPlot returns the built-in plot settings.
func DefaultPlot() Plot {
	return Plot{
		Height: 10,
		Bar: BarStyle{
			Width:        3,
			Color:        "red",
			OverlayColor: "blue",
		},
		Legend: LegendStyle{
			Color:              "white",
			TextHighlightColor: "yellow",
		},
		Precipitation: PrecipStyle{BarColor: "teal"},
		Daylight: DaylightStyle{
			Color:           "yellow",
			WidthFrac:       0.5,
			WidthMax:        72,
			DateLabelFormat: "Mon 02",
			TimeLabelFormat: "15:04",
		},
		Hourly: HourlyStyle{
			SucceedingHours: 24,
			LabelFormat:     "15",
		},
		Daily: DailyStyle{LabelFormat: "Mon"},
	}
}

// Validate checks sizes and colour names. Every problem found is reported.
func (p Plot) Validate() error {
	var errs util.MultiError
	if p.Height <= 0 {
		errs.Add(fmt.Errorf("plot.height must be positive, got %d", p.Height))
	}
	if p.Bar.Width <= 0 {
		errs.Add(fmt.Errorf("plot.bar.width must be positive, got %d", p.Bar.Width))
	}
	if p.Hourly.SucceedingHours < 0 {
		errs.Add(fmt.Errorf("plot.hourly.succeeding_hours must not be negative, got %d", p.Hourly.SucceedingHours))
	}
	if p.Daylight.WidthFrac <= 0 || p.Daylight.WidthFrac > 1 {
		errs.Add(fmt.Errorf("plot.daylight.width_frac must be in (0, 1], got %g", p.Daylight.WidthFrac))
	}
	if p.Daylight.WidthMax <= 0 {
		errs.Add(fmt.Errorf("plot.daylight.width_max must be positive, got %d", p.Daylight.WidthMax))
	}
	for key, name := range map[string]string{
		"plot.bar.color":                  p.Bar.Color,
		"plot.bar.overlay_color":          p.Bar.OverlayColor,
		"plot.legend.color":               p.Legend.Color,
		"plot.legend.texthighlight_color": p.Legend.TextHighlightColor,
		"plot.precipitation.bar_color":    p.Precipitation.BarColor,
		"plot.daylight.color":             p.Daylight.Color,
	} {
		if _, err := ParseColor(name); err != nil {
			errs.Add(fmt.Errorf("%s: %w", key, err))
		}
	}
	return errs.Err()
}
