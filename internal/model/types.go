// Package model defines the canonical data types used throughout forecast.
// They mirror the forecast.io response document; only the fields the plots
// and reports read are decoded.
package model

import (
	"time"
)

// ─── Forecast Document ────────────────────────────────────────────────────────

// Forecast is a decoded forecast response for a single location.
type Forecast struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timezone  string    `json:"timezone"`
	Currently DataPoint `json:"currently"`
	Hourly    DataBlock `json:"hourly"`
	Daily     DataBlock `json:"daily"`
	Flags     Flags     `json:"flags"`
}

// Flags carries response metadata. Units is "us" (Fahrenheit, mph) or one of
// the SI variants ("si", "ca", "uk2").
type Flags struct {
	Units string `json:"units"`
}

// DataBlock is a summary plus an ordered run of data points.
type DataBlock struct {
	Summary string      `json:"summary"`
	Icon    string      `json:"icon"`
	Data    []DataPoint `json:"data"`
}

// DataPoint is one hourly, daily or current observation. Temperatures are in
// the response units (see Flags.Units); probabilities and ratios are 0..1.
type DataPoint struct {
	Time                int64    `json:"time"`
	Summary             string   `json:"summary"`
	Icon                string   `json:"icon"`
	Temperature         float64  `json:"temperature"`
	ApparentTemperature float64  `json:"apparentTemperature"`
	TemperatureMin      float64  `json:"temperatureMin"`
	TemperatureMax      float64  `json:"temperatureMax"`
	DewPoint            float64  `json:"dewPoint"`
	Humidity            float64  `json:"humidity"`
	PrecipProbability   float64  `json:"precipProbability"`
	CloudCover          float64  `json:"cloudCover"`
	WindSpeed           float64  `json:"windSpeed"`
	WindBearing         *float64 `json:"windBearing,omitempty"` // absent when calm
	Pressure            float64  `json:"pressure"`
	Ozone               float64  `json:"ozone"`
	SunriseTime         int64    `json:"sunriseTime,omitempty"`
	SunsetTime          int64    `json:"sunsetTime,omitempty"`
}

// At returns the data point time stamp in loc.
func (p DataPoint) At(loc *time.Location) time.Time {
	return time.Unix(p.Time, 0).In(loc)
}

// ImperialUnits reports whether temperatures are Fahrenheit and speeds mph.
// An empty Units flag is treated as imperial, the API default.
func (f *Forecast) ImperialUnits() bool {
	return f.Flags.Units == "" || f.Flags.Units == "us"
}

// Location returns the forecast's IANA time zone, falling back to UTC when the
// zone is unset or unknown to the local tz database.
func (f *Forecast) Location() *time.Location {
	if f.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(f.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
