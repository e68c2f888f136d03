// Package report renders forecasts as text: the location header, the current
// conditions and the hourly outlook. Each format is a separate function; the
// top-level Write dispatcher selects based on the format string.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/derickschaefer/forecast/internal/config"
	"github.com/derickschaefer/forecast/internal/model"
	"github.com/derickschaefer/forecast/internal/store"
	"github.com/derickschaefer/forecast/internal/util"
)

// Format constants matching --format flag values.
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// timeLayout is how data point times are shown.
const timeLayout = "Mon Jan _2 15:04 MST"

// Write renders the report for op (print or print-hourly) to w.
func Write(w io.Writer, f *model.Forecast, op, format string) error {
	if format == FormatJSON {
		return writeJSON(w, f, op)
	}
	switch op {
	case config.OpPrint:
		if err := writeHeader(w, f); err != nil {
			return err
		}
		fmt.Fprintln(w, "Currently")
		return writeDataPoint(w, f, f.Currently)
	case config.OpPrintHourly:
		if err := writeHeader(w, f); err != nil {
			return err
		}
		fmt.Fprintf(w, "Hourly: %s\n", f.Hourly.Summary)
		return writeHourly(w, f)
	default:
		return fmt.Errorf("no report for op %q", op)
	}
}

// ─── JSON ─────────────────────────────────────────────────────────────────────

// Reading is a data point converted to metric display units.
type Reading struct {
	Time                time.Time `json:"time"`
	Summary             string    `json:"summary"`
	Temperature         float64   `json:"temperature_c"`
	ApparentTemperature float64   `json:"apparent_temperature_c"`
	DewPoint            float64   `json:"dew_point_c"`
	PrecipProbability   int       `json:"precip_probability_pct"`
	Humidity            float64   `json:"humidity_pct"`
	WindSpeed           int       `json:"wind_speed_kph"`
	WindDirection       string    `json:"wind_direction"`
	CloudCover          int       `json:"cloud_cover_pct"`
	Pressure            float64   `json:"pressure_hpa"`
	Ozone               float64   `json:"ozone_du"`
}

// Convert returns p in metric display units.
func Convert(f *model.Forecast, p model.DataPoint) Reading {
	temp := func(v float64) float64 { return v }
	if f.ImperialUnits() {
		temp = util.FahrenheitToCelsius
	}
	bearing := math.NaN()
	if p.WindBearing != nil {
		bearing = *p.WindBearing
	}
	return Reading{
		Time:                p.At(f.Location()),
		Summary:             p.Summary,
		Temperature:         temp(p.Temperature),
		ApparentTemperature: temp(p.ApparentTemperature),
		DewPoint:            temp(p.DewPoint),
		PrecipProbability:   int(p.PrecipProbability * 100),
		Humidity:            p.Humidity * 100,
		WindSpeed:           int(windKPH(f, p.WindSpeed)),
		WindDirection:       util.Bearing(bearing),
		CloudCover:          int(p.CloudCover * 100),
		Pressure:            p.Pressure,
		Ozone:               p.Ozone,
	}
}

// windKPH converts a wind speed from the response units to km/h.
func windKPH(f *model.Forecast, v float64) float64 {
	switch f.Flags.Units {
	case "", "us", "uk2":
		return util.MPHToKPH(v)
	case "si":
		return v * 3.6
	default: // "ca" reports km/h
		return v
	}
}

func writeJSON(w io.Writer, f *model.Forecast, op string) error {
	out := struct {
		Latitude  float64   `json:"latitude"`
		Longitude float64   `json:"longitude"`
		Timezone  string    `json:"timezone"`
		Currently *Reading  `json:"currently,omitempty"`
		Hourly    []Reading `json:"hourly,omitempty"`
	}{Latitude: f.Latitude, Longitude: f.Longitude, Timezone: f.Timezone}

	switch op {
	case config.OpPrint:
		r := Convert(f, f.Currently)
		out.Currently = &r
	case config.OpPrintHourly:
		for _, p := range f.Hourly.Data {
			out.Hourly = append(out.Hourly, Convert(f, p))
		}
	default:
		return fmt.Errorf("no report for op %q", op)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// ─── Table ────────────────────────────────────────────────────────────────────

func writeHeader(w io.Writer, f *model.Forecast) error {
	tw := fieldTable(w)
	tw.Append([]string{"Latitude", fmt.Sprintf("%.4f", f.Latitude)})
	tw.Append([]string{"Longitude", fmt.Sprintf("%.4f", f.Longitude)})
	tw.Append([]string{"Timezone", f.Timezone})
	tw.Render()
	return nil
}

func writeDataPoint(w io.Writer, f *model.Forecast, p model.DataPoint) error {
	r := Convert(f, p)
	tw := fieldTable(w)
	rows := [][]string{
		{"Time", r.Time.Format(timeLayout)},
		{"Condition", r.Summary},
		{"Temperature", fmt.Sprintf("%.1f °C", r.Temperature)},
		{"Apparent temperature", fmt.Sprintf("%.1f °C", r.ApparentTemperature)},
		{"Dew point", fmt.Sprintf("%.1f °C", r.DewPoint)},
		{"Precipitation", fmt.Sprintf("%d %%", r.PrecipProbability)},
		{"RH (φ)", fmt.Sprintf("%.1f %%", r.Humidity)},
		{"Wind speed", fmt.Sprintf("%d kph (%s)", r.WindSpeed, r.WindDirection)},
		{"Cloud cover", fmt.Sprintf("%d %%", r.CloudCover)},
		{"Pressure", fmt.Sprintf("%.2f hPa", r.Pressure)},
		{"Ozone", fmt.Sprintf("%.2f DU", r.Ozone)},
	}
	for _, row := range rows {
		tw.Append(row)
	}
	tw.Render()
	return nil
}

func writeHourly(w io.Writer, f *model.Forecast) error {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader([]string{"TIME", "CONDITION", "TEMP °C", "FEELS °C", "DEW °C", "PRECIP %", "RH %", "WIND KPH", "CLOUD %", "HPA"})
	tw.SetBorder(true)
	tw.SetRowLine(false)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAlignment(tablewriter.ALIGN_RIGHT)
	tw.SetAutoWrapText(false)

	for _, p := range f.Hourly.Data {
		r := Convert(f, p)
		tw.Append([]string{
			r.Time.Format("Mon 15:04"),
			r.Summary,
			fmt.Sprintf("%.1f", r.Temperature),
			fmt.Sprintf("%.1f", r.ApparentTemperature),
			fmt.Sprintf("%.1f", r.DewPoint),
			fmt.Sprintf("%d", r.PrecipProbability),
			fmt.Sprintf("%.0f", r.Humidity),
			fmt.Sprintf("%d %s", r.WindSpeed, r.WindDirection),
			fmt.Sprintf("%d", r.CloudCover),
			fmt.Sprintf("%.1f", r.Pressure),
		})
	}
	tw.Render()
	return nil
}

func fieldTable(w io.Writer) *tablewriter.Table {
	tw := tablewriter.NewWriter(w)
	tw.SetBorder(true)
	tw.SetRowLine(false)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetColWidth(60)
	tw.SetAutoWrapText(false)
	return tw
}

// ─── Cache ────────────────────────────────────────────────────────────────────

// CacheStats renders bucket statistics.
func CacheStats(w io.Writer, path string, stats []store.BucketStats) {
	fmt.Fprintf(w, "Database: %s\n", path)
	tw := tablewriter.NewWriter(w)
	tw.SetHeader([]string{"BUCKET", "ENTRIES", "BYTES"})
	tw.SetBorder(true)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT})
	for _, s := range stats {
		tw.Append([]string{s.Name, fmt.Sprintf("%d", s.Count), fmt.Sprintf("%d", s.Bytes)})
	}
	tw.Render()
}

// CacheEntries renders cached forecasts with their age and freshness.
func CacheEntries(w io.Writer, entries []store.Entry, maxAge time.Duration, now time.Time) {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader([]string{"LOCATION", "FETCHED", "AGE", "FRESH", "BYTES"})
	tw.SetBorder(true)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, e := range entries {
		fresh := "no"
		if e.Fresh(maxAge, now) {
			fresh = "yes"
		}
		tw.Append([]string{
			e.Key,
			e.FetchedAt.Local().Format("2006-01-02 15:04:05"),
			now.Sub(e.FetchedAt).Truncate(time.Second).String(),
			fresh,
			fmt.Sprintf("%d", len(e.Body)),
		})
	}
	tw.Render()
}
