// Package pipeline reads and writes chart points via stdin/stdout in JSONL
// format, the canonical pipe format: one {"label","value","overlay"} object
// per line. A plot command's series can be written with WriteJSONL and piped
// into `forecast chart`.
package pipeline

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// Chart is a series read from a pipe. Overlay is nil unless every record
// carried an overlay value.
type Chart struct {
	Labels  []string
	Values  []float64
	Overlay []float64
}

// ReadChart reads JSONL records from r (stdin). Each line must be a JSON
// object with a "value"; "label" and "overlay" are optional. null values
// read as NaN. Blank lines and lines starting with // are skipped.
func ReadChart(r io.Reader) (*Chart, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	c := &Chart{}
	withOverlay := 0
	lineNum := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		lineNum++
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		var rec map[string]interface{}
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, fmt.Errorf("line %d: invalid JSON: %w", lineNum, err)
		}

		raw, ok := rec["value"]
		if !ok {
			return nil, fmt.Errorf("line %d: missing \"value\"", lineNum)
		}
		val, err := parseValue(raw)
		if err != nil {
			return nil, fmt.Errorf("line %d: value: %w", lineNum, err)
		}
		label, _ := rec["label"].(string)
		c.Labels = append(c.Labels, label)
		c.Values = append(c.Values, val)

		if raw, ok := rec["overlay"]; ok {
			ov, err := parseValue(raw)
			if err != nil {
				return nil, fmt.Errorf("line %d: overlay: %w", lineNum, err)
			}
			c.Overlay = append(c.Overlay, ov)
			withOverlay++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	if len(c.Values) == 0 {
		return nil, fmt.Errorf("no points read from input (is stdin empty?)")
	}
	switch withOverlay {
	case 0:
		c.Overlay = nil
	case len(c.Values):
	default:
		return nil, fmt.Errorf("%d of %d points carry an overlay value; it must be all or none",
			withOverlay, len(c.Values))
	}
	return c, nil
}

// parseValue accepts a JSON number, null, or the missing-value strings ""
// and ".".
func parseValue(v interface{}) (float64, error) {
	switch v := v.(type) {
	case nil:
		return math.NaN(), nil
	case float64:
		return v, nil
	case string:
		if v == "" || v == "." {
			return math.NaN(), nil
		}
		return 0, fmt.Errorf("unexpected string value %q", v)
	default:
		return 0, fmt.Errorf("unexpected value type %T", v)
	}
}

// WriteJSONL writes a chart as JSONL to w. NaN values are written as null.
func WriteJSONL(w io.Writer, c *Chart) error {
	enc := json.NewEncoder(w)
	for i, v := range c.Values {
		rec := map[string]interface{}{"value": jsonValue(v)}
		if i < len(c.Labels) {
			rec["label"] = c.Labels[i]
		}
		if c.Overlay != nil {
			rec["overlay"] = jsonValue(c.Overlay[i])
		}
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return nil
}

func jsonValue(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

// IsTTY returns true if stdout is a terminal (not a pipe).
func IsTTY() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
