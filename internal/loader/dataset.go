package loader

import (
	"fmt"
	"time"

	"github.com/go-gota/gota/dataframe"

	"github.com/lox/weatherboard/internal/models"
)

// Dataset is the result of a load: the parsed observations in file order and
// the typed frame they were read from.
type Dataset struct {
	Observations []models.Observation
	// Fingerprint is a hash of the raw resource bytes.
	Fingerprint uint64

	frame dataframe.DataFrame
}

func (d *Dataset) Len() int {
	return len(d.Observations)
}

// Column returns the values of a metric column in row order. Names outside
// models.Metrics fail with ErrUnknownMetric.
func (d *Dataset) Column(metric models.Metric) ([]float64, error) {
	known := false
	for _, m := range models.Metrics {
		if m == metric {
			known = true
			break
		}
	}
	if !known {
		return nil, fmt.Errorf("column %q: %w", metric, ErrUnknownMetric)
	}
	if d.Len() == 0 {
		return []float64{}, nil
	}
	col := d.frame.Col(string(metric))
	if col.Err != nil {
		return nil, fmt.Errorf("column %q: %w", metric, col.Err)
	}
	return col.Float(), nil
}

// Dates returns the date column in row order.
func (d *Dataset) Dates() []time.Time {
	dates := make([]time.Time, len(d.Observations))
	for i, o := range d.Observations {
		dates[i] = o.Date
	}
	return dates
}

// Columns returns the header of the raw table.
func (d *Dataset) Columns() []string {
	return append([]string(nil), requiredColumns...)
}

// Records returns the raw table as strings, one slice per row, without the header.
func (d *Dataset) Records() [][]string {
	if d.Len() == 0 {
		return nil
	}
	records := d.frame.Records()
	// dataframe.Records includes the header row.
	return records[1:]
}

// Span returns the first and last observation dates. ok is false for an empty dataset.
func (d *Dataset) Span() (first, last time.Time, ok bool) {
	if d.Len() == 0 {
		return time.Time{}, time.Time{}, false
	}
	first, last = d.Observations[0].Date, d.Observations[0].Date
	for _, o := range d.Observations[1:] {
		if o.Date.Before(first) {
			first = o.Date
		}
		if o.Date.After(last) {
			last = o.Date
		}
	}
	return first, last, true
}
