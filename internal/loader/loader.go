// Package loader reads the daily observation CSV into a Dataset.
package loader

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"go.uber.org/zap"

	"github.com/lox/weatherboard/internal/httputil"
	"github.com/lox/weatherboard/internal/metrics"
	"github.com/lox/weatherboard/internal/models"
)

// Column names required in the CSV header.
const (
	ColDate          = "date"
	ColTemperature   = "temperature"
	ColPrecipitation = "precipitation"
	ColHumidity      = "humidity"
	ColWeatherType   = "weather_type"
)

var requiredColumns = []string{ColDate, ColTemperature, ColPrecipitation, ColHumidity, ColWeatherType}

type Loader struct {
	client *http.Client
	log    *zap.SugaredLogger
}

func New(log *zap.SugaredLogger) *Loader {
	return &Loader{
		client: httputil.NewClient(),
		log:    log,
	}
}

// WithClient overrides the HTTP client used for http(s) resources.
func (l *Loader) WithClient(c *http.Client) *Loader {
	l.client = c
	return l
}

// Load reads and parses a resource. Any failure aborts the whole load.
func (l *Loader) Load(ctx context.Context, resource string) (*Dataset, error) {
	kind := sourceKind(resource)
	start := time.Now()

	ds, err := l.load(ctx, resource)
	metrics.LoadLatency.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.LoadsTotal.WithLabelValues(kind, "error").Inc()
		l.log.Warnf("loader: %v", err)
		return nil, err
	}

	metrics.LoadsTotal.WithLabelValues(kind, "ok").Inc()
	metrics.ObservationsLoaded.Set(float64(ds.Len()))
	l.log.Debugf("loader: %s: %d observations in %s", resource, ds.Len(), time.Since(start).Round(time.Millisecond))
	return ds, nil
}

func (l *Loader) load(ctx context.Context, resource string) (*Dataset, error) {
	rc, err := l.open(ctx, resource)
	if err != nil {
		return nil, &LoadError{Resource: resource, Err: err}
	}
	defer rc.Close()

	ds, err := Read(rc)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Resource = resource
		}
		var de *DateParseError
		if errors.As(err, &de) {
			de.Resource = resource
		}
		return nil, err
	}
	return ds, nil
}

// Read parses CSV from r. It performs no I/O beyond reading r.
func Read(r io.Reader) (*Dataset, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, &LoadError{Err: fmt.Errorf("read: %w", err)}
	}

	records, err := csv.NewReader(bytes.NewReader(raw)).ReadAll()
	if err != nil {
		return nil, &LoadError{Err: fmt.Errorf("parse csv: %w", err)}
	}
	if len(records) == 0 {
		return nil, &LoadError{Err: errors.New("no header row")}
	}

	header := make([]string, len(records[0]))
	for i, name := range records[0] {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		header[i] = strings.TrimSpace(name)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	for _, name := range requiredColumns {
		if _, ok := index[name]; !ok {
			return nil, &LoadError{Err: fmt.Errorf("missing column %q", name)}
		}
	}

	rows := records[1:]
	frame := buildFrame(header, index, rows)
	if err := frame.Err; err != nil {
		return nil, &LoadError{Err: fmt.Errorf("build frame: %w", err)}
	}

	dates := frame.Col(ColDate).Records()
	temps := frame.Col(ColTemperature).Float()
	precip := frame.Col(ColPrecipitation).Float()
	humidity := frame.Col(ColHumidity).Float()
	types := frame.Col(ColWeatherType).Records()

	observations := make([]models.Observation, len(rows))
	for i := range rows {
		d, ok := parseDate(dates[i])
		if !ok {
			return nil, &DateParseError{Row: i + 1, Value: dates[i]}
		}
		observations[i] = models.Observation{
			Date:          d,
			Temperature:   temps[i],
			Precipitation: precip[i],
			Humidity:      humidity[i],
			WeatherType:   strings.TrimSpace(types[i]),
		}
	}

	return &Dataset{
		Observations: observations,
		Fingerprint:  xxhash.Sum64(raw),
		frame:        frame,
	}, nil
}

// buildFrame keeps the required columns in their canonical order as string
// series, so the raw table shows cells exactly as written. Numeric columns are
// converted on read; cells that are not numbers read as NaN. Other columns in
// the file are not carried into the frame.
func buildFrame(header []string, index map[string]int, rows [][]string) dataframe.DataFrame {
	cols := make([]series.Series, 0, len(requiredColumns))
	for _, name := range requiredColumns {
		i := index[name]
		values := make([]string, len(rows))
		for j, row := range rows {
			values[j] = strings.TrimSpace(row[i])
		}
		cols = append(cols, series.New(values, series.String, header[i]))
	}
	return dataframe.New(cols...)
}
