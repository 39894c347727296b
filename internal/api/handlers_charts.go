package api

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/lox/weatherboard/internal/charts"
	"github.com/lox/weatherboard/internal/loader"
	"github.com/lox/weatherboard/internal/metrics"
	"github.com/lox/weatherboard/internal/models"
	"github.com/lox/weatherboard/internal/season"
)

type renderFunc func(ds *loader.Dataset, table *season.Table) ([]byte, error)

func (s *Server) handleTemperatureChart(w http.ResponseWriter, r *http.Request) {
	s.serveChart(w, r, "temperature", func(ds *loader.Dataset, _ *season.Table) ([]byte, error) {
		return charts.Temperature(ds)
	})
}

func (s *Server) handlePrecipitationChart(w http.ResponseWriter, r *http.Request) {
	s.serveChart(w, r, "precipitation", func(ds *loader.Dataset, _ *season.Table) ([]byte, error) {
		return charts.Precipitation(ds)
	})
}

func (s *Server) handleScatterChart(w http.ResponseWriter, r *http.Request) {
	s.serveChart(w, r, "scatter", func(ds *loader.Dataset, _ *season.Table) ([]byte, error) {
		return charts.Scatter(ds)
	})
}

// handleSeasonChart serves /charts/season/{season}.png.
func (s *Server) handleSeasonChart(w http.ResponseWriter, r *http.Request) {
	name, ok := strings.CutSuffix(r.PathValue("file"), ".png")
	if !ok {
		http.NotFound(w, r)
		return
	}
	sn, ok := models.ParseSeason(name)
	if !ok {
		http.NotFound(w, r)
		return
	}
	s.serveChart(w, r, "season-"+sn.Slug(), func(_ *loader.Dataset, table *season.Table) ([]byte, error) {
		return charts.SeasonPie(sn, table)
	})
}

func (s *Server) handlePickerChart(w http.ResponseWriter, r *http.Request) {
	metric, kind, err := s.parsePicker(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.serveChart(w, r, "picker-"+string(metric)+"-"+string(kind), func(ds *loader.Dataset, _ *season.Table) ([]byte, error) {
		return charts.Picker(ds, metric, kind)
	})
}

// handleOGImage serves the link preview card for the current dataset.
func (s *Server) handleOGImage(w http.ResponseWriter, r *http.Request) {
	s.serveChart(w, r, "og-image", func(ds *loader.Dataset, _ *season.Table) ([]byte, error) {
		return charts.Preview(previewData(ds))
	})
}

// serveChart loads the dataset, then serves the named chart from the cache
// or renders and caches it. The ETag is the chart's cache key, so it changes
// with the dataset. Only URLs carrying the current dataset version may be
// cached by clients; anything else must revalidate.
func (s *Server) serveChart(w http.ResponseWriter, r *http.Request, name string, render renderFunc) {
	data, version, err := s.chart(r.Context(), name, render)
	if err != nil {
		s.log.Errorf("api: chart %s: %v", name, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	etag := `"` + charts.Key(name, version) + `"`
	w.Header().Set("ETag", etag)
	if r.URL.Query().Get(versionParam) == datasetVersion(version) && s.cfg.ChartTTL > 0 {
		w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(s.cfg.ChartTTL.Seconds())))
	} else {
		w.Header().Set("Cache-Control", "no-cache")
	}
	if etagMatch(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(data)
}

// chart returns the PNG for name along with the fingerprint of the dataset
// it was rendered from.
func (s *Server) chart(ctx context.Context, name string, render renderFunc) ([]byte, uint64, error) {
	ds, table, err := s.load(ctx)
	if err != nil {
		return nil, 0, err
	}

	key := charts.Key(name, ds.Fingerprint)
	if data, ok := s.charts.Get(key); ok {
		metrics.ChartCacheHits.WithLabelValues(name).Inc()
		return data, ds.Fingerprint, nil
	}

	data, err := render(ds, table)
	if err != nil {
		metrics.ChartRendersTotal.WithLabelValues(name, "error").Inc()
		return nil, 0, err
	}
	metrics.ChartRendersTotal.WithLabelValues(name, "ok").Inc()
	s.charts.Set(key, data)
	return data, ds.Fingerprint, nil
}

// etagMatch reports whether an If-None-Match header lists etag.
func etagMatch(header, etag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == etag || candidate == "*" {
			return true
		}
	}
	return false
}

func previewData(ds *loader.Dataset) charts.PreviewData {
	data := charts.PreviewData{Observations: ds.Len()}
	data.First, data.Last, _ = ds.Span()

	temps, _ := ds.Column(models.MetricTemperature)
	data.MeanTemperature = mean(temps)
	return data
}

// mean averages the finite values, NaN when there are none.
func mean(values []float64) float64 {
	var sum float64
	var n int
	for _, v := range values {
		if nullable(v) == nil {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}
