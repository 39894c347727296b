package api

import (
	"errors"
	"math"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/lox/weatherboard/internal/loader"
	"github.com/lox/weatherboard/internal/models"
	"github.com/lox/weatherboard/internal/season"
)

func (s *Server) handleAPIObservations(w http.ResponseWriter, r *http.Request) {
	ds, err := s.loader.Load(r.Context(), s.cfg.Resource)
	if err != nil {
		s.log.Errorf("api: observations: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	out := make([]ObservationJSON, len(ds.Observations))
	for i, o := range ds.Observations {
		out[i] = ObservationJSON{
			Date:          o.Date.Format("2006-01-02"),
			Season:        string(season.OfDate(o.Date)),
			Temperature:   nullable(o.Temperature),
			Precipitation: nullable(o.Precipitation),
			Humidity:      nullable(o.Humidity),
			WeatherType:   o.WeatherType,
		}
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAPISeasons(w http.ResponseWriter, r *http.Request) {
	_, table, err := s.load(r.Context())
	if err != nil {
		s.log.Errorf("api: seasons: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	out := SeasonsJSON{
		Table:        table,
		SeasonTotals: make(map[models.Season]int, len(table.Seasons)),
		Total:        table.Total(),
	}
	for _, sn := range table.Seasons {
		out.SeasonTotals[sn] = table.ColumnTotal(sn)
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAPIColumn(w http.ResponseWriter, r *http.Request) {
	metric := models.Metric(r.URL.Query().Get("metric"))

	ds, err := s.loader.Load(r.Context(), s.cfg.Resource)
	if err != nil {
		s.log.Errorf("api: column: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	values, err := ds.Column(metric)
	if errors.Is(err, loader.ErrUnknownMetric) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		s.log.Errorf("api: column %s: %v", metric, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	out := ColumnJSON{
		Metric: metric,
		Label:  metric.Label(),
		Values: make([]*float64, len(values)),
	}
	for i, v := range values {
		out.Values[i] = nullable(v)
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warnf("api: write response: %v", err)
	}
}

// nullable maps values JSON cannot carry to nil.
func nullable(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
