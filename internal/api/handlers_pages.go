package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/lox/weatherboard/internal/models"
)

// pickerQuery is the chart picker selection as it arrives on the query string.
type pickerQuery struct {
	Metric string `validate:"required,oneof=temperature precipitation humidity"`
	Kind   string `validate:"required,oneof=line histogram"`
}

// parsePicker reads metric and kind, defaulting to a temperature line.
func (s *Server) parsePicker(r *http.Request) (models.Metric, models.ChartKind, error) {
	q := pickerQuery{
		Metric: r.URL.Query().Get("metric"),
		Kind:   r.URL.Query().Get("kind"),
	}
	if q.Metric == "" {
		q.Metric = string(models.MetricTemperature)
	}
	if q.Kind == "" {
		q.Kind = string(models.ChartLine)
	}
	if err := s.validate.Struct(q); err != nil {
		return "", "", fmt.Errorf("invalid chart selection: %w", err)
	}
	return models.Metric(q.Metric), models.ChartKind(q.Kind), nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	metric, kind, err := s.parsePicker(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ds, table, err := s.load(r.Context())
	if err != nil {
		s.log.Errorf("api: index: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data := IndexData{
		Resource:     s.cfg.Resource,
		GeneratedAt:  time.Now().In(s.cfg.Location),
		Observations: ds.Len(),
		Table:        newTableView(table),
		Picker: PickerView{
			Metric:   metric,
			Kind:     kind,
			Metrics:  models.Metrics,
			Kinds:    models.ChartKinds,
			ChartURL: pickerURL(metric, kind, ds.Fingerprint),
		},
		Charts: ChartURLs{
			Temperature:   chartURL("/charts/temperature.png", ds.Fingerprint, nil),
			Precipitation: chartURL("/charts/precipitation.png", ds.Fingerprint, nil),
			Scatter:       chartURL("/charts/scatter.png", ds.Fingerprint, nil),
			OGImage:       chartURL("/og-image.png", ds.Fingerprint, nil),
		},
		Columns: ds.Columns(),
		Records: ds.Records(),
	}
	data.First, data.Last, data.HasSpan = ds.Span()
	for _, sn := range table.Seasons {
		data.Seasons = append(data.Seasons, SeasonView{
			Name:     sn,
			ChartURL: chartURL("/charts/season/"+sn.Slug()+".png", ds.Fingerprint, nil),
			Total:    table.ColumnTotal(sn),
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, "index.html", data); err != nil {
		s.log.Errorf("api: render index: %v", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := HealthStatus{Status: "ok"}
	status := http.StatusOK

	ds, err := s.loader.Load(r.Context(), s.cfg.Resource)
	if err != nil {
		health.Status = "error"
		health.Error = err.Error()
		status = http.StatusServiceUnavailable
	} else {
		health.Observations = ds.Len()
	}

	s.writeJSON(w, status, health)
}
