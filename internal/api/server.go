// Package api serves the weather dashboard: the HTML page, its PNG charts and
// a small JSON API over the same data.
package api

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/lox/weatherboard/internal/charts"
	"github.com/lox/weatherboard/internal/loader"
	"github.com/lox/weatherboard/internal/season"
)

// Config holds the dashboard server settings.
type Config struct {
	Resource string         // CSV path or URL loaded on every request
	Port     string         // listen port
	Location *time.Location // used for page timestamps only
	ChartTTL time.Duration  // how long rendered charts are reused
}

type Server struct {
	loader   *loader.Loader
	cfg      Config
	log      *zap.SugaredLogger
	tmpl     *template.Template
	charts   *charts.Cache
	validate *validator.Validate
}

func NewServer(ld *loader.Loader, cfg Config, log *zap.SugaredLogger) *Server {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Server{
		loader:   ld,
		cfg:      cfg,
		log:      log,
		tmpl:     newTemplates(),
		charts:   charts.NewCache(cfg.ChartTTL),
		validate: validator.New(),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/og-image.png", s.handleOGImage)
	mux.HandleFunc("/charts/temperature.png", s.handleTemperatureChart)
	mux.HandleFunc("/charts/precipitation.png", s.handlePrecipitationChart)
	mux.HandleFunc("/charts/scatter.png", s.handleScatterChart)
	mux.HandleFunc("/charts/season/{file}", s.handleSeasonChart)
	mux.HandleFunc("/charts/picker.png", s.handlePickerChart)
	mux.HandleFunc("/api/observations", s.handleAPIObservations)
	mux.HandleFunc("/api/seasons", s.handleAPISeasons)
	mux.HandleFunc("/api/column", s.handleAPIColumn)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.log.Warnf("api: shutdown: %v", err)
		}
	}()

	s.log.Infof("api: listening on :%s (data %s)", s.cfg.Port, s.cfg.Resource)
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// load runs a fresh load and aggregation for one request.
func (s *Server) load(ctx context.Context) (*loader.Dataset, *season.Table, error) {
	ds, err := s.loader.Load(ctx, s.cfg.Resource)
	if err != nil {
		return nil, nil, err
	}
	return ds, season.Aggregate(ds.Observations), nil
}
