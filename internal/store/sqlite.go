// Package store writes a loaded dataset and its seasonal table to SQLite for
// use outside the dashboard.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/lox/weatherboard/internal/models"
	"github.com/lox/weatherboard/internal/season"
)

const dateLayout = "2006-01-02"

type Store struct {
	db  *sql.DB
	log *zap.SugaredLogger
}

func New(db *sql.DB, log *zap.SugaredLogger) *Store {
	return &Store{db: db, log: log}
}

// ExportInfo describes where an export came from.
type ExportInfo struct {
	Resource     string
	Fingerprint  uint64
	Observations int
	ExportedAt   time.Time
}

// Export replaces the stored observations and seasonal counts with the given
// ones in a single transaction and records the export.
func (s *Store) Export(ctx context.Context, info ExportInfo, observations []models.Observation, table *season.Table) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin export: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM observations"); err != nil {
		return fmt.Errorf("clear observations: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM seasonal_counts"); err != nil {
		return fmt.Errorf("clear seasonal counts: %w", err)
	}

	obsStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO observations (date, temperature, precipitation, humidity, weather_type, season)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare observation insert: %w", err)
	}
	defer obsStmt.Close()

	for i, o := range observations {
		if _, err := obsStmt.ExecContext(ctx,
			o.Date.Format(dateLayout),
			nullFloat(o.Temperature),
			nullFloat(o.Precipitation),
			nullFloat(o.Humidity),
			o.WeatherType,
			string(season.OfDate(o.Date)),
		); err != nil {
			return fmt.Errorf("insert observation %d: %w", i+1, err)
		}
	}

	countStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO seasonal_counts (weather_type, season, count) VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare count insert: %w", err)
	}
	defer countStmt.Close()

	for i, wt := range table.WeatherTypes {
		for j, sn := range table.Seasons {
			if _, err := countStmt.ExecContext(ctx, wt, string(sn), table.Counts[i][j]); err != nil {
				return fmt.Errorf("insert count %s/%s: %w", wt, sn, err)
			}
		}
	}

	exportedAt := info.ExportedAt
	if exportedAt.IsZero() {
		exportedAt = time.Now().UTC()
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO exports (resource, fingerprint, observations, exported_at) VALUES (?, ?, ?, ?)
	`, info.Resource, strconv.FormatUint(info.Fingerprint, 16), len(observations), exportedAt); err != nil {
		return fmt.Errorf("record export: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit export: %w", err)
	}
	s.log.Infof("store: exported %d observations, %d weather types", len(observations), len(table.WeatherTypes))
	return nil
}

// GetObservations returns the stored observations in export order. NULL
// values read back as NaN.
func (s *Store) GetObservations(ctx context.Context) ([]models.Observation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date, temperature, precipitation, humidity, weather_type
		FROM observations
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var observations []models.Observation
	for rows.Next() {
		var (
			date                   any
			temp, precip, humidity sql.NullFloat64
			o                      models.Observation
		)
		if err := rows.Scan(&date, &temp, &precip, &humidity, &o.WeatherType); err != nil {
			return nil, err
		}
		d, err := storedDate(date)
		if err != nil {
			return nil, err
		}
		o.Date = d
		o.Temperature = floatOrNaN(temp)
		o.Precipitation = floatOrNaN(precip)
		o.Humidity = floatOrNaN(humidity)
		observations = append(observations, o)
	}
	return observations, rows.Err()
}

// GetSeasonalCounts rebuilds the seasonal table from the stored counts.
func (s *Store) GetSeasonalCounts(ctx context.Context) (*season.Table, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT weather_type, season, count FROM seasonal_counts")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type cell struct {
		wt string
		s  models.Season
	}
	counts := make(map[cell]int)
	types := make(map[string]bool)
	for rows.Next() {
		var wt, sn string
		var n int
		if err := rows.Scan(&wt, &sn, &n); err != nil {
			return nil, err
		}
		parsed, ok := models.ParseSeason(sn)
		if !ok {
			return nil, fmt.Errorf("unknown stored season %q", sn)
		}
		counts[cell{wt, parsed}] = n
		types[wt] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	table := &season.Table{
		WeatherTypes: make([]string, 0, len(types)),
		Seasons:      append([]models.Season(nil), models.Seasons...),
	}
	for wt := range types {
		table.WeatherTypes = append(table.WeatherTypes, wt)
	}
	sort.Strings(table.WeatherTypes)

	table.Counts = make([][]int, len(table.WeatherTypes))
	for i, wt := range table.WeatherTypes {
		table.Counts[i] = make([]int, len(table.Seasons))
		for j, sn := range table.Seasons {
			table.Counts[i][j] = counts[cell{wt, sn}]
		}
	}
	return table, nil
}

// LastExport returns the most recent export, or nil if none has run.
func (s *Store) LastExport(ctx context.Context) (*ExportInfo, error) {
	var (
		info        ExportInfo
		fingerprint string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT resource, fingerprint, observations, exported_at
		FROM exports
		ORDER BY id DESC
		LIMIT 1
	`).Scan(&info.Resource, &fingerprint, &info.Observations, &info.ExportedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	info.Fingerprint, err = strconv.ParseUint(fingerprint, 16, 64)
	if err != nil {
		return nil, fmt.Errorf("parse fingerprint %q: %w", fingerprint, err)
	}
	return &info, nil
}

// storedDate normalises a date column value to midnight UTC. The driver
// returns DATE columns as time.Time when the text parses and as a string
// otherwise.
func storedDate(v any) (time.Time, error) {
	var t time.Time
	switch v := v.(type) {
	case time.Time:
		t = v
	case string:
		return parseStoredDate(v)
	case []byte:
		return parseStoredDate(string(v))
	default:
		return time.Time{}, fmt.Errorf("unexpected stored date type %T", v)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

func parseStoredDate(s string) (time.Time, error) {
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored date %q: %w", s, err)
	}
	return t, nil
}

func nullFloat(v float64) sql.NullFloat64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func floatOrNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
