package api

import (
	"time"

	"github.com/lox/weatherboard/internal/models"
	"github.com/lox/weatherboard/internal/season"
)

// IndexData is everything the dashboard page renders.
type IndexData struct {
	Resource     string
	GeneratedAt  time.Time
	Observations int
	First        time.Time
	Last         time.Time
	HasSpan      bool

	Charts  ChartURLs
	Seasons []SeasonView
	Table   TableView
	Picker  PickerView

	Columns []string
	Records [][]string
}

// ChartURLs are the versioned image URLs for the fixed dashboard charts.
type ChartURLs struct {
	Temperature   string
	Precipitation string
	Scatter       string
	OGImage       string
}

// SeasonView is one pie in the seasonal section.
type SeasonView struct {
	Name     models.Season
	ChartURL string
	Total    int
}

// TableView is the weather type by season frequency table.
type TableView struct {
	Seasons []models.Season
	Rows    []TableRow
	Totals  []int
	Total   int
}

type TableRow struct {
	WeatherType string
	Counts      []int
	Total       int
}

// PickerView carries the chart picker form state.
type PickerView struct {
	Metric   models.Metric
	Kind     models.ChartKind
	Metrics  []models.Metric
	Kinds    []models.ChartKind
	ChartURL string
}

func newTableView(t *season.Table) TableView {
	v := TableView{
		Seasons: t.Seasons,
		Rows:    make([]TableRow, len(t.WeatherTypes)),
		Totals:  make([]int, len(t.Seasons)),
		Total:   t.Total(),
	}
	for i, wt := range t.WeatherTypes {
		row := TableRow{WeatherType: wt, Counts: t.Counts[i]}
		for _, n := range t.Counts[i] {
			row.Total += n
		}
		v.Rows[i] = row
	}
	for j, s := range t.Seasons {
		v.Totals[j] = t.ColumnTotal(s)
	}
	return v
}

// ObservationJSON is the API form of an observation. Values that did not
// parse as numbers are null.
type ObservationJSON struct {
	Date          string   `json:"date"`
	Season        string   `json:"season"`
	Temperature   *float64 `json:"temperature"`
	Precipitation *float64 `json:"precipitation"`
	Humidity      *float64 `json:"humidity"`
	WeatherType   string   `json:"weather_type"`
}

// SeasonsJSON is the API form of the seasonal frequency table.
type SeasonsJSON struct {
	*season.Table
	SeasonTotals map[models.Season]int `json:"season_totals"`
	Total        int                   `json:"total"`
}

// ColumnJSON is the API form of one metric column.
type ColumnJSON struct {
	Metric models.Metric `json:"metric"`
	Label  string        `json:"label"`
	Values []*float64    `json:"values"`
}

type HealthStatus struct {
	Status       string `json:"status"`
	Observations int    `json:"observations"`
	Error        string `json:"error,omitempty"`
}
