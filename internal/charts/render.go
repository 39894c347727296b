// Package charts renders the dashboard's PNG charts from a loaded dataset and
// its seasonal table.
package charts

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/lox/weatherboard/internal/loader"
	"github.com/lox/weatherboard/internal/models"
	"github.com/lox/weatherboard/internal/season"
)

// Width and Height are the dimensions of every rendered chart.
const (
	Width  = 800
	Height = 400
)

const (
	msgNoObservations = "No observations"
	msgTooFewPoints   = "Not enough observations to plot"
)

// piePalette colours weather types in row order, cycling when there are more
// types than colours.
var piePalette = []drawing.Color{
	drawing.ColorFromHex("#FFC0CB"),
	drawing.ColorFromHex("#87CEEB"),
	drawing.ColorFromHex("#98FB98"),
	drawing.ColorFromHex("#DDA0DD"),
}

// Named is a chart that can be rendered on demand.
type Named struct {
	Name   string
	Render func() ([]byte, error)
}

// Dashboard lists every chart shown on the dashboard page for a dataset. The
// picker is represented by its default selection.
func Dashboard(ds *loader.Dataset, table *season.Table) []Named {
	named := []Named{
		{Name: "temperature", Render: func() ([]byte, error) { return Temperature(ds) }},
		{Name: "precipitation", Render: func() ([]byte, error) { return Precipitation(ds) }},
		{Name: "scatter", Render: func() ([]byte, error) { return Scatter(ds) }},
	}
	for _, s := range models.Seasons {
		named = append(named, Named{
			Name:   "season-" + s.Slug(),
			Render: func() ([]byte, error) { return SeasonPie(s, table) },
		})
	}
	named = append(named, Named{
		Name:   "picker",
		Render: func() ([]byte, error) { return Picker(ds, models.MetricTemperature, models.ChartLine) },
	})
	return named
}

// Temperature renders temperature over date as a line.
func Temperature(ds *loader.Dataset) ([]byte, error) {
	values, err := ds.Column(models.MetricTemperature)
	if err != nil {
		return nil, err
	}
	return Line("Temperature over time", models.MetricTemperature.Label(), ds.Dates(), values)
}

// Precipitation renders the precipitation distribution.
func Precipitation(ds *loader.Dataset) ([]byte, error) {
	values, err := ds.Column(models.MetricPrecipitation)
	if err != nil {
		return nil, err
	}
	return Histogram("Precipitation distribution", models.MetricPrecipitation.Label(), values, DefaultBins)
}

// Scatter renders temperature against humidity, each dot coloured by the
// day's precipitation.
func Scatter(ds *loader.Dataset) ([]byte, error) {
	temps, err := ds.Column(models.MetricTemperature)
	if err != nil {
		return nil, err
	}
	humidity, err := ds.Column(models.MetricHumidity)
	if err != nil {
		return nil, err
	}
	precip, err := ds.Column(models.MetricPrecipitation)
	if err != nil {
		return nil, err
	}
	return ScatterPlot("Temperature vs humidity", models.MetricPrecipitation.Label(), temps, humidity, precip)
}

// Picker renders the selected metric as a line over date or as a histogram.
func Picker(ds *loader.Dataset, metric models.Metric, kind models.ChartKind) ([]byte, error) {
	values, err := ds.Column(metric)
	if err != nil {
		return nil, err
	}
	title := fmt.Sprintf("%s (%s)", metric.Label(), kind)
	switch kind {
	case models.ChartLine:
		return Line(title, metric.Label(), ds.Dates(), values)
	case models.ChartHistogram:
		return Histogram(title, metric.Label(), values, DefaultBins)
	default:
		return nil, fmt.Errorf("unknown chart kind %q", kind)
	}
}

// Line renders values against dates. Points are drawn in date order and
// non-finite values are skipped. Fewer than two distinct dates yields a
// placeholder.
func Line(title, yLabel string, dates []time.Time, values []float64) ([]byte, error) {
	type point struct {
		t time.Time
		v float64
	}
	var points []point
	for i, v := range values {
		if i >= len(dates) || !isFinite(v) {
			continue
		}
		points = append(points, point{dates[i], v})
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].t.Before(points[j].t) })

	if len(points) < 2 || !points[0].t.Before(points[len(points)-1].t) {
		return Placeholder(title, msgTooFewPoints)
	}

	xs := make([]time.Time, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i], ys[i] = p.t, p.v
	}

	graph := chart.Chart{
		Title:  title,
		Width:  Width,
		Height: Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			Name:           "Date",
			ValueFormatter: chart.TimeDateValueFormatter,
		},
		YAxis: chart.YAxis{
			Name:  yLabel,
			Range: flatRange(ys),
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    yLabel,
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: drawing.ColorFromHex("#1f77b4"),
					StrokeWidth: 2,
				},
			},
		},
	}
	return render(graph)
}

// Histogram renders values bucketed into bins equal-width bars.
func Histogram(title, xLabel string, values []float64, bins int) ([]byte, error) {
	buckets := Bins(values, bins)
	if buckets == nil {
		return Placeholder(title, msgNoObservations)
	}

	maxCount := 1
	bars := make([]chart.Value, len(buckets))
	for i, b := range buckets {
		bars[i] = chart.Value{
			Value: float64(b.Count),
			Label: formatEdge(b.Lo),
			Style: chart.Style{
				FillColor:   drawing.ColorFromHex("#87CEEB"),
				StrokeColor: drawing.ColorFromHex("#4682B4"),
				StrokeWidth: 1,
			},
		}
		if b.Count > maxCount {
			maxCount = b.Count
		}
	}

	barWidth := (Width-120)/len(buckets) - 4
	if barWidth < 2 {
		barWidth = 2
	}

	graph := chart.BarChart{
		Title:  title,
		Width:  Width,
		Height: Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Bottom: 50},
		},
		BarWidth:   barWidth,
		BarSpacing: 4,
		XAxis: chart.Style{
			FontSize: 7,
		},
		YAxis: chart.YAxis{
			Name:  "Count",
			Range: &chart.ContinuousRange{Min: 0, Max: float64(maxCount)},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		Bars:     bars,
		Elements: []chart.Renderable{axisCaption(xLabel)},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render %q: %w", title, err)
	}
	return buf.Bytes(), nil
}

// ScatterPlot renders y against x with each dot coloured on the viridis scale
// by the matching entry of c. Dots with a non-finite c are drawn grey. A
// colour bar labelled cLabel shows the scale's range.
func ScatterPlot(title, cLabel string, x, y, c []float64) ([]byte, error) {
	xs, ys, idx := finitePairs(x, y)
	if len(xs) < 2 || minOf(xs) == maxOf(xs) {
		return Placeholder(title, msgTooFewPoints)
	}

	colours := make([]drawing.Color, len(idx))
	var cs []float64
	for _, i := range idx {
		if i < len(c) && isFinite(c[i]) {
			cs = append(cs, c[i])
		}
	}
	lo, hi := minOf(cs), maxOf(cs)
	for j, i := range idx {
		switch {
		case i >= len(c) || !isFinite(c[i]):
			colours[j] = drawing.ColorFromHex("#999999")
		case lo == hi:
			colours[j] = chart.Viridis(0.5, 0, 1)
		default:
			colours[j] = chart.Viridis(c[i], lo, hi)
		}
	}

	var elements []chart.Renderable
	if len(cs) > 0 {
		elements = append(elements, colourBar(cLabel, lo, hi))
	}

	graph := chart.Chart{
		Title:  title,
		Width:  Width,
		Height: Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: colourBarWidth, Bottom: 10},
		},
		Elements: elements,
		XAxis:    chart.XAxis{Name: models.MetricTemperature.Label()},
		YAxis: chart.YAxis{
			Name:  models.MetricHumidity.Label(),
			Range: flatRange(ys),
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "observations",
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeWidth: chart.Disabled,
					DotWidth:    5,
					DotColorProvider: func(_, _ chart.Range, index int, _, _ float64) drawing.Color {
						return colours[index]
					},
				},
			},
		},
	}
	return render(graph)
}

// SeasonPie renders the weather-type mix of one season. A season without
// observations yields a placeholder.
func SeasonPie(s models.Season, table *season.Table) ([]byte, error) {
	title := string(s)
	if table.ColumnTotal(s) == 0 {
		return Placeholder(title, msgNoObservations)
	}

	column := table.Column(s)
	total := float64(table.ColumnTotal(s))
	var values []chart.Value
	for i, wt := range table.WeatherTypes {
		n := column[i]
		if n == 0 {
			continue
		}
		values = append(values, chart.Value{
			Value: float64(n),
			Label: fmt.Sprintf("%s %.1f%%", wt, float64(n)/total*100),
			Style: chart.Style{
				FillColor:   piePalette[i%len(piePalette)],
				StrokeColor: chart.ColorWhite,
				StrokeWidth: 1,
				FontColor:   chart.ColorBlack,
			},
		})
	}

	pie := chart.PieChart{
		Title:  title,
		Width:  Height,
		Height: Height,
		Values: values,
	}

	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render %q: %w", title, err)
	}
	return buf.Bytes(), nil
}

func render(graph chart.Chart) ([]byte, error) {
	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render %q: %w", graph.Title, err)
	}
	return buf.Bytes(), nil
}

// flatRange pins the y axis around a constant series, which the renderer
// cannot scale on its own. It returns nil otherwise.
func flatRange(ys []float64) chart.Range {
	lo, hi := minOf(ys), maxOf(ys)
	if lo != hi {
		return nil
	}
	return &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
}

func formatEdge(v float64) string {
	s := fmt.Sprintf("%.1f", v)
	s = strings.TrimSuffix(s, ".0")
	if s == "-0" {
		return "0"
	}
	return s
}

func minOf(vs []float64) float64 {
	m := math.Inf(1)
	for _, v := range vs {
		m = math.Min(m, v)
	}
	return m
}

func maxOf(vs []float64) float64 {
	m := math.Inf(-1)
	for _, v := range vs {
		m = math.Max(m, v)
	}
	return m
}
