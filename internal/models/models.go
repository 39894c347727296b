package models

import "time"

// Observation is one daily row of the input CSV.
type Observation struct {
	Date          time.Time `json:"date"`
	Temperature   float64   `json:"temperature"`   // °C
	Precipitation float64   `json:"precipitation"` // mm
	Humidity      float64   `json:"humidity"`      // %
	WeatherType   string    `json:"weather_type"`
}

type Season string

const (
	Spring Season = "Spring"
	Summer Season = "Summer"
	Fall   Season = "Fall"
	Winter Season = "Winter"
)

// Seasons lists the seasons in calendar order. Table columns follow this order.
var Seasons = []Season{Spring, Summer, Fall, Winter}

// Slug is the lowercase form used in URLs and file names.
func (s Season) Slug() string {
	switch s {
	case Spring:
		return "spring"
	case Summer:
		return "summer"
	case Fall:
		return "fall"
	case Winter:
		return "winter"
	}
	return ""
}

// ParseSeason accepts either the display name or the slug.
func ParseSeason(s string) (Season, bool) {
	for _, season := range Seasons {
		if s == string(season) || s == season.Slug() {
			return season, true
		}
	}
	return "", false
}

type Metric string

const (
	MetricTemperature   Metric = "temperature"
	MetricPrecipitation Metric = "precipitation"
	MetricHumidity      Metric = "humidity"
)

var Metrics = []Metric{MetricTemperature, MetricPrecipitation, MetricHumidity}

// Label returns the axis label for a metric, with units.
func (m Metric) Label() string {
	switch m {
	case MetricTemperature:
		return "Temperature (°C)"
	case MetricPrecipitation:
		return "Precipitation (mm)"
	case MetricHumidity:
		return "Humidity (%)"
	}
	return string(m)
}

type ChartKind string

const (
	ChartLine      ChartKind = "line"
	ChartHistogram ChartKind = "histogram"
)

var ChartKinds = []ChartKind{ChartLine, ChartHistogram}
