package season

import (
	"sort"

	"github.com/lox/weatherboard/internal/models"
)

// Table is a dense count of observations per weather type and season.
// Rows are weather types in lexicographic order; columns are models.Seasons.
// Counts[i][j] is the count for WeatherTypes[i] in Seasons[j].
type Table struct {
	WeatherTypes []string        `json:"weather_types"`
	Seasons      []models.Season `json:"seasons"`
	Counts       [][]int         `json:"counts"`
}

type key struct {
	season      models.Season
	weatherType string
}

// Aggregate counts observations by (season, weather type). Every weather type
// present gets a count for all four seasons, zero where nothing was observed.
// An empty input yields a table with no rows and all four season columns.
func Aggregate(observations []models.Observation) *Table {
	counts := make(map[key]int)
	seen := make(map[string]bool)
	var types []string

	for _, obs := range observations {
		k := key{season: OfDate(obs.Date), weatherType: obs.WeatherType}
		counts[k]++
		if !seen[obs.WeatherType] {
			seen[obs.WeatherType] = true
			types = append(types, obs.WeatherType)
		}
	}
	sort.Strings(types)

	seasons := make([]models.Season, len(models.Seasons))
	copy(seasons, models.Seasons)

	t := &Table{
		WeatherTypes: types,
		Seasons:      seasons,
		Counts:       make([][]int, len(types)),
	}
	for i, wt := range types {
		row := make([]int, len(seasons))
		for j, s := range seasons {
			row[j] = counts[key{season: s, weatherType: wt}]
		}
		t.Counts[i] = row
	}
	return t
}

// Count returns the cell for a weather type and season, zero if the weather
// type never occurs.
func (t *Table) Count(weatherType string, s models.Season) int {
	i := t.rowIndex(weatherType)
	j := t.columnIndex(s)
	if i < 0 || j < 0 {
		return 0
	}
	return t.Counts[i][j]
}

// Column returns one season's counts in row order. The slice always has one
// entry per weather type, so a season without observations is all zeros.
func (t *Table) Column(s models.Season) []int {
	col := make([]int, len(t.WeatherTypes))
	j := t.columnIndex(s)
	if j < 0 {
		return col
	}
	for i := range t.WeatherTypes {
		col[i] = t.Counts[i][j]
	}
	return col
}

// ColumnTotal is the number of observations that fell in a season.
func (t *Table) ColumnTotal(s models.Season) int {
	total := 0
	for _, n := range t.Column(s) {
		total += n
	}
	return total
}

// Total is the sum of every cell, which equals the number of observations aggregated.
func (t *Table) Total() int {
	total := 0
	for _, row := range t.Counts {
		for _, n := range row {
			total += n
		}
	}
	return total
}

func (t *Table) rowIndex(weatherType string) int {
	i := sort.SearchStrings(t.WeatherTypes, weatherType)
	if i < len(t.WeatherTypes) && t.WeatherTypes[i] == weatherType {
		return i
	}
	return -1
}

func (t *Table) columnIndex(s models.Season) int {
	for j, c := range t.Seasons {
		if c == s {
			return j
		}
	}
	return -1
}
