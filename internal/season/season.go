// Package season classifies observations by meteorological season and builds
// the weather-type frequency table shown by the seasonal pie charts.
package season

import (
	"time"

	"github.com/lox/weatherboard/internal/models"
)

// byMonth is indexed by time.Month; index 0 is unused.
var byMonth = [13]models.Season{
	time.January:   models.Winter,
	time.February:  models.Winter,
	time.March:     models.Spring,
	time.April:     models.Spring,
	time.May:       models.Spring,
	time.June:      models.Summer,
	time.July:      models.Summer,
	time.August:    models.Summer,
	time.September: models.Fall,
	time.October:   models.Fall,
	time.November:  models.Fall,
	time.December:  models.Winter,
}

// Of returns the season for a calendar month, or "" for a value outside
// January..December.
func Of(m time.Month) models.Season {
	if m < time.January || m > time.December {
		return ""
	}
	return byMonth[m]
}

// OfDate returns the season of the date's month.
func OfDate(t time.Time) models.Season {
	return Of(t.Month())
}
