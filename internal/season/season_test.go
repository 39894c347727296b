package season

import (
	"testing"
	"time"

	"github.com/lox/weatherboard/internal/models"
)

func TestOf(t *testing.T) {
	tests := []struct {
		month time.Month
		want  models.Season
	}{
		{time.January, models.Winter},
		{time.February, models.Winter},
		{time.March, models.Spring},
		{time.April, models.Spring},
		{time.May, models.Spring},
		{time.June, models.Summer},
		{time.July, models.Summer},
		{time.August, models.Summer},
		{time.September, models.Fall},
		{time.October, models.Fall},
		{time.November, models.Fall},
		{time.December, models.Winter},
	}

	for _, tt := range tests {
		t.Run(tt.month.String(), func(t *testing.T) {
			if got := Of(tt.month); got != tt.want {
				t.Errorf("Of(%s) = %s, want %s", tt.month, got, tt.want)
			}
		})
	}
}

func TestOf_OutOfRange(t *testing.T) {
	for _, m := range []time.Month{0, 13, -1} {
		if got := Of(m); got != "" {
			t.Errorf("Of(%d) = %q, want empty", m, got)
		}
	}
}

func TestOfDate_DependsOnlyOnMonth(t *testing.T) {
	for m := time.January; m <= time.December; m++ {
		want := Of(m)
		for _, year := range []int{1900, 2000, 2023, 2024, 2100} {
			last := time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
			for _, day := range []int{1, 15, last} {
				d := time.Date(year, m, day, 23, 59, 0, 0, time.UTC)
				if got := OfDate(d); got != want {
					t.Errorf("OfDate(%s) = %s, want %s", d.Format("2006-01-02"), got, want)
				}
			}
		}
	}
}

func TestOfDate_Boundaries(t *testing.T) {
	tests := []struct {
		date string
		want models.Season
	}{
		{"2023-02-28", models.Winter},
		{"2024-02-29", models.Winter},
		{"2023-03-01", models.Spring},
		{"2023-05-31", models.Spring},
		{"2023-06-01", models.Summer},
		{"2023-08-31", models.Summer},
		{"2023-09-01", models.Fall},
		{"2023-11-30", models.Fall},
		{"2023-12-01", models.Winter},
		{"2023-12-31", models.Winter},
		{"2024-01-01", models.Winter},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			d, err := time.Parse("2006-01-02", tt.date)
			if err != nil {
				t.Fatal(err)
			}
			if got := OfDate(d); got != tt.want {
				t.Errorf("OfDate(%s) = %s, want %s", tt.date, got, tt.want)
			}
		})
	}
}
