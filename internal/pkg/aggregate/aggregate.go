// Package aggregate turns the backend's flat per-source daily rows into a
// date-complete series and derives the dashboard's totals.
package aggregate

import (
	"math"
	"time"

	"github.com/dataplunge/dataplunge/internal/pkg/backend"
	"github.com/dataplunge/dataplunge/internal/pkg/daterange"
)

// DayRow is the sum of every source's metrics for one calendar day.
type DayRow struct {
	Date        time.Time `json:"-"`
	Costs       float64   `json:"costs"`
	Impressions int64     `json:"impressions"`
	Clicks      int64     `json:"clicks"`
	Sessions    int64     `json:"sessions"`
	Conversions int64     `json:"conversions"`
}

// Day returns the row's date as YYYY-MM-DD.
func (d DayRow) Day() string {
	return d.Date.Format(time.DateOnly)
}

// Daily returns exactly one row per day of r, ascending. Days without input
// are zero rows; rows outside r are ignored.
func Daily(rows []backend.PerformanceRow, r daterange.Range) ([]DayRow, error) {
	if err := r.Check(); err != nil {
		return nil, err
	}

	out := make([]DayRow, 0, r.Days())
	index := make(map[time.Time]int, r.Days())
	r.Each(func(day time.Time) {
		index[day] = len(out)
		out = append(out, DayRow{Date: day})
	})

	for _, row := range rows {
		if row.Date.IsZero() {
			continue
		}
		i, ok := index[daterange.Day(row.Date.Time)]
		if !ok {
			continue
		}
		out[i].Costs += float64(row.Costs)
		out[i].Impressions += int64(row.Impressions)
		out[i].Clicks += int64(row.Clicks)
		out[i].Sessions += int64(row.Sessions)
		out[i].Conversions += int64(row.Conversions)
	}
	return out, nil
}

// Totals is a metric sum over any set of rows.
type Totals struct {
	Costs       float64 `json:"costs"`
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	Sessions    int64   `json:"sessions"`
	Conversions int64   `json:"conversions"`
}

func Sum(days []DayRow) Totals {
	var t Totals
	for _, d := range days {
		t.Costs += d.Costs
		t.Impressions += d.Impressions
		t.Clicks += d.Clicks
		t.Sessions += d.Sessions
		t.Conversions += d.Conversions
	}
	return t
}

func (t Totals) CostPerConversion() float64 {
	return SafeDiv(t.Costs, float64(t.Conversions))
}

func (t Totals) CostPerClick() float64 {
	return SafeDiv(t.Costs, float64(t.Clicks))
}

// SafeDiv returns 0 when the divisor is 0.
func SafeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
