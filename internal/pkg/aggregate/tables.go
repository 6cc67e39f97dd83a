package aggregate

import (
	"strings"

	"github.com/dataplunge/dataplunge/internal/pkg/backend"
)

// TableTotal is the footer row of the channel and campaign tables.
// Rates are recomputed from the sums, never averaged.
type TableTotal struct {
	Totals
	CostPerClickValue      float64
	CostPerConversionValue float64
}

func newTableTotal(t Totals) TableTotal {
	return TableTotal{
		Totals:                 t,
		CostPerClickValue:      t.CostPerClick(),
		CostPerConversionValue: t.CostPerConversion(),
	}
}

func ChannelTotals(rows []backend.ChannelRow) TableTotal {
	var t Totals
	for _, r := range rows {
		t.Costs += float64(r.Costs)
		t.Impressions += int64(r.Impressions)
		t.Clicks += int64(r.Clicks)
		t.Sessions += int64(r.Sessions)
		t.Conversions += int64(r.Conversions)
	}
	return newTableTotal(t)
}

func CampaignTotals(rows []backend.CampaignRow) TableTotal {
	var t Totals
	for _, r := range rows {
		t.Costs += float64(r.Costs)
		t.Impressions += int64(r.Impressions)
		t.Clicks += int64(r.Clicks)
		t.Sessions += int64(r.Sessions)
		t.Conversions += int64(r.Conversions)
	}
	return newTableTotal(t)
}

// FilterCampaigns keeps rows whose campaign name or traffic source contains
// text, case-insensitively. Blank text keeps everything.
func FilterCampaigns(rows []backend.CampaignRow, text string) []backend.CampaignRow {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return rows
	}
	out := make([]backend.CampaignRow, 0, len(rows))
	for _, r := range rows {
		if strings.Contains(strings.ToLower(r.CampaignName), needle) ||
			strings.Contains(strings.ToLower(r.TrafficSource), needle) {
			out = append(out, r)
		}
	}
	return out
}
