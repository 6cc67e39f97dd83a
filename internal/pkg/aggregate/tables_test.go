package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dataplunge/dataplunge/internal/pkg/backend"
)

func campaigns() []backend.CampaignRow {
	return []backend.CampaignRow{
		{TrafficSource: "Google Ads", CampaignName: "Brand CH", Costs: 100, Clicks: 50, Conversions: 4, CostPerClick: 2},
		{TrafficSource: "Meta Ads", CampaignName: "Retargeting", Costs: 30, Clicks: 10, Conversions: 0, CostPerClick: 3},
		{TrafficSource: "Google Ads", CampaignName: "Generic", Costs: 20, Clicks: 40, Conversions: 1, CostPerClick: 0.5},
	}
}

func TestFilterCampaigns(t *testing.T) {
	tests := []struct {
		name string
		q    string
		want []string
	}{
		{"blank keeps all", "  ", []string{"Brand CH", "Retargeting", "Generic"}},
		{"by campaign name", "brand", []string{"Brand CH"}},
		{"by traffic source", "META", []string{"Retargeting"}},
		{"by source shared", "google", []string{"Brand CH", "Generic"}},
		{"no match", "tiktok", []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := []string{}
			for _, r := range FilterCampaigns(campaigns(), tc.q) {
				got = append(got, r.CampaignName)
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCampaignTotalsUseSums(t *testing.T) {
	total := CampaignTotals(campaigns())
	assert.Equal(t, 150.0, total.Costs)
	assert.Equal(t, int64(100), total.Clicks)
	assert.Equal(t, int64(5), total.Conversions)
	// 150/100, not the mean of the per-row CPCs
	assert.InDelta(t, 1.5, total.CostPerClickValue, 1e-9)
	assert.InDelta(t, 30.0, total.CostPerConversionValue, 1e-9)
}

func TestChannelTotalsZeroDivisors(t *testing.T) {
	total := ChannelTotals([]backend.ChannelRow{{Source: "Google Analytics", Sessions: 12}})
	assert.Equal(t, int64(12), total.Sessions)
	assert.Zero(t, total.CostPerClickValue)
	assert.Zero(t, total.CostPerConversionValue)

	empty := ChannelTotals(nil)
	assert.Equal(t, TableTotal{}, empty)
}
