package viewmodel

import (
	"github.com/dataplunge/dataplunge/internal/pkg/aggregate"
	"github.com/dataplunge/dataplunge/internal/pkg/backend"
	"github.com/dataplunge/dataplunge/internal/pkg/connector"
	"github.com/dataplunge/dataplunge/internal/pkg/insights"
	"github.com/dataplunge/dataplunge/internal/pkg/oauth"
	"github.com/dataplunge/dataplunge/internal/pkg/onboarding"
)

type Auth struct {
	Layout
	Email           string
	FullName        string
	HCaptchaSitekey string
}

// Summary holds the dashboard cards.
type Summary struct {
	Costs             float64
	Sessions          int64
	Conversions       int64
	CostPerConversion float64
	Impressions       int64
	Clicks            int64
	CostPerClick      float64
}

func NewSummary(t aggregate.Totals) Summary {
	return Summary{
		Costs:             t.Costs,
		Sessions:          t.Sessions,
		Conversions:       t.Conversions,
		CostPerConversion: t.CostPerConversion(),
		Impressions:       t.Impressions,
		Clicks:            t.Clicks,
		CostPerClick:      t.CostPerClick(),
	}
}

type Dashboard struct {
	Layout
	Days       []aggregate.DayRow
	Summary    Summary
	HasData    bool
	Onboarding *OnboardingModal
}

type OnboardingModal struct {
	Options []onboarding.Option
}

type Channels struct {
	Layout
	Rows  []backend.ChannelRow
	Total aggregate.TableTotal
}

type Campaigns struct {
	Layout
	Rows  []backend.CampaignRow
	Total aggregate.TableTotal
	Query string
	// Unfiltered is the row count before the text filter.
	Unfiltered int
}

type DataSourceCard struct {
	ID          int64
	Name        string
	Status      string
	ConnectedAt string
	LastSync    string
	// ReconnectPath is set for expired sources with a wizard.
	ReconnectPath string
}

type DataSources struct {
	Layout
	Sources []DataSourceCard
}

type AddDataSource struct {
	Layout
	Sources []connector.AddSource
}

type Connect struct {
	Layout
	Provider connector.Provider
	Wizard   *connector.Wizard
	// Identity is only set on the Google Analytics credentials step.
	Identity     *oauth.Identity
	ShowIdentity bool
}

// InsightsPartial is the carousel fragment.
type InsightsPartial struct {
	Carousel insights.Carousel
	RangeKey string
}
