package backend

import (
	"context"
	"fmt"
	"net/url"

	"github.com/dataplunge/dataplunge/internal/pkg/daterange"
)

// Browser-facing OAuth start paths on the backend.
const (
	GoogleLoginPath = "/auth/google/login"
)

func (c *Client) Me(ctx context.Context) (User, error) {
	var u User
	err := c.Get(ctx, "/auth/me", &u)
	return u, err
}

func (c *Client) Login(ctx context.Context, email, password string) (AuthResponse, error) {
	var out AuthResponse
	err := c.Post(ctx, "/auth/login", Credentials{Email: email, Password: password}, &out)
	return out, err
}

func (c *Client) Register(ctx context.Context, email, password, fullName string) (AuthResponse, error) {
	var out AuthResponse
	err := c.Post(ctx, "/auth/register", Registration{Email: email, Password: password, FullName: fullName}, &out)
	return out, err
}

func (c *Client) Logout(ctx context.Context) error {
	return c.Post(ctx, "/auth/logout", nil, nil)
}

func (c *Client) DataSources(ctx context.Context) ([]DataSource, error) {
	var out []DataSource
	err := c.Get(ctx, "/user/datasources", &out)
	return out, err
}

func (c *Client) DeleteDataSource(ctx context.Context, id int64) error {
	return c.Delete(ctx, fmt.Sprintf("/user/datasources/%d", id), nil)
}

// AddDataSource registers a non-OAuth source by its display name.
func (c *Client) AddDataSource(ctx context.Context, source string) (Message, error) {
	var out Message
	err := c.Post(ctx, "/add-data-source", map[string]string{"source": source}, &out)
	return out, err
}

// FilterPerformance returns daily per-source rows for r.
func (c *Client) FilterPerformance(ctx context.Context, r daterange.Range) ([]PerformanceRow, error) {
	q := url.Values{}
	q.Set("range", "range")
	q.Set("value", r.Key())
	var out []PerformanceRow
	err := c.Get(ctx, "/filter-performance?"+q.Encode(), &out)
	return out, err
}

func (c *Client) AggregatedPerformance(ctx context.Context, r daterange.Range) ([]ChannelRow, error) {
	var out []ChannelRow
	err := c.Get(ctx, "/aggregated-performance?"+rangeQuery(r), &out)
	return out, err
}

func (c *Client) Campaigns(ctx context.Context, r daterange.Range) ([]CampaignRow, error) {
	var out []CampaignRow
	err := c.Get(ctx, "/get-campaigns?"+rangeQuery(r), &out)
	return out, err
}

func (c *Client) Insights(ctx context.Context, r daterange.Range) ([]Insight, error) {
	var out []Insight
	err := c.Get(ctx, "/insights?"+rangeQuery(r), &out)
	return out, err
}

func (c *Client) GAProperties(ctx context.Context) ([]GAProperty, error) {
	var out []GAProperty
	err := c.Get(ctx, "/ga/properties", &out)
	return out, err
}

// GAFetchMetrics asks the backend to pull metrics for one GA4 property.
func (c *Client) GAFetchMetrics(ctx context.Context, propertyID string) error {
	return c.Get(ctx, "/ga/fetch-metrics?property_id="+url.QueryEscape(propertyID), nil)
}

func (c *Client) MetaAdAccounts(ctx context.Context) ([]MetaAdAccount, error) {
	var out []MetaAdAccount
	err := c.Get(ctx, "/meta/adaccounts", &out)
	return out, err
}

func (c *Client) MetaSelectAccount(ctx context.Context, accountID string) error {
	return c.Post(ctx, "/meta/select-account", map[string]string{"account_id": accountID}, nil)
}

func (c *Client) GoogleAdsFetchCampaigns(ctx context.Context) error {
	return c.Get(ctx, "/google-ads/fetch-campaigns", nil)
}

func (c *Client) MicrosoftAdsFetchCampaigns(ctx context.Context) error {
	return c.Get(ctx, "/microsoft-ads/fetch-campaigns", nil)
}

func rangeQuery(r daterange.Range) string {
	q := url.Values{}
	q.Set("start_date", r.StartString())
	q.Set("end_date", r.EndString())
	return q.Encode()
}
