package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Number is a decimal that tolerates JSON numbers, numeric strings and null.
// Anything unparsable counts as zero.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	*n = Number(parseLooseFloat(b))
	return nil
}

// Count is a non-negative integer metric. Fractions are truncated.
type Count int64

func (c *Count) UnmarshalJSON(b []byte) error {
	f := parseLooseFloat(b)
	if f < 0 {
		f = 0
	}
	*c = Count(math.Trunc(f))
	return nil
}

func parseLooseFloat(b []byte) float64 {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return 0
	}
	s := string(b)
	if b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return 0
		}
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

var dateLayouts = []string{
	time.DateOnly,
	time.RFC3339,
	time.RFC1123,
	time.RFC1123Z,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Date is a calendar day decoded from whatever the backend serialises
// (ISO day, RFC 3339 or the RFC 1123 form Flask emits).
type Date struct {
	time.Time
}

func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			t = t.UTC()
			return Date{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}, nil
		}
	}
	return Date{}, fmt.Errorf("unrecognised date %q", s)
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil || s == "" {
		d.Time = time.Time{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(time.DateOnly))
}

// User is the authenticated account as returned by /auth/me, /auth/login and /auth/register.
type User struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	LastLogin string `json:"last_login,omitempty"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Registration struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// PerformanceRow is one day of one source's metrics from /filter-performance.
type PerformanceRow struct {
	Date              Date   `json:"date"`
	Source            string `json:"source"`
	Costs             Number `json:"costs"`
	Impressions       Count  `json:"impressions"`
	Clicks            Count  `json:"clicks"`
	Sessions          Count  `json:"sessions"`
	Conversions       Count  `json:"conversions"`
	CostPerClick      Number `json:"cost_per_click"`
	CostPerConversion Number `json:"cost_per_conversion"`
}

// ChannelRow is one traffic source aggregated over a range.
type ChannelRow struct {
	Source            string `json:"source"`
	Costs             Number `json:"costs"`
	Impressions       Count  `json:"impressions"`
	Clicks            Count  `json:"clicks"`
	CostPerClick      Number `json:"cost_per_click"`
	Sessions          Count  `json:"sessions"`
	Conversions       Count  `json:"conversions"`
	CostPerConversion Number `json:"cost_per_conversion"`
}

// CampaignRow is one campaign aggregated over a range.
type CampaignRow struct {
	TrafficSource     string `json:"traffic_source"`
	CampaignName      string `json:"campaign_name"`
	Costs             Number `json:"costs"`
	Impressions       Count  `json:"impressions"`
	Clicks            Count  `json:"clicks"`
	CostPerClick      Number `json:"cost_per_click"`
	Sessions          Count  `json:"sessions"`
	Conversions       Count  `json:"conversions"`
	CostPerConversion Number `json:"cost_per_conversion"`
}

type Insight struct {
	Date    string `json:"date,omitempty"`
	Message string `json:"message"`
}

// Connection statuses reported for a data source.
const (
	StatusConnected = "connected"
	StatusExpired   = "expired"
	StatusError     = "error"
	StatusUnknown   = "unknown"
)

type DataSource struct {
	ID         int64  `json:"id"`
	SourceName string `json:"source_name"`
	CreatedAt  string `json:"created_at"`
	LastSync   string `json:"last_sync"`
	Status     string `json:"status"`
}

// NormalizedStatus maps anything outside the known set to "unknown".
func (d DataSource) NormalizedStatus() string {
	switch s := strings.ToLower(strings.TrimSpace(d.Status)); s {
	case StatusConnected, StatusExpired, StatusError:
		return s
	default:
		return StatusUnknown
	}
}

type GAProperty struct {
	PropertyID  string `json:"property_id"`
	DisplayName string `json:"display_name"`
	TimeZone    string `json:"time_zone"`
}

type MetaAdAccount struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	AccountStatus int    `json:"account_status"`
}

// Active reports whether Meta considers the account usable (status 1).
func (a MetaAdAccount) Active() bool {
	return a.AccountStatus == 1
}

// Message is the generic {"message": ...} acknowledgement.
type Message struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}
