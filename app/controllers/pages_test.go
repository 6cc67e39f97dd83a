package controllers

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataplunge/dataplunge/internal/pkg/inflight"
)

const (
	onboardingTitle  = "Welcome to Data Plunge!"
	marchPerformance = `[{"date":"2024-03-02","source":"google","costs":12.5,"impressions":1000,"clicks":25,"sessions":20,"conversions":5}]`
	metaConnected    = `[{"id":1,"source_name":"Meta Ads","status":"connected"}]`
)

func (e *testEnv) selectMarch(t *testing.T) {
	t.Helper()
	resp := e.post(t, "/range", url.Values{"start_date": {"2024-03-01"}, "end_date": {"2024-03-31"}})
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
}

func TestDashboardRendersSummary(t *testing.T) {
	env := newTestEnv(t)
	env.backend.handle("GET /filter-performance", respond(http.StatusOK, marchPerformance))
	env.backend.handle("GET /user/datasources", respond(http.StatusOK, metaConnected))
	env.selectMarch(t)

	resp := env.get(t, "/")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	html := body(t, resp)

	assert.Contains(t, html, "<h1>Dashboard</h1>")
	assert.Contains(t, html, "2024-03-01 to 2024-03-31")
	assert.Contains(t, html, "CHF 12.50")
	assert.Contains(t, html, "CHF 2.50")
	assert.Contains(t, html, "CHF 0.50")
	assert.Contains(t, html, `class="chart-frame"`)
	assert.Contains(t, html, "/partials/chart?range=2024-03-01")
	assert.NotContains(t, html, onboardingTitle)
}

func TestDashboardWithoutDataShowsEmptyState(t *testing.T) {
	env := newTestEnv(t)
	env.backend.handle("GET /filter-performance", respond(http.StatusOK, `[]`))
	env.backend.handle("GET /user/datasources", respond(http.StatusOK, metaConnected))

	html := body(t, env.get(t, "/"))
	assert.Contains(t, html, "No data for this range")
	assert.NotContains(t, html, `class="chart-frame"`)
}

func TestDashboardOnboarding(t *testing.T) {
	t.Run("shown without sources", func(t *testing.T) {
		env := newTestEnv(t)
		env.backend.handle("GET /filter-performance", respond(http.StatusOK, `[]`))
		env.backend.handle("GET /user/datasources", respond(http.StatusOK, `[]`))

		html := body(t, env.get(t, "/"))
		assert.Contains(t, html, onboardingTitle)
		assert.Contains(t, html, `action="/onboarding/next"`)
		assert.Contains(t, html, `value="google-ads"`)
	})

	t.Run("hidden after dismissal", func(t *testing.T) {
		env := newTestEnv(t)
		env.backend.handle("GET /filter-performance", respond(http.StatusOK, `[]`))
		env.backend.handle("GET /user/datasources", respond(http.StatusOK, `[]`))
		env.post(t, "/onboarding/dismiss", nil)

		assert.NotContains(t, body(t, env.get(t, "/")), onboardingTitle)
	})

	t.Run("forced by setup", func(t *testing.T) {
		env := newTestEnv(t)
		env.backend.handle("GET /filter-performance", respond(http.StatusOK, `[]`))
		env.backend.handle("GET /user/datasources", respond(http.StatusOK, metaConnected))
		env.post(t, "/onboarding/dismiss", nil)

		assert.NotContains(t, body(t, env.get(t, "/")), onboardingTitle)

		html := body(t, env.get(t, "/?setup=true"))
		assert.Contains(t, html, onboardingTitle)
		assert.Contains(t, html, `<span class="badge">Connected</span>`)
	})

	t.Run("hidden when sources cannot be loaded", func(t *testing.T) {
		env := newTestEnv(t)
		env.backend.handle("GET /filter-performance", respond(http.StatusOK, `[]`))
		env.backend.handle("GET /user/datasources", respond(http.StatusInternalServerError, `{"error":"down"}`))

		resp := env.get(t, "/")
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.NotContains(t, body(t, resp), onboardingTitle)
	})
}

func TestDashboardRedirectsWhenRangeChangesMidFetch(t *testing.T) {
	env := newTestEnv(t)
	sid := env.sessionID()
	env.backend.handle("GET /filter-performance", func(w http.ResponseWriter, r *http.Request) {
		inflight.Default().Switch(sid, "2000-01-01|2000-01-31")
		respond(http.StatusOK, `[]`)(w, r)
	})
	env.backend.handle("GET /user/datasources", respond(http.StatusOK, `[]`))

	resp := env.get(t, "/")
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
}

func TestDashboardPerformanceFailureKeepsOtherFetches(t *testing.T) {
	env := newTestEnv(t)
	failed := make(chan struct{})
	env.backend.handle("GET /filter-performance", func(w http.ResponseWriter, r *http.Request) {
		respond(http.StatusInternalServerError, `{"error":"warehouse down"}`)(w, r)
		close(failed)
	})
	// answers only after the performance fetch has failed
	env.backend.handle("GET /user/datasources", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-failed:
		case <-time.After(2 * time.Second):
		}
		time.Sleep(50 * time.Millisecond)
		respond(http.StatusOK, `[]`)(w, r)
	})

	resp := env.get(t, "/")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	html := body(t, resp)

	assert.Contains(t, html, "Failed to load performance data: warehouse down")
	assert.Contains(t, html, "No data for this range")
	assert.Contains(t, html, onboardingTitle)
}

func TestChannelsPage(t *testing.T) {
	env := newTestEnv(t)
	env.backend.handle("GET /aggregated-performance", respond(http.StatusOK, `[
		{"source":"google","costs":10.5,"impressions":100,"clicks":10,"cost_per_click":1.05,"sessions":8,"conversions":2,"cost_per_conversion":5.25},
		{"source":"meta","costs":4.5,"impressions":50,"clicks":5,"cost_per_click":0.9,"sessions":4,"conversions":1,"cost_per_conversion":4.5}
	]`))
	env.selectMarch(t)

	resp := env.get(t, "/channels")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	html := body(t, resp)

	assert.Contains(t, html, "<h1>Channels</h1>")
	assert.Contains(t, html, "<td>google</td>")
	assert.Contains(t, html, "<td>meta</td>")
	assert.Contains(t, html, "<th>CHF 15.00</th>")
	assert.Contains(t, html, "<th>150</th>")
	assert.Contains(t, html, `href="/channels/export.csv"`)
}

func TestChannelsPageBackendFailure(t *testing.T) {
	env := newTestEnv(t)
	env.backend.handle("GET /aggregated-performance", respond(http.StatusBadGateway, `{"error":"warehouse down"}`))

	resp := env.get(t, "/channels")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	html := body(t, resp)
	assert.Contains(t, html, "Failed to load channel performance: warehouse down")
	assert.Contains(t, html, "No data for this range")
}

func TestCampaignsPageFilters(t *testing.T) {
	env := newTestEnv(t)
	env.backend.handle("GET /get-campaigns", respond(http.StatusOK, `[
		{"traffic_source":"google","campaign_name":"Brand","costs":8,"impressions":80,"clicks":8,"sessions":6,"conversions":2},
		{"traffic_source":"meta","campaign_name":"Retargeting","costs":4,"impressions":40,"clicks":2,"sessions":2,"conversions":0}
	]`))

	resp := env.get(t, "/campaigns?q=brand")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	html := body(t, resp)

	assert.Contains(t, html, "<h1>Campaigns</h1>")
	assert.Contains(t, html, "<td>Brand</td>")
	assert.NotContains(t, html, "<td>Retargeting</td>")
	assert.Contains(t, html, `value="brand"`)
	assert.Contains(t, html, `<a href="/campaigns">Clear</a>`)

	html = body(t, env.get(t, "/campaigns"))
	assert.Contains(t, html, "<td>Retargeting</td>")
}
