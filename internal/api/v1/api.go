// Package apiv1 serves the session-authenticated JSON API described in
// public/docs/v1/openapi.yml.
package apiv1

import (
	"github.com/gofiber/fiber/v2"
)

// Pong defines model for Pong.
type Pong struct {
	Ping string `json:"ping"`
}

// Error defines model for Error.
type Error struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// DailyPoint defines model for DailyPoint.
type DailyPoint struct {
	Date        string  `json:"date"`
	Costs       float64 `json:"costs"`
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	Sessions    int64   `json:"sessions"`
	Conversions int64   `json:"conversions"`
}

// DailyPerformance defines model for DailyPerformance.
type DailyPerformance struct {
	Start string       `json:"start"`
	End   string       `json:"end"`
	Days  []DailyPoint `json:"days"`
}

// Summary defines model for Summary.
type Summary struct {
	Start             string  `json:"start"`
	End               string  `json:"end"`
	Costs             float64 `json:"costs"`
	Sessions          int64   `json:"sessions"`
	Conversions       int64   `json:"conversions"`
	CostPerConversion float64 `json:"cost_per_conversion"`
	Impressions       int64   `json:"impressions"`
	Clicks            int64   `json:"clicks"`
	CostPerClick      float64 `json:"cost_per_click"`
}

// PerformanceParams defines parameters for the performance endpoints.
type PerformanceParams struct {
	// Start is YYYY-MM-DD; omitted together with End to use the session's range.
	Start *string `json:"start,omitempty"`
	End   *string `json:"end,omitempty"`
}

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (GET /ping)
	GetPing(c *fiber.Ctx) error
	// (GET /performance/daily)
	GetPerformanceDaily(c *fiber.Ctx, params PerformanceParams) error
	// (GET /performance/summary)
	GetPerformanceSummary(c *fiber.Ctx, params PerformanceParams) error
}

// ServerInterfaceWrapper converts fiber contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func performanceParams(c *fiber.Ctx) PerformanceParams {
	var params PerformanceParams
	if v := c.Query("start"); v != "" {
		params.Start = &v
	}
	if v := c.Query("end"); v != "" {
		params.End = &v
	}
	return params
}

// GetPing operation middleware
func (siw *ServerInterfaceWrapper) GetPing(c *fiber.Ctx) error {
	return siw.Handler.GetPing(c)
}

// GetPerformanceDaily operation middleware
func (siw *ServerInterfaceWrapper) GetPerformanceDaily(c *fiber.Ctx) error {
	return siw.Handler.GetPerformanceDaily(c, performanceParams(c))
}

// GetPerformanceSummary operation middleware
func (siw *ServerInterfaceWrapper) GetPerformanceSummary(c *fiber.Ctx) error {
	return siw.Handler.GetPerformanceSummary(c, performanceParams(c))
}

// RegisterHandlers creates http.Handler with routing matching public/docs/v1/openapi.yml.
func RegisterHandlers(router fiber.Router, si ServerInterface) {
	wrapper := ServerInterfaceWrapper{Handler: si}

	router.Get("/ping", wrapper.GetPing)
	router.Get("/performance/daily", wrapper.GetPerformanceDaily)
	router.Get("/performance/summary", wrapper.GetPerformanceSummary)
}
