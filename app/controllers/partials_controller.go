package controllers

import (
	"context"

	"github.com/a-h/templ"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/dataplunge/dataplunge/internal/pkg/aggregate"
	"github.com/dataplunge/dataplunge/internal/pkg/backend"
	"github.com/dataplunge/dataplunge/internal/pkg/chart"
	"github.com/dataplunge/dataplunge/internal/pkg/insights"
	"github.com/dataplunge/dataplunge/internal/pkg/metrics"
	"github.com/dataplunge/dataplunge/internal/pkg/middleware"
	"github.com/dataplunge/dataplunge/internal/pkg/session"
	"github.com/dataplunge/dataplunge/internal/pkg/usercontext"
	"github.com/dataplunge/dataplunge/internal/pkg/viewmodel"
	"github.com/dataplunge/dataplunge/views/components"
)

const carouselKey = "insights_carousel"

// partialRangeMatches checks the ?range tag against the session's range.
// Fragments requested for an old range answer 204 so the page keeps its content.
func partialRangeMatches(c *fiber.Ctx, key string) bool {
	if key != "" && key != ranges().Load(c).Key() {
		metrics.IncStale()
		return false
	}
	return true
}

// GET /partials/chart?range=
func HandleChartPartial(c *fiber.Ctx) error {
	if !partialRangeMatches(c, c.Query("range")) {
		return c.SendStatus(fiber.StatusNoContent)
	}
	r := ranges().Load(c)
	client := api(c)

	rows, stale, err := tagged(c, r, func(ctx context.Context) ([]backend.PerformanceRow, error) {
		return client.FilterPerformance(ctx, r)
	})
	if stale {
		return c.SendStatus(fiber.StatusNoContent)
	}
	if err != nil {
		if unauthorized(err) {
			return middleware.HandleUnauthorized(c)
		}
		log.Errorf("[Chart] performance for %s: %v", r, err)
		rows = nil
	}

	days, err := aggregate.Daily(rows, r)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	frame, err := chart.Performance(days)
	if err != nil {
		log.Errorf("[Chart] render: %v", err)
		return fiber.ErrInternalServerError
	}

	page := components.ChartFrame(frame)
	handler := adaptor.HTTPHandler(templ.Handler(page))
	return handler(c)
}

// GET /partials/insights?range=&move=next|prev
func HandleInsightsPartial(c *fiber.Ctx) error {
	if !partialRangeMatches(c, c.Query("range")) {
		return c.SendStatus(fiber.StatusNoContent)
	}
	r := ranges().Load(c)
	client := api(c)
	userID := usercontext.GetUserID(c)

	msgs, stale, err := tagged(c, r, func(ctx context.Context) ([]string, error) {
		return insights.GetService().Messages(ctx, userID, r, func(ctx context.Context) ([]backend.Insight, error) {
			return client.Insights(ctx, r)
		})
	})
	if stale {
		return c.SendStatus(fiber.StatusNoContent)
	}

	var carousel insights.Carousel
	if err != nil {
		if unauthorized(err) {
			return middleware.HandleUnauthorized(c)
		}
		log.Errorf("[Insights] load for %s: %v", r, err)
		carousel = insights.Failure()
	} else {
		saved := insights.ParseState(session.GetSessionValue(c, carouselKey))
		carousel = insights.Restore(msgs, saved)
		carousel.Move(c.Query("move"))
		if err := session.SetSessionValue(c, carouselKey, carousel.State().String()); err != nil {
			log.Warnf("[Insights] save carousel: %v", err)
		}
	}

	fragment := components.Insights(viewmodel.InsightsPartial{
		Carousel: carousel,
		RangeKey: r.Key(),
	})
	handler := adaptor.HTTPHandler(templ.Handler(fragment))
	return handler(c)
}
