package controllers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"golang.org/x/sync/errgroup"

	"github.com/dataplunge/dataplunge/app/repository"
	"github.com/dataplunge/dataplunge/internal/pkg/aggregate"
	"github.com/dataplunge/dataplunge/internal/pkg/backend"
	"github.com/dataplunge/dataplunge/internal/pkg/connector"
	"github.com/dataplunge/dataplunge/internal/pkg/insights"
	"github.com/dataplunge/dataplunge/internal/pkg/middleware"
	"github.com/dataplunge/dataplunge/internal/pkg/onboarding"
	"github.com/dataplunge/dataplunge/internal/pkg/usercontext"
	"github.com/dataplunge/dataplunge/internal/pkg/viewmodel"
)

// HandleDashboard renders the summary cards, chart and insights for the
// session's range. Performance, data sources and insights load concurrently;
// only a performance failure is shown to the user.
func HandleDashboard(c *fiber.Ctx) error {
	r := ranges().Load(c)
	vm := viewmodel.Dashboard{Layout: layout(c, "Dashboard", "dashboard")}
	client := api(c)
	userID := usercontext.GetUserID(c)

	tag, ok := beginFetch(c, r)
	if !ok {
		return c.Redirect(c.OriginalURL(), fiber.StatusSeeOther)
	}

	var (
		rows       []backend.PerformanceRow
		sources    []backend.DataSource
		sourcesErr error
	)
	// siblings share tag.ctx so a performance failure leaves them running
	var g errgroup.Group
	g.Go(func() error {
		var err error
		rows, err = client.FilterPerformance(tag.ctx, r)
		return err
	})
	g.Go(func() error {
		sources, sourcesErr = client.DataSources(tag.ctx)
		return nil
	})
	g.Go(func() error {
		// warms the cache for the insights fragment
		_, err := insights.GetService().Messages(tag.ctx, userID, r, func(ctx context.Context) ([]backend.Insight, error) {
			return client.Insights(ctx, r)
		})
		if err != nil {
			log.Warnf("[Dashboard] insights for %s: %v", r, err)
		}
		return nil
	})
	err := g.Wait()

	if tag.Stale() {
		return c.Redirect(c.OriginalURL(), fiber.StatusSeeOther)
	}
	if unauthorized(err) || unauthorized(sourcesErr) {
		return middleware.HandleUnauthorized(c)
	}
	if err != nil {
		log.Errorf("[Dashboard] performance for %s: %v", r, err)
		showError(&vm.Layout, "load performance data", err)
		rows = nil
	}

	days, err := aggregate.Daily(rows, r)
	if err != nil {
		log.Errorf("[Dashboard] aggregate %s: %v", r, err)
	}
	vm.Days = days
	vm.Summary = viewmodel.NewSummary(aggregate.Sum(days))
	vm.HasData = len(rows) > 0

	if sourcesErr != nil {
		log.Warnf("[Dashboard] data sources: %v", sourcesErr)
	}
	in := onboarding.Input{
		Forced:       c.Query("setup") == "true",
		Sources:      sources,
		SourcesFound: sourcesErr == nil,
	}
	dismissed, prefErr := repository.GetGlobalFactory().GetPreferenceRepository().IsOnboardingDismissed(userID)
	if prefErr != nil {
		log.Warnf("[Dashboard] onboarding preference for user %d: %v", userID, prefErr)
	}
	in.Dismissed = prefErr == nil && dismissed

	if onboarding.ShouldShow(in) {
		vm.Onboarding = &viewmodel.OnboardingModal{
			Options: onboarding.Options(connector.Default(), sources),
		}
	}

	return c.Render("dashboard", vm, mainLayout)
}
