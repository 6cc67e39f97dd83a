package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dataplunge/dataplunge/app/controllers"
	"github.com/dataplunge/dataplunge/internal/pkg/constants"
	"github.com/dataplunge/dataplunge/internal/pkg/middleware"
)

// registerPublicRoutes holds everything that is not a form post.
func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	app.Get("/docs/api", func(c *fiber.Ctx) error {
		return c.Redirect("/docs/api/v1", fiber.StatusMovedPermanently)
	})

	// Backend Google sign-in
	app.Get("/auth/google", middleware.RequireGuest, controllers.HandleGoogleLogin)
	app.Get("/auth/callback", controllers.HandleAuthCallback)

	// Browser Google identity for the GA wizard
	app.Get("/identity/:provider", controllers.HandleIdentityBegin)
	app.Get("/identity/:provider/callback", controllers.HandleIdentityCallback)

	// Dashboard fragments
	app.Get(constants.ChartPartialRoute, middleware.RequireAuth, controllers.HandleChartPartial)
	app.Get(constants.InsightsPartial, middleware.RequireAuth, controllers.HandleInsightsPartial)

	// CSV exports
	app.Get(constants.ChannelsRoute+"/export.csv", middleware.RequireAuth, controllers.HandleChannelsExport)
	app.Get(constants.CampaignsRoute+"/export.csv", middleware.RequireAuth, controllers.HandleCampaignsExport)
}
