package router

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/csrf"

	"github.com/dataplunge/dataplunge/app/controllers"
	"github.com/dataplunge/dataplunge/internal/pkg/constants"
	"github.com/dataplunge/dataplunge/internal/pkg/env"
	"github.com/dataplunge/dataplunge/internal/pkg/middleware"
)

func (h HttpRouter) registerCSRFProtectedRoutes(app *fiber.App) {
	csrfConf := csrf.Config{
		KeyLookup:      "form:_csrf",
		ContextKey:     "csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		Expiration:     1 * time.Hour,
		CookieSecure:   !env.IsDev(),
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/api/")
		},
	}

	group := app.Group("", cors.New(), csrf.New(csrfConf))

	// Auth
	group.Get(constants.LoginRoute, middleware.RequireGuest, controllers.HandleAuthLogin)
	group.Post(constants.LoginRoute, middleware.RequireGuest, controllers.HandleAuthLogin)
	group.Get(constants.RegisterRoute, middleware.RequireGuest, controllers.HandleAuthRegister)
	group.Post(constants.RegisterRoute, middleware.RequireGuest, controllers.HandleAuthRegister)
	group.Post(constants.LogoutRoute, controllers.HandleAuthLogout)

	// Reporting
	group.Get(constants.DashboardRoute, middleware.RequireAuth, controllers.HandleDashboard)
	group.Get(constants.ChannelsRoute, middleware.RequireAuth, controllers.HandleChannels)
	group.Get(constants.CampaignsRoute, middleware.RequireAuth, controllers.HandleCampaigns)
	group.Post("/range", middleware.RequireAuth, controllers.HandleRangeUpdate)

	// Data sources
	group.Get(constants.DataSourcesRoute, middleware.RequireAuth, controllers.HandleDataSources)
	group.Post(constants.DataSourcesRoute+"/:id/delete", middleware.RequireAuth, controllers.HandleDataSourceDelete)
	group.Get(constants.AddDataSourceRoute, middleware.RequireAuth, controllers.HandleAddDataSource)
	group.Post(constants.AddDataSourceRoute, middleware.RequireAuth, controllers.HandleAddDataSourceSubmit)
	group.Get("/connect/:provider", middleware.RequireAuth, controllers.HandleConnect)
	group.Post("/connect/:provider", middleware.RequireAuth, controllers.HandleConnectAction)

	// Onboarding modal
	group.Post("/onboarding/dismiss", middleware.RequireAuth, controllers.HandleOnboardingDismiss)
	group.Post("/onboarding/next", middleware.RequireAuth, controllers.HandleOnboardingNext)
}
