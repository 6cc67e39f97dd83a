package router

import (
	"github.com/gofiber/fiber/v2"
)

type Router interface {
	InstallRouter(app *fiber.App)
}

// InstallRouter registers every route. The session store and goth store must
// be set up before; main does that.
func InstallRouter(app *fiber.App) {
	// HttpRouter installs the global UserContext middleware the API routes rely on
	setup(app, NewHttpRouter(), NewApiRouter())
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}
