package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/dataplunge/dataplunge/internal/pkg/backend"
	"github.com/dataplunge/dataplunge/internal/pkg/session"
	icuser "github.com/dataplunge/dataplunge/internal/pkg/usercontext"
)

// RequireAuth ensures a logged-in web session; redirects to /login if missing.
func RequireAuth(c *fiber.Ctx) error {
	if !fromProtected(c) {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}
	return c.Next()
}

// RequireGuest sends logged-in users away from the login and register pages.
func RequireGuest(c *fiber.Ctx) error {
	if fromProtected(c) {
		return c.Redirect("/", fiber.StatusSeeOther)
	}
	return c.Next()
}

// RequireAPISessionAuth ensures a logged-in session for API routes and returns JSON 401 instead of redirect.
func RequireAPISessionAuth(c *fiber.Ctx) error {
	if !fromProtected(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "login required",
		})
	}
	return c.Next()
}

func fromProtected(c *fiber.Ctx) bool {
	b, _ := c.Locals(icuser.KeyFromProtected).(bool)
	return b
}

// CheckAuth validates token against /auth/me and caches the user in the
// session. Any failure clears the token.
func CheckAuth(c *fiber.Ctx, token string) (backend.User, error) {
	if token == "" {
		return backend.User{}, backend.ErrUnauthorized
	}
	u, err := backend.GetClient().WithToken(token).Me(c.UserContext())
	if err != nil {
		log.Warnf("[Auth] token validation failed: %v", err)
		if clearErr := session.ClearAuth(c); clearErr != nil {
			log.Errorf("[Auth] clear session: %v", clearErr)
		}
		return backend.User{}, err
	}
	if err := session.SetUser(c, token, u); err != nil {
		return u, err
	}
	return u, nil
}

// IsUnauthorized reports whether err is the backend rejecting the session's token.
func IsUnauthorized(err error) bool {
	return errors.Is(err, backend.ErrUnauthorized)
}

// HandleUnauthorized clears the stored token and sends the browser to /login.
// Every backend 401 on a page request ends here.
func HandleUnauthorized(c *fiber.Ctx) error {
	if err := session.ClearAuth(c); err != nil {
		log.Errorf("[Auth] clear session after 401: %v", err)
	}
	c.Locals(icuser.KeyUserContext, icuser.UserContext{})
	c.Locals(icuser.KeyFromProtected, false)
	return c.Redirect("/login", fiber.StatusSeeOther)
}
