package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/dataplunge/dataplunge/internal/pkg/session"
	"github.com/dataplunge/dataplunge/internal/pkg/usercontext"
)

// UserContextMiddleware sets up the user context for every request from the
// session. The token is not re-validated on every navigation; only a token
// without a cached user triggers CheckAuth.
func UserContextMiddleware(c *fiber.Ctx) error {
	// goth keeps its own session store on the identity routes
	if strings.HasPrefix(c.Path(), "/identity/") {
		return anonymous(c)
	}

	store := session.GetSessionStore()
	if store == nil {
		return anonymous(c)
	}
	sess, err := store.Get(c)
	if err != nil {
		return anonymous(c)
	}

	token, _ := sess.Get(session.KeyToken).(string)
	if token == "" {
		return anonymous(c)
	}

	userCtx := usercontext.UserContext{Token: token, IsLoggedIn: true}
	userCtx.UserID, _ = sess.Get(session.KeyUserID).(int64)
	userCtx.Email, _ = sess.Get(session.KeyEmail).(string)
	userCtx.FullName, _ = sess.Get(session.KeyFullName).(string)

	if userCtx.UserID == 0 {
		u, err := CheckAuth(c, token)
		if err != nil {
			return anonymous(c)
		}
		userCtx.UserID, userCtx.Email, userCtx.FullName = u.ID, u.Email, u.FullName
	}

	c.Locals(usercontext.KeyUserContext, userCtx)
	c.Locals(usercontext.KeyFromProtected, true)
	c.Locals(usercontext.KeyUserID, userCtx.UserID)
	return c.Next()
}

func anonymous(c *fiber.Ctx) error {
	c.Locals(usercontext.KeyUserContext, usercontext.UserContext{})
	c.Locals(usercontext.KeyFromProtected, false)
	return c.Next()
}
