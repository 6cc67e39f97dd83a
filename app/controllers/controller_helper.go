package controllers

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/dataplunge/dataplunge/internal/pkg/backend"
	"github.com/dataplunge/dataplunge/internal/pkg/daterange"
	"github.com/dataplunge/dataplunge/internal/pkg/inflight"
	"github.com/dataplunge/dataplunge/internal/pkg/metrics"
	"github.com/dataplunge/dataplunge/internal/pkg/middleware"
	"github.com/dataplunge/dataplunge/internal/pkg/session"
	"github.com/dataplunge/dataplunge/internal/pkg/usercontext"
	"github.com/dataplunge/dataplunge/internal/pkg/viewmodel"
)

const mainLayout = "layouts/main"

func isLoggedIn(c *fiber.Ctx) bool {
	return usercontext.IsLoggedIn(c)
}

func csrfToken(c *fiber.Ctx) string {
	token, _ := c.Locals("csrf").(string)
	return token
}

// ranges is the session-backed date range store.
func ranges() *daterange.Store {
	return daterange.NewStore(session.GetSessionStore())
}

// api returns the backend client bound to the current user's token.
func api(c *fiber.Ctx) *backend.Client {
	return backend.GetClient().WithToken(usercontext.GetToken(c))
}

// layout collects what layouts/main needs. The pending flash is consumed here.
func layout(c *fiber.Ctx, page, active string) viewmodel.Layout {
	return viewmodel.Layout{
		Page:          page,
		Active:        active,
		FromProtected: isLoggedIn(c),
		Msg:           flash.Get(c),
		User:          usercontext.GetUserContext(c),
		CSRF:          csrfToken(c),
		Range:         ranges().Load(c),
		ReturnTo:      c.OriginalURL(),
	}
}

// errorMsg builds a flash map naming the failed operation.
func errorMsg(operation string, err error) fiber.Map {
	return fiber.Map{
		"type":    "error",
		"message": fmt.Sprintf("Failed to %s: %v", operation, err),
	}
}

// showError puts an error on the page being rendered unless a flash is already shown.
func showError(l *viewmodel.Layout, operation string, err error) {
	if l.Msg == nil {
		l.Msg = errorMsg(operation, err)
	}
}

func redirectWithError(c *fiber.Ctx, path, message string) error {
	fm := fiber.Map{
		"type":    "error",
		"message": message,
	}
	return flash.WithError(c, fm).Redirect(path)
}

func redirectWithSuccess(c *fiber.Ctx, path, message string) error {
	fm := fiber.Map{
		"type":    "success",
		"message": message,
	}
	return flash.WithSuccess(c, fm).Redirect(path)
}

// safeReturn only accepts local paths.
func safeReturn(raw string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return "/"
	}
	return raw
}

// fetchTag ties backend fetches to the range they were issued for.
type fetchTag struct {
	ctx  context.Context
	done func()
	sid  string
	key  string
}

// beginFetch registers a fetch for the session's range r. ok is false when
// another range was saved since this request loaded r.
func beginFetch(c *fiber.Ctx, r daterange.Range) (tag *fetchTag, ok bool) {
	sid := session.ID(c)
	key := r.Key()
	// re-read: a range saved since this request started wins
	if ranges().Load(c).Key() != key {
		metrics.IncStale()
		return nil, false
	}
	reg := inflight.Default()
	reg.Switch(sid, key)
	ctx, done := reg.Begin(c.UserContext(), sid, key)
	return &fetchTag{ctx: ctx, done: done, sid: sid, key: key}, true
}

// Stale reports whether the results must be discarded. It releases the tag.
func (t *fetchTag) Stale() bool {
	t.done()
	if inflight.Default().Stale(t.sid, t.key) {
		metrics.IncStale()
		return true
	}
	return false
}

// tagged runs a single fetch for r; stale results come back zeroed.
func tagged[T any](c *fiber.Ctx, r daterange.Range, fetch func(ctx context.Context) (T, error)) (result T, stale bool, err error) {
	var zero T
	tag, ok := beginFetch(c, r)
	if !ok {
		return zero, true, nil
	}
	result, err = fetch(tag.ctx)
	if tag.Stale() {
		return zero, true, nil
	}
	return result, false, err
}

// unauthorized reports whether err must end the session.
func unauthorized(err error) bool {
	return middleware.IsUnauthorized(err)
}
