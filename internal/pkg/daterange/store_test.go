package daterange

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStoreApp(t *testing.T) *fiber.App {
	t.Helper()
	store := NewStore(session.New())
	store.now = func() time.Time { return time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC) }

	app := fiber.New()
	app.Get("/load", func(c *fiber.Ctx) error {
		return c.SendString(store.Load(c).Key())
	})
	app.Get("/save", func(c *fiber.Ctx) error {
		r, err := Parse(c.Query("start"), c.Query("end"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).SendString(err.Error())
		}
		if _, err := store.Save(c, r); err != nil {
			return err
		}
		return c.SendString("ok")
	})
	return app
}

func body(t *testing.T, app *fiber.App, path, cookie string) (string, string) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var setCookie string
	for _, c := range resp.Header.Values("Set-Cookie") {
		if strings.HasPrefix(c, "session_id=") {
			setCookie = strings.SplitN(c, ";", 2)[0]
		}
	}
	return string(b), setCookie
}

func TestStoreDefaultsToCurrentMonth(t *testing.T) {
	app := newStoreApp(t)
	got, _ := body(t, app, "/load", "")
	assert.Equal(t, "2024-03-01|2024-03-31", got)
}

func TestStorePersistsAcrossRequests(t *testing.T) {
	app := newStoreApp(t)

	got, cookie := body(t, app, "/save?start=2024-01-01&end=2024-01-07", "")
	require.Equal(t, "ok", got)
	require.NotEmpty(t, cookie)

	got, _ = body(t, app, "/load", cookie)
	assert.Equal(t, "2024-01-01|2024-01-07", got)
}
