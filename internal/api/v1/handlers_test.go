package apiv1

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataplunge/dataplunge/internal/pkg/backend"
	"github.com/dataplunge/dataplunge/internal/pkg/middleware"
	"github.com/dataplunge/dataplunge/internal/pkg/session"
)

const documentPath = "../../../public/docs/v1/openapi.yml"

func loadDocument(t *testing.T) *openapi3.T {
	t.Helper()
	doc, err := openapi3.NewLoader().LoadFromFile(documentPath)
	require.NoError(t, err)
	require.NoError(t, doc.Validate(context.Background()))
	return doc
}

func setupAPI(t *testing.T, performance http.HandlerFunc) *fiber.App {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/me":
			_, _ = w.Write([]byte(`{"id":3,"email":"kim@example.com"}`))
		case "/filter-performance":
			performance(w, r)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)

	client, err := backend.New(backend.Config{BaseURL: server.URL})
	require.NoError(t, err)
	backend.SetClient(client)
	session.NewMemorySessionStore()

	app := fiber.New()
	app.Use(middleware.UserContextMiddleware)
	app.Get("/seed", func(c *fiber.Ctx) error {
		return session.SetSessionValue(c, session.KeyToken, "tok")
	})
	v1 := app.Group("/api/v1")
	v1.Use("/performance", middleware.RequireAPISessionAuth)
	RegisterHandlers(v1, NewAPIServer())
	return app
}

func sessionCookie(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/seed", nil))
	require.NoError(t, err)
	for _, c := range resp.Cookies() {
		if c.Name == "session_id" {
			return c.Name + "=" + c.Value
		}
	}
	t.Fatal("no session cookie")
	return ""
}

func call(t *testing.T, app *fiber.App, path, cookie string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return resp.StatusCode, out
}

func performanceRows(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte(`[
		{"date":"2024-03-01","source":"google","costs":10.5,"impressions":100,"clicks":10,"sessions":8,"conversions":2},
		{"date":"2024-03-01","source":"meta","costs":4.5,"impressions":50,"clicks":5,"sessions":4,"conversions":1},
		{"date":"2024-03-03","source":"google","costs":"3","impressions":30,"clicks":3,"sessions":2,"conversions":0}
	]`))
}

func responseSchema(t *testing.T, doc *openapi3.T, path string) *openapi3.Schema {
	t.Helper()
	item := doc.Paths.Value(path)
	require.NotNil(t, item, path)
	ref := item.Get.Responses.Status(http.StatusOK)
	require.NotNil(t, ref)
	return ref.Value.Content.Get("application/json").Schema.Value
}

func TestOpenAPIDocumentIsValid(t *testing.T) {
	doc := loadDocument(t)
	for _, p := range []string{"/ping", "/performance/daily", "/performance/summary"} {
		assert.NotNil(t, doc.Paths.Value(p), p)
	}
}

func TestPing(t *testing.T) {
	app := setupAPI(t, performanceRows)
	status, body := call(t, app, "/api/v1/ping", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "pong", body["ping"])
	assert.NoError(t, responseSchema(t, loadDocument(t), "/ping").VisitJSON(body))
}

func TestPerformanceRequiresSession(t *testing.T) {
	app := setupAPI(t, performanceRows)
	status, body := call(t, app, "/api/v1/performance/daily", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "unauthorized", body["error"])
}

func TestPerformanceDaily(t *testing.T) {
	app := setupAPI(t, performanceRows)
	cookie := sessionCookie(t, app)

	status, body := call(t, app, "/api/v1/performance/daily?start=2024-03-01&end=2024-03-03", cookie)
	require.Equal(t, fiber.StatusOK, status)
	assert.NoError(t, responseSchema(t, loadDocument(t), "/performance/daily").VisitJSON(body))

	days := body["days"].([]any)
	require.Len(t, days, 3)
	first := days[0].(map[string]any)
	assert.Equal(t, "2024-03-01", first["date"])
	assert.Equal(t, 15.0, first["costs"])
	assert.Equal(t, 3.0, first["conversions"])
	second := days[1].(map[string]any)
	assert.Equal(t, "2024-03-02", second["date"])
	assert.Equal(t, 0.0, second["costs"])
}

func TestPerformanceSummary(t *testing.T) {
	app := setupAPI(t, performanceRows)
	cookie := sessionCookie(t, app)

	status, body := call(t, app, "/api/v1/performance/summary?start=2024-03-01&end=2024-03-03", cookie)
	require.Equal(t, fiber.StatusOK, status)
	assert.NoError(t, responseSchema(t, loadDocument(t), "/performance/summary").VisitJSON(body))
	assert.Equal(t, 18.0, body["costs"])
	assert.Equal(t, 3.0, body["conversions"])
	assert.Equal(t, 6.0, body["cost_per_conversion"])
	assert.Equal(t, 1.0, body["cost_per_click"])
}

func TestPerformanceRejectsBadRange(t *testing.T) {
	app := setupAPI(t, performanceRows)
	cookie := sessionCookie(t, app)

	status, body := call(t, app, "/api/v1/performance/daily?start=2024-03-05&end=2024-03-01", cookie)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "bad_request", body["error"])

	status, _ = call(t, app, "/api/v1/performance/daily?start=2024-03-05", cookie)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body = call(t, app, "/api/v1/performance/daily?start=0001-01-01&end=9999-12-31", cookie)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body["message"], "must not exceed")
}

func TestPerformanceBackendErrors(t *testing.T) {
	t.Run("unauthorized", func(t *testing.T) {
		app := setupAPI(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})
		cookie := sessionCookie(t, app)
		status, _ := call(t, app, "/api/v1/performance/daily?start=2024-03-01&end=2024-03-02", cookie)
		assert.Equal(t, fiber.StatusUnauthorized, status)

		status, _ = call(t, app, "/api/v1/performance/daily?start=2024-03-01&end=2024-03-02", cookie)
		assert.Equal(t, fiber.StatusUnauthorized, status, "token was cleared")
	})

	t.Run("server error", func(t *testing.T) {
		app := setupAPI(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"warehouse down"}`))
		})
		cookie := sessionCookie(t, app)
		status, body := call(t, app, "/api/v1/performance/summary?start=2024-03-01&end=2024-03-02", cookie)
		assert.Equal(t, fiber.StatusBadGateway, status)
		assert.Contains(t, body["message"], "warehouse down")
	})
}
