package apiv1

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/dataplunge/dataplunge/internal/pkg/aggregate"
	"github.com/dataplunge/dataplunge/internal/pkg/backend"
	"github.com/dataplunge/dataplunge/internal/pkg/daterange"
	"github.com/dataplunge/dataplunge/internal/pkg/middleware"
	"github.com/dataplunge/dataplunge/internal/pkg/session"
	"github.com/dataplunge/dataplunge/internal/pkg/usercontext"
)

// APIServer implements the ServerInterface
type APIServer struct{}

// NewAPIServer creates a new API server instance
func NewAPIServer() *APIServer {
	return &APIServer{}
}

// GetPing handles the ping endpoint
func (s *APIServer) GetPing(c *fiber.Ctx) error {
	response := Pong{
		Ping: "pong",
	}

	return c.Status(fiber.StatusOK).JSON(response)
}

// GetPerformanceDaily returns the zero-filled daily series for the range.
func (s *APIServer) GetPerformanceDaily(c *fiber.Ctx, params PerformanceParams) error {
	r, err := resolveRange(c, params)
	if err != nil {
		return badRequest(c, err)
	}
	days, err := dailySeries(c, r)
	if err != nil {
		return backendFailure(c, err)
	}

	out := DailyPerformance{
		Start: r.StartString(),
		End:   r.EndString(),
		Days:  make([]DailyPoint, 0, len(days)),
	}
	for _, d := range days {
		out.Days = append(out.Days, DailyPoint{
			Date:        d.Day(),
			Costs:       aggregate.Round2(d.Costs),
			Impressions: d.Impressions,
			Clicks:      d.Clicks,
			Sessions:    d.Sessions,
			Conversions: d.Conversions,
		})
	}
	return c.JSON(out)
}

// GetPerformanceSummary returns the dashboard card values for the range.
func (s *APIServer) GetPerformanceSummary(c *fiber.Ctx, params PerformanceParams) error {
	r, err := resolveRange(c, params)
	if err != nil {
		return badRequest(c, err)
	}
	days, err := dailySeries(c, r)
	if err != nil {
		return backendFailure(c, err)
	}

	t := aggregate.Sum(days)
	return c.JSON(Summary{
		Start:             r.StartString(),
		End:               r.EndString(),
		Costs:             aggregate.Round2(t.Costs),
		Sessions:          t.Sessions,
		Conversions:       t.Conversions,
		CostPerConversion: aggregate.Round2(t.CostPerConversion()),
		Impressions:       t.Impressions,
		Clicks:            t.Clicks,
		CostPerClick:      aggregate.Round2(t.CostPerClick()),
	})
}

// resolveRange uses the query bounds when given, the session's range otherwise.
func resolveRange(c *fiber.Ctx, params PerformanceParams) (daterange.Range, error) {
	if params.Start == nil && params.End == nil {
		return daterange.NewStore(session.GetSessionStore()).Load(c), nil
	}
	var start, end string
	if params.Start != nil {
		start = *params.Start
	}
	if params.End != nil {
		end = *params.End
	}
	return daterange.Parse(start, end)
}

func dailySeries(c *fiber.Ctx, r daterange.Range) ([]aggregate.DayRow, error) {
	client := backend.GetClient().WithToken(usercontext.GetToken(c))
	rows, err := client.FilterPerformance(c.UserContext(), r)
	if err != nil {
		return nil, err
	}
	return aggregate.Daily(rows, r)
}

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(Error{Error: "bad_request", Message: err.Error()})
}

func backendFailure(c *fiber.Ctx, err error) error {
	if middleware.IsUnauthorized(err) {
		if clearErr := session.ClearAuth(c); clearErr != nil {
			log.Errorf("[API] clear session after 401: %v", clearErr)
		}
		return c.Status(fiber.StatusUnauthorized).JSON(Error{Error: "unauthorized", Message: "login required"})
	}
	log.Errorf("[API] backend: %v", err)
	return c.Status(fiber.StatusBadGateway).JSON(Error{Error: "bad_gateway", Message: err.Error()})
}
