package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/dataplunge/dataplunge/internal/pkg/daterange"
	"github.com/dataplunge/dataplunge/internal/pkg/inflight"
	"github.com/dataplunge/dataplunge/internal/pkg/session"
)

// HandleRangeUpdate saves the header date form and returns to the page it was posted from.
// Fetches still running for the previous range are cancelled.
func HandleRangeUpdate(c *fiber.Ctx) error {
	back := safeReturn(c.FormValue("return_to"))

	r, err := daterange.Parse(c.FormValue("start_date"), c.FormValue("end_date"))
	if err != nil {
		return redirectWithError(c, back, err.Error())
	}

	if _, err := ranges().Save(c, r); err != nil {
		log.Errorf("[Range] save %s: %v", r, err)
		return redirectWithError(c, back, "Could not save the date range. Please try again.")
	}

	if n := inflight.Default().Switch(session.ID(c), r.Key()); n > 0 {
		log.Infof("[Range] switched to %s, cancelled %d fetches", r, n)
	}
	return c.Redirect(back, fiber.StatusSeeOther)
}
