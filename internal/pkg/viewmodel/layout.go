package viewmodel

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dataplunge/dataplunge/internal/pkg/daterange"
	"github.com/dataplunge/dataplunge/internal/pkg/usercontext"
)

// Layout is what layouts/main needs on every page.
type Layout struct {
	Page          string
	Active        string
	FromProtected bool
	Msg           fiber.Map
	User          usercontext.UserContext
	CSRF          string
	Range         daterange.Range
	// ReturnTo is where the header date form redirects after saving.
	ReturnTo string
}
