package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/dataplunge/dataplunge/app/repository"
	"github.com/dataplunge/dataplunge/internal/pkg/connector"
	"github.com/dataplunge/dataplunge/internal/pkg/middleware"
	"github.com/dataplunge/dataplunge/internal/pkg/onboarding"
	"github.com/dataplunge/dataplunge/internal/pkg/usercontext"
)

func dismissOnboarding(c *fiber.Ctx) {
	userID := usercontext.GetUserID(c)
	if err := repository.GetGlobalFactory().GetPreferenceRepository().DismissOnboarding(userID); err != nil {
		log.Errorf("[Onboarding] dismiss for user %d: %v", userID, err)
	}
}

// POST /onboarding/dismiss
func HandleOnboardingDismiss(c *fiber.Ctx) error {
	dismissOnboarding(c)
	return c.Redirect("/", fiber.StatusSeeOther)
}

// POST /onboarding/next {source...}
// Completing the modal also counts as dismissing it.
func HandleOnboardingNext(c *fiber.Ctx) error {
	dismissOnboarding(c)

	sources, err := api(c).DataSources(c.UserContext())
	if err != nil {
		if unauthorized(err) {
			return middleware.HandleUnauthorized(c)
		}
		log.Warnf("[Onboarding] data sources: %v", err)
	}

	options := onboarding.Options(connector.Default(), sources)
	return c.Redirect(onboarding.NextPath(options, formValues(c, "source")), fiber.StatusSeeOther)
}
