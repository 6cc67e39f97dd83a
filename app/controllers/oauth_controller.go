package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	gothfiber "github.com/shareed2k/goth_fiber"

	"github.com/dataplunge/dataplunge/internal/pkg/oauth"
)

const identityReturnPath = "/connect/google-analytics"

// HandleIdentityBegin starts the browser-side Google identity flow used by the
// GA wizard's "My Credentials" card.
func HandleIdentityBegin(c *fiber.Ctx) error {
	return gothfiber.BeginAuthHandler(c)
}

// HandleIdentityCallback stores the identity in the app session. Failures are
// logged only; the wizard then shows "No Google account detected."
func HandleIdentityCallback(c *fiber.Ctx) error {
	u, err := gothfiber.CompleteUserAuth(c)
	if err != nil {
		log.Warnf("[OAuth] complete identity: %v", err)
		return c.Redirect(identityReturnPath, fiber.StatusSeeOther)
	}

	if err := oauth.SaveIdentity(c, oauth.IdentityFromGoth(u)); err != nil {
		log.Errorf("[OAuth] save identity: %v", err)
	}
	return c.Redirect(identityReturnPath, fiber.StatusSeeOther)
}
