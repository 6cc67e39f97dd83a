package controllers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/dataplunge/dataplunge/internal/pkg/connector"
	"github.com/dataplunge/dataplunge/internal/pkg/middleware"
	"github.com/dataplunge/dataplunge/internal/pkg/oauth"
	"github.com/dataplunge/dataplunge/internal/pkg/session"
	"github.com/dataplunge/dataplunge/internal/pkg/viewmodel"
)

// Wizard actions posted by the connect page.
const (
	actionLogin    = "login"
	actionNext     = "next"
	actionPrevious = "previous"
	actionSubmit   = "submit"
	actionRestart  = "restart"
)

func wizardKey(providerID string) string {
	return "connect:" + providerID
}

func loadWizard(c *fiber.Ctx, p connector.Provider) *connector.Wizard {
	return connector.DecodeWizard(p.ID, session.GetSessionValue(c, wizardKey(p.ID)))
}

func saveWizard(c *fiber.Ctx, w *connector.Wizard) {
	raw, err := w.Encode()
	if err == nil {
		err = session.SetSessionValue(c, wizardKey(w.Provider), raw)
	}
	if err != nil {
		log.Errorf("[Connector] %s: save wizard: %v", w.Provider, err)
	}
}

// formValues returns every posted value for key, e.g. checked checkboxes.
func formValues(c *fiber.Ctx, key string) []string {
	var out []string
	for _, v := range c.Request().PostArgs().PeekMulti(key) {
		out = append(out, string(v))
	}
	return out
}

// GET /connect/:provider
func HandleConnect(c *fiber.Ctx) error {
	p, err := connector.Default().Provider(c.Params("provider"))
	if err != nil {
		return redirectWithError(c, addDataSourcePath, "Error: "+err.Error())
	}
	w := loadWizard(c, p)

	// back from the provider's OAuth handshake
	if p.ReadyParam != "" && c.Query(p.ReadyParam) == "true" {
		w.Ready()
		saveWizard(c, w)
		return c.Redirect(p.ConnectPath(), fiber.StatusSeeOther)
	}

	vm := viewmodel.Connect{
		Layout:   layout(c, "Connect "+p.Name, "add-data-source"),
		Provider: p,
		Wizard:   w,
	}

	switch w.Step {
	case connector.StepCredentials:
		if p.ID == "google-analytics" {
			vm.ShowIdentity = true
			if id, ok := oauth.LoadIdentity(c); ok {
				vm.Identity = &id
			}
		}
	case connector.StepChooseAccount:
		src, err := connector.SourceFor(api(c), p)
		if err == nil {
			err = w.LoadAccounts(c.UserContext(), src)
		}
		if unauthorized(err) {
			return middleware.HandleUnauthorized(c)
		}
		saveWizard(c, w)
	}

	return c.Render("connect", vm, mainLayout)
}

// POST /connect/:provider {action, account...}
func HandleConnectAction(c *fiber.Ctx) error {
	p, err := connector.Default().Provider(c.Params("provider"))
	if err != nil {
		return redirectWithError(c, addDataSourcePath, "Error: "+err.Error())
	}
	w := loadWizard(c, p)

	switch c.FormValue("action") {
	case actionLogin:
		return c.Redirect(api(c).PublicURL(p.LoginPath), fiber.StatusSeeOther)
	case actionNext:
		w.Next()
	case actionPrevious:
		w.Previous()
	case actionRestart:
		w = connector.NewWizard(p.ID)
	case actionSubmit:
		src, err := connector.SourceFor(api(c), p)
		if err == nil {
			err = w.Submit(c.UserContext(), p, src, formValues(c, "account"))
		}
		if err != nil {
			if unauthorized(err) {
				return middleware.HandleUnauthorized(c)
			}
			saveWizard(c, w)
			return redirectWithError(c, p.ConnectPath(), fmt.Sprintf("Failed to connect %s: %v", p.Name, err))
		}
	default:
		return c.Redirect(p.ConnectPath(), fiber.StatusSeeOther)
	}

	saveWizard(c, w)
	return c.Redirect(p.ConnectPath(), fiber.StatusSeeOther)
}
