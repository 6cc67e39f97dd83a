package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/dataplunge/dataplunge/app/models"
	"github.com/dataplunge/dataplunge/internal/pkg/backend"
	"github.com/dataplunge/dataplunge/internal/pkg/env"
	"github.com/dataplunge/dataplunge/internal/pkg/hcaptcha"
	"github.com/dataplunge/dataplunge/internal/pkg/inflight"
	"github.com/dataplunge/dataplunge/internal/pkg/middleware"
	"github.com/dataplunge/dataplunge/internal/pkg/session"
	"github.com/dataplunge/dataplunge/internal/pkg/viewmodel"
)

// backendMessage prefers the message the backend sent.
func backendMessage(err error, fallback string) string {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

func HandleAuthLogin(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodPost {
		return handleLoginSubmit(c)
	}

	vm := viewmodel.Auth{Layout: layout(c, "Login", "login")}
	return c.Render("login", vm, mainLayout)
}

func handleLoginSubmit(c *fiber.Ctx) error {
	var form models.LoginForm
	if err := c.BodyParser(&form); err != nil {
		return redirectWithError(c, "/login", "Invalid login request")
	}
	if err := form.Validate(); err != nil {
		return redirectWithError(c, "/login", models.ValidationMessage(err))
	}

	res, err := backend.GetClient().Login(c.UserContext(), form.Email, form.Password)
	if err != nil {
		log.Warnf("[Auth] login failed for %s: %v", form.Email, err)
		return redirectWithError(c, "/login", backendMessage(err, "Login failed. Please try again."))
	}
	return completeLogin(c, res)
}

func HandleAuthRegister(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodPost {
		return handleRegisterSubmit(c)
	}

	vm := viewmodel.Auth{
		Layout:          layout(c, "Register", "register"),
		HCaptchaSitekey: env.GetEnv("HCAPTCHA_SITEKEY", ""),
	}
	return c.Render("register", vm, mainLayout)
}

func handleRegisterSubmit(c *fiber.Ctx) error {
	var form models.RegisterForm
	if err := c.BodyParser(&form); err != nil {
		return redirectWithError(c, "/register", "Invalid registration request")
	}
	if err := form.Validate(); err != nil {
		return redirectWithError(c, "/register", models.ValidationMessage(err))
	}

	if verifier := hcaptcha.FromEnv(); verifier.Enabled() {
		if ok, err := verifier.Verify(c.UserContext(), c.FormValue("h-captcha-response")); !ok {
			log.Warnf("[Auth] captcha rejected: %v", err)
			return redirectWithError(c, "/register", "Please complete the captcha")
		}
	}

	res, err := backend.GetClient().Register(c.UserContext(), form.Email, form.Password, form.FullName)
	if err != nil {
		log.Warnf("[Auth] registration failed for %s: %v", form.Email, err)
		return redirectWithError(c, "/register", backendMessage(err, "Registration failed. Please try again."))
	}
	return completeLogin(c, res)
}

// completeLogin stores the token and confirms it against /auth/me.
func completeLogin(c *fiber.Ctx, res backend.AuthResponse) error {
	if res.Token == "" {
		return redirectWithError(c, "/login", "Login failed. Please try again.")
	}
	if _, err := middleware.CheckAuth(c, res.Token); err != nil {
		if res.User.ID == 0 || unauthorized(err) {
			return redirectWithError(c, "/login", backendMessage(err, "Login failed. Please try again."))
		}
		// /auth/me is unavailable but the login response carried the user
		if err := session.SetUser(c, res.Token, res.User); err != nil {
			return redirectWithError(c, "/login", "Could not start your session. Please try again.")
		}
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

// HandleGoogleLogin hands the browser to the backend's Google sign-in.
func HandleGoogleLogin(c *fiber.Ctx) error {
	return c.Redirect(backend.GetClient().PublicURL(backend.GoogleLoginPath), fiber.StatusSeeOther)
}

// HandleAuthCallback receives the token from the backend's Google sign-in.
func HandleAuthCallback(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}
	if _, err := middleware.CheckAuth(c, token); err != nil {
		return redirectWithError(c, "/login", "Google sign-in failed. Please try again.")
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

// HandleAuthLogout always ends the local session, whatever the backend says.
func HandleAuthLogout(c *fiber.Ctx) error {
	if isLoggedIn(c) {
		if err := api(c).Logout(c.UserContext()); err != nil {
			log.Warnf("[Auth] backend logout: %v", err)
		}
	}

	inflight.Default().Forget(session.ID(c))
	if err := session.Destroy(c); err != nil {
		log.Errorf("[Auth] destroy session: %v", err)
	}
	return c.Redirect("/login", fiber.StatusSeeOther)
}
