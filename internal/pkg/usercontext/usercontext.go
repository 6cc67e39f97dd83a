package usercontext

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"
)

// UserContext represents the complete user context for a request
type UserContext struct {
	UserID     int64  `json:"user_id"`
	Email      string `json:"email"`
	FullName   string `json:"full_name"`
	Token      string `json:"-"`
	IsLoggedIn bool   `json:"is_logged_in"`
}

// DisplayName prefers the full name over the email.
func (u UserContext) DisplayName() string {
	if n := strings.TrimSpace(u.FullName); n != "" {
		return n
	}
	return u.Email
}

// Initials are the first letters of up to two name words, else the first two
// letters of the email, else "?".
func (u UserContext) Initials() string {
	if words := strings.Fields(u.FullName); len(words) > 0 {
		var b strings.Builder
		for i, w := range words {
			if i == 2 {
				break
			}
			r, _ := utf8.DecodeRuneInString(w)
			b.WriteRune(unicode.ToUpper(r))
		}
		return b.String()
	}
	if email := strings.TrimSpace(u.Email); email != "" {
		runes := []rune(email)
		if len(runes) > 2 {
			runes = runes[:2]
		}
		return strings.ToUpper(string(runes))
	}
	return "?"
}

// GetUserContext retrieves the user context from fiber context
// Returns a default anonymous context if none is set
func GetUserContext(c *fiber.Ctx) UserContext {
	if ctx, ok := c.Locals(KeyUserContext).(UserContext); ok {
		return ctx
	}
	return UserContext{}
}

// IsLoggedIn checks if the current user is logged in
func IsLoggedIn(c *fiber.Ctx) bool {
	return GetUserContext(c).IsLoggedIn
}

// GetUserID returns the current user's ID, or 0 if not logged in
func GetUserID(c *fiber.Ctx) int64 {
	return GetUserContext(c).UserID
}

// GetToken returns the backend bearer token of the current session.
func GetToken(c *fiber.Ctx) string {
	return GetUserContext(c).Token
}
