package oauth

import (
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/markbates/goth"

	"github.com/dataplunge/dataplunge/internal/pkg/session"
)

// IdentityKey holds the browser's third-party identity in the app session.
const IdentityKey = "oauth_identity"

// Identity is the signed-in Google account shown as "My Credentials".
type Identity struct {
	Provider  string `json:"provider"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

func IdentityFromGoth(u goth.User) Identity {
	name := u.Name
	if name == "" {
		name = u.NickName
	}
	return Identity{Provider: u.Provider, Name: name, Email: u.Email, AvatarURL: u.AvatarURL}
}

func SaveIdentity(c *fiber.Ctx, id Identity) error {
	b, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}
	return session.SetSessionValue(c, IdentityKey, string(b))
}

// LoadIdentity returns the stored identity. A missing or undecodable value
// yields false; decode failures are logged.
func LoadIdentity(c *fiber.Ctx) (Identity, bool) {
	raw := session.GetSessionValue(c, IdentityKey)
	if raw == "" {
		return Identity{}, false
	}
	var id Identity
	if err := json.Unmarshal([]byte(raw), &id); err != nil {
		log.Errorf("[OAuth] decode identity: %v", err)
		return Identity{}, false
	}
	if id.Email == "" && id.Name == "" {
		return Identity{}, false
	}
	return id, true
}
