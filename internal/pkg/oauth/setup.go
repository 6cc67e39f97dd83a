package oauth

import (
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/session"
	redisstorage "github.com/gofiber/storage/redis"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/google"
	gothfiber "github.com/shareed2k/goth_fiber"

	"github.com/dataplunge/dataplunge/internal/pkg/cache"
	"github.com/dataplunge/dataplunge/internal/pkg/env"
)

// Setup registers the browser identity provider and the goth state store.
// It is safe to call multiple times; providers will just be re-registered.
func Setup() {
	registerProviders()

	// OAuth state via Redis, using same connection as app sessions (separate DB)
	cacheClient := cache.GetClient()
	cacheOpts := cacheClient.Options()
	host, port := "127.0.0.1", 6379
	if cacheOpts != nil && cacheOpts.Addr != "" {
		if h, p, err := net.SplitHostPort(cacheOpts.Addr); err == nil {
			host = h
			if parsed, e := strconv.Atoi(p); e == nil {
				port = parsed
			}
		} else {
			host = cacheOpts.Addr
		}
	}

	gothfiber.SessionStore = session.New(session.Config{
		Storage: redisstorage.New(redisstorage.Config{
			Host:     host,
			Port:     port,
			Username: cacheOpts.Username,
			Password: cacheOpts.Password,
			Database: 2,
			Reset:    false,
		}),
		KeyLookup:      "cookie:" + gothic.SessionName,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
		CookieSecure:   !env.IsDev(),
		Expiration:     time.Hour,
	})
}

// SetupMemory is Setup with goth state kept in process memory.
func SetupMemory() {
	registerProviders()
	gothfiber.SessionStore = session.New(session.Config{
		KeyLookup:      "cookie:" + gothic.SessionName,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
		Expiration:     time.Hour,
	})
}

func registerProviders() {
	base := strings.TrimRight(env.GetEnv("PUBLIC_DOMAIN", ""), "/")
	if base == "" {
		base = "http://localhost:" + env.GetEnv("APP_PORT", "4000")
	}
	key := env.GetEnv("GOOGLE_KEY", "")
	if key == "" {
		log.Warnf("[OAuth] GOOGLE_KEY is not set, Google identity lookups will fail")
	}
	goth.UseProviders(
		google.New(
			key,
			env.GetEnv("GOOGLE_SECRET", ""),
			base+"/identity/google/callback",
			"email", "profile",
		),
	)
}
