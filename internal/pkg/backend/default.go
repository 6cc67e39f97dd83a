package backend

import (
	"github.com/gofiber/fiber/v2/log"

	"github.com/dataplunge/dataplunge/internal/pkg/env"
)

var client *Client

// SetupClient builds the shared client from BACKEND_URL, BACKEND_PUBLIC_URL and BACKEND_TIMEOUT.
func SetupClient() error {
	c, err := New(Config{
		BaseURL:   env.GetEnv("BACKEND_URL", "http://localhost:5000"),
		PublicURL: env.GetEnv("BACKEND_PUBLIC_URL", ""),
		Timeout:   env.GetDuration("BACKEND_TIMEOUT", 0),
	})
	if err != nil {
		return err
	}
	client = c
	log.Infof("[Backend] using %s", c.baseURL)
	return nil
}

// SetClient replaces the shared client.
func SetClient(c *Client) {
	client = c
}

// GetClient returns the shared, token-less client.
func GetClient() *Client {
	if client == nil {
		if err := SetupClient(); err != nil {
			panic(err)
		}
	}
	return client
}
