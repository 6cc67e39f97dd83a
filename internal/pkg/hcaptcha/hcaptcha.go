package hcaptcha

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dataplunge/dataplunge/internal/pkg/env"
)

const DefaultEndpoint = "https://hcaptcha.com/siteverify"

type Response struct {
	Success     bool     `json:"success"`
	ChallengeTS string   `json:"challenge_ts"`
	Hostname    string   `json:"hostname"`
	ErrorCodes  []string `json:"error-codes"`
}

// Verifier checks register-form captcha tokens. A verifier without a secret is disabled.
type Verifier struct {
	Secret     string
	Endpoint   string
	HTTPClient *http.Client
}

// FromEnv reads HCAPTCHA_SECRET.
func FromEnv() Verifier {
	return Verifier{
		Secret:     env.GetEnv("HCAPTCHA_SECRET", ""),
		Endpoint:   DefaultEndpoint,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (v Verifier) Enabled() bool {
	return v.Secret != ""
}

func (v Verifier) Verify(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, fmt.Errorf("hCaptcha token is empty")
	}
	if v.Secret == "" {
		return false, fmt.Errorf("hCaptcha secret is not set")
	}

	endpoint := v.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	client := v.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	formData := url.Values{
		"secret":   {v.Secret},
		"response": {token},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(formData.Encode()))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := client.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to send request to hCaptcha API: %w", err)
	}
	defer resp.Body.Close()

	var response Response
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return false, fmt.Errorf("failed to decode hCaptcha API response: %w", err)
	}

	if !response.Success {
		errorMsg := "hCaptcha validation failed"
		if len(response.ErrorCodes) > 0 {
			errorMsg = errorMsg + ": " + strings.Join(response.ErrorCodes, ", ")
		}
		return false, fmt.Errorf("%s", errorMsg)
	}

	return true, nil
}
