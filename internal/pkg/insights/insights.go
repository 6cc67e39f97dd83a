// Package insights loads the backend's natural-language insights for a range
// and drives the one-at-a-time carousel on the dashboard.
package insights

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/microcosm-cc/bluemonday"

	"github.com/dataplunge/dataplunge/internal/pkg/backend"
	"github.com/dataplunge/dataplunge/internal/pkg/cache"
	"github.com/dataplunge/dataplunge/internal/pkg/daterange"
)

const (
	MsgEmpty  = "No insights available."
	MsgFailed = "Failed to load insights. Please try again later."

	DefaultTTL = 5 * time.Minute
)

// FetchFunc loads raw insights from the backend.
type FetchFunc func(ctx context.Context) ([]backend.Insight, error)

// Service caches sanitised insight messages per user and range.
type Service struct {
	store  cache.Store
	ttl    time.Duration
	policy *bluemonday.Policy
}

func NewService(store cache.Store, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{store: store, ttl: ttl, policy: bluemonday.StrictPolicy()}
}

func cacheKey(userID int64, r daterange.Range) string {
	return fmt.Sprintf("insights:%d:%s", userID, r.Key())
}

// Messages returns the cleaned messages for r, from cache when possible.
// Cache failures are logged and fall through to fetch.
func (s *Service) Messages(ctx context.Context, userID int64, r daterange.Range, fetch FetchFunc) ([]string, error) {
	key := cacheKey(userID, r)
	if raw, err := s.store.Get(ctx, key); err == nil {
		var cached []string
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			return cached, nil
		}
	} else if !errors.Is(err, cache.ErrMiss) {
		log.Warnf("[Insights] cache read %s: %v", key, err)
	}

	items, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	msgs := s.Clean(items)

	if b, err := json.Marshal(msgs); err == nil {
		if err := s.store.Set(ctx, key, string(b), s.ttl); err != nil {
			log.Warnf("[Insights] cache write %s: %v", key, err)
		}
	}
	return msgs, nil
}

// Invalidate drops the cached list for r.
func (s *Service) Invalidate(ctx context.Context, userID int64, r daterange.Range) error {
	return s.store.Delete(ctx, cacheKey(userID, r))
}

// Clean strips markup from every message and drops the blank ones.
func (s *Service) Clean(items []backend.Insight) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		msg := strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(it.Message)))
		if msg != "" {
			out = append(out, msg)
		}
	}
	return out
}

var service *Service

// SetupService installs the shared service on top of store.
func SetupService(store cache.Store, ttl time.Duration) {
	service = NewService(store, ttl)
}

// GetService returns the shared service, falling back to an in-memory cache.
func GetService() *Service {
	if service == nil {
		SetupService(cache.NewMemoryStore(), DefaultTTL)
	}
	return service
}
