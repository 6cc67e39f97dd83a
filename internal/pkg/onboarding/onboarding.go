// Package onboarding decides when the first-run modal is shown and which
// providers it offers.
package onboarding

import (
	"strings"

	"github.com/ettle/strcase"

	"github.com/dataplunge/dataplunge/internal/pkg/backend"
	"github.com/dataplunge/dataplunge/internal/pkg/connector"
)

// Input is everything the visibility rule looks at.
type Input struct {
	// Forced is set by ?setup=true.
	Forced bool
	// Dismissed is the stored per-user flag.
	Dismissed bool
	Sources   []backend.DataSource
	// SourcesFound is false when the data-source fetch failed.
	SourcesFound bool
}

// ShouldShow reports whether the modal is rendered.
func ShouldShow(in Input) bool {
	if in.Forced {
		return true
	}
	if !in.SourcesFound || in.Dismissed {
		return false
	}
	return len(in.Sources) == 0
}

// Option is one provider tile in the modal.
type Option struct {
	Provider  connector.Provider
	Connected bool
}

// Options marks every onboarding provider that already has a matching data source.
func Options(catalog *connector.Catalog, sources []backend.DataSource) []Option {
	names := make([]string, 0, len(sources))
	for _, s := range sources {
		names = append(names, strcase.ToKebab(s.SourceName))
	}

	providers := catalog.Onboarding()
	out := make([]Option, 0, len(providers))
	for _, p := range providers {
		out = append(out, Option{Provider: p, Connected: IsConnected(p.ID, names)})
	}
	return out
}

// IsConnected matches a provider id against kebab-cased source names by the
// id's first segment, so "google-analytics" matches "google-ads" too.
func IsConnected(providerID string, kebabNames []string) bool {
	prefix, _, _ := strings.Cut(providerID, "-")
	for _, n := range kebabNames {
		if strings.Contains(n, prefix) {
			return true
		}
	}
	return false
}

// NextPath is where "Next" leads: the first selected, not yet connected
// provider's wizard, or the dashboard when nothing usable is selected.
func NextPath(options []Option, selected []string) string {
	for _, id := range selected {
		for _, o := range options {
			if o.Provider.ID == id && !o.Connected {
				return o.Provider.ConnectPath()
			}
		}
	}
	return "/"
}
