// Package components holds the templ fragments served into the dashboard's iframes.
package components

import (
	"net/url"

	"github.com/a-h/templ"

	"github.com/dataplunge/dataplunge/internal/pkg/constants"
)

func moveURL(rangeKey, direction string) templ.SafeURL {
	q := url.Values{}
	q.Set("range", rangeKey)
	q.Set("move", direction)
	return templ.SafeURL(constants.InsightsPartial + "?" + q.Encode())
}
