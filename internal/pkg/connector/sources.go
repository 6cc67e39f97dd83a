package connector

import (
	"context"
	"fmt"

	"github.com/dataplunge/dataplunge/internal/pkg/backend"
)

// Source is the backend side of a provider's wizard.
type Source interface {
	Accounts(ctx context.Context) ([]Account, error)
	Submit(ctx context.Context, selected []string) error
}

// SourceFor binds provider p to an authenticated backend client.
func SourceFor(client *backend.Client, p Provider) (Source, error) {
	switch p.ID {
	case "google-analytics":
		return gaSource{client: client}, nil
	case "meta":
		return metaSource{client: client}, nil
	case "google-ads":
		return campaignSource{fetch: client.GoogleAdsFetchCampaigns}, nil
	case "microsoft-ads":
		return campaignSource{fetch: client.MicrosoftAdsFetchCampaigns}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, p.ID)
	}
}

type gaSource struct {
	client *backend.Client
}

func (s gaSource) Accounts(ctx context.Context) ([]Account, error) {
	props, err := s.client.GAProperties(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Account, 0, len(props))
	for _, p := range props {
		out = append(out, Account{ID: p.PropertyID, Name: p.DisplayName, Detail: p.TimeZone})
	}
	return out, nil
}

// Submit pulls metrics for each selected property, stopping at the first failure.
func (s gaSource) Submit(ctx context.Context, selected []string) error {
	for _, id := range selected {
		if err := s.client.GAFetchMetrics(ctx, id); err != nil {
			return fmt.Errorf("fetch metrics for property %s: %w", id, err)
		}
	}
	return nil
}

type metaSource struct {
	client *backend.Client
}

func (s metaSource) Accounts(ctx context.Context) ([]Account, error) {
	accounts, err := s.client.MetaAdAccounts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Account, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, Account{ID: a.ID, Name: a.Name, Detail: a.ID, Inactive: !a.Active()})
	}
	return out, nil
}

func (s metaSource) Submit(ctx context.Context, selected []string) error {
	if len(selected) != 1 {
		return ErrNothingSelected
	}
	return s.client.MetaSelectAccount(ctx, selected[0])
}

// campaignSource covers providers whose backend imports the account
// authorised during the OAuth step.
type campaignSource struct {
	fetch func(ctx context.Context) error
}

func (campaignSource) Accounts(context.Context) ([]Account, error) {
	return nil, nil
}

func (s campaignSource) Submit(ctx context.Context, _ []string) error {
	return s.fetch(ctx)
}
