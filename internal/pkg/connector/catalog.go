// Package connector describes the data-source providers and drives their
// three-step connect wizards.
package connector

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/ettle/strcase"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownProvider  = errors.New("unknown data source provider")
	ErrNothingSelected  = errors.New("please select an account to connect")
	ErrTooManySelected  = errors.New("only one account can be connected at a time")
	ErrUnknownAccount   = errors.New("selected account is not available")
	ErrInvalidSelection = errors.New("invalid selection mode")
)

//go:embed providers.yaml
var providersYAML []byte

// Selection is how many accounts step two lets the user pick.
type Selection string

const (
	SelectNone   Selection = "none"
	SelectSingle Selection = "single"
	SelectMulti  Selection = "multi"
)

type Provider struct {
	ID           string    `yaml:"id"`
	Name         string    `yaml:"name"`
	LoginPath    string    `yaml:"login_path"`
	ReadyParam   string    `yaml:"ready_param"`
	Selection    Selection `yaml:"selection"`
	Onboarding   bool      `yaml:"onboarding"`
	Description  string    `yaml:"description"`
	AccountLabel string    `yaml:"account_label"`
}

func (p Provider) ConnectPath() string {
	return "/connect/" + p.ID
}

// AddSource is one tile on the add-data-source page.
type AddSource struct {
	Name     string `yaml:"name"`
	Icon     string `yaml:"icon"`
	Provider string `yaml:"provider"`
}

// Slug is the kebab-case form used in form values and element ids.
func (s AddSource) Slug() string {
	return strcase.ToKebab(s.Name)
}

func (s AddSource) HasWizard() bool {
	return s.Provider != ""
}

type Catalog struct {
	Providers []Provider  `yaml:"providers"`
	Sources   []AddSource `yaml:"sources"`
}

// Parse reads and validates a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse provider catalog: %w", err)
	}
	seen := map[string]bool{}
	for _, p := range c.Providers {
		if p.ID == "" || p.Name == "" || p.LoginPath == "" {
			return nil, fmt.Errorf("provider %q: id, name and login_path are required", p.ID)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("provider %q declared twice", p.ID)
		}
		seen[p.ID] = true
		switch p.Selection {
		case SelectNone, SelectSingle, SelectMulti:
		default:
			return nil, fmt.Errorf("provider %q: %w %q", p.ID, ErrInvalidSelection, p.Selection)
		}
	}
	for _, s := range c.Sources {
		if s.Provider != "" && !seen[s.Provider] {
			return nil, fmt.Errorf("source %q: %w %q", s.Name, ErrUnknownProvider, s.Provider)
		}
	}
	return &c, nil
}

var (
	defaultCatalog *Catalog
	defaultOnce    sync.Once
)

// Default returns the embedded catalog. It panics if the embedded file is invalid.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(providersYAML)
		if err != nil {
			panic(err)
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

func (c *Catalog) Provider(id string) (Provider, error) {
	for _, p := range c.Providers {
		if p.ID == id {
			return p, nil
		}
	}
	return Provider{}, fmt.Errorf("%w: %s", ErrUnknownProvider, id)
}

// Onboarding lists the providers offered in the first-run modal.
func (c *Catalog) Onboarding() []Provider {
	var out []Provider
	for _, p := range c.Providers {
		if p.Onboarding {
			out = append(out, p)
		}
	}
	return out
}

// Source looks up an add-data-source tile by display name or slug.
func (c *Catalog) Source(name string) (AddSource, bool) {
	for _, s := range c.Sources {
		if s.Name == name || s.Slug() == name {
			return s, true
		}
	}
	return AddSource{}, false
}

// ProviderForSource finds the wizard provider behind a backend data source
// name, e.g. "Google Analytics" or "meta_ads".
func (c *Catalog) ProviderForSource(sourceName string) (Provider, bool) {
	slug := strcase.ToKebab(sourceName)
	for _, p := range c.Providers {
		if slug == p.ID || slug == strcase.ToKebab(p.Name) || strings.HasPrefix(slug, p.ID) {
			return p, true
		}
	}
	return Provider{}, false
}
