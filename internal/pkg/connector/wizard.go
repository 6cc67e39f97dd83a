package connector

import (
	"context"
	"encoding/json"
	"slices"

	"github.com/gofiber/fiber/v2/log"
)

// Step is a wizard position. Transitions are strictly linear.
type Step int

const (
	StepCredentials Step = iota + 1
	StepChooseAccount
	StepConnected
)

// Account is a GA property or ad account the user may connect.
type Account struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Detail   string `json:"detail,omitempty"`
	Inactive bool   `json:"inactive,omitempty"`
}

// Wizard is one provider's connect flow, persisted in the session between requests.
type Wizard struct {
	Provider string    `json:"provider"`
	Step     Step      `json:"step"`
	Accounts []Account `json:"accounts,omitempty"`
	Selected []string  `json:"selected,omitempty"`
	Error    string    `json:"error,omitempty"`
}

func NewWizard(providerID string) *Wizard {
	return &Wizard{Provider: providerID, Step: StepCredentials}
}

// Next advances from Credentials to ChooseAccount. Leaving ChooseAccount
// requires a successful Submit.
func (w *Wizard) Next() {
	if w.Step == StepCredentials {
		w.Step = StepChooseAccount
		w.Error = ""
	}
}

// Previous moves back one step, never below Credentials.
func (w *Wizard) Previous() {
	if w.Step > StepCredentials {
		w.Step--
		w.Error = ""
	}
}

// Ready is the return from the provider's OAuth handshake.
func (w *Wizard) Ready() {
	w.Step = StepChooseAccount
	w.Error = ""
}

// LoadAccounts refreshes the account list. On failure the list is left empty.
func (w *Wizard) LoadAccounts(ctx context.Context, src Source) error {
	accounts, err := src.Accounts(ctx)
	if err != nil {
		log.Errorf("[Connector] %s: load accounts: %v", w.Provider, err)
		w.Accounts = nil
		return err
	}
	w.Accounts = accounts
	w.Selected = slices.DeleteFunc(w.Selected, func(id string) bool { return !w.hasAccount(id) })
	return nil
}

func (w *Wizard) hasAccount(id string) bool {
	return slices.ContainsFunc(w.Accounts, func(a Account) bool { return a.ID == id })
}

// Select validates ids against the provider's selection mode.
func (w *Wizard) Select(mode Selection, ids []string) error {
	ids = slices.DeleteFunc(slices.Clone(ids), func(id string) bool { return id == "" })
	switch mode {
	case SelectNone:
		w.Selected = nil
		return nil
	case SelectSingle:
		if len(ids) == 0 {
			return ErrNothingSelected
		}
		if len(ids) > 1 {
			return ErrTooManySelected
		}
	case SelectMulti:
		if len(ids) == 0 {
			return ErrNothingSelected
		}
	default:
		return ErrInvalidSelection
	}
	for _, id := range ids {
		if !w.hasAccount(id) {
			return ErrUnknownAccount
		}
	}
	w.Selected = ids
	return nil
}

// Submit sends the selection to the backend. Success moves to Connected;
// any failure keeps the wizard on ChooseAccount with Error set.
func (w *Wizard) Submit(ctx context.Context, p Provider, src Source, ids []string) error {
	if w.Step != StepChooseAccount {
		return nil
	}
	if err := w.Select(p.Selection, ids); err != nil {
		w.Error = err.Error()
		return err
	}
	if err := src.Submit(ctx, w.Selected); err != nil {
		log.Errorf("[Connector] %s: submit: %v", w.Provider, err)
		w.Error = err.Error()
		return err
	}
	w.Error = ""
	w.Step = StepConnected
	return nil
}

// IsSelected is used by the templates to pre-check inputs.
func (w *Wizard) IsSelected(id string) bool {
	return slices.Contains(w.Selected, id)
}

func (w *Wizard) Encode() (string, error) {
	b, err := json.Marshal(w)
	return string(b), err
}

// DecodeWizard restores a wizard for providerID. Missing or foreign state
// yields a fresh wizard.
func DecodeWizard(providerID, raw string) *Wizard {
	if raw == "" {
		return NewWizard(providerID)
	}
	var w Wizard
	if err := json.Unmarshal([]byte(raw), &w); err != nil || w.Provider != providerID {
		return NewWizard(providerID)
	}
	if w.Step < StepCredentials || w.Step > StepConnected {
		w.Step = StepCredentials
	}
	return &w
}
