package repository

import (
	"github.com/dataplunge/dataplunge/app/models"
)

// PreferenceRepository defines the interface for per-user preference storage
type PreferenceRepository interface {
	Get(userID int64) (*models.UserPreference, error)
	IsOnboardingDismissed(userID int64) (bool, error)
	DismissOnboarding(userID int64) error
}

// Repositories holds all repository instances
type Repositories struct {
	Preference PreferenceRepository
}
