package repository

import (
	"errors"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/dataplunge/dataplunge/app/models"
)

// preferenceRepository implements PreferenceRepository on MySQL
type preferenceRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewPreferenceRepository creates a new preference repository instance
func NewPreferenceRepository(db *gorm.DB) PreferenceRepository {
	return &preferenceRepository{db: db, now: time.Now}
}

// Get returns the stored row, or an unsaved default when none exists yet
func (r *preferenceRepository) Get(userID int64) (*models.UserPreference, error) {
	var p models.UserPreference
	err := r.db.Where("user_id = ?", userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.UserPreference{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *preferenceRepository) IsOnboardingDismissed(userID int64) (bool, error) {
	p, err := r.Get(userID)
	if err != nil {
		return false, err
	}
	return p.OnboardingDismissed, nil
}

func (r *preferenceRepository) DismissOnboarding(userID int64) error {
	p, err := models.GetOrCreateUserPreference(r.db, userID)
	if err != nil {
		return err
	}
	if p.OnboardingDismissed {
		return nil
	}
	p.DismissOnboarding(r.now())
	return r.db.Model(p).Updates(map[string]any{
		"onboarding_dismissed":    true,
		"onboarding_dismissed_at": p.OnboardingDismissedAt,
	}).Error
}

// memoryPreferenceRepository keeps preferences in process memory
type memoryPreferenceRepository struct {
	mu    sync.Mutex
	prefs map[int64]models.UserPreference
	now   func() time.Time
}

// NewMemoryPreferenceRepository is used when no database is configured and in tests
func NewMemoryPreferenceRepository() PreferenceRepository {
	return &memoryPreferenceRepository{prefs: make(map[int64]models.UserPreference), now: time.Now}
}

func (r *memoryPreferenceRepository) Get(userID int64) (*models.UserPreference, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.prefs[userID]
	if !ok {
		p = models.UserPreference{UserID: userID}
	}
	return &p, nil
}

func (r *memoryPreferenceRepository) IsOnboardingDismissed(userID int64) (bool, error) {
	p, _ := r.Get(userID)
	return p.OnboardingDismissed, nil
}

func (r *memoryPreferenceRepository) DismissOnboarding(userID int64) error {
	p := models.UserPreference{UserID: userID}
	if err := p.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.prefs[userID]; ok {
		p = existing
	}
	p.DismissOnboarding(r.now())
	r.prefs[userID] = p
	return nil
}
