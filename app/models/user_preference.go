package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// UserPreference stores per-user UI state for a backend user.
type UserPreference struct {
	ID                    uint           `gorm:"primaryKey" json:"id"`
	UserID                int64          `gorm:"uniqueIndex;not null" json:"user_id" validate:"required,gt=0"`
	OnboardingDismissed   bool           `gorm:"default:false" json:"onboarding_dismissed"`
	OnboardingDismissedAt *time.Time     `json:"onboarding_dismissed_at"`
	CreatedAt             time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt             gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *UserPreference) Validate() error {
	v := validator.New()
	return v.Struct(p)
}

// DismissOnboarding marks the first-run modal as done.
func (p *UserPreference) DismissOnboarding(now time.Time) {
	if p.OnboardingDismissed {
		return
	}
	p.OnboardingDismissed = true
	p.OnboardingDismissedAt = &now
}

// GetOrCreateUserPreference returns the existing row or creates defaults
func GetOrCreateUserPreference(db *gorm.DB, userID int64) (*UserPreference, error) {
	var p UserPreference
	if err := db.Where("user_id = ?", userID).First(&p).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			p = UserPreference{UserID: userID}
			if err := p.Validate(); err != nil {
				return nil, err
			}
			if err := db.Create(&p).Error; err != nil {
				return nil, err
			}
			return &p, nil
		}
		return nil, err
	}
	return &p, nil
}
