package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserPreferenceValidate(t *testing.T) {
	assert.Error(t, (&UserPreference{}).Validate())
	assert.NoError(t, (&UserPreference{UserID: 4}).Validate())
}

func TestDismissOnboardingKeepsFirstTimestamp(t *testing.T) {
	p := UserPreference{UserID: 4}
	first := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	p.DismissOnboarding(first)
	p.DismissOnboarding(first.Add(time.Hour))

	assert.True(t, p.OnboardingDismissed)
	require.NotNil(t, p.OnboardingDismissedAt)
	assert.Equal(t, first, *p.OnboardingDismissedAt)
}
