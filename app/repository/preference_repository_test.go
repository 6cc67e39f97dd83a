package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryPreferenceRepository(t *testing.T) {
	repo := NewFactory(nil).GetPreferenceRepository()

	dismissed, err := repo.IsOnboardingDismissed(7)
	require.NoError(t, err)
	assert.False(t, dismissed)

	require.NoError(t, repo.DismissOnboarding(7))
	require.NoError(t, repo.DismissOnboarding(7))

	dismissed, err = repo.IsOnboardingDismissed(7)
	require.NoError(t, err)
	assert.True(t, dismissed)

	other, err := repo.IsOnboardingDismissed(8)
	require.NoError(t, err)
	assert.False(t, other)

	p, err := repo.Get(7)
	require.NoError(t, err)
	assert.NotNil(t, p.OnboardingDismissedAt)

	assert.Error(t, repo.DismissOnboarding(0), "user id is validated")
}

func TestFactoryIsSingleton(t *testing.T) {
	f := NewFactory(nil)
	assert.Same(t, f.GetRepositories(), f.GetRepositories())

	InitializeFactory(nil)
	assert.NotNil(t, GetGlobalFactory().GetPreferenceRepository())
}
