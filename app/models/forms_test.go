package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginFormValidate(t *testing.T) {
	tests := []struct {
		name string
		form LoginForm
		msg  string
	}{
		{"valid", LoginForm{Email: " ada@example.com ", Password: "secret1"}, ""},
		{"missing email", LoginForm{Password: "secret1"}, "Email is required"},
		{"bad email", LoginForm{Email: "ada", Password: "secret1"}, "Please enter a valid email address"},
		{"short password", LoginForm{Email: "ada@example.com", Password: "123"}, "Password must be at least 6 characters"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.form.Validate()
			if tc.msg == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tc.msg, ValidationMessage(err))
		})
	}
}

func TestRegisterFormValidate(t *testing.T) {
	f := RegisterForm{Email: "ada@example.com", Password: "secret1"}
	require.NoError(t, f.Validate(), "full name is optional")

	long := make([]byte, 121)
	for i := range long {
		long[i] = 'a'
	}
	f.FullName = string(long)
	err := f.Validate()
	require.Error(t, err)
	assert.Equal(t, "Full name must be at most 120 characters", ValidationMessage(err))
}

func TestUserPreference(t *testing.T) {
	p := &UserPreference{}
	assert.Error(t, p.Validate())

	p.UserID = 42
	require.NoError(t, p.Validate())

	now := time.Now()
	p.DismissOnboarding(now)
	assert.True(t, p.OnboardingDismissed)
	require.NotNil(t, p.OnboardingDismissedAt)

	first := *p.OnboardingDismissedAt
	p.DismissOnboarding(now.Add(time.Hour))
	assert.Equal(t, first, *p.OnboardingDismissedAt)
}
