package usercontext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitials(t *testing.T) {
	tests := []struct {
		name string
		user UserContext
		want string
	}{
		{"two words", UserContext{FullName: "ada lovelace"}, "AL"},
		{"three words", UserContext{FullName: "Jean Luc Picard"}, "JL"},
		{"one word", UserContext{FullName: "Cher", Email: "c@x.io"}, "C"},
		{"email fallback", UserContext{Email: "max@example.com"}, "MA"},
		{"short email", UserContext{Email: "m"}, "M"},
		{"blank name uses email", UserContext{FullName: "   ", Email: "zoe@x.io"}, "ZO"},
		{"unicode", UserContext{FullName: "émile zola"}, "ÉZ"},
		{"nobody", UserContext{}, "?"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.user.Initials())
		})
	}
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Ada", UserContext{FullName: "Ada", Email: "a@x.io"}.DisplayName())
	assert.Equal(t, "a@x.io", UserContext{Email: "a@x.io"}.DisplayName())
}
