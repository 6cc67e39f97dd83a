package hcaptcha

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerify(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "s3cret", r.PostForm.Get("secret"))
		if r.PostForm.Get("response") == "good" {
			_, _ = w.Write([]byte(`{"success":true}`))
			return
		}
		_, _ = w.Write([]byte(`{"success":false,"error-codes":["invalid-input-response"]}`))
	}))
	defer server.Close()

	v := Verifier{Secret: "s3cret", Endpoint: server.URL}
	assert.True(t, v.Enabled())

	ok, err := v.Verify(context.Background(), "good")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = v.Verify(context.Background(), "bad")
	assert.False(t, ok)
	assert.EqualError(t, err, "hCaptcha validation failed: invalid-input-response")

	ok, err = v.Verify(context.Background(), "")
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestDisabledWithoutSecret(t *testing.T) {
	v := Verifier{}
	assert.False(t, v.Enabled())
	ok, err := v.Verify(context.Background(), "token")
	assert.False(t, ok)
	assert.Error(t, err)
}
