package backend

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberAndCountAreLenient(t *testing.T) {
	var row struct {
		A Number `json:"a"`
		B Number `json:"b"`
		C Number `json:"c"`
		D Count  `json:"d"`
		E Count  `json:"e"`
		F Count  `json:"f"`
		G Count  `json:"g"`
	}
	err := json.Unmarshal([]byte(`{"a":"12.50","b":null,"c":"n/a","d":3.9,"e":"7","f":-2,"g":null}`), &row)
	require.NoError(t, err)

	assert.InDelta(t, 12.5, float64(row.A), 1e-9)
	assert.Zero(t, row.B)
	assert.Zero(t, row.C)
	assert.Equal(t, Count(3), row.D)
	assert.Equal(t, Count(7), row.E)
	assert.Equal(t, Count(0), row.F)
	assert.Equal(t, Count(0), row.G)
}

func TestParseDateLayouts(t *testing.T) {
	tests := map[string]string{
		"2024-03-01":                    "2024-03-01",
		"2024-03-01T22:30:00Z":          "2024-03-01",
		"2024-03-01T23:30:00-02:00":     "2024-03-02",
		"Fri, 01 Mar 2024 00:00:00 GMT": "2024-03-01",
		"2024-03-01 08:00:00":           "2024-03-01",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			d, err := ParseDate(in)
			require.NoError(t, err)
			assert.Equal(t, want, d.Format(time.DateOnly))
		})
	}

	_, err := ParseDate("yesterday")
	assert.Error(t, err)
}

func TestDateNullDecodesToZero(t *testing.T) {
	var row PerformanceRow
	require.NoError(t, json.Unmarshal([]byte(`{"date":null}`), &row))
	assert.True(t, row.Date.IsZero())
}

func TestNormalizedStatus(t *testing.T) {
	tests := map[string]string{
		"connected": StatusConnected,
		"Expired":   StatusExpired,
		"error":     StatusError,
		"":          StatusUnknown,
		"syncing":   StatusUnknown,
	}
	for in, want := range tests {
		assert.Equal(t, want, DataSource{Status: in}.NormalizedStatus(), in)
	}
}

func TestMetaAccountActive(t *testing.T) {
	assert.True(t, MetaAdAccount{AccountStatus: 1}.Active())
	assert.False(t, MetaAdAccount{AccountStatus: 2}.Active())
}
