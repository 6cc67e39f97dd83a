package viewmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dataplunge/dataplunge/internal/pkg/aggregate"
	"github.com/dataplunge/dataplunge/internal/pkg/backend"
)

func TestNumber(t *testing.T) {
	tests := map[int64]string{
		0:        "0",
		999:      "999",
		1000:     "1,000",
		1234567:  "1,234,567",
		-1234567: "-1,234,567",
	}
	for in, want := range tests {
		assert.Equal(t, want, Number(in))
	}
}

func TestDecimalAndMoney(t *testing.T) {
	assert.Equal(t, "0.00", Decimal(0))
	assert.Equal(t, "1,234.57", Decimal(1234.567))
	assert.Equal(t, "-3.50", Decimal(-3.5))
	assert.Equal(t, "CHF 12.30", Money(12.3))
}

func TestTimestamp(t *testing.T) {
	assert.Equal(t, "Never", Timestamp(""))
	assert.Equal(t, "Mar 1, 2024", Timestamp("Fri, 01 Mar 2024 10:00:00 GMT"))
	assert.Equal(t, "Mar 1, 2024", Timestamp("2024-03-01T10:00:00Z"))
	assert.Equal(t, "Mar 1, 2024", Timestamp("2024-03-01 10:00:00"))
	assert.Equal(t, "soon", Timestamp("soon"))
}

func TestNewSummaryGuardsDivision(t *testing.T) {
	s := NewSummary(aggregate.Totals{Costs: 50})
	assert.Zero(t, s.CostPerClick)
	assert.Zero(t, s.CostPerConversion)

	s = NewSummary(aggregate.Totals{Costs: 50, Clicks: 25, Conversions: 5})
	assert.Equal(t, 2.0, s.CostPerClick)
	assert.Equal(t, 10.0, s.CostPerConversion)
}

func TestTemplateFuncsAcceptNamedNumbers(t *testing.T) {
	funcs := Funcs()
	money := funcs["money"].(func(any) string)
	number := funcs["number"].(func(any) string)

	assert.Equal(t, "CHF 1,500.25", money(backend.Number(1500.25)))
	assert.Equal(t, "CHF 3.00", money(int64(3)))
	assert.Equal(t, "12,000", number(backend.Count(12000)))
	assert.Equal(t, "0", number("not a number"))
}
