package viewmodel

import (
	"fmt"
	"html/template"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/dataplunge/dataplunge/internal/pkg/aggregate"
)

const currency = "CHF"

var timestampLayouts = []string{
	time.RFC1123,
	time.RFC1123Z,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// Funcs are the template helpers registered on the html engine.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"money":     func(v any) string { return Money(toFloat(v)) },
		"number":    func(v any) string { return Number(int64(toFloat(v))) },
		"decimal":   func(v any) string { return Decimal(toFloat(v)) },
		"timestamp": Timestamp,
		"inc":       func(i int) int { return i + 1 },
	}
}

// toFloat accepts the named numeric types the backend rows use.
func toFloat(v any) float64 {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint())
	}
	return 0
}

// Number formats an integer with thousands separators.
func Number(v int64) string {
	s := strconv.FormatInt(v, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// Decimal rounds to two places and groups the integer part.
func Decimal(v float64) string {
	v = aggregate.Round2(v)
	whole := math.Trunc(v)
	frac := math.Round(math.Abs(v-whole) * 100)
	sign := ""
	if v < 0 {
		sign = "-"
	}
	return fmt.Sprintf("%s%s.%02d", sign, Number(int64(math.Abs(whole))), int64(frac))
}

func Money(v float64) string {
	return currency + " " + Decimal(v)
}

// Timestamp renders backend timestamps as "Jan 2, 2006"; blank means "Never".
func Timestamp(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "Never"
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("Jan 2, 2006")
		}
	}
	return raw
}
