package shared

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSameCRS(t *testing.T) {
	assert.True(t, SameCRS("ESRI:102630", " esri:102630 "))
	assert.True(t, SameCRS("EPSG : 4326", "epsg:4326"))
	assert.False(t, SameCRS("EPSG:4326", "EPSG:3857"))
}

func TestSplitAuthority(t *testing.T) {
	tests := []struct {
		input     string
		authority string
		code      int64
		ok        bool
	}{
		{input: "EPSG:4326", authority: "EPSG", code: 4326, ok: true},
		{input: "esri:102630", authority: "ESRI", code: 102630, ok: true},
		{input: "PROJCS[\"x\"]", ok: false},
		{input: "EPSG:abc", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			authority, code, ok := SplitAuthority(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.authority, authority)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestAsConversions(t *testing.T) {
	n, ok := AsInt64("2404746")
	assert.True(t, ok)
	assert.Equal(t, int64(2404746), n)

	n, ok = AsInt64(2404989.0)
	assert.True(t, ok)
	assert.Equal(t, int64(2404989), n)

	_, ok = AsInt64("Town")
	assert.False(t, ok)

	f, ok := AsFloat64("12.5")
	assert.True(t, ok)
	assert.InDelta(t, 12.5, f, 1e-9)

	assert.Equal(t, "2019-06-10", AsString(time.Date(2019, 6, 10, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "", AsString(nil))
	assert.Equal(t, "37000", AsString("37000"))
	assert.Equal(t, "42", AsString(int64(42)))
}

func TestAsInt64(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  int64
		ok    bool
	}{
		{name: "int64", value: int64(2404231), want: 2404231, ok: true},
		{name: "int32", value: int32(7), want: 7, ok: true},
		{name: "rounded float", value: 2.5, want: 3, ok: true},
		{name: "decimal text", value: " 2404746.0 ", want: 2404746, ok: true},
		{name: "leading zeros", value: "02956", want: 2956, ok: true},
		{name: "blank text", value: "  ", ok: false},
		{name: "nil", value: nil, ok: false},
		{name: "bool", value: true, ok: false},
		{name: "not a number", value: math.NaN(), ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := AsInt64(tt.value)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAsFloat64AndTimeRejectEmpty(t *testing.T) {
	_, ok := AsFloat64("")
	assert.False(t, ok)
	_, ok = AsFloat64(nil)
	assert.False(t, ok)

	_, ok = AsTime(nil)
	assert.False(t, ok)
	_, ok = AsTime(time.Time{})
	assert.False(t, ok)
	parsed, ok := AsTime("2019 12 01")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2019, 12, 1, 0, 0, 0, 0, time.UTC), parsed)
}

func TestMaxTime(t *testing.T) {
	latest, ok := MaxTime([]any{
		"2018-03-01",
		time.Date(2019, 1, 2, 0, 0, 0, 0, time.UTC),
		nil,
		"garbage",
		"20190610",
	})
	assert.True(t, ok)
	assert.Equal(t, time.Date(2019, 6, 10, 0, 0, 0, 0, time.UTC), latest)

	_, ok = MaxTime([]any{nil, ""})
	assert.False(t, ok)
}
