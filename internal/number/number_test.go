package number

import (
	"encoding/json"
	"math"
	"testing"
)

func TestToFloat64(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input any
		ok    bool
		want  float64
	}{
		{name: "int", input: int(10), ok: true, want: 10},
		{name: "uint64", input: uint64(7), ok: true, want: 7},
		{name: "float64", input: 12.5, ok: true, want: 12.5},
		{name: "json_number", input: json.Number("42"), ok: true, want: 42},
		{name: "bad_json_number", input: json.Number("x"), ok: false, want: 0},
		{name: "non_numeric", input: "x", ok: false, want: 0},
		{name: "nil", input: nil, ok: false, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToFloat64(tt.input)
			if ok != tt.ok {
				t.Fatalf("ToFloat64(%v) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if got != tt.want {
				t.Fatalf("ToFloat64(%v) value = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestToInt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input any
		ok    bool
		want  int
	}{
		{name: "int64", input: int64(3), ok: true, want: 3},
		{name: "integral_float", input: 4.0, ok: true, want: 4},
		{name: "negative", input: -2, ok: true, want: -2},
		{name: "fraction", input: 4.2, ok: false},
		{name: "nan", input: math.NaN(), ok: false},
		{name: "inf", input: math.Inf(1), ok: false},
		{name: "huge", input: 1e20, ok: false},
		{name: "string", input: "3", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToInt(tt.input)
			if ok != tt.ok {
				t.Fatalf("ToInt(%v) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if got != tt.want {
				t.Fatalf("ToInt(%v) value = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}
