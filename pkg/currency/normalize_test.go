package currency

import (
	"math"
	"testing"
)

func TestNormalize_Identity(t *testing.T) {
	// Same-currency conversion succeeds even with no rate table at all.
	got, ok := Normalize(4500, "INR", "INR", nil)
	if !ok || got != 4500 {
		t.Fatalf("identity conversion failed: %v %v", got, ok)
	}
}

func TestNormalize_EmptyTable(t *testing.T) {
	if _, ok := Normalize(100, "USD", "EUR", map[string]float64{}); ok {
		t.Fatal("conversion with empty table must fail")
	}
}

func TestNormalize_CommonBaseMath(t *testing.T) {
	rates := map[string]float64{"INR": 1.0, "USD": 0.012, "AED": 0.044}

	got, ok := Normalize(8300, "INR", "USD", rates)
	if !ok {
		t.Fatal("conversion should be available")
	}
	want := (8300.0 / 1.0) * 0.012
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("Normalize = %v, want %v", got, want)
	}

	got, ok = Normalize(100, "USD", "AED", rates)
	if !ok {
		t.Fatal("conversion should be available")
	}
	want = (100.0 / 0.012) * 0.044
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("Normalize = %v, want %v", got, want)
	}
}

func TestNormalize_MissingCurrencies(t *testing.T) {
	rates := map[string]float64{"INR": 1.0}

	if _, ok := Normalize(100, "USD", "INR", rates); ok {
		t.Fatal("missing source currency must fail")
	}
	if _, ok := Normalize(100, "INR", "USD", rates); ok {
		t.Fatal("missing target currency must fail")
	}
}

func TestNormalize_ZeroSourceRate(t *testing.T) {
	rates := map[string]float64{"XXX": 0, "INR": 1.0}

	if _, ok := Normalize(100, "XXX", "INR", rates); ok {
		t.Fatal("zero source rate must fail instead of dividing by zero")
	}
}

func TestFormat(t *testing.T) {
	cases := []struct {
		code   string
		amount float64
		want   string
	}{
		{"INR", 4500000, "INR 4.500.000"},
		{"USD", 999, "USD 999"},
		{"INR", 1234.6, "INR 1.235"},
		{"", 1000, "1.000"},
		{"USD", -12500, "-USD 12.500"},
	}

	for _, tc := range cases {
		if got := Format(tc.code, tc.amount); got != tc.want {
			t.Fatalf("Format(%q, %v) = %q, want %q", tc.code, tc.amount, got, tc.want)
		}
	}
}
