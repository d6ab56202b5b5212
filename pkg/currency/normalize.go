package currency

import "math"

// Normalize converts amount from one currency to another using a common-base
// rate table: each entry expresses a currency's value relative to one shared
// base unit, so the conversion is (amount / rate[from]) * rate[to].
//
// The second return value is false when the conversion is unavailable: the
// table is empty, either currency is missing, or the arithmetic does not
// produce a finite number. Callers treat that as "leave the price as-is",
// never as an error.
func Normalize(amount float64, from, to string, rates map[string]float64) (float64, bool) {
	if from == to {
		return amount, true
	}
	if len(rates) == 0 {
		return 0, false
	}

	fromRate, ok := rates[from]
	if !ok {
		return 0, false
	}
	toRate, ok := rates[to]
	if !ok {
		return 0, false
	}
	if fromRate == 0 {
		return 0, false
	}

	normalized := (amount / fromRate) * toRate
	if math.IsNaN(normalized) || math.IsInf(normalized, 0) {
		return 0, false
	}
	return normalized, true
}
