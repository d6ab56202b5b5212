package models

import "encoding/json"

// Keys the aggregation pipeline writes onto results. Everything else in a
// FlightResult belongs to the downstream provider and is passed through as-is.
const (
	KeyRegionSource    = "region_source"
	KeyRegionSources   = "region_sources"
	KeyPriceNormalized = "_price_normalized"
	KeyDisplayCurrency = "_display_currency"
)

// FlightResult is a single offer from the downstream search service. The
// offer shape is provider-defined, so it stays an open mapping; the pipeline
// only reads provider, providerFlightId, origin, destination, departureTime,
// price and currency.
type FlightResult map[string]any

// String returns the named field as a string, or "" when absent or of
// another type.
func (f FlightResult) String(key string) string {
	s, _ := f[key].(string)
	return s
}

// Number returns the named field as a float64. JSON decoding yields float64
// for all numbers; the other cases cover results built in code.
func (f FlightResult) Number(key string) (float64, bool) {
	switch v := f[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		n, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// RegionSources returns the accumulated region labels on a merged result.
func (f FlightResult) RegionSources() []string {
	sources, _ := f[KeyRegionSources].([]string)
	return sources
}
