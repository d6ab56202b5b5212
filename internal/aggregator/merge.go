package aggregator

import (
	"fmt"
	"math"
	"sort"

	"github.com/dharmasatrya/flightagent/internal/models"
	"github.com/dharmasatrya/flightagent/pkg/currency"
)

// MergeAndDedupe collapses results gathered across regions into one list.
// Offer identity is (provider, providerFlightId) when the provider supplied
// an id, otherwise (provider, origin, destination, departureTime, price).
// The first occurrence in scan order is kept as the canonical record; later
// duplicates only contribute their region label. Malformed entries are
// skipped rather than aborting the merge.
func MergeAndDedupe(results []models.FlightResult) []models.FlightResult {
	seen := make(map[string]models.FlightResult)
	merged := make([]models.FlightResult, 0, len(results))

	for _, r := range results {
		if r == nil {
			continue
		}

		key := mergeKey(r)
		source := r.String(models.KeyRegionSource)

		if existing, dup := seen[key]; dup {
			if source != "" {
				addRegionSource(existing, source)
			}
			continue
		}

		canonical := make(models.FlightResult, len(r)+1)
		for k, v := range r {
			canonical[k] = v
		}
		sources := []string{}
		if source != "" {
			sources = append(sources, source)
		}
		canonical[models.KeyRegionSources] = sources

		merged = append(merged, canonical)
		seen[key] = canonical
	}

	return merged
}

func mergeKey(r models.FlightResult) string {
	provider := r.String("provider")
	if pid := r.String("providerFlightId"); pid != "" {
		return "pid::" + provider + "::" + pid
	}
	price, _ := r.Number("price")
	return fmt.Sprintf("anon::%s::%s::%s::%s::%v",
		provider,
		r.String("origin"),
		r.String("destination"),
		r.String("departureTime"),
		price)
}

func addRegionSource(r models.FlightResult, source string) {
	sources := r.RegionSources()
	for _, s := range sources {
		if s == source {
			return
		}
	}
	r[models.KeyRegionSources] = append(sources, source)
}

// NormalizePrices attaches the display-currency price to every result the
// rate table covers. Results without rate coverage keep only their raw
// price; they are not dropped.
func NormalizePrices(results []models.FlightResult, displayCurrency string, rates map[string]float64) {
	for _, r := range results {
		amount, ok := r.Number("price")
		if !ok {
			continue
		}
		normalized, ok := currency.Normalize(amount, r.String("currency"), displayCurrency, rates)
		if !ok {
			continue
		}
		r[models.KeyPriceNormalized] = math.Round(normalized*100) / 100
		r[models.KeyDisplayCurrency] = displayCurrency
	}
}

// SortByPrice orders results ascending. When a display currency was
// requested the normalized price wins over the raw one; results with
// neither sort last. The sort is stable so equal prices keep encounter
// order.
func SortByPrice(results []models.FlightResult, useNormalized bool) {
	sort.SliceStable(results, func(i, j int) bool {
		return sortPrice(results[i], useNormalized) < sortPrice(results[j], useNormalized)
	})
}

func sortPrice(r models.FlightResult, useNormalized bool) float64 {
	if useNormalized {
		if v, ok := r.Number(models.KeyPriceNormalized); ok {
			return v
		}
	}
	if v, ok := r.Number("price"); ok {
		return v
	}
	return math.Inf(1)
}
