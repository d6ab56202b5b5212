// Package aggregator fans one structured query out across the resolved
// regions, one downstream search call per region, and merges the combined
// result set into a single ranked list.
package aggregator

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/dharmasatrya/flightagent/internal/models"
	"github.com/dharmasatrya/flightagent/internal/ratelimit"
)

// Searcher is the downstream search call, one invocation per region.
type Searcher interface {
	Search(ctx context.Context, query models.StructuredQuery) ([]models.FlightResult, error)
}

type Config struct {
	// Timeout bounds the whole fan-out, retries included.
	Timeout time.Duration
	// DisplayCurrency turns on price normalization of the merged list.
	DisplayCurrency string
	// Rates is the common-base conversion table; empty disables
	// normalization.
	Rates map[string]float64
	// RateLimiter paces per-region calls when set.
	RateLimiter *ratelimit.RegionLimiter
}

type Aggregator struct {
	searcher Searcher
	config   Config
	log      *zap.Logger
}

// Result carries the merged flights plus per-region outcome counts for the
// response metadata.
type Result struct {
	Flights          []models.FlightResult
	DisplayCurrency  string
	RegionsQueried   int
	RegionsSucceeded int
	RegionsFailed    int
	FailedRegions    []string
}

func New(searcher Searcher, config Config, log *zap.Logger) *Aggregator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Aggregator{
		searcher: searcher,
		config:   config,
		log:      log,
	}
}

// Search runs the per-region fan-out and aggregation. Region calls run
// concurrently and share no state; a failed region contributes an empty
// list instead of failing the request. Aggregation starts only after every
// region has settled.
//
// currencyOverride (a currency mentioned in the user's text) beats the
// region's own currency, which beats the currency already on the query.
func (a *Aggregator) Search(ctx context.Context, base models.StructuredQuery, regions []models.Region, currencyOverride string) (*Result, error) {
	tracer := otel.Tracer("flightagent/aggregator")
	ctx, span := tracer.Start(ctx, "aggregator.Search")
	defer span.End()
	span.SetAttributes(
		attribute.Int("search.regions", len(regions)),
		attribute.String("search.origin", base.Origin),
		attribute.String("search.destination", base.Destination),
	)

	searchCtx := ctx
	if a.config.Timeout > 0 {
		var cancel context.CancelFunc
		searchCtx, cancel = context.WithTimeout(ctx, a.config.Timeout)
		defer cancel()
	}

	perRegion := make([][]models.FlightResult, len(regions))
	failed := make([]bool, len(regions))

	var wg sync.WaitGroup
	for i, reg := range regions {
		wg.Add(1)
		go func(i int, reg models.Region) {
			defer wg.Done()

			if a.config.RateLimiter != nil {
				if err := a.config.RateLimiter.Wait(searchCtx, reg.Label()); err != nil {
					a.log.Warn("rate limiter wait failed",
						zap.String("region", reg.Label()), zap.Error(err))
					failed[i] = true
					return
				}
			}

			query := base
			query.Currency = regionCurrency(reg, base, currencyOverride)

			flights, err := a.searcher.Search(searchCtx, query)
			if err != nil {
				a.log.Warn("region search failed, substituting empty result list",
					zap.String("region", reg.Label()), zap.Error(err))
				failed[i] = true
				return
			}
			perRegion[i] = flights
		}(i, reg)
	}
	wg.Wait()

	result := &Result{
		DisplayCurrency: a.config.DisplayCurrency,
		RegionsQueried:  len(regions),
	}

	// Flatten in region order, tagging each result with its source region
	// before the merge sees it.
	all := make([]models.FlightResult, 0)
	for i, reg := range regions {
		if failed[i] {
			result.RegionsFailed++
			result.FailedRegions = append(result.FailedRegions, reg.Label())
			continue
		}
		result.RegionsSucceeded++
		label := reg.Label()
		for _, f := range perRegion[i] {
			if f == nil {
				continue
			}
			f[models.KeyRegionSource] = label
			all = append(all, f)
		}
	}

	merged := MergeAndDedupe(all)

	if a.config.DisplayCurrency != "" {
		NormalizePrices(merged, a.config.DisplayCurrency, a.config.Rates)
	}
	SortByPrice(merged, a.config.DisplayCurrency != "")

	result.Flights = merged
	return result, nil
}

func regionCurrency(reg models.Region, base models.StructuredQuery, override string) string {
	switch {
	case override != "":
		return override
	case reg.Currency != "":
		return reg.Currency
	case base.Currency != "":
		return base.Currency
	}
	return "INR"
}
