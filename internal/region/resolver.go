// Package region decides which currency/country contexts a request targets.
//
// Resolution never fails: explicit client regions win, then device hints,
// then IP geolocation, and any lookup problem falls back to a hard-coded
// default region so region detection can never abort the pipeline.
package region

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dharmasatrya/flightagent/internal/models"
)

const defaultLookupTimeout = 3 * time.Second

// DefaultRegion is the fallback market context.
func DefaultRegion() models.Region {
	return models.Region{Country: "IN", Currency: "INR", Region: "IN"}
}

type Resolver struct {
	providerURL string
	httpClient  *http.Client
	log         *zap.Logger
}

// NewResolver builds a resolver. providerURL is an IP geolocation endpoint
// template with an {ip} placeholder, e.g. "https://ipapi.co/{ip}/json"; an
// empty template disables lookups entirely.
func NewResolver(providerURL string, timeout time.Duration, log *zap.Logger) *Resolver {
	if timeout <= 0 {
		timeout = defaultLookupTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{
		providerURL: strings.TrimSpace(providerURL),
		httpClient:  &http.Client{Timeout: timeout},
		log:         log,
	}
}

// Resolve produces the non-empty region list for one request.
func (r *Resolver) Resolve(ctx context.Context, device *models.Device, ipAddress string) []models.Region {
	if device != nil && len(device.Regions) > 0 {
		regions := make([]models.Region, 0, len(device.Regions))
		for _, spec := range device.Regions {
			regions = append(regions, normalizeSpec(spec))
		}
		if len(regions) > 0 {
			return regions
		}
	}

	if device != nil && (device.Country != "" || device.Currency != "") {
		return []models.Region{{
			Country:  device.Country,
			Currency: device.Currency,
			Region:   device.Region,
		}}
	}

	return []models.Region{r.lookupByIP(ctx, ipAddress)}
}

func normalizeSpec(spec models.RegionSpec) models.Region {
	country := spec.Country
	if country == "" {
		country = spec.Region
	}
	label := spec.Region
	if label == "" {
		label = spec.Country
	}
	return models.Region{Country: country, Currency: spec.Currency, Region: label}
}

// lookupByIP queries the configured geolocation provider. Every failure path
// returns the default region; a warning is the only trace it leaves.
func (r *Resolver) lookupByIP(ctx context.Context, ipAddress string) models.Region {
	if ipAddress == "" || r.providerURL == "" {
		return DefaultRegion()
	}

	url := strings.ReplaceAll(r.providerURL, "{ip}", ipAddress)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		r.log.Warn("region detection request build failed", zap.Error(err))
		return DefaultRegion()
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.log.Warn("region detection via IP provider failed", zap.Error(err))
		return DefaultRegion()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.log.Warn("region detection provider returned non-200",
			zap.Int("status", resp.StatusCode))
		return DefaultRegion()
	}

	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		r.log.Warn("region detection response malformed", zap.Error(err))
		return DefaultRegion()
	}

	country := firstString(payload, "country", "country_code")
	if country == "" {
		country = "IN"
	}
	currency := firstString(payload, "currency", "currency_code")
	if currency == "" {
		currency = "INR"
	}

	return models.Region{Country: country, Currency: currency, Region: country}
}

// firstString reads the first present key, tolerating the field-name
// variations across geolocation providers.
func firstString(payload map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := payload[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
