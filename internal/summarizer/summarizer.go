// Package summarizer renders the aggregated result set into a short
// user-facing line. The pipeline treats it as an external collaborator; the
// text implementation here is deterministic so responses do not depend on
// any language-model availability.
package summarizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/dharmasatrya/flightagent/internal/models"
	"github.com/dharmasatrya/flightagent/pkg/currency"
)

type Summarizer interface {
	Summarize(ctx context.Context, query models.StructuredQuery, regions []models.Region, flights []models.FlightResult) (string, error)
}

type TextSummarizer struct{}

func NewTextSummarizer() *TextSummarizer {
	return &TextSummarizer{}
}

// Summarize describes the ranked list: how many offers, from which regions,
// and the best price found. The incoming list is already sorted ascending
// by price, so the first entry is the cheapest.
func (s *TextSummarizer) Summarize(ctx context.Context, query models.StructuredQuery, regions []models.Region, flights []models.FlightResult) (string, error) {
	route := routeText(query)

	if len(flights) == 0 {
		return fmt.Sprintf("No flights found%s across %s.", route, regionText(regions)), nil
	}

	best := flights[0]
	price := priceText(best)

	line := fmt.Sprintf("Found %d flights%s across %s.", len(flights), route, regionText(regions))
	if price != "" {
		carrier := best.String("airline")
		if carrier == "" {
			carrier = best.String("provider")
		}
		if carrier != "" {
			line += fmt.Sprintf(" Cheapest: %s at %s.", carrier, price)
		} else {
			line += fmt.Sprintf(" Cheapest offer at %s.", price)
		}
	}
	return line, nil
}

func routeText(query models.StructuredQuery) string {
	if query.Origin == "" || query.Destination == "" {
		return ""
	}
	return fmt.Sprintf(" from %s to %s", query.Origin, query.Destination)
}

func regionText(regions []models.Region) string {
	if len(regions) == 0 {
		return "1 region"
	}
	labels := make([]string, len(regions))
	for i, r := range regions {
		labels[i] = r.Label()
	}
	return fmt.Sprintf("%d region(s) (%s)", len(regions), strings.Join(labels, ", "))
}

// priceText prefers the normalized display price when the pipeline attached
// one.
func priceText(f models.FlightResult) string {
	if amount, ok := f.Number(models.KeyPriceNormalized); ok {
		return currency.Format(f.String(models.KeyDisplayCurrency), amount)
	}
	if amount, ok := f.Number("price"); ok {
		return currency.Format(f.String("currency"), amount)
	}
	return ""
}
