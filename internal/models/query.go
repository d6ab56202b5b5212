package models

// StructuredQuery is the canonical search request sent to the downstream
// flight search service. It is built by the parser from free text or bound
// directly from a structured request body. Field names follow the downstream
// wire contract.
type StructuredQuery struct {
	Origin       string   `json:"origin,omitempty"`
	Destination  string   `json:"destination,omitempty"`
	DepartDate   string   `json:"departDate,omitempty"`
	ReturnDate   string   `json:"returnDate,omitempty"`
	MinPrice     *float64 `json:"minPrice,omitempty"`
	MaxPrice     *float64 `json:"maxPrice,omitempty"`
	DepartAfter  string   `json:"departAfter,omitempty"`
	DepartBefore string   `json:"departBefore,omitempty"`
	Airline      string   `json:"airline,omitempty"`
	Stops        *int     `json:"stops,omitempty"`
	CabinClass   string   `json:"cabinClass,omitempty"`
	Limit        int      `json:"limit,omitempty"`
	Currency     string   `json:"currency,omitempty"`
	Intent       string   `json:"intent,omitempty"`
}

// Intents accepted by the query schema. The parser can emit values outside
// this set (notably airline preference); those are coerced to "cheapest"
// rather than widening the set, since downstream consumers depend on it.
var validIntents = map[string]bool{
	"cheapest":     true,
	"price_range":  true,
	"earliest":     true,
	"direct":       true,
	"cabin_filter": true,
	"day_compare":  true,
}

// ApplyDefaults fills schema defaults and coerces an unrecognized intent to
// "cheapest". It returns the rejected intent value when coercion happened so
// the caller can log a warning, or "" otherwise.
func (q *StructuredQuery) ApplyDefaults() string {
	if q.CabinClass == "" {
		q.CabinClass = "Economy"
	}
	if q.Limit <= 0 {
		q.Limit = 10
	}
	if q.Currency == "" {
		q.Currency = "INR"
	}
	if q.Intent == "" {
		q.Intent = "cheapest"
	}
	if !validIntents[q.Intent] {
		rejected := q.Intent
		q.Intent = "cheapest"
		return rejected
	}
	return ""
}

func (q *StructuredQuery) Validate() error {
	if q.Origin == "" {
		return ErrMissingOrigin
	}
	if q.Destination == "" {
		return ErrMissingDestination
	}
	if q.MinPrice != nil && q.MaxPrice != nil && *q.MinPrice > *q.MaxPrice {
		return ErrInvalidPriceRange
	}
	return nil
}

type ValidationError string

func (e ValidationError) Error() string {
	return string(e)
}

const (
	ErrMissingOrigin      ValidationError = "origin is required"
	ErrMissingDestination ValidationError = "destination is required"
	ErrInvalidPriceRange  ValidationError = "minPrice must not exceed maxPrice"
)
