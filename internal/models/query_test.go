package models

import "testing"

func TestApplyDefaults_FillsEmptyFields(t *testing.T) {
	q := StructuredQuery{Origin: "DEL", Destination: "DXB"}

	rejected := q.ApplyDefaults()

	if rejected != "" {
		t.Fatalf("unexpected rejected intent: %q", rejected)
	}
	if q.CabinClass != "Economy" {
		t.Fatalf("unexpected cabin: %q", q.CabinClass)
	}
	if q.Limit != 10 {
		t.Fatalf("unexpected limit: %d", q.Limit)
	}
	if q.Currency != "INR" {
		t.Fatalf("unexpected currency: %q", q.Currency)
	}
	if q.Intent != "cheapest" {
		t.Fatalf("unexpected intent: %q", q.Intent)
	}
}

func TestApplyDefaults_PreservesSetFields(t *testing.T) {
	q := StructuredQuery{
		CabinClass: "Business",
		Limit:      3,
		Currency:   "USD",
		Intent:     "earliest",
	}

	if rejected := q.ApplyDefaults(); rejected != "" {
		t.Fatalf("unexpected rejected intent: %q", rejected)
	}
	if q.CabinClass != "Business" || q.Limit != 3 || q.Currency != "USD" || q.Intent != "earliest" {
		t.Fatalf("defaults overwrote explicit values: %+v", q)
	}
}

func TestApplyDefaults_CoercesUnknownIntent(t *testing.T) {
	q := StructuredQuery{Intent: "airline_filter"}

	rejected := q.ApplyDefaults()

	if rejected != "airline_filter" {
		t.Fatalf("expected rejected intent to be reported, got %q", rejected)
	}
	if q.Intent != "cheapest" {
		t.Fatalf("unexpected intent after coercion: %q", q.Intent)
	}
}

func TestValidate(t *testing.T) {
	low, high := 1000.0, 500.0

	cases := []struct {
		name  string
		query StructuredQuery
		want  error
	}{
		{"valid", StructuredQuery{Origin: "DEL", Destination: "DXB"}, nil},
		{"missing origin", StructuredQuery{Destination: "DXB"}, ErrMissingOrigin},
		{"missing destination", StructuredQuery{Origin: "DEL"}, ErrMissingDestination},
		{"inverted price range", StructuredQuery{Origin: "DEL", Destination: "DXB", MinPrice: &low, MaxPrice: &high}, ErrInvalidPriceRange},
	}

	for _, tc := range cases {
		if got := tc.query.Validate(); got != tc.want {
			t.Fatalf("%s: Validate() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestRegionSpec_UnmarshalBareCode(t *testing.T) {
	var spec RegionSpec
	if err := spec.UnmarshalJSON([]byte(`"AE"`)); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if spec.Country != "AE" || spec.Region != "AE" || spec.Currency != "" {
		t.Fatalf("unexpected spec: %+v", spec)
	}
}

func TestRegionSpec_UnmarshalObject(t *testing.T) {
	var spec RegionSpec
	if err := spec.UnmarshalJSON([]byte(`{"country":"AE","currency":"AED"}`)); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if spec.Country != "AE" || spec.Currency != "AED" {
		t.Fatalf("unexpected spec: %+v", spec)
	}
}

func TestRegionLabel(t *testing.T) {
	cases := []struct {
		region Region
		want   string
	}{
		{Region{Country: "IN", Region: "IN-South"}, "IN-South"},
		{Region{Country: "IN"}, "IN"},
		{Region{}, "unknown"},
	}

	for _, tc := range cases {
		if got := tc.region.Label(); got != tc.want {
			t.Fatalf("Label(%+v) = %q, want %q", tc.region, got, tc.want)
		}
	}
}

func TestFlightResultNumber(t *testing.T) {
	f := FlightResult{"price": 4500.0, "stops": 1, "provider": "amadeus"}

	if v, ok := f.Number("price"); !ok || v != 4500.0 {
		t.Fatalf("unexpected price: %v %v", v, ok)
	}
	if v, ok := f.Number("stops"); !ok || v != 1.0 {
		t.Fatalf("unexpected stops: %v %v", v, ok)
	}
	if _, ok := f.Number("provider"); ok {
		t.Fatal("string field must not read as a number")
	}
	if _, ok := f.Number("missing"); ok {
		t.Fatal("missing field must not read as a number")
	}
}
