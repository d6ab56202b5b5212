package models

import "encoding/json"

// Region is a currency/country context. Each resolved region scopes exactly
// one downstream search call and tags the results it produced.
type Region struct {
	Country  string `json:"country"`
	Currency string `json:"currency,omitempty"`
	Region   string `json:"region"`
}

// Label is the display name used for result tagging.
func (r Region) Label() string {
	if r.Region != "" {
		return r.Region
	}
	if r.Country != "" {
		return r.Country
	}
	return "unknown"
}

// Device carries client-side locale signals: an explicit region list, or
// country/currency hints from device settings.
type Device struct {
	Country  string       `json:"country,omitempty"`
	Currency string       `json:"currency,omitempty"`
	Region   string       `json:"region,omitempty"`
	Regions  []RegionSpec `json:"regions,omitempty"`
}

// RegionSpec accepts either a bare country code ("IN") or a region object
// ({"country":"AE","currency":"AED"}) in the request body.
type RegionSpec struct {
	Country  string `json:"country,omitempty"`
	Currency string `json:"currency,omitempty"`
	Region   string `json:"region,omitempty"`
}

func (s *RegionSpec) UnmarshalJSON(data []byte) error {
	var code string
	if err := json.Unmarshal(data, &code); err == nil {
		s.Country = code
		s.Region = code
		s.Currency = ""
		return nil
	}

	type plain RegionSpec
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*s = RegionSpec(p)
	return nil
}
