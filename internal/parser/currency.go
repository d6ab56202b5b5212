package parser

import "strings"

// Currency mentions recognized in free text, checked in order; the first
// match wins. Covers both ISO codes and common spoken names.
var currencyMentions = []struct {
	keyword string
	code    string
}{
	{"usd", "USD"},
	{"inr", "INR"},
	{"euro", "EUR"},
	{"eur", "EUR"},
	{"pound", "GBP"},
	{"gbp", "GBP"},
	{"aed", "AED"},
	{"dirham", "AED"},
}

// DetectCurrency returns the currency code mentioned in the text, or "" when
// none is found. A mention overrides per-region currency selection.
func DetectCurrency(text string) string {
	lower := strings.ToLower(text)
	for _, m := range currencyMentions {
		if strings.Contains(lower, m.keyword) {
			return m.code
		}
	}
	return ""
}
