// Package parser turns free-text flight requests into a StructuredQuery.
//
// It is a best-effort rule matcher, not a general NLU system: a fixed
// sequence of independent extraction rules runs against the lowercased text,
// each filling the fields it recognizes. Several rules set the query intent;
// the rules are not commutative, and the last one to fire wins.
package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dharmasatrya/flightagent/internal/models"
)

// Weekday numbering follows the convention Monday=0..Sunday=6 used by the
// date rules below. Order matters: the first name found in the text wins.
var weekdayNames = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// Airline keywords matched as substrings. The last keyword found wins when
// several appear.
var airlineKeywords = []string{
	"emirates", "air india", "indigo", "qatar", "lufthansa", "spicejet",
}

var (
	routeRe   = regexp.MustCompile(`from ([a-zA-Z\s]+) to ([a-zA-Z\s]+)`)
	onDateRe  = regexp.MustCompile(`on (\d{1,2})(?:st|nd|rd|th)? (\w+)`)
	betweenRe = regexp.MustCompile(`between ?[₹$€£]?(\d+) and ?[₹$€£]?(\d+)`)
	underRe   = regexp.MustCompile(`(?:under|below) ?[₹$€£]?(\d+)`)
	aboveRe   = regexp.MustCompile(`(?:above|over) ?[₹$€£]?(\d+)`)
	afterRe   = regexp.MustCompile(`after (\d{1,2})(?:[:.](\d{2}))?\s*(am|pm)?`)
	beforeRe  = regexp.MustCompile(`before (\d{1,2})(?:[:.](\d{2}))?\s*(am|pm)?`)
	limitRe   = regexp.MustCompile(`(\d+)\s*(cheapest|flights)`)
)

// Parse extracts a StructuredQuery from free text, resolving relative dates
// against the current day. It never fails: unmatched fields stay unset.
func Parse(text string) models.StructuredQuery {
	return ParseAt(text, time.Now())
}

// ParseAt is Parse with an explicit reference date for "today", "tomorrow",
// weekday names and "next weekend".
func ParseAt(text string, now time.Time) models.StructuredQuery {
	lower := strings.ToLower(text)
	var q models.StructuredQuery

	// 1. Route
	if m := routeRe.FindStringSubmatch(lower); m != nil {
		q.Origin = strings.ToUpper(strings.TrimSpace(m[1]))
		q.Destination = strings.ToUpper(strings.TrimSpace(m[2]))
	}

	// 2. Dates: only the first matching date rule fires.
	today := now
	switch {
	case strings.Contains(lower, "today"):
		q.DepartDate = isoDate(today)
	case strings.Contains(lower, "tomorrow"):
		q.DepartDate = isoDate(today.AddDate(0, 0, 1))
	case strings.Contains(lower, "next weekend"):
		// Coming Saturday out, Sunday back.
		daysAhead := (5 - weekdayIndex(today) + 7) % 7
		depart := today.AddDate(0, 0, daysAhead)
		q.DepartDate = isoDate(depart)
		q.ReturnDate = isoDate(depart.AddDate(0, 0, 1))
	default:
		matched := false
		for num, name := range weekdayNames {
			if strings.Contains(lower, name) {
				daysAhead := (num - weekdayIndex(today) + 7) % 7
				q.DepartDate = isoDate(today.AddDate(0, 0, daysAhead))
				matched = true
				break
			}
		}
		if !matched {
			if m := onDateRe.FindStringSubmatch(lower); m != nil {
				// "on 15th november" against the current year; a month the
				// time package cannot parse leaves the date unset.
				candidate := fmt.Sprintf("%s %s %d", m[1], m[2], today.Year())
				if d, err := time.Parse("2 January 2006", candidate); err == nil {
					q.DepartDate = isoDate(d)
				}
			}
		}
	}

	// 3. Round trip: default return in three days unless a date rule set one.
	if strings.Contains(lower, "return") || strings.Contains(lower, "round trip") {
		if q.ReturnDate == "" {
			q.ReturnDate = isoDate(today.AddDate(0, 0, 3))
		}
	}

	// 4. Price range
	if m := betweenRe.FindStringSubmatch(lower); m != nil {
		q.MinPrice = parsePrice(m[1])
		q.MaxPrice = parsePrice(m[2])
		q.Intent = "price_range"
	} else if strings.Contains(lower, "under") || strings.Contains(lower, "below") {
		if m := underRe.FindStringSubmatch(lower); m != nil {
			q.MaxPrice = parsePrice(m[1])
			q.Intent = "price_range"
		}
	} else if strings.Contains(lower, "above") || strings.Contains(lower, "over") {
		if m := aboveRe.FindStringSubmatch(lower); m != nil {
			q.MinPrice = parsePrice(m[1])
			q.Intent = "price_range"
		}
	}

	// 5. Time window. Minutes are parsed but intentionally truncated to
	// HH:00; the downstream contract only takes whole hours today.
	if m := afterRe.FindStringSubmatch(lower); m != nil {
		q.DepartAfter = clockHour(m[1], m[3])
	}
	if m := beforeRe.FindStringSubmatch(lower); m != nil {
		q.DepartBefore = clockHour(m[1], m[3])
	}

	// 6. Airline preference. Note: "airline_filter" is outside the schema's
	// accepted intent set and gets coerced to "cheapest" at defaulting time.
	for _, airline := range airlineKeywords {
		if strings.Contains(lower, airline) {
			q.Airline = titleCase(airline)
			q.Intent = "airline_filter"
		}
	}

	// 7. Stops
	if strings.Contains(lower, "nonstop") || strings.Contains(lower, "non-stop") || strings.Contains(lower, "direct") {
		q.Stops = intPtr(0)
		q.Intent = "direct"
	} else if strings.Contains(lower, "1-stop") || strings.Contains(lower, "one stop") {
		q.Stops = intPtr(1)
	}

	// 8. Cabin: "premium economy" must be checked before plain "economy".
	if strings.Contains(lower, "business") {
		q.CabinClass = "Business"
		q.Intent = "cabin_filter"
	} else if strings.Contains(lower, "premium economy") {
		q.CabinClass = "Premium Economy"
		q.Intent = "cabin_filter"
	} else if strings.Contains(lower, "economy") {
		q.CabinClass = "Economy"
	}

	// 9. Multi-day comparison
	if strings.Contains(lower, "compare") && containsWeekday(lower) {
		q.Intent = "day_compare"
	}

	// 10. Cheap fallback
	if strings.Contains(lower, "cheap") || strings.Contains(lower, "lowest") || strings.Contains(lower, "affordable") {
		q.Intent = "cheapest"
	}

	// 11. Numeric limit
	if m := limitRe.FindStringSubmatch(lower); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			q.Limit = n
		}
	}

	// 12. Default intent
	if q.Intent == "" {
		q.Intent = "cheapest"
	}

	return q
}

// weekdayIndex maps time.Weekday (Sunday=0) to the Monday=0 numbering the
// date rules use.
func weekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func containsWeekday(lower string) bool {
	for _, name := range weekdayNames {
		if strings.Contains(lower, name) {
			return true
		}
	}
	return false
}

func isoDate(t time.Time) string {
	return t.Format("2006-01-02")
}

func parsePrice(s string) *float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// clockHour builds the "HH:00" window bound, shifting pm hours into 24h form.
func clockHour(hourStr, meridiem string) string {
	hour, err := strconv.Atoi(hourStr)
	if err != nil {
		return ""
	}
	if meridiem == "pm" && hour < 12 {
		hour += 12
	}
	return fmt.Sprintf("%02d:00", hour)
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func intPtr(n int) *int {
	return &n
}
