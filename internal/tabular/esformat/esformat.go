// Package esformat formats and parses display values using Chilean Spanish
// conventions: dates as dd/mm/yyyy, numbers grouped with dots, currency in
// Chilean pesos without decimals.
package esformat

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DateLayout is the display layout for dates.
const DateLayout = "02/01/2006"

var printer = message.NewPrinter(language.MustParse("es-CL"))

// Date formats a time as dd/mm/yyyy. The zero time formats to the empty
// string.
func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// Number formats an integer with es-CL digit grouping, e.g. 1200000 becomes
// "1.200.000".
func Number(n int64) string {
	return printer.Sprintf("%d", n)
}

// Currency formats an amount of Chilean pesos, e.g. "$1.200.000".
func Currency(amount int64) string {
	return "$" + Number(amount)
}

// ParseDate parses a dd/mm/yyyy display value. It also accepts ISO dates and
// timestamps since backend payloads carry those.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{DateLayout, "2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseNumber parses a display value as a number, tolerating currency
// symbols, spaces, dot grouping, and a comma decimal separator.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case r == ',':
			b.WriteRune('.')
		case r == '.', r == '$', r == ' ', r == '\u00a0':
			// grouping and currency decoration
		default:
			return 0, false
		}
	}

	f, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
