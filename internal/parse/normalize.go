package parse

import (
	"strconv"
	"strings"
)

// NormalizeAmount parses a human-formatted amount, disambiguating European
// ("1.234,56") and anglophone ("1,234.56") separator styles: when the last
// comma follows the last dot and at most three characters trail it, the comma
// is the decimal point; otherwise commas are thousands separators.
func NormalizeAmount(raw string) (float64, bool) {
	s := strings.Join(strings.Fields(raw), "")
	if s == "" {
		return 0, false
	}
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	if lastComma > lastDot && len(s)-lastComma-1 <= 3 {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// currencyCodes maps symbols and local notations (dots already removed,
// upper-cased) to ISO 4217.
var currencyCodes = map[string]string{
	"$":   "USD",
	"US$": "USD",
	"USD": "USD",
	"€":   "EUR",
	"EUR": "EUR",
	"£":   "GBP",
	"GBP": "GBP",
	"LE":  "EGP",
	"EGP": "EGP",
	"جم":  "EGP",
}

// NormalizeCurrency maps a raw currency token to an ISO 4217 code. Unknown
// non-empty tokens pass through unchanged, assumed already ISO-like.
func NormalizeCurrency(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ToUpper(s)
	if s == "" {
		return "", false
	}
	if iso, ok := currencyCodes[s]; ok {
		return iso, true
	}
	return s, true
}

// CleanText strips BOM/zero-width prefixes, collapses whitespace runs and
// trims trailing punctuation left behind by label captures.
func CleanText(raw string) string {
	s := strings.TrimLeft(raw, "\uFEFF\u200B\u200C\u200D\u200E\u200F")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimRight(s, ",;:- ")
}
