package parse

import (
	"regexp"
	"strings"
)

const (
	// Totals below this are read as USD/EUR-scale prices; local-currency
	// hotel totals in the operative market are never that small.
	currencyAmountThreshold = 400

	subtotalContextLen = 15
)

const (
	// dotted local notations before the generic 1–3 letter run so "L.E"
	// does not half-match as "L."
	curTokenExpr = `(?:[$€£]|ج\.?م|L\.?E\.?|E\.?G\.?P\.?|[A-Za-z]{1,3}\.?)`
	numTokenExpr = `(?:[0-9][0-9.,]*[0-9]|[0-9])`
)

// Structured patterns: label, optional currency, amount, optional currency.
// The separator class crosses line breaks so a value printed under its label
// still binds to it.
var priceStructRes = func() []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(priceLabels))
	for i, p := range priceLabels {
		out[i] = regexp.MustCompile(`(?i)` + p.Expr +
			`[\s:：]*(?:(` + curTokenExpr + `)\s*)?(` + numTokenExpr + `)\s*(` + curTokenExpr + `)?`)
	}
	return out
}()

// Label-only patterns for the loose fallback pass.
var priceStructLabelRes = compileLabels(priceLabels)

var (
	looseNumRe    = regexp.MustCompile(numTokenExpr)
	docYearRe     = regexp.MustCompile(`\b202[4-6]\b`)
	trailingCurRe = regexp.MustCompile(`(?i)[$€£]|ج\.?م|\b(?:USD|EUR|EGP|GBP|L\.?E)\b`)
)

const looseWindowLen = 50

// extractPrice returns the total amount and, when one sat next to it, the raw
// currency token. bookingRef, when non-empty, names a numeric token that is a
// booking reference and must never be read as an amount.
func extractPrice(text, bookingRef string) (*float64, *string) {
	for i, re := range priceStructRes {
		isTotal := strings.Contains(strings.ToLower(priceLabels[i].Expr), "total")
		for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
			if isTotal && nearSubtotal(text, m[0]) {
				continue
			}
			numStr := text[m[4]:m[5]]
			if bookingRef != "" && strings.EqualFold(numStr, bookingRef) {
				continue
			}
			amt, ok := NormalizeAmount(numStr)
			if !ok || amt <= 0 {
				continue
			}
			cur := currencySubmatch(text, m, 1)
			if cur == "" {
				cur = currencySubmatch(text, m, 3)
			}
			if cur != "" {
				return &amt, &cur
			}
			return &amt, nil
		}
	}

	// Loose fallback: up to 50 arbitrary characters past the label, then any
	// number-like token. Only reached when no structured pattern matched for
	// any label.
	for _, re := range priceStructLabelRes {
		for _, lm := range re.FindAllStringIndex(text, -1) {
			window := text[lm[1]:min(lm[1]+looseWindowLen, len(text))]
			for _, nm := range looseNumRe.FindAllStringIndex(window, -1) {
				numStr := window[nm[0]:nm[1]]
				// a bare document year is not a price
				if docYearRe.MatchString(numStr) {
					continue
				}
				if bookingRef != "" && strings.EqualFold(numStr, bookingRef) {
					continue
				}
				amt, ok := NormalizeAmount(numStr)
				if !ok || amt <= 0 {
					continue
				}
				tail := text[lm[1]+nm[1]:]
				tail = tail[:min(20, len(tail))]
				if tok := trailingCurRe.FindString(tail); tok != "" {
					return &amt, &tok
				}
				return &amt, nil
			}
		}
	}
	return nil, nil
}

// nearSubtotal reports whether the short context around a "Total" label hit
// actually belongs to a subtotal line.
func nearSubtotal(text string, at int) bool {
	lo := max(at-subtotalContextLen, 0)
	hi := min(at+subtotalContextLen, len(text))
	return strings.Contains(strings.ToLower(text[lo:hi]), "subtotal")
}

// currencySubmatch validates a captured currency token. Symbols always pass;
// letter runs must be a known notation or printed upper-case like an ISO code,
// otherwise they are the first letters of an unrelated word.
func currencySubmatch(text string, m []int, group int) string {
	lo, hi := m[2*group], m[2*group+1]
	if lo < 0 {
		return ""
	}
	tok := text[lo:hi]
	if tok == "" {
		return ""
	}
	if strings.IndexFunc(tok, func(r rune) bool { return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' }) < 0 {
		return tok // symbol or Arabic notation
	}
	norm, _ := NormalizeCurrency(tok)
	if _, known := currencyCodes[norm]; known {
		return tok
	}
	if strings.ToUpper(tok) == tok {
		return tok
	}
	return ""
}

var (
	eurMarkerRe = regexp.MustCompile(`(?i)€|\bEUR\b|\beuros?\b`)
	usdMarkerRe = regexp.MustCompile(`(?i)\$|\bUSD\b|\bdollars?\b`)
	egpMarkerRe = regexp.MustCompile(`(?i)\bEGP\b|\bL\.?E\b|ج\.?م|\begyptian pounds?\b`)
)

// detectCurrency resolves the ISO code for an extracted amount, in fixed
// priority: the token captured next to the price, then the price-plausibility
// heuristic, then a whole-document marker scan, then USD.
func detectCurrency(text string, rawHint *string, amount *float64) string {
	if rawHint != nil {
		if iso, ok := NormalizeCurrency(*rawHint); ok {
			return iso
		}
	}
	if amount != nil && *amount > 0 && *amount < currencyAmountThreshold {
		// USD/EUR-scale; pick EUR only when the document says so
		if eurMarkerRe.MatchString(text) {
			return "EUR"
		}
		return "USD"
	}
	switch {
	case eurMarkerRe.MatchString(text):
		return "EUR"
	case usdMarkerRe.MatchString(text):
		return "USD"
	case egpMarkerRe.MatchString(text):
		return "EGP"
	}
	return "USD"
}
