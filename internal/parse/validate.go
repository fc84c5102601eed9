package parse

import (
	"fmt"
	"time"
)

type Rule string

const (
	RuleDateOrder      Rule = "date_order"
	RuleNightsMismatch Rule = "nights_mismatch"
	RuleMinimumData    Rule = "minimum_data"
	RuleDateWindow     Rule = "date_window"
)

// Finding is one cross-field validation result. Blocking findings prevent a
// success outcome; the rest surface as warnings on a partial one.
type Finding struct {
	Rule     Rule
	Message  string
	Blocking bool
}

const plausibleYears = 10

// HasMinimumData reports whether the bag meets the minimum-viable-record
// rule: both stay dates, or at least a guest name or booking number.
func HasMinimumData(d Extracted) bool {
	if d.CheckIn != nil && d.CheckOut != nil {
		return true
	}
	return d.GuestName != nil || d.BookingNumber != nil
}

// ValidateFields runs the cross-field rules over an extracted bag. nights is
// the caller's expected night count (nil when unknown); today is the operative
// business date, supplied by the caller rather than read from the wall clock.
func ValidateFields(d Extracted, nights *int, today time.Time) []Finding {
	var out []Finding

	if d.CheckIn != nil && d.CheckOut != nil && !d.CheckOut.After(*d.CheckIn) {
		out = append(out, Finding{
			Rule:     RuleDateOrder,
			Blocking: true,
			Message: fmt.Sprintf("check-out %s is not after check-in %s",
				d.CheckOut.Format("2006-01-02"), d.CheckIn.Format("2006-01-02")),
		})
	}

	if nights != nil && d.CheckIn != nil && d.CheckOut != nil {
		if got := daysBetween(*d.CheckIn, *d.CheckOut); got != *nights {
			out = append(out, Finding{
				Rule:    RuleNightsMismatch,
				Message: fmt.Sprintf("expected %d nights but the dates span %d", *nights, got),
			})
		}
	}

	if !HasMinimumData(d) {
		out = append(out, Finding{
			Rule:     RuleMinimumData,
			Blocking: true,
			Message:  "insufficient data: need both stay dates, or a guest name or booking number",
		})
	}

	if d.CheckIn != nil {
		lo := today.AddDate(-plausibleYears, 0, 0)
		hi := today.AddDate(plausibleYears, 0, 0)
		if d.CheckIn.Before(lo) || d.CheckIn.After(hi) {
			out = append(out, Finding{
				Rule: RuleDateWindow,
				Message: fmt.Sprintf("check-in %s falls outside the plausible booking window",
					d.CheckIn.Format("2006-01-02")),
			})
		}
	}

	return out
}

func daysBetween(a, b time.Time) int {
	au := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bu := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bu.Sub(au).Hours() / 24)
}
