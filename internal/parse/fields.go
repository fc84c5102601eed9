package parse

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// MapFields runs every field extractor over the full document text,
// independently, and assembles the bag. Extractors are pure functions of the
// text; running them twice on the same input yields identical bags.
func MapFields(text string) Extracted {
	var d Extracted
	d.CheckIn = extractDate(text, checkInRes)
	d.CheckOut = extractDate(text, checkOutRes)
	d.GuestName = extractGuestName(text)
	d.BookingNumber = extractBookingNumber(text)
	d.Phone = extractPhone(text)
	d.Rooms = extractRoomCount(text)
	d.Occupants = extractOccupants(text)
	d.HotelName = extractLine(text, hotelNameRes, 80)
	d.RoomType = extractLine(text, roomTypeRes, 60)
	d.MealPlan = extractLine(text, mealPlanRes, 40)

	ref := ""
	if d.BookingNumber != nil {
		ref = *d.BookingNumber
	}
	amt, curRaw := extractPrice(text, ref)
	d.TotalAmount = amt
	d.CurrencyRaw = curRaw
	if amt != nil {
		iso := detectCurrency(text, curRaw, amt)
		d.Currency = &iso
	}
	return d
}

// A generic label can hit a fragment that itself starts with a second, more
// specific name label ("Guest  Name: John Smith"); that prefix is stripped.
var nameLabelPrefixRe = regexp.MustCompile(`(?i)^(?:guest name|name of guest|lead guest|guest|name)\s*[:：#]?\s*`)

// A bare "name" hit that belongs to "Hotel name"/"Property name" is the
// property's field, not the guest's.
var propertyPrefixRe = regexp.MustCompile(`(?i)(?:hotel|property)\s*$`)

func extractGuestName(text string) *string {
	for _, re := range guestNameRes {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			if propertyPrefixRe.MatchString(text[:loc[0]]) {
				continue
			}
			rest := text[loc[1]:]
			if i := strings.IndexAny(rest, "\n|"); i >= 0 {
				rest = rest[:i]
			}
			rest = strings.TrimLeft(rest, " \t:：#")
			if m := nameLabelPrefixRe.FindString(rest); m != "" {
				rest = rest[len(m):]
			}
			if m := nameBoundaryRe.FindStringIndex(rest); m != nil {
				rest = rest[:m[0]]
			}
			name := CleanText(rest)
			if n := utf8.RuneCountInString(name); n < 2 || n > 100 {
				continue
			}
			if allDigits(name) {
				continue
			}
			return &name
		}
	}
	return nil
}

// Booking labels must match within a single line: [^\S\n] keeps the label and
// its value from being stitched across a break (a document title on one line
// must not claim a token from the next).
var bookingLineRes = func() []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(bookingNumberLabels))
	for i, p := range bookingNumberLabels {
		out[i] = regexp.MustCompile(`(?i)` + p.Expr + `[^\S\n]*[-:：#.]?[^\S\n]*([A-Za-z0-9][A-Za-z0-9.-]*)`)
	}
	return out
}()

func extractBookingNumber(text string) *string {
	for _, re := range bookingLineRes {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		tok := strings.ToUpper(strings.Trim(m[1], ".-"))
		// fused OCR text: "BK123GUEST" carries the next field's label
		for _, sw := range bookingStopWords {
			if i := strings.Index(tok, sw); i > 0 {
				tok = tok[:i]
			}
		}
		tok = strings.Trim(tok, ".-")
		if len(tok) < 4 {
			continue
		}
		return &tok
	}
	return nil
}

var phoneRunRe = regexp.MustCompile(`^[\s:：]*([0-9+()\-\s]{7,})`)

func extractPhone(text string) *string {
	for _, re := range phoneRes {
		loc := re.FindStringIndex(text)
		if loc == nil {
			continue
		}
		rest := text[loc[1]:]
		if i := strings.IndexByte(rest, '\n'); i >= 0 {
			rest = rest[:i]
		}
		m := phoneRunRe.FindStringSubmatch(rest)
		if m == nil {
			continue
		}
		var b strings.Builder
		for _, r := range m[1] {
			if r >= '0' && r <= '9' || r == '+' {
				b.WriteRune(r)
			}
		}
		p := b.String()
		if digitCount(p) < 7 {
			continue
		}
		return &p
	}
	return nil
}

// extractLine captures the remainder of the label's line, cleaned; used for
// the free-text hints (hotel name, room type, meal plan).
func extractLine(text string, labels []*regexp.Regexp, maxLen int) *string {
	for _, re := range labels {
		loc := re.FindStringIndex(text)
		if loc == nil {
			continue
		}
		rest := text[loc[1]:]
		if i := strings.IndexAny(rest, "\n|"); i >= 0 {
			rest = rest[:i]
		}
		v := CleanText(strings.TrimLeft(rest, " \t:：#"))
		if v == "" || utf8.RuneCountInString(v) > maxLen {
			continue
		}
		return &v
	}
	return nil
}

var (
	smallIntRe     = regexp.MustCompile(`^[\s:：]*x?\s*([0-9]{1,2})\b`)
	occupantPreNum = regexp.MustCompile(`(?i)\b([0-9]{1,2})\s*(?:adults?\b|guests?\b|persons?\b)`)
)

func extractOccupants(text string) *int {
	for _, re := range occupantRes {
		loc := re.FindStringIndex(text)
		if loc == nil {
			continue
		}
		rest := text[loc[1]:]
		if i := strings.IndexByte(rest, '\n'); i >= 0 {
			rest = rest[:i]
		}
		if m := smallIntRe.FindStringSubmatch(rest); m != nil {
			if n, _ := strconv.Atoi(m[1]); n >= 1 && n <= 50 {
				return &n
			}
		}
	}
	// "2 Adults" puts the count before the keyword
	if m := occupantPreNum.FindStringSubmatch(text); m != nil {
		if n, _ := strconv.Atoi(m[1]); n >= 1 && n <= 50 {
			return &n
		}
	}
	return nil
}

func allDigits(s string) bool {
	seen := false
	for _, r := range s {
		if r == ' ' {
			continue
		}
		if r < '0' || r > '9' {
			return false
		}
		seen = true
	}
	return seen
}

func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
