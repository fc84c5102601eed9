package parse

import "regexp"

// LabelPattern is one phrasing of a field's anchor. Lists are strictly
// ordered: more distinctive phrasings come first so a generic label never
// shadows a precise one, and extractors walk them in authored order.
type LabelPattern struct {
	Lang string
	Expr string
}

var checkInLabels = []LabelPattern{
	{"en", `check[\s-]?in date`},
	{"en", `arrival date`},
	{"fr", `date d'arriv[ée]e`},
	{"es", `fecha de entrada`},
	{"es", `fecha de llegada`},
	{"ar", `تاريخ الدخول`},
	{"ar", `تاريخ الوصول`},
	{"en", `check[\s-]?in`},
	{"en", `arrival`},
	{"fr", `arriv[ée]e`},
	{"es", `entrada`},
	{"es", `llegada`},
	{"ar", `الوصول`},
}

var checkOutLabels = []LabelPattern{
	{"en", `check[\s-]?out date`},
	{"en", `departure date`},
	{"fr", `date de d[ée]part`},
	{"es", `fecha de salida`},
	{"ar", `تاريخ الخروج`},
	{"ar", `تاريخ المغادرة`},
	{"en", `check[\s-]?out`},
	{"en", `departure`},
	{"fr", `d[ée]part`},
	{"es", `salida`},
	{"ar", `المغادرة`},
}

var guestNameLabels = []LabelPattern{
	{"en", `guest name`},
	{"en", `lead guest`},
	{"en", `primary guest`},
	{"en", `name of guest`},
	{"en", `booked by`},
	{"fr", `nom du client`},
	{"es", `nombre del hu[ée]sped`},
	{"ar", `اسم الضيف`},
	{"ar", `اسم النزيل`},
	{"en", `guest`},
	{"en", `\bname\b`},
}

var bookingNumberLabels = []LabelPattern{
	{"en", `booking number`},
	{"en", `booking reference`},
	{"en", `booking id`},
	{"en", `confirmation number`},
	{"en", `confirmation code`},
	{"en", `reservation number`},
	{"en", `reference number`},
	{"fr", `num[ée]ro de r[ée]servation`},
	{"es", `n[úu]mero de reserva`},
	{"ar", `رقم الحجز`},
	{"ar", `رقم التأكيد`},
	{"en", `booking ref`},
	{"en", `confirmation`},
	{"en", `\bref\b`},
}

var priceLabels = []LabelPattern{
	{"en", `grand total`},
	{"en", `amount due`},
	{"en", `total amount`},
	{"en", `total price`},
	{"en", `total cost`},
	{"fr", `montant total`},
	{"fr", `prix total`},
	{"es", `precio total`},
	{"es", `importe total`},
	{"ar", `المبلغ الإجمالي`},
	{"ar", `الإجمالي`},
	{"en", `\btotal\b`},
	{"en", `\bprice\b`},
	{"en", `\bamount\b`},
	{"en", `\bbalance\b`},
}

var phoneLabels = []LabelPattern{
	{"en", `phone number`},
	{"en", `telephone`},
	{"fr", `t[ée]l[ée]phone`},
	{"es", `tel[ée]fono`},
	{"ar", `هاتف`},
	{"ar", `موبايل`},
	{"en", `\bphone\b`},
	{"en", `\bmobile\b`},
	{"en", `\btel\b`},
}

var hotelNameLabels = []LabelPattern{
	{"en", `hotel name`},
	{"en", `property name`},
	{"fr", `nom de l'h[ôo]tel`},
	{"es", `nombre del hotel`},
	{"ar", `اسم الفندق`},
	{"en", `\bproperty\b`},
	{"en", `\bhotel\b`},
}

var roomTypeLabels = []LabelPattern{
	{"en", `room type`},
	{"en", `accommodation type`},
	{"en", `unit type`},
	{"fr", `type de chambre`},
	{"es", `tipo de habitaci[óo]n`},
	{"ar", `نوع الغرفة`},
}

var occupantLabels = []LabelPattern{
	{"en", `total guests`},
	{"en", `number of guests`},
	{"en", `occupancy`},
	{"fr", `nombre de personnes`},
	{"es", `n[úu]mero de hu[ée]spedes`},
	{"ar", `عدد الضيوف`},
	{"en", `\bguests\b`},
	{"en", `\badults\b`},
}

var mealPlanLabels = []LabelPattern{
	{"en", `meal plan`},
	{"en", `board basis`},
	{"fr", `r[ée]gime`},
	{"es", `r[ée]gimen de comidas`},
	{"ar", `الوجبات`},
	{"en", `\bboard\b`},
	{"en", `\bmeals\b`},
}

// Fragments that terminate a captured guest name: following field labels,
// occupancy words and a short list of nationality/country names that OTA
// vouchers print right after the lead guest. Each carries its own word
// boundary; \b is unusable on the Arabic entries.
var nameBoundaryTokens = []string{
	`\btotal guests`,
	`\bguests\b`,
	`\badults?\b`,
	`\bchild(?:ren)?\b`,
	`\bnationality\b`,
	`\bcountry\b`,
	`\bphone\b`,
	`\bemail\b`,
	`\begypt(?:ian)?\b`,
	`\bsaudi arabia\b`,
	`\bunited states\b`,
	`\bunited kingdom\b`,
	`\bfrance\b`,
	`\bspain\b`,
	`\bgermany\b`,
	`\bitaly\b`,
	`\bjordan\b`,
	`\bkuwait\b`,
	`مصر`,
}

// Words that betray fused OCR text inside a captured booking reference.
var bookingStopWords = []string{
	"GUEST", "CHECK", "CHECKIN", "CHECKOUT", "HOTEL", "ROOM",
	"NIGHT", "TOTAL", "DATE", "NAME", "ARRIVAL", "DEPARTURE",
}

func compileLabels(pats []LabelPattern) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(pats))
	for i, p := range pats {
		out[i] = regexp.MustCompile(`(?i)` + p.Expr)
	}
	return out
}

// Compiled once at process start; read-only thereafter.
var (
	checkInRes     = compileLabels(checkInLabels)
	checkOutRes    = compileLabels(checkOutLabels)
	guestNameRes   = compileLabels(guestNameLabels)
	phoneRes       = compileLabels(phoneLabels)
	hotelNameRes   = compileLabels(hotelNameLabels)
	roomTypeRes    = compileLabels(roomTypeLabels)
	occupantRes    = compileLabels(occupantLabels)
	mealPlanRes    = compileLabels(mealPlanLabels)
	nameBoundaryRe = regexp.MustCompile(`(?i)(?:` + joinAlt(nameBoundaryTokens) + `)`)
)

func joinAlt(parts []string) string {
	s := ""
	for i, p := range parts {
		if i > 0 {
			s += "|"
		}
		s += p
	}
	return s
}
