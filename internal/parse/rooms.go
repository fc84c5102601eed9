package parse

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	roomKeywordRe = regexp.MustCompile(`(?i)room|unit\b|apartment|studio|chambre|habitaci|غرف|وحد`)
	nightWordRe   = regexp.MustCompile(`(?i)night|nuit|noche|ليلة|ليال`)
)

// Phase-1 patterns, line-scoped, in both number-then-keyword and
// keyword-then-number order. Counts are 1–2 digits within [1,50].
var roomLineRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b([0-9]{1,2})\s*x?\s*(?:rooms?\b|units?\b|apartments?\b|studios?\b|chambres?\b|habitaci(?:on|ón|ones)\b|غرفة|غرف|وحدة|وحدات)`),
	regexp.MustCompile(`(?i)\bnumber of (?:rooms?|units?)\b[^0-9\n]{0,12}([0-9]{1,2})\b`),
	regexp.MustCompile(`(?i)(?:\brooms?\b|\bunits?\b|\bapartments?\b|\bchambres?\b|\bhabitaciones\b|غرف)[^0-9\n]{0,12}([0-9]{1,2})\b`),
	regexp.MustCompile(`(?i)(?:\b(?:quantity|qty|cantidad|quantit[ée])\b|عدد الغرف)[^0-9\n]{0,10}([0-9]{1,2})\b`),
}

// Phase-2 patterns may span line breaks; a match only counts when its whole
// span stays short, so a distant unrelated number is never claimed.
var roomSpanRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)([0-9]{1,2})\s*x?\s*(?:rooms?|units?|apartments?|chambres?|habitaciones|غرف)`),
	regexp.MustCompile(`(?i)(?:rooms?|units?|quantity|qty)\W{0,20}?([0-9]{1,2})`),
}

const roomSpanMax = 30

func extractRoomCount(text string) *int {
	for _, line := range strings.Split(text, "\n") {
		// "2 nights" on a room-less line is a stay length, not a count
		if nightWordRe.MatchString(line) && !roomKeywordRe.MatchString(line) {
			continue
		}
		for _, re := range roomLineRes {
			m := re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			if n, _ := strconv.Atoi(m[1]); n >= 1 && n <= 50 {
				return &n
			}
		}
	}
	for _, re := range roomSpanRes {
		m := re.FindStringSubmatchIndex(text)
		if m == nil || m[1]-m[0] >= roomSpanMax {
			continue
		}
		if n, _ := strconv.Atoi(text[m[2]:m[3]]); n >= 1 && n <= 50 {
			return &n
		}
	}
	return nil
}
