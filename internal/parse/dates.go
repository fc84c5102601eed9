package parse

import (
	"regexp"
	"strings"
	"time"
)

// After a label hit, the value is looked for in a window of at most this many
// characters, never crossing a line break.
const dateWindowLen = 50

// Date shapes tried in fixed order inside a label window. Layout lists are
// explicit so an ambiguous 03/04/2026 is read day-first, never locale-guessed.
var dateShapes = []struct {
	re      *regexp.Regexp
	layouts []string
}{
	{regexp.MustCompile(`\d{4}-\d{2}-\d{2}`), []string{"2006-01-02"}},
	{regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{4}`), []string{"2/1/2006", "1/2/2006"}},
	{regexp.MustCompile(`\d{1,2}-\d{1,2}-\d{4}`), []string{"2-1-2006", "1-2-2006"}},
	{regexp.MustCompile(`\d{1,2}\.\d{1,2}\.\d{4}`), []string{"2.1.2006", "1.2.2006"}},
	{regexp.MustCompile(`(?i)\d{1,2} [a-z]{3,9},? \d{4}`),
		[]string{"2 Jan 2006", "2 Jan, 2006", "2 January 2006", "2 January, 2006"}},
	{regexp.MustCompile(`(?i)[a-z]{3,9} \d{1,2},? \d{4}`),
		[]string{"Jan 2, 2006", "Jan 2 2006", "January 2, 2006", "January 2 2006"}},
}

// Last-resort layouts for windows no shape matched.
var genericDateLayouts = []string{"2006/01/02", "2006.01.02", "02 Jan 06"}

func extractDate(text string, labels []*regexp.Regexp) *time.Time {
	for _, re := range labels {
		loc := re.FindStringIndex(text)
		if loc == nil {
			continue
		}
		w := text[loc[1]:]
		if i := strings.IndexByte(w, '\n'); i >= 0 {
			w = w[:i]
		}
		if len(w) > dateWindowLen {
			w = w[:dateWindowLen]
		}
		if t := parseDateWindow(w); t != nil {
			return t
		}
	}
	return nil
}

func parseDateWindow(w string) *time.Time {
	for _, shape := range dateShapes {
		m := shape.re.FindString(w)
		if m == "" {
			continue
		}
		m = strings.Join(strings.Fields(m), " ")
		for _, layout := range shape.layouts {
			if t, err := time.Parse(layout, m); err == nil {
				return &t
			}
		}
	}
	s := CleanText(w)
	for _, layout := range genericDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
