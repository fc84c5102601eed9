package parse

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"
)

// TextSource is the text-acquisition collaborator: UTF-8 text per page in
// reading order, for at most maxPages pages. Load failures should wrap
// ErrEncrypted or ErrMalformed where the backend can tell them apart.
type TextSource interface {
	PageTexts(ctx context.Context, path string, maxPages int) ([]string, error)
}

const (
	// MaxPages caps per-document work; vouchers put everything up front.
	MaxPages = 5

	// Below this many characters a document counts as having no
	// extractable text (scanned image, empty pages).
	minTextLen = 30
)

// Parser sequences one document through text acquisition, field extraction
// and validation. It holds no per-call state; Parse may be called from many
// goroutines at once.
type Parser struct {
	source TextSource
	now    func() time.Time
}

type Option func(*Parser)

// WithClock overrides the business date used by the plausibility window.
func WithClock(now func() time.Time) Option {
	return func(p *Parser) { p.now = now }
}

func NewParser(src TextSource, opts ...Option) *Parser {
	p := &Parser{source: src, now: time.Now}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Parse runs the full pipeline over one document. nights, when non-nil, is
// the caller's expected night count checked against the extracted dates.
// Failures come back inside the Outcome, never as a Go error.
func (p *Parser) Parse(ctx context.Context, path string, nights *int) Outcome {
	var trace []Step

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return failed(trace, &Error{Code: FailFileNotFound, Step: StepValidateFile, Msg: path, Err: err})
		}
		return failed(trace, &Error{Code: FailGeneric, Step: StepValidateFile, Msg: "stat failed", Err: err})
	}
	trace = append(trace, StepValidateFile)

	pages, err := p.source.PageTexts(ctx, path, MaxPages)
	if err != nil {
		return failed(trace, classifyLoad(err))
	}
	trace = append(trace, StepLoad)

	text := strings.Join(pages, "\n")
	if len(strings.TrimSpace(text)) < minTextLen {
		return failed(trace, &Error{Code: FailNoText, Step: StepExtractText, Msg: "no extractable text"})
	}
	trace = append(trace, StepExtractText)

	data := MapFields(text)
	trace = append(trace, StepMapFields)

	findings := ValidateFields(data, nights, p.now())
	trace = append(trace, StepValidate)

	for _, f := range findings {
		if f.Rule == RuleMinimumData {
			return failed(trace, &Error{Code: FailInsufficientData, Step: StepValidate, Msg: f.Message})
		}
	}
	if len(findings) == 0 {
		return Outcome{Status: StatusSuccess, Data: &data, Trace: trace}
	}
	return Outcome{Status: StatusPartial, Data: &data, Warnings: findings, Trace: trace}
}

func failed(trace []Step, e *Error) Outcome {
	return Outcome{Status: StatusFailed, Failure: e, Trace: trace}
}

// classifyLoad prefers the collaborator's typed sentinels, falling back to
// message keywords for backends that only surface strings.
func classifyLoad(err error) *Error {
	switch {
	case errors.Is(err, ErrEncrypted):
		return &Error{Code: FailEncrypted, Step: StepLoad, Msg: "document requires a password", Err: err}
	case errors.Is(err, ErrMalformed):
		return &Error{Code: FailMalformed, Step: StepLoad, Msg: "document is corrupt", Err: err}
	case errors.Is(err, os.ErrNotExist):
		return &Error{Code: FailFileNotFound, Step: StepLoad, Msg: "document vanished during load", Err: err}
	}
	low := strings.ToLower(err.Error())
	switch {
	case strings.Contains(low, "encrypt"), strings.Contains(low, "password"), strings.Contains(low, "decrypt"):
		return &Error{Code: FailEncrypted, Step: StepLoad, Msg: "document requires a password", Err: err}
	case strings.Contains(low, "invalid"), strings.Contains(low, "corrupt"), strings.Contains(low, "malformed"):
		return &Error{Code: FailMalformed, Step: StepLoad, Msg: "document is corrupt", Err: err}
	}
	return &Error{Code: FailGeneric, Step: StepLoad, Msg: "load failed", Err: err}
}
