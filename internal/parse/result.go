// Package parse extracts structured reservation data from the noisy,
// multilingual text of hotel-booking documents. Extraction is a closed rule
// table: ordered anchor labels per field, first label whose captured value
// validates wins. Field absence is never an error; pipeline failures are
// returned as data, tagged with the step that produced them.
package parse

import (
	"errors"
	"fmt"
	"time"
)

type Step string

const (
	StepValidateFile Step = "validate_file"
	StepLoad         Step = "load_document"
	StepExtractText  Step = "extract_text"
	StepMapFields    Step = "map_fields"
	StepValidate     Step = "validate_fields"
)

type FailureCode string

const (
	FailFileNotFound     FailureCode = "file_not_found"
	FailEncrypted        FailureCode = "encrypted"
	FailMalformed        FailureCode = "malformed"
	FailNoText           FailureCode = "no_text"
	FailInsufficientData FailureCode = "insufficient_data"
	FailGeneric          FailureCode = "generic"
)

// Sentinels the text-acquisition collaborator wraps its own failures with,
// so load classification does not depend on message sniffing.
var (
	ErrEncrypted = errors.New("document is encrypted")
	ErrMalformed = errors.New("document is malformed")
)

// Error is a step-tagged pipeline failure.
type Error struct {
	Code FailureCode
	Step Step
	Msg  string
	Err  error // underlying cause, optional
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %s at %s: %s: %v", e.Code, e.Step, e.Msg, e.Err)
	}
	return fmt.Sprintf("parse %s at %s: %s", e.Code, e.Step, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

type OutcomeStatus string

const (
	StatusSuccess OutcomeStatus = "success"
	StatusPartial OutcomeStatus = "partial"
	StatusFailed  OutcomeStatus = "failed"
)

// Outcome is the single result of one Parse call. Exactly one of Data or
// Failure is set; Warnings accompany Data on a partial outcome. Trace lists
// the steps that completed, in order.
type Outcome struct {
	Status   OutcomeStatus
	Data     *Extracted
	Warnings []Finding
	Failure  *Error
	Trace    []Step
}

// Extracted is the immutable bag of per-field results for one document.
// Nil means "not found". Built once per parse, never mutated after.
type Extracted struct {
	GuestName     *string
	Phone         *string
	CheckIn       *time.Time
	CheckOut      *time.Time
	Rooms         *int
	RoomType      *string
	Occupants     *int
	HotelName     *string
	BookingNumber *string
	TotalAmount   *float64
	CurrencyRaw   *string
	Currency      *string // ISO 4217, always set when TotalAmount is
	MealPlan      *string
}
