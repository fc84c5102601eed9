package domain

import "time"

type ParseState string

const (
	ParsePending ParseState = "pending"
	ParseSuccess ParseState = "success"
	ParsePartial ParseState = "partial"
	ParseFailed  ParseState = "failed"
)

// Document is one uploaded booking voucher attached to a reservation.
type Document struct {
	ID            int64
	ReservationID int64
	FileName      string
	StoragePath   string
	SHA1          string
	SizeBytes     int64
	ParseState    ParseState
	UploadedAt    time.Time
}

// AuditNote is one append-only line of parse history for a reservation.
type AuditNote struct {
	ID            int64
	ReservationID int64
	Note          string
	CreatedAt     time.Time
}
