package domain

import (
	"context"
	"io"
)

type ReservationRepository interface {
	// Write paths
	CreateReservation(ctx context.Context, r Reservation) (int64, error)
	UpdateReservation(ctx context.Context, r Reservation) error
	SetStatus(ctx context.Context, id int64, st Status) error
	AddDocument(ctx context.Context, d Document) (int64, error)
	SetParseState(ctx context.Context, docID int64, st ParseState) error
	AppendAudit(ctx context.Context, reservationID int64, note string) error

	// Read paths
	GetReservation(ctx context.Context, id int64) (Reservation, error)
	GetDocument(ctx context.Context, id int64) (Document, error)
	ListPendingDocuments(ctx context.Context, limit int) ([]Document, error)
	ListAudit(ctx context.Context, reservationID int64, limit int) ([]AuditNote, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// StoredFile describes where an upload landed on disk.
type StoredFile struct {
	Path      string
	SHA1      string
	SizeBytes int64
}

type FileStore interface {
	Save(name string, r io.Reader) (StoredFile, error)
}
