package app

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"bookparse/internal/adapters/observability"
	"bookparse/internal/domain"
	"bookparse/internal/parse"
)

// DocumentParser runs the extraction pipeline over one stored document.
type DocumentParser interface {
	Parse(ctx context.Context, path string, nights *int) parse.Outcome
}

// ParseEvent is delivered to the configured notifier after each parse.
type ParseEvent struct {
	ReservationID int64
	DocumentID    int64
	Status        string
	FailureCode   string
	Warnings      []string
}

type Notifier interface {
	Notify(ctx context.Context, ev ParseEvent) error
}

type ReservationService struct {
	repo  domain.ReservationRepository
	cache domain.Cache
	store domain.FileStore
}

func NewReservationService(r domain.ReservationRepository, c domain.Cache, fs domain.FileStore) *ReservationService {
	return &ReservationService{repo: r, cache: c, store: fs}
}

func (s *ReservationService) Create(ctx context.Context, r domain.Reservation) (int64, error) {
	if r.Status == "" {
		r.Status = domain.StatusDraft
	}
	return s.repo.CreateReservation(ctx, r)
}

func (s *ReservationService) Transition(ctx context.Context, id int64, to domain.Status) (domain.Reservation, error) {
	r, err := s.repo.GetReservation(ctx, id)
	if err != nil {
		return domain.Reservation{}, err
	}
	if err := r.Transition(to); err != nil {
		return domain.Reservation{}, err
	}
	if err := s.repo.SetStatus(ctx, id, r.Status); err != nil {
		return domain.Reservation{}, err
	}
	s.invalidate(ctx, id)
	return r, nil
}

// Upload stores the file content-addressed and records the document row.
func (s *ReservationService) Upload(ctx context.Context, reservationID int64, fileName string, body io.Reader) (domain.Document, error) {
	if _, err := s.repo.GetReservation(ctx, reservationID); err != nil {
		return domain.Document{}, err
	}
	sf, err := s.store.Save(fileName, body)
	if err != nil {
		return domain.Document{}, fmt.Errorf("store upload: %w", err)
	}
	d := domain.Document{
		ReservationID: reservationID,
		FileName:      fileName,
		StoragePath:   sf.Path,
		SHA1:          sf.SHA1,
		SizeBytes:     sf.SizeBytes,
		ParseState:    domain.ParsePending,
	}
	id, err := s.repo.AddDocument(ctx, d)
	if err != nil {
		return domain.Document{}, err
	}
	d.ID = id
	return d, nil
}

func (s *ReservationService) invalidate(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, fmt.Sprintf("reservation:%d", id))
}

type ParseService struct {
	repo     domain.ReservationRepository
	cache    domain.Cache
	parser   DocumentParser
	notifier Notifier
}

func NewParseService(r domain.ReservationRepository, c domain.Cache, p DocumentParser, n Notifier) *ParseService {
	return &ParseService{repo: r, cache: c, parser: p, notifier: n}
}

// ParseDocument runs the pipeline over one document, folds the result into
// the owning reservation, and records an audit line. Extracted values never
// overwrite fields the reservation already has.
func (s *ParseService) ParseDocument(ctx context.Context, docID int64) (parse.Outcome, error) {
	doc, err := s.repo.GetDocument(ctx, docID)
	if err != nil {
		return parse.Outcome{}, err
	}
	res, err := s.repo.GetReservation(ctx, doc.ReservationID)
	if err != nil {
		return parse.Outcome{}, err
	}

	start := time.Now()
	out := s.parser.Parse(ctx, doc.StoragePath, res.Nights)
	code := ""
	if out.Failure != nil {
		code = string(out.Failure.Code)
	}
	observability.ObserveParse(string(out.Status), code, time.Since(start))

	state := domain.ParseFailed
	switch out.Status {
	case parse.StatusSuccess:
		state = domain.ParseSuccess
	case parse.StatusPartial:
		state = domain.ParsePartial
	}

	if out.Data != nil && state != domain.ParseFailed {
		if changed := MergeExtracted(&res, out.Data); len(changed) > 0 {
			if err := s.repo.UpdateReservation(ctx, res); err != nil {
				return out, fmt.Errorf("apply extracted fields: %w", err)
			}
			log.Info().Int64("reservation_id", res.ID).Int64("document_id", docID).
				Strs("fields", changed).Msg("reservation enriched from document")
			s.invalidate(ctx, res.ID)
		}
	}

	if err := s.repo.SetParseState(ctx, docID, state); err != nil {
		return out, err
	}
	if err := s.repo.AppendAudit(ctx, res.ID, auditNote(docID, out)); err != nil {
		log.Warn().Err(err).Int64("reservation_id", res.ID).Msg("audit append failed")
	}
	s.notify(ctx, res.ID, docID, out)
	return out, nil
}

// BatchItem reports the outcome for one document in a batch run.
type BatchItem struct {
	DocumentID int64
	Status     parse.OutcomeStatus
	Err        string
}

// ParseBatch parses the given documents with at most workers in flight.
// A document that fails never stops the rest of the batch.
func (s *ParseService) ParseBatch(ctx context.Context, docIDs []int64, workers int) []BatchItem {
	if workers <= 0 {
		workers = 4
	}
	sem := semaphore.NewWeighted(int64(workers))
	items := make([]BatchItem, len(docIDs))
	var wg sync.WaitGroup

	for i, id := range docIDs {
		if err := sem.Acquire(ctx, 1); err != nil {
			items[i] = BatchItem{DocumentID: id, Err: err.Error()}
			continue
		}
		wg.Add(1)
		go func(i int, id int64) {
			defer wg.Done()
			defer sem.Release(1)
			out, err := s.ParseDocument(ctx, id)
			it := BatchItem{DocumentID: id, Status: out.Status}
			if err != nil {
				it.Err = err.Error()
			}
			items[i] = it
		}(i, id)
	}
	wg.Wait()
	return items
}

func (s *ParseService) invalidate(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, fmt.Sprintf("reservation:%d", id))
}

func (s *ParseService) notify(ctx context.Context, resID, docID int64, out parse.Outcome) {
	if s.notifier == nil {
		return
	}
	ev := ParseEvent{ReservationID: resID, DocumentID: docID, Status: string(out.Status)}
	if out.Failure != nil {
		ev.FailureCode = string(out.Failure.Code)
	}
	for _, w := range out.Warnings {
		ev.Warnings = append(ev.Warnings, string(w.Rule))
	}
	if err := s.notifier.Notify(ctx, ev); err != nil {
		log.Warn().Err(err).Int64("document_id", docID).Msg("parse notification failed")
	}
}

// auditNote renders one append-only history line for a parse run.
func auditNote(docID int64, out parse.Outcome) string {
	var b strings.Builder
	fmt.Fprintf(&b, "parse document %d: %s", docID, out.Status)
	if out.Failure != nil {
		fmt.Fprintf(&b, "; %s at %s: %s", out.Failure.Code, out.Failure.Step, out.Failure.Msg)
	}
	for _, w := range out.Warnings {
		fmt.Fprintf(&b, "; warning: %s: %s", w.Rule, w.Message)
	}
	return b.String()
}
