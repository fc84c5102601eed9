package app_test

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"bookparse/internal/app"
	"bookparse/internal/domain"
)

// ---- fakes ----

type fakeRepo struct {
	mu     sync.Mutex
	nextID int64
	res    map[int64]domain.Reservation
	docs   map[int64]domain.Document
	audit  map[int64][]domain.AuditNote
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		nextID: 1,
		res:    map[int64]domain.Reservation{},
		docs:   map[int64]domain.Document{},
		audit:  map[int64][]domain.AuditNote{},
	}
}

func (f *fakeRepo) CreateReservation(ctx context.Context, r domain.Reservation) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r.ID = f.nextID
	f.nextID++
	f.res[r.ID] = r
	return r.ID, nil
}

func (f *fakeRepo) UpdateReservation(ctx context.Context, r domain.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.res[r.ID]; !ok {
		return domain.ErrNotFound
	}
	f.res[r.ID] = r
	return nil
}

func (f *fakeRepo) SetStatus(ctx context.Context, id int64, st domain.Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.res[id]
	if !ok {
		return domain.ErrNotFound
	}
	r.Status = st
	f.res[id] = r
	return nil
}

func (f *fakeRepo) AddDocument(ctx context.Context, d domain.Document) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d.ID = f.nextID
	f.nextID++
	f.docs[d.ID] = d
	return d.ID, nil
}

func (f *fakeRepo) SetParseState(ctx context.Context, docID int64, st domain.ParseState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.docs[docID]
	if !ok {
		return domain.ErrNotFound
	}
	d.ParseState = st
	f.docs[docID] = d
	return nil
}

func (f *fakeRepo) AppendAudit(ctx context.Context, reservationID int64, note string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.audit[reservationID] = append(f.audit[reservationID], domain.AuditNote{
		ReservationID: reservationID, Note: note, CreatedAt: time.Now(),
	})
	return nil
}

func (f *fakeRepo) GetReservation(ctx context.Context, id int64) (domain.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.res[id]
	if !ok {
		return domain.Reservation{}, domain.ErrNotFound
	}
	return r, nil
}

func (f *fakeRepo) GetDocument(ctx context.Context, id int64) (domain.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.docs[id]
	if !ok {
		return domain.Document{}, domain.ErrNotFound
	}
	return d, nil
}

func (f *fakeRepo) ListPendingDocuments(ctx context.Context, limit int) ([]domain.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Document
	for _, d := range f.docs {
		if d.ParseState == domain.ParsePending && len(out) < limit {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListAudit(ctx context.Context, reservationID int64, limit int) ([]domain.AuditNote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	notes := f.audit[reservationID]
	if len(notes) > limit {
		notes = notes[:limit]
	}
	return notes, nil
}

type fakeCache struct {
	mu    sync.Mutex
	store map[string]any
	dels  []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		return false, nil
	}
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	if d, ok2 := dst.(*domain.Reservation); ok2 {
		*d = v.(domain.Reservation)
	}
	return true, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string]any{}
	}
	c.store[key] = v
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	c.dels = append(c.dels, key)
	return nil
}

type fakeStore struct{ saves int }

func (s *fakeStore) Save(name string, r io.Reader) (domain.StoredFile, error) {
	s.saves++
	n, _ := io.Copy(io.Discard, r)
	return domain.StoredFile{Path: fmt.Sprintf("/tmp/uploads/%s", name), SHA1: "deadbeef", SizeBytes: n}, nil
}

// ---- tests ----

func TestGetReservation_CacheMissThenHit(t *testing.T) {
	repo := newFakeRepo()
	id, _ := repo.CreateReservation(context.Background(), domain.Reservation{
		Status: domain.StatusConfirmed, GuestName: ptr("John Smith"),
	})
	cache := &fakeCache{}
	q := app.NewQueryService(repo, cache, 10*time.Minute)

	// Miss (first time, populates cache)
	r, err := q.GetReservation(context.Background(), id)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if deref(r.GuestName) != "John Smith" {
		t.Fatalf("unexpected reservation: %+v", r)
	}

	// Mutate repo to ensure second read indeed comes from cache
	mut := repo.res[id]
	mut.GuestName = ptr("SHOULD NOT SEE THIS")
	repo.res[id] = mut

	r2, err := q.GetReservation(context.Background(), id)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if deref(r2.GuestName) != "John Smith" {
		t.Fatalf("expected cached name, got %s", deref(r2.GuestName))
	}
}

func TestGetReservation_NotFound(t *testing.T) {
	q := app.NewQueryService(newFakeRepo(), &fakeCache{}, time.Minute)
	if _, err := q.GetReservation(context.Background(), 999); err != domain.ErrNotFound {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func ptr[T any](v T) *T { return &v }
func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
