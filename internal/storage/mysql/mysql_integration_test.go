//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"bookparse/internal/domain"
	mysqlrepo "bookparse/internal/storage/mysql"
)

// ---------- small helpers ----------
func pstr(s string) *string         { return &s }
func pint(i int) *int               { return &i }
func pfloat(f float64) *float64     { return &f }
func pdate(y, m, d int) *time.Time {
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	return &t
}

func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Fatalf("%s not set; export it (e.g. MIGRATIONS_DIR=/path/to/sql)", k)
	}
	return v
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := mustEnv(t, "MIGRATIONS_DIR")

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

// ---------- the test ----------
func TestRepo_MySQL_ReservationLifecycle(t *testing.T) {
	// Start isolated MySQL; let Docker pick a free host port.
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=bookparse",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "bookparse")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)

	repo := mysqlrepo.New(db)
	ctx := context.Background()

	// Arrange — a draft reservation with only a guest name
	id, err := repo.CreateReservation(ctx, domain.Reservation{
		Status:    domain.StatusDraft,
		GuestName: pstr("John Smith"),
	})
	if err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}

	// Enrichment fills blanks but never overwrites
	rv, err := repo.GetReservation(ctx, id)
	if err != nil {
		t.Fatalf("GetReservation: %v", err)
	}
	rv.GuestName = nil // nil params leave the stored value untouched
	rv.HotelName = pstr("Mena House")
	rv.CheckIn = pdate(2026, 10, 12)
	rv.CheckOut = pdate(2026, 10, 15)
	rv.Nights = pint(3)
	rv.TotalAmount = pfloat(450)
	rv.Currency = pstr("EGP")
	if err := repo.UpdateReservation(ctx, rv); err != nil {
		t.Fatalf("UpdateReservation: %v", err)
	}

	got, err := repo.GetReservation(ctx, id)
	if err != nil {
		t.Fatalf("GetReservation after update: %v", err)
	}
	if got.GuestName == nil || *got.GuestName != "John Smith" {
		t.Fatalf("guest name lost: %+v", got)
	}
	if got.HotelName == nil || *got.HotelName != "Mena House" {
		t.Fatalf("hotel name not set: %+v", got)
	}
	if got.CheckIn == nil || got.CheckIn.Format("2006-01-02") != "2026-10-12" {
		t.Fatalf("check_in mismatch: %+v", got.CheckIn)
	}
	if got.TotalAmount == nil || *got.TotalAmount != 450 || got.Currency == nil || *got.Currency != "EGP" {
		t.Fatalf("amount mismatch: %+v", got)
	}

	if err := repo.SetStatus(ctx, id, domain.StatusConfirmed); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}

	// Documents
	docID, err := repo.AddDocument(ctx, domain.Document{
		ReservationID: id, FileName: "voucher.pdf", StoragePath: "/data/ab/deadbeef.pdf",
		SHA1: "0000000000000000000000000000000000000000", SizeBytes: 1234,
		ParseState: domain.ParsePending,
	})
	if err != nil {
		t.Fatalf("AddDocument: %v", err)
	}
	pend, err := repo.ListPendingDocuments(ctx, 10)
	if err != nil || len(pend) != 1 || pend[0].ID != docID {
		t.Fatalf("ListPendingDocuments: %v %+v", err, pend)
	}
	if err := repo.SetParseState(ctx, docID, domain.ParseSuccess); err != nil {
		t.Fatalf("SetParseState: %v", err)
	}
	pend, _ = repo.ListPendingDocuments(ctx, 10)
	if len(pend) != 0 {
		t.Fatalf("expected no pending documents, got %+v", pend)
	}

	// Audit trail
	if err := repo.AppendAudit(ctx, id, fmt.Sprintf("parse document %d: success", docID)); err != nil {
		t.Fatalf("AppendAudit: %v", err)
	}
	notes, err := repo.ListAudit(ctx, id, 10)
	if err != nil || len(notes) != 1 {
		t.Fatalf("ListAudit: %v %+v", err, notes)
	}

	if _, err := repo.GetReservation(ctx, id+999); err != domain.ErrNotFound {
		t.Fatalf("missing reservation: want ErrNotFound, got %v", err)
	}
}
