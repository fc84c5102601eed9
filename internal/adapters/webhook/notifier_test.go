package webhook_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"bookparse/internal/adapters/webhook"
)

func TestNotify_RetriesThenSuccess(t *testing.T) {
	var hits int32
	var got webhook.Event
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch atomic.AddInt32(&hits, 1) {
		case 1, 2:
			// two transient failures
			w.WriteHeader(500)
		default:
			if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
				t.Errorf("decode payload: %v", err)
			}
			w.WriteHeader(204)
		}
	}))
	defer ts.Close()

	n := webhook.New(ts.URL, "test-key", 100) // high RPS for tests
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ev := webhook.Event{ReservationID: 7, DocumentID: 9, Status: "partial", Warnings: []string{"nights_mismatch"}}
	if err := n.Notify(ctx, ev); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if atomic.LoadInt32(&hits) < 3 {
		t.Fatalf("expected at least 3 calls due to retries, got %d", hits)
	}
	if got.ReservationID != 7 || got.Status != "partial" {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestNotify_BadStatusIsTerminal(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer ts.Close()

	n := webhook.New(ts.URL, "", 100)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := n.Notify(ctx, webhook.Event{Status: "failed"}); err == nil {
		t.Fatalf("expected error for 422")
	}
	if atomic.LoadInt32(&hits) != 1 {
		t.Fatalf("422 should not be retried, got %d calls", hits)
	}
}

func TestNotify_NilNotifierIsNoop(t *testing.T) {
	var n *webhook.Notifier
	if err := n.Notify(context.Background(), webhook.Event{}); err != nil {
		t.Fatalf("nil notifier should be a no-op, got %v", err)
	}
}
