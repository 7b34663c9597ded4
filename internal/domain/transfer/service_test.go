// internal/domain/transfer/service_test.go
package transfer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/your-org/pharmacy-dashboard/internal/domain/audit"
	"github.com/your-org/pharmacy-dashboard/internal/infrastructure/backend"
)

// fakeBackend is a recording stand-in for the inventory backend. It serves the
// transfer list, FEFO batches and the transition endpoints, and remembers every
// mutating call.
type fakeBackend struct {
	mu        sync.Mutex
	transfers string
	batches   map[uint]string

	approved  []string
	cancelled []string
	created   []backend.CreateSingleTransferRequest
}

func (f *fakeBackend) handler(t *testing.T) http.Handler {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("GET /inventory-transfers", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		w.Write([]byte(f.transfers))
	})

	mux.HandleFunc("GET /product-batches/fefo/{branch}/{product}", func(w http.ResponseWriter, r *http.Request) {
		productID, err := strconv.ParseUint(r.PathValue("product"), 10, 64)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		body, ok := f.batches[uint(productID)]
		f.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(body))
	})

	mux.HandleFunc("POST /inventory-transfers/{id}/approve", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.approved = append(f.approved, r.PathValue("id"))
		f.mu.Unlock()
		w.Write([]byte(`{"success":true}`))
	})

	mux.HandleFunc("POST /inventory-transfers/{id}/cancel", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.cancelled = append(f.cancelled, r.PathValue("id"))
		f.mu.Unlock()
		w.Write([]byte(`{"success":true}`))
	})

	mux.HandleFunc("POST /inventory-transfers", func(w http.ResponseWriter, r *http.Request) {
		var req backend.CreateSingleTransferRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode creation payload: %v", err)
		}
		f.mu.Lock()
		f.created = append(f.created, req)
		f.mu.Unlock()
		w.Write([]byte(`{"id":99,"code":"TR-099","status":"pending"}`))
	})

	return mux
}

const pendingTransfers = `[{
	"id": 1,
	"code": "TR-001",
	"from_branch_id": 2,
	"to_branch_id": 3,
	"status": "pending",
	"items": [
		{"product_id": 10, "product_name": "Paracetamol", "quantity": 8},
		{"product_id": 20, "product_name": "Amoxicillin", "quantity": 6}
	]
}]`

func newServiceFixture(t *testing.T, fake *fakeBackend) (*Service, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(fake.handler(t))
	t.Cleanup(ts.Close)

	cfg := testConfig(ts.URL, 5)
	client := backend.NewClient(cfg)
	logger := testLogger()
	previewer := NewPreviewer(client, cfg, logger)
	svc := NewService(client, previewer, audit.NewService(nil, logger), logger)
	return svc, ts
}

func confirmYes(context.Context) (bool, error) { return true, nil }
func confirmNo(context.Context) (bool, error)  { return false, nil }

func TestApproveFullSucceedsWithoutShortage(t *testing.T) {
	fake := &fakeBackend{
		transfers: pendingTransfers,
		batches: map[uint]string{
			10: `[{"id":1,"batch_code":"B1","expiry_date":"2026-01-01T00:00:00Z","available_quantity":20}]`,
			20: `[{"id":2,"batch_code":"B2","expiry_date":"2026-02-01T00:00:00Z","available_quantity":20}]`,
		},
	}
	svc, _ := newServiceFixture(t, fake)

	if err := svc.ApproveFull(context.Background(), 1, confirmYes); err != nil {
		t.Fatalf("ApproveFull returned error: %v", err)
	}
	if len(fake.approved) != 1 || fake.approved[0] != "1" {
		t.Errorf("expected one approve call for transfer 1, got %v", fake.approved)
	}
}

func TestApproveFullRejectedOnShortage(t *testing.T) {
	// Product 20 has only 8 available under a floor of 5.
	fake := &fakeBackend{
		transfers: pendingTransfers,
		batches: map[uint]string{
			10: `[{"id":1,"batch_code":"B1","expiry_date":"2026-01-01T00:00:00Z","available_quantity":20}]`,
			20: `[{"id":2,"batch_code":"B2","expiry_date":"2026-02-01T00:00:00Z","available_quantity":8}]`,
		},
	}
	svc, _ := newServiceFixture(t, fake)

	err := svc.ApproveFull(context.Background(), 1, confirmYes)
	if err == nil {
		t.Fatal("expected error for a transfer with a shortage")
	}
	if !strings.Contains(err.Error(), "split approval") {
		t.Errorf("expected the error to point at split approval, got %q", err)
	}
	if len(fake.approved) != 0 {
		t.Errorf("expected no approve call, got %v", fake.approved)
	}
}

func TestApproveFullAbortedByGuard(t *testing.T) {
	fake := &fakeBackend{
		transfers: pendingTransfers,
		batches: map[uint]string{
			10: `[{"id":1,"batch_code":"B1","expiry_date":"2026-01-01T00:00:00Z","available_quantity":20}]`,
			20: `[{"id":2,"batch_code":"B2","expiry_date":"2026-02-01T00:00:00Z","available_quantity":20}]`,
		},
	}
	svc, _ := newServiceFixture(t, fake)

	err := svc.ApproveFull(context.Background(), 1, confirmNo)
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	if len(fake.approved) != 0 {
		t.Errorf("a declined confirmation must not reach the backend, got %v", fake.approved)
	}
}

func TestSplitAndApproveCreatesFollowUps(t *testing.T) {
	// Product 10 fully covered, product 20 short by 4.
	fake := &fakeBackend{
		transfers: pendingTransfers,
		batches: map[uint]string{
			10: `[{"id":1,"batch_code":"B1","expiry_date":"2026-01-01T00:00:00Z","available_quantity":20}]`,
			20: `[{"id":2,"batch_code":"B2","expiry_date":"2026-02-01T00:00:00Z","available_quantity":7}]`,
		},
	}
	svc, _ := newServiceFixture(t, fake)

	if err := svc.SplitAndApprove(context.Background(), 1, confirmYes); err != nil {
		t.Fatalf("SplitAndApprove returned error: %v", err)
	}

	if len(fake.approved) != 1 {
		t.Fatalf("expected the origin transfer to be approved once, got %v", fake.approved)
	}
	if len(fake.created) != 1 {
		t.Fatalf("expected one follow-up transfer, got %d", len(fake.created))
	}

	followUp := fake.created[0]
	if followUp.ProductID != 20 {
		t.Errorf("expected follow-up for product 20, got %d", followUp.ProductID)
	}
	if followUp.Quantity != 4 {
		t.Errorf("expected follow-up quantity 4 (6 requested, 2 allocatable), got %d", followUp.Quantity)
	}
	if followUp.FromBranchID != 2 || followUp.ToBranchID != 3 {
		t.Errorf("follow-up must keep the origin branches, got %d -> %d", followUp.FromBranchID, followUp.ToBranchID)
	}
	if followUp.Note != "Follow-up for TR-001" {
		t.Errorf("expected origin reference in the note, got %q", followUp.Note)
	}
}

func TestSplitAndApproveRejectsFullyAllocatable(t *testing.T) {
	fake := &fakeBackend{
		transfers: pendingTransfers,
		batches: map[uint]string{
			10: `[{"id":1,"batch_code":"B1","expiry_date":"2026-01-01T00:00:00Z","available_quantity":20}]`,
			20: `[{"id":2,"batch_code":"B2","expiry_date":"2026-02-01T00:00:00Z","available_quantity":20}]`,
		},
	}
	svc, _ := newServiceFixture(t, fake)

	err := svc.SplitAndApprove(context.Background(), 1, confirmYes)
	if err == nil {
		t.Fatal("expected error when nothing is short")
	}
	if len(fake.approved) != 0 || len(fake.created) != 0 {
		t.Error("a rejected split approval must not touch the backend")
	}
}

func TestRejectRequiresReason(t *testing.T) {
	fake := &fakeBackend{transfers: pendingTransfers}
	svc, _ := newServiceFixture(t, fake)

	err := svc.Reject(context.Background(), 1, "   ")
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted for a blank reason, got %v", err)
	}
	if len(fake.cancelled) != 0 {
		t.Errorf("expected no cancel call, got %v", fake.cancelled)
	}

	if err := svc.Reject(context.Background(), 1, "ordered by mistake"); err != nil {
		t.Fatalf("Reject with a reason returned error: %v", err)
	}
	if len(fake.cancelled) != 1 {
		t.Errorf("expected one cancel call, got %v", fake.cancelled)
	}
}

func TestShipFromPendingIsInvalid(t *testing.T) {
	fake := &fakeBackend{transfers: pendingTransfers}
	svc, _ := newServiceFixture(t, fake)

	err := svc.Ship(context.Background(), 1, nil)
	if err == nil || !strings.Contains(err.Error(), "invalid status transition") {
		t.Fatalf("expected an invalid transition error, got %v", err)
	}
}

func TestTerminalTransferIsImmutable(t *testing.T) {
	fake := &fakeBackend{transfers: `[{
		"id": 1, "code": "TR-001", "from_branch_id": 2, "to_branch_id": 3,
		"status": "completed", "items": []
	}]`}
	svc, _ := newServiceFixture(t, fake)

	if err := svc.Reject(context.Background(), 1, "too late"); err == nil {
		t.Error("expected rejection of a completed transfer to fail")
	}
	if err := svc.Ship(context.Background(), 1, nil); err == nil {
		t.Error("expected shipping a completed transfer to fail")
	}
	if len(fake.cancelled) != 0 {
		t.Errorf("terminal transfers must never reach the backend, got %v", fake.cancelled)
	}
}

func TestReloadNormalizesUnknownStatus(t *testing.T) {
	fake := &fakeBackend{transfers: `[{
		"id": 4, "code": "TR-004", "from_branch_id": 2, "to_branch_id": 3,
		"status": "archived", "items": []
	}]`}
	svc, _ := newServiceFixture(t, fake)

	if err := svc.Reload(context.Background()); err != nil {
		t.Fatalf("Reload returned error: %v", err)
	}

	requests, loaded := svc.Cached()
	if !loaded {
		t.Fatal("expected the cache to be marked loaded")
	}
	if len(requests) != 1 || requests[0].Status != StatusCancelled {
		t.Errorf("expected unknown status to collapse to cancelled, got %+v", requests)
	}
}

func TestCachedDistinguishesNeverLoaded(t *testing.T) {
	fake := &fakeBackend{transfers: `[]`}
	svc, _ := newServiceFixture(t, fake)

	if _, loaded := svc.Cached(); loaded {
		t.Error("expected loaded=false before any reload")
	}

	if err := svc.Reload(context.Background()); err != nil {
		t.Fatalf("Reload returned error: %v", err)
	}
	requests, loaded := svc.Cached()
	if !loaded {
		t.Error("expected loaded=true after a successful reload")
	}
	if len(requests) != 0 {
		t.Errorf("expected an empty list, got %d entries", len(requests))
	}
}
