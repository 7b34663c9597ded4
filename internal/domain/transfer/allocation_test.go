// internal/domain/transfer/allocation_test.go
package transfer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/pharmacy-dashboard/internal/config"
	"github.com/your-org/pharmacy-dashboard/internal/infrastructure/backend"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testConfig(baseURL string, safetyFloor int) *config.Config {
	cfg := &config.Config{}
	cfg.Backend.BaseURL = baseURL
	cfg.Backend.RequestTimeout = 5 * time.Second
	cfg.Transfer.SafetyFloor = safetyFloor
	cfg.Transfer.AutoFillFactor = 3
	return cfg
}

// batchServer serves FEFO batch lists keyed by product ID. A nil list yields a
// 500 so fetch-failure paths can be exercised.
func batchServer(t *testing.T, batches map[uint]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var branchID, productID uint
		if _, err := fmt.Sscanf(r.URL.Path, "/product-batches/fefo/%d/%d", &branchID, &productID); err != nil {
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		body, ok := batches[productID]
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"message":"batch service unavailable"}`))
			return
		}
		w.Write([]byte(body))
	}))
}

func newTestPreviewer(baseURL string, safetyFloor int) *Previewer {
	cfg := testConfig(baseURL, safetyFloor)
	return NewPreviewer(backend.NewClient(cfg), cfg, testLogger())
}

func TestPreviewGreedyFEFOAllocation(t *testing.T) {
	// Available 10, 8, 5 with a floor of 5 leaves 5, 3, 0 transferable.
	ts := batchServer(t, map[uint]string{
		10: `[
			{"id":1,"batch_code":"B1","expiry_date":"2026-01-01T00:00:00Z","available_quantity":10},
			{"id":2,"batch_code":"B2","expiry_date":"2026-02-01T00:00:00Z","available_quantity":8},
			{"id":3,"batch_code":"B3","expiry_date":"2026-03-01T00:00:00Z","available_quantity":5}
		]`,
	})
	defer ts.Close()

	previewer := newTestPreviewer(ts.URL, 5)
	req := &Request{
		ID:             1,
		Code:           "TR-001",
		SourceBranchID: 2,
		Items:          []Item{{ProductID: 10, ProductName: "Paracetamol", RequestedQty: 8}},
	}

	preview := previewer.Preview(context.Background(), req)
	if len(preview.Items) != 1 {
		t.Fatalf("expected 1 item preview, got %d", len(preview.Items))
	}

	item := preview.Items[0]
	if item.AllocatedQty != 8 || item.MissingQty != 0 {
		t.Errorf("expected full allocation of 8, got allocated=%d missing=%d", item.AllocatedQty, item.MissingQty)
	}
	if len(item.Batches) != 3 {
		t.Fatalf("expected all 3 batches in the preview, got %d", len(item.Batches))
	}

	wantTakes := []int{5, 3, 0}
	wantTransferable := []int{5, 3, 0}
	for i, batch := range item.Batches {
		if batch.TakeQty != wantTakes[i] {
			t.Errorf("batch %s: expected take %d, got %d", batch.BatchCode, wantTakes[i], batch.TakeQty)
		}
		if batch.Transferable != wantTransferable[i] {
			t.Errorf("batch %s: expected transferable %d, got %d", batch.BatchCode, wantTransferable[i], batch.Transferable)
		}
	}
}

func TestPreviewShortageSumInvariant(t *testing.T) {
	ts := batchServer(t, map[uint]string{
		10: `[
			{"id":1,"batch_code":"B1","expiry_date":"2026-01-01T00:00:00Z","available_quantity":10},
			{"id":2,"batch_code":"B2","expiry_date":"2026-02-01T00:00:00Z","available_quantity":8}
		]`,
	})
	defer ts.Close()

	previewer := newTestPreviewer(ts.URL, 5)
	req := &Request{
		ID:             1,
		SourceBranchID: 2,
		Items:          []Item{{ProductID: 10, RequestedQty: 20}},
	}

	item := previewer.Preview(context.Background(), req).Items[0]
	if item.AllocatedQty != 8 {
		t.Errorf("expected allocation of 8, got %d", item.AllocatedQty)
	}
	if item.AllocatedQty+item.MissingQty != item.RequestedQty {
		t.Errorf("allocated %d + missing %d must equal requested %d",
			item.AllocatedQty, item.MissingQty, item.RequestedQty)
	}
}

func TestPreviewSafetyFloorBlocksBatch(t *testing.T) {
	// Available exactly at the floor leaves nothing transferable.
	ts := batchServer(t, map[uint]string{
		10: `[{"id":1,"batch_code":"B1","expiry_date":"2026-01-01T00:00:00Z","available_quantity":5}]`,
	})
	defer ts.Close()

	previewer := newTestPreviewer(ts.URL, 5)
	req := &Request{
		ID:             1,
		SourceBranchID: 2,
		Items:          []Item{{ProductID: 10, RequestedQty: 3}},
	}

	item := previewer.Preview(context.Background(), req).Items[0]
	if item.AllocatedQty != 0 || item.MissingQty != 3 {
		t.Errorf("expected nothing allocatable, got allocated=%d missing=%d", item.AllocatedQty, item.MissingQty)
	}
	if item.Batches[0].Transferable != 0 {
		t.Errorf("expected transferable 0 at the floor, got %d", item.Batches[0].Transferable)
	}
}

func TestPreviewFailedFetchDegradesOneItem(t *testing.T) {
	// Product 20 has no entry, so its lookup fails; product 10 must still
	// allocate normally.
	ts := batchServer(t, map[uint]string{
		10: `[{"id":1,"batch_code":"B1","expiry_date":"2026-01-01T00:00:00Z","available_quantity":12}]`,
	})
	defer ts.Close()

	previewer := newTestPreviewer(ts.URL, 5)
	req := &Request{
		ID:             1,
		SourceBranchID: 2,
		Items: []Item{
			{ProductID: 10, ProductName: "Paracetamol", RequestedQty: 4},
			{ProductID: 20, ProductName: "Amoxicillin", RequestedQty: 6},
		},
	}

	preview := previewer.Preview(context.Background(), req)

	healthy := preview.Items[0]
	if healthy.FetchFailed || healthy.AllocatedQty != 4 || healthy.MissingQty != 0 {
		t.Errorf("healthy item degraded: %+v", healthy)
	}

	failed := preview.Items[1]
	if !failed.FetchFailed {
		t.Error("expected FetchFailed on the item with a broken lookup")
	}
	if failed.AllocatedQty != 0 || failed.MissingQty != 6 {
		t.Errorf("failed item must degrade to full shortage, got allocated=%d missing=%d",
			failed.AllocatedQty, failed.MissingQty)
	}
}

func TestPreviewIsIdempotent(t *testing.T) {
	ts := batchServer(t, map[uint]string{
		10: `[{"id":1,"batch_code":"B1","expiry_date":"2026-01-01T00:00:00Z","available_quantity":9}]`,
	})
	defer ts.Close()

	previewer := newTestPreviewer(ts.URL, 5)
	req := &Request{
		ID:             1,
		SourceBranchID: 2,
		Items:          []Item{{ProductID: 10, RequestedQty: 4}},
	}

	first := previewer.Preview(context.Background(), req)
	second := previewer.Preview(context.Background(), req)

	if first.Items[0].AllocatedQty != second.Items[0].AllocatedQty ||
		first.Items[0].MissingQty != second.Items[0].MissingQty {
		t.Errorf("previews over unchanged data must agree: first=%+v second=%+v",
			first.Items[0], second.Items[0])
	}
}
