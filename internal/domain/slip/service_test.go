// internal/domain/slip/service_test.go
package slip

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/pharmacy-dashboard/internal/config"
	"github.com/your-org/pharmacy-dashboard/internal/domain/audit"
	"github.com/your-org/pharmacy-dashboard/internal/infrastructure/backend"
)

type fakeBackend struct {
	mu        sync.Mutex
	orders    string
	transfers string
	products  string

	createdOrders  []backend.CreateSupplierOrderRequest
	receivedOrders []backend.ReceiveSupplierOrderRequest
	shipped        []string
	cancelled      []string
}

func (f *fakeBackend) handler(t *testing.T) http.Handler {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("GET /supplier-orders", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		w.Write([]byte(f.orders))
	})
	mux.HandleFunc("GET /inventory-transfers", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		w.Write([]byte(f.transfers))
	})
	mux.HandleFunc("GET /products", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		w.Write([]byte(f.products))
	})

	mux.HandleFunc("POST /supplier-orders", func(w http.ResponseWriter, r *http.Request) {
		var req backend.CreateSupplierOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode order payload: %v", err)
		}
		f.mu.Lock()
		f.createdOrders = append(f.createdOrders, req)
		f.mu.Unlock()
		w.Write([]byte(`{"id":7,"code":"PO-007","branch_id":1,"status":"pending","items":[
			{"product_id":10,"product_name":"Paracetamol","unit_price":1000,"quantity":50}
		]}`))
	})
	mux.HandleFunc("POST /supplier-orders/{id}/receive", func(w http.ResponseWriter, r *http.Request) {
		var req backend.ReceiveSupplierOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode receive payload: %v", err)
		}
		f.mu.Lock()
		f.receivedOrders = append(f.receivedOrders, req)
		f.mu.Unlock()
		w.Write([]byte(`{"success":true}`))
	})
	mux.HandleFunc("POST /supplier-orders/{id}/cancel", func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		f.mu.Lock()
		f.cancelled = append(f.cancelled, r.PathValue("id"))
		f.mu.Unlock()
		w.Write([]byte(`{"success":true}`))
	})
	mux.HandleFunc("POST /inventory-transfers/{id}/ship", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.shipped = append(f.shipped, r.PathValue("id"))
		f.mu.Unlock()
		w.Write([]byte(`{"success":true}`))
	})

	return mux
}

func newServiceFixture(t *testing.T, fake *fakeBackend) *Service {
	t.Helper()
	ts := httptest.NewServer(fake.handler(t))
	t.Cleanup(ts.Close)

	cfg := &config.Config{}
	cfg.Backend.BaseURL = ts.URL
	cfg.Backend.RequestTimeout = 5 * time.Second
	cfg.Transfer.AutoFillFactor = 3

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return NewService(backend.NewClient(cfg), audit.NewService(nil, logger), cfg, logger)
}

func TestListMergesOrdersAndTransfers(t *testing.T) {
	fake := &fakeBackend{
		orders: `[{"id":7,"code":"PO-007","branch_id":1,"status":"pending","items":[
			{"product_id":10,"product_name":"Paracetamol","unit_price":1000.005,"quantity":3},
			{"product_id":20,"product_name":"Amoxicillin","unit_price":2500,"quantity":2}
		]}]`,
		transfers: `[{"id":4,"code":"TR-004","from_branch_id":1,"to_branch_id":2,"status":"shipped","items":[
			{"product_id":10,"product_name":"Paracetamol","quantity":5}
		]}]`,
	}
	svc := newServiceFixture(t, fake)

	slips, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(slips) != 2 {
		t.Fatalf("expected 2 slips, got %d", len(slips))
	}

	imp := slips[0]
	if imp.Type != TypeImport || imp.Code != "PO-007" {
		t.Errorf("expected the supplier order first, got %+v", imp)
	}
	if want := decimal.NewFromFloat(8000.02); !imp.TotalAmount.Equal(want) {
		t.Errorf("expected import total %s, got %s", want, imp.TotalAmount)
	}

	exp := slips[1]
	if exp.Type != TypeExport || exp.Code != "TR-004" {
		t.Errorf("expected the transfer second, got %+v", exp)
	}
	// A shipped transfer is still pending from the slip perspective.
	if exp.Status != StatusPending {
		t.Errorf("expected shipped transfer to read as pending, got %s", exp.Status)
	}
	if exp.BranchID != 1 || exp.TargetBranchID != 2 {
		t.Errorf("expected branches 1 -> 2, got %d -> %d", exp.BranchID, exp.TargetBranchID)
	}
}

func TestListFailsWhenEitherSourceFails(t *testing.T) {
	fake := &fakeBackend{
		orders:    `[]`,
		transfers: `{"message":"boom"}`,
	}
	svc := newServiceFixture(t, fake)

	if _, err := svc.List(context.Background()); err == nil {
		t.Fatal("expected the merged listing to fail when one source fails")
	}
}

func TestAutoFillSuggestions(t *testing.T) {
	fake := &fakeBackend{products: `[
		{"id":10,"name":"Paracetamol","price":1000,"current_stock":4,"min_stock":10,"max_stock":40,"is_active":true},
		{"id":20,"name":"Amoxicillin","price":2500,"current_stock":2,"min_stock":5,"is_active":true},
		{"id":30,"name":"Ibuprofen","price":800,"current_stock":50,"min_stock":10,"is_active":true},
		{"id":40,"name":"Vitamin C","price":300,"current_stock":3,"min_stock":10,"is_active":false},
		{"id":50,"name":"Aspirin","price":500,"current_stock":10,"min_stock":10,"max_stock":10,"is_active":true}
	]`}
	svc := newServiceFixture(t, fake)

	suggestions, err := svc.AutoFill(context.Background())
	if err != nil {
		t.Fatalf("AutoFill returned error: %v", err)
	}
	if len(suggestions) != 2 {
		t.Fatalf("expected 2 suggestions, got %d: %+v", len(suggestions), suggestions)
	}

	// Product 10: max stock 40, current 4 -> 36.
	if suggestions[0].ProductID != 10 || suggestions[0].Quantity != 36 {
		t.Errorf("expected product 10 with quantity 36, got %+v", suggestions[0])
	}
	// Product 20: no max, 3 x min 5 = 15, current 2 -> 13.
	if suggestions[1].ProductID != 20 || suggestions[1].Quantity != 13 {
		t.Errorf("expected product 20 with quantity 13, got %+v", suggestions[1])
	}
}

func TestSubmitImport(t *testing.T) {
	fake := &fakeBackend{orders: `[]`, transfers: `[]`}
	svc := newServiceFixture(t, fake)

	draft := &Draft{
		Type:     TypeImport,
		BranchID: 1,
		Note:     "weekly replenishment",
		Items: []DraftItem{
			{ProductID: 10, ProductName: "Paracetamol", UnitPrice: decimal.NewFromInt(1000), Quantity: 50},
		},
	}

	created, err := svc.Submit(context.Background(), draft)
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if created.Type != TypeImport || created.Status != StatusPending {
		t.Errorf("expected a pending import slip, got %+v", created)
	}
	if want := decimal.NewFromInt(50000); !created.TotalAmount.Equal(want) {
		t.Errorf("expected total %s, got %s", want, created.TotalAmount)
	}

	if len(fake.createdOrders) != 1 {
		t.Fatalf("expected one supplier order creation, got %d", len(fake.createdOrders))
	}
	sent := fake.createdOrders[0]
	if sent.BranchID != 1 || len(sent.Items) != 1 || sent.Items[0].Quantity != 50 {
		t.Errorf("unexpected creation payload: %+v", sent)
	}
}

func TestSubmitRejectsInvalidDraft(t *testing.T) {
	fake := &fakeBackend{orders: `[]`, transfers: `[]`}
	svc := newServiceFixture(t, fake)

	draft := &Draft{Type: TypeImport, BranchID: 1}
	if _, err := svc.Submit(context.Background(), draft); err == nil {
		t.Fatal("expected an empty draft to be rejected")
	}
	if len(fake.createdOrders) != 0 {
		t.Error("an invalid draft must never reach the backend")
	}
}

func TestReceiveImportDefaultsToRequested(t *testing.T) {
	fake := &fakeBackend{
		orders: `[{"id":7,"code":"PO-007","branch_id":1,"status":"pending","items":[
			{"product_id":10,"product_name":"Paracetamol","unit_price":1000,"quantity":10},
			{"product_id":20,"product_name":"Amoxicillin","unit_price":2500,"quantity":5}
		]}]`,
		transfers: `[]`,
	}
	svc := newServiceFixture(t, fake)

	// Only product 10 gets an edited actual; product 20 defaults to 5.
	err := svc.Receive(context.Background(), TypeImport, 7, []ActualInput{
		{ProductID: 10, ActualQuantity: 8},
	})
	if err != nil {
		t.Fatalf("Receive returned error: %v", err)
	}

	if len(fake.receivedOrders) != 1 {
		t.Fatalf("expected one receive call, got %d", len(fake.receivedOrders))
	}
	items := fake.receivedOrders[0].Items
	if len(items) != 2 {
		t.Fatalf("expected 2 reconciled lines, got %d", len(items))
	}
	if items[0].ProductID != 10 || items[0].ReceivedQuantity != 8 {
		t.Errorf("expected edited actual 8 for product 10, got %+v", items[0])
	}
	if items[1].ProductID != 20 || items[1].ReceivedQuantity != 5 {
		t.Errorf("expected requested quantity 5 for product 20, got %+v", items[1])
	}
}

func TestReceiveExportShipsTransfer(t *testing.T) {
	fake := &fakeBackend{
		orders: `[]`,
		transfers: `[{"id":4,"code":"TR-004","from_branch_id":1,"to_branch_id":2,"status":"approved","items":[
			{"product_id":10,"product_name":"Paracetamol","quantity":5}
		]}]`,
	}
	svc := newServiceFixture(t, fake)

	if err := svc.Receive(context.Background(), TypeExport, 4, nil); err != nil {
		t.Fatalf("Receive returned error: %v", err)
	}
	if len(fake.shipped) != 1 || fake.shipped[0] != "4" {
		t.Errorf("expected transfer 4 to be shipped, got %v", fake.shipped)
	}
}

func TestReceiveRejectsNonPending(t *testing.T) {
	fake := &fakeBackend{
		orders: `[{"id":7,"code":"PO-007","branch_id":1,"status":"completed","items":[
			{"product_id":10,"product_name":"Paracetamol","unit_price":1000,"quantity":10}
		]}]`,
		transfers: `[]`,
	}
	svc := newServiceFixture(t, fake)

	if err := svc.Receive(context.Background(), TypeImport, 7, nil); err == nil {
		t.Fatal("expected receiving a completed slip to fail")
	}
	if len(fake.receivedOrders) != 0 {
		t.Error("a completed slip must never reach the receive endpoint")
	}
}

func TestCancelRequiresReasonAndPendingStatus(t *testing.T) {
	fake := &fakeBackend{
		orders: `[{"id":7,"code":"PO-007","branch_id":1,"status":"pending","items":[]},
			{"id":8,"code":"PO-008","branch_id":1,"status":"completed","items":[]}]`,
		transfers: `[]`,
	}
	svc := newServiceFixture(t, fake)

	if err := svc.Cancel(context.Background(), TypeImport, 7, "  "); err == nil {
		t.Error("expected a blank reason to be rejected")
	}
	if err := svc.Cancel(context.Background(), TypeImport, 8, "supplier out of stock"); err == nil {
		t.Error("expected cancelling a completed slip to fail")
	}
	if len(fake.cancelled) != 0 {
		t.Errorf("expected no cancel calls yet, got %v", fake.cancelled)
	}

	if err := svc.Cancel(context.Background(), TypeImport, 7, "supplier out of stock"); err != nil {
		t.Fatalf("Cancel returned error: %v", err)
	}
	if len(fake.cancelled) != 1 || fake.cancelled[0] != "7" {
		t.Errorf("expected order 7 to be cancelled, got %v", fake.cancelled)
	}
}
