// internal/domain/slip/service.go
package slip

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/pharmacy-dashboard/internal/config"
	"github.com/your-org/pharmacy-dashboard/internal/domain/audit"
	"github.com/your-org/pharmacy-dashboard/internal/infrastructure/backend"
)

// Service runs the stock-slip workflow: draft composition with low-stock
// auto-fill, validated submission, the receiving/shipping step and
// cancellation. Imports are supplier orders upstream; exports are inter-branch
// transfers.
type Service struct {
	client         *backend.Client
	audit          *audit.Service
	autoFillFactor int
	logger         *logrus.Logger
}

// NewService creates the slip workflow service
func NewService(client *backend.Client, auditSvc *audit.Service, cfg *config.Config, logger *logrus.Logger) *Service {
	return &Service{
		client:         client,
		audit:          auditSvc,
		autoFillFactor: cfg.Transfer.AutoFillFactor,
		logger:         logger,
	}
}

// List merges supplier orders and inter-branch transfers into one slip view.
// A failure on either source fails the listing; a half-merged list would read
// as "those slips are gone".
func (s *Service) List(ctx context.Context) ([]Slip, error) {
	orders, err := s.client.ListSupplierOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load supplier orders: %w", err)
	}
	transfers, err := s.client.ListTransfers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load transfers: %w", err)
	}

	slips := make([]Slip, 0, len(orders)+len(transfers))
	for _, order := range orders {
		slips = append(slips, fromSupplierOrder(order))
	}
	for _, tr := range transfers {
		slips = append(slips, fromTransfer(tr))
	}
	return slips, nil
}

func fromSupplierOrder(rec backend.SupplierOrderRecord) Slip {
	items := make([]Item, 0, len(rec.Items))
	total := decimal.Zero
	for _, it := range rec.Items {
		price := decimal.NewFromFloat(it.UnitPrice)
		items = append(items, Item{
			ProductID:       it.ProductID,
			ProductName:     it.ProductName,
			UnitPrice:       price,
			RequestQuantity: it.Quantity,
			ActualQuantity:  it.ReceivedQuantity,
		})
		total = total.Add(price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return Slip{
		ID:          rec.ID,
		Code:        rec.Code,
		Type:        TypeImport,
		Status:      NormalizeStatus(rec.Status),
		BranchID:    rec.BranchID,
		Note:        rec.Note,
		TotalAmount: total.Round(2),
		CreatedAt:   rec.CreatedAt,
		Items:       items,
	}
}

func fromTransfer(rec backend.TransferRecord) Slip {
	items := make([]Item, 0, len(rec.Items))
	for _, it := range rec.Items {
		items = append(items, Item{
			ProductID:       it.ProductID,
			ProductName:     it.ProductName,
			UnitPrice:       decimal.Zero,
			RequestQuantity: it.Quantity,
		})
	}
	return Slip{
		ID:             rec.ID,
		Code:           rec.Code,
		Type:           TypeExport,
		Status:         NormalizeStatus(rec.Status),
		BranchID:       rec.FromBranchID,
		TargetBranchID: rec.ToBranchID,
		Note:           rec.Note,
		TotalAmount:    decimal.Zero,
		CreatedAt:      rec.CreatedAt,
		Items:          items,
	}
}

// AutoFill proposes draft lines for every product at or below its minimum
// stock level: quantity up to the maximum level, or autoFillFactor x minimum
// when no maximum is configured. Suggestions with a non-positive quantity are
// dropped.
func (s *Service) AutoFill(ctx context.Context) ([]DraftItem, error) {
	products, err := s.client.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load products for auto-fill: %w", err)
	}

	var suggestions []DraftItem
	for _, product := range products {
		if !product.IsActive || product.CurrentStock > product.MinStock {
			continue
		}

		target := s.autoFillFactor * product.MinStock
		if product.MaxStock != nil && *product.MaxStock > 0 {
			target = *product.MaxStock
		}

		quantity := target - product.CurrentStock
		if quantity <= 0 {
			continue
		}

		suggestions = append(suggestions, DraftItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			UnitPrice:   decimal.NewFromFloat(product.Price),
			Quantity:    quantity,
		})
	}
	return suggestions, nil
}

// Submit validates a draft and creates it upstream: supplier order for
// imports, bulk transfer for exports. Returns the created slip.
func (s *Service) Submit(ctx context.Context, draft *Draft) (*Slip, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	switch draft.Type {
	case TypeImport:
		return s.submitImport(ctx, draft)
	default:
		return s.submitExport(ctx, draft)
	}
}

func (s *Service) submitImport(ctx context.Context, draft *Draft) (*Slip, error) {
	req := &backend.CreateSupplierOrderRequest{
		BranchID: draft.BranchID,
		Note:     draft.Note,
		Items:    make([]backend.CreateSupplierOrderItem, 0, len(draft.Items)),
	}
	for _, item := range draft.Items {
		price, _ := item.UnitPrice.Float64()
		req.Items = append(req.Items, backend.CreateSupplierOrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: price,
		})
	}

	rec, err := s.client.CreateSupplierOrder(ctx, req)
	if err != nil {
		return nil, err
	}

	created := fromSupplierOrder(*rec)
	s.audit.Record(ctx, audit.ActionSlipSubmit, audit.EntitySupplierOrder, created.ID, created.Code,
		fmt.Sprintf("import slip, %d items, total %s", len(draft.Items), draft.Total()))
	return &created, nil
}

func (s *Service) submitExport(ctx context.Context, draft *Draft) (*Slip, error) {
	req := &backend.CreateTransferRequest{
		FromBranchID: draft.BranchID,
		ToBranchID:   draft.TargetBranchID,
		Notes:        draft.Note,
		Items:        make([]backend.CreateTransferItem, 0, len(draft.Items)),
	}
	for _, item := range draft.Items {
		req.Items = append(req.Items, backend.CreateTransferItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	rec, err := s.client.CreateTransfer(ctx, req)
	if err != nil {
		return nil, err
	}

	created := fromTransfer(*rec)
	s.audit.Record(ctx, audit.ActionSlipSubmit, audit.EntityTransfer, created.ID, created.Code,
		fmt.Sprintf("export slip, %d items to branch %d", len(draft.Items), draft.TargetBranchID))
	return &created, nil
}

// ActualInput is one reconciled line at the receiving step
type ActualInput struct {
	ProductID      uint `json:"product_id" binding:"required"`
	ActualQuantity int  `json:"actual_quantity" binding:"gte=0"`
}

// Receive completes the reconciliation step. Imports send the per-line actual
// quantities (missing lines default to the requested quantity); exports call
// the transfer ship endpoint, which takes no line items, so edited actuals are
// preserved in the audit trail only.
func (s *Service) Receive(ctx context.Context, slipType Type, id uint, actuals []ActualInput) error {
	target, err := s.find(ctx, slipType, id)
	if err != nil {
		return err
	}
	if target.Status != StatusPending {
		return fmt.Errorf("slip %s is %s and cannot be received", target.Code, target.Status)
	}

	switch slipType {
	case TypeImport:
		req := &backend.ReceiveSupplierOrderRequest{
			Items: reconcile(target.Items, actuals),
		}
		if err := s.client.ReceiveSupplierOrder(ctx, id, req); err != nil {
			return err
		}
		s.audit.Record(ctx, audit.ActionSlipReceive, audit.EntitySupplierOrder, id, target.Code,
			fmt.Sprintf("%d lines reconciled", len(req.Items)))
		return nil
	case TypeExport:
		if err := s.client.ShipTransfer(ctx, id); err != nil {
			return err
		}
		s.audit.Record(ctx, audit.ActionSlipReceive, audit.EntityTransfer, id, target.Code,
			describeActuals(target.Items, actuals))
		return nil
	default:
		return fmt.Errorf("unknown slip type %q", slipType)
	}
}

// reconcile builds the receive payload, defaulting every line the operator
// did not edit to its requested quantity.
func reconcile(items []Item, actuals []ActualInput) []backend.ReceivedItem {
	edited := make(map[uint]int, len(actuals))
	for _, a := range actuals {
		edited[a.ProductID] = a.ActualQuantity
	}

	out := make([]backend.ReceivedItem, 0, len(items))
	for _, item := range items {
		qty := item.RequestQuantity
		if v, ok := edited[item.ProductID]; ok {
			qty = v
		}
		out = append(out, backend.ReceivedItem{
			ProductID:        item.ProductID,
			ReceivedQuantity: qty,
		})
	}
	return out
}

// describeActuals renders the export actuals for the audit trail, since the
// ship endpoint cannot carry them.
func describeActuals(items []Item, actuals []ActualInput) string {
	if len(actuals) == 0 {
		return "shipped with requested quantities"
	}
	parts := make([]string, 0, len(actuals))
	for _, rec := range reconcile(items, actuals) {
		parts = append(parts, fmt.Sprintf("product %d: %d", rec.ProductID, rec.ReceivedQuantity))
	}
	return "shipped; actuals " + strings.Join(parts, ", ")
}

// Cancel moves a pending slip to cancelled. The reason is mandatory.
func (s *Service) Cancel(ctx context.Context, slipType Type, id uint, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return fmt.Errorf("a cancellation reason is required")
	}

	target, err := s.find(ctx, slipType, id)
	if err != nil {
		return err
	}
	if target.Status != StatusPending {
		return fmt.Errorf("slip %s is %s and cannot be cancelled", target.Code, target.Status)
	}

	switch slipType {
	case TypeImport:
		if err := s.client.CancelSupplierOrder(ctx, id, reason); err != nil {
			return err
		}
		s.audit.Record(ctx, audit.ActionSlipCancel, audit.EntitySupplierOrder, id, target.Code, reason)
		return nil
	case TypeExport:
		if err := s.client.CancelTransfer(ctx, id, reason); err != nil {
			return err
		}
		s.audit.Record(ctx, audit.ActionSlipCancel, audit.EntityTransfer, id, target.Code, reason)
		return nil
	default:
		return fmt.Errorf("unknown slip type %q", slipType)
	}
}

// Get returns one slip by type and ID
func (s *Service) Get(ctx context.Context, slipType Type, id uint) (*Slip, error) {
	return s.find(ctx, slipType, id)
}

func (s *Service) find(ctx context.Context, slipType Type, id uint) (*Slip, error) {
	slips, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range slips {
		if slips[i].ID == id && slips[i].Type == slipType {
			return &slips[i], nil
		}
	}
	return nil, fmt.Errorf("%s slip %d not found", slipType, id)
}
