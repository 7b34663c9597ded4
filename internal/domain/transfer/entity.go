// internal/domain/transfer/entity.go
package transfer

import (
	"time"

	"github.com/your-org/pharmacy-dashboard/internal/infrastructure/backend"
)

// Status represents the lifecycle state of a transfer request
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusShipped   Status = "shipped"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// IsTerminal reports whether the status permits no further transitions
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// validTransitions is the full transition table. Cancellation is possible
// until the transfer ships; after shipping the only way out is completion.
var validTransitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusCancelled},
	StatusApproved: {StatusShipped, StatusCancelled},
	StatusShipped:  {StatusCompleted},
}

// CanTransitionTo reports whether moving from s to target is allowed
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// NormalizeStatus maps a backend status string onto the local enum. Unknown
// values collapse to Cancelled, the safest terminal interpretation; the second
// return value lets callers log the mismatch instead of hiding it.
func NormalizeStatus(raw string) (Status, bool) {
	switch raw {
	case "pending":
		return StatusPending, true
	case "approved":
		return StatusApproved, true
	case "shipped":
		return StatusShipped, true
	case "completed":
		return StatusCompleted, true
	case "cancelled":
		return StatusCancelled, true
	default:
		return StatusCancelled, false
	}
}

// Request is a normalized inter-branch transfer request
type Request struct {
	ID             uint      `json:"id"`
	Code           string    `json:"code"`
	SourceBranchID uint      `json:"source_branch_id"`
	TargetBranchID uint      `json:"target_branch_id"`
	Status         Status    `json:"status"`
	Note           string    `json:"note"`
	CreatedDate    time.Time `json:"created_date"`
	CreatedBy      string    `json:"created_by"`
	Items          []Item    `json:"items"`
}

// Item is one product line within a transfer request
type Item struct {
	ProductID    uint   `json:"product_id"`
	ProductName  string `json:"product_name"`
	RequestedQty int    `json:"requested_qty"`
}

// BatchAllocation is one batch's contribution to an item's preview. Created
// fresh on every preview run and never persisted.
type BatchAllocation struct {
	BatchID      uint      `json:"batch_id"`
	BatchCode    string    `json:"batch_code"`
	ExpiryDate   time.Time `json:"expiry_date"`
	Transferable int       `json:"transferable"`
	TakeQty      int       `json:"take_qty"`
}

// ItemPreview is an item enriched with its FEFO allocation
type ItemPreview struct {
	Item
	AllocatedQty int `json:"allocated_qty"`
	MissingQty   int `json:"missing_qty"`
	// Batches lists every batch returned by the backend, in expiry order,
	// including those the allocation did not touch.
	Batches []BatchAllocation `json:"batches"`
	// FetchFailed marks an item whose batch lookup failed; such items degrade
	// to full shortage instead of failing the whole preview.
	FetchFailed bool `json:"fetch_failed,omitempty"`
}

// Preview is the allocation simulation for one transfer request
type Preview struct {
	TransferID  uint          `json:"transfer_id"`
	Code        string        `json:"code"`
	GeneratedAt time.Time     `json:"generated_at"`
	Items       []ItemPreview `json:"items"`
}

// HasShortage reports whether any item cannot be fully allocated
func (p *Preview) HasShortage() bool {
	for _, item := range p.Items {
		if item.MissingQty > 0 {
			return true
		}
	}
	return false
}

// ShortItems returns the items with a positive missing quantity
func (p *Preview) ShortItems() []ItemPreview {
	var short []ItemPreview
	for _, item := range p.Items {
		if item.MissingQty > 0 {
			short = append(short, item)
		}
	}
	return short
}

// fromRecord normalizes a backend transfer row into the local model
func fromRecord(rec backend.TransferRecord) (Request, bool) {
	status, recognized := NormalizeStatus(rec.Status)

	items := make([]Item, 0, len(rec.Items))
	for _, it := range rec.Items {
		items = append(items, Item{
			ProductID:    it.ProductID,
			ProductName:  it.ProductName,
			RequestedQty: it.Quantity,
		})
	}

	return Request{
		ID:             rec.ID,
		Code:           rec.Code,
		SourceBranchID: rec.FromBranchID,
		TargetBranchID: rec.ToBranchID,
		Status:         status,
		Note:           rec.Note,
		CreatedDate:    rec.CreatedAt,
		CreatedBy:      rec.CreatedBy,
		Items:          items,
	}, recognized
}
