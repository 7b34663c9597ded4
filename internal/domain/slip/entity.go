// internal/domain/slip/entity.go
package slip

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Type distinguishes supplier imports from inter-branch exports
type Type string

const (
	TypeImport Type = "IMPORT"
	TypeExport Type = "EXPORT"
)

// Status is the slip lifecycle: pending until reconciled, then completed, or
// cancelled from any non-terminal state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// NormalizeStatus maps backend status strings onto the slip enum. Transfers
// that are merely approved or shipped are still pending from the slip
// perspective: reconciliation has not happened yet.
func NormalizeStatus(raw string) Status {
	switch raw {
	case "pending", "approved", "shipped":
		return StatusPending
	case "completed":
		return StatusCompleted
	default:
		return StatusCancelled
	}
}

// Slip is a planned stock movement: an import from a supplier or an export to
// another branch.
type Slip struct {
	ID             uint            `json:"id"`
	Code           string          `json:"code"`
	Type           Type            `json:"type"`
	Status         Status          `json:"status"`
	BranchID       uint            `json:"branch_id"`
	TargetBranchID uint            `json:"target_branch_id,omitempty"`
	Note           string          `json:"note"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	CreatedAt      time.Time       `json:"created_at"`
	Items          []Item          `json:"items"`
}

// Item is one product line of a slip. ActualQuantity stays zero until the
// receiving step reconciles it.
type Item struct {
	ProductID       uint            `json:"product_id"`
	ProductName     string          `json:"product_name"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	RequestQuantity int             `json:"request_quantity"`
	ActualQuantity  int             `json:"actual_quantity"`
}

// Draft is a slip under composition, before submission
type Draft struct {
	Type           Type        `json:"type"`
	BranchID       uint        `json:"branch_id"`
	TargetBranchID uint        `json:"target_branch_id"`
	Note           string      `json:"note"`
	Items          []DraftItem `json:"items"`
}

// DraftItem is one composed line of a draft
type DraftItem struct {
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
}

// AddItem appends a product line with the default quantity of 1. The same
// product cannot appear twice; the operator adjusts the quantity instead.
func (d *Draft) AddItem(productID uint, productName string, unitPrice decimal.Decimal) error {
	for _, item := range d.Items {
		if item.ProductID == productID {
			return fmt.Errorf("product %q is already on the slip", productName)
		}
	}
	d.Items = append(d.Items, DraftItem{
		ProductID:   productID,
		ProductName: productName,
		UnitPrice:   unitPrice,
		Quantity:    1,
	})
	return nil
}

// SetQuantity changes the quantity of an existing line
func (d *Draft) SetQuantity(productID uint, quantity int) error {
	for i := range d.Items {
		if d.Items[i].ProductID == productID {
			d.Items[i].Quantity = quantity
			return nil
		}
	}
	return fmt.Errorf("product %d is not on the slip", productID)
}

// RemoveItem drops a line from the draft
func (d *Draft) RemoveItem(productID uint) {
	for i := range d.Items {
		if d.Items[i].ProductID == productID {
			d.Items = append(d.Items[:i], d.Items[i+1:]...)
			return
		}
	}
}

// Validate checks the draft before submission. Failures here never reach the
// backend.
func (d *Draft) Validate() error {
	if d.Type != TypeImport && d.Type != TypeExport {
		return fmt.Errorf("slip type must be IMPORT or EXPORT")
	}
	if d.BranchID == 0 {
		return fmt.Errorf("a branch must be selected")
	}
	if d.Type == TypeExport {
		if d.TargetBranchID == 0 {
			return fmt.Errorf("a destination branch must be selected")
		}
		if d.TargetBranchID == d.BranchID {
			return fmt.Errorf("source and destination branch must differ")
		}
	}
	if len(d.Items) == 0 {
		return fmt.Errorf("the slip needs at least one item")
	}
	for _, item := range d.Items {
		if item.Quantity <= 0 {
			return fmt.Errorf("quantity for %q must be positive", item.ProductName)
		}
		if d.Type == TypeImport && !item.UnitPrice.IsPositive() {
			return fmt.Errorf("unit price for %q must be positive", item.ProductName)
		}
	}
	return nil
}

// Total is the draft's amount: sum of quantity x unit price, rounded to two
// decimal places.
func (d *Draft) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range d.Items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total.Round(2)
}
