// internal/infrastructure/backend/records.go
package backend

import "time"

// Wire records as the inventory backend returns them. Field names follow the
// backend's snake_case contract; normalization into dashboard models happens
// in the domain packages.

// TransferRecord is a raw inter-branch transfer row
type TransferRecord struct {
	ID           uint                 `json:"id"`
	Code         string               `json:"code"`
	FromBranchID uint                 `json:"from_branch_id"`
	ToBranchID   uint                 `json:"to_branch_id"`
	Status       string               `json:"status"`
	Note         string               `json:"note"`
	CreatedAt    time.Time            `json:"created_at"`
	CreatedBy    string               `json:"created_by"`
	Items        []TransferItemRecord `json:"items"`
}

// TransferItemRecord is one product line within a transfer
type TransferItemRecord struct {
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
}

// BatchRecord is a FEFO-ordered product batch at a branch
type BatchRecord struct {
	ID               uint      `json:"id"`
	BatchCode        string    `json:"batch_code"`
	ExpiryDate       time.Time `json:"expiry_date"`
	Quantity         int       `json:"quantity"`
	ReservedQuantity int       `json:"reserved_quantity"`
	// AvailableQuantity is present on newer backend versions; older ones only
	// send quantity and reserved_quantity.
	AvailableQuantity *int `json:"available_quantity"`
}

// Available returns the batch quantity the backend considers free
func (b *BatchRecord) Available() int {
	if b.AvailableQuantity != nil {
		return *b.AvailableQuantity
	}
	return b.Quantity - b.ReservedQuantity
}

// SupplierOrderRecord is a raw supplier (import) order
type SupplierOrderRecord struct {
	ID          uint                      `json:"id"`
	Code        string                    `json:"code"`
	BranchID    uint                      `json:"branch_id"`
	Status      string                    `json:"status"`
	Note        string                    `json:"note"`
	TotalAmount float64                   `json:"total_amount"`
	CreatedAt   time.Time                 `json:"created_at"`
	Items       []SupplierOrderItemRecord `json:"items"`
}

// SupplierOrderItemRecord is one product line within a supplier order
type SupplierOrderItemRecord struct {
	ProductID        uint    `json:"product_id"`
	ProductName      string  `json:"product_name"`
	UnitPrice        float64 `json:"unit_price"`
	Quantity         int     `json:"quantity"`
	ReceivedQuantity int     `json:"received_quantity"`
}

// ProductRecord is a catalog product with its stock levels at a branch
type ProductRecord struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name"`
	SKU          string  `json:"sku"`
	Unit         string  `json:"unit"`
	Price        float64 `json:"price"`
	CurrentStock int     `json:"current_stock"`
	MinStock     int     `json:"min_stock"`
	MaxStock     *int    `json:"max_stock"`
	IsActive     bool    `json:"is_active"`
}

// BranchRecord is a pharmacy branch
type BranchRecord struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// UserRecord is a staff member or customer account
type UserRecord struct {
	ID       uint   `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
	BranchID uint   `json:"branch_id"`
	IsActive bool   `json:"is_active"`
}

// LoginResult is the backend's answer to a credential check
type LoginResult struct {
	Token string     `json:"token"`
	User  UserRecord `json:"user"`
}
