// internal/infrastructure/backend/endpoints.go
package backend

import (
	"context"
	"encoding/json"
	"fmt"
)

// Typed wrappers over the backend's endpoints. Each returns wire records; the
// domain layer owns normalization.

// CreateTransferRequest is the bulk transfer-creation payload
type CreateTransferRequest struct {
	FromBranchID uint                 `json:"from_branch_id"`
	ToBranchID   uint                 `json:"to_branch_id"`
	Notes        string               `json:"notes,omitempty"`
	Items        []CreateTransferItem `json:"items"`
}

// CreateTransferItem is one line of a bulk transfer creation
type CreateTransferItem struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// CreateSingleTransferRequest is the single-product creation form. The backend
// only accepts one product per call on this path; split-approve follow-ups use
// it once per short item.
type CreateSingleTransferRequest struct {
	FromBranchID uint   `json:"from_branch_id"`
	ToBranchID   uint   `json:"to_branch_id"`
	ProductID    uint   `json:"product_id"`
	Quantity     int    `json:"quantity"`
	Note         string `json:"note"`
}

// CancelRequest carries the mandatory cancellation reason
type CancelRequest struct {
	Reason string `json:"reason"`
}

// ReceiveSupplierOrderRequest reconciles requested vs actually received stock
type ReceiveSupplierOrderRequest struct {
	Items []ReceivedItem `json:"items"`
}

// ReceivedItem is one reconciled line of a supplier order receipt
type ReceivedItem struct {
	ProductID        uint `json:"product_id"`
	ReceivedQuantity int  `json:"received_quantity"`
}

// CreateSupplierOrderRequest is the supplier (import) order creation payload
type CreateSupplierOrderRequest struct {
	BranchID uint                      `json:"branch_id"`
	Note     string                    `json:"note,omitempty"`
	Items    []CreateSupplierOrderItem `json:"items"`
}

// CreateSupplierOrderItem is one line of a supplier order creation
type CreateSupplierOrderItem struct {
	ProductID uint    `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// LoginRequest carries operator credentials to the backend
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ListTransfers fetches all inter-branch transfers
func (c *Client) ListTransfers(ctx context.Context) ([]TransferRecord, error) {
	payload, err := c.Get(ctx, "/inventory-transfers")
	if err != nil {
		return nil, err
	}
	return decodeList[TransferRecord](payload, "transfers")
}

// CreateTransfer creates a multi-product transfer
func (c *Client) CreateTransfer(ctx context.Context, req *CreateTransferRequest) (*TransferRecord, error) {
	payload, err := c.Post(ctx, "/inventory-transfers", req)
	if err != nil {
		return nil, err
	}
	return decodeObject[TransferRecord](payload)
}

// CreateSingleTransfer creates a one-product transfer
func (c *Client) CreateSingleTransfer(ctx context.Context, req *CreateSingleTransferRequest) (*TransferRecord, error) {
	payload, err := c.Post(ctx, "/inventory-transfers", req)
	if err != nil {
		return nil, err
	}
	return decodeObject[TransferRecord](payload)
}

// ApproveTransfer moves a pending transfer to approved
func (c *Client) ApproveTransfer(ctx context.Context, transferID uint) error {
	_, err := c.Post(ctx, fmt.Sprintf("/inventory-transfers/%d/approve", transferID), nil)
	return err
}

// ShipTransfer moves an approved transfer to shipped
func (c *Client) ShipTransfer(ctx context.Context, transferID uint) error {
	_, err := c.Post(ctx, fmt.Sprintf("/inventory-transfers/%d/ship", transferID), nil)
	return err
}

// ReceiveTransfer moves a shipped transfer to completed
func (c *Client) ReceiveTransfer(ctx context.Context, transferID uint) error {
	_, err := c.Post(ctx, fmt.Sprintf("/inventory-transfers/%d/receive", transferID), nil)
	return err
}

// CancelTransfer cancels a non-terminal transfer with a reason
func (c *Client) CancelTransfer(ctx context.Context, transferID uint, reason string) error {
	_, err := c.Post(ctx, fmt.Sprintf("/inventory-transfers/%d/cancel", transferID), &CancelRequest{Reason: reason})
	return err
}

// FEFOBatches fetches the expiry-ordered batches for a product at a branch.
// The backend sorts by ascending expiry; the order must be preserved.
func (c *Client) FEFOBatches(ctx context.Context, branchID, productID uint) ([]BatchRecord, error) {
	payload, err := c.Get(ctx, fmt.Sprintf("/product-batches/fefo/%d/%d", branchID, productID))
	if err != nil {
		return nil, err
	}
	return decodeList[BatchRecord](payload, "batches")
}

// ListSupplierOrders fetches all supplier orders
func (c *Client) ListSupplierOrders(ctx context.Context) ([]SupplierOrderRecord, error) {
	payload, err := c.Get(ctx, "/supplier-orders")
	if err != nil {
		return nil, err
	}
	return decodeList[SupplierOrderRecord](payload, "orders")
}

// CreateSupplierOrder creates a supplier (import) order
func (c *Client) CreateSupplierOrder(ctx context.Context, req *CreateSupplierOrderRequest) (*SupplierOrderRecord, error) {
	payload, err := c.Post(ctx, "/supplier-orders", req)
	if err != nil {
		return nil, err
	}
	return decodeObject[SupplierOrderRecord](payload)
}

// ReceiveSupplierOrder completes a supplier order with actual quantities
func (c *Client) ReceiveSupplierOrder(ctx context.Context, orderID uint, req *ReceiveSupplierOrderRequest) error {
	_, err := c.Post(ctx, fmt.Sprintf("/supplier-orders/%d/receive", orderID), req)
	return err
}

// CancelSupplierOrder cancels a supplier order with a reason
func (c *Client) CancelSupplierOrder(ctx context.Context, orderID uint, reason string) error {
	_, err := c.Post(ctx, fmt.Sprintf("/supplier-orders/%d/cancel", orderID), &CancelRequest{Reason: reason})
	return err
}

// ListProducts fetches the product catalog with stock levels
func (c *Client) ListProducts(ctx context.Context) ([]ProductRecord, error) {
	payload, err := c.Get(ctx, "/products")
	if err != nil {
		return nil, err
	}
	return decodeList[ProductRecord](payload, "products")
}

// ListBranches fetches the branch registry
func (c *Client) ListBranches(ctx context.Context) ([]BranchRecord, error) {
	payload, err := c.Get(ctx, "/branches")
	if err != nil {
		return nil, err
	}
	return decodeList[BranchRecord](payload, "branches")
}

// ListUsers fetches accounts filtered by role ("staff", "customer")
func (c *Client) ListUsers(ctx context.Context, role string) ([]UserRecord, error) {
	payload, err := c.Get(ctx, "/users?role="+role)
	if err != nil {
		return nil, err
	}
	return decodeList[UserRecord](payload, "users")
}

// CreateUser creates a staff account on the backend
func (c *Client) CreateUser(ctx context.Context, user *UserRecord) (*UserRecord, error) {
	payload, err := c.Post(ctx, "/users", user)
	if err != nil {
		return nil, err
	}
	return decodeObject[UserRecord](payload)
}

// Login checks operator credentials against the backend
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	payload, err := c.Post(ctx, "/auth/login", &LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	return decodeObject[LoginResult](payload)
}

func decodeList[T any](payload json.RawMessage, key string) ([]T, error) {
	raw, err := UnwrapList(payload, key)
	if err != nil {
		return nil, err
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode %q list: %w", key, err)
	}
	return out, nil
}

func decodeObject[T any](payload json.RawMessage) (*T, error) {
	raw, err := UnwrapObject(payload)
	if err != nil {
		return nil, err
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode response object: %w", err)
	}
	return &out, nil
}
