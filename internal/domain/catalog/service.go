// internal/domain/catalog/service.go
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/your-org/pharmacy-dashboard/internal/domain/audit"
	"github.com/your-org/pharmacy-dashboard/internal/infrastructure/backend"
)

// Service is a read-through over the backend's catalog and account endpoints.
// The backend owns the data; this layer exists so handlers never touch wire
// records directly and low-stock filtering lives in one place.
type Service struct {
	client *backend.Client
	audit  *audit.Service
}

// NewService creates a catalog service
func NewService(client *backend.Client, auditSvc *audit.Service) *Service {
	return &Service{client: client, audit: auditSvc}
}

// Products returns the catalog with stock levels
func (s *Service) Products(ctx context.Context) ([]backend.ProductRecord, error) {
	return s.client.ListProducts(ctx)
}

// LowStockProducts returns active products at or below their minimum level
func (s *Service) LowStockProducts(ctx context.Context) ([]backend.ProductRecord, error) {
	products, err := s.client.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	low := make([]backend.ProductRecord, 0)
	for _, p := range products {
		if p.IsActive && p.CurrentStock <= p.MinStock {
			low = append(low, p)
		}
	}
	return low, nil
}

// Branches returns the branch registry
func (s *Service) Branches(ctx context.Context) ([]backend.BranchRecord, error) {
	return s.client.ListBranches(ctx)
}

// Staff returns staff accounts
func (s *Service) Staff(ctx context.Context) ([]backend.UserRecord, error) {
	return s.client.ListUsers(ctx, "staff")
}

// Customers returns customer accounts
func (s *Service) Customers(ctx context.Context) ([]backend.UserRecord, error) {
	return s.client.ListUsers(ctx, "customer")
}

// CreateStaffRequest is the staff creation form
type CreateStaffRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	BranchID uint   `json:"branch_id" binding:"required"`
}

// CreateStaff creates a staff account on the backend
func (s *Service) CreateStaff(ctx context.Context, req *CreateStaffRequest) (*backend.UserRecord, error) {
	if strings.TrimSpace(req.FullName) == "" {
		return nil, fmt.Errorf("full name is required")
	}

	created, err := s.client.CreateUser(ctx, &backend.UserRecord{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Role:     "staff",
		BranchID: req.BranchID,
		IsActive: true,
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.ActionStaffCreate, audit.EntityStaff, created.ID, created.Email, req.FullName)
	return created, nil
}
