// internal/domain/transfer/service.go
package transfer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/your-org/pharmacy-dashboard/internal/domain/audit"
	"github.com/your-org/pharmacy-dashboard/internal/infrastructure/backend"
)

// ErrAborted is returned when a confirmation guard declines a transition
// before any backend call is made.
var ErrAborted = errors.New("action aborted before execution")

// Confirm is an asynchronous confirmation gate. Transitions that receive a
// non-nil guard run it first and abandon the transition when it resolves
// false. The HTTP layer adapts the UI's confirmation flag to this.
type Confirm func(ctx context.Context) (bool, error)

// ShortageNotifier is told when a preview exposes missing stock. Best effort;
// failures never reach the workflow.
type ShortageNotifier interface {
	NotifyShortage(req *Request, preview *Preview)
}

// Service is the transfer workflow engine: it caches the normalized transfer
// list, produces allocation previews and drives transfers through the state
// machine by calling the backend's transition endpoints.
//
// Consistency model: no optimistic updates. Local state changes only by a full
// reload after a confirmed successful backend call. Nothing guards a transfer
// between preview and transition; approvals therefore recompute the allocation
// immediately before committing, but a concurrent actor changing stock between
// that recomputation and the backend call remains possible (the backend offers
// no version token to close the window).
type Service struct {
	client    *backend.Client
	previewer *Previewer
	audit     *audit.Service
	notifier  ShortageNotifier
	logger    *logrus.Logger

	mu       sync.RWMutex
	requests []Request
	loaded   bool
}

// NewService creates the transfer workflow service
func NewService(client *backend.Client, previewer *Previewer, auditSvc *audit.Service, logger *logrus.Logger) *Service {
	return &Service{
		client:    client,
		previewer: previewer,
		audit:     auditSvc,
		logger:    logger,
	}
}

// SetNotifier installs the shortage notifier
func (s *Service) SetNotifier(n ShortageNotifier) {
	s.notifier = n
}

// Reload replaces the in-memory list wholesale from the backend. On failure
// the previous list is kept and the error returned, so callers can distinguish
// "stale data" from "zero transfers".
func (s *Service) Reload(ctx context.Context) error {
	records, err := s.client.ListTransfers(ctx)
	if err != nil {
		return fmt.Errorf("failed to load transfers: %w", err)
	}

	requests := make([]Request, 0, len(records))
	for _, rec := range records {
		req, recognized := fromRecord(rec)
		if !recognized {
			s.logger.WithFields(logrus.Fields{
				"transfer_id": rec.ID,
				"status":      rec.Status,
			}).Warn("Unknown transfer status from backend, treating as cancelled")
		}
		requests = append(requests, req)
	}

	s.mu.Lock()
	s.requests = requests
	s.loaded = true
	s.mu.Unlock()

	return nil
}

// Cached returns the current in-memory list without touching the backend.
// The second return value reports whether a load ever succeeded, so callers
// can tell "no transfers" apart from "never loaded".
func (s *Service) Cached() ([]Request, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out, s.loaded
}

// Get returns one transfer by ID, reloading once if it is not cached
func (s *Service) Get(ctx context.Context, id uint) (*Request, error) {
	if req := s.lookup(id); req != nil {
		return req, nil
	}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	if req := s.lookup(id); req != nil {
		return req, nil
	}
	return nil, fmt.Errorf("transfer %d not found", id)
}

func (s *Service) lookup(id uint) *Request {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.requests {
		if s.requests[i].ID == id {
			req := s.requests[i]
			return &req
		}
	}
	return nil
}

// PreviewFor computes a fresh FEFO allocation preview for a transfer
func (s *Service) PreviewFor(ctx context.Context, id uint) (*Preview, error) {
	req, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	preview := s.previewer.Preview(ctx, req)

	if preview.HasShortage() && s.notifier != nil {
		go s.notifier.NotifyShortage(req, preview)
	}

	return preview, nil
}

// CreateRequest is the dashboard's bulk transfer creation form
type CreateRequest struct {
	SourceBranchID uint              `json:"source_branch_id" binding:"required"`
	TargetBranchID uint              `json:"target_branch_id" binding:"required"`
	Notes          string            `json:"notes"`
	Items          []CreateItemInput `json:"items" binding:"required,min=1,dive"`
}

// CreateItemInput is one line of a transfer creation form
type CreateItemInput struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,gt=0"`
}

// Create submits a new multi-product transfer request
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*Request, error) {
	if req.SourceBranchID == req.TargetBranchID {
		return nil, fmt.Errorf("source and target branch must differ")
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("quantity for product %d must be positive", item.ProductID)
		}
	}

	payload := &backend.CreateTransferRequest{
		FromBranchID: req.SourceBranchID,
		ToBranchID:   req.TargetBranchID,
		Notes:        req.Notes,
		Items:        make([]backend.CreateTransferItem, 0, len(req.Items)),
	}
	for _, item := range req.Items {
		payload.Items = append(payload.Items, backend.CreateTransferItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	rec, err := s.client.CreateTransfer(ctx, payload)
	if err != nil {
		return nil, err
	}

	created, _ := fromRecord(*rec)
	s.audit.Record(ctx, audit.ActionTransferCreate, audit.EntityTransfer, created.ID, created.Code,
		fmt.Sprintf("%d items to branch %d", len(req.Items), req.TargetBranchID))

	if err := s.Reload(ctx); err != nil {
		s.logger.WithError(err).Warn("Reload after transfer creation failed")
	}
	return &created, nil
}

// guard checks the transition table and runs the confirmation gate. It is the
// single choke point every transition goes through.
func (s *Service) guard(ctx context.Context, req *Request, target Status, confirm Confirm) error {
	if req.Status.IsTerminal() {
		return fmt.Errorf("transfer %s is %s and can no longer change", req.Code, req.Status)
	}
	if !req.Status.CanTransitionTo(target) {
		return fmt.Errorf("invalid status transition from %s to %s", req.Status, target)
	}
	if confirm != nil {
		ok, err := confirm(ctx)
		if err != nil {
			return fmt.Errorf("confirmation failed: %w", err)
		}
		if !ok {
			return ErrAborted
		}
	}
	return nil
}

// ApproveFull approves a pending transfer whose preview shows no shortage.
// The allocation is recomputed here so the decision is never made against a
// preview older than this call.
func (s *Service) ApproveFull(ctx context.Context, id uint, confirm Confirm) error {
	req, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	preview := s.previewer.Preview(ctx, req)
	if preview.HasShortage() {
		return fmt.Errorf("transfer %s has unallocatable quantities; use split approval", req.Code)
	}

	if err := s.guard(ctx, req, StatusApproved, confirm); err != nil {
		return err
	}

	if err := s.client.ApproveTransfer(ctx, id); err != nil {
		return err
	}

	s.audit.Record(ctx, audit.ActionTransferApprove, audit.EntityTransfer, id, req.Code, "full approval")
	return s.Reload(ctx)
}

// SplitAndApprove approves a pending transfer for the quantities actually
// allocatable and creates one single-product follow-up transfer per short
// item, each carrying that item's missing quantity and referencing the origin
// by code.
func (s *Service) SplitAndApprove(ctx context.Context, id uint, confirm Confirm) error {
	req, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	preview := s.previewer.Preview(ctx, req)
	short := preview.ShortItems()
	if len(short) == 0 {
		return fmt.Errorf("transfer %s has no shortage; use full approval", req.Code)
	}

	if err := s.guard(ctx, req, StatusApproved, confirm); err != nil {
		return err
	}

	if err := s.client.ApproveTransfer(ctx, id); err != nil {
		return err
	}

	// The backend only accepts single-product creation on this path, so the
	// follow-ups go out one call per short item.
	var failed []string
	for _, item := range short {
		_, err := s.client.CreateSingleTransfer(ctx, &backend.CreateSingleTransferRequest{
			FromBranchID: req.SourceBranchID,
			ToBranchID:   req.TargetBranchID,
			ProductID:    item.ProductID,
			Quantity:     item.MissingQty,
			Note:         fmt.Sprintf("Follow-up for %s", req.Code),
		})
		if err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"transfer_code": req.Code,
				"product_id":    item.ProductID,
			}).Error("Follow-up transfer creation failed")
			failed = append(failed, item.ProductName)
		}
	}

	s.audit.Record(ctx, audit.ActionTransferSplitApprove, audit.EntityTransfer, id, req.Code,
		fmt.Sprintf("approved with %d follow-up transfer(s)", len(short)))

	if err := s.Reload(ctx); err != nil {
		s.logger.WithError(err).Warn("Reload after split approval failed")
	}

	if len(failed) > 0 {
		return fmt.Errorf("approved, but follow-up creation failed for: %s", strings.Join(failed, ", "))
	}
	return nil
}

// Ship moves an approved transfer to shipped
func (s *Service) Ship(ctx context.Context, id uint, confirm Confirm) error {
	return s.transition(ctx, id, StatusShipped, confirm, audit.ActionTransferShip, s.client.ShipTransfer)
}

// Receive moves a shipped transfer to completed
func (s *Service) Receive(ctx context.Context, id uint, confirm Confirm) error {
	return s.transition(ctx, id, StatusCompleted, confirm, audit.ActionTransferReceive, s.client.ReceiveTransfer)
}

func (s *Service) transition(ctx context.Context, id uint, target Status, confirm Confirm, action string, call func(context.Context, uint) error) error {
	req, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.guard(ctx, req, target, confirm); err != nil {
		return err
	}
	if err := call(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, action, audit.EntityTransfer, id, req.Code, string(target))
	return s.Reload(ctx)
}

// Reject cancels a non-terminal transfer. The reason is mandatory; an empty
// reason aborts before any backend call.
func (s *Service) Reject(ctx context.Context, id uint, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return fmt.Errorf("a cancellation reason is required: %w", ErrAborted)
	}

	req, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.guard(ctx, req, StatusCancelled, nil); err != nil {
		return err
	}

	if err := s.client.CancelTransfer(ctx, id, reason); err != nil {
		return err
	}

	s.audit.Record(ctx, audit.ActionTransferCancel, audit.EntityTransfer, id, req.Code, reason)
	return s.Reload(ctx)
}
