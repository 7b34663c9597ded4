// internal/interfaces/http/handlers/transfer.go
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/pharmacy-dashboard/internal/domain/transfer"
	"github.com/your-org/pharmacy-dashboard/internal/infrastructure/backend"
	"github.com/your-org/pharmacy-dashboard/internal/pkg/pdf"
)

// TransferHandler handles transfer workflow endpoints
type TransferHandler struct {
	transferService *transfer.Service
	pdfService      *pdf.Service
}

// NewTransferHandler creates a new transfer handler
func NewTransferHandler(transferService *transfer.Service, pdfService *pdf.Service) *TransferHandler {
	return &TransferHandler{
		transferService: transferService,
		pdfService:      pdfService,
	}
}

// transitionRequest carries the UI's confirmation for a guarded transition
type transitionRequest struct {
	Confirmed bool `json:"confirmed"`
}

// cancelRequest carries the mandatory cancellation reason
type cancelRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// confirmGuard adapts the UI's confirmation flag to the workflow guard
func confirmGuard(confirmed bool) transfer.Confirm {
	return func(ctx context.Context) (bool, error) {
		return confirmed, nil
	}
}

// GetTransfers handles GET /transfers. The list fails soft: when a reload
// fails the previous data is returned with a stale marker instead of an empty
// list masquerading as "zero transfers".
func (h *TransferHandler) GetTransfers(c *gin.Context) {
	err := h.transferService.Reload(c.Request.Context())
	requests, loaded := h.transferService.Cached()

	if err != nil {
		if !loaded {
			c.JSON(http.StatusBadGateway, gin.H{
				"error": "Failed to load transfers",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Transfers retrieved from cache",
			"data":    requests,
			"stale":   true,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Transfers retrieved successfully",
		"data":    requests,
	})
}

// GetTransfer handles GET /transfers/:id
func (h *TransferHandler) GetTransfer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	request, err := h.transferService.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Transfer retrieved successfully",
		"data":    request,
	})
}

// CreateTransfer handles POST /transfers
func (h *TransferHandler) CreateTransfer(c *gin.Context) {
	var req transfer.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	created, err := h.transferService.Create(c.Request.Context(), &req)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Transfer created successfully",
		"data":    created,
	})
}

// PreviewTransfer handles GET /transfers/:id/preview
func (h *TransferHandler) PreviewTransfer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	preview, err := h.transferService.PreviewFor(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Allocation preview computed successfully",
		"data":    preview,
	})
}

// ApproveTransfer handles POST /transfers/:id/approve
func (h *TransferHandler) ApproveTransfer(c *gin.Context) {
	h.transition(c, h.transferService.ApproveFull, "Transfer approved successfully")
}

// SplitApproveTransfer handles POST /transfers/:id/split-approve
func (h *TransferHandler) SplitApproveTransfer(c *gin.Context) {
	h.transition(c, h.transferService.SplitAndApprove, "Transfer approved with follow-ups")
}

// ShipTransfer handles POST /transfers/:id/ship
func (h *TransferHandler) ShipTransfer(c *gin.Context) {
	h.transition(c, h.transferService.Ship, "Transfer shipped successfully")
}

// ReceiveTransfer handles POST /transfers/:id/receive
func (h *TransferHandler) ReceiveTransfer(c *gin.Context) {
	h.transition(c, h.transferService.Receive, "Transfer completed successfully")
}

func (h *TransferHandler) transition(c *gin.Context, op func(context.Context, uint, transfer.Confirm) error, message string) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	req := transitionRequest{Confirmed: true}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid request data",
			})
			return
		}
	}

	if err := op(c.Request.Context(), id, confirmGuard(req.Confirmed)); err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": message,
	})
}

// CancelTransfer handles POST /transfers/:id/cancel
func (h *TransferHandler) CancelTransfer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req cancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "A cancellation reason is required",
		})
		return
	}

	if err := h.transferService.Reject(c.Request.Context(), id, req.Reason); err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Transfer cancelled successfully",
	})
}

// GetTransferManifest handles GET /transfers/:id/manifest
func (h *TransferHandler) GetTransferManifest(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	request, err := h.transferService.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	}

	preview, err := h.transferService.PreviewFor(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": err.Error(),
		})
		return
	}

	document, err := h.pdfService.GenerateTransferManifest(request, preview)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate manifest",
		})
		return
	}

	c.Header("Content-Disposition", "attachment; filename=manifest-"+request.Code+".pdf")
	c.Data(http.StatusOK, "application/pdf", document.Bytes())
}

// parseID extracts the numeric :id parameter
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid ID",
		})
		return 0, false
	}
	return uint(id), true
}

// respondWorkflowError maps workflow errors onto HTTP statuses: declined
// guards are conflicts, backend rejections are bad gateways carrying the
// upstream message, everything else is a bad request.
func respondWorkflowError(c *gin.Context, err error) {
	if errors.Is(err, transfer.ErrAborted) {
		c.JSON(http.StatusConflict, gin.H{
			"error": err.Error(),
		})
		return
	}
	if apiErr, ok := backend.IsAPIError(err); ok {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": apiErr.Error(),
		})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{
		"error": err.Error(),
	})
}
