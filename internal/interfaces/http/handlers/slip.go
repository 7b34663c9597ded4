// internal/interfaces/http/handlers/slip.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/pharmacy-dashboard/internal/domain/slip"
	"github.com/your-org/pharmacy-dashboard/internal/pkg/pdf"
)

// SlipHandler handles stock-slip workflow endpoints
type SlipHandler struct {
	slipService *slip.Service
	pdfService  *pdf.Service
}

// NewSlipHandler creates a new slip handler
func NewSlipHandler(slipService *slip.Service, pdfService *pdf.Service) *SlipHandler {
	return &SlipHandler{
		slipService: slipService,
		pdfService:  pdfService,
	}
}

// GetSlips handles GET /stock-slips
func (h *SlipHandler) GetSlips(c *gin.Context) {
	slips, err := h.slipService.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Stock slips retrieved successfully",
		"data":    slips,
	})
}

// CreateSlip handles POST /stock-slips. The body is a full draft; validation
// failures never reach the backend.
func (h *SlipHandler) CreateSlip(c *gin.Context) {
	var draft slip.Draft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	created, err := h.slipService.Submit(c.Request.Context(), &draft)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Stock slip created successfully",
		"data":    created,
	})
}

// AutoFillSlip handles POST /stock-slips/autofill
func (h *SlipHandler) AutoFillSlip(c *gin.Context) {
	suggestions, err := h.slipService.AutoFill(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Auto-fill suggestions computed successfully",
		"data":    suggestions,
	})
}

// receiveSlipRequest is the receiving-step payload
type receiveSlipRequest struct {
	Type    slip.Type          `json:"type" binding:"required"`
	Actuals []slip.ActualInput `json:"actuals"`
}

// ReceiveSlip handles POST /stock-slips/:id/receive
func (h *SlipHandler) ReceiveSlip(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req receiveSlipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if err := h.slipService.Receive(c.Request.Context(), req.Type, id, req.Actuals); err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Stock slip completed successfully",
	})
}

// cancelSlipRequest is the cancellation payload
type cancelSlipRequest struct {
	Type   slip.Type `json:"type" binding:"required"`
	Reason string    `json:"reason" binding:"required"`
}

// CancelSlip handles POST /stock-slips/:id/cancel
func (h *SlipHandler) CancelSlip(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req cancelSlipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "A slip type and cancellation reason are required",
		})
		return
	}

	if err := h.slipService.Cancel(c.Request.Context(), req.Type, id, req.Reason); err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Stock slip cancelled successfully",
	})
}

// GetSlipDocument handles GET /stock-slips/:id/document?type=IMPORT
func (h *SlipHandler) GetSlipDocument(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	slipType := slip.Type(c.DefaultQuery("type", string(slip.TypeImport)))
	target, err := h.slipService.Get(c.Request.Context(), slipType, id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	}

	document, err := h.pdfService.GenerateSlipDocument(target)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate slip document",
		})
		return
	}

	c.Header("Content-Disposition", "attachment; filename=slip-"+target.Code+".pdf")
	c.Data(http.StatusOK, "application/pdf", document.Bytes())
}
