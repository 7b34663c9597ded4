// internal/interfaces/http/handlers/catalog.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/pharmacy-dashboard/internal/domain/catalog"
)

// CatalogHandler handles catalog and account administration endpoints
type CatalogHandler struct {
	catalogService *catalog.Service
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *catalog.Service) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

// GetProducts handles GET /catalog/products
func (h *CatalogHandler) GetProducts(c *gin.Context) {
	products, err := h.catalogService.Products(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Products retrieved successfully",
		"data":    products,
	})
}

// GetLowStockProducts handles GET /catalog/low-stock
func (h *CatalogHandler) GetLowStockProducts(c *gin.Context) {
	products, err := h.catalogService.LowStockProducts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Low stock products retrieved successfully",
		"data":    products,
	})
}

// GetBranches handles GET /catalog/branches
func (h *CatalogHandler) GetBranches(c *gin.Context) {
	branches, err := h.catalogService.Branches(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Branches retrieved successfully",
		"data":    branches,
	})
}

// GetStaff handles GET /admin/staff
func (h *CatalogHandler) GetStaff(c *gin.Context) {
	staff, err := h.catalogService.Staff(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Staff retrieved successfully",
		"data":    staff,
	})
}

// CreateStaff handles POST /admin/staff
func (h *CatalogHandler) CreateStaff(c *gin.Context) {
	var req catalog.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	created, err := h.catalogService.CreateStaff(c.Request.Context(), &req)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Staff member created successfully",
		"data":    created,
	})
}

// GetCustomers handles GET /admin/customers
func (h *CatalogHandler) GetCustomers(c *gin.Context) {
	customers, err := h.catalogService.Customers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Customers retrieved successfully",
		"data":    customers,
	})
}
