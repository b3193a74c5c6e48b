package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lucasferreira/retailpos-api/internal/application/service"
	"github.com/lucasferreira/retailpos-api/internal/domain/enum"
	"github.com/lucasferreira/retailpos-api/internal/domain/repository"
	"github.com/lucasferreira/retailpos-api/internal/presentation/http/dto/request"
	"github.com/lucasferreira/retailpos-api/internal/presentation/http/dto/response"
	"github.com/lucasferreira/retailpos-api/pkg/pagination"
)

// LedgerHandler handles customer credit ledger HTTP requests
type LedgerHandler struct {
	ledgerService *service.LedgerService
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(ledgerService *service.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

// List handles listing ledger entries
func (h *LedgerHandler) List(c *gin.Context) {
	var filter request.LedgerFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.LedgerFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
	}
	params.Pagination.Validate()

	if filter.Type != nil {
		entryType := enum.LedgerType(*filter.Type)
		params.Type = &entryType
	}
	if filter.Status != nil {
		status := enum.LedgerStatus(*filter.Status)
		params.Status = &status
	}
	if filter.CustomerID != "" {
		if customerID, err := uuid.Parse(filter.CustomerID); err == nil {
			params.CustomerID = &customerID
		}
	}

	entries, total, err := h.ledgerService.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	result := pagination.NewPaginatedResult(entries,
		pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total))
	response.SuccessWithPagination(c, 200, "Ledger entries retrieved successfully", result)
}

// Get handles retrieving one ledger entry
func (h *LedgerHandler) Get(c *gin.Context) {
	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid ledger entry ID")
		return
	}

	entry, err := h.ledgerService.GetByID(c.Request.Context(), entryID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Ledger entry retrieved successfully", entry)
}

// Balance handles retrieving a customer's available credit
func (h *LedgerHandler) Balance(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("customerId"))
	if err != nil {
		response.BadRequest(c, "Invalid customer ID")
		return
	}

	credit, err := h.ledgerService.AvailableCredit(c.Request.Context(), customerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Available credit retrieved successfully", gin.H{
		"customer_id":      customerID,
		"available_credit": credit.Float(),
	})
}

// Reassign handles moving a ledger entry to another customer
func (h *LedgerHandler) Reassign(c *gin.Context) {
	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid ledger entry ID")
		return
	}

	var req request.ReassignLedgerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		response.BadRequest(c, "Invalid customer ID")
		return
	}

	entry, err := h.ledgerService.Reassign(c.Request.Context(), entryID, customerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Ledger entry reassigned", entry)
}

// Cancel handles voiding an open ledger entry
func (h *LedgerHandler) Cancel(c *gin.Context) {
	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid ledger entry ID")
		return
	}

	entry, err := h.ledgerService.Cancel(c.Request.Context(), entryID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Ledger entry cancelled", entry)
}
