package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lucasferreira/retailpos-api/internal/application/service"
	"github.com/lucasferreira/retailpos-api/internal/domain/enum"
	"github.com/lucasferreira/retailpos-api/internal/domain/repository"
	"github.com/lucasferreira/retailpos-api/internal/presentation/http/dto/request"
	"github.com/lucasferreira/retailpos-api/internal/presentation/http/dto/response"
	"github.com/lucasferreira/retailpos-api/pkg/money"
	"github.com/lucasferreira/retailpos-api/pkg/pagination"
)

// ReturnHandler handles return workflow HTTP requests
type ReturnHandler struct {
	returnService *service.ReturnService
}

// NewReturnHandler creates a new return handler
func NewReturnHandler(returnService *service.ReturnService) *ReturnHandler {
	return &ReturnHandler{returnService: returnService}
}

// Create handles opening a return against a finalized sale
func (h *ReturnHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CreateReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	saleID, err := uuid.Parse(req.SaleID)
	if err != nil {
		response.BadRequest(c, "Invalid sale ID")
		return
	}
	refundMethod, err := enum.ParseRefundMethod(req.RefundMethod)
	if err != nil {
		response.BadRequest(c, "Invalid refund method")
		return
	}

	items := make([]service.ReturnItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		saleItemID, err := uuid.Parse(item.SaleItemID)
		if err != nil {
			response.BadRequest(c, "Invalid sale item ID")
			return
		}
		input := service.ReturnItemInput{
			SaleItemID: saleItemID,
			Quantity:   item.Quantity,
		}
		if item.UnitPrice != nil {
			price := money.FromFloat(*item.UnitPrice)
			input.UnitPrice = &price
		}
		items = append(items, input)
	}

	ret, err := h.returnService.Create(c.Request.Context(), *userID, saleID, items, req.Reason, refundMethod, req.Notes)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Return created successfully", ret)
}

// List handles listing returns
func (h *ReturnHandler) List(c *gin.Context) {
	var filter request.ReturnFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.ReturnFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
	}
	params.Pagination.Validate()

	if filter.Status != nil {
		status := enum.ReturnStatus(*filter.Status)
		params.Status = &status
	}
	if filter.CustomerID != "" {
		if customerID, err := uuid.Parse(filter.CustomerID); err == nil {
			params.CustomerID = &customerID
		}
	}
	if filter.SaleID != "" {
		if saleID, err := uuid.Parse(filter.SaleID); err == nil {
			params.SaleID = &saleID
		}
	}

	returns, total, err := h.returnService.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	result := pagination.NewPaginatedResult(returns,
		pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total))
	response.SuccessWithPagination(c, 200, "Returns retrieved successfully", result)
}

// Get handles retrieving one return
func (h *ReturnHandler) Get(c *gin.Context) {
	returnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid return ID")
		return
	}

	ret, err := h.returnService.GetByID(c.Request.Context(), returnID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Return retrieved successfully", ret)
}

// Approve handles approving a pending return
func (h *ReturnHandler) Approve(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}
	returnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid return ID")
		return
	}

	ret, err := h.returnService.Approve(c.Request.Context(), returnID, *userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Return approved", ret)
}

// Reject handles rejecting a pending return
func (h *ReturnHandler) Reject(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}
	returnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid return ID")
		return
	}

	var req request.RejectReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		response.BadRequest(c, "Invalid request body")
		return
	}

	ret, err := h.returnService.Reject(c.Request.Context(), returnID, *userID, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Return rejected", ret)
}

// Complete handles completing an approved return
func (h *ReturnHandler) Complete(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}
	returnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid return ID")
		return
	}

	ret, err := h.returnService.Complete(c.Request.Context(), returnID, *userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Return completed", ret)
}
