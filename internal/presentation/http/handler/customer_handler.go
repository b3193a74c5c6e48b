package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lucasferreira/retailpos-api/internal/application/service"
	"github.com/lucasferreira/retailpos-api/internal/domain/repository"
	"github.com/lucasferreira/retailpos-api/internal/presentation/http/dto/request"
	"github.com/lucasferreira/retailpos-api/internal/presentation/http/dto/response"
	"github.com/lucasferreira/retailpos-api/pkg/pagination"
)

// CustomerHandler handles customer HTTP requests
type CustomerHandler struct {
	customerService *service.CustomerService
	ledgerService   *service.LedgerService
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService *service.CustomerService, ledgerService *service.LedgerService) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		ledgerService:   ledgerService,
	}
}

// Create handles registering a customer
func (h *CustomerHandler) Create(c *gin.Context) {
	var req request.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	customer, err := h.customerService.Create(c.Request.Context(), service.CreateCustomerInput{
		FullName: req.FullName,
		Phone:    req.Phone,
		Email:    req.Email,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Customer created successfully", customer)
}

// List handles listing customers
func (h *CustomerHandler) List(c *gin.Context) {
	var filter request.CustomerFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.CustomerFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Search: filter.Search,
	}
	params.Pagination.Validate()

	customers, total, err := h.customerService.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	result := pagination.NewPaginatedResult(customers,
		pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total))
	response.SuccessWithPagination(c, 200, "Customers retrieved successfully", result)
}

// Get handles retrieving one customer with their available credit
func (h *CustomerHandler) Get(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid customer ID")
		return
	}

	customer, err := h.customerService.GetByID(c.Request.Context(), customerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	credit, err := h.ledgerService.AvailableCredit(c.Request.Context(), customer.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer retrieved successfully", gin.H{
		"customer":         customer,
		"available_credit": credit.Float(),
	})
}
