package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lucasferreira/retailpos-api/internal/application/service"
	"github.com/lucasferreira/retailpos-api/internal/domain/enum"
	"github.com/lucasferreira/retailpos-api/internal/presentation/http/dto/request"
	"github.com/lucasferreira/retailpos-api/internal/presentation/http/dto/response"
)

// PaymentMethodHandler handles payment method HTTP requests
type PaymentMethodHandler struct {
	methodService *service.PaymentMethodService
}

// NewPaymentMethodHandler creates a new payment method handler
func NewPaymentMethodHandler(methodService *service.PaymentMethodService) *PaymentMethodHandler {
	return &PaymentMethodHandler{methodService: methodService}
}

// Create handles registering a payment method
func (h *PaymentMethodHandler) Create(c *gin.Context) {
	var req request.CreatePaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	feePayer := enum.FeePayerMerchant
	if req.FeePayer == "customer" {
		feePayer = enum.FeePayerCustomer
	}

	method, err := h.methodService.Create(c.Request.Context(), service.CreatePaymentMethodInput{
		Name:          req.Name,
		Description:   req.Description,
		FeePercentage: req.FeePercentage,
		FeePayer:      feePayer,
		IsCash:        req.IsCash,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Payment method created successfully", method)
}

// List handles listing the selectable payment methods
func (h *PaymentMethodHandler) List(c *gin.Context) {
	methods, err := h.methodService.ListActive(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payment methods retrieved successfully", methods)
}

// Get handles retrieving one payment method
func (h *PaymentMethodHandler) Get(c *gin.Context) {
	methodID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid payment method ID")
		return
	}

	method, err := h.methodService.GetByID(c.Request.Context(), methodID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payment method retrieved successfully", method)
}
