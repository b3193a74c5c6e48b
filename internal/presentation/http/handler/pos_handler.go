package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lucasferreira/retailpos-api/internal/application/service"
	"github.com/lucasferreira/retailpos-api/internal/presentation/http/dto/request"
	"github.com/lucasferreira/retailpos-api/internal/presentation/http/dto/response"
	"github.com/lucasferreira/retailpos-api/pkg/money"
)

// POSHandler handles the till: draft sale, cart mutations, payments and
// finalization. The draft is addressed by the session key header, so the
// frontend never tracks sale IDs for an open cart.
type POSHandler struct {
	cartService     *service.CartService
	paymentService  *service.PaymentService
	checkoutService *service.CheckoutService
	ledgerService   *service.LedgerService
}

// NewPOSHandler creates a new POS handler
func NewPOSHandler(
	cartService *service.CartService,
	paymentService *service.PaymentService,
	checkoutService *service.CheckoutService,
	ledgerService *service.LedgerService,
) *POSHandler {
	return &POSHandler{
		cartService:     cartService,
		paymentService:  paymentService,
		checkoutService: checkoutService,
		ledgerService:   ledgerService,
	}
}

// draftID resolves the caller's open draft, creating one if needed.
func (h *POSHandler) draftID(c *gin.Context) (uuid.UUID, bool) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return uuid.Nil, false
	}
	sale, err := h.cartService.GetOrCreateDraft(c.Request.Context(), *userID, GetSessionKey(c))
	if err != nil {
		response.Error(c, err)
		return uuid.Nil, false
	}
	return sale.ID, true
}

// GetCart returns the current draft sale
func (h *POSHandler) GetCart(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}
	sale, err := h.cartService.GetOrCreateDraft(c.Request.Context(), *userID, GetSessionKey(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	credit, err := h.ledgerService.AvailableCredit(c.Request.Context(), sale.CustomerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Cart retrieved successfully", gin.H{
		"sale":             sale,
		"available_credit": credit.Float(),
	})
}

// AddItem adds a product to the cart
func (h *POSHandler) AddItem(c *gin.Context) {
	saleID, ok := h.draftID(c)
	if !ok {
		return
	}

	var req request.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	sale, err := h.cartService.AddItem(c.Request.Context(), saleID, productID, req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Item added to cart", sale)
}

// UpdateItem changes a cart line's quantity
func (h *POSHandler) UpdateItem(c *gin.Context) {
	saleID, ok := h.draftID(c)
	if !ok {
		return
	}

	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		response.BadRequest(c, "Invalid item ID")
		return
	}
	var req request.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	sale, err := h.cartService.UpdateItem(c.Request.Context(), saleID, itemID, req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Item updated", sale)
}

// RemoveItem deletes a cart line
func (h *POSHandler) RemoveItem(c *gin.Context) {
	saleID, ok := h.draftID(c)
	if !ok {
		return
	}

	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		response.BadRequest(c, "Invalid item ID")
		return
	}

	sale, err := h.cartService.RemoveItem(c.Request.Context(), saleID, itemID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Item removed", sale)
}

// SetCustomer assigns a customer to the cart
func (h *POSHandler) SetCustomer(c *gin.Context) {
	saleID, ok := h.draftID(c)
	if !ok {
		return
	}

	var req request.SetCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	// No ID means detach back to the generic walk-in customer.
	customerID := uuid.Nil
	if req.CustomerID != "" {
		var err error
		customerID, err = uuid.Parse(req.CustomerID)
		if err != nil {
			response.BadRequest(c, "Invalid customer ID")
			return
		}
	}

	sale, err := h.cartService.SetCustomer(c.Request.Context(), saleID, customerID, h.paymentService.RemoveCreditPayments)
	if err != nil {
		response.Error(c, err)
		return
	}
	credit, err := h.ledgerService.AvailableCredit(c.Request.Context(), sale.CustomerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Customer assigned", gin.H{
		"sale":             sale,
		"available_credit": credit.Float(),
	})
}

// SetNotes updates the cart's notes
func (h *POSHandler) SetNotes(c *gin.Context) {
	saleID, ok := h.draftID(c)
	if !ok {
		return
	}

	var req request.SetNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	sale, err := h.cartService.SetNotes(c.Request.Context(), saleID, req.Notes)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Notes updated", sale)
}

// AddPayment attaches a payment to the cart
func (h *POSHandler) AddPayment(c *gin.Context) {
	saleID, ok := h.draftID(c)
	if !ok {
		return
	}

	var req request.AddPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	methodID, err := uuid.Parse(req.PaymentMethodID)
	if err != nil {
		response.BadRequest(c, "Invalid payment method ID")
		return
	}

	sale, err := h.paymentService.AddPayment(c.Request.Context(), saleID, methodID, money.FromFloat(req.Amount))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payment added", sale)
}

// RemovePayment detaches a payment from the cart
func (h *POSHandler) RemovePayment(c *gin.Context) {
	saleID, ok := h.draftID(c)
	if !ok {
		return
	}

	paymentID, err := uuid.Parse(c.Param("paymentId"))
	if err != nil {
		response.BadRequest(c, "Invalid payment ID")
		return
	}

	sale, err := h.paymentService.RemovePayment(c.Request.Context(), saleID, paymentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payment removed", sale)
}

// ApplyCredit applies the customer's store credit to the cart
func (h *POSHandler) ApplyCredit(c *gin.Context) {
	saleID, ok := h.draftID(c)
	if !ok {
		return
	}

	var req request.ApplyCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	sale, err := h.paymentService.ApplyCredit(c.Request.Context(), saleID, money.FromFloat(req.Amount))
	if err != nil {
		response.Error(c, err)
		return
	}
	credit, err := h.ledgerService.AvailableCredit(c.Request.Context(), sale.CustomerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Credit applied", gin.H{
		"sale":             sale,
		"available_credit": credit.Float(),
	})
}

// Finalize closes the cart. An under/overpaid cart without a resolution
// returns a diff outcome with HTTP 200; the frontend re-submits with one.
func (h *POSHandler) Finalize(c *gin.Context) {
	saleID, ok := h.draftID(c)
	if !ok {
		return
	}

	var req request.FinalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.checkoutService.Finalize(c.Request.Context(), saleID, req.Resolution)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Finalize processed", result)
}

// Cancel abandons the current cart
func (h *POSHandler) Cancel(c *gin.Context) {
	saleID, ok := h.draftID(c)
	if !ok {
		return
	}

	sale, err := h.cartService.Cancel(c.Request.Context(), saleID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Sale cancelled", sale)
}
