package request

// AddItemRequest adds a product to the draft sale
type AddItemRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

// UpdateItemRequest changes a line's quantity; zero removes the line
type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"gte=0"`
}

// AddPaymentRequest attaches a payment to the draft sale. Amount is in
// currency units; for cash methods it is the amount tendered.
type AddPaymentRequest struct {
	PaymentMethodID string  `json:"payment_method_id" binding:"required,uuid"`
	Amount          float64 `json:"amount" binding:"required,gt=0"`
}

// ApplyCreditRequest applies the customer's store credit to the draft sale.
// Amount zero or omitted means "as much as possible".
type ApplyCreditRequest struct {
	Amount float64 `json:"amount" binding:"gte=0"`
}

// SetCustomerRequest assigns a customer to the draft sale. An absent or empty
// ID resets the cart to the generic walk-in customer.
type SetCustomerRequest struct {
	CustomerID string `json:"customer_id" binding:"omitempty,uuid"`
}

// SetNotesRequest updates the draft sale's notes
type SetNotesRequest struct {
	Notes string `json:"notes"`
}

// FinalizeRequest closes the draft sale, optionally carrying the resolution
// for a payment mismatch
type FinalizeRequest struct {
	Resolution string `json:"resolution" binding:"omitempty,oneof=apply_discount generate_debit generate_credit"`
}

// SaleFilterRequest filters the sales history listing
type SaleFilterRequest struct {
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
	Status     *int   `form:"status"`
	CustomerID string `form:"customer_id"`
	StartDate  string `form:"start_date"`
	EndDate    string `form:"end_date"`
}
