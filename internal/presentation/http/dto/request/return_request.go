package request

// ReturnItemRequest is one line of a return request. UnitPrice optionally
// overrides the refund price per unit, never above the original sale price.
type ReturnItemRequest struct {
	SaleItemID string   `json:"sale_item_id" binding:"required,uuid"`
	Quantity   int      `json:"quantity" binding:"required,gt=0"`
	UnitPrice  *float64 `json:"unit_price" binding:"omitempty,gte=0"`
}

// CreateReturnRequest opens a return against a finalized sale
type CreateReturnRequest struct {
	SaleID       string              `json:"sale_id" binding:"required,uuid"`
	Items        []ReturnItemRequest `json:"items" binding:"required,min=1,dive"`
	Reason       string              `json:"reason" binding:"required"`
	RefundMethod string              `json:"refund_method" binding:"required,oneof=credit cash card pix"`
	Notes        string              `json:"notes"`
}

// RejectReturnRequest rejects a pending return, optionally with a reason
type RejectReturnRequest struct {
	Reason string `json:"reason"`
}

// ReturnFilterRequest filters the returns listing
type ReturnFilterRequest struct {
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
	Status     *int   `form:"status"`
	CustomerID string `form:"customer_id"`
	SaleID     string `form:"sale_id"`
}
