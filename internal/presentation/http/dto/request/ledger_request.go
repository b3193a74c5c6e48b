package request

// ReassignLedgerRequest moves a ledger entry to another customer
type ReassignLedgerRequest struct {
	CustomerID string `json:"customer_id" binding:"required,uuid"`
}

// LedgerFilterRequest filters the ledger listing
type LedgerFilterRequest struct {
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
	Type       *int   `form:"type"`
	Status     *int   `form:"status"`
	CustomerID string `form:"customer_id"`
}
