package request

// CreateProductRequest registers a product. Prices are in currency units.
type CreateProductRequest struct {
	Name         string  `json:"name" binding:"required,min=1,max=255"`
	Code         string  `json:"code" binding:"required,min=1,max=100"`
	Quantity     int     `json:"quantity" binding:"gte=0"`
	CostPrice    float64 `json:"cost_price" binding:"gte=0"`
	SellingPrice float64 `json:"selling_price" binding:"required,gt=0"`
}

// RestockRequest adds units to a product's stock
type RestockRequest struct {
	Amount int `json:"amount" binding:"required,gt=0"`
}

// ProductFilterRequest filters the product listing
type ProductFilterRequest struct {
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
	Search  string `form:"search"`
}

// CreateCustomerRequest registers a customer
type CreateCustomerRequest struct {
	FullName string  `json:"full_name" binding:"required,min=1,max=255"`
	Phone    string  `json:"phone" binding:"required,min=8,max=20"`
	Email    *string `json:"email" binding:"omitempty,email"`
}

// CustomerFilterRequest filters the customer listing
type CustomerFilterRequest struct {
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
	Search  string `form:"search"`
}

// CreatePaymentMethodRequest registers a payment method. FeePercentage is a
// percentage (5 means 5%); FeePayer is "merchant" or "customer".
type CreatePaymentMethodRequest struct {
	Name          string  `json:"name" binding:"required,min=1,max=100"`
	Description   *string `json:"description"`
	FeePercentage float64 `json:"fee_percentage" binding:"gte=0,lte=100"`
	FeePayer      string  `json:"fee_payer" binding:"omitempty,oneof=merchant customer"`
	IsCash        bool    `json:"is_cash"`
}
