package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// FeePayer indicates who absorbs a payment method's fee
type FeePayer int

const (
	FeePayerMerchant FeePayer = 0
	FeePayerCustomer FeePayer = 1
)

func (p FeePayer) String() string {
	return [...]string{"Merchant", "Customer"}[p]
}

func (p FeePayer) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *FeePayer) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*p = FeePayer(i)
		return nil
	}
	switch str {
	case "Merchant":
		*p = FeePayerMerchant
	case "Customer":
		*p = FeePayerCustomer
	}
	return nil
}

func (p FeePayer) Value() (driver.Value, error) {
	return int64(p), nil
}

func (p *FeePayer) Scan(value interface{}) error {
	if value == nil {
		*p = FeePayerMerchant
		return nil
	}
	switch v := value.(type) {
	case int64:
		*p = FeePayer(v)
	case int:
		*p = FeePayer(v)
	}
	return nil
}
