package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// RefundMethod is how money goes back to the customer on a completed return
type RefundMethod int

const (
	RefundMethodCredit RefundMethod = 0
	RefundMethodCash   RefundMethod = 1
	RefundMethodCard   RefundMethod = 2
	RefundMethodPix    RefundMethod = 3
)

func (m RefundMethod) String() string {
	return [...]string{"Credit", "Cash", "Card", "PIX"}[m]
}

// IsImmediate reports whether the refund leaves the store at completion time.
// Store credit stays on the ledger as an open entry instead.
func (m RefundMethod) IsImmediate() bool {
	return m != RefundMethodCredit
}

// ParseRefundMethod converts a case-insensitive method name to its enum value
func ParseRefundMethod(s string) (RefundMethod, error) {
	switch strings.ToLower(s) {
	case "credit":
		return RefundMethodCredit, nil
	case "cash":
		return RefundMethodCash, nil
	case "card":
		return RefundMethodCard, nil
	case "pix":
		return RefundMethodPix, nil
	}
	return RefundMethodCredit, fmt.Errorf("unknown refund method %q", s)
}

func (m RefundMethod) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *RefundMethod) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*m = RefundMethod(i)
		return nil
	}
	switch str {
	case "Credit":
		*m = RefundMethodCredit
	case "Cash":
		*m = RefundMethodCash
	case "Card":
		*m = RefundMethodCard
	case "PIX":
		*m = RefundMethodPix
	}
	return nil
}

func (m RefundMethod) Value() (driver.Value, error) {
	return int64(m), nil
}

func (m *RefundMethod) Scan(value interface{}) error {
	if value == nil {
		*m = RefundMethodCredit
		return nil
	}
	switch v := value.(type) {
	case int64:
		*m = RefundMethod(v)
	case int:
		*m = RefundMethod(v)
	}
	return nil
}
