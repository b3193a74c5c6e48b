package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// SaleStatus represents the lifecycle state of a sale
type SaleStatus int

const (
	SaleStatusDraft             SaleStatus = 0
	SaleStatusFinalized         SaleStatus = 1
	SaleStatusCancelled         SaleStatus = 2
	SaleStatusPartiallyReturned SaleStatus = 3
	SaleStatusFullyReturned     SaleStatus = 4
)

func (s SaleStatus) String() string {
	return [...]string{"Draft", "Finalized", "Cancelled", "PartiallyReturned", "FullyReturned"}[s]
}

// IsReturnable reports whether items of a sale in this state may be returned.
func (s SaleStatus) IsReturnable() bool {
	return s == SaleStatusFinalized || s == SaleStatusPartiallyReturned
}

func (s SaleStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *SaleStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		// Try unmarshaling as int
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = SaleStatus(i)
		return nil
	}
	switch str {
	case "Draft":
		*s = SaleStatusDraft
	case "Finalized":
		*s = SaleStatusFinalized
	case "Cancelled":
		*s = SaleStatusCancelled
	case "PartiallyReturned":
		*s = SaleStatusPartiallyReturned
	case "FullyReturned":
		*s = SaleStatusFullyReturned
	}
	return nil
}

func (s SaleStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *SaleStatus) Scan(value interface{}) error {
	if value == nil {
		*s = SaleStatusDraft
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = SaleStatus(v)
	case int:
		*s = SaleStatus(v)
	}
	return nil
}
