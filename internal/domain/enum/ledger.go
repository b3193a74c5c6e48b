package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// LedgerType distinguishes credit from debit entries
type LedgerType int

const (
	LedgerTypeCredit LedgerType = 0
	LedgerTypeDebit  LedgerType = 1
)

func (t LedgerType) String() string {
	return [...]string{"Credit", "Debit"}[t]
}

func (t LedgerType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *LedgerType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = LedgerType(i)
		return nil
	}
	switch str {
	case "Credit":
		*t = LedgerTypeCredit
	case "Debit":
		*t = LedgerTypeDebit
	}
	return nil
}

func (t LedgerType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *LedgerType) Scan(value interface{}) error {
	if value == nil {
		*t = LedgerTypeCredit
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = LedgerType(v)
	case int:
		*t = LedgerType(v)
	}
	return nil
}

// LedgerStatus represents the settlement state of a ledger entry
type LedgerStatus int

const (
	LedgerStatusOpen      LedgerStatus = 0
	LedgerStatusSettled   LedgerStatus = 1
	LedgerStatusCancelled LedgerStatus = 2
)

func (s LedgerStatus) String() string {
	return [...]string{"Open", "Settled", "Cancelled"}[s]
}

func (s LedgerStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *LedgerStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = LedgerStatus(i)
		return nil
	}
	switch str {
	case "Open":
		*s = LedgerStatusOpen
	case "Settled":
		*s = LedgerStatusSettled
	case "Cancelled":
		*s = LedgerStatusCancelled
	}
	return nil
}

func (s LedgerStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *LedgerStatus) Scan(value interface{}) error {
	if value == nil {
		*s = LedgerStatusOpen
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = LedgerStatus(v)
	case int:
		*s = LedgerStatus(v)
	}
	return nil
}
