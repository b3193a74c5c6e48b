package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// ReturnStatus represents the lifecycle state of a return
type ReturnStatus int

const (
	ReturnStatusPending   ReturnStatus = 0
	ReturnStatusApproved  ReturnStatus = 1
	ReturnStatusRejected  ReturnStatus = 2
	ReturnStatusCompleted ReturnStatus = 3
)

func (s ReturnStatus) String() string {
	return [...]string{"Pending", "Approved", "Rejected", "Completed"}[s]
}

// CanTransitionTo enforces the return state machine:
// Pending -> Approved | Rejected, Approved -> Completed.
func (s ReturnStatus) CanTransitionTo(next ReturnStatus) bool {
	switch s {
	case ReturnStatusPending:
		return next == ReturnStatusApproved || next == ReturnStatusRejected
	case ReturnStatusApproved:
		return next == ReturnStatusCompleted
	default:
		return false
	}
}

// CountsAgainstReturnable reports whether return items in this state reduce
// the quantity still available for returning.
func (s ReturnStatus) CountsAgainstReturnable() bool {
	return s == ReturnStatusApproved || s == ReturnStatusCompleted
}

func (s ReturnStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *ReturnStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = ReturnStatus(i)
		return nil
	}
	switch str {
	case "Pending":
		*s = ReturnStatusPending
	case "Approved":
		*s = ReturnStatusApproved
	case "Rejected":
		*s = ReturnStatusRejected
	case "Completed":
		*s = ReturnStatusCompleted
	}
	return nil
}

func (s ReturnStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *ReturnStatus) Scan(value interface{}) error {
	if value == nil {
		*s = ReturnStatusPending
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = ReturnStatus(v)
	case int:
		*s = ReturnStatus(v)
	}
	return nil
}
