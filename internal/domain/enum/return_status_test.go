package enum

import "testing"

func TestReturnStatusTransitions(t *testing.T) {
	tests := []struct {
		from ReturnStatus
		to   ReturnStatus
		want bool
	}{
		{ReturnStatusPending, ReturnStatusApproved, true},
		{ReturnStatusPending, ReturnStatusRejected, true},
		{ReturnStatusPending, ReturnStatusCompleted, false},
		{ReturnStatusApproved, ReturnStatusCompleted, true},
		{ReturnStatusApproved, ReturnStatusRejected, false},
		{ReturnStatusRejected, ReturnStatusApproved, false},
		{ReturnStatusCompleted, ReturnStatusPending, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestCountsAgainstReturnable(t *testing.T) {
	if ReturnStatusPending.CountsAgainstReturnable() {
		t.Error("pending returns must not reserve quantity")
	}
	if ReturnStatusRejected.CountsAgainstReturnable() {
		t.Error("rejected returns must not reserve quantity")
	}
	if !ReturnStatusApproved.CountsAgainstReturnable() {
		t.Error("approved returns reserve quantity")
	}
	if !ReturnStatusCompleted.CountsAgainstReturnable() {
		t.Error("completed returns reserve quantity")
	}
}
