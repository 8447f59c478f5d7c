// Package request holds the domain model for withdrawal requests and
// missions, the two request kinds governed by the approval workflow. Both
// share one status machine: REQUESTED moves to APPROVED, REJECTED or
// CANCELLED; an APPROVED mission additionally moves to SUCCESS, FAIL or
// QUIT. Every other status is terminal.
package request

// Status is the lifecycle state of a withdrawal request or mission.
type Status string

const (
	StatusRequested Status = "REQUESTED"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusCancelled Status = "CANCELLED"

	// Mission-only resolutions, reachable from APPROVED.
	StatusSuccess Status = "SUCCESS"
	StatusFail    Status = "FAIL"
	StatusQuit    Status = "QUIT"
)

// Type discriminates the two request kinds where they are listed together.
type Type string

const (
	TypeWithdraw Type = "WITHDRAW"
	TypeMission  Type = "MISSION"
)

// CanTransition reports whether moving from s to target is legal. Only
// REQUESTED and APPROVED (mission-active) admit outgoing transitions;
// the compare-and-swap in the store enforces the same rule under races.
func (s Status) CanTransition(target Status) bool {
	switch s {
	case StatusRequested:
		return target == StatusApproved || target == StatusRejected || target == StatusCancelled
	case StatusApproved:
		return target == StatusSuccess || target == StatusFail || target == StatusQuit
	default:
		return false
	}
}

// Terminal reports whether no further transition is possible for a
// withdrawal request in status s. For missions APPROVED is active, not
// terminal; see CanTransition.
func (s Status) Terminal() bool {
	return s != StatusRequested && s != StatusApproved
}
