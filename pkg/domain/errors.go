package domain

import "errors"

// Common domain errors
var (
	// ErrNotFound is returned when a requested resource is not found
	ErrNotFound = errors.New("resource not found")
	// ErrNotMoimMember is returned when the caller has no membership in the target moim
	ErrNotMoimMember = errors.New("not a member of this moim")
	// ErrNotAuthorized is returned when the caller's role or ownership does not permit the action
	ErrNotAuthorized = errors.New("not authorized")
	// ErrInvalidState is returned when a transition is not legal from the current state
	ErrInvalidState = errors.New("invalid state for this transition")
	// ErrDuplicateIdentifier is returned when an identification number collides during moim creation
	ErrDuplicateIdentifier = errors.New("duplicate identification number")
	// ErrAlreadyInvited is returned when inviting a user who already has a membership in the moim
	ErrAlreadyInvited = errors.New("user already invited to this moim")
	// ErrBankingGateway is returned when a call to the external banking service fails
	ErrBankingGateway = errors.New("banking gateway call failed")
)
