package types

import "errors"

var (
	// ErrUnavailableCapability is returned when the host lacks a method a mutation needs
	ErrUnavailableCapability = errors.New("host capability unavailable")

	// ErrNotFound is returned for an unknown command or group id
	ErrNotFound = errors.New("not found")

	// ErrNotEditable is returned when a mutation targets a record the host does not own
	ErrNotEditable = errors.New("not editable")

	// ErrInvariantViolation signals that the record table and reverse index disagree
	ErrInvariantViolation = errors.New("index invariant violated")
)
