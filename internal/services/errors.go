// Package services defines the business logic for repair records.
// This file centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer; translation
// into user-facing messages or HTTP status codes should be performed at the
// handler layer.
package services

import "errors"

var (
	// ErrRepairNotFound indicates that no repair record matches the
	// requested id. A deleted record and a never-created one are
	// indistinguishable and both yield this error.
	ErrRepairNotFound = errors.New("repair not found")

	// ErrInvalidStatus is returned when a status transition names a value
	// outside the allowed set (active, cancelled, postponed).
	ErrInvalidStatus = errors.New("invalid status value")
)
