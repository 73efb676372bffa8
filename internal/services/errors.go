// Package services defines the business logic for duplicate detection, the
// warning decision lifecycle, and lead intake. This file centralizes common
// service-level error values so that they can be consistently returned by
// service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and translation
// into user-facing messages or HTTP status codes should be performed at the
// handler/controller layer.
package services

import "errors"

// Duplicate-check and warning-lifecycle errors.
var (
	// ErrNoIdentityFields is returned when a candidate supplies no usable
	// identity field at all (no name, email, phone, or company). The check
	// fails fast rather than returning a meaningless "no warning".
	ErrNoIdentityFields = errors.New("candidate has no identity fields")

	// ErrWarningNotFound indicates that the referenced warning does not exist.
	ErrWarningNotFound = errors.New("warning not found")

	// ErrAlreadyDecided is returned when a decision is recorded against a
	// warning that already has one. The first decision stands; callers should
	// treat this as a benign race rather than a hard failure.
	ErrAlreadyDecided = errors.New("warning already decided")

	// ErrReasonRequired is returned when a decision omits a reason on a
	// warning whose severity mandates one (HIGH or CRITICAL, overall or on
	// any individual match).
	ErrReasonRequired = errors.New("reason required for this severity")

	// ErrInvalidDecision is returned when a decision value is outside the
	// allowed set (PROCEEDED or CANCELLED).
	ErrInvalidDecision = errors.New("decision must be PROCEEDED or CANCELLED")
)

// Lead-intake errors.
var (
	// ErrNameRequired is returned when a lead is created without a name.
	ErrNameRequired = errors.New("lead name is required")

	// ErrWarningUnresolved is returned when lead creation references a
	// warning that is still PENDING; the user must decide first.
	ErrWarningUnresolved = errors.New("referenced warning is still pending")

	// ErrWarningCancelled is returned when lead creation references a
	// warning the user resolved as CANCELLED.
	ErrWarningCancelled = errors.New("referenced warning was cancelled")
)
