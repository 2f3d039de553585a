// Package errors provides error handling for isakit.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Hints and details for user-facing messages
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := doSomething(); err != nil {
//	    return errors.Wrap(err, "failed to do something")
//	}
//
//	// Check against a load-path sentinel
//	if errors.Is(err, errors.ErrUnresolvedReference) {
//	    // handle dangling @id
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is        = crdb.Is
	IsAny     = crdb.IsAny
	As        = crdb.As
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll
)

// Assertions
var (
	AssertionFailedf = crdb.AssertionFailedf
)

// Sentinel errors for the load (resolution) path. The loader fails fast on
// any of these: a partially linked object graph is never returned.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrUnresolvedReference indicates an @id reference with no declaration
	// in its namespace.
	ErrUnresolvedReference = New("unresolved reference")

	// ErrDuplicateIdentifier indicates an @id declared twice in the same
	// namespace. The registry is write-once per identifier.
	ErrDuplicateIdentifier = New("duplicate identifier")

	// ErrUnresolvedIO indicates a process input or output that resolved in
	// none of the material namespaces.
	ErrUnresolvedIO = New("unresolved input/output")

	// ErrAmbiguousIdentifier indicates a process input or output that
	// resolved in more than one material namespace.
	ErrAmbiguousIdentifier = New("ambiguous identifier")

	// ErrMissingUnit indicates a numeric characteristic, parameter value or
	// factor value without a resolvable unit reference.
	ErrMissingUnit = New("missing unit")

	// ErrSchemaViolation indicates the document does not conform to the
	// investigation schema. Fatal to validation.
	ErrSchemaViolation = New("schema violation")
)

// IsLoadError reports whether err is (or wraps) one of the sentinel errors
// that abort object-graph construction.
func IsLoadError(err error) bool {
	if err == nil {
		return false
	}
	return IsAny(err,
		ErrUnresolvedReference,
		ErrDuplicateIdentifier,
		ErrUnresolvedIO,
		ErrAmbiguousIdentifier,
		ErrMissingUnit,
	)
}

// NewUnresolvedReference creates an unresolved-reference error naming the
// namespace and identifier.
func NewUnresolvedReference(namespace, id string) error {
	return Wrap(ErrUnresolvedReference, Newf("%s %q", namespace, id).Error())
}

// NewDuplicateIdentifier creates a duplicate-identifier error naming the
// namespace and identifier.
func NewDuplicateIdentifier(namespace, id string) error {
	return Wrap(ErrDuplicateIdentifier, Newf("%s %q", namespace, id).Error())
}
