package gateway

import "errors"

// Gateway errors are normalized into three families, per spec §4.1: the
// graph database driver can fail in many ways, but every failure a caller
// of this package sees is one of these three.
var (
	// ErrNotFound is returned when a query-by-ID traversal finds nothing.
	ErrNotFound = errors.New("gateway: not found")

	// ErrConstraintViolation is returned when the underlying database
	// rejects a write because of a schema or uniqueness constraint.
	ErrConstraintViolation = errors.New("gateway: constraint violation")

	// ErrTransport is returned for connectivity, timeout, and cancellation
	// failures. Unlike the other two families, transport errors are
	// always retriable by the caller (spec §7).
	ErrTransport = errors.New("gateway: transport error")
)
