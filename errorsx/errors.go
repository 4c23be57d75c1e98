// Package errorsx is the resolver's typed error taxonomy: a small
// closed set of error kinds callers can switch on with errors.As
// instead of string-matching. Only the two hard categories, a missing
// generated type and a programmer-bug invariant violation, are
// represented as Go errors; missing bindings, cycles, scoped-binding
// mismatches, and duplicate bindings are all soft and never become a
// control-flow error (see resolver/graph, which records them as data
// instead).
package errorsx

import "fmt"

// NotYetAvailableError is returned when oracle.TypeOracle reports that
// a referenced type (typically one meant to be generated later in the
// same compilation) does not exist yet. It is retryable: the caller
// should attempt the same Create call again in a later phase.
type NotYetAvailableError struct {
	TypeName string
}

func (e *NotYetAvailableError) Error() string {
	return fmt.Sprintf("type %q is not yet available", e.TypeName)
}

// InternalError represents a violated invariant; a programmer bug in
// the resolver itself, never something a user's component/module
// declarations can trigger on their own. Examples: two subgraphs
// discovered for the same component type under one parent, or a key
// resolved by two different ancestors in one lineage.
type InternalError struct {
	Invariant string
	Detail    string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal: invariant %q violated: %s", e.Invariant, e.Detail)
}

// NewInternalError constructs an InternalError for the named invariant.
func NewInternalError(invariant, detail string) *InternalError {
	return &InternalError{Invariant: invariant, Detail: detail}
}

// NewNotYetAvailableError constructs a NotYetAvailableError for typeName.
func NewNotYetAvailableError(typeName string) *NotYetAvailableError {
	return &NotYetAvailableError{TypeName: typeName}
}
