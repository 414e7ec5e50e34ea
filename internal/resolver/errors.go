package resolver

import (
	"fmt"

	"github.com/abrenneke/stelpatch-sub002/internal/schema"
)

// ResolutionErrorKind classifies why a reference couldn't be resolved.
type ResolutionErrorKind int

const (
	ErrReferenceNotFound ResolutionErrorKind = iota
	ErrAliasCycle
	ErrScopeOverflow
)

// ResolutionError reports a failed reference resolution, naming the
// reference that failed so a caller can surface it as a diagnostic
// instead of just falling back to Unknown silently.
type ResolutionError struct {
	Kind ResolutionErrorKind
	Ref  schema.ReferenceTarget
}

func (e *ResolutionError) Error() string {
	switch e.Kind {
	case ErrAliasCycle:
		return fmt.Sprintf("resolver: cycle resolving reference %v", e.Ref)
	case ErrScopeOverflow:
		return fmt.Sprintf("resolver: scope stack overflow resolving %v", e.Ref)
	default:
		return fmt.Sprintf("resolver: reference not found: %v", e.Ref)
	}
}
