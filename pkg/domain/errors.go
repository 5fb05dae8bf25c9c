package domain

import "fmt"

// ErrorKind is the closed set of business-rule failure codes surfaced by the
// lifecycle engine. Every kind is distinguishable so callers can render a
// specific message instead of a generic failure.
type ErrorKind string

// Lifecycle error kinds.
const (
	KindGroupNotFound ErrorKind = "GROUP_NOT_FOUND"

	KindCannotAdvanceDissolved ErrorKind = "CANNOT_ADVANCE_DISSOLVED"
	KindAlreadyComplete        ErrorKind = "ALREADY_COMPLETE"
	KindNoNextStatus           ErrorKind = "NO_NEXT_STATUS"

	KindInvalidStatus     ErrorKind = "INVALID_STATUS"
	KindInvalidTarget     ErrorKind = "INVALID_TARGET"
	KindInvalidTransition ErrorKind = "INVALID_TRANSITION"

	KindBirthDateRequired      ErrorKind = "BIRTH_DATE_REQUIRED"
	KindNoLiveOffspring        ErrorKind = "NO_LIVE_OFFSPRING"
	KindWeanedDateRequired     ErrorKind = "WEANED_DATE_REQUIRED"
	KindPlacementStartRequired ErrorKind = "PLACEMENT_START_REQUIRED"
	KindOffspringNotPlaced     ErrorKind = "OFFSPRING_NOT_PLACED"

	KindCannotRewindPending   ErrorKind = "CANNOT_REWIND_PENDING"
	KindCannotRewindDissolved ErrorKind = "CANNOT_REWIND_DISSOLVED"
	KindCannotRewind          ErrorKind = "CANNOT_REWIND"

	KindLiveOffspringExist ErrorKind = "LIVE_OFFSPRING_EXIST"
	// KindCannotDissolveDissolved is surfaced distinctly so callers can tell
	// "already dissolved" apart from a fresh dissolve failure.
	KindCannotDissolveDissolved ErrorKind = "CANNOT_DISSOLVE_DISSOLVED"
)

// ErrorCategory classifies kinds for the transport collaborator. The HTTP
// status mapping itself lives entirely outside this core.
type ErrorCategory string

// Error categories.
const (
	CategoryNotFound ErrorCategory = "not_found"
	CategoryConflict ErrorCategory = "conflict"
	CategoryInvalid  ErrorCategory = "invalid"
)

// Category classifies the kind as not-found, malformed input, or a conflict
// with the group's current state.
func (k ErrorKind) Category() ErrorCategory {
	switch k {
	case KindGroupNotFound:
		return CategoryNotFound
	case KindInvalidStatus, KindInvalidTarget:
		return CategoryInvalid
	default:
		return CategoryConflict
	}
}

// LifecycleError is a structured business-rule failure: a kind plus a
// human-readable detail. Storage and internal faults are never wrapped in
// this type; they propagate as opaque errors.
type LifecycleError struct {
	Kind   ErrorKind
	Detail string
}

func (e LifecycleError) Error() string {
	if e.Detail == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

// NewLifecycleError builds a LifecycleError with a formatted detail message.
func NewLifecycleError(kind ErrorKind, format string, args ...any) LifecycleError {
	return LifecycleError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// ValidationError reports malformed input outside the lifecycle rule set,
// such as a weight observation referencing an offspring from another group.
type ValidationError struct {
	Detail string
}

func (e ValidationError) Error() string { return e.Detail }

// NotFoundError is returned when reference validation fails for entities other
// than the group itself.
type NotFoundError struct {
	Entity EntityType
	ID     int64
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}
