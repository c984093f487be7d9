package engine

import (
	"errors"
	"fmt"

	"github.com/annaglova/breedhub-sub002/internal/merge"
)

var (
	// ErrNotFound means a referenced node does not exist or is soft-deleted.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists means a node or dependency is already present.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidChildType means the container table has no entry for the pair.
	ErrInvalidChildType = errors.New("invalid child type")
	// ErrProtectedResource means the node carries the system tag.
	ErrProtectedResource = errors.New("protected resource")
	// ErrValidation means a node or request is malformed.
	ErrValidation = errors.New("validation failed")

	// ErrCycle means an edge would close a dependency cycle. It matches both
	// ErrValidation and merge.ErrCycle.
	ErrCycle = fmt.Errorf("%w: %w", ErrValidation, merge.ErrCycle)
	// ErrCascadeBudget means a cascade would visit more nodes than allowed.
	ErrCascadeBudget = fmt.Errorf("%w: cascade budget exceeded", ErrValidation)
)

// Error is returned by every public Engine method.
type Error struct {
	// Op is the public operation, e.g. "add_dependency".
	Op string
	// ID is the node the operation was called on, if any.
	ID  string
	Err error
}

func (e *Error) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s '%s': %v", e.Op, e.ID, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrapErr(op, id string, err error) error {
	if err == nil {
		return nil
	}
	var engErr *Error
	if errors.As(err, &engErr) {
		return err
	}
	return &Error{Op: op, ID: id, Err: err}
}

func notFound(id string) error {
	return fmt.Errorf("node '%s': %w", id, ErrNotFound)
}

// errorKind is the metrics label for err.
func errorKind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrAlreadyExists):
		return "already_exists"
	case errors.Is(err, ErrInvalidChildType):
		return "invalid_child_type"
	case errors.Is(err, ErrProtectedResource):
		return "protected"
	case errors.Is(err, ErrCascadeBudget):
		return "cascade_budget"
	case errors.Is(err, ErrCycle):
		return "cycle"
	case errors.Is(err, ErrValidation):
		return "validation"
	default:
		return "internal"
	}
}
