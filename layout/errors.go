package layout

import "fmt"

type ErrorKind string

const (
	KindOutOfBounds  ErrorKind = "out_of_bounds"
	KindOverlap      ErrorKind = "overlap"
	KindDuplicateID  ErrorKind = "duplicate_id"
	KindNotFound     ErrorKind = "not_found"
	KindNotRotatable ErrorKind = "not_rotatable"
)

// ValidationError rejects a mutation and guarantees the working layout was
// left untouched. Always recoverable by the caller.
type ValidationError struct {
	Kind    ErrorKind
	ItemID  string
	Message string
}

func (e *ValidationError) Error() string {
	if e.ItemID != "" {
		return fmt.Sprintf("%s: %s (item %s)", e.Kind, e.Message, e.ItemID)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}
