package session

import "fmt"

// InvalidIndexError indicates a toggle operation referenced an out-of-range
// suggestion or keyword index. The session state is unchanged when this is
// returned.
type InvalidIndexError struct {
	Kind   string
	Index  int
	Length int
}

func (e *InvalidIndexError) Error() string {
	return fmt.Sprintf("invalid %s index %d (have %d)", e.Kind, e.Index, e.Length)
}

// ErrNotFound indicates the requested session does not exist in the store.
type ErrNotFound struct {
	ID string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("session not found: %s", e.ID)
}
