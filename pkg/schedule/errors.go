package schedule

import (
	"errors"
	"fmt"
)

var (
	// ErrEventNotFound is returned when a gesture targets an id that is not
	// part of the current result set.
	ErrEventNotFound = errors.New("event not found")

	// ErrReadOnlyEvent is returned when a gesture targets an external or
	// holiday event.
	ErrReadOnlyEvent = errors.New("event is read-only")
)

// ParseError reports a single malformed source record. The offending record is
// dropped from the merged result; it never fails a whole window fetch.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not parse %q: %v", e.Raw, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// FetchError reports an adapter-level failure for a whole window. Fatal when
// the source is local, swallowed as "no data" when the source is external.
type FetchError struct {
	Source Source
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch events from %s source: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// MutationError reports a create/update rejected by the server. The caller has
// already rolled back its optimistic state when this surfaces.
type MutationError struct {
	Op  string
	Err error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("%s rejected: %v", e.Op, e.Err)
}

func (e *MutationError) Unwrap() error {
	return e.Err
}

// ValidationError reports a client-side precondition failure. No network call
// is made when one of these is returned.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}
