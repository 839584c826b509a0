package views

import (
	"errors"
	"fmt"
)

// Validation rejections. These never reach the store.
var (
	ErrNotSignedIn         = errors.New("sign in to continue")
	ErrEmptyName           = errors.New("please enter a name")
	ErrDuplicateCollection = errors.New("flashcard collection with the same name already exists")
	ErrNoCollection        = errors.New("no collection selected")
	ErrEmptyCard           = errors.New("front and back are both required")
)

// IsValidation reports whether err is a validation rejection rather than a remote failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrNotSignedIn) ||
		errors.Is(err, ErrEmptyName) ||
		errors.Is(err, ErrDuplicateCollection) ||
		errors.Is(err, ErrNoCollection) ||
		errors.Is(err, ErrEmptyCard)
}

// RemoteError is a store or generation service failure. The screen state is left at its
// last known good value when one is returned.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// ExtractionError is returned when an uploaded file could not be turned into text.
type ExtractionError struct {
	Kind string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Kind, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

func remote(op string, err error) error {
	return &RemoteError{Op: op, Err: err}
}
