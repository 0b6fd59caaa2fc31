package download

import "errors"

var (
	// ErrEmptyInput is returned when no URL was given
	ErrEmptyInput = errors.New("empty url")

	// ErrBusy rejects an action while another one owns the process slot
	ErrBusy = errors.New("another action is in progress")

	// ErrClosed is returned after Close
	ErrClosed = errors.New("controller closed")

	// ErrDirectoryCreate wraps a failure to prepare the output directory
	ErrDirectoryCreate = errors.New("cannot create output directory")

	// ErrInvalidArguments wraps a tokenization failure of the extra arguments
	ErrInvalidArguments = errors.New("invalid extra arguments")
)
