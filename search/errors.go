package search

import "errors"

var (
	// ErrInvalidMode indicates an unknown match mode.
	ErrInvalidMode = errors.New("search: invalid match mode")

	// ErrNilLister indicates a Service was built without a Lister.
	ErrNilLister = errors.New("search: lister is nil")

	// ErrNoSuchSuggestion indicates a selection outside the shown list.
	ErrNoSuchSuggestion = errors.New("search: no such suggestion")
)
