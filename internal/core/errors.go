package core

import "errors"

var (
	// ErrMissingArgument reports a required argument that was not supplied.
	ErrMissingArgument = errors.New("required argument is missing")
	// ErrInvalidArgument reports an argument of the wrong shape or type.
	ErrInvalidArgument = errors.New("argument has an invalid shape")
	// ErrInvalidTrack reports raw backend data that could not be turned
	// into a track. The underlying cause is wrapped alongside it.
	ErrInvalidTrack = errors.New("could not build track from raw data")
	// ErrNotInitialized reports a resolver used before a search provider
	// was configured.
	ErrNotInitialized = errors.New("resolver has no search provider")
	// ErrUnknownRole reports a structure role outside the known set.
	ErrUnknownRole = errors.New("unknown structure role")
	// ErrMissingStructure reports a role lookup with no bound value.
	ErrMissingStructure = errors.New("no structure bound for role")
)

// SearchError carries the failure payload a search provider attaches when
// a query yields no usable result.
type SearchError struct {
	Message  string
	Cause    string
	Severity Severity
}

func (e *SearchError) Error() string {
	return e.Message
}
