package resolver

import "errors"

// Terminal resolution failures. All of them render the listing fallback;
// the distinctions exist for logging and tests, not for end users.
var (
	ErrNotFound            = errors.New("product not found")
	ErrMalformedIdentifier = errors.New("malformed identifier")
	ErrAmbiguousMatch      = errors.New("legacy name match is ambiguous")
)

// TransientError wraps a backing-store failure that the resolver retried
// without success. Callers surface it as a generic temporary failure.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return "transient store error: " + e.Err.Error()
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is (or wraps) a TransientError.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// IsTerminal reports whether err is one of the terminal resolution failures.
func IsTerminal(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrMalformedIdentifier) ||
		errors.Is(err, ErrAmbiguousMatch)
}
