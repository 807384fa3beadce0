package lessonService

import "errors"

// Kind classifies pipeline failures so in-process callers can branch
// without parsing message strings. The HTTP boundary still renders the
// message verbatim.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindPermission   Kind = "permission"
	KindReferential  Kind = "referential"
	KindCompensation Kind = "compensation"
	KindNotFound     Kind = "not_found"
	KindInternal     Kind = "internal"
)

// Error is a tagged pipeline error.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// KindOf extracts the kind from an error chain; plain errors count as
// internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
