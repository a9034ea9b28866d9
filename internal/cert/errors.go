package cert

import (
	"github.com/go-faster/errors"
)

// ErrNotFound is returned by a Directory when the event or the registrant
// does not exist.
var ErrNotFound = errors.New("not found")

// Kind is a failure category of the certificate pipeline. Callers switch on
// it to pick a message; errors.Is(err, ErrAssetLoad) matches any *Error of
// that kind.
type Kind interface {
	error
	isKind()
}

type kind struct{ s string }

func (k kind) Error() string { return k.s }
func (k kind) isKind()       {}

var (
	// ErrNotRegistered: the email has no name for the event, or the event
	// is unknown. Correctable by the user.
	ErrNotRegistered Kind = kind{"email not registered for this event"}
	// ErrAssetLoad: the template image could not be fetched or decoded, or
	// its text style is unusable.
	ErrAssetLoad Kind = kind{"template could not be loaded"}
	// ErrEncoding: the QR payload does not fit in a QR symbol.
	ErrEncoding Kind = kind{"qr payload could not be encoded"}
	// ErrSerialization: the document could not be written.
	ErrSerialization Kind = kind{"certificate could not be serialized"}
)

// Error is a failed generation: the kind, the state the pipeline was in, and
// the underlying cause.
type Error struct {
	kind  Kind
	state State
	err   error
}

func newError(k Kind, s State, cause error) *Error {
	return &Error{kind: k, state: s, err: cause}
}

func (e *Error) Error() string {
	if e.err == nil {
		return e.kind.Error()
	}
	return e.kind.Error() + ": " + e.err.Error()
}

// Unwrap returns the cause.
func (e *Error) Unwrap() error { return e.err }

// Is matches the kind sentinel as well as anything in the cause chain.
func (e *Error) Is(target error) bool {
	if t, ok := target.(Kind); ok && t == e.kind {
		return true
	}
	return e.err != nil && errors.Is(e.err, target)
}

// Kind returns the failure category.
func (e *Error) Kind() Kind { return e.kind }

// State returns the pipeline state in which the failure happened.
func (e *Error) State() State { return e.state }

// KindOf returns the Kind carried by err, or nil if err did not come from
// the certificate pipeline.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return nil
}
