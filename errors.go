package upng

import (
	"fmt"
	"runtime"

	"github.com/pkg/errors"
)

// ErrorKind is the sticky error taxonomy exposed to callers: structural,
// capability and environmental failures.
type ErrorKind int

const (
	ErrOK ErrorKind = iota
	ErrNoMem
	ErrRead
	ErrNotFound
	ErrNotPNG
	ErrMalformed
	ErrUnformat
	ErrNotInterlaced
	ErrUnsupported
)

func (k ErrorKind) String() string {
	switch k {
	case ErrOK:
		return "OK"
	case ErrNoMem:
		return "ENOMEM"
	case ErrRead:
		return "EREAD"
	case ErrNotFound:
		return "ENOTFOUND"
	case ErrNotPNG:
		return "ENOTPNG"
	case ErrMalformed:
		return "EMALFORMED"
	case ErrUnformat:
		return "EUNFORMAT"
	case ErrNotInterlaced:
		return "EUNINTERLACED"
	case ErrUnsupported:
		return "EUNSUPPORTED"
	default:
		return "EUNKNOWN"
	}
}

// stickyError records the kind and the call-site line at which it was
// raised, preserved verbatim as a testable diagnostic artifact.
type stickyError struct {
	kind ErrorKind
	line int
}

func (e stickyError) Error() string {
	return fmt.Sprintf("upng: %s (line %d)", e.kind, e.line)
}

// setError latches the decoder into the ERROR state and returns a
// pkg/errors-wrapped error carrying the sticky kind/line for the caller.
// Once set, it is never overwritten: later calls keep returning the first
// failure.
func (d *Decoder) setError(kind ErrorKind) error {
	if d.err.kind != ErrOK {
		return errors.WithStack(d.err)
	}
	_, _, line, _ := runtime.Caller(1)
	d.err = stickyError{kind: kind, line: line}
	d.state = stateError
	return errors.WithStack(d.err)
}

// stickyErr returns the sticky error if one is already latched, else nil.
func (d *Decoder) stickyErr() error {
	if d.err.kind == ErrOK {
		return nil
	}
	return errors.WithStack(d.err)
}
