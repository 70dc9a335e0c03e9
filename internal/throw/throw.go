// Package throw holds the panic based error plumbing shared by the inset
// engine.
//
// Threading errors up and down every half-edge operation would add a ton of
// complexity to the code, and almost all of the failures are violated topology
// invariants that the caller cannot act on anyway. Instead, the engine panics
// with an InsetError, and the public API recovers to convert it to an error.
package throw

import "github.com/pkg/errors"

var (
	// ErrTopology is wrapped by every failed mesh invariant check.
	ErrTopology = errors.New("mesh topology invariant violated")
	// ErrWalkNotClosed is wrapped when an output face walk fails to return to
	// its starting vertex.
	ErrWalkNotClosed = errors.New("face walk did not close")
	// ErrInvalidInput is wrapped by input validation failures.
	ErrInvalidInput = errors.New("invalid input")
)

// InsetError is the panic payload used by Fatalf and friends. Anything else
// that panics is a real bug and is re-panicked by HandlePanicRecover.
type InsetError struct {
	error
}

func (e InsetError) Unwrap() error {
	return e.error
}

// Panic with an InsetError.
func Fatalf(format string, args ...interface{}) {
	panic(InsetError{errors.Errorf(format, args...)})
}

// Panic with an InsetError wrapping err.
func Fatal(err error) {
	panic(InsetError{err})
}

// Assertf panics with an error wrapping ErrTopology unless cond holds.
func Assertf(cond bool, format string, args ...interface{}) {
	if !cond {
		panic(InsetError{errors.Wrapf(ErrTopology, format, args...)})
	}
}

func HandlePanicRecover(r interface{}) error {
	if r != nil {
		if insetError, ok := r.(InsetError); ok {
			return insetError.error
		}
		panic(r)
	}
	return nil
}
