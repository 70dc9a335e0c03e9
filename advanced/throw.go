package advanced

import "github.com/osuushi/meshinset/internal/throw"

var (
	ErrInvalidInput  = throw.ErrInvalidInput
	ErrTopology      = throw.ErrTopology
	ErrWalkNotClosed = throw.ErrWalkNotClosed
)

// HandleInsetPanicRecover converts a recovered inset failure into an error.
// Panics that did not come from the engine are re-panicked.
func HandleInsetPanicRecover(r interface{}) error {
	return throw.HandlePanicRecover(r)
}
