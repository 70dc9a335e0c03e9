package advanced

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestHandleInsetPanicRecover(t *testing.T) {
	testFn := func(input *Input, shouldPanic bool) (err error) {
		defer func() {
			recoveredErr := HandleInsetPanicRecover(recover())
			if recoveredErr != nil {
				err = recoveredErr
			}
		}()

		if shouldPanic {
			panic("true panic")
		}

		Calc(input, nil)
		return nil
	}

	t.Run("with bad input", func(t *testing.T) {
		input := UnitSquare(-1)
		err := testFn(input, false)
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidInput))
	})

	t.Run("with good input", func(t *testing.T) {
		assert.NoError(t, testFn(UnitSquare(0.25), false))
	})

	t.Run("with real panic", func(t *testing.T) {
		assert.PanicsWithValue(t, "true panic", func() {
			testFn(UnitSquare(0.25), true)
		})
	})
}
