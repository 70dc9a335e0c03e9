package advanced

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaskVisitsEverything(t *testing.T) {
	for _, workers := range []int{1, 3, 8, 100} {
		data := make([]int, 37)
		for i := range data {
			data[i] = i
		}
		seen := make([]int32, len(data))
		task(workers, data, func(i int) {
			atomic.AddInt32(&seen[i], 1)
		})
		for i, count := range seen {
			assert.Equal(t, int32(1), count, "workers=%d item=%d", workers, i)
		}
	}
}

func TestTaskEmpty(t *testing.T) {
	assert.NotPanics(t, func() {
		task(4, []int(nil), func(int) { t.Fail() })
	})
}

func TestTaskCarriesPanics(t *testing.T) {
	assert.PanicsWithValue(t, "boom", func() {
		task(4, []int{1, 2, 3, 4, 5}, func(i int) {
			if i == 3 {
				panic("boom")
			}
		})
	})
}
