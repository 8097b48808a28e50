package reactive

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRef(t *testing.T) {
	t.Run("read and write", func(t *testing.T) {
		count := NewRef(0)
		assert.Equal(t, 0, count.Get())

		count.Set(10)
		assert.Equal(t, 10, count.Get())
	})

	t.Run("same value is a silent no-op", func(t *testing.T) {
		runs := 0

		count := NewRef(1)

		NewEffect(func() any {
			runs++
			count.Get()
			return nil
		})

		count.Set(1)
		assert.Equal(t, 1, runs)

		count.Set(2)
		assert.Equal(t, 2, runs)
	})

	t.Run("NaN equals NaN", func(t *testing.T) {
		runs := 0

		x := NewRef(math.NaN())

		NewEffect(func() any {
			runs++
			x.Get()
			return nil
		})

		x.Set(math.NaN())
		assert.Equal(t, 1, runs)

		x.Set(1.5)
		assert.Equal(t, 2, runs)
	})

	t.Run("negative zero equals positive zero", func(t *testing.T) {
		runs := 0

		x := NewRef(math.Copysign(0, -1))

		NewEffect(func() any {
			runs++
			x.Get()
			return nil
		})

		x.Set(0)
		assert.Equal(t, 1, runs)
	})

	t.Run("peek does not subscribe", func(t *testing.T) {
		runs := 0

		count := NewRef(0)

		NewEffect(func() any {
			runs++
			count.Peek()
			return nil
		})

		count.Set(10)
		assert.Equal(t, 1, runs)
	})

	t.Run("update derives from the current value", func(t *testing.T) {
		runs := 0

		count := NewRef(1)

		NewEffect(func() any {
			runs++
			count.Get()
			return nil
		})

		count.Update(func(n int) int { return n * 2 })
		assert.Equal(t, 2, count.Peek())
		assert.Equal(t, 2, runs)

		count.Update(func(n int) int { return n })
		assert.Equal(t, 2, runs)
	})

	t.Run("map values are wrapped reactively", func(t *testing.T) {
		cell := NewRef[any](map[string]any{"a": 1})

		obj, ok := cell.Get().(*Object)
		assert.True(t, ok)
		assert.Equal(t, 1, obj.Get("a"))

		runs := 0
		NewEffect(func() any {
			runs++
			obj.Get("a")
			return nil
		})

		obj.Set("a", 2)
		assert.Equal(t, 2, runs)
	})

	t.Run("zero values", func(t *testing.T) {
		err := NewRef[error](nil)
		assert.Nil(t, err.Get())

		err.Set(assert.AnError)
		assert.Equal(t, assert.AnError, err.Get())

		err.Set(nil)
		assert.Nil(t, err.Get())
	})
}
