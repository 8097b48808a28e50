package reactive

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEffect(t *testing.T) {
	t.Run("runs immediately on creation", func(t *testing.T) {
		runs := 0

		NewEffect(func() any {
			runs++
			return nil
		})

		assert.Equal(t, 1, runs)
	})

	t.Run("re-runs on each write to a dependency", func(t *testing.T) {
		log := []string{}

		o := Reactive(map[string]any{"count": 0}).(*Object)

		NewEffect(func() any {
			log = append(log, fmt.Sprintf("count %v", o.Get("count")))
			return nil
		})

		o.Set("count", 1)
		o.Set("count", 2)

		assert.Equal(t, []string{
			"count 0",
			"count 1",
			"count 2",
		}, log)
	})

	t.Run("ignores writes to keys it never read", func(t *testing.T) {
		runs := 0

		o := Reactive(map[string]any{"a": 1, "b": 2}).(*Object)

		NewEffect(func() any {
			runs++
			o.Get("a")
			return nil
		})

		o.Set("b", 3)
		assert.Equal(t, 1, runs)

		o.Set("a", 10)
		assert.Equal(t, 2, runs)
	})

	t.Run("returns the body result from Run", func(t *testing.T) {
		count := NewRef(20)

		e := NewEffect(func() any {
			return count.Get() * 2
		})

		assert.Equal(t, 40, e.Run())
	})

	t.Run("scheduler replaces the synchronous re-run", func(t *testing.T) {
		log := []string{}

		count := NewRef(0)

		NewEffect(func() any {
			log = append(log, fmt.Sprintf("run %d", count.Get()))
			return nil
		}, WithScheduler(func() {
			log = append(log, "scheduled")
		}))

		count.Set(1)
		count.Set(2)

		assert.Equal(t, []string{
			"run 0",
			"scheduled",
			"scheduled",
		}, log)
	})

	t.Run("deps change between runs", func(t *testing.T) {
		runs := 0

		count := NewRef(0)

		first := true
		NewEffect(func() any {
			runs++
			if first {
				count.Get()
			}
			first = false
			return nil
		})

		count.Set(1)
		// The effect no longer reads count after its second run.
		count.Set(2)

		assert.Equal(t, 2, runs)
	})

	t.Run("nested run restores the outer effect", func(t *testing.T) {
		outerRuns := 0

		outer := NewRef(0)
		inner := NewRef(0)

		NewEffect(func() any {
			outerRuns++

			// Creating an effect mid-body must hand tracking back to
			// the outer effect afterward.
			NewEffect(func() any {
				inner.Get()
				return nil
			})

			outer.Get()
			return nil
		})

		assert.Equal(t, 1, outerRuns)

		outer.Set(1)
		assert.Equal(t, 2, outerRuns)
	})

	t.Run("stop severs all subscriptions", func(t *testing.T) {
		runs := 0

		a := NewRef(0)
		b := NewRef(0)

		e := NewEffect(func() any {
			runs++
			a.Get()
			b.Get()
			return nil
		})

		e.Stop()

		a.Set(1)
		b.Set(1)

		assert.Equal(t, 1, runs)
		assert.Nil(t, e.Run())
	})

	t.Run("reads with no active effect subscribe nothing", func(t *testing.T) {
		o := Reactive(map[string]any{"a": 1}).(*Object)

		assert.Equal(t, 1, o.Get("a"))
		// A write after an untracked read must not notify anyone.
		o.Set("a", 2)
		assert.Equal(t, 2, o.Get("a"))
	})
}

func TestUntracked(t *testing.T) {
	t.Run("does not track reads", func(t *testing.T) {
		runs := 0

		count := NewRef(0)

		NewEffect(func() any {
			runs++
			Untracked(func() {
				count.Get()
			})
			return nil
		})

		count.Set(10)

		assert.Equal(t, 1, runs)
	})

	t.Run("restores tracking afterward", func(t *testing.T) {
		runs := 0

		a := NewRef(0)
		b := NewRef(0)

		NewEffect(func() any {
			runs++
			Untracked(func() { a.Get() })
			b.Get()
			return nil
		})

		a.Set(1)
		assert.Equal(t, 1, runs)

		b.Set(1)
		assert.Equal(t, 2, runs)
	})
}
