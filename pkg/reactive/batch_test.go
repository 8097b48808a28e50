package reactive

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBatch(t *testing.T) {
	t.Run("collapses multiple writes into one notification", func(t *testing.T) {
		log := []string{}

		count := NewRef(0)

		NewEffect(func() any {
			log = append(log, fmt.Sprintf("changed %d", count.Get()))
			return nil
		})

		Batch(func() {
			count.Set(10)
			count.Set(20)
			log = append(log, "updated")
		})

		assert.Equal(t, []string{
			"changed 0",
			"updated",
			"changed 20",
		}, log)
	})

	t.Run("collapses across signals", func(t *testing.T) {
		runs := 0

		first := NewRef("Ada")
		last := NewRef("Lovelace")

		NewEffect(func() any {
			runs++
			first.Get()
			last.Get()
			return nil
		})

		Batch(func() {
			first.Set("Grace")
			last.Set("Hopper")
		})

		assert.Equal(t, 2, runs)
	})

	t.Run("nested batches deliver at the outermost end", func(t *testing.T) {
		log := []string{}

		count := NewRef(0)

		NewEffect(func() any {
			log = append(log, fmt.Sprintf("changed %d", count.Get()))
			return nil
		})

		Batch(func() {
			count.Set(10)
			Batch(func() {
				count.Set(20)
			})
			log = append(log, "updated")
		})

		assert.Equal(t, []string{
			"changed 0",
			"updated",
			"changed 20",
		}, log)
	})

	t.Run("flushes post jobs at the batch end", func(t *testing.T) {
		log := []any{}

		a := NewRef(0)

		Watch(func() any { return a.Get() }, func(newValue, oldValue any) {
			log = append(log, newValue)
		}, FlushPost())

		Batch(func() {
			a.Set(1)
			a.Set(2)
		})

		assert.Equal(t, []any{2}, log)
	})
}
