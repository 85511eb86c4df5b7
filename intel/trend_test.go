package intel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrendWindow_Classify(t *testing.T) {
	t.Run("stable before six samples", func(t *testing.T) {
		w, err := NewTrendWindow(DefaultHistorySize)
		assert.NoError(t, err)
		for _, count := range []int{1, 50, 0, 100, 3} {
			w.Record(count)
			assert.Equal(t, TrendStable, w.Classify())
		}
	})

	t.Run("increasing when recent mean exceeds 1.2x earlier", func(t *testing.T) {
		w, _ := NewTrendWindow(DefaultHistorySize)
		for _, count := range []int{2, 2, 2, 8, 8, 8} {
			w.Record(count)
		}
		assert.Equal(t, TrendIncreasing, w.Classify())
	})

	t.Run("decreasing when recent mean falls under 0.8x earlier", func(t *testing.T) {
		w, _ := NewTrendWindow(DefaultHistorySize)
		for _, count := range []int{8, 8, 8, 2, 2, 2} {
			w.Record(count)
		}
		assert.Equal(t, TrendDecreasing, w.Classify())
	})

	t.Run("stable inside the hysteresis band", func(t *testing.T) {
		w, _ := NewTrendWindow(DefaultHistorySize)
		for _, count := range []int{10, 10, 10, 11, 11, 11} {
			w.Record(count)
		}
		assert.Equal(t, TrendStable, w.Classify())
	})

	t.Run("all-zero history is stable, not decreasing", func(t *testing.T) {
		w, _ := NewTrendWindow(DefaultHistorySize)
		for i := 0; i < 10; i++ {
			w.Record(0)
		}
		assert.Equal(t, TrendStable, w.Classify())
	})

	t.Run("growth from zero earlier mean is increasing", func(t *testing.T) {
		w, _ := NewTrendWindow(DefaultHistorySize)
		for _, count := range []int{0, 0, 0, 5, 5, 5} {
			w.Record(count)
		}
		assert.Equal(t, TrendIncreasing, w.Classify())
	})

	t.Run("classification uses the newest six samples", func(t *testing.T) {
		w, _ := NewTrendWindow(6)
		// these roll out of the window entirely
		for i := 0; i < 10; i++ {
			w.Record(100)
		}
		for _, count := range []int{2, 2, 2, 8, 8, 8} {
			w.Record(count)
		}
		assert.Equal(t, TrendIncreasing, w.Classify())
	})
}

func TestTrendWindow_Bounds(t *testing.T) {
	t.Run("length never exceeds capacity", func(t *testing.T) {
		w, _ := NewTrendWindow(8)
		for i := 0; i < 100; i++ {
			w.Record(i)
			assert.LessOrEqual(t, w.Len(), 8)
		}
		assert.Equal(t, 8, w.Len())
	})

	t.Run("capacity below six is rejected", func(t *testing.T) {
		_, err := NewTrendWindow(5)
		assert.Error(t, err)
	})

	t.Run("reset discards history", func(t *testing.T) {
		w, _ := NewTrendWindow(DefaultHistorySize)
		for _, count := range []int{2, 2, 2, 8, 8, 8} {
			w.Record(count)
		}
		w.Reset()
		assert.Equal(t, 0, w.Len())
		assert.Equal(t, TrendStable, w.Classify())
	})
}
