package intel

import "fmt"

// DefaultHistorySize is the rolling history capacity shared by all
// analyzers unless configured otherwise.
const DefaultHistorySize = 30

// trendMinSamples is the number of recorded counts required before
// Classify can report anything other than stable.
const trendMinSamples = 6

// TrendWindow keeps a bounded rolling history of a scalar count and
// classifies its short-term movement by comparing the mean of the last
// three samples against the mean of the three before that.
type TrendWindow struct {
	buf  []int
	head int // next write position
	size int // number of valid samples, <= len(buf)
}

// NewTrendWindow builds a window with the given capacity. The capacity
// must hold at least the six samples classification needs.
func NewTrendWindow(capacity int) (*TrendWindow, error) {
	if capacity < trendMinSamples {
		return nil, fmt.Errorf("trend window capacity %d is below the %d samples classification needs", capacity, trendMinSamples)
	}
	return &TrendWindow{buf: make([]int, capacity)}, nil
}

// Record appends a count, evicting the oldest sample once the window is
// at capacity.
func (w *TrendWindow) Record(count int) {
	w.buf[w.head] = count
	w.head = (w.head + 1) % len(w.buf)
	if w.size < len(w.buf) {
		w.size++
	}
}

// Len returns the number of samples currently held.
func (w *TrendWindow) Len() int {
	return w.size
}

// Reset discards all recorded history.
func (w *TrendWindow) Reset() {
	w.head = 0
	w.size = 0
}

// last returns the n most recent samples, oldest first.
func (w *TrendWindow) last(n int) []int {
	out := make([]int, n)
	for i := 0; i < n; i++ {
		idx := (w.head - n + i + len(w.buf)) % len(w.buf)
		out[i] = w.buf[idx]
	}
	return out
}

// Classify reports stable, increasing or decreasing. With fewer than six
// samples it always reports stable. Increasing means the recent mean
// exceeds the earlier mean by more than 20%; decreasing means it fell
// below 80% of a non-zero earlier mean (the earlier > 0 gate keeps an
// all-zero history from classifying as decreasing).
func (w *TrendWindow) Classify() string {
	if w.size < trendMinSamples {
		return TrendStable
	}
	tail := w.last(trendMinSamples)
	earlier := mean(tail[:3])
	recent := mean(tail[3:])
	switch {
	case recent > earlier*1.2:
		return TrendIncreasing
	case earlier > 0 && recent < earlier*0.8:
		return TrendDecreasing
	default:
		return TrendStable
	}
}

func mean(samples []int) float64 {
	sum := 0
	for _, s := range samples {
		sum += s
	}
	return float64(sum) / float64(len(samples))
}
