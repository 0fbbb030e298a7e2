package reembed

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// ProgressTracker reports how far a reembedding run has moved through the
// catalog. Updates redraw a single line with a carriage return; Finish
// settles the line and prints the run summary.
type ProgressTracker struct {
	mu       sync.Mutex
	writer   io.Writer
	total    int
	interval int
	done     int
	reported int
	begun    time.Time
	running  bool
}

// NewProgressTracker creates a tracker over total catalog books that
// writes to writer (typically os.Stderr) every interval books.
func NewProgressTracker(writer io.Writer, total, interval int) *ProgressTracker {
	return &ProgressTracker{
		writer:   writer,
		total:    total,
		interval: interval,
	}
}

// Start resets the tracker and begins timing.
func (p *ProgressTracker) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.begun = time.Now()
	p.running = true
	p.done = 0
	p.reported = 0
}

// Update records that current books have been reembedded so far. Values
// beyond the total are clamped. Calls before Start are ignored.
func (p *ProgressTracker) Update(current int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}
	if current > p.total {
		current = p.total
	}
	p.done = current

	if p.done-p.reported >= p.interval {
		p.redraw()
		p.reported = p.done
	}
}

// Finish settles the progress line and prints the run summary.
func (p *ProgressTracker) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}

	p.done = p.total
	p.redraw()

	elapsed := time.Since(p.begun)
	fmt.Fprintf(p.writer, "\nReembedded %d books in %s (%.1f books/s)\n",
		p.total, elapsed.Round(time.Second), booksPerSecond(p.total, elapsed))
}

// Elapsed returns the time since Start, zero before Start.
func (p *ProgressTracker) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return 0
	}
	return time.Since(p.begun)
}

// redraw rewrites the progress line. Must be called with the lock held.
func (p *ProgressTracker) redraw() {
	percentage := 0.0
	if p.total > 0 {
		percentage = float64(p.done) / float64(p.total) * 100.0
	}
	fmt.Fprintf(p.writer, "\r%d/%d books (%.1f%%) %.1f books/s",
		p.done, p.total, percentage, booksPerSecond(p.done, time.Since(p.begun)))
}

func booksPerSecond(count int, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(count) / elapsed.Seconds()
}
