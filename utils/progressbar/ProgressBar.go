// Package progressbar implements functionality of printing a progress
// bar to the terminal window
package progressbar

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// ProgressBar implements a progress bar that is redrawn whenever
// Increment is called. Increment may be called from multiple
// goroutines, for example by the workers of a batch of sessions.
type ProgressBar struct {
	mu              sync.Mutex
	out             io.Writer
	width           int
	maxProgress     int
	currentProgress int
	startTime       time.Time
	bar             strings.Builder
}

// New returns a new ProgressBar that is width characters wide, writes
// to out, and reaches 100% after max calls to Increment
func New(out io.Writer, width, max int) *ProgressBar {
	if max < 1 {
		max = 1
	}
	return &ProgressBar{
		out:         out,
		width:       width,
		maxProgress: max,
		startTime:   time.Now(),
	}
}

// Increment increments the internal progress counter and redraws the
// bar. Each time an iteration is performed, Increment should be
// called.
func (p *ProgressBar) Increment() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.currentProgress < p.maxProgress {
		p.currentProgress++
	}
	p.display()
}

// Progress returns the number of completed iterations
func (p *ProgressBar) Progress() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.currentProgress
}

// Close moves the output to the next line after the bar
func (p *ProgressBar) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out)
}

// display draws the bar. The caller must hold p.mu.
func (p *ProgressBar) display() {
	p.bar.Reset()
	p.bar.WriteString("|")

	filled := p.currentProgress * p.width / p.maxProgress
	p.bar.WriteString(strings.Repeat("█", filled))
	p.bar.WriteString(strings.Repeat(" ", p.width-filled))

	fraction := float64(p.currentProgress) / float64(p.maxProgress)
	p.bar.WriteString(fmt.Sprintf("| [%.2f%% | %v/%v | elapsed: %v]",
		fraction*100, p.currentProgress, p.maxProgress,
		time.Since(p.startTime).Truncate(time.Second)))

	fmt.Fprintf(p.out, "\r\033[K%v", p.bar.String())
}
