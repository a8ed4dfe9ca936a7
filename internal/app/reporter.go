package app

import "sync"

// Reporter collects status and progress from a running workflow for the
// presentation layer. It is safe for concurrent use.
type Reporter struct {
	mu       sync.RWMutex
	status   string
	progress float64
	info     string
	onChange func()
}

// NewReporter creates a reporter that calls onChange (if non-nil) after
// every update.
func NewReporter(onChange func()) *Reporter {
	return &Reporter{
		status:   "Ready",
		onChange: onChange,
	}
}

// SetStatus records a human-readable status line.
func (r *Reporter) SetStatus(text string) {
	r.mu.Lock()
	r.status = text
	r.mu.Unlock()
	r.notify()
}

// SetProgress records a fraction in [0,1] plus detail text.
func (r *Reporter) SetProgress(fraction float64, info string) {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	r.mu.Lock()
	r.progress = fraction
	r.info = info
	r.mu.Unlock()
	r.notify()
}

// Status returns the current status line.
func (r *Reporter) Status() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.status
}

// Progress returns the current progress fraction and detail.
func (r *Reporter) Progress() (float64, string) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.progress, r.info
}

// Reset returns the reporter to its idle state.
func (r *Reporter) Reset() {
	r.mu.Lock()
	r.status = "Ready"
	r.progress = 0
	r.info = ""
	r.mu.Unlock()
	r.notify()
}

func (r *Reporter) notify() {
	r.mu.RLock()
	fn := r.onChange
	r.mu.RUnlock()
	if fn != nil {
		fn()
	}
}
