package metrics

import "sync"

// Recorder keeps measurements in memory for one session or test.
type Recorder struct {
	mu      sync.Mutex
	records []Measurement
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Observe(m Measurement) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, m)
}

// Records returns a copy of everything observed so far, oldest first.
func (r *Recorder) Records() []Measurement {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Measurement, len(r.records))
	copy(out, r.records)
	return out
}

func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = nil
}
