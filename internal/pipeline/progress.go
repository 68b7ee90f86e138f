package pipeline

// ProgressFunc receives pipeline progress for UI display: a percentage in
// [0, 100] and a human-readable stage description. Purely observational.
type ProgressFunc func(percent int, stage string)

// Reporter clamps percentages to [0, 100] and keeps them monotonic across
// a run. A nil receiver or nil function is a no-op, so callers never
// check for an observer.
type Reporter struct {
	fn   ProgressFunc
	last int
}

// NewReporter wraps an optional progress observer.
func NewReporter(fn ProgressFunc) *Reporter {
	return &Reporter{fn: fn}
}

// Report delivers one progress event.
func (p *Reporter) Report(percent int, stage string) {
	if p == nil || p.fn == nil {
		return
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	if percent < p.last {
		percent = p.last
	}
	p.last = percent
	p.fn(percent, stage)
}
