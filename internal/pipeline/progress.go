package pipeline

import (
	"time"

	"golang.org/x/time/rate"
)

// progressInterval is the minimum time between intermediate progress reports
const progressInterval = 250 * time.Millisecond

// Progress describes how far a run has come. Item is the input about to be
// analyzed, empty once Done == Total.
type Progress struct {
	Done  int
	Total int
	Item  string
}

// ProgressFunc receives advisory progress reports. It is called from the
// goroutine running the pipeline and must not block for long.
type ProgressFunc func(Progress)

// progressReporter throttles intermediate reports. The first and the final
// report are always delivered.
type progressReporter struct {
	fn    ProgressFunc
	total int
	gate  *rate.Sometimes
}

func newProgressReporter(fn ProgressFunc, total int) *progressReporter {
	return &progressReporter{
		fn:    fn,
		total: total,
		gate:  &rate.Sometimes{First: 1, Interval: progressInterval},
	}
}

func (r *progressReporter) report(done int, item string) {
	if r.fn == nil {
		return
	}

	p := Progress{Done: done, Total: r.total, Item: item}
	if done >= r.total {
		r.fn(p)
		return
	}
	r.gate.Do(func() { r.fn(p) })
}
