package repository

import "time"

// QueryObserver receives database query timings.
type QueryObserver interface {
	ObserveDBQuery(label string, duration time.Duration)
}

type queryTimer struct {
	observer QueryObserver
}

func (t queryTimer) observe(label string, start time.Time) {
	if t.observer == nil {
		return
	}
	t.observer.ObserveDBQuery(label, time.Since(start))
}
