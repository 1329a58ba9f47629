package fetch

import "sync/atomic"

// CancelToken is the advisory stop flag shared between the UI thread and the
// pipeline. The UI sets it; the fetcher polls it once per item and clears it
// when honoring the stop.
type CancelToken struct {
	flag atomic.Bool
}

func NewCancelToken() *CancelToken {
	return &CancelToken{}
}

// Cancel requests a cooperative stop. Safe to call from any goroutine.
func (t *CancelToken) Cancel() {
	t.flag.Store(true)
}

// consume reports a pending cancellation and resets the flag in one step.
func (t *CancelToken) consume() bool {
	return t.flag.Swap(false)
}
