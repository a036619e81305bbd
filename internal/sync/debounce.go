package sync

import (
	gosync "sync"
	"time"
)

// Debounce wraps fn so rapid call bursts collapse into a single invocation
// after delay, with only the last call's argument surviving. Used to turn a
// storm of store notifications into one downstream update.
func Debounce[T any](fn func(T), delay time.Duration) func(T) {
	var mu gosync.Mutex
	var timer *time.Timer
	var last T

	return func(arg T) {
		mu.Lock()
		defer mu.Unlock()
		last = arg
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(delay, func() {
			mu.Lock()
			arg := last
			mu.Unlock()
			fn(arg)
		})
	}
}
