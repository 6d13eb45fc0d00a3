// Package safe_close coordinates graceful shutdown of long running
// goroutines. Each subsystem attaches itself and is signaled once when the
// process is closing.
package safe_close

import (
	"sync"
)

type SafeClose struct {
	closeNotify chan struct{}
	closeOnce   sync.Once

	wg sync.WaitGroup

	mu  sync.Mutex
	err error
}

func NewSafeClose() *SafeClose {
	return &SafeClose{
		closeNotify: make(chan struct{}),
	}
}

// Attach starts f in its own goroutine. f must call done when it has fully
// stopped and must return promptly after closeSignal fires.
func (s *SafeClose) Attach(f func(done func(), closeSignal <-chan struct{})) {
	s.wg.Add(1)
	var doneOnce sync.Once
	done := func() {
		doneOnce.Do(s.wg.Done)
	}
	go f(done, s.closeNotify)
}

// SendCloseSignal signals all attached goroutines to stop. The first
// non-nil error wins.
func (s *SafeClose) SendCloseSignal(err error) {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		close(s.closeNotify)
	})
}

// ReceiveCloseSignal returns the channel closed on shutdown.
func (s *SafeClose) ReceiveCloseSignal() <-chan struct{} {
	return s.closeNotify
}

// WaitClosed blocks until every attached goroutine has called done.
func (s *SafeClose) WaitClosed() {
	s.wg.Wait()
}

// Err returns the error passed to SendCloseSignal, if any.
func (s *SafeClose) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
