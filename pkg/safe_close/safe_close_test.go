package safe_close

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCloseSignalsAttached(t *testing.T) {
	sc := NewSafeClose()

	var stopped atomic.Int32
	for i := 0; i < 3; i++ {
		sc.Attach(func(done func(), closeSignal <-chan struct{}) {
			defer done()
			<-closeSignal
			stopped.Add(1)
		})
	}

	want := errors.New("shutdown")
	sc.SendCloseSignal(want)
	sc.WaitClosed()

	assert.Equal(t, int32(3), stopped.Load())
	assert.Equal(t, want, sc.Err())
}

func TestFirstErrorWins(t *testing.T) {
	sc := NewSafeClose()

	first := errors.New("first")
	sc.SendCloseSignal(first)
	sc.SendCloseSignal(errors.New("second"))

	assert.Equal(t, first, sc.Err())
}

func TestWaitClosedReturnsWithoutAttached(t *testing.T) {
	sc := NewSafeClose()
	sc.SendCloseSignal(nil)

	finished := make(chan struct{})
	go func() {
		sc.WaitClosed()
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("WaitClosed did not return")
	}
}
