package actor

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerPoolRunsTasks(t *testing.T) {
	p := NewWorkerPool(4, WithPoolLogger(discardLogger()))
	defer func() {
		p.Close()
		p.Wait()
	}()
	assert.Equal(t, 4, p.Size())

	var (
		wg    sync.WaitGroup
		count atomic.Int32
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		require.NoError(t, p.Submit(func() {
			defer wg.Done()
			count.Add(1)
		}))
	}
	wg.Wait()
	assert.Equal(t, int32(100), count.Load())
}

func TestWorkerPoolDefaultSize(t *testing.T) {
	p := NewWorkerPool(0)
	defer p.Close()
	assert.Equal(t, runtime.GOMAXPROCS(0), p.Size())
}

func TestWorkerPoolCloseDrainsQueue(t *testing.T) {
	p := NewWorkerPool(1, WithPoolLogger(discardLogger()))

	release := make(chan struct{})
	var count atomic.Int32
	require.NoError(t, p.Submit(func() { <-release }))
	for i := 0; i < 10; i++ {
		require.NoError(t, p.Submit(func() { count.Add(1) }))
	}

	p.Close()
	assert.ErrorIs(t, p.Submit(func() {}), ErrPoolClosed)

	close(release)
	p.Wait()
	assert.Equal(t, int32(10), count.Load())
}

func TestWorkerPoolRecoversPanic(t *testing.T) {
	recovered := make(chan any, 1)
	p := NewWorkerPool(1,
		WithPoolLogger(discardLogger()),
		WithPanicHandler(func(r any, stack []byte) {
			assert.NotEmpty(t, stack)
			recovered <- r
		}))
	defer p.Close()

	require.NoError(t, p.Submit(func() { panic("boom") }))
	assert.Equal(t, "boom", <-recovered)

	// worker 仍然存活
	done := make(chan struct{})
	require.NoError(t, p.Submit(func() { close(done) }))
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not survive panic")
	}
}

func TestGoExecutor(t *testing.T) {
	var panics atomic.Int32
	e := NewGoExecutor(WithPanicHandler(func(any, []byte) { panics.Add(1) }))

	var count atomic.Int32
	for i := 0; i < 10; i++ {
		require.NoError(t, e.Submit(func() { count.Add(1) }))
	}
	require.NoError(t, e.Submit(func() { panic("boom") }))

	e.Close()
	assert.ErrorIs(t, e.Submit(func() {}), ErrPoolClosed)
	e.Wait()

	assert.Equal(t, int32(10), count.Load())
	assert.Equal(t, int32(1), panics.Load())
}

func TestSystemOnGoExecutor(t *testing.T) {
	e := NewGoExecutor()
	cfg := DefaultSystemConfig()
	cfg.Executor = e
	cfg.Logger = discardLogger()
	sys := NewSystemWithConfig("go", cfg)
	t.Cleanup(func() {
		_ = sys.Shutdown()
		e.Close()
		e.Wait()
	})

	ch := make(chan int, 100)
	addr := Spawn(sys, recorder(ch))
	for i := 0; i < 100; i++ {
		addr.Tell(i)
	}
	got := receiveN(t, ch, 100)
	for i, v := range got {
		require.Equal(t, i, v)
	}
}
