package channels

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lwmacct/251217-go-pkg-minactor/pkg/actor"
)

// event ReadLines 产生的通知
type event struct {
	line string
	end  bool
	err  error
}

func newSystem(t *testing.T) *actor.System {
	t.Helper()
	cfg := actor.DefaultSystemConfig()
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	sys := actor.NewSystemWithConfig("channels", cfg)
	t.Cleanup(func() { _ = sys.Shutdown() })
	return sys
}

func collect(sys *actor.System, out chan event) actor.Address[event] {
	return actor.Spawn(sys, func(actor.Address[event]) actor.Behavior[event] {
		return actor.BehaviorFunc[event](func(e event) actor.Effect[event] {
			out <- e
			return actor.Stay[event]()
		})
	})
}

func TestReadLines(t *testing.T) {
	sys := newSystem(t)
	out := make(chan event, 4)
	target := collect(sys, out)

	done := ReadLines(ScanLines(strings.NewReader("a\nb\nc\n")), target,
		func(line string) event { return event{line: line} },
		func(err error) event { return event{end: true, err: err} })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reader did not finish")
	}

	var got []event
	for i := 0; i < 4; i++ {
		select {
		case e := <-out:
			got = append(got, e)
		case <-time.After(time.Second):
			t.Fatal("missing notification")
		}
	}
	assert.Equal(t, []event{{line: "a"}, {line: "b"}, {line: "c"}, {end: true}}, got)
}

// failingReader 读出一行后返回错误
type failingReader struct {
	n int
}

var errBroken = errors.New("broken pipe")

func (r *failingReader) ReadLine() (string, error) {
	r.n++
	if r.n == 1 {
		return "only", nil
	}
	return "", errBroken
}

func TestReadLinesReportsError(t *testing.T) {
	sys := newSystem(t)
	out := make(chan event, 2)
	target := collect(sys, out)

	ReadLines[event](&failingReader{}, target,
		func(line string) event { return event{line: line} },
		func(err error) event { return event{end: true, err: err} })

	assert.Equal(t, event{line: "only"}, <-out)
	e := <-out
	assert.True(t, e.end)
	assert.ErrorIs(t, e.err, errBroken)
}

// syncBuffer 并发安全的缓冲
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWriter(t *testing.T) {
	sys := newSystem(t)
	buf := &syncBuffer{}

	w := actor.Spawn(sys, func(actor.Address[WriteLine]) actor.Behavior[WriteLine] {
		return Writer(Lines(buf), nil)
	})
	w.Tell(WriteLine{Payload: "one"})
	w.Tell(WriteLine{Payload: "two"})

	require.Eventually(t, func() bool {
		return buf.String() == "one\ntwo\n"
	}, time.Second, 5*time.Millisecond)
}

type brokenWriter struct{}

func (brokenWriter) WriteLine(string) error { return errBroken }

func TestWriterDiesOnError(t *testing.T) {
	b := Writer(brokenWriter{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	next := actor.Next(b, WriteLine{Payload: "x"})
	assert.True(t, actor.IsDead(next))
}
