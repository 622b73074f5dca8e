package actor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// getCount 查询计数
type getCount struct {
	replyTo Address[int]
}

type counterMsg struct {
	add int
	get *getCount
}

func spawnCounter(s *System) Address[counterMsg] {
	return SpawnNamed(s, "counter", func(Address[counterMsg]) Behavior[counterMsg] {
		total := 0
		return BehaviorFunc[counterMsg](func(msg counterMsg) Effect[counterMsg] {
			total += msg.add
			if msg.get != nil {
				msg.get.replyTo.Tell(total)
			}
			return Stay[counterMsg]()
		})
	})
}

func TestAsk(t *testing.T) {
	for _, d := range dispatchers {
		t.Run(d.String(), func(t *testing.T) {
			sys := newTestSystem(t, d)
			counter := spawnCounter(sys)

			counter.Tell(counterMsg{add: 2})
			counter.Tell(counterMsg{add: 3})

			n, err := Ask(sys, counter, func(reply Address[int]) counterMsg {
				return counterMsg{get: &getCount{replyTo: reply}}
			}, time.Second)
			require.NoError(t, err)
			assert.Equal(t, 5, n)
		})
	}
}

func TestAskTimeout(t *testing.T) {
	sys := newTestSystem(t, DispatcherShared)
	silent := SpawnNamed(sys, "silent", func(Address[counterMsg]) Behavior[counterMsg] {
		return BehaviorFunc[counterMsg](Ignore[counterMsg])
	})

	_, err := Ask(sys, silent, func(reply Address[int]) counterMsg {
		return counterMsg{get: &getCount{replyTo: reply}}
	}, 50*time.Millisecond)
	require.Error(t, err)

	var timeout *ResponseTimeout
	require.ErrorAs(t, err, &timeout)
	assert.Equal(t, "silent", timeout.Target)
	assert.Equal(t, 50*time.Millisecond, timeout.Timeout)
}

func TestAskWithContextCanceled(t *testing.T) {
	sys := newTestSystem(t, DispatcherShared)
	silent := Spawn(sys, func(Address[counterMsg]) Behavior[counterMsg] {
		return BehaviorFunc[counterMsg](Ignore[counterMsg])
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := AskWithContext(ctx, sys, silent, func(reply Address[int]) counterMsg {
		return counterMsg{get: &getCount{replyTo: reply}}
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAskAfterShutdown(t *testing.T) {
	cfg := DefaultSystemConfig()
	cfg.Logger = discardLogger()
	sys := NewSystemWithConfig("stopped", cfg)
	counter := spawnCounter(sys)
	require.NoError(t, sys.Shutdown())

	_, err := Ask(sys, counter, func(reply Address[int]) counterMsg {
		return counterMsg{get: &getCount{replyTo: reply}}
	}, time.Second)
	assert.ErrorIs(t, err, ErrSystemStopped)
}

func TestLateReplyIsDropped(t *testing.T) {
	sys := newTestSystem(t, DispatcherShared)

	// 回复两次，第二次由已终止的临时 Actor 静默丢弃
	twice := Spawn(sys, func(Address[Address[int]]) Behavior[Address[int]] {
		return BehaviorFunc[Address[int]](func(reply Address[int]) Effect[Address[int]] {
			reply.Tell(1)
			reply.Tell(2)
			return Stay[Address[int]]()
		})
	})

	n, err := Ask(sys, twice, func(reply Address[int]) Address[int] { return reply }, time.Second)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
