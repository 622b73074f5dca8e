package actor

import (
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailboxFIFO(t *testing.T) {
	m := NewMailbox[int]()
	assert.True(t, m.IsEmpty())

	for i := 0; i < 5; i++ {
		m.Push(i)
	}
	assert.False(t, m.IsEmpty())
	assert.Equal(t, 5, m.Len())

	for i := 0; i < 5; i++ {
		v, ok := m.Pop()
		require.True(t, ok)
		assert.Equal(t, i, v)
	}

	_, ok := m.Pop()
	assert.False(t, ok)
	assert.True(t, m.IsEmpty())
	assert.Zero(t, m.Len())
}

func TestMailboxConcurrentProducers(t *testing.T) {
	const (
		producers = 8
		perProd   = 1000
	)
	m := NewMailbox[int]()

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Go(func() {
			for i := 0; i < perProd; i++ {
				m.Push(p*perProd + i)
			}
		})
	}
	wg.Wait()

	got := make([]int, 0, producers*perProd)
	last := make(map[int]int)
	for {
		v, ok := m.Pop()
		if !ok {
			break
		}
		// 同一生产者的消息保持顺序
		p := v / perProd
		if prev, seen := last[p]; seen {
			require.Greater(t, v, prev)
		}
		last[p] = v
		got = append(got, v)
	}

	require.Len(t, got, producers*perProd)
	sort.Ints(got)
	for i, v := range got {
		require.Equal(t, i, v)
	}
}

func TestMailboxPushDuringPop(t *testing.T) {
	m := NewMailbox[string]()
	done := make(chan struct{})

	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			m.Push("x")
		}
	}()

	received := 0
	for received < 1000 {
		if _, ok := m.Pop(); ok {
			received++
		}
	}
	<-done
	assert.True(t, m.IsEmpty())
}
