package actor

import "sync/atomic"

// node 邮箱链表节点
type node[T any] struct {
	next  atomic.Pointer[node[T]]
	value T
}

// Mailbox 无界多生产者单消费者（MPSC）队列
//
// 并发模型:
//   - Push 可被任意多个 goroutine 并发调用，永不阻塞
//   - Pop 同一时刻只能有一个调用者（由调度器保证）
//
// 单个生产者的消息保持 FIFO，多个生产者之间不保证全局顺序。
// IsEmpty 在生产者交换 tail 与链接节点之间可能短暂返回 true，
// 该生产者随后的调度检查会补上这次唤醒，消息不会丢失。
type Mailbox[T any] struct {
	// 消费者与生产者分占不同缓存行
	head atomic.Pointer[node[T]] // 仅消费者
	_    [64]byte
	tail atomic.Pointer[node[T]] // 仅生产者
	_    [64]byte
	size atomic.Int64
}

// NewMailbox 创建邮箱
// 以一个哑节点开始，生产者交换 tail 后通过前驱节点链接
func NewMailbox[T any]() *Mailbox[T] {
	dummy := &node[T]{}
	m := &Mailbox[T]{}
	m.head.Store(dummy)
	m.tail.Store(dummy)
	return m
}

// Push 入队
func (m *Mailbox[T]) Push(value T) {
	n := &node[T]{value: value}
	prev := m.tail.Swap(n)
	prev.next.Store(n)
	m.size.Add(1)
}

// Pop 出队，邮箱为空时返回 false
func (m *Mailbox[T]) Pop() (T, bool) {
	head := m.head.Load()
	next := head.next.Load()
	if next == nil {
		var zero T
		return zero, false
	}

	m.head.Store(next)
	value := next.value
	// 释放引用，新的哑节点不再持有消息
	var zero T
	next.value = zero
	m.size.Add(-1)
	return value, true
}

// IsEmpty 邮箱是否为空，O(1)
func (m *Mailbox[T]) IsEmpty() bool {
	return m.head.Load().next.Load() == nil
}

// Len 近似长度，仅用于诊断
func (m *Mailbox[T]) Len() int {
	n := m.size.Load()
	if n < 0 {
		return 0
	}
	return int(n)
}
