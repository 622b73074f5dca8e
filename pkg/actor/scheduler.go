package actor

import (
	"sync/atomic"
	"time"
)

// schedState 调度状态
type schedState int32

const (
	stateIdle schedState = iota
	stateRunning
)

// gate 单所有者调度门
// 同一 Actor 同一时刻最多一个 drain 任务持有 gate；
// release → tryAcquire 构成 happens-before 边，保证上一个 drain 任务写入的 behavior 对下一个可见
type gate struct {
	state atomic.Int32
}

func (g *gate) tryAcquire() bool {
	return g.state.CompareAndSwap(int32(stateIdle), int32(stateRunning))
}

func (g *gate) release() {
	g.state.Store(int32(stateIdle))
}

func (g *gate) held() bool {
	return schedState(g.state.Load()) == stateRunning
}

// ═══════════════════════════════════════════════════════════════════════════
// sharedCell 共享 worker 池调度的 Actor 单元
// ═══════════════════════════════════════════════════════════════════════════

// sharedCell 共享调度策略下的 Actor
//
// 每个 drain 任务最多处理一条消息，然后释放 gate 并重新检查邮箱，
// 避免单个 Actor 长时间占用 worker，也避免"邮箱刚判空、gate 尚未释放"时到达的消息被遗漏。
type sharedCell[T any] struct {
	id       string
	system   *System
	mailbox  *Mailbox[T]
	behavior Behavior[T] // 仅在持有 gate 时读写
	gate     gate
	reported atomic.Bool // 是否已报告过提交失败
}

// newSharedCell 创建 Actor 单元
// 构造期间 gate 处于 running，initial 中的 Tell 只入队不调度，直到 start
func newSharedCell[T any](s *System, id string) *sharedCell[T] {
	c := &sharedCell[T]{
		id:      id,
		system:  s,
		mailbox: NewMailbox[T](),
	}
	c.gate.state.Store(int32(stateRunning))
	return c
}

// Tell 实现 Address 接口
func (c *sharedCell[T]) Tell(msg T) {
	c.mailbox.Push(msg)
	c.system.recordTold(DispatcherShared)
	c.schedule()
}

// String 返回 Actor 标识
func (c *sharedCell[T]) String() string {
	return c.id
}

// start 设置初始行为并开放调度
func (c *sharedCell[T]) start(initial Behavior[T]) {
	c.behavior = initial
	c.gate.release()
	c.schedule()
}

// schedule 邮箱非空且 gate 空闲时提交 drain 任务
func (c *sharedCell[T]) schedule() {
	if c.mailbox.IsEmpty() || !c.gate.tryAcquire() {
		return
	}
	if err := c.system.executor.Submit(c.drain); err != nil {
		// 必须先释放 gate，否则邮箱永远不会再被调度
		c.gate.release()
		c.system.reportRejected(c.id, err, c.reported.CompareAndSwap(false, true))
	}
}

// drain 处理至多一条消息
// 行为 panic 不在此处 recover，由 Executor 处理；defer 保证 gate 依然被释放
func (c *sharedCell[T]) drain() {
	defer func() {
		c.gate.release()
		c.schedule()
	}()

	if !c.gate.held() {
		return
	}
	msg, ok := c.mailbox.Pop()
	if !ok {
		return
	}
	c.behavior = process(c.system, DispatcherShared, c.behavior, msg)
}

// process 应用行为变换并记录统计
// panic 时记录故障后继续向上传播
func process[T any](s *System, d Dispatcher, current Behavior[T], msg T) Behavior[T] {
	timer := s.metrics.MessageDuration(d.String())
	start := time.Now()
	success := false
	defer func() {
		timer.ObserveDuration()
		s.metrics.MessageProcessed(d.String(), success)
		if success {
			s.stats.recordProcessed(time.Since(start))
		} else {
			s.stats.recordFault()
		}
	}()

	next := Next(current, msg)
	success = true
	return next
}
