package actor

// ═══════════════════════════════════════════════════════════════════════════
// dedicatedCell 独占 goroutine 的 Actor 单元
// ═══════════════════════════════════════════════════════════════════════════

// dedicatedCell 独占调度策略下的 Actor
// 一个长期运行的 goroutine 阻塞接收并逐条处理消息，行为只被该 goroutine 访问
type dedicatedCell[T any] struct {
	id      string
	system  *System
	mailbox *Mailbox[T]
	wakeup  chan struct{} // 容量 1，合并多次唤醒
}

func newDedicatedCell[T any](s *System, id string) *dedicatedCell[T] {
	return &dedicatedCell[T]{
		id:      id,
		system:  s,
		mailbox: NewMailbox[T](),
		wakeup:  make(chan struct{}, 1),
	}
}

// Tell 实现 Address 接口
func (c *dedicatedCell[T]) Tell(msg T) {
	c.mailbox.Push(msg)
	c.system.recordTold(DispatcherDedicated)
	select {
	case c.wakeup <- struct{}{}:
	default:
	}
}

// String 返回 Actor 标识
func (c *dedicatedCell[T]) String() string {
	return c.id
}

// start 启动消息循环
// initial 执行期间投递的消息已在邮箱中，循环启动后首先处理
func (c *dedicatedCell[T]) start(initial Behavior[T]) {
	if !c.system.track() {
		c.system.logger.Warn("actor system is not running, actor loop not started", "actor", c.id)
		return
	}
	go c.loop(initial)
}

// loop 消息循环，系统关闭时退出
func (c *dedicatedCell[T]) loop(behavior Behavior[T]) {
	defer c.system.wg.Done()

	for {
		if c.system.ctx.Err() != nil {
			c.system.logger.Debug("actor loop interrupted", "actor", c.id)
			return
		}

		msg, ok := c.mailbox.Pop()
		if !ok {
			select {
			case <-c.wakeup:
			case <-c.system.ctx.Done():
				c.system.logger.Debug("actor loop interrupted", "actor", c.id)
				return
			}
			continue
		}
		behavior = c.step(behavior, msg)
	}
}

// step 处理一条消息
// 行为 panic 时保持当前行为并继续循环
func (c *dedicatedCell[T]) step(current Behavior[T], msg T) (next Behavior[T]) {
	next = current
	defer func() {
		if r := recover(); r != nil {
			handlePanic(c.system.logger, c.system.config.PanicHandler, c.system.metrics, r)
		}
	}()
	return process(c.system, DispatcherDedicated, current, msg)
}
