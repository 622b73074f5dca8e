package actor

// Timer 计时器，操作结束时调用 ObserveDuration
type Timer interface {
	ObserveDuration()
}

// Metrics Actor 运行时指标接口
// 所有方法必须并发安全
type Metrics interface {
	// Actor
	ActorSpawned(dispatcher string)

	// 消息
	MessageTold(dispatcher string)
	MessageProcessed(dispatcher string, success bool)
	MessageDuration(dispatcher string) Timer

	// 调度
	SubmitRejected()
	TaskPanicked()
	PoolQueueDepth(depth int)
}

type nopTimer struct{}

func (nopTimer) ObserveDuration() {}

// nopMetrics 空实现
type nopMetrics struct{}

func (nopMetrics) ActorSpawned(string)           {}
func (nopMetrics) MessageTold(string)            {}
func (nopMetrics) MessageProcessed(string, bool) {}
func (nopMetrics) MessageDuration(string) Timer  { return nopTimer{} }
func (nopMetrics) SubmitRejected()               {}
func (nopMetrics) TaskPanicked()                 {}
func (nopMetrics) PoolQueueDepth(int)            {}

// NopMetrics 返回空指标实现
func NopMetrics() Metrics { return nopMetrics{} }
