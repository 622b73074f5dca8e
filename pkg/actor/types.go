package actor

import (
	"fmt"
	"time"
)

// Behavior Actor 行为
// 描述 Actor 如何处理下一条消息，返回的 Effect 决定之后的行为
type Behavior[T any] interface {
	// Receive 处理一条消息
	Receive(msg T) Effect[T]
}

// BehaviorFunc 函数式 Behavior，便于用闭包描述状态
type BehaviorFunc[T any] func(msg T) Effect[T]

// Receive 实现 Behavior 接口
func (f BehaviorFunc[T]) Receive(msg T) Effect[T] {
	return f(msg)
}

// Effect 行为变换
// 输入当前 Behavior，输出下一个 Behavior
type Effect[T any] func(current Behavior[T]) Behavior[T]

// Address Actor 地址
// 唯一的操作是投递消息，可被任意多个持有者共享
type Address[T any] interface {
	// Tell 投递消息（fire-and-forget），永不阻塞
	Tell(msg T)
}

// Stay 保持当前行为
func Stay[T any]() Effect[T] {
	return func(current Behavior[T]) Behavior[T] { return current }
}

// Become 切换到新行为，忽略当前行为
func Become[T any](next Behavior[T]) Effect[T] {
	return func(Behavior[T]) Behavior[T] { return next }
}

// Die 进入终止行为
// 之后收到的每条消息都会被记录并丢弃，Actor 仍可调度但不再做任何事
func Die[T any]() Effect[T] {
	return DieWith(dropMessage[T])
}

// DieWith 进入终止行为，使用自定义的丢弃动作
func DieWith[T any](drop func(msg T)) Effect[T] {
	dead := &deadBehavior[T]{drop: drop}
	return Become[T](dead)
}

// Next 计算处理 msg 之后的行为
// nil Effect 视为 Stay，Effect 返回 nil 同样保持当前行为
func Next[T any](current Behavior[T], msg T) Behavior[T] {
	effect := current.Receive(msg)
	if effect == nil {
		return current
	}
	if next := effect(current); next != nil {
		return next
	}
	return current
}

// deadBehavior 终止行为，对所有消息执行丢弃动作后保持不变
type deadBehavior[T any] struct {
	drop func(msg T)
}

// Receive 实现 Behavior 接口
func (d *deadBehavior[T]) Receive(msg T) Effect[T] {
	if d.drop != nil {
		d.drop(msg)
	}
	return Stay[T]()
}

// IsDead 判断行为是否为终止行为
func IsDead[T any](b Behavior[T]) bool {
	_, ok := b.(*deadBehavior[T])
	return ok
}

func dropMessage[T any](msg T) {
	defaultLogger().Warn("dropping message due to severe case of death", "message", fmt.Sprintf("%v", msg))
}

// ============== 未处理消息 ==============

// UnhandledMessageError 未处理消息错误
// 行为遇到无法识别的消息时，以此值 panic，由 worker 池的 panic 处理器接管
type UnhandledMessageError struct {
	Message any
}

// Error 实现 error 接口
func (e *UnhandledMessageError) Error() string {
	return fmt.Sprintf("unhandled message %T: %v", e.Message, e.Message)
}

// Unhandled 抛出未处理消息故障
// 在 type switch 的 default 分支中使用，显式表达"此消息不在预期范围内"
func Unhandled[T any](msg T) Effect[T] {
	panic(&UnhandledMessageError{Message: msg})
}

// Ignore 忽略消息，保持当前行为
// 与 Unhandled 相对，用于显式选择静默忽略
func Ignore[T any](T) Effect[T] {
	return Stay[T]()
}

// ============== 调度策略 ==============

// Dispatcher 调度器类型
type Dispatcher int

const (
	// DispatcherShared 共享调度器（多个 Actor 共享 worker 池，CAS 门控串行化）
	DispatcherShared Dispatcher = iota
	// DispatcherDedicated 独占调度器（每个 Actor 一个阻塞接收的 goroutine）
	DispatcherDedicated
)

// String 返回调度器名称
func (d Dispatcher) String() string {
	switch d {
	case DispatcherShared:
		return "shared"
	case DispatcherDedicated:
		return "dedicated"
	default:
		return "unknown"
	}
}

// ParseDispatcher 解析调度器名称
func ParseDispatcher(name string) (Dispatcher, error) {
	switch name {
	case "shared", "":
		return DispatcherShared, nil
	case "dedicated":
		return DispatcherDedicated, nil
	default:
		return DispatcherShared, fmt.Errorf("unknown dispatcher %q", name)
	}
}

// Props Actor 属性配置
type Props struct {
	// Name Actor 名称，为空时自动生成
	Name string
	// Dispatcher 调度器类型
	Dispatcher Dispatcher
}

// DefaultProps 默认属性
func DefaultProps(name string) *Props {
	return &Props{
		Name:       name,
		Dispatcher: DispatcherShared,
	}
}

// WithDispatcher 设置调度器
func (p *Props) WithDispatcher(d Dispatcher) *Props {
	p.Dispatcher = d
	return p
}

// ============== 请求/响应支持 ==============

// ResponseTimeout 响应超时错误
type ResponseTimeout struct {
	Target  string
	Timeout time.Duration
}

// Error 实现 error 接口
func (r *ResponseTimeout) Error() string {
	return fmt.Sprintf("request to %s timed out after %v", r.Target, r.Timeout)
}
