package actor

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ═══════════════════════════════════════════════════════════════════════════
// 通用请求-回复辅助函数
// ═══════════════════════════════════════════════════════════════════════════

// Ask 向 Actor 发送请求并等待回复
//
// build 接收一个临时回复地址并构造请求消息，目标 Actor 向该地址 Tell 一次即完成回复。
// 临时 Actor 收到第一条回复后进入终止行为，迟到的回复被静默丢弃。
//
// 用法示例:
//
//	type GetCount struct{ ReplyTo actor.Address[int] }
//
//	n, err := actor.Ask(sys, counter, func(reply actor.Address[int]) Msg {
//		return GetCount{ReplyTo: reply}
//	}, time.Second)
func Ask[Req, Resp any](s *System, target Address[Req], build func(replyTo Address[Resp]) Req, timeout time.Duration) (Resp, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	resp, err := AskWithContext(ctx, s, target, build)
	if errors.Is(err, context.DeadlineExceeded) {
		return resp, &ResponseTimeout{Target: fmt.Sprint(target), Timeout: timeout}
	}
	return resp, err
}

// AskWithContext 带 context 的请求-回复
// context 取消或超时时返回 ctx.Err()
func AskWithContext[Req, Resp any](ctx context.Context, s *System, target Address[Req], build func(replyTo Address[Resp]) Req) (Resp, error) {
	var zero Resp
	if !s.IsRunning() {
		return zero, ErrSystemStopped
	}

	replyCh := make(chan Resp, 1)
	// 回复 Actor 固定使用共享调度，不占用独占 goroutine
	reply := SpawnWithProps(s, &Props{Dispatcher: DispatcherShared}, func(Address[Resp]) Behavior[Resp] {
		return BehaviorFunc[Resp](func(msg Resp) Effect[Resp] {
			replyCh <- msg
			return DieWith[Resp](nil)
		})
	})

	target.Tell(build(reply))

	select {
	case resp := <-replyCh:
		return resp, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
