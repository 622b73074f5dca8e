// Package untyped 以 any 作为消息类型的 Actor API
//
// 行为需要在运行时检查消息类型，无法识别的消息应显式
// 返回 [Stay]（忽略）或调用 [Unhandled]（报告故障）。
package untyped

import "github.com/lwmacct/251217-go-pkg-minactor/pkg/actor"

type (
	// Behavior 行为
	Behavior = actor.Behavior[any]
	// BehaviorFunc 函数式行为
	BehaviorFunc = actor.BehaviorFunc[any]
	// Effect 行为变换
	Effect = actor.Effect[any]
	// Address Actor 地址
	Address = actor.Address[any]
)

// Stay 保持当前行为
func Stay() Effect { return actor.Stay[any]() }

// Become 切换到新行为
func Become(next Behavior) Effect { return actor.Become(next) }

// Die 进入终止行为
func Die() Effect { return actor.Die[any]() }

// Unhandled 报告无法识别的消息
func Unhandled(msg any) Effect { return actor.Unhandled(msg) }

// ActorOf 创建 Actor，initial 直接接收自己的地址
func ActorOf(s *actor.System, initial func(self Address) Behavior) Address {
	return actor.Spawn(s, initial)
}

// ActorOfSelfAware 创建 Actor，通过首条消息告知其自身地址
//
// Actor 以占位行为启动，邮箱中的第一条消息是它自己的地址；
// 占位行为识别出该地址后切换到 initial(self) 构造的行为。
// 在此之前到达的其他消息都会被占位行为报告为未处理。
func ActorOfSelfAware(s *actor.System, initial func(self Address) Behavior) Address {
	return actor.Spawn(s, func(self Address) Behavior {
		self.Tell(self)
		return BehaviorFunc(func(msg any) Effect {
			if addr, ok := msg.(Address); ok && addr == self {
				return Become(initial(self))
			}
			return Unhandled(msg)
		})
	})
}
