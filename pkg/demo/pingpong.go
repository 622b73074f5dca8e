package demo

import (
	"fmt"
	"io"

	"github.com/lwmacct/251217-go-pkg-minactor/pkg/actor"
)

// ═══════════════════════════════════════════════════════════════════════════
// 消息定义
// ═══════════════════════════════════════════════════════════════════════════

// Ping 发给 ponger
type Ping struct {
	Sender actor.Address[Pong]
}

// Pong 发给 pinger 的消息
type Pong interface {
	isPong()
}

// SimplePong 普通回复
type SimplePong struct {
	Sender actor.Address[Ping]
}

// DeadlyPong 最后一次回复，发送后 ponger 终止
type DeadlyPong struct {
	Sender actor.Address[Ping]
}

func (SimplePong) isPong() {}
func (DeadlyPong) isPong() {}

// DefaultRounds 默认回合数
const DefaultRounds = 10

// ═══════════════════════════════════════════════════════════════════════════
// PingPong
// ═══════════════════════════════════════════════════════════════════════════

// PingPong 启动 ping-pong 交互
//
// ponger 回复 rounds 次 SimplePong 后回复 DeadlyPong 并终止；
// pinger 对每个 Pong 回复 Ping，收到 DeadlyPong 后终止。
// 共 rounds+1 次往返。返回的通道在 pinger 终止时关闭。
// stateful 为 true 时 ponger 使用可变计数器而非 Become 链。
func PingPong(sys *actor.System, w io.Writer, rounds int, stateful bool) <-chan struct{} {
	done := make(chan struct{})

	var ponger actor.Address[Ping]
	if stateful {
		ponger = actor.SpawnNamed(sys, "ponger", func(self actor.Address[Ping]) actor.Behavior[Ping] {
			return &statefulPonger{self: self, w: w, rounds: rounds}
		})
	} else {
		ponger = actor.SpawnNamed(sys, "ponger", func(self actor.Address[Ping]) actor.Behavior[Ping] {
			return pongerBehavior(self, w, rounds, 0)
		})
	}

	pinger := actor.SpawnNamed(sys, "pinger", func(self actor.Address[Pong]) actor.Behavior[Pong] {
		return pingerBehavior(self, w, done)
	})

	ponger.Tell(Ping{Sender: pinger})
	return done
}

// pongerBehavior 以 Become 链保存计数
func pongerBehavior(self actor.Address[Ping], w io.Writer, rounds, counter int) actor.Behavior[Ping] {
	return actor.BehaviorFunc[Ping](func(msg Ping) actor.Effect[Ping] {
		if counter < rounds {
			fmt.Fprintln(w, "ping! 👉")
			msg.Sender.Tell(SimplePong{Sender: self})
			return actor.Become(pongerBehavior(self, w, rounds, counter+1))
		}
		fmt.Fprintln(w, "ping! 💀")
		msg.Sender.Tell(DeadlyPong{Sender: self})
		return actor.Die[Ping]()
	})
}

// statefulPonger 计数器保存在行为内部
// 行为只被所属 Actor 串行访问，字段无需同步
type statefulPonger struct {
	self    actor.Address[Ping]
	w       io.Writer
	rounds  int
	counter int
}

// Receive 实现 actor.Behavior 接口
func (p *statefulPonger) Receive(msg Ping) actor.Effect[Ping] {
	if p.counter < p.rounds {
		p.counter++
		fmt.Fprintln(p.w, "ping! 👉")
		msg.Sender.Tell(SimplePong{Sender: p.self})
		return actor.Stay[Ping]()
	}
	fmt.Fprintln(p.w, "ping! 💀")
	msg.Sender.Tell(DeadlyPong{Sender: p.self})
	return actor.Die[Ping]()
}

func pingerBehavior(self actor.Address[Pong], w io.Writer, done chan struct{}) actor.Behavior[Pong] {
	return actor.BehaviorFunc[Pong](func(msg Pong) actor.Effect[Pong] {
		switch m := msg.(type) {
		case SimplePong:
			fmt.Fprintln(w, "pong! 👈")
			m.Sender.Tell(Ping{Sender: self})
			return actor.Stay[Pong]()
		case DeadlyPong:
			fmt.Fprintln(w, "pong! 😵")
			m.Sender.Tell(Ping{Sender: self})
			close(done)
			return actor.Die[Pong]()
		default:
			return actor.Unhandled(msg)
		}
	})
}
