package demo

import (
	"fmt"
	"io"

	"github.com/lwmacct/251217-go-pkg-minactor/pkg/actor"
)

// Hello 创建一个只处理一条消息的 Actor
// 输出自身地址与消息长度后进入终止行为，之后的消息被丢弃
func Hello(sys *actor.System, w io.Writer) actor.Address[string] {
	return actor.Spawn(sys, func(self actor.Address[string]) actor.Behavior[string] {
		return actor.BehaviorFunc[string](func(msg string) actor.Effect[string] {
			fmt.Fprintf(w, "self: %v; got msg: '%s'; length: %d\n", self, msg, len(msg))
			return actor.Die[string]()
		})
	})
}
