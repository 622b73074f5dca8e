package demo

import (
	"fmt"
	"io"

	"github.com/lwmacct/251217-go-pkg-minactor/pkg/actor"
)

// Vend 自动售货机消息
type Vend interface {
	isVend()
}

// Coin 投币，面额有效范围 1..100
type Coin struct {
	Amount int
}

// Choice 选择商品
type Choice struct {
	Product string
}

func (Coin) isVend()   {}
func (Choice) isVend() {}

// Price 商品价格
const Price = 100

// Valid 面额是否有效
func (c Coin) Valid() bool {
	return c.Amount >= 1 && c.Amount <= 100
}

// VendingMachine 创建自动售货机 Actor
//
// 状态: 等待首枚硬币 → 累计投币 → 等待选择 → 出货找零后回到初始状态。
// 无效硬币和当前状态不接受的消息都被忽略。
func VendingMachine(sys *actor.System, w io.Writer) actor.Address[Vend] {
	return actor.SpawnNamed(sys, "vending-machine", func(self actor.Address[Vend]) actor.Behavior[Vend] {
		return vendInitial(w)
	})
}

func vendInitial(w io.Writer) actor.Behavior[Vend] {
	return actor.BehaviorFunc[Vend](func(msg Vend) actor.Effect[Vend] {
		if c, ok := msg.(Coin); ok && c.Valid() {
			fmt.Fprintf(w, "Received first coin: %d\n", c.Amount)
			return actor.Become(vendWaitCoin(w, c.Amount))
		}
		return actor.Stay[Vend]()
	})
}

func vendWaitCoin(w io.Writer, counter int) actor.Behavior[Vend] {
	return actor.BehaviorFunc[Vend](func(msg Vend) actor.Effect[Vend] {
		c, ok := msg.(Coin)
		if !ok || !c.Valid() {
			return actor.Stay[Vend]()
		}

		count := counter + c.Amount
		if count < Price {
			fmt.Fprintf(w, "Received coin: %d of %d\n", count, Price)
			return actor.Become(vendWaitCoin(w, count))
		}
		fmt.Fprintf(w, "Received last coin: %d of %d\n", count, Price)
		return actor.Become(vendChoose(w, count-Price))
	})
}

func vendChoose(w io.Writer, change int) actor.Behavior[Vend] {
	return actor.BehaviorFunc[Vend](func(msg Vend) actor.Effect[Vend] {
		c, ok := msg.(Choice)
		if !ok {
			return actor.Stay[Vend]()
		}
		fmt.Fprintf(w, "VENDING: %s\n", c.Product)
		fmt.Fprintf(w, "CHANGE: %d\n", change)
		return actor.Become(vendInitial(w))
	})
}
