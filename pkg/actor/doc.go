// Package actor 提供最小化的 Actor 运行时
//
// Actor 模式是一种并发计算模型，每个 Actor 是独立的计算单元：
// • 拥有私有状态（当前 [Behavior]，无需锁保护）
// • 通过无界邮箱（[Mailbox]）接收消息
// • 消息处理串行化（同一时刻最多一个 goroutine 处理同一 Actor）
// • 处理消息后可以替换自己的行为、发送消息、创建新 Actor
//
// # 核心组件
//
// [System] 持有调度资源，负责统一关闭：
//
//	sys := actor.NewSystem("my-system")
//	defer sys.Shutdown()
//
// [Behavior] 描述如何处理下一条消息，[BehaviorFunc] 提供函数式快捷方式。
// 处理结果是一个 [Effect]：[Stay] 保持当前行为，[Become] 切换到新行为，
// [Die] 进入终止行为，之后的消息都会被记录并丢弃。
//
// [Address] 是 Actor 的唯一外部句柄，[Address.Tell] 异步投递消息，永不阻塞。
// [Spawn] 把新 Actor 的地址交给初始行为的构造函数，Actor 因此可以在构造时引用自己：
//
//	counter := actor.Spawn(sys, func(self actor.Address[int]) actor.Behavior[int] {
//		total := 0
//		return actor.BehaviorFunc[int](func(n int) actor.Effect[int] {
//			total += n
//			return actor.Stay[int]()
//		})
//	})
//	counter.Tell(1)
//
// # 调度策略
//
// [DispatcherShared] 所有 Actor 共享一个固定大小的 [WorkerPool]。
// 每个 Actor 有一个 CAS 调度门，每个 drain 任务只处理一条消息，
// 结束时释放调度门并重新检查邮箱，保证不丢失唤醒。
//
// [DispatcherDedicated] 每个 Actor 独占一个 goroutine，阻塞等待消息，
// 系统关闭时退出。
//
// 两种策略可互换，通过 [SystemConfig].Dispatcher 或 [Props].Dispatcher 选择。
//
// # 故障
//
// 行为中的 panic 只影响当前这条消息：共享调度下由 worker 池恢复并交给 [PanicHandler]，
// 独占调度下由消息循环恢复，Actor 保持原行为继续处理后续消息。
// 无法识别的消息可用 [Unhandled] 显式报告。
//
// # 生命周期
//
// 系统不保存 Actor 注册表。Actor 没有显式停止操作，
// 进入终止行为后不再做任何事，地址不可达后由垃圾回收释放。
//
// 完整使用示例请参考 example_test.go 或运行 go doc -all。
package actor
