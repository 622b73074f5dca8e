package actor

import (
	"sync/atomic"
	"time"
)

// ═══════════════════════════════════════════════════════════════════════════
// 系统统计信息
// ═══════════════════════════════════════════════════════════════════════════

// SystemStats 系统统计快照
type SystemStats struct {
	TotalActors    int64         // 创建的 Actor 总数
	TotalMessages  int64         // Tell 的消息总数
	ProcessedMsgs  int64         // 处理完成的消息数
	Faults         int64         // 行为 panic 次数
	Rejected       int64         // 提交到 worker 池被拒绝的次数
	AverageLatency time.Duration // 单条消息平均处理耗时
	StartTime      time.Time
}

// statsCollector 使用原子操作的统计收集器
// 由 Tell 与 drain 任务在不同 goroutine 上并发更新
type statsCollector struct {
	actors         atomic.Int64
	messages       atomic.Int64
	processed      atomic.Int64
	faults         atomic.Int64
	rejected       atomic.Int64
	totalLatencyNs atomic.Int64

	startTime time.Time
}

func newStatsCollector() *statsCollector {
	return &statsCollector{startTime: time.Now()}
}

func (c *statsCollector) recordSpawned() { c.actors.Add(1) }
func (c *statsCollector) recordTold()    { c.messages.Add(1) }
func (c *statsCollector) recordFault()   { c.faults.Add(1) }
func (c *statsCollector) recordReject()  { c.rejected.Add(1) }

// recordProcessed 记录处理完成
func (c *statsCollector) recordProcessed(latency time.Duration) {
	c.processed.Add(1)
	c.totalLatencyNs.Add(int64(latency))
}

// snapshot 获取统计快照
func (c *statsCollector) snapshot() *SystemStats {
	processed := c.processed.Load()
	var avg time.Duration
	if processed > 0 {
		avg = time.Duration(c.totalLatencyNs.Load()) / time.Duration(processed)
	}

	return &SystemStats{
		TotalActors:    c.actors.Load(),
		TotalMessages:  c.messages.Load(),
		ProcessedMsgs:  processed,
		Faults:         c.faults.Load(),
		Rejected:       c.rejected.Load(),
		AverageLatency: avg,
		StartTime:      c.startTime,
	}
}
