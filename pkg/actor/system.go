package actor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// ErrSystemStopped 系统已关闭
var ErrSystemStopped = errors.New("actor: system stopped")

// System Actor 系统
// 持有调度资源（worker 池、独占 goroutine）并负责统一关闭。
// 系统不保存 Actor 注册表，Actor 的生命周期由其 Address 的可达性决定。
type System struct {
	// 基本信息
	name string

	// 调度
	executor Executor
	pool     *WorkerPool // 系统自建的 worker 池，Shutdown 时关闭

	// 生命周期控制
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup // 独占 goroutine
	mu        sync.Mutex     // 保护 isRunning 与 wg.Add 的先后关系
	isRunning atomic.Bool

	// 配置
	config *SystemConfig

	// 统计与指标
	stats   *statsCollector
	metrics Metrics

	// 日志
	logger *slog.Logger
}

// SystemConfig 系统配置
type SystemConfig struct {
	// Dispatcher 未在 Props 中指定时使用的调度器
	Dispatcher Dispatcher
	// Workers 共享 worker 池大小，<= 0 时使用 GOMAXPROCS
	Workers int
	// Executor 自定义任务执行器，设置后不再创建 worker 池，其关闭由调用方负责
	Executor Executor
	// PanicHandler 行为 panic 处理函数，为空时记录错误日志
	PanicHandler PanicHandler
	// OnRejected drain 任务提交失败回调，每个 Actor 至多触发一次
	OnRejected func(actor string, err error)
	// Logger 自定义日志器
	Logger *slog.Logger
	// Metrics 指标实现
	Metrics Metrics
}

// DefaultSystemConfig 默认系统配置
func DefaultSystemConfig() *SystemConfig {
	return &SystemConfig{
		Dispatcher:   DispatcherShared,
		Workers:      runtime.GOMAXPROCS(0),
		Executor:     nil, // 使用内置 worker 池
		PanicHandler: nil, // 使用默认处理
		Logger:       nil, // 使用包级 logger
		Metrics:      nil, // 不采集
	}
}

// NewSystem 创建新的 Actor 系统
func NewSystem(name string) *System {
	return NewSystemWithConfig(name, DefaultSystemConfig())
}

// NewSystemWithConfig 使用配置创建 Actor 系统
func NewSystemWithConfig(name string, config *SystemConfig) *System {
	if config == nil {
		config = DefaultSystemConfig()
	}

	ctx, cancel := context.WithCancel(context.Background())

	l := config.Logger
	if l == nil {
		l = defaultLogger()
	}
	metrics := config.Metrics
	if metrics == nil {
		metrics = NopMetrics()
	}

	s := &System{
		name:    name,
		ctx:     ctx,
		cancel:  cancel,
		config:  config,
		stats:   newStatsCollector(),
		metrics: metrics,
		logger:  l.With("system", name),
	}

	s.executor = config.Executor
	if s.executor == nil {
		s.pool = NewWorkerPool(config.Workers,
			WithPoolLogger(s.logger),
			WithPanicHandler(config.PanicHandler),
			WithPoolMetrics(metrics))
		s.executor = s.pool
	}

	s.isRunning.Store(true)

	workers := 0
	if s.pool != nil {
		workers = s.pool.Size()
	}
	s.logger.Info("actor system started",
		"name", name,
		"dispatcher", config.Dispatcher.String(),
		"workers", workers)
	return s
}

// Name 返回系统名称
func (s *System) Name() string {
	return s.name
}

// Context 返回系统上下文，Shutdown 时取消
func (s *System) Context() context.Context {
	return s.ctx
}

// Logger 返回系统日志器
func (s *System) Logger() *slog.Logger {
	return s.logger
}

// ============== 创建 Actor ==============

// Spawn 创建 Actor
//
// initial 接收新 Actor 自己的地址并返回初始行为，
// 在 initial 中向 self 投递的消息会在初始行为就位后按序处理。
func Spawn[T any](s *System, initial func(self Address[T]) Behavior[T]) Address[T] {
	return SpawnWithProps(s, &Props{Dispatcher: s.config.Dispatcher}, initial)
}

// SpawnNamed 创建具名 Actor，使用系统默认调度器
func SpawnNamed[T any](s *System, name string, initial func(self Address[T]) Behavior[T]) Address[T] {
	return SpawnWithProps(s, &Props{Name: name, Dispatcher: s.config.Dispatcher}, initial)
}

// SpawnWithProps 使用属性创建 Actor
// initial 返回 nil 时 panic
func SpawnWithProps[T any](s *System, props *Props, initial func(self Address[T]) Behavior[T]) Address[T] {
	if props == nil {
		props = &Props{Dispatcher: s.config.Dispatcher}
	}
	id := props.Name
	if id == "" {
		id = uuid.NewString()
	}

	var (
		addr  Address[T]
		start func(Behavior[T])
	)
	switch props.Dispatcher {
	case DispatcherDedicated:
		c := newDedicatedCell[T](s, id)
		addr, start = c, c.start
	default:
		c := newSharedCell[T](s, id)
		addr, start = c, c.start
	}

	behavior := initial(addr)
	if behavior == nil {
		panic(fmt.Sprintf("actor %s: initial behavior is nil", id))
	}

	s.stats.recordSpawned()
	s.metrics.ActorSpawned(props.Dispatcher.String())
	start(behavior)

	s.logger.Debug("spawned actor", "actor", id, "dispatcher", props.Dispatcher.String())
	return addr
}

// ============== 内部记录 ==============

// recordTold 记录一次投递
func (s *System) recordTold(d Dispatcher) {
	s.stats.recordTold()
	s.metrics.MessageTold(d.String())
}

// reportRejected 记录 drain 任务提交失败
// first 为 true 时记录日志并触发 OnRejected
func (s *System) reportRejected(actor string, err error, first bool) {
	s.stats.recordReject()
	s.metrics.SubmitRejected()
	if !first {
		return
	}

	if s.isRunning.Load() {
		s.logger.Error("drain task rejected by executor", "actor", actor, "error", err)
	} else {
		s.logger.Debug("drain task rejected after shutdown", "actor", actor, "error", err)
	}
	if s.config.OnRejected != nil {
		s.config.OnRejected(actor, err)
	}
}

// track 登记一个独占 goroutine，系统已关闭时返回 false
func (s *System) track() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning.Load() {
		return false
	}
	s.wg.Add(1)
	return true
}

// ============== 关闭 ==============

// Shutdown 关闭整个 Actor 系统
func (s *System) Shutdown() error {
	return s.ShutdownWithTimeout(30 * time.Second)
}

// ShutdownWithTimeout 带超时的关闭
//
// 关闭后 Tell 仍可调用，但消息不再被处理：
// 共享调度的提交被拒绝，独占 goroutine 退出。
func (s *System) ShutdownWithTimeout(timeout time.Duration) error {
	s.mu.Lock()
	if !s.isRunning.Load() {
		s.mu.Unlock()
		return ErrSystemStopped
	}
	s.isRunning.Store(false)
	s.mu.Unlock()

	s.logger.Info("actor system shutting down", "name", s.name)

	// 取消上下文，独占 goroutine 退出
	s.cancel()

	// 关闭 worker 池，已排队的 drain 任务执行完毕
	if s.pool != nil {
		s.pool.Close()
	}

	// 等待所有 goroutine 完成
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		if s.pool != nil {
			s.pool.Wait()
		}
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("actor system shutdown complete", "name", s.name)
		return nil
	case <-time.After(timeout):
		s.logger.Warn("actor system shutdown timeout, forcing exit", "name", s.name)
		return fmt.Errorf("actor system %s: shutdown timed out after %v", s.name, timeout)
	}
}

// Stats 获取统计信息
func (s *System) Stats() *SystemStats {
	return s.stats.snapshot()
}

// IsRunning 检查系统是否运行中
func (s *System) IsRunning() bool {
	return s.isRunning.Load()
}
