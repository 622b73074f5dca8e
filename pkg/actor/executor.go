package actor

import (
	"errors"
	"log/slog"
	"runtime"
	"runtime/debug"
	"sync"
	"sync/atomic"
)

// ErrPoolClosed worker 池已关闭，拒绝新任务
var ErrPoolClosed = errors.New("actor: worker pool closed")

// Executor 任务提交接口
// Submit 在未来某个时刻、某个 goroutine 上执行 task，自身不得阻塞
type Executor interface {
	Submit(task func()) error
}

// ExecutorFunc 函数式 Executor
type ExecutorFunc func(task func()) error

// Submit 实现 Executor 接口
func (f ExecutorFunc) Submit(task func()) error {
	return f(task)
}

// PanicHandler 任务 panic 处理函数
type PanicHandler func(recovered any, stack []byte)

// ═══════════════════════════════════════════════════════════════════════════
// WorkerPool 固定大小的 worker 池
// ═══════════════════════════════════════════════════════════════════════════

// WorkerPool 固定数量 worker goroutine + 无界任务队列
//
// 共享调度策略下每个 Actor 同时最多只有一个待执行的 drain 任务，
// 队列长度因此受 Actor 数量约束，Submit 无需阻塞。
type WorkerPool struct {
	mu     sync.Mutex
	cond   *sync.Cond
	tasks  []func()
	closed bool
	wg     sync.WaitGroup

	size    int
	running atomic.Int32

	executorOptions
}

// executorOptions Executor 公共配置
type executorOptions struct {
	logger  *slog.Logger
	onPanic PanicHandler
	metrics Metrics
}

func newExecutorOptions(opts []PoolOption) executorOptions {
	o := executorOptions{
		logger:  defaultLogger(),
		metrics: NopMetrics(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// PoolOption worker 池选项
type PoolOption func(*executorOptions)

// WithPoolLogger 设置日志器
func WithPoolLogger(l *slog.Logger) PoolOption {
	return func(o *executorOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithPanicHandler 设置 panic 处理函数
func WithPanicHandler(h PanicHandler) PoolOption {
	return func(o *executorOptions) {
		o.onPanic = h
	}
}

// WithPoolMetrics 设置指标
func WithPoolMetrics(m Metrics) PoolOption {
	return func(o *executorOptions) {
		if m != nil {
			o.metrics = m
		}
	}
}

// NewWorkerPool 创建并启动 worker 池
// size <= 0 时使用 runtime.GOMAXPROCS(0)
func NewWorkerPool(size int, opts ...PoolOption) *WorkerPool {
	if size <= 0 {
		size = runtime.GOMAXPROCS(0)
	}

	p := &WorkerPool{
		size:            size,
		executorOptions: newExecutorOptions(opts),
	}
	p.cond = sync.NewCond(&p.mu)

	p.wg.Add(size)
	for i := 0; i < size; i++ {
		go p.worker()
	}
	return p
}

// Size 返回 worker 数量
func (p *WorkerPool) Size() int {
	return p.size
}

// Running 返回正在执行任务的 worker 数量
func (p *WorkerPool) Running() int {
	return int(p.running.Load())
}

// Submit 提交任务
func (p *WorkerPool) Submit(task func()) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrPoolClosed
	}
	p.tasks = append(p.tasks, task)
	depth := len(p.tasks)
	p.mu.Unlock()

	p.cond.Signal()
	p.metrics.PoolQueueDepth(depth)
	return nil
}

// Close 关闭 worker 池
// 之后的 Submit 返回 ErrPoolClosed，已排队的任务仍会执行完毕
func (p *WorkerPool) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.cond.Broadcast()
}

// Wait 等待所有 worker 退出（需先调用 Close）
func (p *WorkerPool) Wait() {
	p.wg.Wait()
}

// worker 任务循环
func (p *WorkerPool) worker() {
	defer p.wg.Done()

	for {
		p.mu.Lock()
		for len(p.tasks) == 0 && !p.closed {
			p.cond.Wait()
		}
		if len(p.tasks) == 0 {
			p.mu.Unlock()
			return
		}
		task := p.tasks[0]
		p.tasks[0] = nil
		p.tasks = p.tasks[1:]
		depth := len(p.tasks)
		p.mu.Unlock()

		p.metrics.PoolQueueDepth(depth)
		p.run(task)
	}
}

// run 执行单个任务，recover 任务中的 panic，worker 继续运行
func (p *WorkerPool) run(task func()) {
	p.running.Add(1)
	defer p.running.Add(-1)
	defer func() {
		if r := recover(); r != nil {
			handlePanic(p.logger, p.onPanic, p.metrics, r)
		}
	}()
	task()
}

// ═══════════════════════════════════════════════════════════════════════════
// GoExecutor 每个任务一个 goroutine
// ═══════════════════════════════════════════════════════════════════════════

// GoExecutor 每个任务启动一个新 goroutine，不限制并发
type GoExecutor struct {
	closed atomic.Bool
	wg     sync.WaitGroup

	executorOptions
}

// NewGoExecutor 创建 GoExecutor
func NewGoExecutor(opts ...PoolOption) *GoExecutor {
	return &GoExecutor{executorOptions: newExecutorOptions(opts)}
}

// Submit 实现 Executor 接口
func (e *GoExecutor) Submit(task func()) error {
	if e.closed.Load() {
		return ErrPoolClosed
	}
	e.wg.Go(func() {
		defer func() {
			if r := recover(); r != nil {
				handlePanic(e.logger, e.onPanic, e.metrics, r)
			}
		}()
		task()
	})
	return nil
}

// Close 拒绝后续任务
func (e *GoExecutor) Close() {
	e.closed.Store(true)
}

// Wait 等待已提交的任务完成
func (e *GoExecutor) Wait() {
	e.wg.Wait()
}

// handlePanic 记录并转交任务 panic
func handlePanic(l *slog.Logger, h PanicHandler, m Metrics, recovered any) {
	stack := debug.Stack()
	m.TaskPanicked()
	if h != nil {
		h(recovered, stack)
		return
	}
	l.Error("panic in drain task",
		"error", recovered,
		"stack", string(stack))
}
