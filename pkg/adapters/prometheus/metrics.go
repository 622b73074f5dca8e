package prometheus

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/lwmacct/251217-go-pkg-minactor/pkg/actor"
)

// actorMetrics actor.Metrics 的 Prometheus 实现
type actorMetrics struct {
	actorsSpawned   *prometheus.CounterVec
	messagesTold    *prometheus.CounterVec
	messagesTotal   *prometheus.CounterVec
	messageDuration *prometheus.HistogramVec
	submitRejected  prometheus.Counter
	taskPanics      prometheus.Counter
	poolQueueDepth  prometheus.Gauge
}

// NewActorMetrics 创建并注册指标
// 同一 Registerer 只能调用一次，重复注册会 panic
func NewActorMetrics(reg prometheus.Registerer) actor.Metrics {
	m := &actorMetrics{
		actorsSpawned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "minactor_actors_spawned_total",
			Help: "Total number of actors spawned",
		}, []string{"dispatcher"}),

		messagesTold: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "minactor_messages_told_total",
			Help: "Total number of messages enqueued",
		}, []string{"dispatcher"}),

		messagesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "minactor_messages_processed_total",
			Help: "Total number of messages processed",
		}, []string{"dispatcher", "success"}),

		messageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "minactor_message_duration_seconds",
			Help:    "Behavior application time in seconds",
			Buckets: defaultBuckets,
		}, []string{"dispatcher"}),

		submitRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "minactor_submit_rejected_total",
			Help: "Total number of drain tasks rejected by the executor",
		}),

		taskPanics: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "minactor_task_panics_total",
			Help: "Total number of recovered drain task panics",
		}),

		poolQueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "minactor_pool_queue_depth",
			Help: "Current number of queued drain tasks",
		}),
	}

	reg.MustRegister(
		m.actorsSpawned,
		m.messagesTold,
		m.messagesTotal,
		m.messageDuration,
		m.submitRejected,
		m.taskPanics,
		m.poolQueueDepth,
	)

	return m
}

func (m *actorMetrics) ActorSpawned(dispatcher string) {
	m.actorsSpawned.WithLabelValues(dispatcher).Inc()
}

func (m *actorMetrics) MessageTold(dispatcher string) {
	m.messagesTold.WithLabelValues(dispatcher).Inc()
}

func (m *actorMetrics) MessageProcessed(dispatcher string, success bool) {
	m.messagesTotal.WithLabelValues(dispatcher, strconv.FormatBool(success)).Inc()
}

func (m *actorMetrics) MessageDuration(dispatcher string) actor.Timer {
	return newTimer(m.messageDuration.WithLabelValues(dispatcher))
}

func (m *actorMetrics) SubmitRejected() {
	m.submitRejected.Inc()
}

func (m *actorMetrics) TaskPanicked() {
	m.taskPanics.Inc()
}

func (m *actorMetrics) PoolQueueDepth(depth int) {
	m.poolQueueDepth.Set(float64(depth))
}

var _ actor.Metrics = (*actorMetrics)(nil)
