// Package prometheus 提供 actor.Metrics 的 Prometheus 实现
package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/lwmacct/251217-go-pkg-minactor/pkg/actor"
)

// timer 以直方图实现 actor.Timer
type timer struct {
	h     prometheus.Observer
	start time.Time
}

func newTimer(h prometheus.Observer) actor.Timer {
	return &timer{h: h, start: time.Now()}
}

func (t *timer) ObserveDuration() {
	t.h.Observe(time.Since(t.start).Seconds())
}

// 延迟直方图默认分桶（秒），单条消息处理通常在微秒级
var defaultBuckets = []float64{
	.00001, .000025, .00005, .0001, .00025, .0005, .001, .0025, .005, .01, .05, .1, 1,
}
