package addrcache

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// metricNamespace 是地址缓存指标的命名空间
const metricNamespace = "multiformat_addrcache"

// 查找结果标签
const (
	resultHit   = "hit"
	resultMiss  = "miss"
	resultError = "error"
)

// 输入形式标签
const (
	kindString = "string"
	kindBytes  = "bytes"
)

type metrics struct {
	// lookups 按输入形式与结果统计查找次数
	lookups *prometheus.CounterVec

	// evictions 统计因容量淘汰的条目数
	evictions prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		lookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricNamespace,
				Name:      "lookups_total",
				Help:      "地址解析查找总数",
			},
			[]string{"kind", "result"},
		),
		evictions: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricNamespace,
				Name:      "evictions_total",
				Help:      "因容量淘汰的缓存条目总数",
			},
		),
	}
	if reg == nil {
		return m
	}

	m.lookups = registerCollector(reg, m.lookups)
	m.evictions = registerCollector(reg, m.evictions)
	return m
}

// registerCollector 注册收集器；已注册同名收集器时复用已有的那个
func registerCollector[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	err := reg.Register(c)
	if err == nil {
		return c
	}

	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing
		}
	}
	panic(err)
}

func (m *metrics) lookup(kind, result string) {
	m.lookups.WithLabelValues(kind, result).Inc()
}
