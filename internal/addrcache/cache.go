// Package addrcache 为多地址解析提供进程内缓存（LRU 或 ARC）
//
// 多地址不可变，同一输入总是解析为相等的地址，因此解析结果可以安全共享。
// 解析失败的输入不缓存。查找与淘汰计数通过 prometheus 导出。
package addrcache

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dep2p/go-multiformat/internal/util/logger"
	ma "github.com/dep2p/go-multiformat/pkg/lib/multiaddr"
)

var log = logger.Logger("addrcache")

var (
	// ErrInvalidSize 缓存容量非法
	ErrInvalidSize = errors.New("addrcache: size must be positive")

	// ErrUnknownPolicy 未知的淘汰策略
	ErrUnknownPolicy = errors.New("addrcache: unknown eviction policy")
)

// 文本与二进制输入共用一个存储，键加前缀区分
const (
	stringKeyPrefix = "s"
	bytesKeyPrefix  = "b"
)

// Cache 地址解析缓存
//
// 并发安全。禁用状态（Disabled 创建）下直接解析，仍然统计查找。
type Cache struct {
	entries store
	metrics *metrics
}

// Option 缓存选项
type Option func(*options)

type options struct {
	reg    prometheus.Registerer
	policy string
}

// WithRegisterer 指定指标注册器；不指定时指标不注册
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.reg = reg
	}
}

// WithPolicy 指定淘汰策略（PolicyLRU 或 PolicyARC），默认 LRU
func WithPolicy(policy string) Option {
	return func(o *options) {
		o.policy = policy
	}
}

// New 创建容量为 size 的缓存
func New(size int, opts ...Option) (*Cache, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	o := applyOptions(opts)
	entries, err := newStore(o.policy, size)
	if err != nil {
		return nil, err
	}
	return &Cache{entries: entries, metrics: newMetrics(o.reg)}, nil
}

// Disabled 创建不缓存的解析器
func Disabled(opts ...Option) *Cache {
	o := applyOptions(opts)
	return &Cache{metrics: newMetrics(o.reg)}
}

func applyOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Parse 解析文本形式的多地址
func (c *Cache) Parse(s string) (ma.Multiaddr, error) {
	return c.lookup(kindString, stringKeyPrefix+s, func() (ma.Multiaddr, error) {
		return ma.NewMultiaddr(s)
	})
}

// ParseBytes 解析二进制形式的多地址
//
// b 在返回前被复制，调用方可以复用。
func (c *Cache) ParseBytes(b []byte) (ma.Multiaddr, error) {
	return c.lookup(kindBytes, bytesKeyPrefix+string(b), func() (ma.Multiaddr, error) {
		return ma.NewMultiaddrBytes(b)
	})
}

func (c *Cache) lookup(kind, key string, parse func() (ma.Multiaddr, error)) (ma.Multiaddr, error) {
	if c.entries != nil {
		if m, ok := c.entries.Get(key); ok {
			c.metrics.lookup(kind, resultHit)
			return m, nil
		}
	}

	m, err := parse()
	if err != nil {
		c.metrics.lookup(kind, resultError)
		return nil, err
	}
	c.metrics.lookup(kind, resultMiss)

	if c.entries != nil && c.entries.Add(key, m) {
		c.metrics.evictions.Inc()
		log.Debug("缓存已满，淘汰旧地址", "size", c.entries.Len())
	}
	return m, nil
}

// Len 返回当前缓存条目数
func (c *Cache) Len() int {
	if c.entries == nil {
		return 0
	}
	return c.entries.Len()
}

// Enabled 是否实际缓存
func (c *Cache) Enabled() bool {
	return c.entries != nil
}

// Purge 清空缓存，不计入淘汰
func (c *Cache) Purge() {
	if c.entries != nil {
		c.entries.Purge()
	}
}
