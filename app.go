package multiformat

import (
	"context"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-multiformat/internal/addrcache"
	"github.com/dep2p/go-multiformat/internal/config"
	"github.com/dep2p/go-multiformat/internal/util/logger"
	"github.com/dep2p/go-multiformat/pkg/lib/multiaddr"
)

var log = logger.Logger("multiformat")

// App 组装配置、解析缓存与指标
//
// 未启动时 Parse 仍然可用；Start/Stop 只驱动模块的生命周期钩子
// （日志文件的打开与关闭、缓存清空）。
type App struct {
	mu      sync.Mutex
	app     *fx.App
	started bool
	closed  bool

	registry *prometheus.Registry

	// 由 fx 注入
	cfg   *config.Config
	cache *addrcache.Cache
}

// New 创建应用
//
// 配置错误（文件不可读、校验失败、Option 非法）在这里返回。
func New(opts ...Option) (*App, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}

	a := &App{registry: o.registry}
	app, err := buildFxApp(o, a)
	if err != nil {
		return nil, fmt.Errorf("build app: %w", err)
	}
	a.app = app
	return a, nil
}

// Start 启动应用
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return ErrAppClosed
	}
	if a.started {
		return ErrAlreadyStarted
	}

	if err := a.app.Start(ctx); err != nil {
		log.Error("启动失败", "error", err)
		return fmt.Errorf("start fx app: %w", err)
	}
	a.started = true
	log.Debug("应用已启动", "cache", a.cache.Enabled())
	return nil
}

// Stop 停止应用
func (a *App) Stop(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return ErrAppClosed
	}
	if !a.started {
		return ErrNotStarted
	}

	a.started = false
	if err := a.app.Stop(ctx); err != nil {
		return fmt.Errorf("stop fx app: %w", err)
	}
	return nil
}

// Close 停止并关闭应用，重复调用无副作用
func (a *App) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return nil
	}
	a.closed = true

	if !a.started {
		return nil
	}
	a.started = false
	return a.app.Stop(context.Background())
}

// Parse 解析文本形式的多地址，经过缓存
func (a *App) Parse(s string) (multiaddr.Multiaddr, error) {
	return a.cache.Parse(s)
}

// ParseBytes 解析二进制形式的多地址，经过缓存
func (a *App) ParseBytes(b []byte) (multiaddr.Multiaddr, error) {
	return a.cache.ParseBytes(b)
}

// Config 返回生效的配置
//
// 返回副本，修改不影响运行中的应用。
func (a *App) Config() config.Config {
	return *a.cfg
}

// Metrics 返回指标收集器
func (a *App) Metrics() prometheus.Gatherer {
	return a.registry
}

// CacheLen 返回当前缓存条目数
func (a *App) CacheLen() int {
	return a.cache.Len()
}
