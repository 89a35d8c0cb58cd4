package multiformat

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-multiformat/internal/config"
)

// Option 用户配置选项函数
type Option func(*options) error

// options 内部选项结构
type options struct {
	// 配置文件路径
	configFile string

	// 缓存覆盖（nil 表示沿用配置）
	cacheEnabled *bool
	cacheSize    int

	// 日志级别覆盖
	logLevel string

	// 指标注册器
	registry *prometheus.Registry

	// fx 事件日志
	fxLogging bool

	// 用户 Fx 选项
	userFxOptions []fx.Option
}

func newOptions(opts []Option) (*options, error) {
	o := &options{}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	if o.registry == nil {
		o.registry = prometheus.NewRegistry()
	}
	return o, nil
}

// WithConfigFile 从文件加载配置（.json / .toml / .yaml）
func WithConfigFile(path string) Option {
	return func(o *options) error {
		o.configFile = path
		return nil
	}
}

// WithCacheSize 启用缓存并设置容量
func WithCacheSize(size int) Option {
	return func(o *options) error {
		if size <= 0 {
			return fmt.Errorf("cache size must be positive, got %d", size)
		}
		if size > config.MaxCacheSize {
			return fmt.Errorf("cache size must not exceed %d, got %d", config.MaxCacheSize, size)
		}
		enabled := true
		o.cacheEnabled = &enabled
		o.cacheSize = size
		return nil
	}
}

// WithoutCache 禁用解析缓存
func WithoutCache() Option {
	return func(o *options) error {
		enabled := false
		o.cacheEnabled = &enabled
		return nil
	}
}

// WithLogLevel 覆盖日志级别，格式与 MULTIFORMAT_LOG_LEVEL 相同
func WithLogLevel(level string) Option {
	return func(o *options) error {
		cfg := config.NewConfig()
		cfg.Log.Level = level
		if err := config.Validate(cfg); err != nil {
			return fmt.Errorf("log level: %w", err)
		}
		o.logLevel = level
		return nil
	}
}

// WithRegistry 使用指定的 prometheus 注册器
//
// 不指定时每个 App 使用独立的注册器，可通过 App.Metrics 读取。
func WithRegistry(reg *prometheus.Registry) Option {
	return func(o *options) error {
		if reg == nil {
			return fmt.Errorf("registry is nil")
		}
		o.registry = reg
		return nil
	}
}

// WithFxLogging 输出 fx 依赖注入事件（调试用）
func WithFxLogging(enable bool) Option {
	return func(o *options) error {
		o.fxLogging = enable
		return nil
	}
}

// WithFxOptions 追加用户自定义 Fx 选项
func WithFxOptions(opts ...fx.Option) Option {
	return func(o *options) error {
		o.userFxOptions = append(o.userFxOptions, opts...)
		return nil
	}
}
