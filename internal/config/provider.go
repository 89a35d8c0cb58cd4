package config

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/fx"

	"github.com/dep2p/go-multiformat/internal/util/logger"
)

// Path 配置文件路径
//
// 通过 fx.Supply(config.Path("...")) 注入；未注入或为空时使用默认配置。
type Path string

// Provider 配置提供者
//
// Provider 负责将配置分发给各个组件
type Provider struct {
	config *Config
}

// NewProvider 创建配置提供者
func NewProvider(config *Config) *Provider {
	return &Provider{
		config: config,
	}
}

// GetConfig 获取完整配置
func (p *Provider) GetConfig() *Config {
	return p.config
}

// GetLog 获取日志配置
func (p *Provider) GetLog() *LogConfig {
	return &p.config.Log
}

// GetCache 获取缓存配置
func (p *Provider) GetCache() *CacheConfig {
	return &p.config.Cache
}

// GetOutput 获取输出配置
func (p *Provider) GetOutput() *OutputConfig {
	return &p.config.Output
}

// ============================================================================
//                              fx 模块
// ============================================================================

// ProviderParams fx 提供者参数
type ProviderParams struct {
	fx.In

	Path Path `optional:"true"`
}

// ProviderResult fx 提供者结果
type ProviderResult struct {
	fx.Out

	Provider     *Provider
	Config       *Config
	LogConfig    *LogConfig
	CacheConfig  *CacheConfig
	OutputConfig *OutputConfig
}

// ProvideConfig 提供配置
//
// 依次应用：默认值、配置文件、环境变量。校验失败时返回 ValidationErrors。
func ProvideConfig(p ProviderParams) (ProviderResult, error) {
	cfg := NewConfig()
	if p.Path != "" {
		loaded, err := Load(string(p.Path))
		if err != nil {
			return ProviderResult{}, err
		}
		cfg = loaded
	}
	if err := ApplyEnv(cfg); err != nil {
		return ProviderResult{}, err
	}
	if err := Validate(cfg); err != nil {
		return ProviderResult{}, fmt.Errorf("配置验证失败: %w", err)
	}

	logger.Configure(cfg.Log.Level, cfg.Log.Format)

	provider := NewProvider(cfg)
	return ProviderResult{
		Provider:     provider,
		Config:       cfg,
		LogConfig:    provider.GetLog(),
		CacheConfig:  provider.GetCache(),
		OutputConfig: provider.GetOutput(),
	}, nil
}

type lifecycleInput struct {
	fx.In

	LC  fx.Lifecycle
	Log *LogConfig
}

// registerLogFile 配置了日志文件时，在启动时打开、停止时关闭
func registerLogFile(input lifecycleInput) {
	if input.Log.File == "" {
		return
	}

	var f *os.File
	input.LC.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			var err error
			f, err = os.OpenFile(input.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec // 用户指定的日志路径
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			logger.SetOutput(f)
			return nil
		},
		OnStop: func(_ context.Context) error {
			logger.SetOutput(os.Stderr)
			return f.Close()
		},
	})
}

// Module 返回 fx 模块
func Module() fx.Option {
	return fx.Module("config",
		fx.Provide(ProvideConfig),
		fx.Invoke(registerLogFile),
	)
}
