package multiformat

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-multiformat/internal/addrcache"
	"github.com/dep2p/go-multiformat/internal/config"
	"github.com/dep2p/go-multiformat/internal/util/logger"
)

var fxLogger = logger.Logger("multiformat/fx")

// Module 返回配置与地址缓存模块
//
// 调用方需要提供 prometheus.Registerer（可选）与 config.Path（可选）。
func Module() fx.Option {
	return fx.Options(
		config.Module(),
		addrcache.Module(),
	)
}

// buildFxApp 构建 Fx 应用
//
// 加载顺序（按依赖）：
//  1. 配置：默认值 → 文件 → 环境变量
//  2. Option 覆盖（fx.Decorate）
//  3. 地址缓存（依赖缓存配置与注册器）
func buildFxApp(o *options, a *App) (*fx.App, error) {
	// ════════════════════════════════════════════════════════════════════════
	// 1. 配置注入
	// ════════════════════════════════════════════════════════════════════════
	modules := []fx.Option{
		fx.Supply(config.Path(o.configFile)),
		fx.Provide(func() prometheus.Registerer { return o.registry }),
		Module(),
	}

	// ════════════════════════════════════════════════════════════════════════
	// 2. Option 覆盖
	// ════════════════════════════════════════════════════════════════════════
	if o.cacheEnabled != nil {
		modules = append(modules, fx.Decorate(func(c *config.CacheConfig) *config.CacheConfig {
			c.Enabled = *o.cacheEnabled
			if o.cacheSize > 0 {
				c.Size = o.cacheSize
			}
			fxLogger.Debug("缓存配置被覆盖", "enabled", c.Enabled, "size", c.Size)
			return c
		}))
	}
	if o.logLevel != "" {
		modules = append(modules, fx.Invoke(func(c *config.LogConfig) {
			c.Level = o.logLevel
			logger.Configure(c.Level, c.Format)
		}))
	}

	// ════════════════════════════════════════════════════════════════════════
	// 3. 用户扩展与组件注入
	// ════════════════════════════════════════════════════════════════════════
	modules = append(modules, o.userFxOptions...)
	modules = append(modules, fx.Populate(&a.cfg, &a.cache))

	// ════════════════════════════════════════════════════════════════════════
	// 4. Fx 配置
	// ════════════════════════════════════════════════════════════════════════
	if o.fxLogging {
		zl, err := zap.NewDevelopment()
		if err != nil {
			return nil, fmt.Errorf("create fx logger: %w", err)
		}
		modules = append(modules, fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: zl}
		}))
	} else {
		// 禁用 Fx 日志输出（避免干扰用户日志）
		modules = append(modules, fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}))
	}

	app := fx.New(modules...)
	if err := app.Err(); err != nil {
		return nil, err
	}
	return app, nil
}
