package main

import (
	"github.com/dep2p/go-multiformat"
	"github.com/dep2p/go-multiformat/internal/config"
)

// ============================================================================
//                              配置组装（CLI 专用）
// ============================================================================

// buildOptions 将命令行参数转换为应用选项
//
// 优先级：命令行参数 > 环境变量 > 配置文件 > 默认值。
func buildOptions() ([]multiformat.Option, error) {
	var opts []multiformat.Option

	if *configFile != "" {
		opts = append(opts, multiformat.WithConfigFile(*configFile))
	}
	if *logLevel != "" {
		opts = append(opts, multiformat.WithLogLevel(*logLevel))
	}
	if *fxDebug {
		opts = append(opts, multiformat.WithFxLogging(true))
	}
	// 单次解析少量参数时缓存没有收益
	if *batchFile == "" && !*showStats {
		opts = append(opts, multiformat.WithoutCache())
	}

	return opts, nil
}

// outputSettings 在配置的输出设置上应用命令行覆盖
func outputSettings(cfg config.OutputConfig) config.OutputConfig {
	if *jsonOutput {
		cfg.Format = config.OutputJSON
	}
	return cfg
}
