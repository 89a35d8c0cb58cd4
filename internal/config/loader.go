package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/dep2p/go-multiformat/internal/util/logger"
)

var log = logger.Logger("config")

// ErrUnsupportedFormat 不支持的配置文件扩展名
var ErrUnsupportedFormat = errors.New("unsupported config file format")

// ============================================================================
//                              文件加载
// ============================================================================

// Load 从文件加载配置
//
// 按扩展名选择解码器：.json、.toml、.yaml/.yml。
// 文件中未出现的字段保留默认值。返回前不做校验，调用方按需调用 Validate。
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: 用户指定的配置文件路径是预期行为
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := NewConfig()
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		err = json.Unmarshal(data, cfg)
	case ".toml":
		var meta toml.MetaData
		meta, err = toml.Decode(string(data), cfg)
		if err == nil {
			for _, key := range meta.Undecoded() {
				log.Warn("忽略未知配置项", "file", path, "key", key.String())
			}
		}
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	log.Debug("已加载配置文件", "file", path)
	return cfg, nil
}

// ============================================================================
//                              环境变量覆盖
// ============================================================================

// ApplyEnv 应用环境变量覆盖配置
//
// 环境变量优先级高于配置文件，但低于命令行参数。
// 支持的环境变量（均使用 MULTIFORMAT_ 前缀）：
//   - MULTIFORMAT_LOG_LEVEL: 日志级别
//   - MULTIFORMAT_LOG_FORMAT: 日志格式
//   - MULTIFORMAT_LOG_FILE: 日志文件路径
//   - MULTIFORMAT_CACHE_ENABLED: 是否启用缓存
//   - MULTIFORMAT_CACHE_SIZE: 缓存条数
//   - MULTIFORMAT_CACHE_POLICY: 缓存淘汰策略
//   - MULTIFORMAT_OUTPUT_FORMAT: 输出格式
//   - MULTIFORMAT_OUTPUT_HEX: 是否输出十六进制字节
func ApplyEnv(cfg *Config) error {
	if v, ok := lookupEnv(EnvLogLevel); ok {
		cfg.Log.Level = v
	}
	if v, ok := lookupEnv(EnvLogFormat); ok {
		cfg.Log.Format = v
	}
	if v, ok := lookupEnv(EnvLogFile); ok {
		cfg.Log.File = v
	}
	if v, ok := lookupEnv(EnvCacheEnabled); ok {
		cfg.Cache.Enabled = parseBool(v)
	}
	if v, ok := lookupEnv(EnvCacheSize); ok {
		size, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, EnvCacheSize, err)
		}
		cfg.Cache.Size = size
	}
	if v, ok := lookupEnv(EnvCachePolicy); ok {
		cfg.Cache.Policy = strings.ToLower(v)
	}
	if v, ok := lookupEnv(EnvOutputFormat); ok {
		cfg.Output.Format = strings.ToLower(v)
	}
	if v, ok := lookupEnv(EnvOutputHex); ok {
		cfg.Output.Hex = parseBool(v)
	}
	return nil
}

// lookupEnv 读取带前缀的环境变量，空值视为未设置
func lookupEnv(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(EnvPrefix + key))
	return v, v != ""
}

// parseBool 解析布尔值
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// splitAndTrim 分割字符串并去除空白
func splitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
