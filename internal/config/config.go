// Package config 提供 go-multiformat 配置管理层
//
// config 包负责：
// - 定义配置结构
// - 提供默认值
// - 从文件（JSON/TOML/YAML）与环境变量加载
// - 配置校验
package config

// Config 配置结构
//
// 由命令行工具与 fx 模块共用。零值不可直接使用，应通过 NewConfig 或 Load 获取。
type Config struct {
	// Log 日志配置
	Log LogConfig `json:"log" toml:"log" yaml:"log"`

	// Cache 地址解析缓存配置
	Cache CacheConfig `json:"cache" toml:"cache" yaml:"cache"`

	// Output 输出配置
	Output OutputConfig `json:"output" toml:"output" yaml:"output"`
}

// NewConfig 创建默认配置
func NewConfig() *Config {
	return &Config{
		Log:    DefaultLogConfig(),
		Cache:  DefaultCacheConfig(),
		Output: DefaultOutputConfig(),
	}
}

// LogConfig 日志配置
type LogConfig struct {
	// Level 日志级别，格式与 MULTIFORMAT_LOG_LEVEL 相同
	// 例如 "info" 或 "multiaddr=debug,warn"
	Level string `json:"level" toml:"level" yaml:"level"`

	// Format 输出格式 (text 或 json)
	Format string `json:"format" toml:"format" yaml:"format"`

	// File 日志文件路径
	// 为空时输出到 stderr
	File string `json:"file,omitempty" toml:"file" yaml:"file,omitempty"`
}

// CacheConfig 地址解析缓存配置
type CacheConfig struct {
	// Enabled 是否启用缓存
	Enabled bool `json:"enabled" toml:"enabled" yaml:"enabled"`

	// Size 最多缓存的地址条数
	Size int `json:"size" toml:"size" yaml:"size"`

	// Policy 淘汰策略 (lru 或 arc)
	Policy string `json:"policy" toml:"policy" yaml:"policy"`
}

// OutputConfig 命令行输出配置
type OutputConfig struct {
	// Format 输出格式 (text 或 json)
	Format string `json:"format" toml:"format" yaml:"format"`

	// Hex 文本输出时是否附带十六进制字节
	Hex bool `json:"hex" toml:"hex" yaml:"hex"`
}
