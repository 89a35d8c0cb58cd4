package config

// ============================================================================
//                              预设默认值
// ============================================================================

// 日志默认值
const (
	// DefaultLogLevel 默认日志级别
	DefaultLogLevel = "info"

	// DefaultLogFormat 默认日志格式
	DefaultLogFormat = "text"
)

// 缓存默认值
const (
	// DefaultCacheSize 默认缓存条数
	DefaultCacheSize = 1024

	// MaxCacheSize 缓存条数上限
	MaxCacheSize = 1 << 20

	// DefaultCachePolicy 默认淘汰策略
	DefaultCachePolicy = "lru"
)

// 输出格式
const (
	// OutputText 文本输出
	OutputText = "text"

	// OutputJSON 每行一个 JSON 对象
	OutputJSON = "json"
)

// DefaultLogConfig 返回默认日志配置
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:  DefaultLogLevel,
		Format: DefaultLogFormat,
	}
}

// DefaultCacheConfig 返回默认缓存配置
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled: true,
		Size:    DefaultCacheSize,
		Policy:  DefaultCachePolicy,
	}
}

// DefaultOutputConfig 返回默认输出配置
func DefaultOutputConfig() OutputConfig {
	return OutputConfig{
		Format: OutputText,
		Hex:    true,
	}
}

// ============================================================================
//                              环境变量
// ============================================================================

// 环境变量名（供 ApplyEnv 与 cmd 层使用）
const (
	// EnvPrefix 环境变量前缀
	EnvPrefix = "MULTIFORMAT_"

	// EnvLogLevel 日志级别
	EnvLogLevel = "LOG_LEVEL"

	// EnvLogFormat 日志格式
	EnvLogFormat = "LOG_FORMAT"

	// EnvLogFile 日志文件路径
	EnvLogFile = "LOG_FILE"

	// EnvCacheEnabled 是否启用缓存
	EnvCacheEnabled = "CACHE_ENABLED"

	// EnvCacheSize 缓存条数
	EnvCacheSize = "CACHE_SIZE"

	// EnvCachePolicy 缓存淘汰策略
	EnvCachePolicy = "CACHE_POLICY"

	// EnvOutputFormat 输出格式
	EnvOutputFormat = "OUTPUT_FORMAT"

	// EnvOutputHex 是否输出十六进制字节
	EnvOutputHex = "OUTPUT_HEX"
)
