package config

import (
	"fmt"
	"strings"

	"github.com/dep2p/go-multiformat/internal/util/logger"
)

// ValidationError 配置校验错误
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("配置错误 [%s]: %s", e.Field, e.Message)
}

// ValidationErrors 多个配置校验错误
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}

	msgs := make([]string, 0, len(e))
	for i := range e {
		msgs = append(msgs, e[i].Error())
	}
	return strings.Join(msgs, "; ")
}

// HasErrors 是否有错误
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Validator 配置校验器
type Validator struct {
	errors ValidationErrors
}

// NewValidator 创建校验器
func NewValidator() *Validator {
	return &Validator{
		errors: make(ValidationErrors, 0),
	}
}

func (v *Validator) addError(field, message string) {
	v.errors = append(v.errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// Errors 返回所有错误
func (v *Validator) Errors() ValidationErrors {
	return v.errors
}

// Validate 校验配置
//
// 收集全部问题后一次返回，错误类型为 ValidationErrors。
func Validate(config *Config) error {
	if config == nil {
		return ValidationErrors{{Field: "config", Message: "配置为空"}}
	}

	v := NewValidator()
	v.validateLog(&config.Log)
	v.validateCache(&config.Cache)
	v.validateOutput(&config.Output)

	if v.errors.HasErrors() {
		return v.errors
	}
	return nil
}

// validateLog 校验日志配置
//
// Level 与 MULTIFORMAT_LOG_LEVEL 格式相同：逗号分隔，可带 子系统= 前缀。
func (v *Validator) validateLog(cfg *LogConfig) {
	for _, part := range splitAndTrim(cfg.Level, ",") {
		name := part
		if subsystem, level, found := strings.Cut(part, "="); found {
			if strings.TrimSpace(subsystem) == "" {
				v.addError("log.level", fmt.Sprintf("缺少子系统名称: %q", part))
				continue
			}
			name = strings.TrimSpace(level)
		}
		if _, ok := logger.ParseLevel(name); !ok {
			v.addError("log.level", fmt.Sprintf("未知日志级别: %q", name))
		}
	}

	switch strings.ToLower(cfg.Format) {
	case "", "text", "json":
	default:
		v.addError("log.format", fmt.Sprintf("必须为 text 或 json，实际为 %q", cfg.Format))
	}
}

// validateCache 校验缓存配置
func (v *Validator) validateCache(cfg *CacheConfig) {
	if !cfg.Enabled {
		return
	}
	switch cfg.Policy {
	case "", "lru", "arc":
	default:
		v.addError("cache.policy", fmt.Sprintf("必须为 lru 或 arc，实际为 %q", cfg.Policy))
	}
	if cfg.Size <= 0 {
		v.addError("cache.size", "启用缓存时必须大于 0")
	} else if cfg.Size > MaxCacheSize {
		v.addError("cache.size", fmt.Sprintf("不能超过 %d", MaxCacheSize))
	}
}

func (v *Validator) validateOutput(cfg *OutputConfig) {
	if cfg.Format != OutputText && cfg.Format != OutputJSON {
		v.addError("output.format", fmt.Sprintf("必须为 %s 或 %s，实际为 %q", OutputText, OutputJSON, cfg.Format))
	}
}
