package multiaddr

import (
	"errors"
	"fmt"
)

// ============================================================================
//                              哨兵错误
// ============================================================================

// 结构错误
var (
	// ErrTooLong 地址超过 MaxLength
	ErrTooLong = fmt.Errorf("multiaddr is too long, over %d bytes", MaxLength)

	// ErrMissingSlash 非空字符串地址必须以 / 开头
	ErrMissingSlash = errors.New("multiaddr must begin with /")

	// ErrUnexpectedEnd 协议需要参数但输入已结束
	ErrUnexpectedEnd = errors.New("unexpected end of multiaddr")

	// ErrEmptyValue 协议参数为空
	ErrEmptyValue = errors.New("empty protocol value")

	// ErrAlreadySet 反序列化的目标地址已经构造完成，地址不可原地修改
	ErrAlreadySet = errors.New("multiaddr is already set")
)

// 注册表错误
var (
	// ErrUnknownProtocol 未知的协议名称或代码
	ErrUnknownProtocol = errors.New("unknown protocol")
)

// 帧错误（varint 相关错误见 pkg/lib/varint）
var (
	// ErrInsufficientBytes 剩余字节不足以容纳声明的长度
	ErrInsufficientBytes = errors.New("insufficient bytes for protocol value")
)

// 协议校验错误
var (
	// ErrInvalidValue 参数未通过协议校验
	ErrInvalidValue = errors.New("invalid protocol value")

	// ErrProtocolNotFound 地址中不包含指定协议
	ErrProtocolNotFound = errors.New("protocol not found in multiaddr")
)

// invalidValue 构造一个包装 ErrInvalidValue 的错误
func invalidValue(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidValue, fmt.Sprintf(format, args...))
}

// ============================================================================
//                              ParseError
// ============================================================================

// ParseError 解析失败时携带的上下文
//
// Err 保留底层错误的分类，可以用 errors.Is 判断哨兵错误。
type ParseError struct {
	// Addr 原始输入（字节输入以十六进制表示）
	Addr string

	// Segment 出错的片段（协议名、协议代码或参数）
	Segment string

	// Offset 片段在输入中的偏移（字符串为字符偏移，字节为字节偏移）
	Offset int

	// Err 底层错误
	Err error
}

func (e *ParseError) Error() string {
	if e.Segment == "" {
		return fmt.Sprintf("failed to parse multiaddr %q: %v", e.Addr, e.Err)
	}
	return fmt.Sprintf("failed to parse multiaddr %q: segment %q at offset %d: %v", e.Addr, e.Segment, e.Offset, e.Err)
}

// Unwrap 返回底层错误
func (e *ParseError) Unwrap() error {
	return e.Err
}
