// Package varint 提供无符号变长整数（LEB128）编解码
//
// 编码规则与 multiformats 规范一致：
//   - 小端 base-128，除最后一个字节外均设置最高位（继续位）
//   - 最大支持 63 位，即最多 9 个字节
//   - 必须是最小编码，同一个数值只有唯一的编码
//
// 本包是 github.com/multiformats/go-varint 的薄封装，
// 将其读取错误归类为本包的哨兵错误，便于上层区分"流结束"与"流截断"。
package varint

import (
	"bytes"
	"errors"
	"io"

	mvarint "github.com/multiformats/go-varint"
)

// ============================================================================
//                              常量与错误
// ============================================================================

const (
	// MaxLen 编码后的最大字节数
	MaxLen = mvarint.MaxLenUvarint63

	// MaxValue 可编码的最大数值（2^63 - 1）
	MaxValue = mvarint.MaxValueUvarint63
)

var (
	// ErrOverflow 数值超过 63 位
	ErrOverflow = mvarint.ErrOverflow

	// ErrNotMinimal 非最小编码
	ErrNotMinimal = mvarint.ErrNotMinimal

	// ErrEndOfStream 尚未读取任何字节时输入已结束
	ErrEndOfStream = errors.New("varint: end of stream")

	// ErrUnexpectedEndOfStream 读取到一半时输入结束
	ErrUnexpectedEndOfStream = errors.New("varint: unexpected end of stream")
)

// ============================================================================
//                              编码
// ============================================================================

// Size 返回 x 编码后的字节数
func Size(x uint64) int {
	return mvarint.UvarintSize(x)
}

// Encode 编码 x
//
// x 超过 MaxValue 时 panic，调用方应保证输入在范围内（协议代码、长度前缀均满足）。
func Encode(x uint64) []byte {
	if x > MaxValue {
		panic(ErrOverflow)
	}
	return mvarint.ToUvarint(x)
}

// Append 将 x 的编码追加到 dst 后面
func Append(dst []byte, x uint64) []byte {
	if x > MaxValue {
		panic(ErrOverflow)
	}
	var buf [MaxLen]byte
	n := mvarint.PutUvarint(buf[:], x)
	return append(dst, buf[:n]...)
}

// Write 将 x 的编码写入 w
func Write(w io.ByteWriter, x uint64) error {
	if x > MaxValue {
		return ErrOverflow
	}
	var buf [MaxLen]byte
	n := mvarint.PutUvarint(buf[:], x)
	for _, b := range buf[:n] {
		if err := w.WriteByte(b); err != nil {
			return err
		}
	}
	return nil
}

// ============================================================================
//                              解码
// ============================================================================

// Read 从 r 读取一个 varint
//
// 错误：
//   - ErrEndOfStream: 没有读到任何字节
//   - ErrUnexpectedEndOfStream: 读取中途输入结束
//   - ErrOverflow / ErrNotMinimal: 编码非法
func Read(r io.ByteReader) (uint64, error) {
	x, err := mvarint.ReadUvarint(r)
	switch {
	case err == nil:
		return x, nil
	case errors.Is(err, io.ErrUnexpectedEOF):
		return 0, ErrUnexpectedEndOfStream
	case errors.Is(err, io.EOF):
		return 0, ErrEndOfStream
	default:
		return 0, err
	}
}

// Decode 从 buf 开头解码一个 varint
//
// 返回：(value, bytes_read, error)
func Decode(buf []byte) (uint64, int, error) {
	r := bytes.NewReader(buf)
	x, err := Read(r)
	if err != nil {
		return 0, 0, err
	}
	return x, len(buf) - r.Len(), nil
}
