// Package basen 提供按编码名称参数化的 base-N 文本编解码
//
// 底层使用 github.com/multiformats/go-multibase。multibase 字符串带有一个前缀字符
// 标识编码方式，而多地址中的 onion/garlic/十六进制等字段使用的是"裸"编码，
// 本包负责在两者之间添加或剥离前缀。
package basen

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/multiformats/go-multibase"
)

// Encoding 编码方式（即 multibase 前缀字符）
type Encoding = multibase.Encoding

// 常用编码
const (
	// Base16 小写十六进制
	Base16 Encoding = multibase.Base16
	// Base32 RFC4648 小写字母表，无填充
	Base32 Encoding = multibase.Base32
	// Base32Pad RFC4648 小写字母表，带 '=' 填充
	Base32Pad Encoding = multibase.Base32pad
	// Base58BTC 比特币字母表
	Base58BTC Encoding = multibase.Base58BTC
	// Base64Pad 标准字母表，带填充
	Base64Pad Encoding = multibase.Base64pad
	// Base64URL URL 安全字母表，无填充
	Base64URL Encoding = multibase.Base64url
)

// ErrEncodingMismatch 解码结果的编码方式与期望不符
var ErrEncodingMismatch = errors.New("basen: encoding mismatch")

// Encode 使用 enc 编码 data，返回不带前缀的字符串
func Encode(enc Encoding, data []byte) (string, error) {
	s, err := multibase.Encode(enc, data)
	if err != nil {
		return "", err
	}
	return s[prefixLen(enc):], nil
}

// Decode 使用 enc 解码不带前缀的字符串 s
func Decode(enc Encoding, s string) ([]byte, error) {
	got, data, err := multibase.Decode(prefix(enc) + s)
	if err != nil {
		return nil, err
	}
	if got != enc {
		return nil, fmt.Errorf("%w: want %s, got %s", ErrEncodingMismatch, Name(enc), Name(got))
	}
	return data, nil
}

// EncodeMultibase 使用 enc 编码 data，结果带 multibase 前缀
func EncodeMultibase(enc Encoding, data []byte) (string, error) {
	return multibase.Encode(enc, data)
}

// DecodeMultibase 解码带前缀的 multibase 字符串，编码方式由前缀决定
func DecodeMultibase(s string) (Encoding, []byte, error) {
	return multibase.Decode(s)
}

// Name 返回编码方式的名称
func Name(enc Encoding) string {
	if name, ok := multibase.EncodingToStr[enc]; ok {
		return name
	}
	return fmt.Sprintf("encoding(%d)", enc)
}

func prefix(enc Encoding) string {
	return string(rune(enc))
}

func prefixLen(enc Encoding) int {
	return utf8.RuneLen(rune(enc))
}
