package multiaddr

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/dep2p/go-multiformat/pkg/lib/varint"
)

// token 字符串地址按 '/' 切分后的片段
type token struct {
	text   string
	offset int
}

// tokenize 按 '/' 切分 s，记录每个片段在 s 中的偏移
func tokenize(s string) []token {
	toks := make([]token, 0, strings.Count(s, "/")+1)
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '/' {
			toks = append(toks, token{text: s[start:i], offset: start})
			start = i + 1
		}
	}
	return append(toks, token{text: s[start:], offset: start})
}

// stringToComponents 将多地址字符串解析为组件列表
//
// 规则：
//   - "" 与 "/" 均为空地址
//   - 非空输入必须以 '/' 开头，尾部的 '/' 被忽略
//   - 协议名位置的空片段（连续的 '/'）被跳过，参数位置的空片段是错误
//   - 路径协议消费剩余全部片段，参数重新以 '/' 开头
func stringToComponents(s string) ([]Component, error) {
	if len(s) > MaxLength {
		return nil, &ParseError{Addr: s, Err: ErrTooLong}
	}
	if s == "" {
		return nil, nil
	}
	if s[0] != '/' {
		return nil, &ParseError{Addr: s, Segment: s, Offset: 0, Err: ErrMissingSlash}
	}

	trimmed := strings.TrimRight(s, "/")
	toks := tokenize(trimmed)[1:]

	var comps []Component
	for i := 0; i < len(toks); {
		name := toks[i]
		i++
		if name.text == "" {
			continue
		}

		p := ProtocolWithName(name.text)
		if p.Name == "" {
			return nil, &ParseError{
				Addr: s, Segment: name.text, Offset: name.offset,
				Err: fmt.Errorf("%w: no protocol with name %s", ErrUnknownProtocol, name.text),
			}
		}

		if p.Size == 0 {
			c, _ := newComponent(p, nil)
			comps = append(comps, c)
			continue
		}

		if i >= len(toks) {
			return nil, &ParseError{
				Addr: s, Segment: name.text, Offset: name.offset,
				Err: fmt.Errorf("%w: protocol %s requires a value", ErrUnexpectedEnd, p.Name),
			}
		}

		arg := toks[i]
		if p.Path {
			// 剩余部分整体作为路径
			arg.text = "/" + trimmed[arg.offset:]
			i = len(toks)
		} else {
			i++
		}
		if arg.text == "" {
			return nil, &ParseError{
				Addr: s, Segment: name.text, Offset: arg.offset,
				Err: fmt.Errorf("%w: protocol %s", ErrEmptyValue, p.Name),
			}
		}

		c, err := componentFromString(p, arg.text)
		if err != nil {
			return nil, &ParseError{Addr: s, Segment: arg.text, Offset: arg.offset, Err: err}
		}
		comps = append(comps, c)
	}

	return comps, nil
}

// bytesToComponents 将二进制多地址解析为组件列表
func bytesToComponents(b []byte) ([]Component, error) {
	if len(b) > MaxLength {
		return nil, &ParseError{Addr: fmt.Sprintf("%x", b), Err: ErrTooLong}
	}

	var comps []Component
	r := bytes.NewReader(b)
	for r.Len() > 0 {
		offset := len(b) - r.Len()
		fail := func(segment string, err error) error {
			return &ParseError{Addr: fmt.Sprintf("%x", b), Segment: segment, Offset: offset, Err: err}
		}

		code, err := varint.Read(r)
		if err != nil {
			return nil, fail("", fmt.Errorf("failed to read protocol code: %w", err))
		}
		var p Protocol
		if code <= math.MaxInt32 {
			p = ProtocolWithCode(int(code))
		}
		if p.Name == "" {
			return nil, fail(fmt.Sprintf("0x%x", code), fmt.Errorf("%w: no protocol with code %d", ErrUnknownProtocol, code))
		}

		size, err := p.SizeForArgument(r)
		if err != nil {
			return nil, fail(p.Name, fmt.Errorf("failed to read length for protocol %s: %w", p.Name, err))
		}
		if size > r.Len() {
			return nil, fail(p.Name, fmt.Errorf("%w: protocol %s needs %d, have %d", ErrInsufficientBytes, p.Name, size, r.Len()))
		}

		raw := make([]byte, size)
		if _, err := io.ReadFull(r, raw); err != nil {
			return nil, fail(p.Name, err)
		}

		c, err := newComponent(p, raw)
		if err != nil {
			return nil, fail(p.Name, err)
		}
		comps = append(comps, c)
	}

	return comps, nil
}

// componentsToBytes 序列化为二进制形式
func componentsToBytes(comps []Component) []byte {
	buf := make([]byte, 0, 32)
	for _, c := range comps {
		buf = c.appendBytes(buf)
	}
	return buf
}

// componentsToString 序列化为字符串形式，并规整多余的 '/'
func componentsToString(comps []Component) string {
	var sb strings.Builder
	for _, c := range comps {
		c.writeString(&sb)
	}
	return cleanPath(sb.String())
}

// cleanPath 去掉空片段，用单个 '/' 重新连接，始终以 '/' 开头
func cleanPath(s string) string {
	parts := strings.Split(s, "/")
	kept := parts[:0]
	for _, part := range parts {
		if part != "" {
			kept = append(kept, part)
		}
	}
	return "/" + strings.Join(kept, "/")
}
