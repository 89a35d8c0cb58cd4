package multiaddr

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dep2p/go-multiformat/pkg/lib/varint"
)

// Component 表示多地址中的一个协议及其参数
//
// Component 不可变，只能通过编解码器创建（NewComponent、NewComponentFromBytes 或解析多地址）。
type Component struct {
	protocol Protocol
	raw      []byte
	value    string
}

// NewComponent 从协议名称和字符串参数创建组件
func NewComponent(name, value string) (Component, error) {
	p := ProtocolWithName(name)
	if p.Name == "" {
		return Component{}, fmt.Errorf("%w: no protocol with name %s", ErrUnknownProtocol, name)
	}
	if p.Size != 0 && value == "" {
		return Component{}, fmt.Errorf("%w: protocol %s", ErrEmptyValue, p.Name)
	}
	// 路径参数在字符串形式中总以 '/' 开头
	if p.Path && !strings.HasPrefix(value, "/") {
		value = "/" + value
	}
	return componentFromString(p, value)
}

// NewComponentFromBytes 从协议代码和原始参数字节创建组件
func NewComponentFromBytes(code int, raw []byte) (Component, error) {
	p := ProtocolWithCode(code)
	if p.Name == "" {
		return Component{}, fmt.Errorf("%w: no protocol with code %d", ErrUnknownProtocol, code)
	}
	return newComponent(p, bytes.Clone(raw))
}

// componentFromString 使用协议的编解码器将字符串参数转换为组件
func componentFromString(p Protocol, value string) (Component, error) {
	if p.Size == 0 {
		if value != "" {
			return Component{}, invalidValue("protocol %s takes no value", p.Name)
		}
		return newComponent(p, nil)
	}
	raw, err := p.transcoder().StringToBytes(value)
	if err != nil {
		return Component{}, err
	}
	return newComponent(p, raw)
}

// newComponent 校验原始字节并创建组件，raw 的所有权转移给组件
func newComponent(p Protocol, raw []byte) (Component, error) {
	switch {
	case p.Size == 0:
		if len(raw) != 0 {
			return Component{}, invalidValue("protocol %s takes no value", p.Name)
		}
		return Component{protocol: p}, nil
	case p.Size > 0 && len(raw) != p.Size/8:
		return Component{}, invalidValue("invalid %s value length %d, want %d", p.Name, len(raw), p.Size/8)
	}

	value, err := p.transcoder().BytesToString(raw)
	if err != nil {
		return Component{}, err
	}
	return Component{protocol: p, raw: raw, value: value}, nil
}

// Protocol 返回组件的协议
func (c Component) Protocol() Protocol {
	return c.protocol
}

// Value 返回组件参数的字符串形式，无参数协议返回空字符串
func (c Component) Value() string {
	return c.value
}

// RawValue 返回组件参数的原始字节（副本）
func (c Component) RawValue() []byte {
	return bytes.Clone(c.raw)
}

// Bytes 返回组件的二进制形式：varint(code) [varint(len)] raw
func (c Component) Bytes() []byte {
	return c.appendBytes(nil)
}

// String 返回组件的字符串形式：/name[/value]
func (c Component) String() string {
	var sb strings.Builder
	c.writeString(&sb)
	return sb.String()
}

// Equal 判断两个组件的二进制形式是否相同
func (c Component) Equal(other Component) bool {
	return bytes.Equal(c.Bytes(), other.Bytes())
}

func (c Component) appendBytes(dst []byte) []byte {
	dst = append(dst, c.protocol.VCode...)
	if c.protocol.Size == LengthPrefixedVarSize {
		dst = varint.Append(dst, uint64(len(c.raw)))
	}
	return append(dst, c.raw...)
}

func (c Component) writeString(sb *strings.Builder) {
	sb.WriteByte('/')
	sb.WriteString(c.protocol.Name)
	if c.value == "" {
		return
	}
	// 路径参数自带分隔符
	if !strings.HasPrefix(c.value, "/") {
		sb.WriteByte('/')
	}
	sb.WriteString(c.value)
}
