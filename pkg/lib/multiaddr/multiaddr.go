package multiaddr

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"strings"

	mh "github.com/multiformats/go-multihash"

	"github.com/dep2p/go-multiformat/internal/util/logger"
)

var log = logger.Logger("multiaddr")

// MaxLength 地址在任一表示形式下的最大长度
const MaxLength = 1024

// Multiaddr 是自描述的网络地址接口
//
// Multiaddr 不可变：所有"修改"操作都返回新的地址。
type Multiaddr interface {
	// Bytes 返回二进制表示（副本）
	Bytes() []byte

	// String 返回字符串表示
	String() string

	// Equal 判断两个地址的二进制表示是否相同
	Equal(Multiaddr) bool

	// Protocols 返回地址包含的协议列表
	Protocols() []Protocol

	// Components 返回地址的组件列表
	Components() []Component

	// Encapsulate 封装另一个地址（字符串拼接后重新解析）
	Encapsulate(Multiaddr) (Multiaddr, error)

	// Decapsulate 解封装：保留另一个地址最后一次出现之前的部分
	Decapsulate(Multiaddr) (Multiaddr, error)

	// EncapsulateString 与 Encapsulate 相同，参数为字符串
	EncapsulateString(string) (Multiaddr, error)

	// DecapsulateString 按文本解封装，参数可以是地址片段（如 "/udp"）
	DecapsulateString(string) (Multiaddr, error)

	// ValueForProtocol 获取第一个匹配协议的值
	ValueForProtocol(code int) (string, error)

	// HasProtocol 检查是否包含指定协议
	HasProtocol(code int) bool

	// ToTCPAddr 转换为 TCP 地址
	ToTCPAddr() (*net.TCPAddr, error)

	// ToUDPAddr 转换为 UDP 地址
	ToUDPAddr() (*net.UDPAddr, error)
}

// multiaddr 是 Multiaddr 接口的实现
//
// 两种表示形式在构造时计算一次，之后只读，可并发访问。
type multiaddr struct {
	components []Component
	bytes      []byte
	str        string
}

// newMultiaddr 由组件列表构造地址，检查长度上限
func newMultiaddr(comps []Component, input string) (*multiaddr, error) {
	b := componentsToBytes(comps)
	s := componentsToString(comps)
	if len(b) > MaxLength || len(s) > MaxLength {
		return nil, &ParseError{Addr: input, Err: ErrTooLong}
	}
	return &multiaddr{components: comps, bytes: b, str: s}, nil
}

// emptyMultiaddr 返回空地址 "/"
func emptyMultiaddr() *multiaddr {
	return &multiaddr{bytes: []byte{}, str: "/"}
}

// NewMultiaddr 从字符串创建多地址
//
// "" 和 "/" 得到空地址。
func NewMultiaddr(s string) (Multiaddr, error) {
	comps, err := stringToComponents(s)
	if err != nil {
		return nil, err
	}
	m, err := newMultiaddr(comps, s)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// NewMultiaddrBytes 从字节创建多地址
func NewMultiaddrBytes(b []byte) (Multiaddr, error) {
	comps, err := bytesToComponents(b)
	if err != nil {
		return nil, err
	}
	m, err := newMultiaddr(comps, fmt.Sprintf("%x", b))
	if err != nil {
		return nil, err
	}
	return m, nil
}

// NewMultiaddrFromComponents 由组件依次拼接成多地址
func NewMultiaddrFromComponents(comps ...Component) (Multiaddr, error) {
	for i, c := range comps {
		if c.protocol.Name == "" {
			return nil, fmt.Errorf("%w: component %d is not initialized", ErrUnknownProtocol, i)
		}
	}
	owned := make([]Component, len(comps))
	copy(owned, comps)
	m, err := newMultiaddr(owned, componentsToString(owned))
	if err != nil {
		return nil, err
	}
	return m, nil
}

// NewMultiaddrFromMultihash 由节点的 multihash 创建 /p2p/<id> 地址
func NewMultiaddrFromMultihash(hash mh.Multihash) (Multiaddr, error) {
	c, err := NewComponentFromBytes(P_P2P, hash)
	if err != nil {
		return nil, err
	}
	return NewMultiaddrFromComponents(c)
}

// Cast 从字节创建多地址，无效时 panic
// 仅用于已知有效的地址（常量、测试）
func Cast(b []byte) Multiaddr {
	m, err := NewMultiaddrBytes(b)
	if err != nil {
		panic(fmt.Errorf("multiaddr failed to cast: %w", err))
	}
	return m
}

// StringCast 从字符串创建多地址，无效时 panic
// 仅用于已知有效的地址（常量、测试）
func StringCast(s string) Multiaddr {
	m, err := NewMultiaddr(s)
	if err != nil {
		panic(fmt.Errorf("multiaddr failed to cast: %w", err))
	}
	return m
}

// Bytes 返回二进制表示
func (m *multiaddr) Bytes() []byte {
	return bytes.Clone(m.bytes)
}

// String 返回字符串表示
func (m *multiaddr) String() string {
	return m.str
}

// Equal 判断两个地址是否相等
func (m *multiaddr) Equal(other Multiaddr) bool {
	if other == nil {
		return false
	}
	if o, ok := other.(*multiaddr); ok {
		return bytes.Equal(m.bytes, o.bytes)
	}
	return bytes.Equal(m.bytes, other.Bytes())
}

// Protocols 返回地址包含的协议列表
func (m *multiaddr) Protocols() []Protocol {
	ps := make([]Protocol, len(m.components))
	for i, c := range m.components {
		ps[i] = c.protocol
	}
	return ps
}

// Components 返回地址的组件列表
func (m *multiaddr) Components() []Component {
	out := make([]Component, len(m.components))
	copy(out, m.components)
	return out
}

// Encapsulate 封装另一个地址
func (m *multiaddr) Encapsulate(other Multiaddr) (Multiaddr, error) {
	if other == nil {
		return m, nil
	}
	return m.EncapsulateString(other.String())
}

// EncapsulateString 将 s 拼接在地址之后并重新解析
func (m *multiaddr) EncapsulateString(s string) (Multiaddr, error) {
	// 空地址不参与拼接，避免多出一个分隔符
	if len(m.components) == 0 {
		return NewMultiaddr(s)
	}
	return NewMultiaddr(m.str + s)
}

// Decapsulate 解封装
//
// 在字符串形式中查找 other 最后一次出现的位置，保留其之前的部分。
// 这是文本匹配而非按组件匹配：例如 /tcp/8 也会匹配 /tcp/80 的前缀。
// 找不到时返回空地址；other 为空地址时原样返回。
func (m *multiaddr) Decapsulate(other Multiaddr) (Multiaddr, error) {
	if other == nil {
		return m, nil
	}
	return m.DecapsulateString(other.String())
}

// DecapsulateString 按文本解封装，s 不必是完整的地址（例如 "/udp"）
func (m *multiaddr) DecapsulateString(s string) (Multiaddr, error) {
	if s == "" || s == "/" {
		return m, nil
	}
	i := strings.LastIndex(m.str, s)
	if i < 0 {
		return emptyMultiaddr(), nil
	}
	return NewMultiaddr(m.str[:i])
}

// ValueForProtocol 获取指定协议代码的值
//
// 返回第一个匹配组件的值；无参数协议返回空字符串。
func (m *multiaddr) ValueForProtocol(code int) (string, error) {
	p := ProtocolWithCode(code)
	if p.Name == "" {
		return "", fmt.Errorf("%w: no protocol with code %d", ErrUnknownProtocol, code)
	}
	for _, c := range m.components {
		if c.protocol.Code == code {
			return c.value, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrProtocolNotFound, p.Name)
}

// HasProtocol 检查是否包含指定协议
func (m *multiaddr) HasProtocol(code int) bool {
	for _, c := range m.components {
		if c.protocol.Code == code {
			return true
		}
	}
	return false
}

// ============================================================================
//                              编码接口
// ============================================================================

// MarshalBinary 实现 encoding.BinaryMarshaler
func (m *multiaddr) MarshalBinary() ([]byte, error) {
	return m.Bytes(), nil
}

// isSet 报告地址是否已经构造完成
func (m *multiaddr) isSet() bool {
	return m.bytes != nil || m.str != ""
}

// UnmarshalBinary 实现 encoding.BinaryUnmarshaler，只能填充零值地址
func (m *multiaddr) UnmarshalBinary(data []byte) error {
	if m.isSet() {
		return ErrAlreadySet
	}
	ma, err := NewMultiaddrBytes(data)
	if err != nil {
		return err
	}
	*m = *(ma.(*multiaddr))
	return nil
}

// MarshalText 实现 encoding.TextMarshaler
func (m *multiaddr) MarshalText() ([]byte, error) {
	return []byte(m.str), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler，只能填充零值地址
func (m *multiaddr) UnmarshalText(data []byte) error {
	if m.isSet() {
		return ErrAlreadySet
	}
	ma, err := NewMultiaddr(string(data))
	if err != nil {
		return err
	}
	*m = *(ma.(*multiaddr))
	return nil
}

// MarshalJSON 实现 json.Marshaler
func (m *multiaddr) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.str)
}

// UnmarshalJSON 实现 json.Unmarshaler
func (m *multiaddr) UnmarshalJSON(data []byte) error {
	if m.isSet() {
		return ErrAlreadySet
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return m.UnmarshalText([]byte(s))
}
