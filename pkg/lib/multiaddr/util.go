package multiaddr

import (
	"errors"
	"fmt"

	mh "github.com/multiformats/go-multihash"
)

// ============================================================================
//                              组件级操作
// ============================================================================

// Join 将组件依次连接为多地址，没有组件时返回空地址
func Join(comps ...Component) (Multiaddr, error) {
	return NewMultiaddrFromComponents(comps...)
}

// SplitFirst 分离第一个组件和剩余部分
//
// 空地址返回 ok=false。
func SplitFirst(m Multiaddr) (first Component, rest Multiaddr, ok bool) {
	if m == nil {
		return Component{}, nil, false
	}
	comps := m.Components()
	if len(comps) == 0 {
		return Component{}, m, false
	}
	rest, err := NewMultiaddrFromComponents(comps[1:]...)
	if err != nil {
		return Component{}, nil, false
	}
	return comps[0], rest, true
}

// SplitLast 分离最后一个组件和之前的部分
func SplitLast(m Multiaddr) (rest Multiaddr, last Component, ok bool) {
	if m == nil {
		return nil, Component{}, false
	}
	comps := m.Components()
	if len(comps) == 0 {
		return m, Component{}, false
	}
	rest, err := NewMultiaddrFromComponents(comps[:len(comps)-1]...)
	if err != nil {
		return nil, Component{}, false
	}
	return rest, comps[len(comps)-1], true
}

// ForEach 依次访问每个组件，回调返回 false 时停止
func ForEach(m Multiaddr, fn func(Component) bool) {
	if m == nil {
		return
	}
	for _, c := range m.Components() {
		if !fn(c) {
			return
		}
	}
}

// ============================================================================
//                              节点标识
// ============================================================================

// ErrNoPeerID 地址中没有 /p2p 组件
var ErrNoPeerID = errors.New("no peer ID in multiaddr")

// SplitPeer 分离传输地址和最后一个 /p2p 组件
//
// 输入：/ip4/1.2.3.4/tcp/4001/p2p/QmFoo
// 输出：/ip4/1.2.3.4/tcp/4001, QmFoo
//
// 没有 /p2p 组件时原样返回 m 和空字符串。
func SplitPeer(m Multiaddr) (transport Multiaddr, peerID string) {
	if m == nil {
		return nil, ""
	}
	comps := m.Components()
	for i := len(comps) - 1; i >= 0; i-- {
		if comps[i].protocol.Code != P_P2P {
			continue
		}
		rest := make([]Component, 0, len(comps)-1)
		rest = append(rest, comps[:i]...)
		rest = append(rest, comps[i+1:]...)
		transport, err := NewMultiaddrFromComponents(rest...)
		if err != nil {
			return m, ""
		}
		return transport, comps[i].value
	}
	return m, ""
}

// GetPeerID 返回地址中最后一个 /p2p 组件的值
func GetPeerID(m Multiaddr) (string, error) {
	if m == nil {
		return "", ErrNoPeerID
	}
	_, id := SplitPeer(m)
	if id == "" {
		return "", ErrNoPeerID
	}
	return id, nil
}

// WithPeerID 为地址设置节点标识，替换已有的 /p2p 组件
func WithPeerID(m Multiaddr, peerID string) (Multiaddr, error) {
	c, err := NewComponent("p2p", peerID)
	if err != nil {
		return nil, fmt.Errorf("invalid peer ID: %w", err)
	}
	transport := WithoutPeerID(m)
	if transport == nil {
		return NewMultiaddrFromComponents(c)
	}
	return NewMultiaddrFromComponents(append(transport.Components(), c)...)
}

// WithoutPeerID 移除地址中所有的 /p2p 组件
func WithoutPeerID(m Multiaddr) Multiaddr {
	if m == nil {
		return nil
	}
	kept := FilterComponents(m, func(c Component) bool {
		return c.protocol.Code != P_P2P
	})
	out, err := NewMultiaddrFromComponents(kept...)
	if err != nil {
		return m
	}
	return out
}

// PeerIDMultihash 将地址中的节点标识解码为 multihash
func PeerIDMultihash(m Multiaddr) (mh.Multihash, error) {
	if m == nil {
		return nil, ErrNoPeerID
	}
	comps := m.Components()
	for i := len(comps) - 1; i >= 0; i-- {
		if comps[i].protocol.Code == P_P2P {
			return mh.Cast(comps[i].RawValue())
		}
	}
	return nil, ErrNoPeerID
}

// ============================================================================
//                              列表工具
// ============================================================================

// FilterComponents 返回满足条件的组件
func FilterComponents(m Multiaddr, keep func(Component) bool) []Component {
	var out []Component
	ForEach(m, func(c Component) bool {
		if keep(c) {
			out = append(out, c)
		}
		return true
	})
	return out
}

// FilterAddrs 过滤多地址列表
func FilterAddrs(addrs []Multiaddr, filter func(Multiaddr) bool) []Multiaddr {
	result := make([]Multiaddr, 0, len(addrs))
	for _, addr := range addrs {
		if addr != nil && filter(addr) {
			result = append(result, addr)
		}
	}
	return result
}

// UniqueAddrs 按二进制形式去重（保持顺序）
func UniqueAddrs(addrs []Multiaddr) []Multiaddr {
	seen := make(map[string]struct{}, len(addrs))
	result := make([]Multiaddr, 0, len(addrs))
	for _, addr := range addrs {
		if addr == nil {
			continue
		}
		key := string(addr.Bytes())
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, addr)
	}
	return result
}

// HasProtocol 检查多地址是否包含指定协议
func HasProtocol(m Multiaddr, code int) bool {
	return m != nil && m.HasProtocol(code)
}

// IsTCPMultiaddr 检查是否为 TCP 多地址
func IsTCPMultiaddr(m Multiaddr) bool {
	return HasProtocol(m, P_TCP)
}

// IsUDPMultiaddr 检查是否为 UDP 多地址
func IsUDPMultiaddr(m Multiaddr) bool {
	return HasProtocol(m, P_UDP)
}

// IsIP4Multiaddr 检查是否包含 IPv4
func IsIP4Multiaddr(m Multiaddr) bool {
	return HasProtocol(m, P_IP4)
}

// IsIP6Multiaddr 检查是否包含 IPv6
func IsIP6Multiaddr(m Multiaddr) bool {
	return HasProtocol(m, P_IP6)
}

// IsIPMultiaddr 检查是否包含 IP（IPv4 或 IPv6）
func IsIPMultiaddr(m Multiaddr) bool {
	return IsIP4Multiaddr(m) || IsIP6Multiaddr(m)
}
