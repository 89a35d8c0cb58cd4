// Package addrutil 提供多地址分类工具
package addrutil

import (
	"net/netip"

	ma "github.com/dep2p/go-multiformat/pkg/lib/multiaddr"
)

// ============================================================================
//                              地址范围分类
// ============================================================================

// Scope 地址的可达范围
type Scope int

const (
	// ScopeUnknown 无法判断（空地址、纯传输协议等）
	ScopeUnknown Scope = iota
	// ScopeLoopback 回环地址
	ScopeLoopback
	// ScopeLinkLocal 链路本地地址（169.254.0.0/16、fe80::/10）
	ScopeLinkLocal
	// ScopePrivate 私网地址（RFC 1918、fc00::/7）
	ScopePrivate
	// ScopePublic 公网单播地址
	ScopePublic
	// ScopeDNS 以域名开头，需要解析后才能判断
	ScopeDNS
	// ScopeRelay 经过 p2p-circuit 中继
	ScopeRelay
	// ScopeUnix 本机 unix 套接字
	ScopeUnix
)

var scopeNames = [...]string{
	ScopeUnknown:   "unknown",
	ScopeLoopback:  "loopback",
	ScopeLinkLocal: "link-local",
	ScopePrivate:   "private",
	ScopePublic:    "public",
	ScopeDNS:       "dns",
	ScopeRelay:     "relay",
	ScopeUnix:      "unix",
}

// String 返回范围名称
func (s Scope) String() string {
	if s < 0 || int(s) >= len(scopeNames) {
		return "unknown"
	}
	return scopeNames[s]
}

// Classify 判断地址的可达范围
//
// 中继地址优先：只要包含 /p2p-circuit 即为 ScopeRelay。
// 否则按首个（跳过 ip6zone 后）组件判断。
func Classify(m ma.Multiaddr) Scope {
	if m == nil {
		return ScopeUnknown
	}
	if m.HasProtocol(ma.P_P2P_CIRCUIT) {
		return ScopeRelay
	}

	first, rest, ok := ma.SplitFirst(m)
	if !ok {
		return ScopeUnknown
	}
	if first.Protocol().Code == ma.P_IP6ZONE {
		if first, _, ok = ma.SplitFirst(rest); !ok {
			return ScopeUnknown
		}
	}

	switch first.Protocol().Code {
	case ma.P_IP4, ma.P_IP6:
		ip, ok := netip.AddrFromSlice(first.RawValue())
		if !ok {
			return ScopeUnknown
		}
		return classifyIP(ip.Unmap())
	case ma.P_DNS, ma.P_DNS4, ma.P_DNS6, ma.P_DNSADDR:
		return ScopeDNS
	case ma.P_UNIX:
		return ScopeUnix
	default:
		return ScopeUnknown
	}
}

func classifyIP(ip netip.Addr) Scope {
	switch {
	case ip.IsLoopback():
		return ScopeLoopback
	case ip.IsLinkLocalUnicast():
		return ScopeLinkLocal
	case ip.IsPrivate():
		return ScopePrivate
	case ip.IsGlobalUnicast():
		return ScopePublic
	default:
		return ScopeUnknown
	}
}

// IsLoopback 是否回环地址
func IsLoopback(m ma.Multiaddr) bool { return Classify(m) == ScopeLoopback }

// IsPrivate 是否私网或链路本地地址
func IsPrivate(m ma.Multiaddr) bool {
	s := Classify(m)
	return s == ScopePrivate || s == ScopeLinkLocal
}

// IsPublic 是否公网地址
func IsPublic(m ma.Multiaddr) bool { return Classify(m) == ScopePublic }
