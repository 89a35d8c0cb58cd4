package multiaddr

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/multiformats/go-multicodec"

	"github.com/dep2p/go-multiformat/pkg/lib/varint"
)

// Protocol 描述一个 multiaddr 协议
type Protocol struct {
	// Name 协议名称（如 "ip4", "tcp"）
	Name string

	// Code 协议代码（multicodec）
	Code int

	// VCode 预计算的 varint 编码
	VCode []byte

	// Size 协议参数大小（位）
	// 0 表示无参数
	// LengthPrefixedVarSize 表示变长（varint 长度前缀）
	Size int

	// Path 是否为路径协议，解析字符串时消费剩余全部内容
	// 仅当 Size == LengthPrefixedVarSize 时可以为 true
	Path bool

	// Transcoder 编解码器，Size != 0 时必须存在
	Transcoder Transcoder
}

// String 返回协议名称
func (p Protocol) String() string {
	return p.Name
}

// SizeForArgument 返回协议参数的字节数
//
// 固定长度协议直接返回 Size/8；变长协议从 r 读取一个 varint 长度前缀。
func (p Protocol) SizeForArgument(r io.ByteReader) (int, error) {
	switch {
	case p.Size == 0:
		return 0, nil
	case p.Size > 0:
		return p.Size / 8, nil
	}

	n, err := varint.Read(r)
	if err != nil {
		return 0, err
	}
	if n > math.MaxInt32 {
		return 0, fmt.Errorf("%w: length %d", ErrInsufficientBytes, n)
	}
	return int(n), nil
}

// transcoder 返回协议的编解码器，未指定时回退到十六进制编解码器
func (p Protocol) transcoder() Transcoder {
	if p.Transcoder == nil {
		return TranscoderGeneric
	}
	return p.Transcoder
}

// LengthPrefixedVarSize 表示变长数据（使用 varint 前缀）
const LengthPrefixedVarSize = -1

// 协议代码常量（取自 multiformats/multicodec）
const (
	P_IP4                = int(multicodec.Ip4)
	P_TCP                = int(multicodec.Tcp)
	P_DCCP               = int(multicodec.Dccp)
	P_IP6                = int(multicodec.Ip6)
	P_IP6ZONE            = int(multicodec.Ip6zone)
	P_IPCIDR             = int(multicodec.Ipcidr)
	P_DNS                = int(multicodec.Dns)
	P_DNS4               = int(multicodec.Dns4)
	P_DNS6               = int(multicodec.Dns6)
	P_DNSADDR            = int(multicodec.Dnsaddr)
	P_SCTP               = int(multicodec.Sctp)
	P_UDP                = int(multicodec.Udp)
	P_P2P_WEBRTC_STAR    = int(multicodec.P2pWebrtcStar)
	P_P2P_WEBRTC_DIRECT  = int(multicodec.P2pWebrtcDirect)
	P_P2P_STARDUST       = int(multicodec.P2pStardust)
	P_WEBRTC_DIRECT      = int(multicodec.WebrtcDirect)
	P_WEBRTC             = int(multicodec.Webrtc)
	P_P2P_CIRCUIT        = int(multicodec.P2pCircuit)
	P_UDT                = int(multicodec.Udt)
	P_UTP                = int(multicodec.Utp)
	P_UNIX               = int(multicodec.Unix)
	P_P2P                = int(multicodec.P2p)
	P_IPFS               = P_P2P // 向后兼容别名
	P_HTTPS              = int(multicodec.Https)
	P_ONION              = int(multicodec.Onion)
	P_ONION3             = int(multicodec.Onion3)
	P_GARLIC64           = int(multicodec.Garlic64)
	P_GARLIC32           = int(multicodec.Garlic32)
	P_TLS                = int(multicodec.Tls)
	P_SNI                = int(multicodec.Sni)
	P_NOISE              = int(multicodec.Noise)
	P_QUIC               = int(multicodec.Quic)
	P_QUIC_V1            = int(multicodec.QuicV1)
	P_WEBTRANSPORT       = int(multicodec.Webtransport)
	P_CERTHASH           = int(multicodec.Certhash)
	P_WS                 = int(multicodec.Ws)
	P_WSS                = int(multicodec.Wss)
	P_P2P_WEBSOCKET_STAR = int(multicodec.P2pWebsocketStar)
	P_HTTP               = int(multicodec.Http)
	P_PLAINTEXTV2        = int(multicodec.Plaintextv2)
)

// ============================================================================
//                              协议表
// ============================================================================

// newProtocol 以 multicodec 代码构造协议，名称取自 multicodec 表
func newProtocol(code multicodec.Code, size int, path bool, t Transcoder) Protocol {
	return Protocol{
		Name:       code.String(),
		Code:       int(code),
		Size:       size,
		Path:       path,
		Transcoder: t,
	}
}

// protocolTable 静态协议表，注册表由它一次性构建
var protocolTable = []Protocol{
	newProtocol(multicodec.Ip4, 32, false, TranscoderIP4),
	newProtocol(multicodec.Tcp, 16, false, TranscoderPort),
	newProtocol(multicodec.Dns, LengthPrefixedVarSize, false, TranscoderDNS),
	newProtocol(multicodec.Dns4, LengthPrefixedVarSize, false, TranscoderDNS),
	newProtocol(multicodec.Dns6, LengthPrefixedVarSize, false, TranscoderDNS),
	newProtocol(multicodec.Dnsaddr, LengthPrefixedVarSize, false, TranscoderDNS),
	newProtocol(multicodec.Udp, 16, false, TranscoderPort),
	newProtocol(multicodec.Dccp, 16, false, TranscoderPort),
	newProtocol(multicodec.Ip6, 128, false, TranscoderIP6),
	newProtocol(multicodec.Ipcidr, 8, false, TranscoderIPCIDR),
	newProtocol(multicodec.Ip6zone, LengthPrefixedVarSize, false, TranscoderIP6Zone),
	newProtocol(multicodec.Sctp, 16, false, TranscoderPort),
	newProtocol(multicodec.P2pCircuit, 0, false, nil),
	newProtocol(multicodec.Onion, 96, false, TranscoderOnion),
	newProtocol(multicodec.Onion3, 296, false, TranscoderOnion3),
	newProtocol(multicodec.Garlic32, LengthPrefixedVarSize, false, TranscoderGarlic32),
	newProtocol(multicodec.Garlic64, LengthPrefixedVarSize, false, TranscoderGarlic64),
	newProtocol(multicodec.Utp, 0, false, nil),
	newProtocol(multicodec.Udt, 0, false, nil),
	newProtocol(multicodec.Quic, 0, false, nil),
	newProtocol(multicodec.QuicV1, 0, false, nil),
	newProtocol(multicodec.Webtransport, 0, false, nil),
	newProtocol(multicodec.Certhash, LengthPrefixedVarSize, false, TranscoderCertHash),
	newProtocol(multicodec.Http, 0, false, nil),
	newProtocol(multicodec.Https, 0, false, nil), // 已废弃，等价于 /tls/http
	newProtocol(multicodec.P2p, LengthPrefixedVarSize, false, TranscoderP2P),
	newProtocol(multicodec.Unix, LengthPrefixedVarSize, true, TranscoderUnix),
	newProtocol(multicodec.P2pWebrtcDirect, 0, false, nil), // 已废弃，使用 webrtc-direct
	newProtocol(multicodec.Tls, 0, false, nil),
	newProtocol(multicodec.Sni, LengthPrefixedVarSize, false, TranscoderDNS),
	newProtocol(multicodec.Noise, 0, false, nil),
	newProtocol(multicodec.Plaintextv2, 0, false, nil),
	newProtocol(multicodec.Ws, 0, false, nil),
	newProtocol(multicodec.Wss, 0, false, nil), // 已废弃，等价于 /tls/ws
	newProtocol(multicodec.WebrtcDirect, 0, false, nil),
	newProtocol(multicodec.Webrtc, 0, false, nil),
	newProtocol(multicodec.P2pWebrtcStar, 0, false, nil),
	newProtocol(multicodec.P2pStardust, 0, false, nil),
	newProtocol(multicodec.P2pWebsocketStar, 0, false, nil),
}

// protocolAliases 名称别名 -> 协议代码
var protocolAliases = map[string]int{
	"ipfs": P_P2P,
}

// ============================================================================
//                              注册表
// ============================================================================

// registry 只读协议注册表
type registry struct {
	byName map[string]Protocol
	byCode map[int]Protocol
	sorted []Protocol
}

var protocols = buildRegistry(protocolTable, protocolAliases)

// buildRegistry 从静态表构建注册表
//
// 表内容违反约束时 panic：名称或代码重复、路径协议非变长、固定长度不是整字节。
func buildRegistry(table []Protocol, aliases map[string]int) *registry {
	r := &registry{
		byName: make(map[string]Protocol, len(table)+len(aliases)),
		byCode: make(map[int]Protocol, len(table)),
		sorted: make([]Protocol, 0, len(table)),
	}

	for _, p := range table {
		switch {
		case p.Name == "" || strings.ToLower(p.Name) != p.Name:
			panic(fmt.Sprintf("multiaddr: invalid protocol name %q", p.Name))
		case p.Code < 0:
			panic(fmt.Sprintf("multiaddr: invalid code %d for protocol %s", p.Code, p.Name))
		case p.Path && p.Size != LengthPrefixedVarSize:
			panic(fmt.Sprintf("multiaddr: path protocol %s must be length prefixed", p.Name))
		case p.Size > 0 && p.Size%8 != 0:
			panic(fmt.Sprintf("multiaddr: size of protocol %s is not a whole number of bytes", p.Name))
		case p.Size < 0 && p.Size != LengthPrefixedVarSize:
			panic(fmt.Sprintf("multiaddr: invalid size %d for protocol %s", p.Size, p.Name))
		}
		if _, ok := r.byName[p.Name]; ok {
			panic(fmt.Sprintf("multiaddr: duplicate protocol name %s", p.Name))
		}
		if _, ok := r.byCode[p.Code]; ok {
			panic(fmt.Sprintf("multiaddr: duplicate protocol code %d", p.Code))
		}

		if p.Size != 0 && p.Transcoder == nil {
			log.Debug("no dedicated transcoder, defaulting to generic", "protocol", p.Name)
			p.Transcoder = TranscoderGeneric
		}
		p.VCode = varint.Encode(uint64(p.Code))

		r.byName[p.Name] = p
		r.byCode[p.Code] = p
		r.sorted = append(r.sorted, p)
	}

	for alias, code := range aliases {
		p, ok := r.byCode[code]
		if !ok {
			panic(fmt.Sprintf("multiaddr: alias %s refers to unknown code %d", alias, code))
		}
		if _, ok := r.byName[alias]; ok {
			panic(fmt.Sprintf("multiaddr: alias %s shadows a protocol name", alias))
		}
		r.byName[alias] = p
	}

	sort.Slice(r.sorted, func(i, j int) bool { return r.sorted[i].Code < r.sorted[j].Code })
	log.Debug("protocol registry built", "protocols", len(r.sorted), "aliases", len(aliases))
	return r
}

// ProtocolWithCode 根据协议代码获取协议
// 如果协议不存在，返回零值协议（Name 为空）
func ProtocolWithCode(code int) Protocol {
	return protocols.byCode[code]
}

// ProtocolWithName 根据协议名称获取协议，名称区分大小写，支持别名（如 "ipfs"）
// 如果协议不存在，返回零值协议（Name 为空）
func ProtocolWithName(name string) Protocol {
	return protocols.byName[name]
}

// Protocols 返回所有已注册的协议，按代码升序
func Protocols() []Protocol {
	out := make([]Protocol, len(protocols.sorted))
	copy(out, protocols.sorted)
	return out
}

// ProtocolsWithString 返回多地址字符串中的所有协议名称
func ProtocolsWithString(s string) ([]string, error) {
	m, err := NewMultiaddr(s)
	if err != nil {
		return nil, err
	}
	ps := m.Protocols()
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = p.Name
	}
	return names, nil
}
