package multiaddr

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"net/netip"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dep2p/go-multiformat/internal/basen"
)

// Transcoder 接口定义了协议数据的编解码方法
type Transcoder interface {
	// StringToBytes 将字符串值转换为字节，并完成校验
	StringToBytes(string) ([]byte, error)

	// BytesToString 将字节转换为字符串值
	BytesToString([]byte) (string, error)

	// ValidateBytes 验证字节数据是否有效
	ValidateBytes([]byte) error
}

// NewTranscoderFromFunctions 从函数创建 Transcoder
func NewTranscoderFromFunctions(
	s2b func(string) ([]byte, error),
	b2s func([]byte) (string, error),
	val func([]byte) error,
) Transcoder {
	return &transcoderWrapper{s2b, b2s, val}
}

type transcoderWrapper struct {
	stringToBytes func(string) ([]byte, error)
	bytesToString func([]byte) (string, error)
	validateBytes func([]byte) error
}

func (t *transcoderWrapper) StringToBytes(s string) ([]byte, error) {
	return t.stringToBytes(s)
}

func (t *transcoderWrapper) BytesToString(b []byte) (string, error) {
	if err := t.ValidateBytes(b); err != nil {
		return "", err
	}
	return t.bytesToString(b)
}

func (t *transcoderWrapper) ValidateBytes(b []byte) error {
	if t.validateBytes == nil {
		return nil
	}
	return t.validateBytes(b)
}

// ============================================================================
//                              IP
// ============================================================================

// TranscoderIP4 IPv4 地址，4 字节
var TranscoderIP4 = NewTranscoderFromFunctions(ip4StringToBytes, ip4BytesToString, fixedLength("ip4", 4))

func ip4StringToBytes(s string) ([]byte, error) {
	addr, err := netip.ParseAddr(s)
	if err != nil || !addr.Is4() {
		return nil, invalidValue("failed to parse ip4 addr: %s", s)
	}
	b := addr.As4()
	return b[:], nil
}

func ip4BytesToString(b []byte) (string, error) {
	return netip.AddrFrom4([4]byte(b)).String(), nil
}

// TranscoderIP6 IPv6 地址，16 字节
var TranscoderIP6 = NewTranscoderFromFunctions(ip6StringToBytes, ip6BytesToString, fixedLength("ip6", 16))

func ip6StringToBytes(s string) ([]byte, error) {
	addr, err := netip.ParseAddr(s)
	if err != nil || !addr.Is6() {
		return nil, invalidValue("failed to parse ip6 addr: %s", s)
	}
	// 区域标识使用单独的 ip6zone 协议表达
	if addr.Zone() != "" {
		return nil, invalidValue("ip6 addr %s must not carry a zone, use /ip6zone", s)
	}
	b := addr.As16()
	return b[:], nil
}

func ip6BytesToString(b []byte) (string, error) {
	addr := netip.AddrFrom16([16]byte(b))
	// IPv4 映射地址保持 IPv6 十六进制分组形式，避免与 ip4 文本混淆
	if addr.Is4In6() {
		return fmt.Sprintf("::ffff:%x:%x", binary.BigEndian.Uint16(b[12:14]), binary.BigEndian.Uint16(b[14:16])), nil
	}
	return addr.String(), nil
}

// TranscoderIP6Zone IPv6 区域标识
var TranscoderIP6Zone = NewTranscoderFromFunctions(ip6ZoneStringToBytes, ip6ZoneBytesToString, ip6ZoneValidateBytes)

func ip6ZoneStringToBytes(s string) ([]byte, error) {
	b := []byte(s)
	if err := ip6ZoneValidateBytes(b); err != nil {
		return nil, err
	}
	return b, nil
}

func ip6ZoneBytesToString(b []byte) (string, error) {
	return string(b), nil
}

func ip6ZoneValidateBytes(b []byte) error {
	if len(b) == 0 {
		return invalidValue("empty ip6zone")
	}
	// 不支持 '/'，否则会破坏字符串形式的解析
	if strings.ContainsRune(string(b), '/') {
		return invalidValue("IPv6 zone ID contains '/': %s", b)
	}
	return nil
}

// TranscoderIPCIDR 前缀长度，1 字节
var TranscoderIPCIDR = NewTranscoderFromFunctions(ipCIDRStringToBytes, ipCIDRBytesToString, fixedLength("ipcidr", 1))

func ipCIDRStringToBytes(s string) ([]byte, error) {
	mask, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return nil, invalidValue("failed to parse ipcidr %q: not a number", s)
	}
	if mask > 255 {
		return nil, invalidValue("invalid cidr %s, must be <256", s)
	}
	return []byte{byte(mask)}, nil
}

func ipCIDRBytesToString(b []byte) (string, error) {
	return strconv.Itoa(int(b[0])), nil
}

// ============================================================================
//                              端口（TCP/UDP/DCCP/SCTP）
// ============================================================================

// TranscoderPort 大端 16 位端口
var TranscoderPort = NewTranscoderFromFunctions(portStringToBytes, portBytesToString, fixedLength("port", 2))

func portStringToBytes(s string) ([]byte, error) {
	port, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return nil, invalidValue("failed to parse port %q: not a number", s)
	}
	if port > 65535 {
		return nil, invalidValue("failed to parse port %s (> 65535)", s)
	}
	return binary.BigEndian.AppendUint16(nil, uint16(port)), nil
}

func portBytesToString(b []byte) (string, error) {
	return strconv.Itoa(int(binary.BigEndian.Uint16(b))), nil
}

// ============================================================================
//                              DNS / SNI
// ============================================================================

// TranscoderDNS 主机名的 UTF-8 字节（DNS/DNS4/DNS6/DNSADDR/SNI）
var TranscoderDNS = NewTranscoderFromFunctions(dnsStringToBytes, dnsBytesToString, dnsValidateBytes)

func dnsStringToBytes(s string) ([]byte, error) {
	b := []byte(s)
	if err := dnsValidateBytes(b); err != nil {
		return nil, err
	}
	return b, nil
}

func dnsBytesToString(b []byte) (string, error) {
	return string(b), nil
}

func dnsValidateBytes(b []byte) error {
	if len(b) == 0 {
		return invalidValue("empty dns name")
	}
	if bytes.IndexByte(b, '/') >= 0 {
		return invalidValue("dns name %q contains '/'", b)
	}
	return nil
}

// ============================================================================
//                              Unix
// ============================================================================

// TranscoderUnix 路径协议，字节即路径本身（含前导 '/'）
var TranscoderUnix = NewTranscoderFromFunctions(unixStringToBytes, unixBytesToString, unixValidateBytes)

func unixStringToBytes(s string) ([]byte, error) {
	b := []byte(s)
	if err := unixValidateBytes(b); err != nil {
		return nil, err
	}
	return b, nil
}

func unixBytesToString(b []byte) (string, error) {
	return string(b), nil
}

func unixValidateBytes(b []byte) error {
	if len(b) == 0 {
		return invalidValue("empty unix path")
	}
	if b[0] != '/' {
		return invalidValue("unix path %q does not start with '/'", b)
	}
	if !utf8.Valid(b) {
		return invalidValue("unix path is not valid utf-8")
	}
	return nil
}

// ============================================================================
//                              通用（十六进制）
// ============================================================================

// TranscoderGeneric 十六进制编解码，用于没有专用编解码器的协议
var TranscoderGeneric = NewTranscoderFromFunctions(genericStringToBytes, genericBytesToString, nil)

func genericStringToBytes(s string) ([]byte, error) {
	b, err := basen.Decode(basen.Base16, strings.ToLower(s))
	if err != nil {
		return nil, invalidValue("invalid hex value %s: %v", s, err)
	}
	return b, nil
}

func genericBytesToString(b []byte) (string, error) {
	return basen.Encode(basen.Base16, b)
}

// fixedLength 返回一个校验固定字节长度的函数
func fixedLength(name string, n int) func([]byte) error {
	return func(b []byte) error {
		if len(b) != n {
			return invalidValue("invalid %s length %d, want %d", name, len(b), n)
		}
		return nil
	}
}
