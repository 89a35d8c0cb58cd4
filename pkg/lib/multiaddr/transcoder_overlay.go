package multiaddr

import (
	"encoding/binary"
	"strconv"
	"strings"

	"github.com/dep2p/go-multiformat/internal/basen"
)

// ============================================================================
//                              Tor onion / onion3
// ============================================================================

// TranscoderOnion Tor v2 地址：10 字节主机 + 2 字节端口
var TranscoderOnion = newOnionTranscoder("onion", 16, 10)

// TranscoderOnion3 Tor v3 地址：35 字节主机 + 2 字节端口
var TranscoderOnion3 = newOnionTranscoder("onion3", 56, 35)

// onionCodec 文本形式为 <base32 小写无填充主机>:<端口>
type onionCodec struct {
	name      string
	hostChars int
	hostBytes int
}

func newOnionTranscoder(name string, hostChars, hostBytes int) Transcoder {
	c := onionCodec{name: name, hostChars: hostChars, hostBytes: hostBytes}
	return NewTranscoderFromFunctions(c.stringToBytes, c.bytesToString, c.validateBytes)
}

func (c onionCodec) stringToBytes(s string) ([]byte, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return nil, invalidValue("failed to parse %s address: %s does not contain a port number", c.name, s)
	}

	host := parts[0]
	if len(host) != c.hostChars {
		return nil, invalidValue("failed to parse %s address: %s not a Tor onion address", c.name, s)
	}
	hostBytes, err := basen.Decode(basen.Base32, strings.ToLower(host))
	if err != nil || len(hostBytes) != c.hostBytes {
		return nil, invalidValue("invalid %s address host: %s", c.name, host)
	}

	port, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return nil, invalidValue("failed to parse %s port %q: not a number", c.name, parts[1])
	}
	if port < 1 || port > 65535 {
		return nil, invalidValue("port number is not in range(1, 65536): %d", port)
	}

	return binary.BigEndian.AppendUint16(hostBytes, uint16(port)), nil
}

func (c onionCodec) bytesToString(b []byte) (string, error) {
	host, err := basen.Encode(basen.Base32, b[:c.hostBytes])
	if err != nil {
		return "", err
	}
	port := binary.BigEndian.Uint16(b[c.hostBytes:])
	return host + ":" + strconv.Itoa(int(port)), nil
}

func (c onionCodec) validateBytes(b []byte) error {
	if len(b) != c.hostBytes+2 {
		return invalidValue("invalid %s length %d, want %d", c.name, len(b), c.hostBytes+2)
	}
	if binary.BigEndian.Uint16(b[c.hostBytes:]) == 0 {
		return invalidValue("port number is not in range(1, 65536): 0")
	}
	return nil
}

// ============================================================================
//                              I2P garlic32 / garlic64
// ============================================================================

// TranscoderGarlic32 I2P base32 地址
//
// 普通地址为 52 个字符（32 字节），加密 LeaseSet v2 地址不少于 55 个字符（35 字节）。
var TranscoderGarlic32 = NewTranscoderFromFunctions(garlic32StringToBytes, garlic32BytesToString, garlic32ValidateBytes)

func garlic32StringToBytes(s string) ([]byte, error) {
	if len(s) < 55 && len(s) != 52 {
		return nil, invalidValue("invalid garlic addr: %s not a i2p base32 address. len: %d", s, len(s))
	}
	padded := strings.ToLower(s)
	if rem := len(padded) % 8; rem != 0 {
		padded += strings.Repeat("=", 8-rem)
	}
	b, err := basen.Decode(basen.Base32Pad, padded)
	if err != nil {
		return nil, invalidValue("invalid garlic addr: %s: %v", s, err)
	}
	if err := garlic32ValidateBytes(b); err != nil {
		return nil, err
	}
	return b, nil
}

func garlic32BytesToString(b []byte) (string, error) {
	s, err := basen.Encode(basen.Base32Pad, b)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(s, "="), nil
}

func garlic32ValidateBytes(b []byte) error {
	if len(b) < 35 && len(b) != 32 {
		return invalidValue("invalid garlic addr: not an i2p base32 address. len: %d", len(b))
	}
	return nil
}

// TranscoderGarlic64 I2P base64 地址，使用 '-' 和 '~' 替代 '+' 和 '/'
var TranscoderGarlic64 = NewTranscoderFromFunctions(garlic64StringToBytes, garlic64BytesToString, garlic64ValidateBytes)

var (
	garlicToStd   = strings.NewReplacer("-", "+", "~", "/")
	garlicFromStd = strings.NewReplacer("+", "-", "/", "~")
)

func garlic64StringToBytes(s string) ([]byte, error) {
	// 长度随证书类型在 516 到 616 个字符之间
	if len(s) < 516 || len(s) > 616 {
		return nil, invalidValue("invalid garlic addr: %s not an i2p base64 address. len: %d", s, len(s))
	}
	b, err := basen.Decode(basen.Base64Pad, garlicToStd.Replace(s))
	if err != nil {
		return nil, invalidValue("invalid garlic addr: %s: %v", s, err)
	}
	if err := garlic64ValidateBytes(b); err != nil {
		return nil, err
	}
	return b, nil
}

func garlic64BytesToString(b []byte) (string, error) {
	s, err := basen.Encode(basen.Base64Pad, b)
	if err != nil {
		return "", err
	}
	return garlicFromStd.Replace(s), nil
}

func garlic64ValidateBytes(b []byte) error {
	if len(b) < 386 {
		return invalidValue("invalid garlic64 length %d, must be at least 386", len(b))
	}
	return nil
}
