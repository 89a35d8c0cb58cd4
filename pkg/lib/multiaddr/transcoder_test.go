package multiaddr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTranscoderRoundTrip 各编解码器的字符串与字节互转
func TestTranscoderRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		tc   Transcoder
		in   string
		hex  string
		out  string // 为空时与 in 相同
	}{
		{"ip4", TranscoderIP4, "192.168.1.1", "c0a80101", ""},
		{"ip6", TranscoderIP6, "2001:db8::1", "20010db8000000000000000000000001", ""},
		{"ip6 v4 mapped", TranscoderIP6, "::ffff:127.0.0.1", "00000000000000000000ffff7f000001", "::ffff:7f00:1"},
		{"ip6zone", TranscoderIP6Zone, "eth0", "65746830", ""},
		{"ipcidr", TranscoderIPCIDR, "24", "18", ""},
		{"port", TranscoderPort, "443", "01bb", ""},
		{"port zero", TranscoderPort, "0", "0000", ""},
		{"dns", TranscoderDNS, "example.com", "6578616d706c652e636f6d", ""},
		{"unix", TranscoderUnix, "/tmp/a", "2f746d702f61", ""},
		{"generic", TranscoderGeneric, "DEADbeef", "deadbeef", "deadbeef"},
		{"onion", TranscoderOnion, "aaimaq4ygg2iegci:80", "0010c0439831b48218480050", ""},
		{"garlic32", TranscoderGarlic32, "566niximlxdzpanmn4qouucvua3k7neniwss47li5r6ugoertzuq", "efbcd45d0c5dc79781ac6f20ea5055a036afb48d45a52e7d68ec7d4338919e69", ""},
		{"certhash", TranscoderCertHash, "uEiDDq4_xNyDorZBH3TlGazyJdOWSwvo4PUo5YHFMrvDE8g", "1220c3ab8ff13720e8ad9047dd39466b3c8974e592c2fa383d4a3960714caef0c4f2", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := tt.tc.StringToBytes(tt.in)
			require.NoError(t, err)
			assert.Equal(t, mustHex(t, tt.hex), b)

			s, err := tt.tc.BytesToString(b)
			require.NoError(t, err)
			want := tt.out
			if want == "" {
				want = tt.in
			}
			assert.Equal(t, want, s)
		})
	}
}

// TestTranscoderInvalid 非法输入返回 ErrInvalidValue
func TestTranscoderInvalid(t *testing.T) {
	tests := []struct {
		name string
		tc   Transcoder
		in   string
		msg  string
	}{
		{"ip4 given ip6", TranscoderIP4, "::1", "failed to parse ip4 addr"},
		{"ip6 given ip4", TranscoderIP6, "1.2.3.4", "failed to parse ip6 addr"},
		{"ip6 with zone", TranscoderIP6, "fe80::1%eth0", "/ip6zone"},
		{"ip6zone slash", TranscoderIP6Zone, "a/b", "contains '/'"},
		{"ipcidr range", TranscoderIPCIDR, "256", "must be <256"},
		{"ipcidr text", TranscoderIPCIDR, "x", "not a number"},
		{"port range", TranscoderPort, "65536", "(> 65535)"},
		{"port negative", TranscoderPort, "-1", "not a number"},
		{"dns empty", TranscoderDNS, "", "empty dns name"},
		{"unix empty", TranscoderUnix, "", "empty unix path"},
		{"unix relative", TranscoderUnix, "tmp", "does not start with '/'"},
		{"unix utf8", TranscoderUnix, "/\xff", "utf-8"},
		{"generic odd", TranscoderGeneric, "abc", "invalid hex"},
		{"onion no port", TranscoderOnion, "timaq4ygg2iegci7", "does not contain a port number"},
		{"onion3 port", TranscoderOnion3, "vww6ybal4bd7szmgncyruucpgfkqahzddi37ktceo3ah7ngmcopnpyyd:65536", "not in range"},
		{"garlic32 short", TranscoderGarlic32, "abc", "not a i2p base32 address"},
		{"garlic64 short", TranscoderGarlic64, "abc", "not an i2p base64 address"},
		{"certhash multibase", TranscoderCertHash, "?abc", "failed to parse certhash"},
		{"p2p codec", TranscoderP2P, "k2jmtxwoe2phm1hbqp0e7nufqf6umvuu2e9qd7ana7h411a0haqj6i2z", "invalid codec dag-pb"},
		{"p2p base58", TranscoderP2P, "Qm0OIl", "failed to parse p2p address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.tc.StringToBytes(tt.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidValue)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

// TestTranscoderValidateBytes 字节形式的校验
func TestTranscoderValidateBytes(t *testing.T) {
	tests := []struct {
		name  string
		tc    Transcoder
		bytes []byte
		ok    bool
	}{
		{"ip4 length", TranscoderIP4, []byte{1, 2, 3}, false},
		{"ip6 length", TranscoderIP6, make([]byte, 16), true},
		{"port length", TranscoderPort, []byte{1}, false},
		{"ip6zone empty", TranscoderIP6Zone, nil, false},
		{"unix relative", TranscoderUnix, []byte("tmp"), false},
		{"unix absolute", TranscoderUnix, []byte("/tmp"), true},
		{"dns slash", TranscoderDNS, []byte("a/b"), false},
		{"onion port zero", TranscoderOnion, make([]byte, 12), false},
		{"garlic32 32 bytes", TranscoderGarlic32, make([]byte, 32), true},
		{"garlic32 33 bytes", TranscoderGarlic32, make([]byte, 33), false},
		{"garlic32 35 bytes", TranscoderGarlic32, make([]byte, 35), true},
		{"garlic64 385 bytes", TranscoderGarlic64, make([]byte, 385), false},
		{"garlic64 386 bytes", TranscoderGarlic64, make([]byte, 386), true},
		{"p2p not multihash", TranscoderP2P, []byte{0x12}, false},
		{"generic anything", TranscoderGeneric, []byte{1, 2, 3}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tc.ValidateBytes(tt.bytes)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidValue)

			// BytesToString 先校验
			_, err = tt.tc.BytesToString(tt.bytes)
			assert.ErrorIs(t, err, ErrInvalidValue)
		})
	}
}

// TestGarlic64Alphabet garlic64 使用 '-' 与 '~' 的 base64 字母表
func TestGarlic64Alphabet(t *testing.T) {
	b, err := TranscoderGarlic64.StringToBytes(garlic64Host)
	require.NoError(t, err)
	assert.Len(t, b, 387)

	s, err := TranscoderGarlic64.BytesToString(b)
	require.NoError(t, err)
	assert.Equal(t, garlic64Host, s)
	assert.NotContains(t, s, "+")
	assert.NotContains(t, s, "/")
}

// TestP2PForms 节点标识的多种文本形式
func TestP2PForms(t *testing.T) {
	forms := []string{
		"QmcgpsyWgH8Y8ajJz1Cu72KnS5uo2Aa2LpzU7kinSupNKC",
		"12D3KooWCryG7Mon9orvQxcS1rYZjotPgpwoJNHHKcLLfE4Hf5mV",
		"k2k4r8oqamigqdo6o7hsbfwd45y70oyynp98usk7zmyfrzpqxh1pohl7",
		"bafzbeigvf25ytwc3akrijfecaotc74udrhcxzh2cx3we5qqnw5vgrei4bm",
	}

	for _, f := range forms {
		t.Run(f, func(t *testing.T) {
			b, err := TranscoderP2P.StringToBytes(f)
			require.NoError(t, err)

			s, err := TranscoderP2P.BytesToString(b)
			require.NoError(t, err)

			// 输出为 base58，再次解析得到相同字节
			again, err := TranscoderP2P.StringToBytes(s)
			require.NoError(t, err)
			assert.Equal(t, b, again)
		})
	}
}

// TestPathBytesRoundTrip 从字节解析的地址，其字符串形式重新解析得到相同字节
func TestPathBytesRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		hex  string
		ok   bool
	}{
		{"unix absolute", "9003042f746d70", true},
		{"unix relative", "900303746d70", false},
		{"dns plain", "3503612e62", true},
		{"dns slash", "3503612f62", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := mustHex(t, tt.hex)
			m, err := NewMultiaddrBytes(b)
			if !tt.ok {
				assert.ErrorIs(t, err, ErrInvalidValue)
				return
			}
			require.NoError(t, err)

			again, err := NewMultiaddr(m.String())
			require.NoError(t, err)
			assert.Equal(t, b, again.Bytes())
		})
	}
}
