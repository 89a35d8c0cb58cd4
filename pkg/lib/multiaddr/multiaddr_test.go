package multiaddr

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRoundTrip 规范形式的字符串解析后原样输出
func TestRoundTrip(t *testing.T) {
	addrs := []string{
		"/unix/a/b/c/d",
		"/ip6/::ffff:7f00:1/tcp/111",
		"/ip4/127.0.0.1",
		"/ip4/127.0.0.1/tcp/123",
		"/ip4/127.0.0.1/tcp/123/tls",
		"/ip4/127.0.0.1/udp/123",
		"/ip4/127.0.0.1/udp/123/ip6/::",
		"/ip4/127.0.0.1/udp/1234/quic/webtransport/certhash/uEiDDq4_xNyDorZBH3TlGazyJdOWSwvo4PUo5YHFMrvDE8g",
		"/p2p/QmbHVEEepCi7rn7VL7Exxpd2Ci9NNB6ifvqwhsrbRMgQFP",
		"/p2p/QmbHVEEepCi7rn7VL7Exxpd2Ci9NNB6ifvqwhsrbRMgQFP/unix/a/b/c",
		"/ip6/2001:8a0:7ac5:4201:3ac9:86ff:fe31:7095",
		"/ip6/2001:8a0:7ac5:4201:3ac9:86ff:fe31:7095/tcp/5000",
		"/ip6/2001:8a0:7ac5:4201:3ac9:86ff:fe31:7095/udp/5000",
		"/ip4/127.0.0.1/p2p/QmcgpsyWgH8Y8ajJz1Cu72KnS5uo2Aa2LpzU7kinSupNKC/tcp/1234",
		"/ip4/127.0.0.1/udp/5000/utp",
		"/ip4/127.0.0.1/tcp/8000/http",
		"/ip4/127.0.0.1/tcp/80/unix/a/b/c/d/e/f",
		"/ip6/2001:8a0:7ac5:4201:3ac9:86ff:fe31:7095/tcp/8000/unix/a/b/c/d/e/f",
		"/ip4/127.0.0.1/tcp/8000/https",
		"/ip4/127.0.0.1/tcp/8000/ws",
		"/ip6/2001:8a0:7ac5:4201:3ac9:86ff:fe31:7095/tcp/8000/ws/p2p/QmcgpsyWgH8Y8ajJz1Cu72KnS5uo2Aa2LpzU7kinSupNKC",
		"/p2p/12D3KooWCryG7Mon9orvQxcS1rYZjotPgpwoJNHHKcLLfE4Hf5mV",
		"/udp/65535",
	}

	for _, addr := range addrs {
		t.Run(addr, func(t *testing.T) {
			m, err := NewMultiaddr(addr)
			require.NoError(t, err)
			assert.Equal(t, addr, m.String())
		})
	}
}

// TestIpfsAlias /ipfs 解析为 /p2p
func TestIpfsAlias(t *testing.T) {
	p2p := StringCast("/p2p/QmbHVEEepCi7rn7VL7Exxpd2Ci9NNB6ifvqwhsrbRMgQFP")
	ipfs := StringCast("/ipfs/QmbHVEEepCi7rn7VL7Exxpd2Ci9NNB6ifvqwhsrbRMgQFP")

	assert.Equal(t, p2p.String(), ipfs.String())
	assert.True(t, p2p.Equal(ipfs))
	assert.Equal(t, P_P2P, ipfs.Protocols()[0].Code)
}

// TestEquality 相等性按二进制形式判断
func TestEquality(t *testing.T) {
	m1 := StringCast("/ip4/127.0.0.1/udp/1234")
	m2 := StringCast("/ip4/127.0.0.1/tcp/1234")
	m3 := StringCast("/ip4/127.0.0.1/tcp/1234")
	m4 := StringCast("/ip4/127.0.0.1/tcp/1234/")

	assert.False(t, m1.Equal(m2))
	assert.False(t, m2.Equal(m1))
	assert.True(t, m2.Equal(m3))
	assert.True(t, m3.Equal(m2))
	assert.True(t, m1.Equal(m1))
	assert.True(t, m2.Equal(m4))
	assert.True(t, m4.Equal(m3))
	assert.False(t, m1.Equal(nil))
}

// TestScenarios 典型用法
func TestScenarios(t *testing.T) {
	t.Run("udp address bytes and protocols", func(t *testing.T) {
		m, err := NewMultiaddr("/ip4/127.0.0.1/udp/1234")
		require.NoError(t, err)
		assert.Equal(t, mustHex(t, "047F000001910204D2"), m.Bytes())

		ps := m.Protocols()
		require.Len(t, ps, 2)
		assert.Equal(t, "ip4", ps[0].Name)
		assert.Equal(t, 4, ps[0].Code)
		assert.Equal(t, "udp", ps[1].Name)
		assert.Equal(t, 273, ps[1].Code)
	})

	t.Run("encapsulate then decapsulate", func(t *testing.T) {
		m := StringCast("/ip4/127.0.0.1/udp/1234")
		enc, err := m.Encapsulate(StringCast("/udp/5678"))
		require.NoError(t, err)
		assert.Equal(t, "/ip4/127.0.0.1/udp/1234/udp/5678", enc.String())

		dec, err := enc.DecapsulateString("/udp")
		require.NoError(t, err)
		assert.Equal(t, "/ip4/127.0.0.1/udp/1234", dec.String())
	})

	t.Run("onion component is twelve bytes", func(t *testing.T) {
		m, err := NewMultiaddr("/onion/aaimaq4ygg2iegci:80")
		require.NoError(t, err)
		comps := m.Components()
		require.Len(t, comps, 1)
		assert.Len(t, comps[0].RawValue(), 12)
		assert.Equal(t, "/onion/aaimaq4ygg2iegci:80", m.String())
	})

	t.Run("ipcidr out of range", func(t *testing.T) {
		_, err := NewMultiaddr("/ip4/127.0.0.1/ipcidr/256")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be <256")
	})

	t.Run("empty ip6zone", func(t *testing.T) {
		_, err := NewMultiaddr("/ip6zone//ip6/fe80::1")
		assert.ErrorIs(t, err, ErrEmptyValue)
	})

	t.Run("udp port bounds", func(t *testing.T) {
		_, err := NewMultiaddr("/udp/65536")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "> 65535")

		m, err := NewMultiaddr("/udp/65535")
		require.NoError(t, err)
		assert.Equal(t, "/udp/65535", m.String())
	})
}

// TestManipulationBasic 封装与解封装
func TestManipulationBasic(t *testing.T) {
	udp := StringCast("/ip4/127.0.0.1/udp/1234")

	two, err := udp.EncapsulateString("/udp/5678")
	require.NoError(t, err)
	assert.Equal(t, "/ip4/127.0.0.1/udp/1234/udp/5678", two.String())

	dec, err := two.DecapsulateString("/udp")
	require.NoError(t, err)
	assert.Equal(t, "/ip4/127.0.0.1/udp/1234", dec.String())

	dec, err = two.DecapsulateString("/ip4")
	require.NoError(t, err)
	assert.Equal(t, "/", dec.String())

	// 找不到时得到空地址
	dec, err = udp.Decapsulate(StringCast("/tcp/80"))
	require.NoError(t, err)
	assert.Equal(t, "/", dec.String())

	// 空地址不改变接收者
	dec, err = udp.DecapsulateString("/")
	require.NoError(t, err)
	assert.Equal(t, udp.String(), dec.String())

	root := StringCast("/")
	enc, err := root.Encapsulate(udp)
	require.NoError(t, err)
	assert.Equal(t, udp.String(), enc.String())

	dec, err = root.Decapsulate(root)
	require.NoError(t, err)
	assert.Equal(t, "/", dec.String())

	// 原地址不受影响
	assert.Equal(t, "/ip4/127.0.0.1/udp/1234", udp.String())
}

// TestDecapsulateIsTextual 解封装按文本匹配
func TestDecapsulateIsTextual(t *testing.T) {
	m := StringCast("/ip4/1.2.3.4/tcp/80")
	dec, err := m.DecapsulateString("/tcp/8")
	require.NoError(t, err)
	assert.Equal(t, "/ip4/1.2.3.4", dec.String())
}

// TestManipulationP2P 逐层封装后再剥离
func TestManipulationP2P(t *testing.T) {
	ipfs := StringCast("/ipfs/QmcgpsyWgH8Y8ajJz1Cu72KnS5uo2Aa2LpzU7kinSupNKC")
	ip6 := StringCast("/ip6/2001:8a0:7ac5:4201:3ac9:86ff:fe31:7095")
	tcp := StringCast("/tcp/8000")
	ws := StringCast("/ws")

	build := func(parts ...Multiaddr) Multiaddr {
		m := StringCast("/")
		for _, p := range parts {
			var err error
			m, err = m.Encapsulate(p)
			require.NoError(t, err)
		}
		return m
	}

	full := build(ip6, tcp, ws, ipfs)
	assert.Equal(t, ip6.String()+tcp.String()+ws.String()+ipfs.String(), full.String())

	dec, err := full.Decapsulate(ipfs)
	require.NoError(t, err)
	assert.Equal(t, ip6.String()+tcp.String()+ws.String(), dec.String())

	dec, err = build(ip6, tcp, ipfs, ws).Decapsulate(ws)
	require.NoError(t, err)
	assert.Equal(t, ip6.String()+tcp.String()+ipfs.String(), dec.String())
}

// TestValueForProtocol 获取协议值
func TestValueForProtocol(t *testing.T) {
	m := StringCast("/ip4/127.0.0.1/udp/1234/quic-v1/p2p/QmcgpsyWgH8Y8ajJz1Cu72KnS5uo2Aa2LpzU7kinSupNKC/udp/5678")

	v, err := m.ValueForProtocol(P_IP4)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", v)

	// 第一个匹配
	v, err = m.ValueForProtocol(P_UDP)
	require.NoError(t, err)
	assert.Equal(t, "1234", v)

	v, err = m.ValueForProtocol(P_QUIC_V1)
	require.NoError(t, err)
	assert.Empty(t, v)

	v, err = m.ValueForProtocol(P_P2P)
	require.NoError(t, err)
	assert.Equal(t, "QmcgpsyWgH8Y8ajJz1Cu72KnS5uo2Aa2LpzU7kinSupNKC", v)

	_, err = m.ValueForProtocol(P_TCP)
	assert.ErrorIs(t, err, ErrProtocolNotFound)

	_, err = m.ValueForProtocol(0x7ffffff)
	assert.ErrorIs(t, err, ErrUnknownProtocol)

	assert.True(t, m.HasProtocol(P_QUIC_V1))
	assert.False(t, m.HasProtocol(P_TCP))
}

// TestBytesIsCopy 修改返回的字节不影响地址
func TestBytesIsCopy(t *testing.T) {
	m := StringCast("/ip4/127.0.0.1/tcp/4321")
	b := m.Bytes()
	b[1] = 10
	assert.Equal(t, "/ip4/127.0.0.1/tcp/4321", m.String())
	assert.Equal(t, mustHex(t, "047f0000010610e1"), m.Bytes())
}

// TestCast 无效输入 panic
func TestCast(t *testing.T) {
	assert.Panics(t, func() { StringCast("/ip4") })
	assert.Panics(t, func() { Cast([]byte{0x04, 0x7f}) })
	assert.NotPanics(t, func() { Cast(mustHex(t, "047f0000010610e1")) })
}

// TestMarshalers encoding 接口
func TestMarshalers(t *testing.T) {
	m := StringCast("/ip4/127.0.0.1/tcp/4321").(*multiaddr)

	t.Run("binary", func(t *testing.T) {
		b, err := m.MarshalBinary()
		require.NoError(t, err)
		var out multiaddr
		require.NoError(t, out.UnmarshalBinary(b))
		assert.True(t, m.Equal(&out))

		var bad multiaddr
		assert.Error(t, bad.UnmarshalBinary([]byte{0xff}))
	})

	t.Run("text", func(t *testing.T) {
		b, err := m.MarshalText()
		require.NoError(t, err)
		var out multiaddr
		require.NoError(t, out.UnmarshalText(b))
		assert.Equal(t, m.String(), out.String())
	})

	t.Run("json", func(t *testing.T) {
		type wrapper struct {
			Addr *multiaddr `json:"addr"`
		}
		b, err := json.Marshal(wrapper{Addr: m})
		require.NoError(t, err)
		assert.JSONEq(t, `{"addr":"/ip4/127.0.0.1/tcp/4321"}`, string(b))

		var out wrapper
		require.NoError(t, json.Unmarshal(b, &out))
		assert.True(t, m.Equal(out.Addr))

		var fresh wrapper
		assert.Error(t, json.Unmarshal([]byte(`{"addr":"/ip4"}`), &fresh))
	})

	// 已构造的地址不能被反序列化覆盖，持有同一实例的其他调用方不受影响
	t.Run("no overwrite", func(t *testing.T) {
		shared := StringCast("/ip4/1.2.3.4/tcp/80")
		holder := struct{ Addr Multiaddr }{shared}

		err := json.Unmarshal([]byte(`{"Addr":"/ip6/::1/udp/9"}`), &holder)
		assert.ErrorIs(t, err, ErrAlreadySet)
		assert.Equal(t, "/ip4/1.2.3.4/tcp/80", shared.String())
		assert.Equal(t, mustHex(t, "0401020304060050"), shared.Bytes())

		target := shared.(*multiaddr)
		assert.ErrorIs(t, target.UnmarshalText([]byte("/ip4/5.6.7.8")), ErrAlreadySet)
		assert.ErrorIs(t, target.UnmarshalBinary(mustHex(t, "0405060708")), ErrAlreadySet)
		assert.Equal(t, "/ip4/1.2.3.4/tcp/80", shared.String())

		root := StringCast("/").(*multiaddr)
		assert.ErrorIs(t, root.UnmarshalText([]byte("/ip4/5.6.7.8")), ErrAlreadySet)
	})
}

// TestConcurrentReaders 多个 goroutine 同时读取同一地址
func TestConcurrentReaders(t *testing.T) {
	m := StringCast("/ip4/127.0.0.1/udp/1234/quic-v1/p2p/QmcgpsyWgH8Y8ajJz1Cu72KnS5uo2Aa2LpzU7kinSupNKC")
	want := m.Bytes()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				assert.Equal(t, want, m.Bytes())
				assert.True(t, strings.HasPrefix(m.String(), "/ip4/"))
				assert.Len(t, m.Protocols(), 4)
			}
		}()
	}
	wg.Wait()
}

// TestNewMultiaddrFromMultihash 由 multihash 构造 /p2p 地址
func TestNewMultiaddrFromMultihash(t *testing.T) {
	id := StringCast("/p2p/QmcgpsyWgH8Y8ajJz1Cu72KnS5uo2Aa2LpzU7kinSupNKC")
	hash, err := PeerIDMultihash(id)
	require.NoError(t, err)

	m, err := NewMultiaddrFromMultihash(hash)
	require.NoError(t, err)
	assert.True(t, id.Equal(m))

	_, err = NewMultiaddrFromMultihash([]byte{0x12, 0x20, 0x01})
	assert.ErrorIs(t, err, ErrInvalidValue)
}
