package multiaddr

import (
	"errors"
	"fmt"
	"net"
	"net/netip"
	"strconv"
)

// ErrNotThinWaist 地址不以 IP + 端口开头，无法转换为 net 地址
var ErrNotThinWaist = errors.New("multiaddr is not an ip/port address")

// ============================================================================
//                              Multiaddr → net
// ============================================================================

// ToTCPAddr 将 /ip4|ip6/.../tcp/... 转换为 *net.TCPAddr
func (m *multiaddr) ToTCPAddr() (*net.TCPAddr, error) {
	ap, err := m.addrPort(P_TCP)
	if err != nil {
		return nil, err
	}
	return net.TCPAddrFromAddrPort(ap), nil
}

// ToUDPAddr 将 /ip4|ip6/.../udp/... 转换为 *net.UDPAddr
func (m *multiaddr) ToUDPAddr() (*net.UDPAddr, error) {
	ap, err := m.addrPort(P_UDP)
	if err != nil {
		return nil, err
	}
	return net.UDPAddrFromAddrPort(ap), nil
}

// addrPort 读取开头的 [ip6zone] ip 与指定传输协议的端口
func (m *multiaddr) addrPort(transport int) (netip.AddrPort, error) {
	comps := m.components
	zone := ""
	if len(comps) > 0 && comps[0].protocol.Code == P_IP6ZONE {
		zone = comps[0].value
		comps = comps[1:]
	}
	if len(comps) < 2 {
		return netip.AddrPort{}, fmt.Errorf("%w: %s", ErrNotThinWaist, m.str)
	}

	ipc, portc := comps[0], comps[1]
	var ip netip.Addr
	switch ipc.protocol.Code {
	case P_IP4:
		if zone != "" {
			return netip.AddrPort{}, fmt.Errorf("%w: ip6zone before ip4 in %s", ErrNotThinWaist, m.str)
		}
		ip = netip.AddrFrom4([4]byte(ipc.raw))
	case P_IP6:
		ip = netip.AddrFrom16([16]byte(ipc.raw)).WithZone(zone)
	default:
		return netip.AddrPort{}, fmt.Errorf("%w: %s", ErrNotThinWaist, m.str)
	}

	if portc.protocol.Code != transport {
		return netip.AddrPort{}, fmt.Errorf("%w: expected %s after ip in %s",
			ErrNotThinWaist, ProtocolWithCode(transport).Name, m.str)
	}
	port, err := strconv.ParseUint(portc.value, 10, 16)
	if err != nil {
		return netip.AddrPort{}, fmt.Errorf("invalid port %s: %w", portc.value, err)
	}
	return netip.AddrPortFrom(ip, uint16(port)), nil
}

// ============================================================================
//                              net → Multiaddr
// ============================================================================

// FromIP 从 IP 创建 /ip4 或 /ip6 地址，带区域的 IPv6 前置 /ip6zone
func FromIP(ip netip.Addr) (Multiaddr, error) {
	comps, err := ipComponents(ip)
	if err != nil {
		return nil, err
	}
	return NewMultiaddrFromComponents(comps...)
}

// FromTCPAddr 从 *net.TCPAddr 创建多地址
func FromTCPAddr(addr *net.TCPAddr) (Multiaddr, error) {
	if addr == nil {
		return nil, errors.New("nil TCP address")
	}
	return fromAddrPort(addr.AddrPort(), "tcp")
}

// FromUDPAddr 从 *net.UDPAddr 创建多地址
func FromUDPAddr(addr *net.UDPAddr) (Multiaddr, error) {
	if addr == nil {
		return nil, errors.New("nil UDP address")
	}
	return fromAddrPort(addr.AddrPort(), "udp")
}

// FromNetAddr 从 net.Addr 创建多地址
//
// 支持 TCP、UDP、IP 与 Unix 地址。
func FromNetAddr(addr net.Addr) (Multiaddr, error) {
	switch a := addr.(type) {
	case nil:
		return nil, errors.New("nil address")
	case *net.TCPAddr:
		return FromTCPAddr(a)
	case *net.UDPAddr:
		return FromUDPAddr(a)
	case *net.IPAddr:
		ip, ok := netip.AddrFromSlice(a.IP)
		if !ok {
			return nil, fmt.Errorf("invalid IP address: %v", a.IP)
		}
		return FromIP(ip.WithZone(a.Zone))
	case *net.UnixAddr:
		c, err := NewComponent("unix", a.Name)
		if err != nil {
			return nil, err
		}
		return NewMultiaddrFromComponents(c)
	default:
		return nil, fmt.Errorf("unsupported address type: %T", addr)
	}
}

func fromAddrPort(ap netip.AddrPort, transport string) (Multiaddr, error) {
	comps, err := ipComponents(ap.Addr())
	if err != nil {
		return nil, err
	}
	pc, err := NewComponent(transport, strconv.Itoa(int(ap.Port())))
	if err != nil {
		return nil, err
	}
	return NewMultiaddrFromComponents(append(comps, pc)...)
}

// ipComponents IPv4 映射的 IPv6 地址按 IPv4 处理
func ipComponents(ip netip.Addr) ([]Component, error) {
	if !ip.IsValid() {
		return nil, errors.New("invalid IP address")
	}
	ip = ip.Unmap()
	if ip.Is4() {
		b := ip.As4()
		c, err := NewComponentFromBytes(P_IP4, b[:])
		if err != nil {
			return nil, err
		}
		return []Component{c}, nil
	}

	var comps []Component
	if zone := ip.Zone(); zone != "" {
		zc, err := NewComponent("ip6zone", zone)
		if err != nil {
			return nil, err
		}
		comps = append(comps, zc)
	}
	b := ip.As16()
	c, err := NewComponentFromBytes(P_IP6, b[:])
	if err != nil {
		return nil, err
	}
	return append(comps, c), nil
}
