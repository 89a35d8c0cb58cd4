// Package multiaddr 实现自描述的多地址（multiaddr）编解码
//
// 多地址是一串协议组件，每个组件由协议和可选参数组成，有两种等价的规范表示：
//
// 字符串形式：
//
//	/ip4/127.0.0.1/udp/1234
//	/ip6/::1/tcp/8080/ws
//	/dns/example.com/tcp/443/wss
//	/unix/tmp/node.sock
//	/ip4/1.2.3.4/tcp/4001/p2p/QmbHVEEepCi7rn7VL7Exxpd2Ci9NNB6ifvqwhsrbRMgQFP
//
// 二进制形式（每个组件）：
//
//	varint(code) [varint(len)] payload
//
// 长度前缀只出现在变长协议上；定长协议的参数长度由注册表给出。
// 两种形式的长度都不得超过 MaxLength。
//
// # 基本用法
//
//	ma, err := multiaddr.NewMultiaddr("/ip4/127.0.0.1/udp/1234")
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("%x\n", ma.Bytes()) // 047f000001910204d2
//
//	full, err := ma.EncapsulateString("/quic-v1")
//
// # 协议表
//
// 协议代码取自 go-multicodec。注册表在包初始化时构建，之后只读。
// "ipfs" 是 "p2p" 的别名，输出统一为 "p2p"。
//
// 路径协议（unix）消费地址剩余的全部内容作为参数，因此只能位于末尾。
//
// # 错误
//
// 解析错误是 *ParseError，携带原始输入、出错片段和偏移；
// 其底层错误可以用 errors.Is 与本包的哨兵错误比较，例如：
//
//	if errors.Is(err, multiaddr.ErrUnknownProtocol) { ... }
//
// # 并发
//
// Multiaddr 与 Component 均不可变，可被多个 goroutine 同时读取。
package multiaddr
