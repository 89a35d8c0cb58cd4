// Package lib 包含可独立使用的编解码库
//
// 本目录下的包不依赖 internal/ 中的运行时设施（缓存、配置、fx），
// 除日志外没有全局状态，可以直接被其他项目导入：
//
//   - varint: 无符号 varint（LEB128）编解码，拒绝非最小编码
//   - multiaddr: 多地址的文本与二进制编解码、组装与拆分
//
// # 使用示例
//
//	import (
//	    "github.com/dep2p/go-multiformat/pkg/lib/multiaddr"
//	    "github.com/dep2p/go-multiformat/pkg/lib/varint"
//	)
package lib
