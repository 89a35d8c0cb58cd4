// Package multiformat 提供多地址（multiaddr）编解码的应用入口
//
// 编解码本身在 pkg/lib/multiaddr 与 pkg/lib/varint 中，可以直接使用，
// 无需任何初始化。本包在其上组装运行时设施：配置加载、解析缓存、
// 指标导出与日志，供命令行工具或需要这些设施的服务使用。
//
// # 快速开始
//
//	app, err := multiformat.New(
//	    multiformat.WithConfigFile("maddr.toml"),
//	    multiformat.WithCacheSize(4096),
//	)
//	if err != nil {
//	    return err
//	}
//	if err := app.Start(ctx); err != nil {
//	    return err
//	}
//	defer app.Close()
//
//	m, err := app.Parse("/ip4/127.0.0.1/udp/4001/quic-v1")
//
// # 配置来源
//
// 优先级从低到高：默认值、配置文件、MULTIFORMAT_* 环境变量、Option。
//
// # 嵌入其他 fx 应用
//
// Module 返回配置与缓存模块，可直接加入调用方自己的 fx.New。
package multiformat
