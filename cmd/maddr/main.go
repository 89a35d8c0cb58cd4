// Package main 提供 maddr 命令行入口
//
// maddr 解析、转换并检查多地址：
//
//	maddr /ip4/127.0.0.1/udp/4001/quic-v1
//	maddr -hex 047f000001060fa1
//	maddr -encapsulate /p2p/QmcgpsyWgH8Y8ajJz1Cu72KnS5uo2Aa2LpzU7kinSupNKC /ip4/1.2.3.4/tcp/80
//	maddr -batch addrs.txt -stats
//	maddr -protocols -json
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/dep2p/go-multiformat"
	"github.com/dep2p/go-multiformat/internal/util/logger"
)

var log = logger.Logger("maddr")

// ═══════════════════════════════════════════════════════════════════════════
// 命令行参数
// ═══════════════════════════════════════════════════════════════════════════
//
//   命令行参数：这次运行的输入与输出方式
//   配置文件：日志、缓存与默认输出格式
//
// ═══════════════════════════════════════════════════════════════════════════
var (
	// ─────────────────────────────────────────────────────────────────────
	// 输入
	// ─────────────────────────────────────────────────────────────────────
	hexInput  = flag.Bool("hex", false, "参数为十六进制编码的二进制地址")
	batchFile = flag.String("batch", "", "逐行解析文件中的地址（- 表示标准输入）")

	// ─────────────────────────────────────────────────────────────────────
	// 变换
	// ─────────────────────────────────────────────────────────────────────
	encapsulate = flag.String("encapsulate", "", "在每个地址之后追加该地址")
	decapsulate = flag.String("decapsulate", "", "从每个地址中去除该地址最后一次出现及其之后的部分")

	// ─────────────────────────────────────────────────────────────────────
	// 输出
	// ─────────────────────────────────────────────────────────────────────
	jsonOutput    = flag.Bool("json", false, "每行输出一个 JSON 对象")
	listProtocols = flag.Bool("protocols", false, "列出已注册的协议")
	showStats     = flag.Bool("stats", false, "结束时打印缓存指标")

	// ─────────────────────────────────────────────────────────────────────
	// 其他
	// ─────────────────────────────────────────────────────────────────────
	configFile  = flag.String("config", "", "配置文件路径（.json / .toml / .yaml）")
	logLevel    = flag.String("log-level", "", "日志级别，例如 debug 或 multiaddr=debug,info")
	fxDebug     = flag.Bool("fx-debug", false, "输出依赖注入事件")
	showVersion = flag.Bool("version", false, "显示版本信息")
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flag.Usage = printHelp
	flag.Parse()

	if *showVersion {
		printVersion()
		return nil
	}

	opts, err := buildOptions()
	if err != nil {
		return fmt.Errorf("配置错误: %w", err)
	}

	app, err := multiformat.New(opts...)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if err := app.Start(ctx); err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	r := newRunner(app, os.Stdout, outputSettings(app.Config().Output))
	log.Debug("开始执行", "args", flag.NArg(), "batch", *batchFile, "format", r.out.Format)

	runErr := r.execute(flag.Args())

	if *showStats {
		if err := printStats(os.Stderr, app.Metrics()); err != nil {
			log.Warn("读取指标失败", "error", err)
		}
	}
	return runErr
}

// printVersion 打印版本信息
func printVersion() {
	fmt.Println(multiformat.VersionInfo())
}

// printHelp 打印帮助信息
func printHelp() {
	out := flag.CommandLine.Output()
	fmt.Fprintln(out, "maddr - 多地址解析与检查工具")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "用法:")
	fmt.Fprintln(out, "  maddr [选项] <地址>...")
	fmt.Fprintln(out, "  maddr [选项] -batch <文件>")
	fmt.Fprintln(out, "  maddr -protocols")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "选项:")
	flag.PrintDefaults()
	fmt.Fprintln(out)
	fmt.Fprintln(out, "环境变量（MULTIFORMAT_ 前缀）:")
	fmt.Fprintln(out, "  LOG_LEVEL, LOG_FORMAT, LOG_FILE, CACHE_ENABLED, CACHE_SIZE, OUTPUT_FORMAT, OUTPUT_HEX")
}
