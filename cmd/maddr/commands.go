package main

import (
	"bufio"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/dep2p/go-multiformat/internal/config"
	"github.com/dep2p/go-multiformat/internal/util/addrutil"
	ma "github.com/dep2p/go-multiformat/pkg/lib/multiaddr"
)

// errNoInput 既没有地址参数也没有 -batch
var errNoInput = errors.New("no addresses given (see -h)")

// parser 解析入口，由 multiformat.App 实现
type parser interface {
	Parse(s string) (ma.Multiaddr, error)
	ParseBytes(b []byte) (ma.Multiaddr, error)
}

// transform 对每个地址应用的变换
type transform struct {
	encapsulate string
	decapsulate string
}

// runner 执行一次命令行调用
type runner struct {
	p     parser
	w     io.Writer
	out   config.OutputConfig
	tf    transform
	isHex bool
	batch string
	list  bool
}

func newRunner(p parser, w io.Writer, out config.OutputConfig) *runner {
	return &runner{
		p:     p,
		w:     w,
		out:   out,
		tf:    transform{encapsulate: *encapsulate, decapsulate: *decapsulate},
		isHex: *hexInput,
		batch: *batchFile,
		list:  *listProtocols,
	}
}

// result 单个地址的输出
type result struct {
	Input     string   `json:"input"`
	Addr      string   `json:"addr,omitempty"`
	Hex       string   `json:"hex,omitempty"`
	Protocols []string `json:"protocols,omitempty"`
	Scope     string   `json:"scope,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// execute 按参数分派；返回所有失败的合并错误
func (r *runner) execute(args []string) error {
	if r.list {
		return r.printProtocols()
	}

	if r.batch == "" && len(args) == 0 {
		return errNoInput
	}

	var errs error
	for _, arg := range args {
		errs = multierr.Append(errs, r.handle(arg))
	}
	if r.batch != "" {
		errs = multierr.Append(errs, r.runBatch(r.batch))
	}
	return errs
}

// runBatch 逐行解析文件；空行与 # 开头的行被跳过
func (r *runner) runBatch(path string) error {
	var in io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path) //nolint:gosec // 用户指定的输入文件
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		in = f
	}

	var errs error
	scanner := bufio.NewScanner(in)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if err := r.handle(text); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s:%d: %w", path, line, err))
		}
	}
	if err := scanner.Err(); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("read %s: %w", path, err))
	}

	log.Debug("批量解析完成", "file", path, "lines", line, "failed", len(multierr.Errors(errs)))
	return errs
}

// handle 解析、变换并输出一个地址
func (r *runner) handle(input string) error {
	m, err := r.parse(input)
	if err == nil {
		m, err = r.apply(m)
	}
	if err != nil {
		r.emit(result{Input: input, Error: err.Error()})
		return err
	}

	res := result{
		Input: input,
		Addr:  m.String(),
		Hex:   hex.EncodeToString(m.Bytes()),
		Scope: addrutil.Classify(m).String(),
	}
	for _, p := range m.Protocols() {
		res.Protocols = append(res.Protocols, p.Name)
	}
	r.emit(res)
	return nil
}

func (r *runner) parse(input string) (ma.Multiaddr, error) {
	if !r.isHex {
		return r.p.Parse(input)
	}
	b, err := hex.DecodeString(strings.TrimPrefix(input, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid hex input: %w", err)
	}
	return r.p.ParseBytes(b)
}

func (r *runner) apply(m ma.Multiaddr) (ma.Multiaddr, error) {
	var err error
	if r.tf.encapsulate != "" {
		if m, err = m.EncapsulateString(r.tf.encapsulate); err != nil {
			return nil, fmt.Errorf("encapsulate: %w", err)
		}
	}
	if r.tf.decapsulate != "" {
		if m, err = m.DecapsulateString(r.tf.decapsulate); err != nil {
			return nil, fmt.Errorf("decapsulate: %w", err)
		}
	}
	return m, nil
}

// emit 输出一条结果；写入失败只记录日志
func (r *runner) emit(res result) {
	var err error
	switch {
	case r.out.Format == config.OutputJSON:
		err = json.NewEncoder(r.w).Encode(res)
	case res.Error != "":
		_, err = fmt.Fprintf(r.w, "%s\terror: %s\n", res.Input, res.Error)
	case r.out.Hex:
		_, err = fmt.Fprintf(r.w, "%s\t%s\n", res.Addr, res.Hex)
	default:
		_, err = fmt.Fprintln(r.w, res.Addr)
	}
	if err != nil {
		log.Warn("写出结果失败", "error", err)
	}
}

// protocolInfo 协议列表的一行
type protocolInfo struct {
	Name string `json:"name"`
	Code int    `json:"code"`
	Size int    `json:"size"`
	Path bool   `json:"path,omitempty"`
}

// printProtocols 按代码顺序列出注册表
func (r *runner) printProtocols() error {
	protos := ma.Protocols()

	if r.out.Format == config.OutputJSON {
		enc := json.NewEncoder(r.w)
		for _, p := range protos {
			if err := enc.Encode(protocolInfo{Name: p.Name, Code: p.Code, Size: p.Size, Path: p.Path}); err != nil {
				return err
			}
		}
		return nil
	}

	tw := tabwriter.NewWriter(r.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tCODE\tSIZE\tPATH")
	for _, p := range protos {
		size := fmt.Sprint(p.Size)
		if p.Size == ma.LengthPrefixedVarSize {
			size = "var"
		}
		fmt.Fprintf(tw, "%s\t0x%04x\t%s\t%t\n", p.Name, p.Code, size, p.Path)
	}
	return tw.Flush()
}

// printStats 打印 prometheus 计数器，按名称与标签排序
func printStats(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}

	var lines []string
	for _, f := range families {
		for _, m := range f.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, l := range m.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", l.GetName(), l.GetValue()))
			}
			name := f.GetName()
			if len(labels) > 0 {
				name += "{" + strings.Join(labels, ",") + "}"
			}
			lines = append(lines, fmt.Sprintf("%s %g", name, m.GetCounter().GetValue()))
		}
	}
	sort.Strings(lines)

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
