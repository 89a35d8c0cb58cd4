package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/dep2p/go-multiformat/internal/addrcache"
	"github.com/dep2p/go-multiformat/internal/config"
	ma "github.com/dep2p/go-multiformat/pkg/lib/multiaddr"
)

func testRunner(t *testing.T, out config.OutputConfig) (*runner, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	c, err := addrcache.New(16)
	require.NoError(t, err)
	return &runner{p: c, w: &buf, out: out}, &buf
}

func TestExecuteText(t *testing.T) {
	r, buf := testRunner(t, config.OutputConfig{Format: config.OutputText, Hex: true})

	require.NoError(t, r.execute([]string{"/ip4/127.0.0.1/tcp/4321"}))
	assert.Equal(t, "/ip4/127.0.0.1/tcp/4321\t047f0000010610e1\n", buf.String())

	buf.Reset()
	r.out.Hex = false
	require.NoError(t, r.execute([]string{"/ip4/127.0.0.1/tcp/4321/"}))
	assert.Equal(t, "/ip4/127.0.0.1/tcp/4321\n", buf.String())

	assert.ErrorIs(t, r.execute(nil), errNoInput)
}

func TestExecuteHexInput(t *testing.T) {
	r, buf := testRunner(t, config.OutputConfig{Format: config.OutputText})
	r.isHex = true

	require.NoError(t, r.execute([]string{"0x047f0000010610e1"}))
	assert.Equal(t, "/ip4/127.0.0.1/tcp/4321\n", buf.String())

	err := r.execute([]string{"zz"})
	assert.ErrorContains(t, err, "invalid hex input")

	err = r.execute([]string{"047f0000"})
	assert.ErrorIs(t, err, ma.ErrInsufficientBytes)
}

func TestExecuteTransform(t *testing.T) {
	r, buf := testRunner(t, config.OutputConfig{Format: config.OutputText})
	r.tf = transform{encapsulate: "/p2p-circuit", decapsulate: "/tcp"}

	require.NoError(t, r.execute([]string{"/ip4/1.2.3.4/tcp/80/ws"}))
	assert.Equal(t, "/ip4/1.2.3.4\n", buf.String())

	buf.Reset()
	r.tf = transform{encapsulate: "/tcp/99999"}
	err := r.execute([]string{"/ip4/1.2.3.4"})
	assert.ErrorIs(t, err, ma.ErrInvalidValue)
	assert.Contains(t, buf.String(), "error: encapsulate")
}

func TestExecuteJSON(t *testing.T) {
	r, buf := testRunner(t, config.OutputConfig{Format: config.OutputJSON})

	err := r.execute([]string{"/dns4/example.com/tcp/443/tls", "/ip4/1.2.3.4/tcp/65536"})
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 1)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var ok, bad result
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &ok))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &bad))

	assert.Equal(t, "/dns4/example.com/tcp/443/tls", ok.Addr)
	assert.Equal(t, []string{"dns4", "tcp", "tls"}, ok.Protocols)
	assert.Equal(t, "dns", ok.Scope)
	assert.Empty(t, ok.Error)
	assert.Equal(t, "/ip4/1.2.3.4/tcp/65536", bad.Input)
	assert.NotEmpty(t, bad.Error)
}

func TestRunBatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "addrs.txt")
	content := strings.Join([]string{
		"# listen addresses",
		"/ip4/0.0.0.0/tcp/4001",
		"",
		"/ip4/0.0.0.0/udp/4001/quic-v1",
		"/ip4/0.0.0.0/tcp/4001",
		"/ip4/300.0.0.1/tcp/1",
		"/tcp",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	reg := prometheus.NewRegistry()
	c, err := addrcache.New(16, addrcache.WithRegisterer(reg))
	require.NoError(t, err)
	var buf bytes.Buffer
	r := &runner{p: c, w: &buf, out: config.OutputConfig{Format: config.OutputText}, batch: path}

	err = r.execute(nil)
	errs := multierr.Errors(err)
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0].Error(), "addrs.txt:6:")
	assert.ErrorIs(t, errs[0], ma.ErrInvalidValue)
	assert.Contains(t, errs[1].Error(), "addrs.txt:7:")
	assert.ErrorIs(t, errs[1], ma.ErrUnexpectedEnd)

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 5, strings.Count(buf.String(), "\n"))

	var stats bytes.Buffer
	require.NoError(t, printStats(&stats, reg))
	assert.Contains(t, stats.String(), `multiformat_addrcache_lookups_total{kind="string",result="hit"} 1`)
	assert.Contains(t, stats.String(), `multiformat_addrcache_lookups_total{kind="string",result="error"} 2`)

	r.batch = filepath.Join(t.TempDir(), "missing.txt")
	assert.ErrorIs(t, r.execute(nil), os.ErrNotExist)
}

func TestPrintProtocols(t *testing.T) {
	r, buf := testRunner(t, config.OutputConfig{Format: config.OutputText})
	r.list = true

	require.NoError(t, r.execute(nil))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "NAME"))
	assert.Regexp(t, `(?m)^unix\s+0x0190\s+var\s+true$`, out)
	assert.Regexp(t, `(?m)^ip4\s+0x0004\s+32\s+false$`, out)

	buf.Reset()
	r.out.Format = config.OutputJSON
	require.NoError(t, r.execute(nil))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, len(ma.Protocols()))

	var first protocolInfo
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "ip4", first.Name)
}
