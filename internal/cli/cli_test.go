package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/combviz/pkg/errors"
	"github.com/matzehuels/combviz/pkg/io"
)

// testCLI isolates config and cache directories and captures output.
type testCLI struct {
	*CLI
	out    *bytes.Buffer
	status *bytes.Buffer
	dir    string
}

func newTestCLI(t *testing.T) *testCLI {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))

	var out, status bytes.Buffer
	c := New(&status, LogInfo)
	c.Out = &out
	return &testCLI{CLI: c, out: &out, status: &status, dir: dir}
}

func (tc *testCLI) run(args ...string) error {
	root := tc.RootCommand()
	root.SetArgs(args)
	root.SetOut(tc.out)
	root.SetErr(tc.status)
	return root.ExecuteContext(context.Background())
}

func TestListCommand(t *testing.T) {
	tc := newTestCLI(t)
	if err := tc.run("list", "IkkqEoA="); err != nil {
		t.Fatalf("list: %v", err)
	}
	out := tc.out.String()
	for _, want := range []string{"pair", "injl", "injr", "unit", markLiteral, markHidden, "(L(unit), R(unit))"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}
}

func TestListCommandFromFile(t *testing.T) {
	tc := newTestCLI(t)
	path := filepath.Join(tc.dir, "program.b64")
	if err := os.WriteFile(path, []byte("bpEo\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := tc.run("list", "--file", path); err != nil {
		t.Fatalf("list --file: %v", err)
	}
	if !strings.Contains(tc.out.String(), "witness") {
		t.Errorf("list output missing witness:\n%s", tc.out.String())
	}
}

func TestListCommandArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"no program", []string{"list"}, errors.ErrCodeInvalidInput},
		{"argument and file", []string{"list", "--file", "x.b64", "pA=="}, errors.ErrCodeInvalidInput},
		{"missing file", []string{"list", "--file", "/nonexistent/program.b64"}, errors.ErrCodeFileNotFound},
		{"bad program", []string{"list", "!!!"}, errors.ErrCodeDecode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := newTestCLI(t)
			err := tc.run(tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestGraphCommandDOTToStdout(t *testing.T) {
	tc := newTestCLI(t)
	if err := tc.run("graph", "-f", "dot", "bpEo"); err != nil {
		t.Fatalf("graph: %v", err)
	}
	out := tc.out.String()
	if !strings.HasPrefix(out, "digraph") {
		t.Errorf("stdout should hold DOT, got:\n%s", out)
	}
	for _, want := range []string{`label="witness"`, "color=red", "color=blue"} {
		if !strings.Contains(out, want) {
			t.Errorf("DOT missing %q:\n%s", want, out)
		}
	}
}

func TestGraphCommandWritesFile(t *testing.T) {
	tc := newTestCLI(t)
	path := filepath.Join(tc.dir, "program.json")

	if err := tc.run("graph", "-o", path, "IkkqEoA="); err != nil {
		t.Fatalf("graph: %v", err)
	}
	doc, err := io.ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if len(doc.Nodes) != 1 || !doc.Nodes[0].Literal || doc.Nodes[0].Label != "01" {
		t.Errorf("exported nodes = %+v, want one literal 01", doc.Nodes)
	}
	if !strings.Contains(tc.status.String(), "Rendered JSON") {
		t.Errorf("status output missing confirmation:\n%s", tc.status.String())
	}
}

func TestGraphCommandDefaultOutput(t *testing.T) {
	tc := newTestCLI(t)
	wd, _ := os.Getwd()
	if err := os.Chdir(tc.dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	if err := tc.run("graph", "pA=="); err != nil {
		t.Fatalf("graph: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(tc.dir, "simplicity.svg"))
	if err != nil {
		t.Fatalf("default output not written: %v", err)
	}
	if !bytes.Contains(data, []byte("<svg")) {
		t.Error("default output should be SVG")
	}

	// Second run is served from the cache.
	tc.status.Reset()
	if err := tc.run("graph", "pA=="); err != nil {
		t.Fatalf("second graph: %v", err)
	}
	if !strings.Contains(tc.status.String(), iconCached) {
		t.Errorf("second run should report a cache hit:\n%s", tc.status.String())
	}
}

func TestGraphCommandConfig(t *testing.T) {
	tc := newTestCLI(t)
	cfgPath := filepath.Join(tc.dir, "combviz.toml")
	cfg := "format = \"json\"\nsharing = \"full\"\ncache = false\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}

	if err := tc.run("--config", cfgPath, "graph", "-o", "-", "bpEo"); err != nil {
		t.Fatalf("graph: %v", err)
	}
	if tc.Config.Sharing != "full" || tc.Config.Cache {
		t.Errorf("config not applied: %+v", tc.Config)
	}
	if !strings.Contains(tc.out.String(), `"nodes"`) {
		t.Errorf("stdout should hold JSON from the configured format:\n%s", tc.out.String())
	}

	// Flags override the file.
	tc.out.Reset()
	if err := tc.run("--config", cfgPath, "graph", "-f", "dot", "bpEo"); err != nil {
		t.Fatalf("graph -f dot: %v", err)
	}
	if !strings.HasPrefix(tc.out.String(), "digraph") {
		t.Errorf("-f should override the configured format:\n%s", tc.out.String())
	}
}

func TestGraphCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"bad format", []string{"graph", "-f", "gif", "pA=="}, errors.ErrCodeInvalidFormat},
		{"bad sharing", []string{"graph", "-f", "dot", "--sharing", "some", "pA=="}, errors.ErrCodeInvalidInput},
		{"bad mode", []string{"graph", "-f", "dot", "--mode", "eager", "pA=="}, errors.ErrCodeInvalidInput},
		{"directory output", []string{"graph", "-o", "out/", "pA=="}, errors.ErrCodeInvalidPath},
		{"bad program", []string{"graph", "-f", "dot", "AAAA"}, errors.ErrCodeDecode},
		{"missing config", []string{"--config", "/nonexistent/c.toml", "graph", "pA=="}, errors.ErrCodeFileNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := newTestCLI(t)
			err := tc.run(tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestResolveOutputExtension(t *testing.T) {
	tests := []struct {
		path, format, want string
	}{
		{"simplicity.svg", "svg", "simplicity.svg"},
		{"simplicity.svg", "png", "simplicity.png"},
		{"out/graph.svg", "json", "out/graph.json"},
		{"graph", "png", "graph"},
	}
	for _, tt := range tests {
		if got := withFormatExt(tt.path, tt.format); got != tt.want {
			t.Errorf("withFormatExt(%q, %q) = %q, want %q", tt.path, tt.format, got, tt.want)
		}
	}
}

func TestCacheCommands(t *testing.T) {
	tc := newTestCLI(t)
	if err := tc.run("cache", "path"); err != nil {
		t.Fatalf("cache path: %v", err)
	}
	want := filepath.Join(tc.dir, "cache", appName)
	if got := strings.TrimSpace(tc.out.String()); got != want {
		t.Errorf("cache path = %q, want %q", got, want)
	}

	if err := tc.run("cache", "clear"); err != nil {
		t.Fatalf("cache clear (empty): %v", err)
	}
	if !strings.Contains(tc.status.String(), "Cache is empty") {
		t.Errorf("clearing an empty cache should say so:\n%s", tc.status.String())
	}

	if err := tc.run("graph", "-o", filepath.Join(tc.dir, "a.svg"), "pA=="); err != nil {
		t.Fatalf("graph: %v", err)
	}
	tc.status.Reset()
	if err := tc.run("cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(tc.status.String(), "Cleared 1 cached entries") {
		t.Errorf("cache clear output:\n%s", tc.status.String())
	}
}

func TestCompletionCommand(t *testing.T) {
	tc := newTestCLI(t)
	if err := tc.run("completion", "bash"); err != nil {
		t.Fatalf("completion: %v", err)
	}
	if !strings.Contains(tc.out.String(), appName) {
		t.Error("bash completion should mention the program name")
	}
	if err := tc.run("completion", "tcsh"); err == nil {
		t.Error("unsupported shell should fail")
	}
}

func TestReportError(t *testing.T) {
	tc := newTestCLI(t)
	tc.ReportError(errors.New(errors.ErrCodeDecode, "truncated program"))
	out := tc.status.String()
	if !strings.Contains(out, "truncated program") || !strings.Contains(out, "DECODE_ERROR") {
		t.Errorf("ReportError output = %q", out)
	}
}

func TestGraphCommandRefreshWithoutCache(t *testing.T) {
	tc := newTestCLI(t)
	if err := tc.run("graph", "-f", "dot", "--no-cache", "--refresh", "pA=="); err != nil {
		t.Fatalf("graph: %v", err)
	}
	if !strings.Contains(tc.status.String(), "--refresh has no effect") {
		t.Errorf("expected a refresh warning:\n%s", tc.status.String())
	}
}
