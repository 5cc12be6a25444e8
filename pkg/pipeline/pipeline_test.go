package pipeline

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/combviz/pkg/cache"
	"github.com/matzehuels/combviz/pkg/errors"
	"github.com/matzehuels/combviz/pkg/io"
	"github.com/matzehuels/combviz/pkg/observability"
	"github.com/matzehuels/combviz/pkg/render/nodelink"
)

const (
	unitProgram        = "pA=="     // unit
	witnessPairProgram = "bpEo"     // pair(witness, unit)
	injectionsProgram  = "IkkqEoA=" // pair(injl(unit), injr(unit))
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"dot", false},
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s, want INVALID_FORMAT", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestFormatForPath(t *testing.T) {
	tests := map[string]string{
		"simplicity.svg": "svg",
		"out/graph.PNG":  "png",
		"graph.pdf":      "pdf",
		"graph.json":     "json",
		"graph.dot":      "dot",
		"graph.gv":       "dot",
		"graph":          "",
		"graph.txt":      "",
	}
	for path, want := range tests {
		if got := FormatForPath(path); got != want {
			t.Errorf("FormatForPath(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	opts := Options{Program: unitProgram}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if diff := cmp.Diff([]string{"svg"}, opts.Formats); diff != "" {
		t.Errorf("Formats mismatch (-want +got):\n%s", diff)
	}
	if opts.Sharing != SharingMaximal || opts.Mode != "truncate" {
		t.Errorf("defaults = sharing %q mode %q", opts.Sharing, opts.Mode)
	}
	if opts.RankSep != 0.5 || opts.TTL != cache.DefaultTTL || opts.Logger == nil {
		t.Errorf("defaults = ranksep %g ttl %v logger %v", opts.RankSep, opts.TTL, opts.Logger)
	}
}

func TestValidateAndSetDefaultsErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"empty program", Options{}, errors.ErrCodeInvalidInput},
		{"bad format", Options{Program: unitProgram, Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"bad sharing", Options{Program: unitProgram, Sharing: "some"}, errors.ErrCodeInvalidInput},
		{"bad mode", Options{Program: unitProgram, Mode: "eager"}, errors.ErrCodeInvalidInput},
		{"negative ranksep", Options{Program: unitProgram, RankSep: -1}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestRenderOptions(t *testing.T) {
	opts := Options{Sharing: SharingFull, Mode: "reachable"}
	got, err := opts.RenderOptions()
	if err != nil {
		t.Fatalf("RenderOptions: %v", err)
	}
	if got.Mode != nodelink.ModeReachable {
		t.Errorf("Mode = %s, want reachable", got.Mode)
	}
	if _, ok := got.Sharing.(*nodelink.FullSharing); !ok {
		t.Errorf("Sharing = %T, want *nodelink.FullSharing", got.Sharing)
	}

	tests := []Options{
		{Mode: "eager"},
		{Sharing: "some"},
	}
	for _, opts := range tests {
		if _, err := opts.RenderOptions(); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("RenderOptions(%+v) error = %v, want INVALID_INPUT", opts, err)
		}
	}
}

func TestDecode(t *testing.T) {
	p, err := Decode(witnessPairProgram)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if p.Arena.Len() != 3 {
		t.Errorf("Decode(%q) has %d nodes, want 3", witnessPairProgram, p.Arena.Len())
	}

	if _, err := Decode("!!!"); !errors.Is(err, errors.ErrCodeDecode) {
		t.Errorf("Decode(bad base64) error = %v, want DECODE_ERROR", err)
	}
	if _, err := Decode("  "); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Decode(blank) error = %v, want INVALID_INPUT", err)
	}
}

func TestExecute(t *testing.T) {
	tests := []struct {
		name    string
		program string
		want    Stats
	}{
		{
			name:    "unit",
			program: unitProgram,
			want:    Stats{NodeCount: 1, ScribeCount: 1, TopCount: 1, EntryCount: 1},
		},
		{
			name:    "opaque parent",
			program: witnessPairProgram,
			want:    Stats{NodeCount: 3, ScribeCount: 1, TopCount: 1, EntryCount: 3, EdgeCount: 2},
		},
		{
			name:    "collapsed injections",
			program: injectionsProgram,
			want:    Stats{NodeCount: 4, ScribeCount: 4, TopCount: 1, HiddenCount: 3, EntryCount: 1},
		},
	}

	runner := NewRunner(nil, nil, log.NewWithOptions(&bytes.Buffer{}, log.Options{}))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := runner.Execute(context.Background(), Options{
				Program: tt.program,
				Formats: []string{FormatDOT, FormatJSON},
			})
			if err != nil {
				t.Fatalf("Execute: %v", err)
			}

			got := res.Stats
			got.DecodeTime, got.AnalyzeTime, got.GraphTime, got.RenderTime = 0, 0, 0, 0
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Stats mismatch (-want +got):\n%s", diff)
			}
			if string(res.Artifacts[FormatDOT]) != res.DOT {
				t.Error("dot artifact should equal the DOT source")
			}
			if !strings.HasPrefix(res.DOT, "digraph") {
				t.Errorf("DOT should start with digraph, got %q", res.DOT)
			}

			doc, err := io.ReadJSON(bytes.NewReader(res.Artifacts[FormatJSON]))
			if err != nil {
				t.Fatalf("ReadJSON: %v", err)
			}
			if doc.RunID != res.RunID || doc.ProgramHash != res.ProgramHash {
				t.Errorf("json metadata = %q/%q, want %q/%q", doc.RunID, doc.ProgramHash, res.RunID, res.ProgramHash)
			}
			if len(doc.Nodes) != tt.want.EntryCount {
				t.Errorf("json has %d nodes, want %d", len(doc.Nodes), tt.want.EntryCount)
			}
		})
	}
}

func TestExecuteLiteralLabel(t *testing.T) {
	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), Options{
		Program: injectionsProgram,
		Formats: []string{FormatDOT},
		Logger:  log.NewWithOptions(&bytes.Buffer{}, log.Options{}),
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	n := res.Graph.Nodes[0]
	if !n.Literal || n.Label != "01" || n.Annotation != "1 → 2^2" {
		t.Errorf("entry = %+v, want literal 01 / 1 → 2^2", n)
	}
}

func TestExecuteProgramHashIsCanonical(t *testing.T) {
	runner := NewRunner(nil, nil, log.NewWithOptions(&bytes.Buffer{}, log.Options{}))
	a, err := runner.Execute(context.Background(), Options{Program: unitProgram, Formats: []string{FormatDOT}})
	if err != nil {
		t.Fatal(err)
	}
	b, err := runner.Execute(context.Background(), Options{Program: "  pA==\n", Formats: []string{FormatDOT}})
	if err != nil {
		t.Fatal(err)
	}
	if a.ProgramHash != b.ProgramHash {
		t.Error("program hash should not depend on surrounding whitespace")
	}
	c, err := runner.Execute(context.Background(), Options{Program: "pA", Formats: []string{FormatDOT}})
	if err != nil {
		t.Fatal(err)
	}
	if a.ProgramHash != c.ProgramHash {
		t.Error("program hash should not depend on base64 padding")
	}
	if a.RunID == b.RunID {
		t.Error("each run should get its own id")
	}
}

func TestExecuteCachesGraphvizOutput(t *testing.T) {
	mem, err := cache.NewMemoryCache(16)
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(mem, nil, log.NewWithOptions(&bytes.Buffer{}, log.Options{}))
	opts := Options{Program: witnessPairProgram, Formats: []string{FormatSVG, FormatDOT}}

	first, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if first.CacheInfo.RenderHit || len(first.CacheInfo.Hits) != 0 {
		t.Errorf("first run cache info = %+v, want no hits", first.CacheInfo)
	}
	if !bytes.Contains(first.Artifacts[FormatSVG], []byte("<svg")) {
		t.Error("svg artifact should contain an svg element")
	}

	second, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !second.CacheInfo.RenderHit {
		t.Error("second run should be served from the cache")
	}
	if diff := cmp.Diff([]string{FormatSVG}, second.CacheInfo.Hits); diff != "" {
		t.Errorf("Hits mismatch (-want +got):\n%s", diff)
	}
	if !bytes.Equal(first.Artifacts[FormatSVG], second.Artifacts[FormatSVG]) {
		t.Error("cached svg differs from rendered svg")
	}

	opts.Refresh = true
	third, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("refresh Execute: %v", err)
	}
	if third.CacheInfo.RenderHit {
		t.Error("refresh should bypass the cache")
	}

	// Different render options use different keys.
	opts.Refresh = false
	opts.Sharing = SharingFull
	fourth, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("full sharing Execute: %v", err)
	}
	if fourth.CacheInfo.RenderHit {
		t.Error("full sharing should not reuse the maximal sharing artifact")
	}
}

func TestExecuteCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := NewRunner(nil, nil, log.NewWithOptions(&bytes.Buffer{}, log.Options{}))
	_, err := runner.Execute(ctx, Options{Program: unitProgram, Formats: []string{FormatDOT}})
	if !errors.Is(err, errors.ErrCodeCanceled) {
		t.Fatalf("Execute(canceled) error = %v, want CANCELED", err)
	}
	if errors.ExitCode(err) != errors.ExitCanceled {
		t.Errorf("ExitCode = %d, want %d", errors.ExitCode(err), errors.ExitCanceled)
	}
}

func TestExecuteLogsStages(t *testing.T) {
	var buf bytes.Buffer
	runner := NewRunner(nil, nil, log.NewWithOptions(&buf, log.Options{}))
	if _, err := runner.Execute(context.Background(), Options{Program: injectionsProgram, Formats: []string{FormatDOT}}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"decoded program", "recognized literals", "scribes=4", "hidden=3", "built render graph", "rendered outputs"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestExecuteModesAgree(t *testing.T) {
	runner := NewRunner(nil, nil, log.NewWithOptions(&bytes.Buffer{}, log.Options{}))
	var counts []int
	for _, mode := range []string{"truncate", "reachable"} {
		res, err := runner.Execute(context.Background(), Options{
			Program: witnessPairProgram,
			Formats: []string{FormatDOT},
			Mode:    mode,
		})
		if err != nil {
			t.Fatalf("Execute(%s): %v", mode, err)
		}
		counts = append(counts, res.Graph.NodeCount(), res.Graph.EdgeCount())
	}
	if counts[0] != counts[2] || counts[1] != counts[3] {
		t.Errorf("truncate and reachable differ: %v", counts)
	}
}

func TestRunnerClose(t *testing.T) {
	mem, _ := cache.NewMemoryCache(1)
	runner := NewRunner(mem, nil, nil)
	if err := runner.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, _, err := mem.Get(context.Background(), "k"); err == nil {
		t.Error("cache should be closed")
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	observability.NoopCacheHooks
	events []string
}

func (h *recordingHooks) OnDecodeComplete(_ context.Context, nodes int, _ time.Duration, err error) {
	h.events = append(h.events, "decode")
}

func (h *recordingHooks) OnRecognizeComplete(_ context.Context, scribes, top, hidden int, _ time.Duration) {
	h.events = append(h.events, "recognize")
}

func (h *recordingHooks) OnRenderComplete(_ context.Context, _ []string, _ time.Duration, err error) {
	h.events = append(h.events, "render")
}

func (h *recordingHooks) OnCacheHit(_ context.Context, format string) {
	h.events = append(h.events, "hit:"+format)
}

func (h *recordingHooks) OnCacheMiss(_ context.Context, format string) {
	h.events = append(h.events, "miss:"+format)
}

func (h *recordingHooks) OnCacheSet(_ context.Context, format string, _ int) {
	h.events = append(h.events, "set:"+format)
}

func TestExecuteHooks(t *testing.T) {
	mem, _ := cache.NewMemoryCache(4)
	hooks := &recordingHooks{}
	runner := NewRunner(mem, nil, log.NewWithOptions(&bytes.Buffer{}, log.Options{}))
	runner.Hooks = hooks
	runner.CacheHooks = hooks

	opts := Options{Program: unitProgram, Formats: []string{FormatSVG}}
	for range 2 {
		if _, err := runner.Execute(context.Background(), opts); err != nil {
			t.Fatal(err)
		}
	}

	want := []string{
		"decode", "recognize", "miss:svg", "set:svg", "render",
		"decode", "recognize", "hit:svg", "render",
	}
	if diff := cmp.Diff(want, hooks.events); diff != "" {
		t.Errorf("hook events mismatch (-want +got):\n%s", diff)
	}

	hooks.events = nil
	if _, err := runner.Execute(context.Background(), Options{Program: "!!!"}); err == nil {
		t.Fatal("expected decode error")
	}
	if diff := cmp.Diff([]string{"decode"}, hooks.events); diff != "" {
		t.Errorf("failed decode events mismatch (-want +got):\n%s", diff)
	}
}
