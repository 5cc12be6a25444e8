package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/combviz/pkg/cache"
	"github.com/matzehuels/combviz/pkg/codec"
	"github.com/matzehuels/combviz/pkg/dag"
	"github.com/matzehuels/combviz/pkg/errors"
	"github.com/matzehuels/combviz/pkg/observability"
	"github.com/matzehuels/combviz/pkg/render/nodelink"
	"github.com/matzehuels/combviz/pkg/scribe"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Hooks and CacheHooks receive stage and cache events. NewRunner takes
	// them from the observability registry.
	Hooks      observability.PipelineHooks
	CacheHooks observability.CacheHooks
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:      c,
		Keyer:      keyer,
		Logger:     logger,
		Hooks:      observability.Pipeline(),
		CacheHooks: observability.Cache(),
	}
}

// Decode validates and decodes base64 program text.
func Decode(text string) (*dag.Program, error) {
	if err := errors.ValidateProgramText(text); err != nil {
		return nil, err
	}
	p, err := codec.DecodeBase64(text)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecode, err, "decode program")
	}
	return p, nil
}

// decodeCanonical decodes program text and returns the program with its
// canonical encoding, which identifies it independently of padding and
// whitespace.
func decodeCanonical(text string) (*dag.Program, []byte, error) {
	prog, err := Decode(text)
	if err != nil {
		return nil, nil, err
	}
	canonical, err := codec.Encode(prog)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInternal, err, "re-encode program")
	}
	return prog, canonical, nil
}

// Execute runs the complete decode → recognize → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{
		RunID:     uuid.NewString(),
		Artifacts: make(map[string][]byte),
	}
	logger := opts.Logger.With("run", result.RunID[:8])

	// Stage 1: Decode
	start := time.Now()
	r.hooks().OnDecodeStart(ctx, len(opts.Program))
	prog, canonical, err := decodeCanonical(opts.Program)
	if err != nil {
		r.hooks().OnDecodeComplete(ctx, 0, time.Since(start), err)
		return nil, err
	}
	result.Program = prog
	result.ProgramHash = cache.Hash(canonical)
	result.Stats.DecodeTime = time.Since(start)
	result.Stats.NodeCount = prog.Arena.Len()
	r.hooks().OnDecodeComplete(ctx, result.Stats.NodeCount, result.Stats.DecodeTime, nil)

	logger.Info("decoded program",
		"nodes", result.Stats.NodeCount,
		"bytes", len(canonical),
		"duration", result.Stats.DecodeTime)

	if err := checkCanceled(ctx, "decode"); err != nil {
		return nil, err
	}

	// Stage 2: Recognize
	start = time.Now()
	result.Analysis = scribe.Analyze(prog.Arena, prog.Root)
	result.Stats.AnalyzeTime = time.Since(start)
	result.Stats.ScribeCount = len(result.Analysis.Scribes)
	result.Stats.TopCount = len(result.Analysis.Top)
	result.Stats.HiddenCount = len(result.Analysis.Hidden)
	r.hooks().OnRecognizeComplete(ctx, result.Stats.ScribeCount, result.Stats.TopCount,
		result.Stats.HiddenCount, result.Stats.AnalyzeTime)

	logger.Info("recognized literals",
		"scribes", result.Stats.ScribeCount,
		"top", result.Stats.TopCount,
		"hidden", result.Stats.HiddenCount,
		"duration", result.Stats.AnalyzeTime)

	if err := checkCanceled(ctx, "recognize"); err != nil {
		return nil, err
	}

	// Stage 3: Graph
	start = time.Now()
	r.hooks().OnRenderStart(ctx, opts.Formats)
	renderOpts, err := opts.RenderOptions()
	if err != nil {
		r.hooks().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
		return nil, err
	}
	g, err := nodelink.Render(prog.Arena, prog.Root, result.Analysis, renderOpts)
	if err != nil {
		err = errors.Wrap(errors.ErrCodeRender, err, "build render graph")
		r.hooks().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
		return nil, err
	}
	result.Graph = g
	result.DOT = nodelink.ToDOT(g, nodelink.DOTOptions{RankSep: opts.RankSep})
	result.Stats.GraphTime = time.Since(start)
	result.Stats.EntryCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()

	logger.Info("built render graph",
		"entries", result.Stats.EntryCount,
		"edges", result.Stats.EdgeCount,
		"literals", g.LiteralCount(),
		"sharing", opts.Sharing,
		"mode", opts.Mode,
		"duration", result.Stats.GraphTime)

	// Stage 4: Render
	renderStart := time.Now()
	err = checkCanceled(ctx, "graph")
	if err == nil {
		err = r.renderArtifacts(ctx, result, &opts, logger)
	}
	result.Stats.RenderTime = time.Since(renderStart)
	r.hooks().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", len(result.CacheInfo.Hits),
		"duration", result.Stats.RenderTime)

	return result, nil
}

// renderArtifacts fills result.Artifacts for every requested format. Graphviz
// output is read from and written to the cache; DOT and JSON are derived from
// the in-memory graph.
func (r *Runner) renderArtifacts(ctx context.Context, result *Result, opts *Options, logger *log.Logger) error {
	rendered := 0
	for _, format := range opts.Formats {
		if _, done := result.Artifacts[format]; done {
			continue
		}

		cached := graphvizFormats[format]
		key := r.Keyer.ArtifactKey(result.ProgramHash, opts.ArtifactKeyOpts(format))
		if cached && !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				result.Artifacts[format] = data
				result.CacheInfo.Hits = append(result.CacheInfo.Hits, format)
				r.cacheHooks().OnCacheHit(ctx, format)
				logger.Debug("cache hit", "format", format)
				continue
			}
			r.cacheHooks().OnCacheMiss(ctx, format)
		}

		if err := checkCanceled(ctx, "render"); err != nil {
			return err
		}
		data, err := renderFormat(ctx, format, result)
		if err != nil {
			if ctxErr := checkCanceled(ctx, "render"); ctxErr != nil {
				return ctxErr
			}
			return errors.Wrap(errors.ErrCodeRender, err, "render %s", format)
		}
		result.Artifacts[format] = data

		if cached {
			rendered++
			if err := r.Cache.Set(ctx, key, data, opts.TTL); err != nil {
				logger.Warn("cache write failed", "format", format, "error", err)
			} else {
				r.cacheHooks().OnCacheSet(ctx, format, len(data))
			}
		}
	}

	graphviz := 0
	for _, f := range opts.Formats {
		if graphvizFormats[f] {
			graphviz++
		}
	}
	result.CacheInfo.RenderHit = graphviz > 0 && rendered == 0
	return nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) hooks() observability.PipelineHooks {
	if r.Hooks != nil {
		return r.Hooks
	}
	return observability.NoopPipelineHooks{}
}

func (r *Runner) cacheHooks() observability.CacheHooks {
	if r.CacheHooks != nil {
		return r.CacheHooks
	}
	return observability.NoopCacheHooks{}
}

// checkCanceled reports a canceled or expired context as a coded error.
func checkCanceled(ctx context.Context, stage string) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(errors.ErrCodeCanceled, err, "%s canceled", stage)
	}
	return nil
}
