package cli

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/combviz/pkg/buildinfo"
	"github.com/matzehuels/combviz/pkg/cache"
	"github.com/matzehuels/combviz/pkg/config"
	"github.com/matzehuels/combviz/pkg/errors"
	"github.com/matzehuels/combviz/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "combviz"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Out receives command output; Err receives status lines.
	Out io.Writer
	Err io.Writer

	// Config is loaded before any subcommand runs.
	Config config.Config

	verbose    bool
	configPath string
}

// New creates a new CLI instance with a default logger writing to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
		Err:    w,
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// ReportError prints err the way the CLI reports failures.
func (c *CLI) ReportError(err error) {
	if code := errors.GetCode(err); code != "" {
		printError(c.Err, "%s %s", errors.UserMessage(err), StyleDim.Render("("+string(code)+")"))
		return
	}
	printError(c.Err, "%s", err)
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. Artifacts are cached in
// memory in front of the on-disk cache, under keys scoped to this build.
func (c *CLI) newRunner(noCache bool) *pipeline.Runner {
	store := c.newCache(noCache)
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.CacheScope())
	return pipeline.NewRunner(store, keyer, c.Logger)
}

func (c *CLI) newCache(noCache bool) cache.Cache {
	if noCache || !c.Config.Cache {
		return cache.NewNullCache()
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Warn("cache disabled", "error", err)
		return cache.NewNullCache()
	}
	back, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("cache disabled", "error", err)
		return cache.NewNullCache()
	}
	front, err := cache.NewMemoryCache(cache.DefaultMemorySize)
	if err != nil {
		return back
	}
	return cache.NewTieredCache(front, back, c.cacheTTL())
}

func (c *CLI) cacheTTL() time.Duration {
	if ttl := c.Config.TTL(); ttl > 0 {
		return ttl
	}
	return cache.DefaultTTL
}

// loadConfig reads the config file named by --config, or the default one.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	if cfg.Path != "" {
		c.Logger.Debug("loaded config", "path", cfg.Path)
	}
	return nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/combviz/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
