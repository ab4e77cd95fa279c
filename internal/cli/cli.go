// Package cli implements the bpserial command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bpserial/internal/config"
	"github.com/matzehuels/bpserial/pkg/buildinfo"
	"github.com/matzehuels/bpserial/pkg/cache"
	"github.com/matzehuels/bpserial/pkg/document"
	"github.com/matzehuels/bpserial/pkg/observability"
	"github.com/matzehuels/bpserial/pkg/registry"
	"github.com/matzehuels/bpserial/pkg/schema"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for cache namespaces and display.
	appName = "bpserial"

	catalogFile = "node_catalog.json"
	schemaFile  = "blueprint_master_schema.json"
)

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

	configPath   string
	registryPath string
	verbose      bool

	cfg *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), cfg: config.Default()}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "bpserial converts Blueprint graphs to and from JSON",
		Long: `bpserial exports visual-script graphs as a stable JSON document, validates
documents against the class registry, merges them back into a blueprint and
publishes the node schema that documents are written against.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	flags.StringVar(&c.configPath, "config", "", "config file (default ./bpserial.toml)")
	flags.StringVar(&c.registryPath, "registry", "", "registry snapshot (TOML) layered over the builtin classes")

	root.AddCommand(c.catalogCommand())
	root.AddCommand(c.masterSchemaCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.roundtripCommand())
	root.AddCommand(c.mergeCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.diffCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.schemaCacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration and attaches the logger to the command
// context before any subcommand runs.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	if c.verbose {
		c.SetLogLevel(LogDebug)
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.registryPath != "" {
		cfg.Registry = c.registryPath
	}
	c.cfg = cfg

	observability.SetSchemaHooks(&logHooks{logger: c.Logger})
	observability.SetCacheHooks(&logHooks{logger: c.Logger})

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

// =============================================================================
// Registry & Cache Factories
// =============================================================================

// loadRegistry returns the builtin registry, overlaid with the configured
// snapshot if there is one.
func (c *CLI) loadRegistry() (*registry.Memory, error) {
	reg := registry.Builtin()
	if c.cfg.Registry == "" {
		return reg, nil
	}
	snap, err := registry.LoadSnapshot(c.cfg.Registry)
	if err != nil {
		return nil, err
	}
	if err := reg.Apply(snap); err != nil {
		return nil, err
	}
	c.Logger.Debug("registry snapshot loaded", "path", c.cfg.Registry, "classes", len(snap.Classes), "host", reg.HostVersion())
	return reg, nil
}

// openStore opens the schema store selected by cache.backend. The returned
// store is observed so cache traffic shows up in verbose logs.
func (c *CLI) openStore(ctx context.Context) (cache.Cache, error) {
	var store cache.Cache
	switch c.cfg.Cache.Backend {
	case config.BackendNone:
		store = cache.NewNullCache()
	case config.BackendSQLite:
		sc, err := cache.NewSQLiteCache(c.cfg.DatabasePath())
		if err != nil {
			return nil, err
		}
		store = sc
	case config.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, c.cfg.Cache.RedisAddr)
		if err != nil {
			return nil, err
		}
		store = cache.Scoped(rc, c.namespace())
	default:
		fc, err := cache.NewFileCache(c.cfg.OutputDir())
		if err != nil {
			return nil, err
		}
		store = fc
	}
	return cache.Observed(store, "schema"), nil
}

// namespace scopes shared cache keys to the project, so several projects
// can use one redis server.
func (c *CLI) namespace() string {
	project, err := filepath.Abs(c.cfg.ProjectSaved)
	if err != nil {
		project = c.cfg.ProjectSaved
	}
	return cache.Namespace(appName, project)
}

// newSchemaCache wires the registry and the configured store together.
func (c *CLI) newSchemaCache(ctx context.Context) (*schema.Cache, cache.Cache, error) {
	reg, err := c.loadRegistry()
	if err != nil {
		return nil, nil, err
	}
	store, err := c.openStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	return schema.NewCache(reg, store, c.cfg.Cache.TTL), store, nil
}

// =============================================================================
// Paths & Documents
// =============================================================================

// outputPath returns args[0] when given, otherwise name inside the output
// directory.
func (c *CLI) outputPath(args []string, name string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return filepath.Join(c.cfg.OutputDir(), name)
}

func readDocument(path string) (*document.Document, error) {
	doc, err := document.Import(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return doc, nil
}
