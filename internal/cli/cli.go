// Package cli implements the coarsen command-line interface.
//
// # Commands
//
//   - contract: contract a graph and write the cluster mapping
//   - render: draw the quotient graph of a mapping
//   - inspect: browse the contraction hierarchy interactively
//   - serve: run the HTTP API
//   - cache: manage the result cache
//   - config: print the effective configuration
//
// # Configuration
//
// Defaults come from ~/.config/coarsen/config.toml (see package config);
// --config selects another file. Flags override the file.
//
// # Logging
//
// Loggers are passed through context.Context so helpers deep in a command
// log with the same level and format as the command itself.
package cli

import (
	"context"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/coarsen/pkg/buildinfo"
	"github.com/matzehuels/coarsen/pkg/cache"
	"github.com/matzehuels/coarsen/pkg/config"
	"github.com/matzehuels/coarsen/pkg/pipeline"
)

// appName is the application name used for display.
const appName = config.AppName

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

	configPath string
	noCache    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Coarsen contracts weighted graphs by heavy-edge matching",
		Long: `Coarsen shrinks a weighted undirected graph by repeatedly merging every
node with its heaviest neighbour. The result is a cluster mapping per level
that can be rendered as a quotient graph or served over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/coarsen/config.toml)")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable the result cache")

	root.AddCommand(c.contractCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config & Runner Factory
// =============================================================================

func (c *CLI) loadConfig() (*config.Config, error) {
	return config.Load(c.configPath)
}

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	if c.noCache {
		return cache.NewNullCache(), nil
	}
	opts := cfg.Cache.Options()
	switch opts.Backend {
	case cache.BackendFile, cache.BackendBadger, "":
		if opts.Dir == "" {
			c.Logger.Warn("no cache directory, caching disabled")
			return cache.NewNullCache(), nil
		}
	}
	return cache.Open(ctx, opts)
}

// contractOptions builds pipeline options from the config and flag values.
func contractOptions(cfg *config.Config, iterations int, refresh bool) (pipeline.Options, error) {
	ttl, err := cfg.Cache.Duration()
	if err != nil {
		return pipeline.Options{}, err
	}
	return pipeline.Options{Iterations: iterations, Refresh: refresh, TTL: ttl}, nil
}

// =============================================================================
// Paths
// =============================================================================

// basePath derives the base output path from the output and input paths.
// If output is empty, the input's extension is stripped. A known format
// extension on output is stripped as well.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if slices.Contains(pipeline.Formats, strings.TrimPrefix(ext, ".")) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
