package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/coarsen/pkg/config"
	errs "github.com/matzehuels/coarsen/pkg/errors"
	"github.com/matzehuels/coarsen/pkg/graph"
	"github.com/matzehuels/coarsen/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string   // output file (single format) or base path (multiple)
	formats    []string // svg, dot, pdf, png
	mapping    string   // mapping file from `coarsen contract`; contracts on the fly when empty
	iterations int
	detailed   bool // size and degree in node labels, weights on edges
	scale      float64
	refresh    bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render the quotient graph of a contraction",
		Example: `  coarsen render graph.json -i 2
  coarsen render graph.json --mapping graph.mapping.json -f svg,png
  coarsen render graph.json -f dot -o coarse.dot --detailed`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			if !cmd.Flags().Changed("iterations") {
				opts.iterations = cfg.Iterations
			}
			if !cmd.Flags().Changed("detailed") {
				opts.detailed = cfg.Render.Detailed
			}
			return c.runRender(cmd.Context(), args[0], cfg, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, pdf, png (comma-separated)")
	cmd.Flags().StringVarP(&opts.mapping, "mapping", "m", "", "mapping file (default: contract the graph)")
	cmd.Flags().IntVarP(&opts.iterations, "iterations", "i", pipeline.DefaultIterations, "contraction rounds when no mapping is given")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show cluster size, degree and edge weights")
	cmd.Flags().Float64Var(&opts.scale, "scale", pipeline.DefaultScale, "PNG resolution multiplier")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")

	return cmd
}

// parseFormats splits the --format flag. Empty means svg.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	formats := strings.Split(s, ",")
	for i, f := range formats {
		formats[i] = strings.TrimSpace(f)
	}
	return formats
}

func validateFormats(formats []string) error {
	for _, f := range formats {
		opts := pipeline.RenderOptions{Format: f}
		if err := opts.ValidateAndSetDefaults(); err != nil {
			return err
		}
	}
	return nil
}

// outputPath returns where one format is written. A single format goes to
// --output verbatim when set.
func outputPath(input, format string, opts *renderOpts) string {
	if opts.output != "" && len(opts.formats) == 1 {
		return opts.output
	}
	return basePath(opts.output, input) + "." + format
}

func (c *CLI) runRender(ctx context.Context, input string, cfg *config.Config, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	g, err := graph.ReadFile(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cfg)
	if err != nil {
		return err
	}
	defer runner.Close()

	m, err := c.loadOrContract(ctx, runner, g, cfg, opts)
	if err != nil {
		return err
	}
	logger.Debug("rendering", "clusters", m.Clusters, "formats", opts.formats)

	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()

	var written []string
	for _, format := range opts.formats {
		spinner.SetMessage(fmt.Sprintf("Rendering %s...", format))
		ropts := pipeline.RenderOptions{Format: format, Detailed: opts.detailed, Scale: opts.scale}
		data, hit, err := runner.RenderWithCacheInfo(ctx, g, m, ropts)
		if err != nil {
			spinner.StopWithError(fmt.Sprintf("Render %s failed", format))
			return err
		}
		path := outputPath(input, format, opts)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			spinner.StopWithError(fmt.Sprintf("Write %s failed", path))
			return fmt.Errorf("write %s: %w", path, err)
		}
		logger.Debug("wrote artifact", "path", path, "bytes", len(data), "cached", hit)
		written = append(written, path)
	}

	spinner.StopWithSuccess(fmt.Sprintf("Rendered %d clusters", m.Clusters))
	for _, path := range written {
		printFile(path)
	}
	return nil
}

// loadOrContract reads the --mapping file or contracts g.
func (c *CLI) loadOrContract(ctx context.Context, runner *pipeline.Runner, g *graph.Graph, cfg *config.Config, opts *renderOpts) (*graph.Mapping, error) {
	if opts.mapping != "" {
		m, err := graph.ReadMappingFile(opts.mapping)
		if err != nil {
			return nil, err
		}
		if m.NodeCount != g.NodeCount() {
			return nil, errs.New(errs.ErrCodeInvalidMapping, "mapping %s covers %d nodes, graph has %d", opts.mapping, m.NodeCount, g.NodeCount())
		}
		return m, nil
	}

	popts, err := contractOptions(cfg, opts.iterations, opts.refresh)
	if err != nil {
		return nil, err
	}
	res, err := runner.Contract(ctx, g, popts)
	if err != nil {
		return nil, err
	}
	return res.Mapping, nil
}
