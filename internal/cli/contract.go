package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/coarsen/pkg/config"
	"github.com/matzehuels/coarsen/pkg/graph"
	"github.com/matzehuels/coarsen/pkg/pipeline"
)

// contractOpts holds the command-line flags for the contract command.
type contractOpts struct {
	output     string // mapping file; defaults to <input>.mapping.json
	quotient   string // optional quotient graph file
	iterations int
	levels     bool // record the mapping after every round
	refresh    bool
}

// contractCommand creates the contract command.
func (c *CLI) contractCommand() *cobra.Command {
	var opts contractOpts

	cmd := &cobra.Command{
		Use:   "contract [file]",
		Short: "Contract a weighted graph into clusters",
		Long: `Contract a weighted graph by heavy-edge matching.

The input is a JSON graph document or a whitespace-separated edge list
("a b weight" per line). The resulting cluster mapping is written as JSON.`,
		Example: `  coarsen contract graph.json -i 3
  coarsen contract edges.txt --levels -o hierarchy.json
  coarsen contract graph.json -i 2 --quotient coarse.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("iterations") {
				opts.iterations = cfg.Iterations
			}
			return c.runContract(cmd.Context(), args[0], cfg, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "mapping output file (default <input>.mapping.json)")
	cmd.Flags().StringVar(&opts.quotient, "quotient", "", "also write the quotient graph to this file")
	cmd.Flags().IntVarP(&opts.iterations, "iterations", "i", pipeline.DefaultIterations, "number of contraction rounds")
	cmd.Flags().BoolVar(&opts.levels, "levels", false, "record the mapping after every round")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")

	return cmd
}

func (c *CLI) runContract(ctx context.Context, input string, cfg *config.Config, opts contractOpts) error {
	logger := loggerFromContext(ctx)

	g, err := graph.ReadFile(input)
	if err != nil {
		return err
	}
	logger.Debug("loaded graph", "path", input, "nodes", g.NodeCount(), "edges", g.EdgeCount())

	runner, err := c.newRunner(ctx, cfg)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts, err := contractOptions(cfg, opts.iterations, opts.refresh)
	if err != nil {
		return err
	}
	popts.Levels = opts.levels
	popts.Logger = logger

	prog := newProgress(logger)
	res, err := runner.Contract(ctx, g, popts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Contracted %d nodes into %d clusters", res.Stats.NodeCount, res.Stats.Clusters))

	output := opts.output
	if output == "" {
		output = basePath("", input) + ".mapping.json"
	}
	if err := graph.WriteMappingFile(res.Mapping, output); err != nil {
		return err
	}

	printSuccess("Contracted in %d of %d rounds", res.Mapping.Rounds, res.Mapping.Iterations)
	printStats(res.Stats)
	if q, err := g.Modularity(res.Mapping.Mapping); err == nil {
		printKeyValue("modularity", fmt.Sprintf("%.4f", q))
	} else {
		logger.Debug("modularity unavailable", "error", err)
	}
	printFile(output)

	if opts.quotient != "" {
		q, err := g.Quotient(res.Mapping.Mapping)
		if err != nil {
			return err
		}
		if err := graph.WriteGraphFile(q, opts.quotient); err != nil {
			return err
		}
		printFile(opts.quotient)
	}

	printNextStep("Render it", fmt.Sprintf("%s render %s --mapping %s", appName, input, output))
	return nil
}
