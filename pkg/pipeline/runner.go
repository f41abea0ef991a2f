package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/coarsen/pkg/cache"
	"github.com/matzehuels/coarsen/pkg/contract"
	"github.com/matzehuels/coarsen/pkg/graph"
	"github.com/matzehuels/coarsen/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so caching behaves the same everywhere.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
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
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// ContractWithCacheInfo contracts g with caching and reports whether the
// result came from the cache.
func (r *Runner) ContractWithCacheInfo(ctx context.Context, g *graph.Graph, opts Options) (*Result, bool, error) {
	if err := opts.Validate(); err != nil {
		return nil, false, err
	}
	logger := r.logger(opts)
	start := time.Now()
	hooks := observability.Contraction()

	graphData, err := graph.MarshalGraph(g)
	if err != nil {
		return nil, false, fmt.Errorf("serialize graph: %w", err)
	}
	graphHash := cache.Hash(graphData)
	key := r.Keyer.ContractionKey(graphHash, opts.KeyOpts())

	// The snapshot that was hashed is the one that gets contracted.
	snapshot, err := graph.ReadGraph(bytes.NewReader(graphData))
	if err != nil {
		return nil, false, fmt.Errorf("snapshot graph: %w", err)
	}
	n := snapshot.NodeCount()

	result := &Result{
		GraphHash: graphHash,
		Stats: Stats{
			NodeCount: n,
			EdgeCount: snapshot.EdgeCount(),
		},
	}

	if !opts.Refresh {
		if m, ok := r.cachedMapping(ctx, key, n, opts); ok {
			result.Mapping = m
			result.Stats.Clusters = m.Clusters
			result.Stats.Cached = true
			result.Stats.Duration = time.Since(start)
			logger.Debug("contraction cache hit", "key", key)
			return result, true, nil
		}
	}

	hooks.OnContractStart(ctx, n, opts.Iterations)
	res, err := contract.Run(snapshot, contract.Options{
		Iterations: opts.Iterations,
		Levels:     opts.Levels,
		Observer: func(s contract.RoundStats) {
			hooks.OnRound(ctx, s.Round, s.Unions, s.Clusters)
			logger.Debug("round complete",
				"round", s.Round,
				"participants", s.Participants,
				"unions", s.Unions,
				"clusters", s.Clusters)
		},
	})
	result.Stats.Duration = time.Since(start)
	if err != nil {
		hooks.OnContractComplete(ctx, 0, 0, result.Stats.Duration, err)
		return nil, false, err
	}
	hooks.OnContractComplete(ctx, res.Clusters, len(res.Rounds), result.Stats.Duration, nil)

	result.Mapping = newMapping(n, opts, res)
	result.Rounds = res.Rounds
	result.Stats.Clusters = res.Clusters

	logger.Info("contracted graph",
		"nodes", n,
		"clusters", res.Clusters,
		"rounds", len(res.Rounds),
		"duration", result.Stats.Duration)

	if data, err := graph.MarshalMapping(result.Mapping); err == nil {
		if err := r.Cache.Set(ctx, key, data, opts.ttl()); err != nil {
			logger.Warn("cache write failed", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, cache.KeyTypeContraction, len(data))
		}
	}

	return result, false, nil
}

// Contract is a convenience wrapper that calls ContractWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Contract(ctx context.Context, g *graph.Graph, opts Options) (*Result, error) {
	res, _, err := r.ContractWithCacheInfo(ctx, g, opts)
	return res, err
}

// Hierarchy returns the mapping after every round from 0 to levels.
func (r *Runner) Hierarchy(ctx context.Context, g *graph.Graph, levels int, refresh bool) (*Result, error) {
	return r.Contract(ctx, g, Options{Iterations: levels, Levels: true, Refresh: refresh})
}

func (r *Runner) cachedMapping(ctx context.Context, key string, n int, opts Options) (*graph.Mapping, bool) {
	logger := r.logger(opts)
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		logger.Warn("cache read failed", "error", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, cache.KeyTypeContraction)
		return nil, false
	}

	m, err := graph.ReadMapping(bytes.NewReader(data))
	if err == nil {
		err = checkMapping(m, n, opts)
	}
	if err != nil {
		logger.Debug("discarding cache entry", "key", key, "error", err)
		_ = r.Cache.Delete(ctx, key)
		observability.Cache().OnCacheMiss(ctx, cache.KeyTypeContraction)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, cache.KeyTypeContraction)
	return m, true
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}
