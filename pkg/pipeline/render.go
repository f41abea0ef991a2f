package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matzehuels/coarsen/pkg/cache"
	errs "github.com/matzehuels/coarsen/pkg/errors"
	"github.com/matzehuels/coarsen/pkg/graph"
	"github.com/matzehuels/coarsen/pkg/observability"
	"github.com/matzehuels/coarsen/pkg/render/nodelink"
)

// RenderWithCacheInfo draws the quotient graph of mapping over g and
// reports whether the artifact came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g *graph.Graph, m *graph.Mapping, opts RenderOptions) ([]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	graphData, err := graph.MarshalGraph(g)
	if err != nil {
		return nil, false, fmt.Errorf("serialize graph: %w", err)
	}
	mappingData, err := graph.MarshalMapping(m)
	if err != nil {
		return nil, false, fmt.Errorf("serialize mapping: %w", err)
	}
	key := r.Keyer.RenderKey(cache.Hash(append(graphData, mappingData...)), opts.KeyOpts())

	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, cache.KeyTypeRender)
		return data, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, cache.KeyTypeRender)

	data, err := Render(ctx, g, m.Mapping, opts)
	if err != nil {
		return nil, false, err
	}

	if err := r.Cache.Set(ctx, key, data, cache.TTLRender); err != nil {
		r.Logger.Warn("cache write failed", "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, cache.KeyTypeRender, len(data))
	}
	return data, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, g *graph.Graph, m *graph.Mapping, opts RenderOptions) ([]byte, error) {
	data, _, err := r.RenderWithCacheInfo(ctx, g, m, opts)
	return data, err
}

// Render draws the quotient graph of mapping over g without caching.
func Render(ctx context.Context, g *graph.Graph, mapping []int, opts RenderOptions) ([]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	hooks := observability.Contraction()
	hooks.OnRenderStart(ctx, opts.Format)
	start := time.Now()

	data, err := render(ctx, g, mapping, opts)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		err = errs.Wrap(errs.ErrCodeTimeout, err, "render %s", opts.Format)
	}
	hooks.OnRenderComplete(ctx, opts.Format, time.Since(start), err)
	return data, err
}

func render(ctx context.Context, g *graph.Graph, mapping []int, opts RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q, err := g.Quotient(mapping)
	if err != nil {
		return nil, fmt.Errorf("quotient: %w", err)
	}
	dot := nodelink.ToDOT(q, nodelink.Options{Detailed: opts.Detailed})

	switch opts.Format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatPDF:
		return nodelink.RenderPDF(ctx, dot)
	case FormatPNG:
		return nodelink.RenderPNG(ctx, dot, opts.Scale)
	default:
		return nodelink.RenderSVG(ctx, dot)
	}
}
