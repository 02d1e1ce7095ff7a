package optimizer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/tripforge/tripforge/internal/route"
)

const multiSegmentWrap = "failed to optimize multi-segment route"

// MultiSegmentConfig holds dependencies for the multi-segment orchestrator.
type MultiSegmentConfig struct {
	// Optimizers maps each supported activity type to its optimizer.
	Optimizers map[route.ActivityType]Optimizer

	// Logger for orchestration events.
	Logger zerolog.Logger
}

// MultiSegmentOptimizer validates a segment chain, optimizes each segment
// concurrently and stitches the results with mode-transition costs.
type MultiSegmentOptimizer struct {
	optimizers map[route.ActivityType]Optimizer
	logger     zerolog.Logger
	tracer     trace.Tracer
}

// NewMultiSegmentOptimizer creates the orchestrator.
func NewMultiSegmentOptimizer(cfg MultiSegmentConfig) *MultiSegmentOptimizer {
	return &MultiSegmentOptimizer{
		optimizers: cfg.Optimizers,
		logger:     cfg.Logger,
		tracer:     otel.Tracer("tripforge/optimizer"),
	}
}

// Optimize turns a continuous chain of n segments into 2n-1 results: one per
// segment with transitions interleaved at odd indices. The first failure
// cancels all in-flight segment optimizations.
func (m *MultiSegmentOptimizer) Optimize(ctx context.Context, segments []route.Segment) ([]route.OptimizationResult, error) {
	ctx, span := m.tracer.Start(ctx, "optimizer.multi_segment",
		trace.WithAttributes(attribute.Int("segments", len(segments))))
	defer span.End()

	if len(segments) == 0 {
		return nil, fmt.Errorf("%s: %w", multiSegmentWrap, route.ErrNoSegments)
	}

	// The chain must be continuous: each segment starts where the previous
	// one ended, within the coordinate epsilon.
	for i := 0; i < len(segments)-1; i++ {
		if !segments[i].EndPoint.ApproxEqual(segments[i+1].StartPoint) {
			return nil, fmt.Errorf("%s: segments %d and %d are not continuous: %w",
				multiSegmentWrap, i, i+1, route.ErrDiscontinuousChain)
		}
	}

	// Resolve optimizers up front so unsupported modes fail deterministically
	// before any provider call.
	optimizers := make([]Optimizer, len(segments))
	for i, seg := range segments {
		opt, ok := m.optimizers[seg.ActivityType]
		if !ok || !seg.ActivityType.Valid() {
			return nil, fmt.Errorf("%s: segment %d: %w: %s",
				multiSegmentWrap, i, route.ErrUnsupportedActivity, seg.ActivityType)
		}
		optimizers[i] = opt
	}

	segmentResults := make([]*route.OptimizationResult, len(segments))
	g, gctx := errgroup.WithContext(ctx)
	for i, seg := range segments {
		g.Go(func() error {
			result, err := optimizers[i].OptimizeRoute(gctx, seg.StartPoint, seg.EndPoint, seg.Preferences)
			if err != nil {
				return fmt.Errorf("segment %d (%s): %w", i, seg.ActivityType, err)
			}
			segmentResults[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", multiSegmentWrap, err)
	}

	// Transitions are cheap pure lookups; computed sequentially.
	results := make([]route.OptimizationResult, 0, 2*len(segments)-1)
	for i, r := range segmentResults {
		if i > 0 {
			results = append(results, Transition(
				segments[i-1].ActivityType,
				segments[i].ActivityType,
				segments[i].StartPoint,
			))
		}
		results = append(results, *r)
	}

	m.logger.Debug().
		Int("segments", len(segments)).
		Int("results", len(results)).
		Msg("multi-segment optimization complete")

	return results, nil
}

// Supports reports whether an optimizer is registered for the activity type.
func (m *MultiSegmentOptimizer) Supports(activity route.ActivityType) bool {
	_, ok := m.optimizers[activity]
	return ok
}
