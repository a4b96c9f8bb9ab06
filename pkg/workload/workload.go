// Package workload drives a red-black tree through a seeded random mix of
// operations, checking every result against a map oracle and the tree's own
// invariant validator.
package workload

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/rbtree/pkg/config"
	"github.com/Sumatoshi-tech/rbtree/pkg/observability"
	"github.com/Sumatoshi-tech/rbtree/pkg/rbtree"
)

// Sentinel errors.
var (
	// ErrDivergence means the tree disagreed with the oracle.
	ErrDivergence = errors.New("tree diverged from oracle")
	// ErrHeightBound means the tree grew taller than 2*log2(n+1).
	ErrHeightBound = errors.New("height bound exceeded")
)

// Operation kinds.
const (
	OpPut         = "put"
	OpDelete      = "delete"
	OpGetOrInsert = "get_or_insert"
	OpFind        = "find"
)

// Operation outcomes recorded in metrics and stats.
const (
	resultInserted = "inserted"
	resultUpdated  = "updated"
	resultHit      = "hit"
	resultMiss     = "miss"
)

const tracerName = "github.com/Sumatoshi-tech/rbtree/pkg/workload"

// Deps carries the ambient collaborators of a run. Zero fields are replaced
// with silent defaults.
type Deps struct {
	Logger  *slog.Logger
	Tracer  trace.Tracer
	Metrics *observability.TreeMetrics
}

// OpStats counts one operation kind. Hits are calls that found the key present.
type OpStats struct {
	Op     string `json:"op"     yaml:"op"`
	Count  int    `json:"count"  yaml:"count"`
	Hits   int    `json:"hits"   yaml:"hits"`
	Misses int    `json:"misses" yaml:"misses"`
}

// HeightSample captures the tree shape at one step.
type HeightSample struct {
	Step        int     `json:"step"         yaml:"step"`
	Size        int     `json:"size"         yaml:"size"`
	Height      int     `json:"height"       yaml:"height"`
	BlackHeight int     `json:"black_height" yaml:"black_height"`
	Bound       float64 `json:"bound"        yaml:"bound"`
}

// Report summarizes a completed run.
type Report struct {
	Order       string         `json:"order"        yaml:"order"`
	Seed        int64          `json:"seed"         yaml:"seed"`
	Operations  int            `json:"operations"   yaml:"operations"`
	KeySpace    int            `json:"key_space"    yaml:"key_space"`
	Ops         []OpStats      `json:"ops"          yaml:"ops"`
	FinalSize   int            `json:"final_size"   yaml:"final_size"`
	MaxHeight   int            `json:"max_height"   yaml:"max_height"`
	Validations int            `json:"validations"  yaml:"validations"`
	Elapsed     time.Duration  `json:"elapsed_ns"   yaml:"elapsed"`
	Samples     []HeightSample `json:"samples"      yaml:"samples"`
}

// Throughput returns operations per second over the whole run.
func (r *Report) Throughput() float64 {
	if r.Elapsed <= 0 {
		return 0
	}

	return float64(r.Operations) / r.Elapsed.Seconds()
}

// HeightBound returns 2*log2(n+1), the maximum height of a valid tree holding n keys.
func HeightBound(n int) float64 {
	return 2 * math.Log2(float64(n+1))
}

// NewTree builds an empty int tree ordered by order (config.OrderAscending or
// config.OrderDescending).
func NewTree(order string) *rbtree.Tree[int, int] {
	if order == config.OrderDescending {
		return rbtree.New[int, int](func(a, b int) bool { return cmp.Less(b, a) })
	}

	return rbtree.NewOrdered[int, int]()
}

type runner struct {
	cfg    config.WorkloadConfig
	deps   Deps
	tree   *rbtree.Tree[int, int]
	oracle map[int]int
	stats  map[string]*OpStats
	report *Report
}

// Run executes cfg.Operations random steps. It stops at the first divergence,
// invariant violation or height bound violation, and between steps when ctx
// is done. The partial report is returned alongside any error.
func Run(ctx context.Context, cfg config.WorkloadConfig, deps Deps) (*Report, error) {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}

	if deps.Tracer == nil {
		deps.Tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}

	ctx, span := deps.Tracer.Start(ctx, "workload.run", trace.WithAttributes(
		attribute.Int64("workload.seed", cfg.Seed),
		attribute.Int("workload.operations", cfg.Operations),
		attribute.Int("workload.key_space", cfg.KeySpace),
		attribute.String("workload.order", cfg.Order),
	))
	defer span.End()

	r := &runner{
		cfg:    cfg,
		deps:   deps,
		tree:   NewTree(cfg.Order),
		oracle: make(map[int]int),
		stats:  make(map[string]*OpStats),
		report: &Report{
			Order:    cfg.Order,
			Seed:     cfg.Seed,
			KeySpace: cfg.KeySpace,
		},
	}

	for _, op := range []string{OpPut, OpDelete, OpGetOrInsert, OpFind} {
		r.stats[op] = &OpStats{Op: op}
	}

	start := time.Now()
	err := r.loop(ctx)
	r.report.Elapsed = time.Since(start)
	r.report.FinalSize = r.tree.Size()

	for _, op := range []string{OpPut, OpDelete, OpGetOrInsert, OpFind} {
		r.report.Ops = append(r.report.Ops, *r.stats[op])
	}

	span.SetAttributes(
		attribute.Int("workload.final_size", r.report.FinalSize),
		attribute.Int("workload.max_height", r.report.MaxHeight),
	)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		deps.Logger.ErrorContext(ctx, "workload failed",
			slog.Int("step", r.report.Operations), slog.Any("error", err))

		return r.report, err
	}

	deps.Logger.InfoContext(ctx, "workload complete",
		slog.Int("operations", r.report.Operations),
		slog.Int("final_size", r.report.FinalSize),
		slog.Int("max_height", r.report.MaxHeight),
		slog.Int("validations", r.report.Validations),
		slog.Duration("elapsed", r.report.Elapsed))

	return r.report, nil
}

func (r *runner) loop(ctx context.Context) error {
	//nolint:gosec // Deterministic pseudo-random stream keyed by the configured seed.
	rng := rand.New(rand.NewPCG(uint64(r.cfg.Seed), uint64(r.cfg.KeySpace)))

	for step := 1; step <= r.cfg.Operations; step++ {
		err := ctx.Err()
		if err != nil {
			return fmt.Errorf("workload cancelled at step %d: %w", step, err)
		}

		key := rng.IntN(r.cfg.KeySpace)

		err = r.apply(ctx, r.pick(rng.Float64()), key, step)
		if err != nil {
			return fmt.Errorf("step %d: %w", step, err)
		}

		r.report.Operations = step
		r.report.MaxHeight = max(r.report.MaxHeight, r.tree.Height())

		if r.cfg.ValidateEvery > 0 && step%r.cfg.ValidateEvery == 0 {
			err = r.verify(ctx, step)
			if err != nil {
				return err
			}
		}

		if r.cfg.SampleEvery > 0 && step%r.cfg.SampleEvery == 0 {
			r.sample(ctx, step)
		}
	}

	return r.verify(ctx, r.report.Operations)
}

func (r *runner) pick(roll float64) string {
	switch {
	case roll < r.cfg.PutRatio:
		return OpPut
	case roll < r.cfg.PutRatio+r.cfg.DeleteRatio:
		return OpDelete
	case roll < r.cfg.PutRatio+r.cfg.DeleteRatio+r.cfg.GetOrInsertRatio:
		return OpGetOrInsert
	default:
		return OpFind
	}
}

func (r *runner) apply(ctx context.Context, op string, key, step int) error {
	want, present := r.oracle[key]
	start := time.Now()

	var (
		result string
		err    error
	)

	switch op {
	case OpPut:
		r.tree.Put(key, step)
		r.oracle[key] = step

		result = resultInserted
		if present {
			result = resultUpdated
		}
	case OpDelete:
		deleted := r.tree.Delete(key)
		delete(r.oracle, key)

		result = outcome(deleted)
		if deleted != present {
			err = fmt.Errorf("%w: Delete(%d) = %t, oracle has key: %t", ErrDivergence, key, deleted, present)
		}
	case OpGetOrInsert:
		slot := r.tree.GetOrInsert(key)
		if *slot != want {
			err = fmt.Errorf("%w: GetOrInsert(%d) = %d, want %d", ErrDivergence, key, *slot, want)
		}

		*slot = step
		r.oracle[key] = step
		result = outcome(present)
	case OpFind:
		found := r.tree.Find(key)
		result = outcome(found != nil)

		switch {
		case (found != nil) != present:
			err = fmt.Errorf("%w: Find(%d) present = %t, oracle has key: %t", ErrDivergence, key, found != nil, present)
		case found != nil && *found != want:
			err = fmt.Errorf("%w: Find(%d) = %d, want %d", ErrDivergence, key, *found, want)
		}
	}

	elapsed := time.Since(start)

	stats := r.stats[op]
	stats.Count++

	if present {
		stats.Hits++
	} else {
		stats.Misses++
	}

	if r.deps.Metrics != nil {
		r.deps.Metrics.RecordOperation(ctx, op, result, elapsed)
	}

	if err == nil && r.tree.Size() != len(r.oracle) {
		err = fmt.Errorf("%w: size %d after %s(%d), want %d", ErrDivergence, r.tree.Size(), op, key, len(r.oracle))
	}

	return err
}

func outcome(hit bool) string {
	if hit {
		return resultHit
	}

	return resultMiss
}

// verify runs the full invariant check, the traversal comparison and the
// height bound check.
func (r *runner) verify(ctx context.Context, step int) error {
	ctx, span := r.deps.Tracer.Start(ctx, "workload.verify", trace.WithAttributes(
		attribute.Int("workload.step", step),
		attribute.Int("rbtree.size", r.tree.Size()),
	))
	defer span.End()

	r.report.Validations++

	err := r.tree.Validate()
	if r.deps.Metrics != nil {
		r.deps.Metrics.RecordValidation(ctx, err)
	}

	if err == nil {
		err = r.compareTraversal()
	}

	if err == nil {
		height, bound := r.tree.Height(), HeightBound(r.tree.Size())
		if float64(height) > bound {
			err = fmt.Errorf("%w: height %d with %d keys, bound %.2f", ErrHeightBound, height, r.tree.Size(), bound)
		}
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return fmt.Errorf("verify at step %d: %w", step, err)
	}

	r.deps.Logger.DebugContext(ctx, "tree verified",
		slog.Int("step", step),
		slog.Int("size", r.tree.Size()),
		slog.Int("height", r.tree.Height()))

	return nil
}

func (r *runner) sample(ctx context.Context, step int) {
	sample := HeightSample{
		Step:        step,
		Size:        r.tree.Size(),
		Height:      r.tree.Height(),
		BlackHeight: r.tree.BlackHeight(),
		Bound:       HeightBound(r.tree.Size()),
	}
	r.report.Samples = append(r.report.Samples, sample)

	if r.deps.Metrics != nil {
		r.deps.Metrics.RecordShape(ctx, sample.Size, sample.Height)
	}
}
