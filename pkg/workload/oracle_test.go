package workload //nolint:testpackage // Exercises the unexported verifier.

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/rbtree/pkg/config"
)

func newTestRunner(order string) *runner {
	return &runner{
		cfg:    config.WorkloadConfig{Order: order},
		deps:   Deps{Logger: slog.New(slog.DiscardHandler), Tracer: nooptrace.NewTracerProvider().Tracer("")},
		tree:   NewTree(order),
		oracle: make(map[int]int),
		stats:  make(map[string]*OpStats),
		report: &Report{},
	}
}

func TestLineDiff(t *testing.T) {
	t.Parallel()

	got := lineDiff("1=1\n2=2\n3=3\n", "1=1\n3=3\n4=4\n")
	assert.Equal(t, "-2=2\n+4=4\n", got)
}

func TestLineDiff_Truncated(t *testing.T) {
	t.Parallel()

	var want strings.Builder
	for key := range 40 {
		writeEntry(&want, key, key)
	}

	got := lineDiff(want.String(), "")
	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")

	require.Len(t, lines, maxDiffLines+1)
	assert.Equal(t, "-0=0", lines[0])
	assert.Equal(t, "...", lines[maxDiffLines])
}

func TestCompareTraversal(t *testing.T) {
	t.Parallel()

	for _, order := range []string{config.OrderAscending, config.OrderDescending} {
		r := newTestRunner(order)

		for key := range 10 {
			r.tree.Put(key, key*key)
			r.oracle[key] = key * key
		}

		require.NoError(t, r.compareTraversal(), order)

		r.oracle[42] = 0
		err := r.compareTraversal()
		require.ErrorIs(t, err, ErrDivergence, order)
		assert.Contains(t, err.Error(), "-42=0", order)

		delete(r.oracle, 42)
		*r.tree.Find(3) = 0
		err = r.compareTraversal()
		require.ErrorIs(t, err, ErrDivergence, order)
		assert.Contains(t, err.Error(), "+3=0", order)
		assert.Contains(t, err.Error(), "-3=9", order)
	}
}

func TestApply_DetectsDivergence(t *testing.T) {
	t.Parallel()

	r := newTestRunner(config.OrderAscending)
	r.stats[OpFind] = &OpStats{Op: OpFind}
	r.stats[OpDelete] = &OpStats{Op: OpDelete}

	// The oracle claims a key the tree never saw.
	r.oracle[7] = 1

	err := r.apply(context.Background(), OpFind, 7, 1)
	require.ErrorIs(t, err, ErrDivergence)

	err = r.apply(context.Background(), OpDelete, 7, 2)
	require.ErrorIs(t, err, ErrDivergence)

	assert.Equal(t, 1, r.stats[OpFind].Hits)
	assert.Equal(t, 1, r.stats[OpDelete].Hits)
}

func TestVerify_Passes(t *testing.T) {
	t.Parallel()

	r := newTestRunner(config.OrderAscending)
	r.stats[OpPut] = &OpStats{Op: OpPut}

	for step := 1; step <= 100; step++ {
		require.NoError(t, r.apply(context.Background(), OpPut, step, step))
	}

	require.NoError(t, r.verify(context.Background(), 100))
	assert.Equal(t, 1, r.report.Validations)
	assert.Equal(t, 100, r.stats[OpPut].Misses)
}

func TestPick(t *testing.T) {
	t.Parallel()

	r := newTestRunner(config.OrderAscending)
	r.cfg.PutRatio = 0.5
	r.cfg.DeleteRatio = 0.25
	r.cfg.GetOrInsertRatio = 0.125

	assert.Equal(t, OpPut, r.pick(0))
	assert.Equal(t, OpPut, r.pick(0.49))
	assert.Equal(t, OpDelete, r.pick(0.5))
	assert.Equal(t, OpGetOrInsert, r.pick(0.8))
	assert.Equal(t, OpFind, r.pick(0.875))
	assert.Equal(t, OpFind, r.pick(0.99))
}
