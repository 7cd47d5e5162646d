package observability

import (
	"context"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	m := NewMetrics()
	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnBuildStart(ctx, &domain.BuildEvent{Diagram: "arrow"})
	assert.Equal(t, 1.0, testutil.ToFloat64(m.inFlight))

	hooks.OnBuildFinish(ctx, &domain.BuildEvent{Diagram: "arrow", Duration: 20 * time.Millisecond, Iterations: 42})
	assert.Equal(t, 0.0, testutil.ToFloat64(m.inFlight))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.builds.WithLabelValues("arrow", OutcomeOK)))

	hooks.OnBuildStart(ctx, &domain.BuildEvent{Diagram: "arrow"})
	hooks.OnBuildFinish(ctx, &domain.BuildEvent{
		Diagram: "arrow",
		Err:     fmt.Errorf("%w: %w", domain.ErrBuildFailed, domain.ErrInfeasible),
	})
	assert.Equal(t, 1.0, testutil.ToFloat64(m.builds.WithLabelValues("arrow", OutcomeInfeasible)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.iterations))
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.ObserveCache(true)
	m.ObserveCache(false)
	m.ObserveCache(false)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `lattice_cache_lookups_total{result="hit"} 1`), body)
	assert.True(t, strings.Contains(body, `lattice_cache_lookups_total{result="miss"} 2`), body)
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, OutcomeOK},
		{domain.ErrInfeasible, OutcomeInfeasible},
		{fmt.Errorf("%w: %w", domain.ErrBuildFailed, context.Canceled), OutcomeCanceled},
		{context.DeadlineExceeded, OutcomeCanceled},
		{domain.ErrBuildFailed, OutcomeFailed},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Outcome(tt.err), "%v", tt.err)
	}
}

func TestChain(t *testing.T) {
	var calls []string
	a := domain.LifecycleHooks{
		OnBuildStart:  func(context.Context, *domain.BuildEvent) { calls = append(calls, "a.start") },
		OnBuildFinish: func(context.Context, *domain.BuildEvent) { calls = append(calls, "a.finish") },
	}
	b := domain.LifecycleHooks{
		OnBuildFinish: func(context.Context, *domain.BuildEvent) { calls = append(calls, "b.finish") },
	}

	h := Chain(a, domain.LifecycleHooks{}, b)
	h.OnBuildStart(context.Background(), &domain.BuildEvent{})
	h.OnBuildFinish(context.Background(), &domain.BuildEvent{})
	assert.Equal(t, []string{"a.start", "a.finish", "b.finish"}, calls)

	empty := Chain()
	assert.Nil(t, empty.OnBuildStart)
	assert.Nil(t, empty.OnBuildFinish)
}
