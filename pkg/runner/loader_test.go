package runner_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func diagram(name string) *domain.Diagram {
	return &domain.Diagram{Name: name, Markup: []byte("<svg>" + name + "</svg>")}
}

func returns(d *domain.Diagram) runner.BuildFunc {
	return func(context.Context) (*domain.Diagram, error) { return d, nil }
}

func TestLoader_StartsNilAndPublishes(t *testing.T) {
	l := runner.NewLoader()
	defer l.Close()
	assert.Nil(t, l.Current())

	updates, stop := l.Subscribe()
	defer stop()

	d := diagram("arrow")
	l.Use("arrow", returns(d))
	l.Wait()

	assert.Same(t, d, l.Current())
	assert.NoError(t, l.Err())
	assert.Equal(t, "arrow", l.Key())
	select {
	case got := <-updates:
		assert.Same(t, d, got)
	case <-time.After(time.Second):
		t.Fatal("no update published")
	}
}

func TestLoader_SameKeyDoesNotRebuild(t *testing.T) {
	l := runner.NewLoader()
	defer l.Close()

	var calls atomic.Int32
	fn := func(context.Context) (*domain.Diagram, error) {
		calls.Add(1)
		return diagram("x"), nil
	}
	l.Use("x", fn)
	l.Wait()
	l.Use("x", fn)
	l.Wait()
	assert.Equal(t, int32(1), calls.Load())

	l.Reload(fn)
	l.Wait()
	assert.Equal(t, int32(2), calls.Load())
}

func TestLoader_IgnoresSupersededResult(t *testing.T) {
	l := runner.NewLoader()
	defer l.Close()

	release := make(chan struct{})
	stale, fresh := diagram("stale"), diagram("fresh")

	// The first build ignores cancellation and finishes last.
	l.Use("first", func(context.Context) (*domain.Diagram, error) {
		<-release
		return stale, nil
	})
	l.Use("second", returns(fresh))

	require.Eventually(t, func() bool { return l.Current() == fresh }, time.Second, time.Millisecond)
	close(release)
	l.Wait()

	assert.Same(t, fresh, l.Current())
}

func TestLoader_CancelsSupersededBuild(t *testing.T) {
	l := runner.NewLoader()
	defer l.Close()

	cancelled := make(chan error, 1)
	l.Use("slow", func(ctx context.Context) (*domain.Diagram, error) {
		<-ctx.Done()
		cancelled <- ctx.Err()
		return nil, ctx.Err()
	})
	l.Use("fast", returns(diagram("fast")))
	l.Wait()

	assert.ErrorIs(t, <-cancelled, context.Canceled)
	assert.Equal(t, "fast", l.Current().Name)
	assert.NoError(t, l.Err())
}

func TestLoader_FailureRevertsToNil(t *testing.T) {
	l := runner.NewLoader()
	defer l.Close()

	l.Use("ok", returns(diagram("ok")))
	l.Wait()
	require.NotNil(t, l.Current())

	boom := errors.New("solver exploded")
	l.Use("bad", func(context.Context) (*domain.Diagram, error) {
		return nil, errors.Join(domain.ErrBuildFailed, boom)
	})
	l.Wait()

	assert.Nil(t, l.Current())
	assert.ErrorIs(t, l.Err(), domain.ErrBuildFailed)
	assert.ErrorIs(t, l.Err(), boom)
}

func TestLoader_PanicIsABuildFailure(t *testing.T) {
	l := runner.NewLoader()
	defer l.Close()

	l.Use("panics", func(context.Context) (*domain.Diagram, error) { panic("nope") })
	l.Wait()

	assert.Nil(t, l.Current())
	assert.ErrorIs(t, l.Err(), domain.ErrBuildFailed)
}

func TestLoader_DiscardsResultAfterClose(t *testing.T) {
	l := runner.NewLoader()
	updates, _ := l.Subscribe()

	started := make(chan struct{})
	l.Use("late", func(ctx context.Context) (*domain.Diagram, error) {
		close(started)
		<-ctx.Done()
		return diagram("late"), nil
	})
	<-started
	l.Close()

	assert.Nil(t, l.Current())
	_, open := <-updates
	assert.False(t, open, "subscriptions are closed")

	l.Use("after", returns(diagram("after")))
	l.Wait()
	assert.Nil(t, l.Current())
}

func TestLoader_BuildTimeout(t *testing.T) {
	l := runner.NewLoader(runner.WithBuildTimeout(10 * time.Millisecond))
	defer l.Close()

	l.Use("slow", func(ctx context.Context) (*domain.Diagram, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	l.Wait()
	assert.ErrorIs(t, l.Err(), context.DeadlineExceeded)
}

func TestLoader_SlowSubscriberSeesLatest(t *testing.T) {
	l := runner.NewLoader()
	defer l.Close()
	updates, stop := l.Subscribe()
	defer stop()

	for _, name := range []string{"a", "b", "c"} {
		l.Use(name, returns(diagram(name)))
		l.Wait()
	}
	got := <-updates
	assert.Equal(t, "c", got.Name)
}

func TestLoader_WaitWhileBuildsStart(t *testing.T) {
	l := runner.NewLoader()
	defer l.Close()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			l.Use(fmt.Sprintf("k%d", i), func(ctx context.Context) (*domain.Diagram, error) {
				time.Sleep(time.Millisecond)
				return diagram("x"), nil
			})
		}()
		go func() {
			defer wg.Done()
			l.Wait()
		}()
	}
	wg.Wait()
	l.Wait()

	require.NotNil(t, l.Current())
	assert.Regexp(t, `^k\d$`, l.Key())
}

func TestLoader_ConcurrentReloadAndUse(t *testing.T) {
	l := runner.NewLoader()
	defer l.Close()

	var calls atomic.Int32
	fn := func(context.Context) (*domain.Diagram, error) {
		calls.Add(1)
		return diagram("x"), nil
	}
	l.Use("k", fn)
	l.Wait()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() { defer wg.Done(); l.Reload(fn) }()
		go func() { defer wg.Done(); l.Use("k", fn) }()
	}
	wg.Wait()
	l.Wait()

	// Use with an unchanged key never builds; every Reload does.
	assert.Equal(t, int32(5), calls.Load())
	assert.Equal(t, "k", l.Key())
}
