package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/lattice/pkg/domain"
)

// BuildFunc produces a diagram. It should return promptly once ctx is done.
type BuildFunc func(ctx context.Context) (*domain.Diagram, error)

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithBuildTimeout bounds every build. Zero means no limit.
func WithBuildTimeout(d time.Duration) LoaderOption {
	return func(l *Loader) {
		l.timeout = d
	}
}

// Loader holds the latest built diagram for a changing build function.
//
// The state starts nil. A successful build replaces it and a failed build
// reverts it to nil. While a build is in flight the previous diagram stays
// current. Every Use bumps a generation counter; a build only publishes if
// its generation is still the latest and the loader is open.
type Loader struct {
	logger  *slog.Logger
	timeout time.Duration

	mu      sync.Mutex
	gen     uint64
	key     string
	started bool
	closed  bool
	cancel  context.CancelFunc
	current *domain.Diagram
	lastErr error
	subs    map[int]chan *domain.Diagram
	nextSub int

	// running counts builds that have not returned; idle is signalled on l.mu
	// when it drops to zero.
	running int
	idle    *sync.Cond
}

// NewLoader creates an idle loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		subs:   make(map[int]chan *domain.Diagram),
	}
	l.idle = sync.NewCond(&l.mu)
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Use starts fn if key differs from the key of the last Use. The in-flight
// build, if any, is cancelled and its result will be ignored.
func (l *Loader) Use(key string, fn BuildFunc) {
	l.mu.Lock()
	if l.started && key == l.key {
		l.mu.Unlock()
		return
	}
	l.start(key, fn)
	l.mu.Unlock()
}

// Reload re-runs fn under the current key even if it did not change.
func (l *Loader) Reload(fn BuildFunc) {
	l.mu.Lock()
	l.start(l.key, fn)
	l.mu.Unlock()
}

// start must be called with l.mu held.
func (l *Loader) start(key string, fn BuildFunc) {
	if l.closed {
		return
	}
	l.started = true
	l.key = key
	if l.cancel != nil {
		l.cancel()
	}
	l.gen++
	gen := l.gen

	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if l.timeout > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), l.timeout)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}
	l.cancel = cancel
	l.running++

	l.logger.Debug("build requested", "key", key, "generation", gen)
	go l.run(ctx, cancel, gen, key, fn)
}

func (l *Loader) run(ctx context.Context, cancel context.CancelFunc, gen uint64, key string, fn BuildFunc) {
	defer cancel()

	d, err := safeBuild(ctx, fn)

	l.mu.Lock()
	defer l.mu.Unlock()
	defer l.finished()
	if l.closed || gen != l.gen {
		l.logger.Debug("discarding stale build", "key", key, "generation", gen)
		return
	}
	l.lastErr = err
	if err != nil {
		l.logger.Error("diagram build failed", "key", key, "err", err)
		d = nil
	}
	l.publish(d)
}

func safeBuild(ctx context.Context, fn BuildFunc) (d *domain.Diagram, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: build panicked: %v", domain.ErrBuildFailed, r)
		}
	}()
	return fn(ctx)
}

// finished must be called with l.mu held.
func (l *Loader) finished() {
	l.running--
	if l.running == 0 {
		l.idle.Broadcast()
	}
}

// publish must be called with l.mu held.
func (l *Loader) publish(d *domain.Diagram) {
	if d == l.current {
		return
	}
	l.current = d
	for _, ch := range l.subs {
		select {
		case ch <- d:
		default:
			// Latest wins: drop the unread value.
			select {
			case <-ch:
			default:
			}
			ch <- d
		}
	}
}

// Current returns the latest published diagram, or nil.
func (l *Loader) Current() *domain.Diagram {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

// Err returns the error of the latest applied build.
func (l *Loader) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastErr
}

// Key returns the key of the last Use.
func (l *Loader) Key() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.key
}

// Subscribe returns a channel receiving every state change. Slow readers
// only see the latest value. The returned func unsubscribes and closes the
// channel.
func (l *Loader) Subscribe() (<-chan *domain.Diagram, func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch := make(chan *domain.Diagram, 1)
	if l.closed {
		close(ch)
		return ch, func() {}
	}
	id := l.nextSub
	l.nextSub++
	l.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			if _, ok := l.subs[id]; ok {
				delete(l.subs, id)
				close(ch)
			}
		})
	}
}

// Wait blocks until no build is in flight. Builds started while waiting
// are waited for too. Safe to call from several goroutines.
func (l *Loader) Wait() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.waitIdle()
}

// waitIdle must be called with l.mu held.
func (l *Loader) waitIdle() {
	for l.running > 0 {
		l.idle.Wait()
	}
}

// Close cancels the in-flight build, closes every subscription and waits for
// running builds to return. Results arriving after Close are discarded.
func (l *Loader) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	if l.cancel != nil {
		l.cancel()
	}
	for id, ch := range l.subs {
		delete(l.subs, id)
		close(ch)
	}
	l.waitIdle()
	l.mu.Unlock()
}
