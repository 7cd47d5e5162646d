package runner_test

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type brokenContainer struct{ resets int }

func (c *brokenContainer) Write([]byte) (int, error) { return 0, errors.New("detached") }
func (c *brokenContainer) Reset()                    { c.resets++ }

type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) WriteAll(text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

func TestRenderer_ClearsBeforeMounting(t *testing.T) {
	var page bytes.Buffer
	r := runner.NewRenderer(&page)
	defer r.Close()

	r.Render(diagram("one"))
	assert.Equal(t, "<svg>one</svg>", page.String())

	r.Render(diagram("two"))
	assert.Equal(t, "<svg>two</svg>", page.String())

	r.Render(nil)
	assert.Empty(t, page.String())
	assert.Nil(t, r.Mounted())
}

func TestRenderer_SkipsFailedMount(t *testing.T) {
	c := &brokenContainer{}
	r := runner.NewRenderer(c)
	defer r.Close()

	r.Render(diagram("one"))
	assert.Nil(t, r.Mounted())
	assert.Equal(t, 2, c.resets)

	var page bytes.Buffer
	r2 := runner.NewRenderer(&page)
	r2.Render(&domain.Diagram{Name: "empty"})
	assert.Nil(t, r2.Mounted())
}

func TestRenderer_CopySVG(t *testing.T) {
	var page bytes.Buffer
	clip := &fakeClipboard{}
	r := runner.NewRenderer(&page, runner.WithClipboard(clip), runner.WithFeedbackTTL(20*time.Millisecond))
	defer r.Close()

	assert.ErrorIs(t, r.CopySVG(), runner.ErrNothingToCopy)
	assert.Contains(t, r.Feedback(), runner.FeedbackFailed)

	r.Render(diagram("copy"))
	require.NoError(t, r.CopySVG())
	assert.Equal(t, "<svg>copy</svg>", clip.text)
	assert.Equal(t, runner.FeedbackCopied, r.Feedback())

	assert.Eventually(t, func() bool { return r.Feedback() == "" }, time.Second, 5*time.Millisecond)
}

func TestRenderer_CopyFailure(t *testing.T) {
	var page bytes.Buffer
	r := runner.NewRenderer(&page, runner.WithClipboard(&fakeClipboard{err: errors.New("no display")}))
	defer r.Close()

	r.Render(diagram("x"))
	assert.Error(t, r.CopySVG())
	assert.Equal(t, runner.FeedbackFailed+": no display", r.Feedback())
}

func TestRenderer_WatchesLoader(t *testing.T) {
	page := &syncBuffer{}
	r := runner.NewRenderer(page)
	defer r.Close()

	l := runner.NewLoader()
	updates, stop := l.Subscribe()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		r.Watch(ctx, updates)
	}()

	l.Use("watched", returns(diagram("watched")))
	assert.Eventually(t, func() bool { return page.String() == "<svg>watched</svg>" }, time.Second, time.Millisecond)

	stop()
	cancel()
	<-done
	l.Close()
}
