package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
)

// DefaultFeedbackTTL is how long copy feedback stays visible.
const DefaultFeedbackTTL = 2 * time.Second

// Feedback texts shown after CopySVG.
const (
	FeedbackCopied = "SVG copied to clipboard"
	FeedbackFailed = "Copy failed"
)

// ErrNothingToCopy is returned by CopySVG when no diagram is mounted.
var ErrNothingToCopy = errors.New("no diagram to copy")

// Container is where a diagram's element is mounted. *bytes.Buffer satisfies it.
type Container interface {
	io.Writer
	Reset()
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithClipboard enables CopySVG.
func WithClipboard(c ports.Clipboard) RendererOption {
	return func(r *Renderer) {
		r.clipboard = c
	}
}

// WithFeedbackTTL sets how long copy feedback is kept.
func WithFeedbackTTL(d time.Duration) RendererOption {
	return func(r *Renderer) {
		r.feedbackTTL = d
	}
}

// WithRendererLogger configures the structured logger.
func WithRendererLogger(logger *slog.Logger) RendererOption {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Renderer mounts diagrams into a Container.
type Renderer struct {
	container   Container
	clipboard   ports.Clipboard
	feedbackTTL time.Duration
	logger      *slog.Logger

	mu       sync.Mutex
	mounted  *domain.Diagram
	feedback string
	timer    *time.Timer
}

// NewRenderer creates a renderer over container.
func NewRenderer(container Container, opts ...RendererOption) *Renderer {
	r := &Renderer{
		container:   container,
		feedbackTTL: DefaultFeedbackTTL,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render mounts d, clearing the container first. Rendering the diagram that
// is already mounted does nothing. A nil diagram leaves the container empty.
// Mount errors are logged and the cycle is skipped.
func (r *Renderer) Render(d *domain.Diagram) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d == r.mounted && d != nil {
		return
	}
	r.container.Reset()
	if d == nil {
		r.mounted = nil
		return
	}
	if err := mount(r.container, d); err != nil {
		r.logger.Error("render failed", "diagram", d.Name, "err", err)
		r.container.Reset()
		r.mounted = nil
		return
	}
	r.mounted = d
}

func mount(w io.Writer, d *domain.Diagram) error {
	el := d.Element()
	if len(el) == 0 {
		return fmt.Errorf("%w: %s has no markup", domain.ErrRenderFailed, d.Name)
	}
	if _, err := w.Write(el); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrRenderFailed, err)
	}
	return nil
}

// Watch renders every diagram received until updates closes or ctx is done.
func (r *Renderer) Watch(ctx context.Context, updates <-chan *domain.Diagram) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-updates:
			if !ok {
				return
			}
			r.Render(d)
		}
	}
}

// Mounted returns the diagram currently in the container.
func (r *Renderer) Mounted() *domain.Diagram {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mounted
}

// CopySVG places the mounted diagram's markup on the clipboard and sets
// feedback text that clears after the feedback TTL.
func (r *Renderer) CopySVG() error {
	r.mu.Lock()
	d, clip := r.mounted, r.clipboard
	r.mu.Unlock()

	var err error
	switch {
	case clip == nil:
		err = errors.New("clipboard not configured")
	case d == nil:
		err = ErrNothingToCopy
	default:
		err = clip.WriteAll(string(d.Element()))
	}

	if err != nil {
		r.logger.Warn("copy svg failed", "err", err)
		r.setFeedback(FeedbackFailed + ": " + err.Error())
		return err
	}
	r.setFeedback(FeedbackCopied)
	return nil
}

func (r *Renderer) setFeedback(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.feedback = text
	if r.timer != nil {
		r.timer.Stop()
	}
	r.timer = time.AfterFunc(r.feedbackTTL, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.feedback == text {
			r.feedback = ""
		}
	})
}

// Feedback returns the transient copy feedback, or "".
func (r *Renderer) Feedback() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.feedback
}

// Close stops the feedback timer.
func (r *Renderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.feedback = ""
}
