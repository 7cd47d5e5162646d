/*
Package runner is the shell around diagram builds: it starts builds, keeps the
latest result and mounts it somewhere visible.

# Key Components

  - Loader: starts a build whenever its key changes and publishes the result.
    Results of superseded builds, and of builds finishing after Close, are
    discarded.
  - Renderer: mounts a diagram's markup into a Container, clearing it first,
    and copies the markup to a clipboard with transient feedback text.
  - SignalManager: an interrupt-aware context for long running commands.

# Usage

	loader := runner.NewLoader(runner.WithLogger(logger))
	defer loader.Close()

	var page bytes.Buffer
	renderer := runner.NewRenderer(&page, runner.WithClipboard(clip))
	updates, stop := loader.Subscribe()
	defer stop()
	go renderer.Watch(ctx, updates)

	loader.Use("arrow", func(ctx context.Context) (*domain.Diagram, error) {
		return gallery.Default().Build(ctx, engine, "arrow", params)
	})
*/
package runner
