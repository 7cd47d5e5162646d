package observability

import (
	"context"

	"github.com/aretw0/lattice/pkg/domain"
)

// Chain combines multiple hook sets into one. Callbacks run in the order the
// sets are given; nil callbacks are skipped.
func Chain(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	var starts, finishes []func(context.Context, *domain.BuildEvent)
	for _, h := range hooks {
		if h.OnBuildStart != nil {
			starts = append(starts, h.OnBuildStart)
		}
		if h.OnBuildFinish != nil {
			finishes = append(finishes, h.OnBuildFinish)
		}
	}
	return domain.LifecycleHooks{
		OnBuildStart:  fanOut(starts),
		OnBuildFinish: fanOut(finishes),
	}
}

func fanOut(fns []func(context.Context, *domain.BuildEvent)) func(context.Context, *domain.BuildEvent) {
	switch len(fns) {
	case 0:
		return nil
	case 1:
		return fns[0]
	}
	return func(ctx context.Context, e *domain.BuildEvent) {
		for _, fn := range fns {
			fn(ctx, e)
		}
	}
}
