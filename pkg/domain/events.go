package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventBuildStart  EventType = "build_start"
	EventBuildFinish EventType = "build_finish"
)

// BuildEvent describes one build of one diagram.
type BuildEvent struct {
	Timestamp  time.Time     `json:"timestamp"`
	Type       EventType     `json:"type"`
	BuildID    string        `json:"build_id"`
	Diagram    string        `json:"diagram"`
	Duration   time.Duration `json:"duration,omitempty"`
	Iterations int           `json:"iterations,omitempty"`
	Err        error         `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnBuildStart  func(context.Context, *BuildEvent)
	OnBuildFinish func(context.Context, *BuildEvent)
}
