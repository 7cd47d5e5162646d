package domain

import (
	"errors"
	"fmt"
)

// ErrBuildFailed wraps every failure of the asynchronous build step.
var ErrBuildFailed = errors.New("build failed")

// ErrRenderFailed is returned when a built diagram cannot be mounted or serialized.
var ErrRenderFailed = errors.New("render failed")

// ErrInfeasible is returned when the optimizer cannot satisfy the declared constraints.
var ErrInfeasible = errors.New("constraints not satisfied")

// ErrUnknownType is returned when an instance or rule names an undeclared type.
var ErrUnknownType = errors.New("unknown type")

// ErrUnknownPredicate is returned when a fact or rule names an undeclared predicate.
var ErrUnknownPredicate = errors.New("unknown predicate")

// ErrArity is returned when a fact tuple length does not match its predicate.
var ErrArity = errors.New("predicate arity mismatch")

// ErrTypeMismatch is returned when a fact argument has the wrong type.
var ErrTypeMismatch = errors.New("predicate argument type mismatch")

// ErrDuplicate is returned when a type, predicate or instance is declared twice.
var ErrDuplicate = errors.New("duplicate declaration")

// ErrDuplicateInstance is returned when an instance ID is minted twice in one
// session. It matches ErrDuplicate.
var ErrDuplicateInstance = fmt.Errorf("%w: instance", ErrDuplicate)

// ErrUnknownDiagram is returned when a gallery lookup fails.
var ErrUnknownDiagram = errors.New("unknown diagram")

// ErrCacheMiss is returned by diagram caches when a key is absent.
var ErrCacheMiss = errors.New("diagram not cached")
