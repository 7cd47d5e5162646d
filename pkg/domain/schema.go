package domain

import "strings"

// Type is an opaque category of diagram entity (Point, Circle, Axis...).
type Type struct {
	Name string `json:"name"`
}

// Predicate is a named relation over a fixed-arity tuple of types.
type Predicate struct {
	Name   string   `json:"name"`
	Params []string `json:"params"`
}

// Arity is the tuple length the predicate accepts.
func (p Predicate) Arity() int { return len(p.Params) }

func (p Predicate) String() string {
	return p.Name + "(" + strings.Join(p.Params, ", ") + ")"
}

// Instance is a handle minted from a Type. Label is an optional free-form
// attribute attached to the handle.
type Instance struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Label string `json:"label,omitempty"`
}

// Fact asserts that Predicate holds for the ordered tuple Args (instance IDs).
type Fact struct {
	Predicate string   `json:"predicate"`
	Args      []string `json:"args"`
}

func (f Fact) String() string {
	return f.Predicate + "(" + strings.Join(f.Args, ", ") + ")"
}

// Holds reports whether f asserts predicate over exactly args.
func (f Fact) Holds(predicate string, args ...string) bool {
	if f.Predicate != predicate || len(f.Args) != len(args) {
		return false
	}
	for i := range args {
		if f.Args[i] != args[i] {
			return false
		}
	}
	return true
}
