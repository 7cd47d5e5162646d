package dsl

import "github.com/aretw0/lattice/pkg/domain"

// Records holds one typed attribute record per instance, populated during
// the style phase and read by later rules.
type Records[T any] struct {
	m map[string]*T
}

// NewRecords creates an empty record table.
func NewRecords[T any]() *Records[T] {
	return &Records[T]{m: make(map[string]*T)}
}

// Of returns the record of in, creating a zero record on first use.
func (r *Records[T]) Of(in domain.Instance) *T {
	rec, ok := r.m[in.ID]
	if !ok {
		rec = new(T)
		r.m[in.ID] = rec
	}
	return rec
}

// Lookup returns the record of id if one was created.
func (r *Records[T]) Lookup(id string) (*T, bool) {
	rec, ok := r.m[id]
	return rec, ok
}

// Len is the number of records created.
func (r *Records[T]) Len() int { return len(r.m) }
