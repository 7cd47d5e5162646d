package domain

import "time"

// Diagram is the built, renderable result of one script.
type Diagram struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Canvas     Canvas             `json:"canvas"`
	Instances  []Instance         `json:"instances"`
	Facts      []Fact             `json:"facts"`
	Shapes     []Rendered         `json:"shapes"`
	Values     map[string]float64 `json:"values"`
	Energy     float64            `json:"energy"`
	Iterations int                `json:"iterations"`
	Duration   time.Duration      `json:"duration"`
	Markup     []byte             `json:"-"`
}

// Element returns the interactive SVG element produced by the build.
func (d *Diagram) Element() []byte { return d.Markup }

// Find returns the first shape drawn for owner with the given role.
func (d *Diagram) Find(owner, role string) (Rendered, bool) {
	for _, s := range d.Shapes {
		if s.Owner == owner && s.Role == role {
			return s, true
		}
	}
	return Rendered{}, false
}

// Owned returns every shape drawn with the given role, in paint order.
func (d *Diagram) Owned(role string) []Rendered {
	var out []Rendered
	for _, s := range d.Shapes {
		if s.Role == role {
			out = append(out, s)
		}
	}
	return out
}

// InstancesOf lists the instances of a type in creation order.
func (d *Diagram) InstancesOf(typeName string) []Instance {
	var out []Instance
	for _, in := range d.Instances {
		if in.Type == typeName {
			out = append(out, in)
		}
	}
	return out
}
