/*
Package lattice builds interactive mathematical diagrams from declarations.

A diagram is described in three phases. First the script declares the
vocabulary: opaque types and the predicates that relate them. Then it
creates instances and asserts facts about them. Finally it states style
rules: for every instance of a type, or every tuple satisfying a predicate,
the rule draws shapes, creates layout variables and adds constraints and
objectives. Build hands the accumulated problem to an L-BFGS optimizer and
returns an SVG element with every coordinate resolved.

# Usage

The facade wraps the layout engine and the built-in gallery of scripts.

	eng := lattice.New(lattice.WithLogger(logger))
	d, err := eng.Build(ctx, "circle")
	if err != nil {
		log.Fatal(err)
	}
	os.Stdout.Write(d.Element())

Custom diagrams are written with the dsl package against any session the
engine mints:

	b := dsl.New(eng.NewSession("pair", domain.Canvas{}))
	point := b.Type("Point")
	point.NewN("p", 2)
	point.ForAll(func(s domain.Style, p domain.Instance) error {
		s.Draw(domain.Circle(p.ID, "icon", s.Point(p.ID, 10), expr.Const(10)))
		return nil
	})
	d, err := b.Build(ctx)

# Architecture

The engine is hexagonal. The core (internal/runtime) turns rules into an
expression graph and solves it; adapters provide caching (memory, Redis),
archiving (loam), clipboard access, an HTTP API and an MCP server.
*/
package lattice
