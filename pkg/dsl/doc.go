/*
Package dsl provides a fluent Go DSL for declaring diagrams in the three phases
the layout engine expects.

 1. Schema: declare types and predicates.
 2. Instances: mint handles and assert facts over them.
 3. Style: declare rules for every instance of a type and every tuple a
    predicate holds for, drawing shapes and adding constraints.

Example usage:

	b := dsl.New(engine.NewSession("arrow", canvas))

	point := b.Type("Point")
	edge := b.Type("Edge")
	connects := b.Predicate("Connects", "Edge", "Point", "Point")

	p, q, e := point.New("p"), point.New("q"), edge.New("e")
	connects.Assert(e, p, q)

	icons := dsl.NewRecords[expr.Vec]()
	point.ForAll(func(s domain.Style, p domain.Instance) error {
		c := s.Point(p.ID, 40)
		*icons.Of(p) = c
		s.Draw(domain.Circle(p.ID, "icon", c, expr.Const(10)))
		return nil
	})
	connects.ForAllWhere(func(s domain.Style, m domain.Match) error {
		s.Draw(domain.Line(m.Key(), "arrow", *icons.Of(m.At(1)), *icons.Of(m.At(2))))
		return nil
	})

	diagram, err := b.Build(ctx)

Declaration errors are sticky: the first one is kept and returned by Build,
so scripts can be written without checking every call.
*/
package dsl
