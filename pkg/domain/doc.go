/*
Package domain contains the core models shared by the diagram builder, the
layout engine and every adapter.

It is kept free of I/O and of any particular solver, following the same
hexagonal split as the rest of the module: scripts speak in domain terms, the
engine (see package ports) turns them into a laid-out Diagram.

# Key Entities

  - Type / Predicate: the schema of a diagram (opaque categories and named
    relations over fixed-arity tuples of them).
  - Instance / Fact: the object graph (handles minted from types, relation
    tuples asserted over them).
  - Rule: a style declaration that fires for every instance of a type or
    every tuple satisfying a predicate, drawing Shapes and declaring
    Constraints through a Style scope.
  - Diagram: the built result, holding concrete Rendered shapes, solved
    variable values and the SVG markup.
*/
package domain
