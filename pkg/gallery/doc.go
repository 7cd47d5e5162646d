// Package gallery holds the diagram scripts and the selector that feeds the
// selected script to a build loader.
//
// Every script follows the same three phases: declare a schema, mint an
// instance graph, then declare style rules. Scripts never solve anything
// themselves; they hand the declarations to a ports.Engine and return its
// result.
package gallery
