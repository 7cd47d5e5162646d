/*
Package expr provides the symbolic expression algebra used to describe diagram
geometry.

Expressions are immutable trees over a small operator set (arithmetic, sqrt,
square, abs, max, min). Free variables are bound by index to a flat parameter
vector, which is what the layout optimizer moves. Vectors and matrices are
plain slices of scalar expressions, so vector operations (VAdd, VDot, VDist,
VNormalize, MatVec, ...) simply build larger scalar trees.

Evaluation comes in two flavours:

  - (*Expr).Eval walks a tree directly; handy for one-off checks.
  - Compile flattens one or more trees into a Program whose Values and
    Gradient methods are used by the layout engine on every optimizer step.
    Gradient is reverse-mode automatic differentiation.

Nothing in this package guards against degenerate input: dividing by zero or
taking the square root of a negative number yields ±Inf or NaN exactly as
IEEE-754 arithmetic does.
*/
package expr
