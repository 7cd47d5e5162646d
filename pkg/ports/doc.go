/*
Package ports defines the driven ports (interfaces) of the diagram engine.

These interfaces decouple diagram scripts from the concrete layout engine and
the shell from its storage and clipboard backends.

# Key Interfaces

  - Engine / Session: the narrow boundary to the layout engine
    (declare-type, declare-predicate, new-instance, assert, declare-rule, build).
  - DiagramCache: stores rendered markup keyed by diagram and parameters
    (memory or Redis).
  - Archive: persists built diagrams as documents (Loam).
  - Clipboard: receives exported SVG text.
*/
package ports
