/*
Package observability provides tools for monitoring the Lattice engine.

Metrics exposes Prometheus counters and histograms fed from the engine's
lifecycle hooks, and Chain combines several hook sets so metrics, audit
logging and callers' own hooks can observe the same builds.
*/
package observability
