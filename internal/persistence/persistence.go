// Package persistence provides append-only trace stores used by runners
// to record executed steps. Traces are observability data, not engine
// state; a runner works identically with the noop store.
package persistence
