// Package scriq implements an embeddable evaluator for a small Python-like
// scripting language. Hosts hand it a syntax tree that was built elsewhere.
// The tree is either built in Go or decoded from a YAML or JSON document.
// The evaluator supports:
//   - Numbers, text, booleans, null and rectangular numeric arrays (NDArray).
//   - Arithmetic (+, -, *, /, %, **), the dot product (.), comparisons and
//     the logical operators and/or/not.
//   - Assignment, if/elif/else, while with break and continue, return and print.
//   - Array subscripts and inclusive a:b slices on arrays of rank 1 to 3.
//   - Calls to host procedures resolved by name and arity. A procedure may
//     return a Future; arithmetic on futures composes without blocking.
//
// Every call site can be served from an ArgCache keyed by its source offset,
// so a host can record or override the arguments a script passes. The engine
// enforces a step quota and a memory quota and honours context cancellation.
package scriq
