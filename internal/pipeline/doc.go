// Package pipeline orchestrates one identity-resolution run.
//
// Run holds the cache directory lock for its whole duration: it loads every
// id cache, assigns offering ids, resolves cross-listings, stabilizes course
// ids, resolves professors and flags, partitions and refines same-course
// groups, derives history links, verifies the output invariants, and only
// then merges the caches back. A failure at any step leaves the caches
// untouched. Execute wraps Run with preflight, snapshot loading, and export.
package pipeline
