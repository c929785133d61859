// Package preflight provides readiness checks for the filesystem paths a
// catalogid run depends on.
//
// The pipeline calls RunAll before loading snapshots so a missing input
// directory or an unwritable cache fails fast, before any id cache is
// locked. The CLI "config validate" command reports the same results.
package preflight
