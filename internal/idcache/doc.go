// Package idcache persists natural-key to integer id mappings between runs.
//
// Each cache kind (offering_id, course_id, professor_id, flag_id) lives in
// its own JSON object file under the cache directory. A run loads every kind
// once, assigns ids from it, and merges the newly observed pairs back at the
// end. Strict kinds fail the run when a key would be reassigned; lenient
// kinds overwrite and report a diagnostic.
//
// The directory is guarded by an flock so two runs never interleave reads
// and writes of the same files.
package idcache
