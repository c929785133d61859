// Package crosslist groups the offerings of one term into course entities.
//
// Offerings declare the registration numbers they are cross-listed with.
// Resolution walks offerings in registration-number order and requires the
// declared sets to form disjoint cliques; a hint that touches two different
// entities is an input inconsistency and aborts the run. Term-scoped entity
// numbers are then promoted to stable global course ids through the
// lenient course_id cache.
package crosslist
