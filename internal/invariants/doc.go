// Package invariants defines the error taxonomy shared by the identity
// resolution stages.
//
// Fatal input-inconsistency errors are tagged with one of the sentinel markers
// so callers can classify them with errors.Is. Messages always carry enough
// detail (term, registration numbers, codes) for a human to locate the
// offending source rows or extend the override list.
package invariants
