// Package catalog models one run's catalog snapshot: the offerings of every
// term, their registration numbers and declared cross-listings, and the term
// codes that order them.
//
// Offerings are immutable once loaded. Later stages refer to them by their
// index in the slice returned from LoadDir, or by (term, CRN).
package catalog
