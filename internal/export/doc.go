// Package export writes the resolved identity tables for bulk loading.
//
// Every table is described once (name, columns, row projection) and
// rendered both as CSV files and as one SQLite database whose schema is
// embedded. The database is recreated on each run; downstream loaders
// diff it against their own store.
package export
