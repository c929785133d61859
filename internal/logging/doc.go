// Package logging assembles structured slog loggers and formatting helpers used
// across the identity resolution pipeline.
//
// It owns the console and JSON handlers, centralizes level and output plumbing,
// and exposes helpers so stage code can tag log lines with its component and
// the run id. Data-quality warnings go through WarnWithContext so every one
// carries an event type, a hint, and an impact. NewNop serves tests and
// callers that pass a nil logger.
package logging
