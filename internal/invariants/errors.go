package invariants

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInconsistentCrossListing = errors.New("inconsistent cross-listing")
	ErrOverrideConflict         = errors.New("override split conflict")
	ErrCacheConflict            = errors.New("id cache conflict")
	ErrInvalidInput             = errors.New("invalid input")
	ErrConfiguration            = errors.New("configuration error")
	ErrInvariant                = errors.New("invariant violated")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker. The marker should be one of the exported sentinel errors.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrInvariant
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind classifies an error for exit reporting.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInconsistentCrossListing), errors.Is(err, ErrOverrideConflict), errors.Is(err, ErrInvalidInput):
		return "input"
	case errors.Is(err, ErrCacheConflict):
		return "cache"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	default:
		return "internal"
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "identity resolution failure"
	}
	return strings.Join(parts, ": ")
}
