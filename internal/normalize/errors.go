package normalize

import (
	"encoding/json"
	"fmt"

	"tlcintake/internal/domain"
)

// ExtractionError is a typed normalization failure. It carries the offending
// raw payload for diagnostics and matches domain.ErrExtractionFailed under
// errors.Is, so callers can route every failure through the same retry or
// manual-entry recovery path.
type ExtractionError struct {
	Reason string
	Raw    json.RawMessage
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extraction failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("extraction failed: %s", e.Reason)
}

func (e *ExtractionError) Unwrap() error {
	return domain.ErrExtractionFailed
}

func newExtractionError(reason string, raw json.RawMessage, err error) *ExtractionError {
	return &ExtractionError{Reason: reason, Raw: raw, Err: err}
}
