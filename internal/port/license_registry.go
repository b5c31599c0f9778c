package port

import (
	"context"
	"encoding/json"
)

// LicenseRegistry abstracts an external license-record lookup. The returned
// payload is opaque: it is appended verbatim to the submission output and
// never inspected.
type LicenseRegistry interface {
	Lookup(ctx context.Context, licenseNumber string) (json.RawMessage, error)
}
