package port

import (
	"context"
	"encoding/json"

	"tlcintake/internal/domain"
)

// DocumentFile is one uploaded file in an extraction batch.
type DocumentFile struct {
	Filename    string
	ContentType string
	Bytes       []byte
	TypeHint    domain.DocumentTag
}

// ExtractInput carries one batch of documents for a single model call.
type ExtractInput struct {
	Files []DocumentFile
}

// ExtractOutput contains the raw result of an extraction call. RawDocuments
// is the model's JSON output verbatim; its structure is not guaranteed and
// must pass through the normalizer before use.
type ExtractOutput struct {
	RawDocuments json.RawMessage
	ModelUsed    string
	PromptUsed   string
}

// DocumentExtractor abstracts the multimodal LLM extraction call.
type DocumentExtractor interface {
	Extract(ctx context.Context, input ExtractInput) (*ExtractOutput, error)
}
