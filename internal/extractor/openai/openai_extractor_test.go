package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tlcintake/internal/config"
	"tlcintake/internal/domain"
	"tlcintake/internal/extractor"
	"tlcintake/internal/extractor/openai"
	"tlcintake/internal/port"
)

func newTestExtractor(serverURL string) *openai.Extractor {
	cfg := &config.ExtractorProviderConfig{
		Provider:     "openai",
		APIKey:       "test-openai-key",
		DefaultModel: "gpt-4o-mini",
		TimeoutSecs:  30,
	}
	return openai.NewExtractorWithEndpoint(cfg, serverURL)
}

func successResponse(content string) map[string]interface{} {
	return map[string]interface{}{
		"choices": []map[string]interface{}{
			{
				"message": map[string]interface{}{
					"role":    "assistant",
					"content": content,
				},
				"finish_reason": "stop",
			},
		},
	}
}

func TestExtract_Success(t *testing.T) {
	llmJSON := `{"documents":[{"type":"NYS Driver License","filename":"license.jpg","data":{"license_number":"123456789","first_name":"John","last_name":"Public"}}]}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-openai-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var reqBody map[string]interface{}
		err := json.NewDecoder(r.Body).Decode(&reqBody)
		assert.NoError(t, err)
		assert.Equal(t, "gpt-4o-mini", reqBody["model"])
		assert.Equal(t, float64(0), reqBody["temperature"])

		respFormat := reqBody["response_format"].(map[string]interface{})
		assert.Equal(t, "json_object", respFormat["type"])

		messages := reqBody["messages"].([]interface{})
		require.Len(t, messages, 2)

		system := messages[0].(map[string]interface{})
		assert.Equal(t, "system", system["role"])
		assert.Contains(t, system["content"], "NYS Driver License")
		assert.Contains(t, system["content"], "license_number")

		user := messages[1].(map[string]interface{})
		assert.Equal(t, "user", user["role"])
		content := user["content"].([]interface{})
		require.Len(t, content, 2)

		// Per file: text hint first, then the encoded image
		hint := content[0].(map[string]interface{})
		assert.Equal(t, "text", hint["type"])
		assert.Contains(t, hint["text"], "license.jpg")
		assert.Contains(t, hint["text"], "NYS Driver License")

		img := content[1].(map[string]interface{})
		assert.Equal(t, "image_url", img["type"])

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(successResponse(llmJSON))
	}))
	defer server.Close()

	e := newTestExtractor(server.URL)

	result, err := e.Extract(context.Background(), port.ExtractInput{
		Files: []port.DocumentFile{
			{
				Filename:    "license.jpg",
				ContentType: "image/jpeg",
				Bytes:       []byte("fake image bytes"),
				TypeHint:    domain.TagNYSLicense,
			},
		},
	})

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "gpt-4o-mini", result.ModelUsed)
	assert.NotEmpty(t, result.PromptUsed)
	assert.JSONEq(t, llmJSON, string(result.RawDocuments))
}

func TestExtract_MultipleFilesPreserveOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var reqBody map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&reqBody)

		messages := reqBody["messages"].([]interface{})
		user := messages[1].(map[string]interface{})
		content := user["content"].([]interface{})
		require.Len(t, content, 4)

		first := content[0].(map[string]interface{})
		assert.Contains(t, first["text"], "nys.jpg")
		third := content[2].(map[string]interface{})
		assert.Contains(t, third["text"], "title.pdf")
		fourth := content[3].(map[string]interface{})
		assert.Equal(t, "file", fourth["type"])

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(successResponse(`{"documents":[]}`))
	}))
	defer server.Close()

	e := newTestExtractor(server.URL)

	_, err := e.Extract(context.Background(), port.ExtractInput{
		Files: []port.DocumentFile{
			{Filename: "nys.jpg", ContentType: "image/jpeg", Bytes: []byte("a"), TypeHint: domain.TagNYSLicense},
			{Filename: "title.pdf", ContentType: "application/pdf", Bytes: []byte("b"), TypeHint: domain.TagVehicleTitle},
		},
	})
	require.NoError(t, err)
}

func TestExtract_UnsupportedContentTypeFailsBatch(t *testing.T) {
	e := newTestExtractor("http://localhost:0")

	_, err := e.Extract(context.Background(), port.ExtractInput{
		Files: []port.DocumentFile{
			{Filename: "a.jpg", ContentType: "image/jpeg", Bytes: []byte("a"), TypeHint: domain.TagNYSLicense},
			{Filename: "b.gif", ContentType: "image/gif", Bytes: []byte("b"), TypeHint: domain.TagUnknown},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported content type")
}

func TestExtract_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limit exceeded"}}`))
	}))
	defer server.Close()

	e := newTestExtractor(server.URL)

	_, err := e.Extract(context.Background(), port.ExtractInput{
		Files: []port.DocumentFile{
			{Filename: "a.jpg", ContentType: "image/jpeg", Bytes: []byte("a"), TypeHint: domain.TagNYSLicense},
		},
	})
	require.Error(t, err)

	var rlErr *extractor.RateLimitError
	require.ErrorAs(t, err, &rlErr)
	assert.Equal(t, "openai", rlErr.Provider)
	assert.Equal(t, float64(30), rlErr.RetryAfter.Seconds())
}

func TestExtract_TruncatedOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := successResponse(`{"documents":[`)
		resp["choices"].([]map[string]interface{})[0]["finish_reason"] = "length"
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	e := newTestExtractor(server.URL)

	_, err := e.Extract(context.Background(), port.ExtractInput{
		Files: []port.DocumentFile{
			{Filename: "a.jpg", ContentType: "image/jpeg", Bytes: []byte("a"), TypeHint: domain.TagNYSLicense},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "truncated")
}
