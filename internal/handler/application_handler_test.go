package handler_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tlcintake/internal/domain"
	"tlcintake/internal/handler"
	"tlcintake/internal/normalize"
)

type extractEnvelope struct {
	Success bool                    `json:"success"`
	Data    handler.ExtractResponse `json:"data"`
	Error   *handler.APIError       `json:"error"`
}

func TestApplicationExtractAndSubmit(t *testing.T) {
	r, email := newTestRouter(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, name := range []string{"nys_license.png", "vehicle_title.png"} {
		part, err := mw.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write(pngBytes)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/applications/extract", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var env extractEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.True(t, env.Success)
	assert.NotEmpty(t, env.Data.ApplicationID)
	assert.NotEmpty(t, env.Data.Fields)
	assert.Contains(t, env.Data.Files, domain.TagNYSLicense)
	assert.Contains(t, env.Data.Files, domain.TagVehicleTitle)

	// Owner name on the title matches the license holder
	require.NotNil(t, env.Data.OwnedBySelf)
	assert.True(t, *env.Data.OwnedBySelf)

	licenseKey := string(domain.TypeNYSLicense) + " - License Number"
	found := false
	for _, f := range env.Data.Fields {
		if f.Key == licenseKey {
			found = true
			assert.Equal(t, "123456789", f.Value)
		}
	}
	assert.True(t, found)

	// Submit the reviewed fields
	submitBody := gin.H{
		"application_id": env.Data.ApplicationID,
		"language":       "en",
		"fields":         env.Data.Fields,
		"shapes":         env.Data.Shapes,
		"files":          env.Data.Files,
		"email":          "john@example.com",
	}
	w, _ = doJSON(t, r, http.MethodPost, "/api/v1/applications/submit", submitBody)
	require.Equal(t, http.StatusOK, w.Code)

	var submitEnv struct {
		Success bool `json:"success"`
		Data    struct {
			ConfirmationNumber string            `json:"confirmation_number"`
			Documents          []json.RawMessage `json:"documents"`
			DMVRecord          json.RawMessage   `json:"dmv_record"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &submitEnv))
	require.True(t, submitEnv.Success)
	assert.Equal(t, "APP-"+env.Data.ApplicationID, submitEnv.Data.ConfirmationNumber)
	assert.NotEmpty(t, submitEnv.Data.Documents)
	assert.JSONEq(t, `{"status":"VALID"}`, string(submitEnv.Data.DMVRecord))
	assert.Equal(t, 1, email.sent)
}

func TestApplicationExtractRequiresFiles(t *testing.T) {
	r, _ := newTestRouter(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/applications/extract", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestApplicationSubmitValidation(t *testing.T) {
	r, _ := newTestRouter(t)

	w, env := doJSON(t, r, http.MethodPost, "/api/v1/applications/submit", gin.H{"language": "en"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INVALID_REQUEST", env.Error.Code)
}

func TestApplicationSubmitRoundTripsUnknownLanguage(t *testing.T) {
	r, _ := newTestRouter(t)

	body := gin.H{
		"application_id": "abc",
		"language":       "fr",
		"fields": []normalize.Field{
			{Key: "Contact - Phone", Value: "555-0100"},
		},
	}
	w, _ := doJSON(t, r, http.MethodPost, "/api/v1/applications/submit", body)
	assert.Equal(t, http.StatusOK, w.Code)
}
