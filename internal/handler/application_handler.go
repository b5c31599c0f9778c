package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tlcintake/internal/domain"
	"tlcintake/internal/normalize"
	"tlcintake/internal/port"
	"tlcintake/internal/service"
)

// ApplicationHandler exposes the one-shot intake flow: all documents in a
// single upload, one combined extraction, then an explicit submit with the
// reviewed fields. It carries no server-side session; the client holds the
// state between the two calls.
type ApplicationHandler struct {
	extraction service.ExtractionService
	registry   port.LicenseRegistry
	email      port.EmailSender
}

// NewApplicationHandler creates a new ApplicationHandler.
func NewApplicationHandler(extraction service.ExtractionService, registry port.LicenseRegistry, email port.EmailSender) *ApplicationHandler {
	return &ApplicationHandler{extraction: extraction, registry: registry, email: email}
}

type extractResponse struct {
	ApplicationID string                                  `json:"application_id"`
	Fields        []normalize.Field                       `json:"fields"`
	Shapes        map[domain.DocumentType]normalize.Shape `json:"shapes"`
	Files         map[domain.DocumentTag]string           `json:"files"`
	OwnedBySelf   *bool                                   `json:"owned_by_self,omitempty"`
}

// Extract handles POST /api/v1/applications/extract
func (h *ApplicationHandler) Extract(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "multipart form is required")
		return
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "at least one file is required")
		return
	}

	inputs := make([]service.DocumentUploadInput, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "file could not be read")
			return
		}
		defer file.Close()
		inputs = append(inputs, service.DocumentUploadInput{File: file, Header: header})
	}

	applicationID := uuid.New().String()
	result, refs, err := h.extraction.ExtractBatch(c.Request.Context(), applicationID, inputs, normalize.Context{})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, extractResponse{
		ApplicationID: applicationID,
		Fields:        normalize.Flatten(result.Documents),
		Shapes:        result.Shapes,
		Files:         refs,
		OwnedBySelf:   result.InferredOwnedBySelf,
	})
}

type submitRequest struct {
	ApplicationID string                                  `json:"application_id" binding:"required"`
	Language      domain.Language                         `json:"language"`
	Fields        []normalize.Field                       `json:"fields" binding:"required"`
	Shapes        map[domain.DocumentType]normalize.Shape `json:"shapes"`
	Files         map[domain.DocumentTag]string           `json:"files"`
	Email         string                                  `json:"email"`
}

// Submit handles POST /api/v1/applications/submit
func (h *ApplicationHandler) Submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "application_id and fields are required")
		return
	}
	if !domain.SupportedLanguages[req.Language] {
		req.Language = domain.LangEnglish
	}

	entries := normalize.RegroupEntries(req.Fields, req.Shapes)
	docs := make([]service.SubmissionEntry, 0, len(entries))
	for _, e := range entries {
		docs = append(docs, service.SubmissionEntry{Type: e.Category, Data: e.Payload})
	}

	payload := &service.SubmissionPayload{
		ApplicationID:      req.ApplicationID,
		ConfirmationNumber: "APP-" + req.ApplicationID,
		Language:           req.Language,
		SubmittedAt:        time.Now().UTC(),
		Documents:          docs,
		Files:              req.Files,
	}

	if license := fieldValue(req.Fields, string(domain.TypeNYSLicense)+" - License Number"); license != "" {
		record, err := h.registry.Lookup(c.Request.Context(), license)
		if err != nil {
			log.Printf("applicationHandler: registry lookup for %s failed: %v", req.ApplicationID, err)
		} else {
			payload.DMVRecord = record
		}
	}

	if req.Email != "" {
		if err := h.email.SendSubmissionConfirmation(c.Request.Context(), req.Email, req.Language, payload.ConfirmationNumber); err != nil {
			log.Printf("applicationHandler: confirmation email for %s failed: %v", req.ApplicationID, err)
		}
	}

	RespondOK(c, payload)
}

func fieldValue(fields []normalize.Field, key string) string {
	for _, f := range fields {
		if f.Key == key {
			return f.Value
		}
	}
	return ""
}
