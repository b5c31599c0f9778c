package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tlcintake/internal/service"
	"tlcintake/internal/session"
)

// SessionHandler exposes the intake session flow over HTTP. Every mutating
// endpoint answers with the session's next prompt, so a client only ever
// needs to render what it is told.
type SessionHandler struct {
	manager    *session.Manager
	extraction service.ExtractionService
	submission service.SubmissionService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(manager *session.Manager, extraction service.ExtractionService, submission service.SubmissionService) *SessionHandler {
	return &SessionHandler{manager: manager, extraction: extraction, submission: submission}
}

type promptResponse struct {
	SessionID string         `json:"session_id"`
	Prompt    session.Prompt `json:"prompt"`
}

func (h *SessionHandler) respondPrompt(c *gin.Context, status int, sess *session.Session, prompt session.Prompt) {
	c.JSON(status, APIResponse{Success: true, Data: promptResponse{SessionID: sess.ID, Prompt: prompt}})
}

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(c *gin.Context) {
	sess := h.manager.Create()
	h.respondPrompt(c, http.StatusCreated, sess, sess.Start())
}

// GetPrompt handles GET /api/v1/sessions/:id/prompt
func (h *SessionHandler) GetPrompt(c *gin.Context) {
	sess, err := h.manager.Get(c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	h.respondPrompt(c, http.StatusOK, sess, sess.CurrentPrompt())
}

type choiceRequest struct {
	Choice string `json:"choice" binding:"required"`
}

// Choice handles POST /api/v1/sessions/:id/choice
func (h *SessionHandler) Choice(c *gin.Context) {
	sess, err := h.manager.Get(c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}

	var req choiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "choice is required")
		return
	}

	// Submitting the reviewed application involves the registry and email
	// services, so it runs through the submission flow rather than the
	// state machine alone.
	if sess.Step() == session.StepReview && req.Choice == "submit" {
		prompt, err := h.submission.Submit(c.Request.Context(), sess)
		if err != nil {
			HandleError(c, err)
			return
		}
		h.respondPrompt(c, http.StatusOK, sess, prompt)
		return
	}

	prompt, err := sess.HandleChoice(req.Choice)
	if err != nil {
		HandleError(c, err)
		return
	}
	h.respondPrompt(c, http.StatusOK, sess, prompt)
}

type textRequest struct {
	Text string `json:"text" binding:"required"`
}

// Text handles POST /api/v1/sessions/:id/text
func (h *SessionHandler) Text(c *gin.Context) {
	sess, err := h.manager.Get(c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}

	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "text is required")
		return
	}

	prompt, err := sess.HandleText(req.Text)
	if err != nil {
		HandleError(c, err)
		return
	}
	h.respondPrompt(c, http.StatusOK, sess, prompt)
}

type fieldsRequest struct {
	Fields map[string]string `json:"fields" binding:"required"`
}

// Fields handles POST /api/v1/sessions/:id/fields
func (h *SessionHandler) Fields(c *gin.Context) {
	sess, err := h.manager.Get(c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}

	var req fieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "fields is required")
		return
	}

	prompt, err := sess.HandleFields(req.Fields)
	if err != nil {
		HandleError(c, err)
		return
	}
	h.respondPrompt(c, http.StatusOK, sess, prompt)
}

// Document handles POST /api/v1/sessions/:id/documents
func (h *SessionHandler) Document(c *gin.Context) {
	sess, err := h.manager.Get(c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "file is required")
		return
	}
	file, err := header.Open()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "file could not be read")
		return
	}
	defer file.Close()

	prompt, err := h.extraction.ProcessUpload(c.Request.Context(), sess, service.DocumentUploadInput{
		File:   file,
		Header: header,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	h.respondPrompt(c, http.StatusOK, sess, prompt)
}

// Delete handles DELETE /api/v1/sessions/:id
func (h *SessionHandler) Delete(c *gin.Context) {
	if _, err := h.manager.Get(c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}
	h.manager.Remove(c.Param("id"))
	RespondOK(c, gin.H{"deleted": true})
}
