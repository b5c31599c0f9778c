package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"tlcintake/internal/domain"
	"tlcintake/internal/normalize"
	"tlcintake/internal/port"
	"tlcintake/internal/session"
)

// SubmissionEntry is one category of the assembled submission, in order.
type SubmissionEntry struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// SubmissionPayload is the final application document assembled at submit
// time from the reviewed session state.
type SubmissionPayload struct {
	ApplicationID      string                        `json:"application_id"`
	ConfirmationNumber string                        `json:"confirmation_number"`
	Language           domain.Language               `json:"language"`
	SubmittedAt        time.Time                     `json:"submitted_at"`
	Documents          []SubmissionEntry             `json:"documents"`
	Files              map[domain.DocumentTag]string `json:"files,omitempty"`
	DMVRecord          json.RawMessage               `json:"dmv_record,omitempty"`
}

// SubmissionService assembles and submits a reviewed application.
type SubmissionService interface {
	Submit(ctx context.Context, sess *session.Session) (session.Prompt, error)
	AssemblePayload(ctx context.Context, sess *session.Session) (*SubmissionPayload, error)
}

type submissionService struct {
	registry port.LicenseRegistry
	email    port.EmailSender
}

// NewSubmissionService creates a SubmissionService.
func NewSubmissionService(registry port.LicenseRegistry, email port.EmailSender) SubmissionService {
	return &submissionService{registry: registry, email: email}
}

// AssemblePayload builds the submission document for a session at review.
// Contact and additional details lead the document list, followed by each
// extracted document regrouped into its structured form. The registry record
// is attached verbatim when the lookup succeeds; a lookup failure never
// blocks a submission.
func (s *submissionService) AssemblePayload(ctx context.Context, sess *session.Session) (*SubmissionPayload, error) {
	rec := sess.Record()

	entries := normalize.RegroupEntries(sess.ReviewFields(), sess.Shapes())
	docs := make([]SubmissionEntry, 0, len(entries))
	for _, e := range entries {
		docs = append(docs, SubmissionEntry{Type: e.Category, Data: e.Payload})
	}

	payload := &SubmissionPayload{
		ApplicationID:      rec.ApplicationID,
		ConfirmationNumber: "APP-" + rec.ApplicationID,
		Language:           rec.Language,
		SubmittedAt:        time.Now().UTC(),
		Documents:          docs,
		Files:              rec.Documents,
	}

	if rec.LicenseInfo.NYSLicenseNumber != "" {
		record, err := s.registry.Lookup(ctx, rec.LicenseInfo.NYSLicenseNumber)
		if err != nil {
			log.Printf("submissionService: registry lookup for application %s failed: %v", rec.ApplicationID, err)
		} else {
			payload.DMVRecord = record
		}
	}

	return payload, nil
}

// Submit finalizes a session at the review hub: it assembles the payload,
// sends the confirmation email and moves the session to its submitted state.
// The confirmation email is best effort.
func (s *submissionService) Submit(ctx context.Context, sess *session.Session) (session.Prompt, error) {
	if err := sess.BeginSubmission(); err != nil {
		return session.Prompt{}, err
	}

	payload, err := s.AssemblePayload(ctx, sess)
	if err != nil {
		return session.Prompt{}, err
	}

	if raw, err := json.Marshal(payload); err == nil {
		log.Printf("submissionService: application %s submitted: %s", payload.ApplicationID, raw)
	}

	rec := sess.Record()
	if rec.PersonalInfo.Email != "" {
		if err := s.email.SendSubmissionConfirmation(ctx, rec.PersonalInfo.Email, rec.Language, payload.ConfirmationNumber); err != nil {
			log.Printf("submissionService: confirmation email for application %s failed: %v", payload.ApplicationID, err)
		}
	}

	return sess.FinalizeSubmission(payload.ConfirmationNumber), nil
}
