package noop

import (
	"context"
	"log"

	"tlcintake/internal/domain"
	"tlcintake/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a no-op EmailSender that logs confirmations to stdout.
func NewNoopSender() port.EmailSender {
	return &noopSender{}
}

func (s *noopSender) SendSubmissionConfirmation(_ context.Context, toEmail string, lang domain.Language, confirmationNumber string) error {
	log.Printf("[NOOP EMAIL] Submission confirmation %s for %s (lang=%s)", confirmationNumber, toEmail, lang)
	return nil
}
