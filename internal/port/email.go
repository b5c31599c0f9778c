package port

import (
	"context"

	"tlcintake/internal/domain"
)

// EmailSender abstracts outbound email delivery.
type EmailSender interface {
	// SendSubmissionConfirmation notifies the applicant that their
	// application was received, in the session's language.
	SendSubmissionConfirmation(ctx context.Context, toEmail string, lang domain.Language, confirmationNumber string) error
}
