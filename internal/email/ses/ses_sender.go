package ses

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"tlcintake/internal/domain"
	"tlcintake/internal/i18n"
	"tlcintake/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	catalog     *i18n.Catalog
	fromAddress string
	fromName    string
}

// NewSESSender creates an SES-backed EmailSender.
func NewSESSender(region, fromAddress, fromName string, catalog *i18n.Catalog) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	return &sesSender{
		client:      sesv2.NewFromConfig(cfg),
		catalog:     catalog,
		fromAddress: fromAddress,
		fromName:    fromName,
	}, nil
}

func (s *sesSender) SendSubmissionConfirmation(ctx context.Context, toEmail string, lang domain.Language, confirmationNumber string) error {
	subject := s.catalog.Get("email_subject", lang)
	htmlBody := buildConfirmationHTML(s.catalog, lang, confirmationNumber)
	textBody := fmt.Sprintf("%s\n\n%s\n\n%s%s\n",
		s.catalog.Get("submission_success", lang),
		s.catalog.Get("submission_details", lang),
		s.catalog.Get("confirmation_number", lang),
		confirmationNumber,
	)

	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func buildConfirmationHTML(catalog *i18n.Catalog, lang domain.Language, confirmationNumber string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">%s</h2>
  <p>%s</p>
  <p style="text-align: center; margin: 30px 0; font-size: 18px;"><strong>%s%s</strong></p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">TLC Commercial Auto Insurance Intake</p>
</body>
</html>`,
		catalog.Get("submission_success", lang),
		catalog.Get("submission_details", lang),
		catalog.Get("confirmation_number", lang),
		confirmationNumber,
	)
}
