package alert

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/carboniq/server/internal/domain"
)

// Notifier delivers an alert outside the dashboard. Delivery is best effort;
// a failed notification never blocks alert persistence.
type Notifier interface {
	Notify(ctx context.Context, alert *domain.Alert) error
}

// SendGridNotifier implements Notifier via SendGrid transactional mail
type SendGridNotifier struct {
	fromEmail  string
	fromName   string
	recipients []string
	client     *sendgrid.Client
	log        *zap.Logger
}

func NewSendGridNotifier(apiKey, fromEmail, fromName string, recipients []string, log *zap.Logger) *SendGridNotifier {
	return &SendGridNotifier{
		fromEmail:  fromEmail,
		fromName:   fromName,
		recipients: recipients,
		client:     sendgrid.NewSendClient(apiKey),
		log:        log,
	}
}

func (n *SendGridNotifier) Notify(ctx context.Context, alert *domain.Alert) error {
	if len(n.recipients) == 0 {
		return nil
	}

	from := mail.NewEmail(n.fromName, n.fromEmail)
	subject := fmt.Sprintf("[%s] %s", alert.Severity, alert.Title)
	body := fmt.Sprintf("%s\n\nRaised at %s", alert.Message, alert.CreatedAt.Format("2006-01-02 15:04 MST"))

	message := mail.NewV3Mail()
	message.SetFrom(from)
	message.Subject = subject
	message.AddContent(mail.NewContent("text/plain", body))

	personalization := mail.NewPersonalization()
	for _, to := range n.recipients {
		personalization.AddTos(mail.NewEmail("", to))
	}
	message.AddPersonalizations(personalization)

	response, err := n.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid error: %w", err)
	}
	if response.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned status %d: %s", response.StatusCode, response.Body)
	}
	return nil
}
