// internal/notify/notifier.go
package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"playbook-engine/internal/common/config"
	"playbook-engine/internal/common/logger"
	"playbook-engine/internal/models"
	"playbook-engine/internal/store"
)

// EmailSender and AlertPublisher are the slices of the AWS clients the
// notifier needs; tests substitute fakes.
type EmailSender interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error)
}

type AlertPublisher interface {
	Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error)
}

// Notifier sends user-facing email when a playbook completes and ops alerts
// when worker delivery breaks. Everything here is best effort; a notification
// failure is logged and swallowed.
type Notifier struct {
	users  store.UserStore
	email  EmailSender
	alerts AlertPublisher
	config config.NotificationConfig
	logger logger.Logger
}

func NewNotifier(users store.UserStore, email EmailSender, alerts AlertPublisher, cfg config.NotificationConfig, log logger.Logger) *Notifier {
	return &Notifier{
		users:  users,
		email:  email,
		alerts: alerts,
		config: cfg,
		logger: log.WithFields(map[string]interface{}{"component": "notifier"}),
	}
}

// PlaybookCompleted emails the owning user that their playbook is ready.
func (n *Notifier) PlaybookCompleted(ctx context.Context, p *models.Playbook) {
	if !n.config.Email.Enabled || n.email == nil {
		return
	}

	user, err := n.users.GetByID(ctx, p.UserID)
	if err != nil {
		n.logger.Warn("completion email skipped, user lookup failed", map[string]interface{}{
			"playbookId": p.ID,
			"userId":     p.UserID,
			"error":      err.Error(),
		})
		return
	}

	subject := "Your stakeholder playbook is ready"
	body := fmt.Sprintf(
		"Hi %s,\n\nYour %s playbook has finished generating and is ready in your dashboard.\n",
		user.Name, p.Type,
	)

	input := &ses.SendEmailInput{
		Source:      aws.String(n.config.Email.FromEmail),
		Destination: &sestypes.Destination{ToAddresses: []string{user.Email}},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(body)},
			},
		},
	}
	if _, err := n.email.SendEmail(ctx, input); err != nil {
		n.logger.Warn("completion email failed", map[string]interface{}{
			"playbookId": p.ID,
			"error":      err.Error(),
		})
		return
	}
	n.logger.Info("completion email sent", map[string]interface{}{"playbookId": p.ID})
}

// DispatchFailed raises an ops alert when delivery to the analysis worker
// fails; user-facing handling already happened at the request boundary.
func (n *Notifier) DispatchFailed(ctx context.Context, endpoint string, cause error) {
	if !n.config.Alerts.Enabled || n.alerts == nil {
		return
	}

	message := fmt.Sprintf("playbook worker dispatch to %s failed: %v", endpoint, cause)
	input := &sns.PublishInput{
		TopicArn: aws.String(n.config.Alerts.TopicARN),
		Subject:  aws.String("playbook-engine dispatch failure"),
		Message:  aws.String(message),
	}
	if _, err := n.alerts.Publish(ctx, input); err != nil {
		n.logger.Warn("dispatch alert failed", map[string]interface{}{"error": err.Error()})
	}
}
