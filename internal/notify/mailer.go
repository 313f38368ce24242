// Package notify mails rendered templates to suppliers.
package notify

import (
	"context"
	"time"

	apperrors "tour-backoffice/internal/common/errors"
	"tour-backoffice/internal/common/logger"
	"tour-backoffice/internal/common/validation"
	"tour-backoffice/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/google/uuid"
)

type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type Message struct {
	TemplateID  string
	RecipientID string
	To          string
	Subject     string
	Body        string
}

type Mailer struct {
	ses     SESService
	from    string
	enabled bool
	logger  logger.Logger
	now     func() time.Time
}

// NewMailer returns a mailer. A nil client or enabled=false yields a mailer
// that refuses to send.
func NewMailer(client SESService, from string, enabled bool, log logger.Logger) *Mailer {
	return &Mailer{
		ses:     client,
		from:    from,
		enabled: enabled && client != nil,
		logger:  log.WithFields(map[string]interface{}{"component": "mailer"}),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (m *Mailer) Enabled() bool {
	return m != nil && m.enabled
}

// Send delivers msg as a plain-text email.
func (m *Mailer) Send(ctx context.Context, msg Message) (*models.Notification, error) {
	if !m.Enabled() {
		return nil, apperrors.NewNotificationDisabledError(models.ChannelEmail)
	}
	if !validation.ValidateEmail(msg.To) {
		return nil, apperrors.NewInvalidArgumentError("to", "invalid recipient email address: "+msg.To)
	}

	out, err := m.ses.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{msg.To},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String("UTF-8")},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(msg.Body), Charset: aws.String("UTF-8")},
			},
		},
		Source: aws.String(m.from),
	})
	if err != nil {
		m.logger.Error("email send failed", map[string]interface{}{
			"to":         msg.To,
			"templateId": msg.TemplateID,
			"error":      err.Error(),
		})
		return nil, apperrors.NewNotificationSendFailedError(models.ChannelEmail, err)
	}

	n := &models.Notification{
		ID:          uuid.New().String(),
		TemplateID:  msg.TemplateID,
		RecipientID: msg.RecipientID,
		Recipient:   msg.To,
		Channel:     models.ChannelEmail,
		Status:      models.NotificationSent,
		Subject:     msg.Subject,
		MessageID:   aws.ToString(out.MessageId),
		SentAt:      m.now().Format(time.RFC3339),
	}

	m.logger.Info("email sent", map[string]interface{}{
		"to":         msg.To,
		"templateId": msg.TemplateID,
		"messageId":  n.MessageID,
	})
	return n, nil
}
